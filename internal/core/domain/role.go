package domain

import (
	"errors"
	"sort"
	"strings"
)

// Role is a back-office role. Coworker is the accountant role.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleWorker   Role = "worker"
	RoleCoworker Role = "coworker"
	RoleVisitor  Role = "visitor"
)

// ParseRole normalises a role name. "manager" and "accountant" are accepted as
// aliases of worker and coworker.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin, true
	case "worker", "manager":
		return RoleWorker, true
	case "coworker", "accountant":
		return RoleCoworker, true
	case "visitor":
		return RoleVisitor, true
	}
	return "", false
}

// Permission names an action gated by role.
type Permission string

const (
	PermViewConfirmations    Permission = "confirmations:view"
	PermEditConfirmations    Permission = "confirmations:edit"
	PermCreateBookingRequest Permission = "booking_requests:create"
	PermViewFinance          Permission = "finance:view"
	PermManageTransactions   Permission = "transactions:manage"
	PermToggleClientPaid     Permission = "confirmations:client_paid"
	PermToggleHotelsPaid     Permission = "confirmations:hotels_paid"
	PermManageAttachments    Permission = "attachments:manage"
	PermManageHolders        Permission = "holders:manage"
	PermSetExchangeRate      Permission = "exchange_rate:set"
	PermRunAutoGeneration    Permission = "finance:auto_generate"
	PermManageImportTokens   Permission = "import_tokens:manage"
	PermExport               Permission = "export:download"
	PermManageSavedHotels    Permission = "saved_hotels:manage"
)

var rolePermissions = map[Permission][]Role{
	PermViewConfirmations:    {RoleAdmin, RoleWorker, RoleCoworker, RoleVisitor},
	PermEditConfirmations:    {RoleAdmin, RoleWorker},
	PermCreateBookingRequest: {RoleAdmin, RoleWorker},
	PermViewFinance:          {RoleAdmin, RoleCoworker},
	PermManageTransactions:   {RoleAdmin, RoleCoworker},
	PermToggleClientPaid:     {RoleAdmin, RoleCoworker},
	PermToggleHotelsPaid:     {RoleAdmin, RoleWorker, RoleCoworker},
	PermManageAttachments:    {RoleAdmin, RoleWorker, RoleCoworker},
	PermManageHolders:        {RoleAdmin},
	PermSetExchangeRate:      {RoleAdmin, RoleCoworker},
	PermRunAutoGeneration:    {RoleAdmin, RoleCoworker},
	PermManageImportTokens:   {RoleAdmin},
	PermExport:               {RoleAdmin, RoleCoworker},
	PermManageSavedHotels:    {RoleAdmin, RoleWorker},
}

// Actor is the request-scoped identity every service call receives.
// EffectiveRole differs from Role only when an admin views the app as another role.
type Actor struct {
	UserID        string `json:"userId"`
	Role          Role   `json:"role"`
	EffectiveRole Role   `json:"effectiveRole"`
}

// SystemUserID attributes writes made by background jobs.
const SystemUserID = "system"

// SystemActor is used by scheduled jobs.
func SystemActor() Actor {
	return Actor{UserID: SystemUserID, Role: RoleAdmin, EffectiveRole: RoleAdmin}
}

// NewActor builds an actor, applying a view-as role when the caller is an admin.
func NewActor(userID string, role Role, viewAs string) (Actor, error) {
	actor := Actor{UserID: userID, Role: role, EffectiveRole: role}
	if strings.TrimSpace(viewAs) == "" {
		return actor, nil
	}
	if role != RoleAdmin {
		return Actor{}, errors.New("only admins can view the app as another role")
	}
	effective, ok := ParseRole(viewAs)
	if !ok {
		return Actor{}, errors.New("unknown view-as role")
	}
	actor.EffectiveRole = effective
	return actor, nil
}

// Can reports whether the actor's effective role grants the permission.
func (a Actor) Can(p Permission) bool {
	for _, r := range rolePermissions[p] {
		if r == a.EffectiveRole {
			return true
		}
	}
	return false
}

// Permissions lists what the actor's effective role grants, in a stable order.
func (a Actor) Permissions() []Permission {
	perms := make([]Permission, 0, len(rolePermissions))
	for p := range rolePermissions {
		if a.Can(p) {
			perms = append(perms, p)
		}
	}
	sort.Slice(perms, func(i, j int) bool { return perms[i] < perms[j] })
	return perms
}
