package dto

import "github.com/SscSPs/tour_ledger/internal/core/domain"

// ProfileResponse is the caller's identity as the back office sees it.
type ProfileResponse struct {
	Profile       domain.Profile      `json:"profile"`
	EffectiveRole domain.Role         `json:"effectiveRole"`
	Permissions   []domain.Permission `json:"permissions"`
}
