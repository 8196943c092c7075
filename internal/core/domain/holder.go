package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// HolderType is the kind of account a holder represents.
type HolderType string

const (
	HolderCash HolderType = "cash"
	HolderBank HolderType = "bank"
	HolderCard HolderType = "card"
)

// IsValid reports whether the holder type is known.
func (t HolderType) IsValid() bool {
	return t == HolderCash || t == HolderBank || t == HolderCard
}

// Holder is a cash box, bank account or card. Balances are never stored.
type Holder struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Type     HolderType `json:"type"`
	IsActive bool       `json:"isActive"`
	AuditFields
}

// HolderBalance is the derived position of one holder, kept per currency.
type HolderBalance struct {
	HolderID      string          `json:"holderId"`
	HolderName    string          `json:"holderName"`
	HolderType    HolderType      `json:"holderType"`
	BalanceUSD    decimal.Decimal `json:"balanceUSD"`
	BalanceGEL    decimal.Decimal `json:"balanceGEL"`
	PendingInUSD  decimal.Decimal `json:"pendingInUSD"`
	PendingOutUSD decimal.Decimal `json:"pendingOutUSD"`
	PendingInGEL  decimal.Decimal `json:"pendingInGEL"`
	PendingOutGEL decimal.Decimal `json:"pendingOutGEL"`
	LastActivity  *time.Time      `json:"lastActivity,omitempty"`
}
