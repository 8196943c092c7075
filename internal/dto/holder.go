package dto

import "github.com/SscSPs/tour_ledger/internal/core/domain"

// CreateHolderRequest defines the data needed to create a holder.
type CreateHolderRequest struct {
	Name string            `json:"name" binding:"required,max=100"`
	Type domain.HolderType `json:"type" binding:"required,oneof=cash bank card"`
}

// UpdateHolderRequest defines the data allowed for updating a holder.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateHolderRequest struct {
	Name     *string            `json:"name" binding:"omitempty,max=100"`
	Type     *domain.HolderType `json:"type" binding:"omitempty,oneof=cash bank card"`
	IsActive *bool              `json:"isActive"`
}
