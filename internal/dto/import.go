package dto

import "github.com/SscSPs/tour_ledger/internal/core/domain"

// ImportConfirmationsRequest carries confirmations pushed by an external system.
type ImportConfirmationsRequest struct {
	Confirmations []ConfirmationInput `json:"confirmations" binding:"required,min=1,max=500"`
}

// ImportRejection explains why one input was not imported.
type ImportRejection struct {
	Index            int    `json:"index"`
	ConfirmationCode string `json:"confirmationCode"`
	Reason           string `json:"reason"`
}

// ImportConfirmationsResponse summarises an import.
type ImportConfirmationsResponse struct {
	Created  int               `json:"created"`
	Updated  int               `json:"updated"`
	Rejected []ImportRejection `json:"rejected"`
}

// CreateImportTokenRequest creates an import key for an external system.
type CreateImportTokenRequest struct {
	Name string `json:"name" binding:"required,min=3,max=100" example:"Website booking form"`
	// ExpiresInDays is optional; without it the key never expires.
	ExpiresInDays *int `json:"expiresInDays" binding:"omitempty,min=1,max=3650" example:"365"`
}

// CreateImportTokenResponse carries the plaintext key, shown exactly once.
type CreateImportTokenResponse struct {
	Token   string             `json:"token" example:"tl_0f8c..._..."`
	Details domain.ImportToken `json:"details"`
}
