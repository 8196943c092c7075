package models

import "time"

// Profile is a row of the profiles table, keyed by the auth provider's user id.
type Profile struct {
	UserID   string `db:"user_id"`
	FullName string `db:"full_name"`
	Email    string `db:"email"`
	Role     string `db:"role"`
	AuditFields
}

// SavedHotel is an address-book entry used by booking requests.
type SavedHotel struct {
	SavedHotelID string `db:"saved_hotel_id"`
	Name         string `db:"name"`
	Email        string `db:"email"`
	AuditFields
}

// ImportToken represents an import key for external confirmation pushes
type ImportToken struct {
	ImportTokenID string     `db:"import_token_id"`
	Name          string     `db:"name"`
	TokenHash     string     `db:"token_hash"`
	CreatedBy     string     `db:"created_by"`
	LastUsedAt    *time.Time `db:"last_used_at"`
	ExpiresAt     *time.Time `db:"expires_at"`
	CreatedAt     time.Time  `db:"created_at"`
	RevokedAt     *time.Time `db:"revoked_at"`
}
