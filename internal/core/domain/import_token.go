package domain

import "time"

// ImportTokenPrefix starts every plaintext import key: tl_{tokenID}_{secret}.
const ImportTokenPrefix = "tl_"

// ImportToken authorises external systems to push confirmations.
type ImportToken struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	TokenHash  string     `json:"-"` // Never expose the hash in JSON responses
	CreatedBy  string     `json:"createdBy"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	RevokedAt  *time.Time `json:"-"`
}

// IsExpired checks if the token has expired
func (t *ImportToken) IsExpired(now time.Time) bool {
	if t.ExpiresAt == nil {
		return false
	}
	return t.ExpiresAt.Before(now)
}

// IsUsable reports whether the token may authenticate a request.
func (t *ImportToken) IsUsable(now time.Time) bool {
	return t.RevokedAt == nil && !t.IsExpired(now)
}
