// Package pagination encodes keyset cursors for newest-first listings.
package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano

// Cursor points just past the last item of a page: the next page holds rows
// strictly older than (Date, CreatedAt, ID). The ID breaks ties between rows
// inserted in the same batch.
type Cursor struct {
	Date      time.Time
	CreatedAt time.Time
	ID        string
}

// EncodeToken renders a cursor as an opaque, URL-safe token.
func EncodeToken(c Cursor) string {
	raw := c.Date.UTC().Format(timeFormat) + "|" + c.CreatedAt.UTC().Format(timeFormat) + "|" + c.ID
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeToken parses a token produced by EncodeToken.
func DecodeToken(token string) (Cursor, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decoded), "|", 3)
	if len(parts) != 3 || parts[2] == "" {
		return Cursor{}, fmt.Errorf("invalid pagination token format (split)")
	}
	date, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (date parse): %w", err)
	}
	createdAt, err := time.Parse(timeFormat, parts[1])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}
	return Cursor{Date: date, CreatedAt: createdAt, ID: parts[2]}, nil
}
