package storage

import (
	"context"
	"errors"
	"io"

	"github.com/SscSPs/tour_ledger/internal/core/ports"
)

// ErrNotConfigured is returned by every operation of Unavailable.
var ErrNotConfigured = errors.New("attachment storage is not configured")

// Unavailable stands in when no bucket credentials are set, so the API still
// starts and attachment calls fail with a clear error.
type Unavailable struct{}

var _ ports.ObjectStorage = Unavailable{}

func (Unavailable) Upload(context.Context, string, io.Reader, int64, string) error {
	return ErrNotConfigured
}

func (Unavailable) SignedURL(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}

func (Unavailable) Delete(context.Context, string) error {
	return ErrNotConfigured
}
