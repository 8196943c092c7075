package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_MatchesSentinels(t *testing.T) {
	cause := errors.New("connection reset")

	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"not found", NewNotFoundError("confirmation missing"), ErrNotFound},
		{"validation", NewValidationError("amount must be positive"), ErrValidation},
		{"internal", NewAppError(http.StatusInternalServerError, "failed to query", cause), ErrInternal},
		{"duplicate", NewDuplicateError("code taken"), ErrDuplicate},
		{"wrapped twice", fmt.Errorf("service: %w", NewNotFoundError("holder missing")), ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.sentinel)
		})
	}
}

func TestAppError_KeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewAppError(http.StatusInternalServerError, "failed to query", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to query: connection reset", err.Error())
	assert.NotErrorIs(t, err, ErrNotFound)
}
