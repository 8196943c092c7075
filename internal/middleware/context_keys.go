package middleware

import (
	"context"

	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// contextKey is the type of every value this package stores in a request context.
// Using a custom type prevents collisions.
type contextKey string

const (
	loggerCtxKey       = contextKey("logger")
	userIDKey          = contextKey("userID")
	actorKey           = contextKey("actor")
	importTokenKey     = contextKey("importToken")
	requestIDHeader    = "X-Request-ID"
	viewAsHeader       = "X-View-As"
	importAPIKeyHeader = "x-api-key"
)

// GetUserIDFromContext retrieves the authenticated user ID from the request context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// GetActorFromContext retrieves the actor resolved by RoleMiddleware.
func GetActorFromContext(c *gin.Context) (domain.Actor, bool) {
	actor, ok := c.Request.Context().Value(actorKey).(domain.Actor)
	return actor, ok
}

// GetImportTokenFromContext retrieves the import token authenticated by ImportKeyAuth.
func GetImportTokenFromContext(c *gin.Context) (domain.ImportToken, bool) {
	token, ok := c.Request.Context().Value(importTokenKey).(domain.ImportToken)
	return token, ok
}

// withValue stores a value in the request context.
func withValue(c *gin.Context, key contextKey, value any) {
	c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), key, value))
}
