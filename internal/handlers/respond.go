package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/tour_ledger/internal/apperrors"
	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/SscSPs/tour_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// statusFor maps a service error onto an HTTP status and a client-safe message.
// Messages of 5xx errors are replaced by fallback so internals do not leak.
func statusFor(err error, fallback string) (int, string) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		if appErr.Code >= http.StatusInternalServerError && appErr.Code != http.StatusBadGateway {
			return appErr.Code, fallback
		}
		return appErr.Code, appErr.Message
	}

	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, err.Error()
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, "Insufficient permissions"
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	default:
		return http.StatusInternalServerError, fallback
	}
}

// respondError writes the error response and logs it at a level matching the status.
func respondError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code, msg := statusFor(err, fallback)
	if code >= http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
	} else {
		logger.Warn("Request rejected", slog.Int("status", code), slog.String("error", err.Error()))
	}
	c.JSON(code, gin.H{"error": msg})
}

// respondPartial reports a failure that happened after the primary write
// succeeded, returning the created resource alongside the error.
func respondPartial(c *gin.Context, err error, fallback string, resource any) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code, msg := statusFor(err, fallback)
	logger.Error("Request partially completed", slog.Int("status", code), slog.String("error", err.Error()))
	c.JSON(code, gin.H{"error": msg, "result": resource})
}

// badRequest rejects malformed input before it reaches a service.
func badRequest(c *gin.Context, what string, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind "+what, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
}

// actorOrAbort returns the actor RoleMiddleware resolved, writing 401 when absent.
func actorOrAbort(c *gin.Context) (domain.Actor, bool) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return domain.Actor{}, false
	}
	return actor, true
}
