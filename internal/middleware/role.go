package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/tour_ledger/internal/apperrors"
	"github.com/SscSPs/tour_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/tour_ledger/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// RoleMiddleware resolves the authenticated user's role into a domain.Actor.
// Admins may send X-View-As to act with another role's permissions.
// It must run after AuthMiddleware.
func RoleMiddleware(profileSvc portssvc.ProfileSvcFacade) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())
		userID, ok := GetUserIDFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		actor, err := profileSvc.ResolveActor(c.Request.Context(), userID, c.GetHeader(viewAsHeader))
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrUnauthorized):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			case errors.Is(err, apperrors.ErrNotFound):
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "No back-office profile for this user"})
			case errors.Is(err, apperrors.ErrForbidden), errors.Is(err, apperrors.ErrValidation):
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
			default:
				logger.Error("Failed to resolve actor", slog.String("error", err.Error()))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve user role"})
			}
			return
		}

		withValue(c, actorKey, actor)
		if actor.EffectiveRole != actor.Role {
			withValue(c, loggerCtxKey, logger.With(slog.String("view_as", string(actor.EffectiveRole))))
		}
		c.Next()
	}
}

// RequirePermission aborts with 403 unless the actor's effective role grants p.
func RequirePermission(p domain.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActorFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if !actor.Can(p) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
		c.Next()
	}
}
