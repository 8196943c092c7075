package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/tour_ledger/internal/apperrors"
	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/SscSPs/tour_ledger/internal/core/ports"
	"github.com/SscSPs/tour_ledger/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Cache ports.QueryCache
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// Authorize checks the actor's effective role against a permission.
func (s *BaseService) Authorize(ctx context.Context, actor domain.Actor, perm domain.Permission) error {
	if actor.Can(perm) {
		return nil
	}
	s.LogDebug(ctx, "Permission denied",
		slog.String("user_id", actor.UserID),
		slog.String("effective_role", string(actor.EffectiveRole)),
		slog.String("permission", string(perm)))
	return apperrors.NewForbiddenError("your role does not allow " + string(perm))
}

// Invalidate drops cached reads after a mutation. Failures only cost freshness
// until the TTL runs out, so they are logged and swallowed.
func (s *BaseService) Invalidate(ctx context.Context, entities ...string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx, entities...); err != nil {
		s.LogError(ctx, err, "Failed to invalidate query cache", slog.Any("entities", entities))
	}
}

// cached serves loader through the query cache when one is configured.
func cached[T any](ctx context.Context, cache ports.QueryCache, entity string, params any, loader func(context.Context) (T, error)) (T, error) {
	if cache == nil {
		return loader(ctx)
	}
	var out T
	err := cache.FetchJSON(ctx, entity, params, &out, func(ctx context.Context) (any, error) {
		return loader(ctx)
	})
	return out, err
}
