package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/SscSPs/tour_ledger/internal/core/domain"
	"github.com/SscSPs/tour_ledger/internal/core/ports"
	"github.com/redis/go-redis/v9"
)

// AttemptTracker records recurring-expense generation attempts so that two
// concurrent runs never both insert for the same confirmation and category.
// Markers expire after ttl; the database unique index stays the final guard.
type AttemptTracker struct {
	client *redis.Client
	ttl    time.Duration

	mu    sync.Mutex
	local map[string]time.Time
	now   func() time.Time
}

// NewAttemptTracker builds a tracker. A nil client keeps markers in process memory.
func NewAttemptTracker(client *redis.Client, ttl time.Duration) *AttemptTracker {
	return &AttemptTracker{
		client: client,
		ttl:    ttl,
		local:  make(map[string]time.Time),
		now:    time.Now,
	}
}

var _ ports.AttemptTracker = (*AttemptTracker)(nil)

func attemptKey(confirmationID string, category domain.Category) string {
	return fmt.Sprintf("%s:attempt:%s:%s", keyPrefix, confirmationID, category)
}

// MarkAttempt reports true only for the first caller within the ttl.
func (t *AttemptTracker) MarkAttempt(ctx context.Context, confirmationID string, category domain.Category) (bool, error) {
	key := attemptKey(confirmationID, category)
	if t.client != nil {
		ok, err := t.client.SetNX(ctx, key, t.now().UTC().Format(time.RFC3339), t.ttl).Result()
		if err != nil {
			return false, fmt.Errorf("mark attempt: %w", err)
		}
		return ok, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	if expires, ok := t.local[key]; ok && now.Before(expires) {
		return false, nil
	}
	t.local[key] = now.Add(t.ttl)
	return true, nil
}

// Release removes a marker.
func (t *AttemptTracker) Release(ctx context.Context, confirmationID string, category domain.Category) error {
	key := attemptKey(confirmationID, category)
	if t.client != nil {
		if err := t.client.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("release attempt: %w", err)
		}
		return nil
	}
	t.mu.Lock()
	delete(t.local, key)
	t.mu.Unlock()
	return nil
}
