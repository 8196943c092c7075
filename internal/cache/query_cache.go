// Package cache implements the query cache and the recurring-expense attempt
// markers on Redis. Both degrade to in-process behaviour without a client.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/tour_ledger/internal/core/ports"
	"github.com/SscSPs/tour_ledger/internal/middleware"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "tour_ledger"

// LookupRecorder observes cache lookups; *observability.Metrics satisfies it.
type LookupRecorder interface {
	CacheLookup(entity, result string)
}

// QueryCache caches read models as JSON under per-entity version counters.
// Invalidating an entity bumps its counter so every key built on the old
// version stops being read and expires on its own.
type QueryCache struct {
	client   *redis.Client
	ttl      time.Duration
	group    singleflight.Group
	recorder LookupRecorder
}

// Option configures a QueryCache.
type Option func(*QueryCache)

// WithRecorder reports hits and misses to r.
func WithRecorder(r LookupRecorder) Option {
	return func(c *QueryCache) {
		c.recorder = r
	}
}

// NewQueryCache builds the cache. A nil client disables storage but keeps
// request de-duplication.
func NewQueryCache(client *redis.Client, ttl time.Duration, opts ...Option) *QueryCache {
	c := &QueryCache{client: client, ttl: ttl}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ ports.QueryCache = (*QueryCache)(nil)

func versionKey(entity string) string {
	return fmt.Sprintf("%s:ver:%s", keyPrefix, entity)
}

// Version returns the entity's current version, initialising it when missing.
func (c *QueryCache) Version(ctx context.Context, entity string) (int64, error) {
	if c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, versionKey(entity)).Int64()
	if errors.Is(err, redis.Nil) {
		// SetNX so two first readers agree on the starting version.
		if err := c.client.SetNX(ctx, versionKey(entity), 1, 0).Err(); err != nil {
			return 0, err
		}
		return c.client.Get(ctx, versionKey(entity)).Int64()
	}
	return ver, err
}

// BuildKey composes the cache key from the entity version and a digest of params.
func (c *QueryCache) BuildKey(ctx context.Context, entity string, params any) (string, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("cache: encode params: %w", err)
	}
	sum := sha256.Sum256(raw)
	digest := hex.EncodeToString(sum[:12])
	ver, err := c.Version(ctx, entity)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:q:%s:%d:%s", keyPrefix, entity, ver, digest), nil
}

// FetchJSON loads a cached value or populates it using the loader. Redis
// failures are logged and the loader result is served uncached.
func (c *QueryCache) FetchJSON(ctx context.Context, entity string, params any, dest any, loader func(context.Context) (any, error)) error {
	if loader == nil {
		return errors.New("cache: loader required")
	}
	logger := middleware.GetLoggerFromCtx(ctx)

	key, err := c.BuildKey(ctx, entity, params)
	if err != nil {
		c.record(entity, "error")
		logger.Warn("Query cache key build failed, serving uncached", slog.String("entity", entity), slog.String("error", err.Error()))
		key = ""
	}

	if key != "" && c.client != nil {
		payload, err := c.client.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			c.record(entity, "hit")
			return json.Unmarshal(payload, dest)
		case !errors.Is(err, redis.Nil):
			c.record(entity, "error")
			logger.Warn("Query cache read failed", slog.String("entity", entity), slog.String("error", err.Error()))
		}
	}
	c.record(entity, "miss")

	flightKey := key
	if flightKey == "" {
		flightKey = entity
	}
	raw, err := c.load(ctx, flightKey, loader)
	if err != nil {
		return err
	}

	if key != "" && c.client != nil {
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			logger.Warn("Query cache write failed", slog.String("entity", entity), slog.String("error", err.Error()))
		}
	}
	return json.Unmarshal(raw, dest)
}

// load runs loader once per key across concurrent callers and returns its JSON.
func (c *QueryCache) load(ctx context.Context, key string, loader func(context.Context) (any, error)) ([]byte, error) {
	resultChan := c.group.DoChan(key, func() (interface{}, error) {
		value, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(value)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

// Invalidate bumps the version of every entity given.
func (c *QueryCache) Invalidate(ctx context.Context, entities ...string) error {
	if c.client == nil || len(entities) == 0 {
		return nil
	}
	pipe := c.client.TxPipeline()
	for _, entity := range entities {
		pipe.Incr(ctx, versionKey(entity))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache: invalidate %v: %w", entities, err)
	}
	return nil
}

func (c *QueryCache) record(entity, result string) {
	if c.recorder != nil {
		c.recorder.CacheLookup(entity, result)
	}
}
