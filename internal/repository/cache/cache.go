// Package cache is the read-through query cache in front of the search index.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/cinedex/internal/db"
	"github.com/kailas-cloud/cinedex/internal/repository/index"
)

// store is the consumer interface for the query cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache stores query results as JSON with a fixed expiry.
type Cache struct {
	store    store
	keys     index.Keyspace
	ttl      time.Duration
	requests *prometheus.CounterVec
	logger   *zap.Logger
}

// New creates a cache.
// requests is a counter vec with labels "resource" and "result", passed explicitly.
func New(
	s store,
	keys index.Keyspace,
	ttl time.Duration,
	requests *prometheus.CounterVec,
	logger *zap.Logger,
) *Cache {
	return &Cache{
		store:    s,
		keys:     keys,
		ttl:      ttl,
		requests: requests,
		logger:   logger,
	}
}

// Param is one request parameter of a cache key.
type Param struct {
	Name  string
	Value string
}

// P builds a Param.
func P(name string, value any) Param {
	return Param{Name: name, Value: fmt.Sprint(value)}
}

// Key renders resource||name::value||... keeping the parameter order.
// Empty parameters are left out so optional filters do not change the key.
func Key(resource string, params ...Param) string {
	parts := make([]string, 0, len(params)+1)
	parts = append(parts, resource)
	for _, p := range params {
		if p.Value == "" {
			continue
		}
		parts = append(parts, p.Name+"::"+p.Value)
	}
	return strings.Join(parts, "||")
}

// readThrough returns the cached value under key or calls load and caches
// its result. Cache failures are logged and never fail the request.
// Errors from load, including not-found, are not cached.
func readThrough[T any](
	ctx context.Context, c *Cache, resource, key string, load func(context.Context) (T, error),
) (T, error) {
	if c == nil {
		return load(ctx)
	}

	full := c.keys.Key(key)
	if v, ok := get[T](ctx, c, resource, full); ok {
		c.inc(resource, "hit")
		return v, nil
	}
	c.inc(resource, "miss")

	v, err := load(ctx)
	if err != nil {
		return v, err
	}

	c.put(ctx, full, v)
	return v, nil
}

func get[T any](ctx context.Context, c *Cache, resource, key string) (T, bool) {
	var v T
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.inc(resource, "error")
			c.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		c.logger.Warn("cache entry corrupted", zap.String("key", key), zap.Error(err))
		return v, false
	}
	return v, true
}

func (c *Cache) put(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *Cache) inc(resource, result string) {
	if c.requests != nil {
		c.requests.WithLabelValues(resource, result).Inc()
	}
}
