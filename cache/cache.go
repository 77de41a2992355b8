/*
Package cache provides a small TTL cache for revenue reports, backed by Redis.

PURPOSE:
  Revenue reports replay the sales ledger on every request. Deployments that
  serve dashboards can front them with a short-lived cache; everything else
  runs without one. A nil *ReportCache is valid and disables caching, so the
  aggregation core never depends on Redis being present.

INVALIDATION:
  TTL only. Reports may lag new sales by at most the configured TTL; there is
  no explicit invalidation on write.
*/
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReportCache stores JSON-encoded report payloads under string keys.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReportCache wraps a Redis client. ttl <= 0 falls back to one minute.
func NewReportCache(client *redis.Client, ttl time.Duration) *ReportCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &ReportCache{client: client, ttl: ttl}
}

// Get unmarshals the cached payload for key into dest. Returns false on a
// miss. A nil cache always misses.
func (c *ReportCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if c == nil || c.client == nil {
		return false, nil
	}
	payload, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(payload), dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores v under key for the configured TTL. Best-effort: marshal or
// Redis errors are returned but callers treat them as advisory.
func (c *ReportCache) Set(ctx context.Context, key string, v any) error {
	if c == nil || c.client == nil {
		return nil
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, c.ttl).Err()
}
