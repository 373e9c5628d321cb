package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"pcaf-attribution/internal/domain/amortization"

	"github.com/redis/go-redis/v9"
)

const scheduleKeyPrefix = "pcaf:schedule:"

// ScheduleCache keeps computed amortization schedules in redis, keyed by the
// terms that produced them. A schedule never changes for a given key, so
// entries only expire to bound memory.
type ScheduleCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewScheduleCache(rdb *redis.Client, ttl time.Duration) *ScheduleCache {
	return &ScheduleCache{rdb: rdb, ttl: ttl}
}

func scheduleKey(t amortization.Terms) string {
	sum := sha256.Sum256([]byte(t.Key()))
	return scheduleKeyPrefix + hex.EncodeToString(sum[:])
}

// Get returns the cached schedule for t. Misses and redis failures both
// report false; the caller recomputes.
func (c *ScheduleCache) Get(ctx context.Context, t amortization.Terms) (amortization.Schedule, bool) {
	var s amortization.Schedule
	b, err := c.rdb.Get(ctx, scheduleKey(t)).Bytes()
	if err != nil {
		return s, false
	}
	if err := json.Unmarshal(b, &s); err != nil {
		return s, false
	}
	return s, true
}

func (c *ScheduleCache) Set(ctx context.Context, t amortization.Terms, s amortization.Schedule) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, scheduleKey(t), b, c.ttl).Err()
}

// Purge drops every cached schedule.
func (c *ScheduleCache) Purge(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, scheduleKeyPrefix+"*", 200).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}
