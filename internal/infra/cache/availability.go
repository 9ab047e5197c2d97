package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// AvailabilityCache keeps computed slot lists per salon day in a redis hash,
// one field per service/employee pair, so a booking change drops the whole day.
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAvailabilityCache(client *redis.Client, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{client: client, ttl: ttl}
}

func dayKey(salonID uint, date string) string {
	return fmt.Sprintf("avail:%d:%s", salonID, date)
}

func Field(serviceID uint, employeeID *uint) string {
	if employeeID == nil {
		return fmt.Sprintf("%d:any", serviceID)
	}
	return fmt.Sprintf("%d:%d", serviceID, *employeeID)
}

func (c *AvailabilityCache) Get(ctx context.Context, salonID uint, date, field string, dst any) (bool, error) {
	raw, err := c.client.HGet(ctx, dayKey(salonID, date), field).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("availability cache get: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("availability cache decode: %w", err)
	}
	return true, nil
}

func (c *AvailabilityCache) Set(ctx context.Context, salonID uint, date, field string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("availability cache encode: %w", err)
	}

	key := dayKey(salonID, date)
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, key, field, raw)
	pipe.Expire(ctx, key, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("availability cache set: %w", err)
	}
	return nil
}

func (c *AvailabilityCache) Invalidate(ctx context.Context, salonID uint, dates ...string) error {
	if len(dates) == 0 {
		return nil
	}
	keys := make([]string, 0, len(dates))
	for _, d := range dates {
		keys = append(keys, dayKey(salonID, d))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("availability cache invalidate: %w", err)
	}
	return nil
}

// Nop is used when redis is not configured.
type Nop struct{}

func (Nop) Get(context.Context, uint, string, string, any) (bool, error) { return false, nil }
func (Nop) Set(context.Context, uint, string, string, any) error         { return nil }
func (Nop) Invalidate(context.Context, uint, ...string) error            { return nil }
