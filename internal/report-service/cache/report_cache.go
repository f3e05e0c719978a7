package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache struct{ R *redis.Client }

func New(r *redis.Client) *Cache { return &Cache{R: r} }

func keyReport(scope string) string { return "report:" + scope }

func (c *Cache) GetReport(ctx context.Context, scope string, dst any) (bool, error) {
	b, err := c.R.Get(ctx, keyReport(scope)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(b, dst)
}

func (c *Cache) SetReport(ctx context.Context, scope string, v any, ttl time.Duration) error {
	b, _ := json.Marshal(v)
	return c.R.Set(ctx, keyReport(scope), b, ttl).Err()
}
