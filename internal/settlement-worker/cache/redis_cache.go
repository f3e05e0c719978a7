package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/lottery-platform-poc/internal/settlement"
)

// RedisCache guarda a última liquidação de cada bilhete pra consultas
// rápidas de verificação. O banco continua sendo a fonte de verdade:
// o motor sempre recalcula quando importa (resgate).
type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCache(c *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: c, TTL: ttl}
}

func key(ticketNumber string) string { return "settlement:ticket:" + ticketNumber }

// SetSummary armazena a liquidação do bilhete com TTL definido
func (r *RedisCache) SetSummary(ctx context.Context, sum settlement.Summary) error {
	b, err := json.Marshal(sum)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, key(sum.TicketNumber), b, r.TTL).Err()
}

// GetSummary retorna a liquidação cacheada, se houver
func (r *RedisCache) GetSummary(ctx context.Context, ticketNumber string) (settlement.Summary, bool, error) {
	var sum settlement.Summary
	b, err := r.Client.Get(ctx, key(ticketNumber)).Bytes()
	if err == redis.Nil {
		return sum, false, nil
	}
	if err != nil {
		return sum, false, err
	}
	return sum, true, json.Unmarshal(b, &sum)
}
