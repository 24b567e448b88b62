package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"microloan-backend/internal/config"
)

const dialTimeout = 5 * time.Second

// Open dials the redis instance backing the idempotency store and verifies
// it is reachable before the server starts accepting writes.
func Open(cfg *config.Config) (*redis.Client, error) {
	r := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis %s: %w", cfg.RedisAddr, err)
	}
	return r, nil
}
