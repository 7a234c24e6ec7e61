package db

import (
	"context"
	"time"

	"point-arena/internal/logger"

	redis "github.com/redis/go-redis/v9"
)

// ConnectRedis returns a shared Redis client, or nil when addr is empty or
// the server is unreachable. Callers treat a nil client as "feature off"
// (rate limiting fails open, rankings fall back to empty).
func ConnectRedis(addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, continuing without it", "addr", addr, "error", err)
		return nil
	}

	logger.Info("redis connected", "addr", addr)
	return client
}
