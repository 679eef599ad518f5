package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/socialchef/planner/internal/utils"
)

// NewRedisClient parses a redis:// URL and waits until the server answers.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	_, err = utils.WithRetry(ctx, func(ctx context.Context) (string, error) {
		return client.Ping(ctx).Result()
	}, utils.ConnectRetryConfig())
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
