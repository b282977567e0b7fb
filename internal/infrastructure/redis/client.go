package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Retrier retries the startup ping.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// NewClient creates a new Redis client and verifies the connection.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	return Connect(ctx, redisURL, nil)
}

// Connect is NewClient with the ping retried through r. A nil r pings once.
func Connect(ctx context.Context, redisURL string, r Retrier) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ping := func() error {
		return client.Ping(ctx).Err()
	}

	if r != nil {
		err = r.Retry(ctx, ping)
	} else {
		err = ping()
	}
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}
