// README: Redis client initialization for the shared submission gate.
package infra

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

func NewRedis(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

// ConnectRedis builds the client and pings it once so a bad address fails at startup.
func ConnectRedis(ctx context.Context, addr string) (*redis.Client, error) {
	client := NewRedis(addr)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}
