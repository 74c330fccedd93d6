// README: Submission gate; one in-flight prediction per caller key.
package prediction

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Gate refuses a second submission for a key while the first is in flight.
// Acquire returns ErrSubmissionInFlight when the key is held.
type Gate interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

type LocalGate struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewLocalGate() *LocalGate {
	return &LocalGate{held: make(map[string]struct{})}
}

func (g *LocalGate) Acquire(_ context.Context, key string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.held[key]; busy {
		return nil, ErrSubmissionInFlight
	}
	g.held[key] = struct{}{}
	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.held, key)
			g.mu.Unlock()
		})
	}, nil
}

const inflightKeyPrefix = "taxifare:inflight:%s"

// RedisGate shares the gate between replicas. The TTL must outlive the
// request timeout so a crashed holder cannot block its caller forever.
type RedisGate struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisGate(client *redis.Client, ttl time.Duration) *RedisGate {
	return &RedisGate{redis: client, ttl: ttl}
}

func (g *RedisGate) Acquire(ctx context.Context, key string) (func(), error) {
	k := inflightKey(key)
	ok, err := g.redis.SetNX(ctx, k, time.Now().UTC().Format(time.RFC3339), g.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire submission gate: %w", err)
	}
	if !ok {
		return nil, ErrSubmissionInFlight
	}
	detached := context.WithoutCancel(ctx)
	var once sync.Once
	return func() {
		once.Do(func() {
			if err := g.redis.Del(detached, k).Err(); err != nil {
				slog.Warn("release submission gate", "key", k, "error", err)
			}
		})
	}, nil
}

func inflightKey(key string) string {
	return fmt.Sprintf(inflightKeyPrefix, key)
}
