package prediction

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestLocalGate_SingleHolderPerKey(t *testing.T) {
	g := NewLocalGate()
	ctx := context.Background()

	release, err := g.Acquire(ctx, "a")
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	if _, err := g.Acquire(ctx, "a"); !errors.Is(err, ErrSubmissionInFlight) {
		t.Errorf("second acquire error = %v, want ErrSubmissionInFlight", err)
	}
	releaseB, err := g.Acquire(ctx, "b")
	if err != nil {
		t.Errorf("other key should be free: %v", err)
	} else {
		releaseB()
	}

	release()
	release() // idempotent
	again, err := g.Acquire(ctx, "a")
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	again()
}

func TestLocalGate_Concurrent(t *testing.T) {
	g := NewLocalGate()
	const workers = 50
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		acquired int
		releases []func()
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rel, err := g.Acquire(context.Background(), "shared"); err == nil {
				mu.Lock()
				acquired++
				releases = append(releases, rel)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if acquired != 1 {
		t.Errorf("%d goroutines acquired the gate, want 1", acquired)
	}
	for _, rel := range releases {
		rel()
	}
}

func TestRedisGate(t *testing.T) {
	redisAddr := os.Getenv("TAXIFARE_REDIS_ADDR")
	if redisAddr == "" {
		t.Skip("TAXIFARE_REDIS_ADDR not set; skipping integration test")
	}

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer rdb.Close()

	g := NewRedisGate(rdb, 5*time.Second)
	ctx := context.Background()
	key := fmt.Sprintf("gate_test_%d", time.Now().UnixNano())

	release, err := g.Acquire(ctx, key)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if _, err := g.Acquire(ctx, key); !errors.Is(err, ErrSubmissionInFlight) {
		t.Errorf("second acquire error = %v, want ErrSubmissionInFlight", err)
	}

	ttl, err := rdb.TTL(ctx, inflightKey(key)).Result()
	if err != nil {
		t.Fatalf("ttl: %v", err)
	}
	if ttl <= 0 || ttl > 5*time.Second {
		t.Errorf("unexpected ttl %s", ttl)
	}

	release()
	n, err := rdb.Exists(ctx, inflightKey(key)).Result()
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if n != 0 {
		t.Errorf("key still present after release")
	}
}
