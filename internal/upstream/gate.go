package upstream

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/reeltracker/worker/internal/pkg/consts"
	"github.com/reeltracker/worker/internal/pkg/redis"
)

// gate serializes all outbound upstream calls through a single slot
// and inserts a jittered delay between them, because the platform
// dislikes parallel authenticated requests from one identity. When
// Redis is configured, the slot is a distributed lock so the gate
// still holds if the worker is ever split across processes; otherwise
// it falls back to an in-process mutex.
type gate struct {
	mu sync.Mutex
}

func newGate() *gate {
	return &gate{}
}

// acquire blocks until the gate is held, then returns a release
// function. Callers must call release when done, typically deferred.
func (g *gate) acquire(ctx context.Context) (func(), error) {
	if redis.Rdb == nil {
		g.mu.Lock()
		return g.mu.Unlock, nil
	}

	token := uuid.NewString()
	for {
		ok, err := redis.TryLock(ctx, consts.UpstreamGateKey, token, 30*time.Second)
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}

	return func() {
		_ = redis.Unlock(context.Background(), consts.UpstreamGateKey, token)
	}, nil
}

// jitterDelay sleeps a random duration in [0.5s, 2.0s), the spacing
// spec.md mandates between upstream calls.
func jitterDelay(ctx context.Context) {
	d := 500*time.Millisecond + time.Duration(rand.Int63n(int64(1500*time.Millisecond)))
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
