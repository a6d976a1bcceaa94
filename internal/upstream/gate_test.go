package upstream

import (
	"context"
	"testing"
	"time"
)

// TestGate_InProcessFallbackSerializesAcquires exercises the sync.Mutex
// path taken whenever redis.Rdb is unconfigured, which is the case for
// every test in this package.
func TestGate_InProcessFallbackSerializesAcquires(t *testing.T) {
	g := newGate()

	release, err := g.acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire returned error: %v", err)
	}

	acquired := make(chan struct{})
	go func() {
		release2, err := g.acquire(context.Background())
		if err != nil {
			return
		}
		close(acquired)
		release2()
	}()

	select {
	case <-acquired:
		t.Fatal("second acquire succeeded while the gate was still held")
	case <-time.After(50 * time.Millisecond):
	}

	release()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second acquire never completed after release")
	}
}
