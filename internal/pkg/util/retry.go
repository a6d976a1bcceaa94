package util

import (
	"context"
	"time"
)

// Backoff is the store/upstream retry shape used throughout the
// worker: 0.5s, 1s, 2s.
var Backoff = []time.Duration{500 * time.Millisecond, time.Second, 2 * time.Second}

// Retry calls fn up to len(Backoff)+1 times, sleeping the configured
// backoff between attempts, stopping early if shouldRetry returns
// false for the latest error.
func Retry(ctx context.Context, shouldRetry func(error) bool, fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil || !shouldRetry(err) {
			return err
		}
		if attempt >= len(Backoff) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(Backoff[attempt]):
		}
	}
}
