package job

import (
	"context"
	log "log/slog"
	"time"

	"github.com/reeltracker/worker/internal/repository"
)

// dispatchInterval is the production dispatch-due cron interval (one
// minute); test mode's shorter dispatch-due interval does not change it.
// The lease timeout, leaseMultiplier × dispatchInterval, is long enough
// that a lease is only reaped once it is unambiguously abandoned, never
// while a dispatch tick is merely running long.
const (
	dispatchInterval = time.Minute
	leaseMultiplier  = 10
)

// ReapStaleLeases runs once at startup, before the cron scheduler
// starts, to recover schedules left in status=running by a worker
// that crashed mid-tick.
func ReapStaleLeases(ctx context.Context, schedules repository.ScheduleRepo) {
	cutoff := time.Now().Add(-leaseMultiplier * dispatchInterval)
	reaped, err := schedules.ReapStaleLeases(ctx, cutoff)
	if err != nil {
		log.ErrorContext(ctx, "startup lease reap failed", "err", err)
		return
	}
	if reaped > 0 {
		log.WarnContext(ctx, "reaped stale schedule leases", "count", reaped)
	}
}
