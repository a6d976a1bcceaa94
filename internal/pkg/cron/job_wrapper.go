package cron

import (
	"context"
	log "log/slog"
	"sync/atomic"
	"time"
)

// ManagedJob adapts a plain job function to cron.Job, adding the
// reentrancy guard and consecutive-failure pausing the Scheduler
// requires: at most one instance of a job kind runs at a time, and a
// job whose consecutive failures exceed five (the sixth failing tick in
// a row) is skipped for one interval.
type ManagedJob struct {
	Name     string
	Interval time.Duration
	Fn       func(ctx context.Context) error

	running     atomic.Bool
	failures    atomic.Int32
	pausedUntil atomic.Int64
}

// Run implements cron.Job.
func (m *ManagedJob) Run() {
	if time.Now().UnixNano() < m.pausedUntil.Load() {
		log.Debug("job skipped, currently paused", "job", m.Name)
		return
	}

	if !m.running.CompareAndSwap(false, true) {
		log.Info("job tick skipped, previous instance still running", "job", m.Name)
		return
	}
	defer m.running.Store(false)

	start := time.Now()
	if err := m.Fn(context.Background()); err != nil {
		n := m.failures.Add(1)
		log.Error("job tick failed", "job", m.Name, "err", err, "consecutive_failures", n)

		if n > 5 {
			m.pausedUntil.Store(time.Now().Add(m.Interval).UnixNano())
			m.failures.Store(0)
			log.Warn("job paused for one interval after repeated failures", "job", m.Name, "interval", m.Interval)
		}
		return
	}

	m.failures.Store(0)
	log.Debug("job tick completed", "job", m.Name, "elapsed", time.Since(start))
}
