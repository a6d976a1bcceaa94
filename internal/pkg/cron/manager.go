package cron

import (
	"fmt"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

// Manager owns the four periodic jobs the unified scheduling worker
// drives: discover, reschedule, dispatch-due, and heartbeat.
type Manager struct {
	engine *cron.Cron
	jobs   []*ManagedJob
}

// NewCronManager builds a Manager over the given jobs. Order does not
// matter; each job carries its own interval and reentrancy guard.
func NewCronManager(jobs ...*ManagedJob) *Manager {
	return &Manager{
		engine: cron.New(cron.WithSeconds()),
		jobs:   jobs,
	}
}

// RegisterJobs schedules every job at its own "@every" cadence.
func (m *Manager) RegisterJobs() error {
	for _, j := range m.jobs {
		spec := fmt.Sprintf("@every %s", j.Interval)
		if _, err := m.engine.AddJob(spec, j); err != nil {
			return fmt.Errorf("failed to register job %s: %w", j.Name, err)
		}
	}
	return nil
}

func (m *Manager) Start() {
	log.Info("cron scheduler starting", "jobs", len(m.jobs))
	m.engine.Start()
}

func (m *Manager) Stop() {
	log.Info("cron scheduler stopping")
	ctx := m.engine.Stop()
	<-ctx.Done()
}
