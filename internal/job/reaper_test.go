package job

import (
	"context"
	"testing"
	"time"

	"github.com/reeltracker/worker/internal/repository"
)

type fakeReapScheduleRepo struct {
	repository.ScheduleRepo
	cutoff time.Time
	reaped int64
}

func (f *fakeReapScheduleRepo) ReapStaleLeases(ctx context.Context, olderThan time.Time) (int64, error) {
	f.cutoff = olderThan
	return f.reaped, nil
}

func TestReapStaleLeases_UsesLeaseMultiplierCutoff(t *testing.T) {
	repo := &fakeReapScheduleRepo{reaped: 3}
	before := time.Now().Add(-leaseMultiplier * dispatchInterval)

	ReapStaleLeases(context.Background(), repo)

	after := time.Now().Add(-leaseMultiplier * dispatchInterval)
	if repo.cutoff.Before(before.Add(-time.Second)) || repo.cutoff.After(after.Add(time.Second)) {
		t.Errorf("cutoff %v not within expected window [%v, %v]", repo.cutoff, before, after)
	}
}
