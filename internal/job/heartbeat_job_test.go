package job

import (
	"context"
	"testing"

	"github.com/reeltracker/worker/internal/model"
	"github.com/reeltracker/worker/internal/repository"
)

type fakeHeartbeatRepo struct {
	repository.HeartbeatRepo
	name   string
	status model.HeartbeatStatus
	calls  int
}

func (f *fakeHeartbeatRepo) UpsertHeartbeat(ctx context.Context, name string, pid int, status model.HeartbeatStatus) error {
	f.name = name
	f.status = status
	f.calls++
	return nil
}

func TestHeartbeatJob_UpsertsRunningStatus(t *testing.T) {
	repo := &fakeHeartbeatRepo{}
	job := NewHeartbeatJob(repo)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if repo.calls != 1 {
		t.Fatalf("expected exactly one upsert call, got %d", repo.calls)
	}
	if repo.status != model.HeartbeatStatusRunning {
		t.Errorf("expected running status, got %s", repo.status)
	}
}
