package job

import (
	"context"
	"os"

	"github.com/reeltracker/worker/internal/model"
	"github.com/reeltracker/worker/internal/pkg/consts"
	"github.com/reeltracker/worker/internal/repository"
)

// HeartbeatJob upserts a liveness row the Admin API reads to classify
// this worker as running/stale/stopped.
type HeartbeatJob struct {
	heartbeats repository.HeartbeatRepo
}

func NewHeartbeatJob(heartbeats repository.HeartbeatRepo) *HeartbeatJob {
	return &HeartbeatJob{heartbeats: heartbeats}
}

func (j *HeartbeatJob) Run(ctx context.Context) error {
	return j.heartbeats.UpsertHeartbeat(ctx, consts.HeartbeatWorkerName, os.Getpid(), model.HeartbeatStatusRunning)
}
