package job

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/reeltracker/worker/internal/model"
	"github.com/reeltracker/worker/internal/repository"
)

type rescheduleVideoRepo struct {
	repository.VideoRepo
	videos []*model.Video
}

func (f *rescheduleVideoRepo) IterateAll(ctx context.Context, fn func(*model.Video) error) error {
	for _, v := range f.videos {
		if err := fn(v); err != nil {
			return err
		}
	}
	return nil
}

type rescheduleScheduleRepo struct {
	repository.ScheduleRepo
	byVideo    map[uint64]*model.MetricSchedule
	rescheduled []uint64
}

func (f *rescheduleScheduleRepo) ScheduleForVideo(ctx context.Context, videoID uint64) (*model.MetricSchedule, error) {
	s, ok := f.byVideo[videoID]
	if !ok {
		return nil, &repository.StoreError{Kind: repository.NotFound, Op: "ScheduleForVideo", Err: errors.New("not found")}
	}
	return s, nil
}

func (f *rescheduleScheduleRepo) RescheduleIdle(ctx context.Context, id uint64, nextDueAt time.Time, intervalSeconds int) error {
	f.rescheduled = append(f.rescheduled, id)
	return nil
}

func TestRescheduleJob_OnlyTouchesIdleSchedules(t *testing.T) {
	now := time.Now()
	videos := &rescheduleVideoRepo{videos: []*model.Video{
		{ID: 1, PublishedAt: now.Add(-2 * time.Hour)},
		{ID: 2, PublishedAt: now.Add(-2 * time.Hour)},
		{ID: 3, PublishedAt: now.Add(-2 * time.Hour)},
	}}
	schedules := &rescheduleScheduleRepo{byVideo: map[uint64]*model.MetricSchedule{
		1: {ID: 10, VideoID: 1, Status: model.ScheduleStatusIdle},
		2: {ID: 20, VideoID: 2, Status: model.ScheduleStatusRunning},
		// video 3 has no schedule row at all
	}}

	job := NewRescheduleJob(videos, schedules)
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(schedules.rescheduled) != 1 || schedules.rescheduled[0] != 10 {
		t.Fatalf("expected only schedule 10 rescheduled, got %v", schedules.rescheduled)
	}
}
