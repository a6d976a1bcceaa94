package job

import (
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/reeltracker/worker/internal/model"
	"github.com/reeltracker/worker/internal/pkg/logger"
	"github.com/reeltracker/worker/internal/policy"
	"github.com/reeltracker/worker/internal/repository"
)

// RescheduleJob walks every video and, for those whose schedule is
// idle, recomputes next_due_at from the current age. Running
// schedules are never touched — a dispatcher already owns the lease.
type RescheduleJob struct {
	videos    repository.VideoRepo
	schedules repository.ScheduleRepo
}

func NewRescheduleJob(videos repository.VideoRepo, schedules repository.ScheduleRepo) *RescheduleJob {
	return &RescheduleJob{videos: videos, schedules: schedules}
}

func (j *RescheduleJob) Run(ctx context.Context) error {
	traceID := "job-reschedule-" + uuid.NewString()
	ctx = context.WithValue(ctx, logger.TraceIDKey, traceID)

	now := time.Now()
	rescheduled := 0

	err := j.videos.IterateAll(ctx, func(v *model.Video) error {
		schedule, err := j.schedules.ScheduleForVideo(ctx, v.ID)
		if err != nil {
			if repository.IsNotFound(err) {
				return nil
			}
			log.ErrorContext(ctx, "reschedule lookup failed", "video_id", v.ID, "err", err)
			return nil
		}
		if schedule.Status != model.ScheduleStatusIdle {
			return nil
		}

		nextDue := policy.NextDue(v.PublishedAt, now)
		interval := int(nextDue.Sub(now).Seconds())
		if err := j.schedules.RescheduleIdle(ctx, schedule.ID, nextDue, interval); err != nil {
			log.ErrorContext(ctx, "reschedule write failed", "video_id", v.ID, "err", err)
			return nil
		}
		rescheduled++
		return nil
	})
	if err != nil {
		return err
	}

	log.InfoContext(ctx, "reschedule tick complete", "rescheduled", rescheduled)
	return nil
}
