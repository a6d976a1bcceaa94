package job

import (
	"context"
	"errors"
	log "log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/reeltracker/worker/internal/model"
	"github.com/reeltracker/worker/internal/pkg/consts"
	"github.com/reeltracker/worker/internal/pkg/kafka"
	"github.com/reeltracker/worker/internal/pkg/logger"
	"github.com/reeltracker/worker/internal/pkg/mongo"
	"github.com/reeltracker/worker/internal/policy"
	"github.com/reeltracker/worker/internal/repository"
	"github.com/reeltracker/worker/internal/upstream"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
)

// dispatchBatchLimit bounds how many schedules a single dispatch tick
// claims, so one tick can never monopolize the upstream gate.
const dispatchBatchLimit = 25

// interMetricDelay paces dispatch-due between videos.
const interMetricDelay = 500 * time.Millisecond

// farFuture stands in for "never again": disabled schedules still
// need a next_due_at value, just one that never comes due.
var farFuture = time.Date(2999, 1, 1, 0, 0, 0, 0, time.UTC)

// DispatchJob claims due metric schedules under an atomic lease,
// fetches fresh counts, appends a Metric row, and advances (or
// disables) each schedule.
type DispatchJob struct {
	videos    repository.VideoRepo
	metrics   repository.MetricRepo
	schedules repository.ScheduleRepo
	upstream  *upstream.Client
	producer  *kafka.Producer
	mongoDB   *mongodriver.Database
}

func NewDispatchJob(
	videos repository.VideoRepo,
	metrics repository.MetricRepo,
	schedules repository.ScheduleRepo,
	client *upstream.Client,
	producer *kafka.Producer,
	mongoDB *mongodriver.Database,
) *DispatchJob {
	return &DispatchJob{
		videos:    videos,
		metrics:   metrics,
		schedules: schedules,
		upstream:  client,
		producer:  producer,
		mongoDB:   mongoDB,
	}
}

func (j *DispatchJob) Run(ctx context.Context) error {
	traceID := "job-dispatch-" + uuid.NewString()
	ctx = context.WithValue(ctx, logger.TraceIDKey, traceID)

	now := time.Now()
	batch, err := j.schedules.ClaimDueSchedules(ctx, now, dispatchBatchLimit)
	if err != nil {
		return err
	}

	for i, schedule := range batch {
		if !j.dispatchOne(ctx, schedule) {
			// rate limited: stop this tick, keep the rest idle for next time
			for _, rest := range batch[i+1:] {
				j.release(ctx, rest.ID, rest.NextDueAt, nil, model.ScheduleStatusIdle)
			}
			break
		}
		time.Sleep(interMetricDelay)
	}

	return nil
}

// dispatchOne samples one schedule and releases its lease. It returns
// false when the tick should stop early (rate limited).
func (j *DispatchJob) dispatchOne(ctx context.Context, schedule *model.MetricSchedule) bool {
	video, err := j.videoForSchedule(ctx, schedule)
	if err != nil {
		log.ErrorContext(ctx, "dispatch could not resolve video", "schedule_id", schedule.ID, "err", err)
		j.release(ctx, schedule.ID, time.Now().Add(60*time.Second), nil, model.ScheduleStatusIdle)
		return true
	}

	counts, rawBody, err := j.upstream.MediaMetrics(ctx, video.VideoID)
	now := time.Now()
	j.archiveRawPayload(ctx, video.AccountID, video.Shortcode, rawBody)

	var notFound *upstream.NotFoundError
	var rateLimit *upstream.RateLimitError
	var transient *upstream.TransientNetworkError

	switch {
	case err == nil:
		metric := &model.Metric{
			VideoID:        video.ID,
			ViewCount:      counts.ViewCount,
			LikeCount:      counts.LikeCount,
			CommentCount:   counts.CommentCount,
			SaveCount:      counts.SaveCount,
			FollowersCount: counts.FollowersCount,
			MeasuredAt:     now,
		}
		if err := j.metrics.AppendMetric(ctx, metric); err != nil {
			log.ErrorContext(ctx, "append metric failed", "video_id", video.ID, "err", err)
			j.release(ctx, schedule.ID, now.Add(60*time.Second), nil, model.ScheduleStatusIdle)
			return true
		}
		nextDue := policy.NextDue(video.PublishedAt, now)
		j.release(ctx, schedule.ID, nextDue, &now, model.ScheduleStatusIdle)
		j.producer.Publish(consts.KafkaEventMetricSampled, video.Shortcode, metric)
		return true

	case errors.As(err, &notFound):
		j.release(ctx, schedule.ID, farFuture, nil, model.ScheduleStatusDisabled)
		return true

	case errors.As(err, &rateLimit):
		retryAt := now.Add(time.Duration(rateLimit.RetryAfter) * time.Second)
		j.release(ctx, schedule.ID, retryAt, nil, model.ScheduleStatusIdle)
		return false

	case errors.As(err, &transient):
		j.release(ctx, schedule.ID, now.Add(60*time.Second), nil, model.ScheduleStatusIdle)
		return true

	default:
		log.ErrorContext(ctx, "dispatch failed with unclassified error", "video_id", video.ID, "err", err)
		j.release(ctx, schedule.ID, now.Add(60*time.Second), nil, model.ScheduleStatusIdle)
		return true
	}
}

func (j *DispatchJob) videoForSchedule(ctx context.Context, schedule *model.MetricSchedule) (*model.Video, error) {
	return j.videos.GetVideoByID(ctx, schedule.VideoID)
}

// archiveRawPayload stores the raw media_metrics response for the Raw
// Payload Archive (C14). rawBody is empty when the call failed before
// a response body was read, in which case there is nothing to archive.
func (j *DispatchJob) archiveRawPayload(ctx context.Context, accountID uint64, shortcode string, rawBody []byte) {
	if j.mongoDB == nil || len(rawBody) == 0 {
		return
	}
	err := mongo.ArchiveRawPayload(ctx, j.mongoDB, mongo.RawPayload{
		Kind:      "media_metrics",
		AccountID: accountID,
		Shortcode: shortcode,
		Body:      string(rawBody),
		FetchedAt: time.Now(),
	})
	if err != nil {
		log.WarnContext(ctx, "raw payload archive failed", "account_id", accountID, "err", err)
	}
}

func (j *DispatchJob) release(ctx context.Context, scheduleID uint64, nextDue time.Time, lastRun *time.Time, status model.ScheduleStatus) {
	if err := j.schedules.ReleaseSchedule(ctx, scheduleID, nextDue, lastRun, status); err != nil {
		log.ErrorContext(ctx, "release schedule failed", "schedule_id", scheduleID, "err", err)
	}
}
