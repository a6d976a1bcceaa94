package job

import (
	"context"
	"errors"
	log "log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/reeltracker/worker/internal/enrich"
	"github.com/reeltracker/worker/internal/model"
	"github.com/reeltracker/worker/internal/pkg/consts"
	"github.com/reeltracker/worker/internal/pkg/es"
	"github.com/reeltracker/worker/internal/pkg/kafka"
	"github.com/reeltracker/worker/internal/pkg/logger"
	"github.com/reeltracker/worker/internal/pkg/mongo"
	"github.com/reeltracker/worker/internal/policy"
	"github.com/reeltracker/worker/internal/repository"
	"github.com/reeltracker/worker/internal/upstream"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
)

// interAccountDelay paces discover between accounts so it never
// hammers the upstream even across a large tracked-account list.
const interAccountDelay = 10 * time.Second

// DiscoverJob asks the Upstream Client for each account's recent
// media, diffs against the Store, enriches new videos, and seeds a
// first metric schedule for each.
type DiscoverJob struct {
	accounts  repository.AccountRepo
	videos    repository.VideoRepo
	schedules repository.ScheduleRepo
	upstream  *upstream.Client
	enricher  *enrich.Enricher
	producer  *kafka.Producer
	mongoDB   *mongodriver.Database
	reelsLimit int
}

func NewDiscoverJob(
	accounts repository.AccountRepo,
	videos repository.VideoRepo,
	schedules repository.ScheduleRepo,
	client *upstream.Client,
	enricher *enrich.Enricher,
	producer *kafka.Producer,
	mongoDB *mongodriver.Database,
	reelsLimit int,
) *DiscoverJob {
	return &DiscoverJob{
		accounts:   accounts,
		videos:     videos,
		schedules:  schedules,
		upstream:   client,
		enricher:   enricher,
		producer:   producer,
		mongoDB:    mongoDB,
		reelsLimit: reelsLimit,
	}
}

func (j *DiscoverJob) Run(ctx context.Context) error {
	traceID := "job-discover-" + uuid.NewString()
	ctx = context.WithValue(ctx, logger.TraceIDKey, traceID)

	accounts, err := j.accounts.ListAccounts(ctx)
	if err != nil {
		return err
	}

	for _, account := range accounts {
		if !j.discoverAccount(ctx, account) {
			break // auth failure or rate limited: abort this tick, keep worker alive
		}
		time.Sleep(interAccountDelay)
	}

	return nil
}

// abortsTick reports whether err requires the whole discover tick to
// stop rather than just skipping the current account: AuthError and
// RateLimitError per spec.md §4.5/§7, since neither will resolve by
// moving on to the next account.
func abortsTick(err error) bool {
	var authErr *upstream.AuthError
	var rateLimit *upstream.RateLimitError
	return errors.As(err, &authErr) || errors.As(err, &rateLimit)
}

// discoverAccount returns false when the tick should stop early (see
// abortsTick). NotFoundError (this account only) and any other error
// skip just this account and let the loop continue.
func (j *DiscoverJob) discoverAccount(ctx context.Context, account *model.Account) bool {
	media, rawBody, err := j.upstream.RecentMedia(ctx, account.ID, j.reelsLimit)
	if err != nil {
		var notFound *upstream.NotFoundError

		switch {
		case errors.As(err, &notFound):
			log.WarnContext(ctx, "account not found upstream, skipping", "account_id", account.ID)
			return true
		case abortsTick(err):
			log.ErrorContext(ctx, "discover aborted for tick", "account_id", account.ID, "err", err)
			return false
		default:
			log.ErrorContext(ctx, "discover aborted for account", "account_id", account.ID, "err", err)
			return true
		}
	}

	if len(media) > 0 {
		j.updateFollowersCount(ctx, account.ID, media[0].FollowersCount)
	}

	now := time.Now()
	seen := make(map[string]struct{}, len(media))

	for _, m := range media {
		if _, dup := seen[m.Shortcode]; dup {
			continue
		}
		seen[m.Shortcode] = struct{}{}

		if _, err := j.videos.GetVideoByShortcode(ctx, m.Shortcode); err == nil {
			// Assume upstream returns newest first; an existing shortcode
			// means everything older was already processed in a prior tick.
			break
		} else if !repository.IsNotFound(err) {
			log.ErrorContext(ctx, "lookup failed, skipping remainder of account", "account_id", account.ID, "err", err)
			return true
		}

		j.processNewMedia(ctx, account, m, now, rawBody)
	}

	return true
}

func (j *DiscoverJob) processNewMedia(ctx context.Context, account *model.Account, m upstream.MediaSummary, now time.Time, rawBody []byte) {
	result := j.enricher.Enrich(ctx, m.Shortcode, m.URL, false)

	video := &model.Video{
		VideoID:         m.VideoID,
		Shortcode:       m.Shortcode,
		AccountID:       account.ID,
		VideoURL:        m.URL,
		AudioURL:        m.AudioURL,
		AudioFilePath:   result.AudioFilePath,
		Transcription:   result.Transcription,
		Caption:         m.Caption,
		DurationSeconds: m.DurationSeconds,
		PublishedAt:     m.PublishedAt,
	}

	if err := j.videos.UpsertVideo(ctx, video); err != nil {
		log.ErrorContext(ctx, "upsert video failed", "account_id", account.ID, "shortcode", m.Shortcode, "err", err)
		return
	}

	nextDue := policy.NextDue(m.PublishedAt, now)
	schedule := &model.MetricSchedule{
		VideoID:         video.ID,
		NextDueAt:       nextDue,
		IntervalSeconds: int(nextDue.Sub(now).Seconds()),
		Status:          model.ScheduleStatusIdle,
	}
	if err := j.schedules.UpsertSchedule(ctx, schedule); err != nil {
		log.ErrorContext(ctx, "upsert schedule failed", "account_id", account.ID, "shortcode", m.Shortcode, "err", err)
		return
	}

	j.producer.Publish(consts.KafkaEventVideoDiscovered, m.Shortcode, video)
	j.archiveRawPayload(ctx, "recent_media", account.ID, m.Shortcode, rawBody)
	j.indexTranscript(ctx, account, video)
}

// indexTranscript best-effort indexes a video's transcript for the
// admin API's full-text search (C12). Only videos with a completed
// transcription are indexed; a nil Client (integration disabled) is a
// silent no-op.
func (j *DiscoverJob) indexTranscript(ctx context.Context, account *model.Account, video *model.Video) {
	if video.Transcription == nil {
		return
	}
	doc := es.TranscriptDocument{
		Shortcode:   video.Shortcode,
		AccountID:   account.ID,
		Username:    account.Username,
		Caption:     video.Caption,
		Transcript:  *video.Transcription,
		PublishedAt: video.PublishedAt.Format(time.RFC3339),
	}
	if err := es.IndexTranscript(ctx, doc); err != nil {
		log.WarnContext(ctx, "transcript index failed", "shortcode", video.Shortcode, "err", err)
	}
}

func (j *DiscoverJob) updateFollowersCount(ctx context.Context, accountID uint64, followers uint64) {
	if err := j.accounts.UpdateFollowersCount(ctx, accountID, followers); err != nil {
		log.WarnContext(ctx, "failed to refresh followers count", "account_id", accountID, "err", err)
	}
}

// archiveRawPayload stores the exact upstream response bytes behind
// one newly discovered video, for the Raw Payload Archive (C14).
// rawBody is the shared listing response for every video discovered
// out of the same RecentMedia call.
func (j *DiscoverJob) archiveRawPayload(ctx context.Context, kind string, accountID uint64, shortcode string, rawBody []byte) {
	if j.mongoDB == nil {
		return
	}
	err := mongo.ArchiveRawPayload(ctx, j.mongoDB, mongo.RawPayload{
		Kind:      kind,
		AccountID: accountID,
		Shortcode: shortcode,
		Body:      string(rawBody),
		FetchedAt: time.Now(),
	})
	if err != nil {
		log.WarnContext(ctx, "raw payload archive failed", "account_id", accountID, "err", err)
	}
}
