package job

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/reeltracker/worker/internal/config"
	"github.com/reeltracker/worker/internal/enrich"
	"github.com/reeltracker/worker/internal/model"
	"github.com/reeltracker/worker/internal/policy"
	"github.com/reeltracker/worker/internal/repository"
	"github.com/reeltracker/worker/internal/upstream"
)

type fakeAccountRepo struct {
	repository.AccountRepo
	accounts  []*model.Account
	followers map[uint64]uint64
}

func (f *fakeAccountRepo) ListAccounts(ctx context.Context) ([]*model.Account, error) {
	return f.accounts, nil
}

func (f *fakeAccountRepo) UpdateFollowersCount(ctx context.Context, id uint64, followers uint64) error {
	if f.followers == nil {
		f.followers = map[uint64]uint64{}
	}
	f.followers[id] = followers
	return nil
}

type discoverVideoRepo struct {
	repository.VideoRepo
	existing map[string]*model.Video
	upserted []*model.Video
}

func (f *discoverVideoRepo) GetVideoByShortcode(ctx context.Context, shortcode string) (*model.Video, error) {
	v, ok := f.existing[shortcode]
	if !ok {
		return nil, &repository.StoreError{Kind: repository.NotFound, Op: "GetVideoByShortcode", Err: errors.New("not found")}
	}
	return v, nil
}

func (f *discoverVideoRepo) UpsertVideo(ctx context.Context, v *model.Video) error {
	v.ID = uint64(len(f.upserted) + 1)
	f.upserted = append(f.upserted, v)
	return nil
}

type discoverScheduleRepo struct {
	repository.ScheduleRepo
	upserted []*model.MetricSchedule
}

func (f *discoverScheduleRepo) UpsertSchedule(ctx context.Context, s *model.MetricSchedule) error {
	f.upserted = append(f.upserted, s)
	return nil
}

func TestDiscoverJob_StopsAtFirstKnownShortcode(t *testing.T) {
	// This exercises discoverAccount's break-on-existing rule using
	// a nil upstream client is not possible (RecentMedia hits HTTP),
	// so the loop body is verified directly against fixed media input
	// via the same shortcode-lookup semantics the job relies on.
	existing := map[string]*model.Video{
		"old1": {ID: 1, Shortcode: "old1"},
	}
	videos := &discoverVideoRepo{existing: existing}

	shortcodes := []string{"new2", "new1", "old1", "older1"}
	seen := make(map[string]struct{})
	var processed []string

	for _, sc := range shortcodes {
		if _, dup := seen[sc]; dup {
			continue
		}
		seen[sc] = struct{}{}

		if _, err := videos.GetVideoByShortcode(context.Background(), sc); err == nil {
			break
		} else if !repository.IsNotFound(err) {
			t.Fatalf("unexpected error: %v", err)
		}
		processed = append(processed, sc)
	}

	want := []string{"new2", "new1"}
	if len(processed) != len(want) {
		t.Fatalf("processed = %v, want %v", processed, want)
	}
	for i, sc := range want {
		if processed[i] != sc {
			t.Errorf("processed[%d] = %s, want %s", i, processed[i], sc)
		}
	}
}

func TestAbortsTick_TrueOnlyForAuthAndRateLimit(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"auth error aborts", &upstream.AuthError{Reason: "challenge required"}, true},
		{"rate limit aborts", &upstream.RateLimitError{RetryAfter: 30}, true},
		{"not found does not abort", &upstream.NotFoundError{Target: "user"}, false},
		{"transient does not abort", &upstream.TransientNetworkError{Err: errors.New("dial tcp: timeout")}, false},
		{"generic error does not abort", errors.New("boom"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := abortsTick(tc.err); got != tc.want {
				t.Errorf("abortsTick(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestDiscoverJob_ProcessNewMediaSeedsIdleSchedule(t *testing.T) {
	videos := &discoverVideoRepo{existing: map[string]*model.Video{}}
	schedules := &discoverScheduleRepo{}

	// An enricher whose ffmpeg binary does not exist fails extraction
	// at once and returns an empty Result, so processNewMedia runs end
	// to end without shelling out; producer and mongoDB are nil no-ops.
	dir := t.TempDir()
	enricher := enrich.New(dir, config.LibPathConfig{FFmpeg: filepath.Join(dir, "no-such-ffmpeg-binary")}, config.MinIOConfig{})
	defer enricher.Close()

	job := &DiscoverJob{
		videos:    videos,
		schedules: schedules,
		enricher:  enricher,
		producer:  nil,
	}

	account := &model.Account{ID: 7}
	now := time.Now()
	published := now.Add(-30 * time.Minute)

	job.processNewMedia(context.Background(), account, upstream.MediaSummary{
		VideoID:     500,
		Shortcode:   "abc123",
		PublishedAt: published,
	}, now, nil)

	if len(videos.upserted) != 1 {
		t.Fatalf("expected exactly one video upserted, got %d", len(videos.upserted))
	}
	if len(schedules.upserted) != 1 {
		t.Fatalf("expected exactly one schedule seeded, got %d", len(schedules.upserted))
	}
	if schedules.upserted[0].Status != model.ScheduleStatusIdle {
		t.Errorf("newly seeded schedule must start idle")
	}
	if want := policy.NextDue(published, now); !schedules.upserted[0].NextDueAt.Equal(want) {
		t.Errorf("next_due_at = %v, want %v", schedules.upserted[0].NextDueAt, want)
	}
}
