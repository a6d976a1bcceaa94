// Package enrich implements the Media Enricher: given a freshly
// discovered video, download its audio to a content-addressed file
// and transcribe it to text, tolerating partial failure at every step.
package enrich

import (
	"context"
	"fmt"
	log "log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/reeltracker/worker/internal/config"
	"github.com/reeltracker/worker/internal/pkg/consts"
	"github.com/reeltracker/worker/internal/pkg/minio"
	"github.com/reeltracker/worker/internal/pkg/redis"
)

// enrichLockTTL bounds how long a shortcode's enrichment lock is held,
// long enough to cover extraction plus transcription of one clip.
const enrichLockTTL = 5 * time.Minute

// transcriptionPoolSize bounds how many whisper processes can run at
// once, so transcription — a blocking CPU job on a model — never
// starves the scheduling timer even if several accounts discover new
// media in the same tick.
const transcriptionPoolSize = 2

// Result is the outcome of one enrichment attempt. Either field may be
// nil: partial failure (audio ok, text missing) is a valid, expected
// output, not an error.
type Result struct {
	AudioFilePath *string
	Transcription *string
}

type transcribeJob struct {
	ctx      context.Context
	path     string
	resultCh chan transcribeOutcome
}

type transcribeOutcome struct {
	text string
	err  error
}

// Enricher owns the bounded transcription worker pool and the local
// audio directory.
type Enricher struct {
	audioDir string
	libPath  config.LibPathConfig
	minio    config.MinIOConfig

	jobs chan transcribeJob
}

// New starts the transcription worker pool. Callers should call
// Close on shutdown to stop the workers.
func New(audioDir string, libPath config.LibPathConfig, minioCfg config.MinIOConfig) *Enricher {
	e := &Enricher{
		audioDir: audioDir,
		libPath:  libPath,
		minio:    minioCfg,
		jobs:     make(chan transcribeJob),
	}
	for i := 0; i < transcriptionPoolSize; i++ {
		go e.transcribeWorker()
	}
	return e
}

func (e *Enricher) transcribeWorker() {
	for job := range e.jobs {
		text, err := transcribe(job.ctx, e.libPath, job.path)
		job.resultCh <- transcribeOutcome{text: text, err: err}
	}
}

// Close stops the transcription workers. Safe to call once.
func (e *Enricher) Close() {
	close(e.jobs)
}

// Enrich extracts audio and transcribes it for one video. Errors from
// either step are absorbed into a nil field, never returned: the
// Scheduler must never see an enrichment failure abort a discover
// tick.
//
// Idempotent: calling twice for the same shortcode reuses an existing
// non-empty mp3 (skipping extraction) and re-attempts transcription
// only if it is not already provided by the caller as done.
func (e *Enricher) Enrich(ctx context.Context, shortcode, mediaURL string, transcriptionAlreadyDone bool) Result {
	release, ok := e.tryLockShortcode(ctx, shortcode)
	if !ok {
		log.InfoContext(ctx, "enrichment already in progress elsewhere, skipping", "shortcode", shortcode)
		return Result{}
	}
	if release != nil {
		defer release()
	}

	audioPath := filepath.Join(e.audioDir, shortcode+".mp3")

	if !audioFileReady(audioPath) {
		if err := extractAudio(ctx, e.libPath, mediaURL, audioPath); err != nil {
			log.WarnContext(ctx, "audio extraction failed", "shortcode", shortcode, "err", err)
			return Result{}
		}
		e.archiveAudio(ctx, shortcode, audioPath)
	}

	result := Result{AudioFilePath: &audioPath}

	if transcriptionAlreadyDone {
		return result
	}

	text, err := e.runTranscription(ctx, audioPath)
	if err != nil {
		log.WarnContext(ctx, "transcription failed", "shortcode", shortcode, "err", err)
		return result
	}

	result.Transcription = &text
	return result
}

func (e *Enricher) runTranscription(ctx context.Context, audioPath string) (string, error) {
	resultCh := make(chan transcribeOutcome, 1)
	select {
	case e.jobs <- transcribeJob{ctx: ctx, path: audioPath, resultCh: resultCh}:
	case <-ctx.Done():
		return "", ctx.Err()
	}

	select {
	case out := <-resultCh:
		return out.text, out.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// tryLockShortcode guards a single shortcode against concurrent
// enrichment across worker processes sharing Redis. Without Redis
// configured, every caller proceeds unlocked: Enrich's idempotent
// audioFileReady check is the only safety net in that case.
func (e *Enricher) tryLockShortcode(ctx context.Context, shortcode string) (func(), bool) {
	if redis.Rdb == nil {
		return nil, true
	}

	key := consts.EnrichLockKeyPrefix + shortcode
	token := uuid.NewString()
	ok, err := redis.TryLock(ctx, key, token, enrichLockTTL)
	if err != nil {
		log.WarnContext(ctx, "enrich lock check failed, proceeding unlocked", "shortcode", shortcode, "err", err)
		return nil, true
	}
	if !ok {
		return nil, false
	}

	return func() {
		_ = redis.Unlock(context.Background(), key, token)
	}, true
}

func audioFileReady(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Size() > 0
}

// archiveAudio best-effort uploads the extracted mp3 to MinIO (C13).
// The local file remains authoritative; a failed upload never fails
// enrichment.
func (e *Enricher) archiveAudio(ctx context.Context, shortcode, audioPath string) {
	if !e.minio.Enabled {
		return
	}
	f, err := os.Open(audioPath)
	if err != nil {
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return
	}

	objectName := fmt.Sprintf("%s.mp3", shortcode)
	if _, err := minio.UploadFile(ctx, objectName, f, info.Size(), "audio/mpeg"); err != nil {
		log.WarnContext(ctx, "minio archive upload failed", "shortcode", shortcode, "err", err)
	}
}
