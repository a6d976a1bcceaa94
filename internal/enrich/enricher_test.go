package enrich

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/reeltracker/worker/internal/config"
)

func TestAudioFileReady_FalseForMissingOrEmptyFile(t *testing.T) {
	dir := t.TempDir()

	missing := filepath.Join(dir, "missing.mp3")
	if audioFileReady(missing) {
		t.Error("expected missing file to not be ready")
	}

	empty := filepath.Join(dir, "empty.mp3")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatalf("failed to write empty file: %v", err)
	}
	if audioFileReady(empty) {
		t.Error("expected empty file to not be ready")
	}

	nonEmpty := filepath.Join(dir, "audio.mp3")
	if err := os.WriteFile(nonEmpty, []byte("fake mp3 bytes"), 0o644); err != nil {
		t.Fatalf("failed to write non-empty file: %v", err)
	}
	if !audioFileReady(nonEmpty) {
		t.Error("expected non-empty file to be ready")
	}
}

// TestEnrich_ReusesExistingAudioAndSkipsDoneTranscription exercises the
// idempotence contract without shelling out to ffmpeg or whisper: a
// pre-populated audio file skips extraction, and
// transcriptionAlreadyDone skips the transcription pool entirely.
func TestEnrich_ReusesExistingAudioAndSkipsDoneTranscription(t *testing.T) {
	dir := t.TempDir()
	shortcode := "abc123"
	audioPath := filepath.Join(dir, shortcode+".mp3")
	if err := os.WriteFile(audioPath, []byte("already extracted"), 0o644); err != nil {
		t.Fatalf("failed to seed audio file: %v", err)
	}

	e := New(dir, config.LibPathConfig{}, config.MinIOConfig{})
	defer e.Close()

	result := e.Enrich(context.Background(), shortcode, "https://example.com/video.mp4", true)

	if result.AudioFilePath == nil || *result.AudioFilePath != audioPath {
		t.Fatalf("expected existing audio path %q, got %+v", audioPath, result)
	}
	if result.Transcription != nil {
		t.Errorf("expected no transcription when caller marks it already done, got %v", *result.Transcription)
	}
}

// TestEnrich_MissingExtractorBinaryYieldsEmptyResult confirms a failed
// extraction is absorbed into a zero-value Result rather than
// propagated as an error, per the Media Enricher's partial-failure
// contract.
func TestEnrich_MissingExtractorBinaryYieldsEmptyResult(t *testing.T) {
	dir := t.TempDir()

	e := New(dir, config.LibPathConfig{FFmpeg: filepath.Join(dir, "no-such-ffmpeg-binary")}, config.MinIOConfig{})
	defer e.Close()

	result := e.Enrich(context.Background(), "missing", "https://example.com/video.mp4", false)

	if result.AudioFilePath != nil {
		t.Errorf("expected nil audio path on extraction failure, got %v", *result.AudioFilePath)
	}
	if result.Transcription != nil {
		t.Errorf("expected nil transcription on extraction failure, got %v", *result.Transcription)
	}
}

// TestEnrich_MissingTranscriberBinaryKeepsAudioPath confirms audio
// extraction success survives a failed transcription step.
func TestEnrich_MissingTranscriberBinaryKeepsAudioPath(t *testing.T) {
	dir := t.TempDir()
	shortcode := "keep-audio"
	audioPath := filepath.Join(dir, shortcode+".mp3")
	if err := os.WriteFile(audioPath, []byte("already extracted"), 0o644); err != nil {
		t.Fatalf("failed to seed audio file: %v", err)
	}

	e := New(dir, config.LibPathConfig{Whisper: filepath.Join(dir, "no-such-whisper-binary")}, config.MinIOConfig{})
	defer e.Close()

	result := e.Enrich(context.Background(), shortcode, "https://example.com/video.mp4", false)

	if result.AudioFilePath == nil || *result.AudioFilePath != audioPath {
		t.Fatalf("expected audio path to survive transcription failure, got %+v", result)
	}
	if result.Transcription != nil {
		t.Errorf("expected nil transcription on transcriber failure, got %v", *result.Transcription)
	}
}
