package enrich

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/reeltracker/worker/internal/config"
)

// extractAudio shells out to ffmpeg to pull the audio track from
// mediaURL into a local mp3 at destPath. The extractor is opaque per
// its contract: any binary satisfying "URL -> mp3" would do.
func extractAudio(ctx context.Context, cfg config.LibPathConfig, mediaURL, destPath string) error {
	cmd := exec.CommandContext(ctx, cfg.FFmpeg,
		"-y",
		"-i", mediaURL,
		"-vn",
		"-acodec", "libmp3lame",
		"-q:a", "4",
		destPath,
	)
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg extraction failed: %w", err)
	}

	info, err := os.Stat(destPath)
	if err != nil {
		return fmt.Errorf("extracted file missing: %w", err)
	}
	if info.Size() == 0 {
		os.Remove(destPath)
		return fmt.Errorf("extracted file is empty")
	}
	return nil
}
