package enrich

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/reeltracker/worker/internal/config"
)

// transcribe shells out to a local whisper-style CLI to turn an mp3
// into UTF-8 text. Opaque per its contract: any binary satisfying
// "mp3 -> text" would do.
func transcribe(ctx context.Context, cfg config.LibPathConfig, audioPath string) (string, error) {
	args := []string{"-f", audioPath, "--output-txt", "--no-timestamps"}
	if cfg.WhisperModel != "" {
		args = append(args, "-m", cfg.WhisperModel)
	}

	cmd := exec.CommandContext(ctx, cfg.Whisper, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("whisper transcription failed: %w: %s", err, stderr.String())
	}

	return strings.TrimSpace(stdout.String()), nil
}
