package upstream

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// loadSession reads a persisted session blob, returning (nil, nil) if
// none exists yet.
func loadSession(path string) (*Session, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var s Session
	if err := json.Unmarshal(body, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// saveSession persists s atomically: write to a temp file in the same
// directory, then rename over the destination, so a concurrent reader
// (or a crash mid-write) never observes a partial file.
func saveSession(path string, s *Session) error {
	s.SavedAt = time.Now()

	body, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".session-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	return os.Rename(tmpPath, path)
}
