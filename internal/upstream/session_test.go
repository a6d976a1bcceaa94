package upstream

import (
	"path/filepath"
	"testing"
)

func TestLoadSession_MissingFileReturnsNilNil(t *testing.T) {
	s, err := loadSession(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if s != nil {
		t.Errorf("expected nil session, got %+v", s)
	}
}

func TestSaveSession_RoundTripsThroughLoadSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	original := &Session{Cookies: "abc", CSRFToken: "xyz", UserAgent: "test-agent"}

	if err := saveSession(path, original); err != nil {
		t.Fatalf("saveSession returned error: %v", err)
	}

	loaded, err := loadSession(path)
	if err != nil {
		t.Fatalf("loadSession returned error: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected a loaded session, got nil")
	}
	if loaded.Cookies != original.Cookies || loaded.CSRFToken != original.CSRFToken {
		t.Errorf("loaded session %+v does not match saved session %+v", loaded, original)
	}
	if loaded.SavedAt.IsZero() {
		t.Error("expected SavedAt to be stamped by saveSession")
	}
}

func TestSaveSession_LeavesNoTempFileBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")

	if err := saveSession(path, &Session{Cookies: "abc"}); err != nil {
		t.Fatalf("saveSession returned error: %v", err)
	}

	entries, err := filepathGlob(dir)
	if err != nil {
		t.Fatalf("failed to list temp dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected exactly the final session file to remain, found %v", entries)
	}
}

func filepathGlob(dir string) ([]string, error) {
	return filepath.Glob(filepath.Join(dir, "*"))
}
