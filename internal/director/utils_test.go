package director

import (
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultOutputPath(t *testing.T) {
	now := time.Date(2026, 2, 13, 1, 2, 3, 0, time.UTC)
	path := DefaultOutputPath(DefaultOutputDir, now)

	want := filepath.Join("output", "tracks", "track_2026-02-13_01-02-03.yaml")
	if path != want {
		t.Errorf("got %s, want %s", path, want)
	}
}
