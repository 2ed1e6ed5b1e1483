package system

import (
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFindLatestRecording(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)

	files := []struct {
		name string
		age  time.Duration
	}{
		{"take1.json", 3 * time.Minute},
		{"take2.sqlite", time.Minute},
		{"notes.txt", 0},
	}
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := os.WriteFile(path, []byte("{}"), 0644); err != nil {
			t.Fatal(err)
		}
		mt := base.Add(-f.age)
		if err := os.Chtimes(path, mt, mt); err != nil {
			t.Fatal(err)
		}
	}

	got, err := FindLatestRecording(dir)
	if err != nil {
		t.Fatalf("FindLatestRecording failed: %v", err)
	}
	if filepath.Base(got) != "take2.sqlite" {
		t.Errorf("got %s, want take2.sqlite", got)
	}
}

func TestFindLatestEmpty(t *testing.T) {
	_, err := FindLatest(t.TempDir(), ".json")
	if err == nil || !strings.Contains(err.Error(), ".json") {
		t.Errorf("expected a not-found error, got %v", err)
	}
}

func TestGrayPool(t *testing.T) {
	p := NewGrayPool()
	rect := image.Rect(0, 0, 16, 9)

	img := p.Get(rect)
	if img.Rect != rect {
		t.Fatalf("got bounds %v, want %v", img.Rect, rect)
	}
	p.Put(img)

	// foreign bounds are dropped
	p.Put(image.NewGray(image.Rect(0, 0, 3, 3)))
	if got := p.Get(rect); got.Rect != rect {
		t.Errorf("got bounds %v, want %v", got.Rect, rect)
	}
}

func TestReadStats(t *testing.T) {
	s, err := ReadStats()
	if err != nil {
		t.Skipf("process stats unavailable: %v", err)
	}
	if s.RSS == 0 || s.Goroutines == 0 {
		t.Errorf("implausible stats: %+v", s)
	}
	if !strings.Contains(s.String(), "RSS") {
		t.Errorf("unexpected report %q", s.String())
	}
}
