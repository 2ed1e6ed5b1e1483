package recording

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/ivlev/autocam/internal/events"
)

func sampleRecording() (events.Recording, []events.UIStateSample) {
	rec := events.Recording{
		Duration:  5,
		FrameRate: 60,
		Screen:    events.Size{Width: 1440, Height: 900},
		Positions: []events.MousePosition{
			{Time: 0, Position: events.NormalizedPoint{X: 0.5, Y: 0.5}, AppBundleID: "com.apple.Safari"},
			{Time: 0.5, Position: events.NormalizedPoint{X: 0.52, Y: 0.48}},
		},
		Clicks: []events.Click{
			{
				Time:     1.0,
				Position: events.NormalizedPoint{X: 0.52, Y: 0.48},
				Type:     events.LeftDown,
				Element:  &events.ElementInfo{Role: "AXButton", Frame: &events.Rect{X: 700, Y: 400, W: 80, H: 24}},
			},
		},
		Keys: []events.KeyEvent{
			{Time: 2.0, KeyCode: 1, Character: "s", Type: events.KeyDown, Modifiers: events.ModCommand},
		},
		Drags: []events.Drag{
			{StartTime: 3, EndTime: 3.5, StartPosition: events.NormalizedPoint{X: 0.1, Y: 0.1}, EndPosition: events.NormalizedPoint{X: 0.3, Y: 0.2}, Kind: events.DragSelection},
		},
		Scrolls: []events.Scroll{
			{Time: 4, Position: events.NormalizedPoint{X: 0.5, Y: 0.5}, DeltaY: -2.5},
		},
	}
	ui := []events.UIStateSample{
		{Time: 1.9, CursorPosition: events.NormalizedPoint{X: 0.5, Y: 0.5}, CaretBounds: &events.Rect{X: 300, Y: 200, W: 2, H: 16}},
	}
	return rec, ui
}

func TestJSONRoundTrip(t *testing.T) {
	rec, ui := sampleRecording()
	path := filepath.Join(t.TempDir(), "take.json")

	if err := WriteJSON(path, rec, ui); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	gotRec, gotUI, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(gotRec, rec) {
		t.Errorf("recording changed:\n got %+v\nwant %+v", gotRec, rec)
	}
	if !reflect.DeepEqual(gotUI, ui) {
		t.Errorf("ui states changed: got %+v", gotUI)
	}
}

func TestLoadJSONRejectsInvalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"duration": 3, "drags": [{"startTime": 2, "endTime": 1, "kind": "move"}]}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := LoadJSON(bad); !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("got %v, want ErrInvalidEvent for a backwards drag", err)
	}

	broken := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(broken, []byte(`{"duration": `), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := LoadJSON(broken); err == nil {
		t.Error("expected a parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*events.Recording)
	}{
		{"negative duration", func(r *events.Recording) { r.Duration = -1 }},
		{"NaN position time", func(r *events.Recording) { r.Positions[0].Time = math.NaN() }},
		{"unknown click type", func(r *events.Recording) { r.Clicks[0].Type = "middleDown" }},
		{"unknown key type", func(r *events.Recording) { r.Keys[0].Type = "keyRepeat" }},
		{"unknown drag kind", func(r *events.Recording) { r.Drags[0].Kind = "fling" }},
		{"infinite scroll position", func(r *events.Recording) { r.Scrolls[0].Position.X = math.Inf(1) }},
	}

	rec, ui := sampleRecording()
	if err := Validate(rec, ui); err != nil {
		t.Fatalf("valid recording rejected: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ui := sampleRecording()
			tt.mutate(&r)
			if err := Validate(r, ui); !errors.Is(err, ErrInvalidEvent) {
				t.Errorf("got %v, want ErrInvalidEvent", err)
			}
		})
	}
}

func TestStoreSessions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	rec, ui := sampleRecording()
	first, err := store.CreateSession(rec, ui)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	second := rec
	second.Duration = 9
	secondID, err := store.CreateSession(second, nil)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	gotRec, gotUI, err := store.LoadSession(first)
	if err != nil {
		t.Fatalf("LoadSession failed: %v", err)
	}
	if !reflect.DeepEqual(gotRec, rec) {
		t.Errorf("stored recording changed:\n got %+v\nwant %+v", gotRec, rec)
	}
	if !reflect.DeepEqual(gotUI, ui) {
		t.Errorf("stored ui states changed: got %+v", gotUI)
	}

	latest, err := store.LatestSession()
	if err != nil {
		t.Fatalf("LatestSession failed: %v", err)
	}
	if latest != secondID {
		t.Errorf("latest session %s, want %s", latest, secondID)
	}

	if _, _, err := store.LoadSession("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("got %v, want ErrSessionNotFound", err)
	}
}

func TestStoreRejectsInvalid(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	rec, _ := sampleRecording()
	rec.Clicks[0].Time = -1
	if _, err := store.CreateSession(rec, nil); !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("got %v, want ErrInvalidEvent", err)
	}
	if _, err := store.LatestSession(); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("got %v, want ErrSessionNotFound on an empty store", err)
	}
}

func TestLoadFromStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "take.sqlite")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	rec, ui := sampleRecording()
	if _, err := store.CreateSession(rec, ui); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	store.Close()

	got, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Duration != rec.Duration || len(got.Clicks) != 1 {
		t.Errorf("loaded %+v, want the stored session", got)
	}
}

func TestLoadUnsupported(t *testing.T) {
	if _, _, err := Load("take.mov"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("got %v, want ErrUnsupportedFormat", err)
	}
}
