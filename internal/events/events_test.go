package events

import (
	"math"
	"testing"
)

func TestClampCenter(t *testing.T) {
	tests := []struct {
		center NormalizedPoint
		zoom   float64
		want   NormalizedPoint
	}{
		{NormalizedPoint{0.5, 0.5}, 2.0, NormalizedPoint{0.5, 0.5}},
		{NormalizedPoint{0.1, 0.9}, 2.0, NormalizedPoint{0.25, 0.75}},
		{NormalizedPoint{0.0, 1.0}, 4.0, NormalizedPoint{0.125, 0.875}},
		{NormalizedPoint{0.9, 0.1}, 1.0, NormalizedPoint{0.5, 0.5}},
		{NormalizedPoint{0.9, 0.1}, 0.5, NormalizedPoint{0.5, 0.5}}, // zoom below 1 treated as 1
	}

	for _, tt := range tests {
		got := ClampCenter(tt.center, tt.zoom)
		if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
			t.Errorf("ClampCenter(%v, %.2f) = %v, want %v", tt.center, tt.zoom, got, tt.want)
		}
	}
}

func TestNormalizeRect(t *testing.T) {
	screen := Size{Width: 2000, Height: 1000}
	r := screen.NormalizeRect(Rect{X: 500, Y: 250, W: 1000, H: 500})
	if r.X != 0.25 || r.Y != 0.25 || r.W != 0.5 || r.H != 0.5 {
		t.Errorf("unexpected normalized rect: %+v", r)
	}

	raw := Rect{X: 0.1, Y: 0.2, W: 0.3, H: 0.4}
	if got := (Size{}).NormalizeRect(raw); got != raw {
		t.Errorf("zero size should leave rect unchanged, got %+v", got)
	}
}

func TestKeyEventIsShortcut(t *testing.T) {
	tests := []struct {
		mods Modifiers
		want bool
	}{
		{0, false},
		{ModShift, false},
		{ModCommand, true},
		{ModControl | ModShift, true},
		{ModOption, false},
	}
	for _, tt := range tests {
		k := KeyEvent{Type: KeyDown, Modifiers: tt.mods}
		if got := k.IsShortcut(); got != tt.want {
			t.Errorf("modifiers %b: IsShortcut = %v, want %v", tt.mods, got, tt.want)
		}
	}
}

func TestModifiersLabel(t *testing.T) {
	if got := (ModCommand | ModShift).Label(); got != "Shift+Cmd+" {
		t.Errorf("unexpected label %q", got)
	}
	if got := Modifiers(0).Label(); got != "" {
		t.Errorf("expected empty label, got %q", got)
	}
}

func TestRecordingAnchors(t *testing.T) {
	rec := Recording{
		Clicks: []Click{{Time: 1, Type: LeftDown}},
		Keys: []KeyEvent{
			{Time: 2, Type: KeyDown},
			{Time: 2.1, Type: KeyUp},
		},
		Drags:   []Drag{{StartTime: 3, EndTime: 4}},
		Scrolls: []Scroll{{Time: 5}},
	}

	anchors := rec.Anchors()
	if len(anchors) != 5 {
		t.Fatalf("expected 5 anchors, got %d: %v", len(anchors), anchors)
	}
	if rec.IsEmpty() {
		t.Error("recording with events reported empty")
	}
	if !(Recording{Duration: 3}).IsEmpty() {
		t.Error("recording without events should be empty")
	}
}
