package track

import (
	"math"
	"testing"

	"github.com/ivlev/autocam/internal/events"
	"github.com/ivlev/autocam/internal/simulator"
)

func sample(t, zoom, x float64) simulator.TimedTransform {
	return simulator.TimedTransform{
		Time:      t,
		Transform: simulator.Transform{Zoom: zoom, Center: events.NormalizedPoint{X: x, Y: 0.5}},
	}
}

func TestSegmentsDegenerate(t *testing.T) {
	if got := Segments(nil, DefaultConfig()); len(got) != 0 {
		t.Errorf("no samples gave %d segments, want 0", len(got))
	}

	got := Segments([]simulator.TimedTransform{sample(0, 1, 0.5)}, DefaultConfig())
	if len(got) != 1 {
		t.Fatalf("one sample gave %d segments, want 1", len(got))
	}
	if got[0].Start != 0 || got[0].End != 0 {
		t.Errorf("trivial segment %+v, want [0, 0]", got[0])
	}
}

func TestSegmentsStaticTrajectory(t *testing.T) {
	var samples []simulator.TimedTransform
	for i := 0; i <= 60; i++ {
		samples = append(samples, sample(float64(i)/60, 1.5, 0.5))
	}
	got := Segments(samples, DefaultConfig())
	if len(got) != 1 {
		t.Fatalf("static trajectory gave %d segments, want 1", len(got))
	}
	if got[0].End != 1 {
		t.Errorf("segment ends at %.3f, want 1", got[0].End)
	}
}

func TestSegmentsContinuity(t *testing.T) {
	tests := []struct {
		name    string
		samples []simulator.TimedTransform
		want    int
	}{
		{
			name: "zoom ramp",
			samples: []simulator.TimedTransform{
				sample(0, 1.00, 0.5), sample(1, 1.03, 0.5), sample(2, 1.06, 0.5),
				sample(3, 1.09, 0.5), sample(4, 1.12, 0.5),
			},
			// every second step exceeds the threshold: 0-1, 1-2, 2-3, 3-4
			want: 4,
		},
		{
			name: "jump every sample",
			samples: []simulator.TimedTransform{
				sample(0, 1, 0.5), sample(1, 2, 0.5), sample(2, 1, 0.5),
			},
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Segments(tt.samples, DefaultConfig())
			if len(got) != tt.want {
				t.Fatalf("got %d segments, want %d: %+v", len(got), tt.want, got)
			}
			if got[0].Start != tt.samples[0].Time {
				t.Errorf("first segment starts at %.3f", got[0].Start)
			}
			if last := got[len(got)-1]; last.End != tt.samples[len(tt.samples)-1].Time {
				t.Errorf("last segment ends at %.3f", last.End)
			}
			for i := 1; i < len(got); i++ {
				if got[i].Start != got[i-1].End {
					t.Errorf("segment %d starts at %.3f, previous ends at %.3f", i, got[i].Start, got[i-1].End)
				}
				if got[i].End <= got[i].Start {
					t.Errorf("segment %d is empty", i)
				}
			}
		})
	}
}

func TestCursorMergesClicks(t *testing.T) {
	positions := []events.MousePosition{
		{Time: 0, Position: events.NormalizedPoint{X: 0.1, Y: 0.1}},
		{Time: 1, Position: events.NormalizedPoint{X: 0.2, Y: 0.2}},
	}
	clicks := []events.Click{{Time: 0.5, Position: events.NormalizedPoint{X: 0.15, Y: 0.15}, Type: events.LeftDown}}

	got := Cursor(positions, clicks)
	if len(got) != 3 {
		t.Fatalf("got %d cursor samples, want 3", len(got))
	}
	if got[1].Click != events.LeftDown || got[1].Time != 0.5 {
		t.Errorf("middle sample %+v, want the click", got[1])
	}
	if got[0].Click != "" || got[2].Click != "" {
		t.Error("pointer samples should not carry a click")
	}
}

func TestKeystrokes(t *testing.T) {
	keys := []events.KeyEvent{
		{Time: 1.0, KeyCode: 4, Character: "h", Type: events.KeyDown},
		{Time: 1.0, KeyCode: 4, Character: "h", Type: events.KeyUp},
		{Time: 1.2, KeyCode: 34, Character: "i", Type: events.KeyDown},
		{Time: 1.4, KeyCode: 49, Character: " ", Type: events.KeyDown},
		{Time: 2.0, KeyCode: 1, Character: "s", Type: events.KeyDown, Modifiers: events.ModCommand},
		{Time: 4.0, KeyCode: 0, Character: "a", Type: events.KeyDown},
	}

	got := Keystrokes(keys, DefaultConfig())
	if len(got) != 3 {
		t.Fatalf("got %d keystroke entries, want 3: %+v", len(got), got)
	}

	burst := got[0]
	if len(burst.Labels) != 3 || burst.Labels[0] != "h" || burst.Labels[1] != "i" || burst.Labels[2] != "Space" {
		t.Errorf("burst labels %v, want [h i Space]", burst.Labels)
	}
	if burst.Start != 1.0 || math.Abs(burst.End-2.2) > 1e-9 {
		t.Errorf("burst spans [%.2f, %.2f], want [1.00, 2.20]", burst.Start, burst.End)
	}

	if !got[1].Shortcut || got[1].Labels[0] != "Cmd+S" {
		t.Errorf("shortcut entry %+v, want Cmd+S", got[1])
	}
	if got[2].Shortcut || got[2].Labels[0] != "a" {
		t.Errorf("last entry %+v, want a new burst with a", got[2])
	}
}

func TestKeyLabel(t *testing.T) {
	tests := []struct {
		key  events.KeyEvent
		want string
	}{
		{events.KeyEvent{KeyCode: 0, Character: "a"}, "a"},
		{events.KeyEvent{KeyCode: 6, Character: "z", Modifiers: events.ModCommand | events.ModShift}, "Shift+Cmd+Z"},
		{events.KeyEvent{KeyCode: 36, Modifiers: events.ModCommand}, "Cmd+Return"},
		{events.KeyEvent{KeyCode: 123}, "Left"},
		{events.KeyEvent{KeyCode: 200}, "?"},
	}
	for _, tt := range tests {
		if got := KeyLabel(tt.key); got != tt.want {
			t.Errorf("KeyLabel(%+v) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestAtReproducesTrajectory(t *testing.T) {
	cfg := DefaultConfig()
	var samples []simulator.TimedTransform
	for i := 0; i <= 120; i++ {
		tm := float64(i) / 60
		f := 1 - math.Exp(-3*tm)
		samples = append(samples, sample(tm, 1+0.8*f, 0.5+0.2*f))
	}
	segs := Segments(samples, cfg)

	for _, s := range samples {
		got := At(segs, s.Time, Linear)
		if math.Abs(got.Zoom-s.Transform.Zoom) > 2*cfg.ZoomThreshold+1e-9 {
			t.Fatalf("zoom at %.3f: %.4f, trajectory %.4f", s.Time, got.Zoom, s.Transform.Zoom)
		}
		if got.Center.Distance(s.Transform.Center) > 2*cfg.CenterThreshold+1e-9 {
			t.Fatalf("center at %.3f: %+v, trajectory %+v", s.Time, got.Center, s.Transform.Center)
		}
	}
}

func TestAtBounds(t *testing.T) {
	segs := []Segment{
		{Start: 1, End: 2, From: sample(1, 1, 0.5).Transform, To: sample(2, 2, 0.5).Transform},
		{Start: 3, End: 4, From: sample(3, 2, 0.5).Transform, To: sample(4, 1.5, 0.5).Transform},
	}

	quad := func(f float64) float64 { return f * f }

	tests := []struct {
		t    float64
		ease Easing
		want float64
	}{
		{0, Linear, 1},
		{1.5, Linear, 1.5},
		{1.5, quad, 1.25},
		{1.25, quad, 1.0625},
		{2.5, Linear, 2},
		{3.5, nil, 1.75},
		{9, Linear, 1.5},
	}
	for _, tt := range tests {
		if got := At(segs, tt.t, tt.ease).Zoom; math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("At(%.2f) zoom %.4f, want %.4f", tt.t, got, tt.want)
		}
	}

	if got := At(nil, 1, Linear); got.Zoom != 1 || got.Center.X != 0.5 {
		t.Errorf("empty track gave %+v, want the full frame", got)
	}
}
