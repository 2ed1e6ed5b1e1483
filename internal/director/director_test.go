package director

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ivlev/autocam/internal/analyzer"
	"github.com/ivlev/autocam/internal/config"
	"github.com/ivlev/autocam/internal/events"
	"github.com/ivlev/autocam/internal/intent"
)

func pt(x, y float64) events.NormalizedPoint {
	return events.NormalizedPoint{X: x, Y: y}
}

// twoClickRecording is a 10 second take with two clicks and a pointer that
// travels between them
func twoClickRecording() events.Recording {
	rec := events.Recording{
		Duration:  10,
		FrameRate: 60,
		Clicks: []events.Click{
			{Time: 1.0, Position: pt(0.2, 0.3), Type: events.LeftDown},
			{Time: 2.0, Position: pt(0.8, 0.7), Type: events.LeftDown},
		},
	}
	for i := 0; i <= 600; i++ {
		tm := float64(i) / 60
		f := math.Min(1, math.Max(0, tm-1))
		rec.Positions = append(rec.Positions, events.MousePosition{
			Time:     tm,
			Position: pt(0.2+0.6*f, 0.3+0.4*f),
		})
	}
	return rec
}

func TestGenerateTwoClicks(t *testing.T) {
	d := New(config.DefaultSettings(), nil)
	res := d.Generate(Input{Recording: twoClickRecording()})

	var kinds []intent.Kind
	for _, s := range res.Spans {
		kinds = append(kinds, s.Intent.Kind)
	}
	want := []intent.Kind{intent.Idle, intent.Clicking, intent.Clicking, intent.Idle}
	if !reflect.DeepEqual(kinds, want) {
		t.Fatalf("got intents %v, want %v", kinds, want)
	}

	zoomed := false
	for _, w := range res.Waypoints {
		if w.Zoom > 1 {
			zoomed = true
		}
	}
	if !zoomed {
		t.Error("expected a waypoint zoomed past 1.0")
	}

	if len(res.Trajectory) != 601 {
		t.Errorf("got %d trajectory samples, want 601", len(res.Trajectory))
	}
	for _, s := range res.Trajectory {
		half := 0.5 / s.Transform.Zoom
		c := s.Transform.Center
		if c.X < half-1e-9 || c.X > 1-half+1e-9 || c.Y < half-1e-9 || c.Y > 1-half+1e-9 {
			t.Fatalf("sample at %.3f leaves the frame: %+v", s.Time, s.Transform)
		}
	}

	if len(res.Segments) == 0 {
		t.Error("expected display segments")
	}
	if res.Diagnostics.Samples != len(res.Trajectory) || res.Diagnostics.Spans != len(res.Spans) {
		t.Errorf("diagnostics %+v disagree with the result", res.Diagnostics)
	}
	if res.Diagnostics.Empty {
		t.Error("a recording with clicks was reported empty")
	}
	total := 0.0
	for _, secs := range res.Diagnostics.IntentTime {
		total += secs
	}
	if math.Abs(total-res.Duration) > 1e-9 || res.Diagnostics.IntentTime["clicking"] <= 0 {
		t.Errorf("intent time %v should cover the %.1fs take", res.Diagnostics.IntentTime, res.Duration)
	}
	if len(res.Cursor) != res.Diagnostics.Sampler.SampleCount+2 {
		t.Errorf("cursor track has %d samples, want sampled pointer plus 2 clicks", len(res.Cursor))
	}

	t.Logf("Generated %d spans, %d waypoints, %d samples, %d segments",
		len(res.Spans), len(res.Waypoints), len(res.Trajectory), len(res.Segments))
}

func TestGenerateEmpty(t *testing.T) {
	d := New(config.DefaultSettings(), nil)
	res := d.Generate(Input{})

	if len(res.Trajectory) != 0 {
		t.Errorf("got %d samples, want an empty trajectory", len(res.Trajectory))
	}
	if len(res.Segments) != 0 || len(res.Cursor) != 0 || len(res.Keystrokes) != 0 {
		t.Errorf("expected empty tracks, got %d segments, %d cursor, %d keystrokes",
			len(res.Segments), len(res.Cursor), len(res.Keystrokes))
	}
	if len(res.Spans) != 1 || res.Spans[0].Intent.Kind != intent.Idle {
		t.Errorf("spans %+v, want a single idle span", res.Spans)
	}
	if len(res.Waypoints) != 1 || res.Waypoints[0].Zoom != 1 || res.Waypoints[0].Center != events.Center {
		t.Errorf("waypoints %+v, want a single establishing shot", res.Waypoints)
	}
	if !res.Diagnostics.Empty {
		t.Error("expected the empty recording to be flagged")
	}

	// positions alone still count as events
	withPointer := d.Generate(Input{Recording: events.Recording{
		Duration:  1,
		Positions: []events.MousePosition{{Time: 0.5, Position: pt(0.5, 0.5)}},
	}})
	if withPointer.Diagnostics.Empty {
		t.Error("a recording with pointer positions was flagged empty")
	}
}

func TestGenerateDeterministic(t *testing.T) {
	rec := twoClickRecording()
	rec.Keys = []events.KeyEvent{
		{Time: 4.0, KeyCode: 0, Character: "a", Type: events.KeyDown, AppBundleID: "com.apple.TextEdit"},
		{Time: 4.2, KeyCode: 1, Character: "s", Type: events.KeyDown, AppBundleID: "com.apple.TextEdit"},
	}
	salient := pt(0.6, 0.4)
	in := Input{
		Recording: rec,
		Frames: []analyzer.FrameSample{
			{Time: 6.0, ChangeAmount: 0.4, Saliency: &salient},
			{Time: 3.0, ChangeAmount: 0.2},
		},
	}

	d := New(config.DefaultSettings(), nil)
	a, b := d.Generate(in), d.Generate(in)

	if !reflect.DeepEqual(a.Trajectory, b.Trajectory) {
		t.Error("trajectories differ between identical runs")
	}
	if !reflect.DeepEqual(a.Waypoints, b.Waypoints) || !reflect.DeepEqual(a.Spans, b.Spans) {
		t.Error("intermediate results differ between identical runs")
	}
	if in.Frames[0].Time != 6.0 {
		t.Error("input frames were reordered")
	}
}

func TestGenerateVariants(t *testing.T) {
	in := Input{Recording: twoClickRecording()}

	slow := config.DefaultSettings()
	slow.Camera.PositionResponseTime = 2
	flat := config.DefaultSettings()
	flat.Camera.ZoomIntensity = 0
	variants := []config.Settings{config.DefaultSettings(), slow, flat}

	d := New(config.DefaultSettings(), nil)
	results, err := d.GenerateVariants(context.Background(), in, variants, 2)
	if err != nil {
		t.Fatalf("GenerateVariants failed: %v", err)
	}
	if len(results) != len(variants) {
		t.Fatalf("got %d results, want %d", len(results), len(variants))
	}

	for i, v := range variants {
		want := New(v, nil).Generate(in)
		if !reflect.DeepEqual(results[i].Trajectory, want.Trajectory) {
			t.Errorf("variant %d differs from a sequential run", i)
		}
	}
	for _, s := range results[2].Trajectory {
		if s.Transform.Zoom != 1 {
			t.Fatalf("zero intensity variant zoomed to %.3f", s.Transform.Zoom)
		}
	}
}

func TestGenerateVariantsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := New(config.DefaultSettings(), nil)
	_, err := d.GenerateVariants(ctx, Input{Recording: twoClickRecording()}, []config.Settings{config.DefaultSettings()}, 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestDocumentWriteRead(t *testing.T) {
	settings := config.DefaultSettings()
	res := New(settings, nil).Generate(Input{Recording: twoClickRecording()})
	doc := NewDocument(res, settings)

	if doc.Version != DocumentVersion || doc.GenerationID == "" {
		t.Fatalf("document header %q / %q not set", doc.Version, doc.GenerationID)
	}
	if other := NewDocument(res, settings); other.GenerationID == doc.GenerationID {
		t.Error("each document should get its own generation ID")
	}

	path := filepath.Join(t.TempDir(), "track.yaml")
	if err := WriteDocument(doc, path); err != nil {
		t.Fatalf("WriteDocument failed: %v", err)
	}
	read, err := ReadDocument(path)
	if err != nil {
		t.Fatalf("ReadDocument failed: %v", err)
	}

	if read.GenerationID != doc.GenerationID || read.Duration != 10 || read.TickRate != 60 {
		t.Errorf("header mismatch: %s %.2f %.1f", read.GenerationID, read.Duration, read.TickRate)
	}
	if len(read.Samples) != len(doc.Samples) {
		t.Fatalf("Sample count mismatch: expected %d, got %d", len(doc.Samples), len(read.Samples))
	}
	if !reflect.DeepEqual(read.Samples, doc.Samples) {
		t.Error("samples changed after a write/read cycle")
	}
	if len(read.Spans) != 4 || read.Spans[1].Intent != "clicking" {
		t.Errorf("spans %+v, want idle/clicking/clicking/idle", read.Spans)
	}
	if !reflect.DeepEqual(read.Diagnostics.IntentTime, res.Diagnostics.IntentTime) {
		t.Errorf("intent time %v, want %v", read.Diagnostics.IntentTime, res.Diagnostics.IntentTime)
	}
	if len(read.Waypoints) != len(doc.Waypoints) {
		t.Errorf("Waypoint count mismatch: expected %d, got %d", len(doc.Waypoints), len(read.Waypoints))
	}
}
