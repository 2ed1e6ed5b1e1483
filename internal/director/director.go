// Package director runs the event-to-camera-path pipeline.
package director

import (
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/ivlev/autocam/internal/analyzer"
	"github.com/ivlev/autocam/internal/config"
	"github.com/ivlev/autocam/internal/events"
	"github.com/ivlev/autocam/internal/intent"
	"github.com/ivlev/autocam/internal/sampler"
	"github.com/ivlev/autocam/internal/simulator"
	"github.com/ivlev/autocam/internal/timeline"
	"github.com/ivlev/autocam/internal/track"
	"github.com/ivlev/autocam/internal/waypoint"
)

// Director turns recorded interaction events into a camera trajectory
type Director struct {
	Settings config.Settings
	Logger   *slog.Logger
}

// New creates a Director. A nil logger discards all records.
func New(settings config.Settings, logger *slog.Logger) *Director {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Director{
		Settings: settings.Sanitize(),
		Logger:   logger,
	}
}

// Input is everything recorded for one take. UIStates and Frames are
// optional.
type Input struct {
	Recording events.Recording
	UIStates  []events.UIStateSample
	Frames    []analyzer.FrameSample
}

// Diagnostics summarises what each stage produced
type Diagnostics struct {
	Sampler   sampler.Diagnostics `yaml:"sampler"`
	Events    int                 `yaml:"events"`
	Spans     int                 `yaml:"spans"`
	Waypoints int                 `yaml:"waypoints"`
	Samples   int                 `yaml:"samples"`
	Segments  int                 `yaml:"segments"`
	// Empty is set when the recording held no events
	Empty bool `yaml:"empty"`
	// IntentTime is the seconds spent in each intent kind
	IntentTime map[string]float64 `yaml:"intent_time"`
}

// StageTiming is the wall time spent in one stage
type StageTiming struct {
	Stage   string
	Elapsed time.Duration
}

// Result is the output of one Generate call. Everything but Timings is a
// pure function of the input and settings.
type Result struct {
	Duration    float64
	Trajectory  []simulator.TimedTransform
	Segments    []track.Segment
	Cursor      []track.CursorSample
	Keystrokes  []track.Keystroke
	Spans       []intent.Span
	Waypoints   []waypoint.Waypoint
	Diagnostics Diagnostics
	Timings     []StageTiming
}

// Generate runs every stage in order: sampling, timeline, classification,
// waypoints, simulation, then the display tracks
func (d *Director) Generate(in Input) Result {
	s := d.Settings
	rec := in.Recording
	var res Result

	stage := func(name string, start time.Time) {
		res.Timings = append(res.Timings, StageTiming{Stage: name, Elapsed: time.Since(start)})
	}

	if rec.IsEmpty() {
		d.Logger.Warn("recording has no events, the camera holds the full frame", "duration", rec.Duration)
	}

	start := time.Now()
	sampled := sampler.Sample(rec.Positions, rec.Anchors(), rec.Duration, s.Sampler)
	stage("sample", start)
	d.Logger.Debug("sampled pointer stream",
		"source", sampled.Diagnostics.SourceCount,
		"kept", sampled.Diagnostics.SampleCount,
		"budget_applied", sampled.Diagnostics.BudgetApplied,
		"missed_anchors", sampled.Diagnostics.MissedAnchors)

	start = time.Now()
	tl := timeline.Build(sampled.Samples, rec, in.UIStates)
	stage("timeline", start)
	d.Logger.Debug("built timeline", "events", tl.Len(), "duration", tl.Duration())

	start = time.Now()
	spans := intent.Classify(tl, rec.Screen, s.Intent)
	stage("classify", start)
	intentTime := timeByKind(spans)
	d.Logger.Debug("classified intents", "spans", len(spans), "seconds", intentTime)

	start = time.Now()
	wps := waypoint.Generate(waypoint.Input{
		Spans:    spans,
		Timeline: tl,
		Frames:   sortedFrames(in.Frames),
		Screen:   rec.Screen,
	}, s.Waypoint)
	stage("waypoints", start)
	d.Logger.Debug("generated waypoints", "waypoints", len(wps))

	start = time.Now()
	trajectory := simulator.Simulate(wps, tl.Duration(), s.Camera)
	stage("simulate", start)
	d.Logger.Debug("simulated camera", "samples", len(trajectory), "tick_rate", s.Camera.TickRate)

	start = time.Now()
	res.Segments = track.Segments(trajectory, s.Track)
	res.Cursor = track.Cursor(sampled.Samples, rec.Clicks)
	res.Keystrokes = track.Keystrokes(rec.Keys, s.Track)
	stage("tracks", start)

	res.Duration = tl.Duration()
	res.Trajectory = trajectory
	res.Spans = spans
	res.Waypoints = wps
	res.Diagnostics = Diagnostics{
		Sampler:    sampled.Diagnostics,
		Events:     tl.Len(),
		Spans:      len(spans),
		Waypoints:  len(wps),
		Samples:    len(trajectory),
		Segments:   len(res.Segments),
		Empty:      rec.IsEmpty(),
		IntentTime: intentTime,
	}
	return res
}

func timeByKind(spans []intent.Span) map[string]float64 {
	out := make(map[string]float64)
	for _, s := range spans {
		out[s.Intent.Kind.String()] += s.Duration()
	}
	return out
}

// sortedFrames returns the frame samples in time order, copying only when
// they are not already sorted
func sortedFrames(frames []analyzer.FrameSample) []analyzer.FrameSample {
	less := func(a, b analyzer.FrameSample) bool { return a.Time < b.Time }
	if sort.SliceIsSorted(frames, func(i, j int) bool { return less(frames[i], frames[j]) }) {
		return frames
	}
	out := append([]analyzer.FrameSample(nil), frames...)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
