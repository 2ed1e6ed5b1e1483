package director

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/autocam/internal/config"
	"github.com/ivlev/autocam/internal/events"
	"github.com/ivlev/autocam/internal/simulator"
	"github.com/ivlev/autocam/internal/track"
)

// DocumentVersion is the current camera track file format
const DocumentVersion = "1.0"

// Document is the exported camera track of one generation
type Document struct {
	Version      string                     `yaml:"version"`
	GenerationID string                     `yaml:"generation_id"`
	Duration     float64                    `yaml:"duration"`
	TickRate     float64                    `yaml:"tick_rate"`
	Diagnostics  Diagnostics                `yaml:"diagnostics"`
	Spans        []SpanRecord               `yaml:"spans"`
	Waypoints    []WaypointRecord           `yaml:"waypoints"`
	Segments     []track.Segment            `yaml:"segments,omitempty"`
	Cursor       []track.CursorSample       `yaml:"cursor,omitempty"`
	Keystrokes   []track.Keystroke          `yaml:"keystrokes,omitempty"`
	Samples      []simulator.TimedTransform `yaml:"samples"`
}

// SpanRecord is an intent span as written to a document
type SpanRecord struct {
	Start         float64                `yaml:"start"`
	End           float64                `yaml:"end"`
	Intent        string                 `yaml:"intent"`
	Confidence    float64                `yaml:"confidence"`
	Focus         events.NormalizedPoint `yaml:"focus"`
	ContextChange string                 `yaml:"context_change,omitempty"`
}

// WaypointRecord is a waypoint as written to a document
type WaypointRecord struct {
	Time    float64                `yaml:"time"`
	Zoom    float64                `yaml:"zoom"`
	Center  events.NormalizedPoint `yaml:"center"`
	Urgency string                 `yaml:"urgency"`
	Source  string                 `yaml:"source"`
	Intent  string                 `yaml:"intent"`
}

// NewDocument wraps a result for export and stamps it with a fresh
// generation ID
func NewDocument(res Result, settings config.Settings) *Document {
	doc := &Document{
		Version:      DocumentVersion,
		GenerationID: uuid.NewString(),
		Duration:     res.Duration,
		TickRate:     settings.Sanitize().Camera.TickRate,
		Diagnostics:  res.Diagnostics,
		Segments:     res.Segments,
		Cursor:       res.Cursor,
		Keystrokes:   res.Keystrokes,
		Samples:      res.Trajectory,
	}

	for _, s := range res.Spans {
		r := SpanRecord{
			Start:      s.Start,
			End:        s.End,
			Intent:     s.Intent.String(),
			Confidence: s.Confidence,
			Focus:      s.Focus,
		}
		if s.ContextChange != 0 {
			r.ContextChange = s.ContextChange.String()
		}
		doc.Spans = append(doc.Spans, r)
	}

	for _, w := range res.Waypoints {
		doc.Waypoints = append(doc.Waypoints, WaypointRecord{
			Time:    w.Time,
			Zoom:    w.Zoom,
			Center:  w.Center,
			Urgency: w.Urgency.String(),
			Source:  w.Source.Kind.String(),
			Intent:  w.Source.Intent.String(),
		})
	}
	return doc
}

// WriteDocument writes a document to a YAML file
func WriteDocument(doc *Document, path string) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadDocument reads a document from a YAML file
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &doc, nil
}
