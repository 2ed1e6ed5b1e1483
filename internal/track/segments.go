// Package track reduces the continuous camera trajectory to display
// segments and builds the cursor and keystroke overlay tracks.
package track

import (
	"math"

	"github.com/ivlev/autocam/internal/events"
	"github.com/ivlev/autocam/internal/simulator"
)

// Config holds the segment thresholds and overlay timings
type Config struct {
	ZoomThreshold   float64 `yaml:"zoom_threshold"`
	CenterThreshold float64 `yaml:"center_threshold"`

	KeystrokeBurstGap float64 `yaml:"keystroke_burst_gap"` // max gap inside one typing burst
	KeystrokeHold     float64 `yaml:"keystroke_hold"`      // how long a label stays on screen
}

// DefaultConfig returns the recommended thresholds
func DefaultConfig() Config {
	return Config{
		ZoomThreshold:     0.05,
		CenterThreshold:   0.02,
		KeystrokeBurstGap: 1.0,
		KeystrokeHold:     0.8,
	}
}

// Sanitize clamps invalid values to safe minimums
func (c Config) Sanitize() Config {
	c.ZoomThreshold = events.AtLeast(c.ZoomThreshold, 0)
	c.CenterThreshold = events.AtLeast(c.CenterThreshold, 0)
	c.KeystrokeBurstGap = events.AtLeast(c.KeystrokeBurstGap, 0)
	c.KeystrokeHold = events.AtLeast(c.KeystrokeHold, 0)
	return c
}

// Segment is a stretch of the trajectory the UI can draw as one block
type Segment struct {
	Start float64             `yaml:"start"`
	End   float64             `yaml:"end"`
	From  simulator.Transform `yaml:"from"`
	To    simulator.Transform `yaml:"to"`
}

// Segments greedily groups samples: a segment grows from its anchor until a
// sample strays from the anchor by more than a threshold, then closes at the
// previous sample, where the next segment begins. Consecutive segments share
// their boundary sample so they never overlap or leave gaps.
func Segments(samples []simulator.TimedTransform, cfg Config) []Segment {
	cfg = cfg.Sanitize()
	if len(samples) == 0 {
		return nil
	}

	var out []Segment
	anchor := 0
	for i := 1; i < len(samples); i++ {
		if !deviates(samples[anchor].Transform, samples[i].Transform, cfg) {
			continue
		}
		end := i - 1
		if end == anchor {
			// Even the neighbouring sample strays; close on it instead
			end = i
		}
		out = append(out, segment(samples, anchor, end))
		anchor = end
	}

	if len(out) == 0 || anchor < len(samples)-1 {
		out = append(out, segment(samples, anchor, len(samples)-1))
	}
	return out
}

func segment(samples []simulator.TimedTransform, from, to int) Segment {
	return Segment{
		Start: samples[from].Time,
		End:   samples[to].Time,
		From:  samples[from].Transform,
		To:    samples[to].Transform,
	}
}

func deviates(a, b simulator.Transform, cfg Config) bool {
	return math.Abs(a.Zoom-b.Zoom) > cfg.ZoomThreshold ||
		a.Center.Distance(b.Center) > cfg.CenterThreshold
}
