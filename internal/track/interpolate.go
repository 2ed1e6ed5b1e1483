package track

import (
	"sort"

	"github.com/ivlev/autocam/internal/events"
	"github.com/ivlev/autocam/internal/simulator"
)

// Easing maps linear progress in [0, 1] to eased progress
type Easing func(float64) float64

// Linear reproduces the trajectory within twice the segment thresholds
func Linear(t float64) float64 { return t }

// At evaluates the segment track at time t. Before the first segment the
// camera holds its From transform, after the last one its To transform.
func At(segments []Segment, t float64, ease Easing) simulator.Transform {
	if len(segments) == 0 {
		return simulator.Transform{Zoom: 1, Center: events.NormalizedPoint{X: 0.5, Y: 0.5}}
	}
	if ease == nil {
		ease = Linear
	}

	first, last := segments[0], segments[len(segments)-1]
	if t <= first.Start {
		return first.From
	}
	if t >= last.End {
		return last.To
	}

	i := sort.Search(len(segments), func(i int) bool { return segments[i].End >= t })
	seg := segments[i]
	if t < seg.Start {
		// gap between segments
		return segments[i-1].To
	}

	span := seg.End - seg.Start
	if span <= 0 {
		return seg.To
	}
	f := ease((t - seg.Start) / span)
	return simulator.Transform{
		Zoom:   seg.From.Zoom + (seg.To.Zoom-seg.From.Zoom)*f,
		Center: seg.From.Center.Lerp(seg.To.Center, f),
	}
}
