package intent

import (
	"math"
	"sort"

	"github.com/ivlev/autocam/internal/events"
	"github.com/ivlev/autocam/internal/timeline"
)

const spanEpsilon = 1e-9

// Classify segments the timeline into time-sorted, non-overlapping spans
// that cover [0, duration] without gaps.
//
// Detectors run in a fixed priority order (typing, dragging, scrolling,
// switching, clicking); when spans overlap the earlier one wins and the later
// one is trimmed to start where the earlier ends.
func Classify(tl *timeline.Timeline, screen events.Size, cfg Config) []Span {
	cfg = cfg.Sanitize()
	duration := math.Max(0, tl.Duration())

	d := &detector{tl: tl, screen: screen, cfg: cfg}

	typing := d.typing()
	dragging := d.dragging()

	var detected []Span
	detected = append(detected, typing...)
	detected = append(detected, dragging...)
	detected = append(detected, d.scrolling()...)
	detected = append(detected, d.switching()...)
	detected = append(detected, d.clicking(append(append([]Span(nil), typing...), dragging...))...)

	resolved := resolveOverlaps(clip(detected, duration))
	return fillGaps(resolved, duration, cfg)
}

// clip restricts spans to [0, duration] and drops the empty ones
func clip(spans []Span, duration float64) []Span {
	out := make([]Span, 0, len(spans))
	for _, s := range spans {
		s.Start = math.Max(0, s.Start)
		s.End = math.Min(duration, s.End)
		if s.End-s.Start > spanEpsilon {
			out = append(out, s)
		}
	}
	return out
}

// resolveOverlaps sorts spans by start and trims each span's start to the end
// of the span before it. Spans fully consumed are dropped.
func resolveOverlaps(spans []Span) []Span {
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })

	out := make([]Span, 0, len(spans))
	for _, s := range spans {
		if n := len(out); n > 0 && s.Start < out[n-1].End {
			s.Start = out[n-1].End
		}
		if s.End-s.Start > spanEpsilon {
			out = append(out, s)
		}
	}
	return out
}

// fillGaps closes every gap between spans. A short gap between compatible
// spans with nearby focus extends the earlier span; anything else becomes an
// idle span (reading after a scroll) keeping the previous focus.
func fillGaps(spans []Span, duration float64, cfg Config) []Span {
	if len(spans) == 0 {
		return []Span{{
			Start:      0,
			End:        duration,
			Intent:     Of(Idle),
			Confidence: idleConfidence,
			Focus:      events.Center,
		}}
	}

	out := make([]Span, 0, 2*len(spans)+1)
	cursor := 0.0
	for _, s := range spans {
		if gap := s.Start - cursor; gap > spanEpsilon {
			n := len(out)
			if n > 0 && gap < cfg.ContinuationGap &&
				Compatible(out[n-1].Intent, s.Intent) &&
				out[n-1].Focus.Distance(s.Focus) < cfg.ContinuationDistance {
				out[n-1].End = s.Start
			} else {
				out = append(out, gapSpan(out, cursor, s.Start, s.Focus))
			}
		} else {
			// Abutting or float noise: snap to keep contiguity exact
			s.Start = cursor
		}
		out = append(out, s)
		cursor = s.End
	}

	if duration-cursor > spanEpsilon {
		out = append(out, gapSpan(out, cursor, duration, out[len(out)-1].Focus))
	}
	out[len(out)-1].End = duration
	return out
}

// gapSpan builds the filler for [start, end]. fallback is the focus used
// when there is no previous span.
func gapSpan(prev []Span, start, end float64, fallback events.NormalizedPoint) Span {
	s := Span{
		Start:      start,
		End:        end,
		Intent:     Of(Idle),
		Confidence: idleConfidence,
		Focus:      fallback,
	}
	if n := len(prev); n > 0 {
		s.Focus = prev[n-1].Focus
		if prev[n-1].Intent.Kind == Scrolling {
			s.Intent = Of(Reading)
			s.Confidence = readingConfidence
		}
	}
	return s
}
