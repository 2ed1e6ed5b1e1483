package waypoint

import (
	"math"
	"sort"

	"github.com/ivlev/autocam/internal/analyzer"
	"github.com/ivlev/autocam/internal/events"
	"github.com/ivlev/autocam/internal/intent"
	"github.com/ivlev/autocam/internal/timeline"
)

// Input is everything the generator can use. Only Spans is required.
type Input struct {
	Spans    []intent.Span
	Timeline *timeline.Timeline
	Frames   []analyzer.FrameSample
	Screen   events.Size
}

// Generate converts spans into a time-sorted waypoint list. One waypoint is
// emitted per span, plus detail waypoints inside spans whose focus moves.
// A full-screen establishing waypoint is prepended when nothing starts at 0.
func Generate(in Input, cfg Config) []Waypoint {
	cfg = cfg.Sanitize()
	if len(in.Spans) == 0 {
		return []Waypoint{Establishing()}
	}

	g := &generator{in: in, cfg: cfg}
	targets := make([]target, len(in.Spans))
	for i, s := range in.Spans {
		if s.Intent.Kind != intent.Idle {
			targets[i] = g.target(s)
		}
	}
	for i, s := range in.Spans {
		if s.Intent.Kind == intent.Idle {
			zoom := 1 + (neighbourZoom(in.Spans, targets, i)-1)*cfg.IdleZoomDecay
			targets[i] = target{zoom: zoom, center: events.ClampCenter(s.Focus, zoom)}
		}
	}

	var out []Waypoint
	for i, s := range in.Spans {
		urgency := UrgencyFor(s.Intent)
		out = append(out, Waypoint{
			Time:    math.Max(0, s.Start-cfg.LeadTime.For(urgency)),
			Zoom:    targets[i].zoom,
			Center:  targets[i].center,
			Urgency: urgency,
			Source:  Source{Kind: FromSpan, Intent: s.Intent},
		})
		out = append(out, g.details(s, targets[i].zoom, urgency)...)
	}

	out = coalesce(out, cfg.CoalesceEpsilon)
	if out[0].Time > cfg.CoalesceEpsilon {
		out = append([]Waypoint{Establishing()}, out...)
	}
	return out
}

type target struct {
	zoom   float64
	center events.NormalizedPoint
}

type generator struct {
	in  Input
	cfg Config
}

// target picks zoom and center for a non-idle span
func (g *generator) target(s intent.Span) target {
	r := g.cfg.rangeFor(s.Intent)
	zoom := r.At(s.Confidence)
	center := s.Focus

	region, ok := g.focusRegion(s)
	if ok {
		center = region.Center()
		if extent := math.Max(region.W, region.H); extent > 0 {
			fit := g.cfg.FocusPadding / extent
			zoom = math.Max(r.Min, math.Min(zoom, fit))
		}
	}

	switch s.Intent.Kind {
	case intent.Typing, intent.Switching:
	default:
		center = g.refine(center, s.Start)
	}

	zoom = math.Max(1, zoom)
	return target{zoom: zoom, center: events.ClampCenter(center, zoom)}
}

// focusRegion is the area the camera should keep in view during s: the
// caret while typing, otherwise the pointer travel early in the span,
// widened by a reasonably sized focused element.
func (g *generator) focusRegion(s intent.Span) (events.Rect, bool) {
	region := events.RectAround(s.Focus)
	found := false

	if s.Intent.Kind != intent.Typing && s.Intent.Kind != intent.Switching && g.in.Timeline != nil {
		end := math.Min(s.End, s.Start+g.cfg.FocusWindow)
		for _, p := range g.in.Timeline.PositionsInRange(s.Start, end) {
			if !found {
				region = events.RectAround(p)
			} else {
				region = region.Union(events.RectAround(p))
			}
			found = true
		}
	}

	if s.FocusElement != nil && s.FocusElement.Frame != nil {
		frame := g.in.Screen.NormalizeRect(*s.FocusElement.Frame)
		if a := frame.Area(); a > 0 && a <= g.cfg.MaxElementArea {
			region = region.Union(frame)
			found = true
		}
	}
	return region, found
}

// refine pulls the center toward the visually active area when the frame
// analysis saw meaningful change
func (g *generator) refine(center events.NormalizedPoint, t float64) events.NormalizedPoint {
	f := analyzer.Lookup(g.in.Frames, t, g.cfg.SaliencyWindow)
	if f == nil || f.Saliency == nil || f.ChangeAmount < g.cfg.SaliencyMinChange {
		return center
	}
	return center.Lerp(f.Saliency.Clamped(), g.cfg.SaliencyWeight)
}

type anchor struct {
	t float64
	p events.NormalizedPoint
}

// details emits extra waypoints that follow the focus within a span.
// The first and last anchors are always kept; the rest only when far enough
// apart in both time and space from the previous kept one.
func (g *generator) details(s intent.Span, zoom float64, urgency Urgency) []Waypoint {
	anchors := g.anchors(s)
	if len(anchors) == 0 {
		return nil
	}

	kept := []anchor{anchors[0]}
	for i := 1; i < len(anchors); i++ {
		a := anchors[i]
		last := kept[len(kept)-1]
		if i == len(anchors)-1 ||
			(a.t-last.t >= g.cfg.DetailMinInterval && a.p.Distance(last.p) >= g.cfg.DetailMinDistance) {
			kept = append(kept, a)
		}
	}

	lead := g.cfg.LeadTime.For(urgency)
	out := make([]Waypoint, 0, len(kept))
	for _, a := range kept {
		out = append(out, Waypoint{
			Time:    math.Max(0, a.t-lead),
			Zoom:    zoom,
			Center:  events.ClampCenter(a.p, zoom),
			Urgency: urgency,
			Source:  Source{Kind: FromDetail, Intent: s.Intent},
		})
	}
	return out
}

func (g *generator) anchors(s intent.Span) []anchor {
	if g.in.Timeline == nil {
		return nil
	}
	var out []anchor
	for _, ev := range g.in.Timeline.EventsInRange(s.Start, s.End) {
		switch s.Intent.Kind {
		case intent.Typing:
			if ev.Kind == timeline.KindUIStateChange && ev.UIState.CaretBounds != nil {
				out = append(out, anchor{ev.Time, g.in.Screen.NormalizeRect(*ev.UIState.CaretBounds).Center()})
			}
		case intent.Clicking, intent.Navigating:
			if ev.Kind == timeline.KindClick && ev.Click.Type.IsLeftDown() {
				out = append(out, anchor{ev.Time, ev.Position})
			}
		case intent.Dragging:
			if ev.Kind == timeline.KindDragStart || ev.Kind == timeline.KindDragEnd {
				out = append(out, anchor{ev.Time, ev.Position})
			}
		case intent.Scrolling:
			if ev.Kind == timeline.KindScroll {
				out = append(out, anchor{ev.Time, ev.Position})
			}
		}
	}
	return out
}

// neighbourZoom returns the zoom of the nearest non-idle span, looking
// backward first, or 1 when there is none
func neighbourZoom(spans []intent.Span, targets []target, i int) float64 {
	for j := i - 1; j >= 0; j-- {
		if spans[j].Intent.Kind != intent.Idle {
			return targets[j].zoom
		}
	}
	for j := i + 1; j < len(spans); j++ {
		if spans[j].Intent.Kind != intent.Idle {
			return targets[j].zoom
		}
	}
	return 1
}

// coalesce sorts waypoints by time and merges those closer than eps,
// keeping the more urgent one
func coalesce(wps []Waypoint, eps float64) []Waypoint {
	sort.SliceStable(wps, func(i, j int) bool { return wps[i].Time < wps[j].Time })

	out := make([]Waypoint, 0, len(wps))
	for _, w := range wps {
		n := len(out)
		if n > 0 && w.Time-out[n-1].Time < eps {
			if w.Urgency > out[n-1].Urgency {
				w.Time = out[n-1].Time
				out[n-1] = w
			}
			continue
		}
		out = append(out, w)
	}
	return out
}
