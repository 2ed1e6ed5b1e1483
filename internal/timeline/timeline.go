// Package timeline merges every recorded event stream into one time-ordered
// sequence with range queries.
package timeline

import (
	"sort"

	"github.com/ivlev/autocam/internal/events"
)

// Kind tags the variant held by a UnifiedEvent
type Kind int

const (
	KindMouseMove Kind = iota
	KindClick
	KindKeyDown
	KindKeyUp
	KindDragStart
	KindDragEnd
	KindScroll
	KindUIStateChange
)

func (k Kind) String() string {
	switch k {
	case KindMouseMove:
		return "mouseMove"
	case KindClick:
		return "click"
	case KindKeyDown:
		return "keyDown"
	case KindKeyUp:
		return "keyUp"
	case KindDragStart:
		return "dragStart"
	case KindDragEnd:
		return "dragEnd"
	case KindScroll:
		return "scroll"
	case KindUIStateChange:
		return "uiStateChange"
	}
	return "unknown"
}

// IsPointer reports whether the event carries its own pointer position
func (k Kind) IsPointer() bool {
	switch k {
	case KindMouseMove, KindClick, KindDragStart, KindDragEnd, KindScroll:
		return true
	}
	return false
}

// UnifiedEvent is the common representation of every recorded event.
// Exactly one payload pointer matching Kind is set (none for mouse moves).
type UnifiedEvent struct {
	Time        float64
	Kind        Kind
	Position    events.NormalizedPoint
	AppBundleID string
	Element     *events.ElementInfo

	Click   *events.Click
	Key     *events.KeyEvent
	Drag    *events.Drag
	Scroll  *events.Scroll
	UIState *events.UIStateSample
}

// Timeline is an immutable, time-sorted event sequence
type Timeline struct {
	events   []UnifiedEvent
	pointers []int // indices of events carrying their own pointer position
	duration float64
}

// Build merges the sampled pointer stream with the discrete events and UI
// samples. Events without a position of their own get the nearest preceding
// pointer position.
func Build(positions []events.MousePosition, rec events.Recording, uiStates []events.UIStateSample) *Timeline {
	n := len(positions) + len(rec.Clicks) + len(rec.Keys) + 2*len(rec.Drags) + len(rec.Scrolls) + len(uiStates)
	all := make([]UnifiedEvent, 0, n)

	for i := range positions {
		p := positions[i]
		all = append(all, UnifiedEvent{
			Time:        p.Time,
			Kind:        KindMouseMove,
			Position:    p.Position,
			AppBundleID: p.AppBundleID,
			Element:     p.Element,
		})
	}
	for i := range rec.Clicks {
		c := &rec.Clicks[i]
		all = append(all, UnifiedEvent{
			Time:        c.Time,
			Kind:        KindClick,
			Position:    c.Position,
			AppBundleID: c.AppBundleID,
			Element:     c.Element,
			Click:       c,
		})
	}
	for i := range rec.Keys {
		k := &rec.Keys[i]
		kind := KindKeyDown
		if k.Type == events.KeyUp {
			kind = KindKeyUp
		}
		all = append(all, UnifiedEvent{
			Time:        k.Time,
			Kind:        kind,
			AppBundleID: k.AppBundleID,
			Key:         k,
		})
	}
	for i := range rec.Drags {
		d := &rec.Drags[i]
		all = append(all,
			UnifiedEvent{Time: d.StartTime, Kind: KindDragStart, Position: d.StartPosition, AppBundleID: d.AppBundleID, Drag: d},
			UnifiedEvent{Time: d.EndTime, Kind: KindDragEnd, Position: d.EndPosition, AppBundleID: d.AppBundleID, Drag: d},
		)
	}
	for i := range rec.Scrolls {
		s := &rec.Scrolls[i]
		all = append(all, UnifiedEvent{
			Time:        s.Time,
			Kind:        KindScroll,
			Position:    s.Position,
			AppBundleID: s.AppBundleID,
			Scroll:      s,
		})
	}
	for i := range uiStates {
		u := &uiStates[i]
		ev := UnifiedEvent{
			Time:     u.Time,
			Kind:     KindUIStateChange,
			Position: u.CursorPosition,
			Element:  u.Element,
			UIState:  u,
		}
		if u.Element != nil {
			ev.AppBundleID = u.Element.AppBundleID
		}
		all = append(all, ev)
	}

	// Stable so equal timestamps keep the insertion order above
	sort.SliceStable(all, func(i, j int) bool { return all[i].Time < all[j].Time })

	tl := &Timeline{events: all, duration: rec.Duration}
	var last *UnifiedEvent
	for i := range all {
		ev := &all[i]
		if ev.Kind.IsPointer() {
			tl.pointers = append(tl.pointers, i)
			last = ev
			continue
		}
		if ev.Kind == KindKeyDown || ev.Kind == KindKeyUp {
			if last != nil {
				ev.Position = last.Position
				if ev.AppBundleID == "" {
					ev.AppBundleID = last.AppBundleID
				}
			} else {
				ev.Position = events.Center
			}
		}
	}

	if len(all) > 0 && all[len(all)-1].Time > tl.duration {
		tl.duration = all[len(all)-1].Time
	}
	return tl
}

// Events returns the full sorted sequence. Callers must not modify it.
func (tl *Timeline) Events() []UnifiedEvent {
	return tl.events
}

// Len returns the number of events
func (tl *Timeline) Len() int {
	return len(tl.events)
}

// Duration returns the recording duration, extended to the last event
func (tl *Timeline) Duration() float64 {
	return tl.duration
}

// EventsInRange returns the events with start <= time <= end. The returned
// slice aliases the timeline.
func (tl *Timeline) EventsInRange(start, end float64) []UnifiedEvent {
	if end < start {
		return nil
	}
	lo := sort.Search(len(tl.events), func(i int) bool { return tl.events[i].Time >= start })
	hi := lo
	for hi < len(tl.events) && tl.events[hi].Time <= end {
		hi++
	}
	return tl.events[lo:hi]
}

// LastPositionBefore returns the most recent pointer position at or before t
func (tl *Timeline) LastPositionBefore(t float64) (events.NormalizedPoint, bool) {
	i := sort.Search(len(tl.pointers), func(i int) bool { return tl.events[tl.pointers[i]].Time > t })
	if i == 0 {
		return events.NormalizedPoint{}, false
	}
	return tl.events[tl.pointers[i-1]].Position, true
}

// PositionsInRange returns the pointer positions with start <= time <= end
func (tl *Timeline) PositionsInRange(start, end float64) []events.NormalizedPoint {
	if end < start {
		return nil
	}
	lo := sort.Search(len(tl.pointers), func(i int) bool { return tl.events[tl.pointers[i]].Time >= start })
	var out []events.NormalizedPoint
	for i := lo; i < len(tl.pointers); i++ {
		ev := tl.events[tl.pointers[i]]
		if ev.Time > end {
			break
		}
		out = append(out, ev.Position)
	}
	return out
}

// NearestUIState returns the UI sample closest in time to t within maxDistance
func (tl *Timeline) NearestUIState(t, maxDistance float64) *events.UIStateSample {
	var best *events.UIStateSample
	bestDist := maxDistance
	for _, ev := range tl.EventsInRange(t-maxDistance, t+maxDistance) {
		if ev.Kind != KindUIStateChange {
			continue
		}
		d := ev.Time - t
		if d < 0 {
			d = -d
		}
		if d <= bestDist {
			best = ev.UIState
			bestDist = d
		}
	}
	return best
}
