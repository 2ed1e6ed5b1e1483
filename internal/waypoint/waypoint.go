// Package waypoint turns intent spans into a sparse sequence of target
// camera states the simulator chases.
package waypoint

import (
	"fmt"

	"github.com/ivlev/autocam/internal/events"
	"github.com/ivlev/autocam/internal/intent"
)

// Urgency orders how fast the camera should reach a waypoint
type Urgency int

const (
	Lazy Urgency = iota
	Normal
	High
	Immediate
)

func (u Urgency) String() string {
	switch u {
	case Lazy:
		return "lazy"
	case Normal:
		return "normal"
	case High:
		return "high"
	case Immediate:
		return "immediate"
	}
	return fmt.Sprintf("urgency(%d)", int(u))
}

// UrgencyFor maps an intent to its urgency
func UrgencyFor(i intent.Intent) Urgency {
	switch i.Kind {
	case intent.Typing:
		return High
	case intent.Clicking, intent.Navigating, intent.Scrolling, intent.Dragging:
		return Normal
	case intent.Switching:
		return Immediate
	case intent.Idle, intent.Reading:
		return Lazy
	}
	return Lazy
}

// SourceKind says why a waypoint exists
type SourceKind int

const (
	FromEstablishing SourceKind = iota
	FromSpan
	FromDetail
)

func (k SourceKind) String() string {
	switch k {
	case FromSpan:
		return "span"
	case FromDetail:
		return "detail"
	default:
		return "establishing"
	}
}

// Source identifies the span (or lack of one) a waypoint came from
type Source struct {
	Kind   SourceKind
	Intent intent.Intent
}

// Waypoint is a desired camera state at an instant
type Waypoint struct {
	Time    float64
	Zoom    float64
	Center  events.NormalizedPoint
	Urgency Urgency
	Source  Source
}

// Establishing is the full-screen shot used when nothing else is known
func Establishing() Waypoint {
	return Waypoint{
		Time:    0,
		Zoom:    1,
		Center:  events.Center,
		Urgency: Lazy,
		Source:  Source{Kind: FromEstablishing, Intent: intent.Of(intent.Idle)},
	}
}
