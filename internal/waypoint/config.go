package waypoint

import (
	"github.com/ivlev/autocam/internal/events"
	"github.com/ivlev/autocam/internal/intent"
)

// ZoomRange bounds the zoom used for an intent
type ZoomRange struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// At returns the zoom at fraction f of the range
func (r ZoomRange) At(f float64) float64 {
	return r.Min + (r.Max-r.Min)*events.Clamp(f, 0, 1)
}

func (r ZoomRange) sanitize() ZoomRange {
	r.Min = events.AtLeast(r.Min, 1)
	r.Max = events.AtLeast(r.Max, r.Min)
	return r
}

// UrgencyTimes holds one value per urgency level
type UrgencyTimes struct {
	Lazy      float64 `yaml:"lazy"`
	Normal    float64 `yaml:"normal"`
	High      float64 `yaml:"high"`
	Immediate float64 `yaml:"immediate"`
}

// For returns the value for urgency u
func (t UrgencyTimes) For(u Urgency) float64 {
	switch u {
	case Immediate:
		return t.Immediate
	case High:
		return t.High
	case Normal:
		return t.Normal
	default:
		return t.Lazy
	}
}

// AtLeast clamps every value to lo
func (t UrgencyTimes) AtLeast(lo float64) UrgencyTimes {
	return UrgencyTimes{
		Lazy:      events.AtLeast(t.Lazy, lo),
		Normal:    events.AtLeast(t.Normal, lo),
		High:      events.AtLeast(t.High, lo),
		Immediate: events.AtLeast(t.Immediate, lo),
	}
}

// TypingZoom holds the typing zoom range per context
type TypingZoom struct {
	TextField  ZoomRange `yaml:"text_field"`
	CodeEditor ZoomRange `yaml:"code_editor"`
	Terminal   ZoomRange `yaml:"terminal"`
	RichText   ZoomRange `yaml:"rich_text"`
}

// Config holds the waypoint targeting parameters
type Config struct {
	Typing     TypingZoom `yaml:"typing"`
	Clicking   ZoomRange  `yaml:"clicking"`
	Navigating ZoomRange  `yaml:"navigating"`
	Dragging   ZoomRange  `yaml:"dragging"`
	Scrolling  ZoomRange  `yaml:"scrolling"`
	Switching  ZoomRange  `yaml:"switching"`
	Reading    ZoomRange  `yaml:"reading"`

	// How far ahead of the span each urgency starts moving
	LeadTime UrgencyTimes `yaml:"lead_time"`

	// Idle zoom = 1 + (neighbour zoom - 1) * IdleZoomDecay
	IdleZoomDecay float64 `yaml:"idle_zoom_decay"`

	// Detail waypoint gating
	DetailMinInterval float64 `yaml:"detail_min_interval"`
	DetailMinDistance float64 `yaml:"detail_min_distance"`

	// Focus planning
	FocusWindow    float64 `yaml:"focus_window"`     // cursor history considered after span start
	FocusPadding   float64 `yaml:"focus_padding"`    // share of the viewport the focus region may fill
	MaxElementArea float64 `yaml:"max_element_area"` // larger focused elements are ignored

	// Frame analysis refinement
	SaliencyWindow    float64 `yaml:"saliency_window"`
	SaliencyWeight    float64 `yaml:"saliency_weight"`
	SaliencyMinChange float64 `yaml:"saliency_min_change"`

	CoalesceEpsilon float64 `yaml:"coalesce_epsilon"`
}

// DefaultConfig returns the recommended targeting parameters
func DefaultConfig() Config {
	return Config{
		Typing: TypingZoom{
			TextField:  ZoomRange{Min: 2.2, Max: 2.8},
			CodeEditor: ZoomRange{Min: 2.0, Max: 2.5},
			Terminal:   ZoomRange{Min: 1.8, Max: 2.2},
			RichText:   ZoomRange{Min: 1.8, Max: 2.2},
		},
		Clicking:   ZoomRange{Min: 1.5, Max: 2.0},
		Navigating: ZoomRange{Min: 1.4, Max: 1.8},
		Dragging:   ZoomRange{Min: 1.3, Max: 1.6},
		Scrolling:  ZoomRange{Min: 1.2, Max: 1.5},
		Switching:  ZoomRange{Min: 1.0, Max: 1.2},
		Reading:    ZoomRange{Min: 1.2, Max: 1.4},

		LeadTime: UrgencyTimes{Lazy: 0, Normal: 0.15, High: 0.2, Immediate: 0.3},

		IdleZoomDecay: 0.5,

		DetailMinInterval: 0.5,
		DetailMinDistance: 0.05,

		FocusWindow:    1.5,
		FocusPadding:   0.8,
		MaxElementArea: 0.35,

		SaliencyWindow:    0.5,
		SaliencyWeight:    0.3,
		SaliencyMinChange: 0.1,

		CoalesceEpsilon: 1e-3,
	}
}

// Sanitize clamps invalid values to safe minimums
func (c Config) Sanitize() Config {
	c.Typing.TextField = c.Typing.TextField.sanitize()
	c.Typing.CodeEditor = c.Typing.CodeEditor.sanitize()
	c.Typing.Terminal = c.Typing.Terminal.sanitize()
	c.Typing.RichText = c.Typing.RichText.sanitize()
	c.Clicking = c.Clicking.sanitize()
	c.Navigating = c.Navigating.sanitize()
	c.Dragging = c.Dragging.sanitize()
	c.Scrolling = c.Scrolling.sanitize()
	c.Switching = c.Switching.sanitize()
	c.Reading = c.Reading.sanitize()

	c.LeadTime = c.LeadTime.AtLeast(0)
	c.IdleZoomDecay = events.Clamp(events.AtLeast(c.IdleZoomDecay, 0), 0, 1)
	c.DetailMinInterval = events.AtLeast(c.DetailMinInterval, 0)
	c.DetailMinDistance = events.AtLeast(c.DetailMinDistance, 0)
	c.FocusWindow = events.AtLeast(c.FocusWindow, 0)
	c.FocusPadding = events.Clamp(events.AtLeast(c.FocusPadding, 0.1), 0.1, 1)
	c.MaxElementArea = events.Clamp(events.AtLeast(c.MaxElementArea, 0), 0, 1)
	c.SaliencyWindow = events.AtLeast(c.SaliencyWindow, 0)
	c.SaliencyWeight = events.Clamp(events.AtLeast(c.SaliencyWeight, 0), 0, 1)
	c.SaliencyMinChange = events.AtLeast(c.SaliencyMinChange, 0)
	c.CoalesceEpsilon = events.AtLeast(c.CoalesceEpsilon, 0)
	return c
}

// rangeFor returns the zoom range of an intent; idle has none
func (c Config) rangeFor(i intent.Intent) ZoomRange {
	switch i.Kind {
	case intent.Typing:
		switch i.Context {
		case intent.CodeEditor:
			return c.Typing.CodeEditor
		case intent.Terminal:
			return c.Typing.Terminal
		case intent.RichText:
			return c.Typing.RichText
		default:
			return c.Typing.TextField
		}
	case intent.Clicking:
		return c.Clicking
	case intent.Navigating:
		return c.Navigating
	case intent.Dragging:
		return c.Dragging
	case intent.Scrolling:
		return c.Scrolling
	case intent.Switching:
		return c.Switching
	case intent.Reading:
		return c.Reading
	}
	return ZoomRange{Min: 1, Max: 1}
}
