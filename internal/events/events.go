// Package events holds the recorded user-interaction model shared by every
// pipeline stage. Values are produced by the recording collaborator and are
// never mutated afterwards.
package events

import "strings"

// ElementInfo describes the UI element under the pointer or holding focus
type ElementInfo struct {
	Role        string `json:"role,omitempty" yaml:"role,omitempty"`
	Subrole     string `json:"subrole,omitempty" yaml:"subrole,omitempty"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	AppBundleID string `json:"appBundleId,omitempty" yaml:"app_bundle_id,omitempty"`
	Frame       *Rect  `json:"frame,omitempty" yaml:"frame,omitempty"` // screen points
}

// MousePosition is a single pointer sample
type MousePosition struct {
	Time        float64         `json:"time"`
	Position    NormalizedPoint `json:"position"`
	AppBundleID string          `json:"appBundleId,omitempty"`
	Element     *ElementInfo    `json:"element,omitempty"`
}

// ClickType tags a button transition
type ClickType string

const (
	LeftDown    ClickType = "leftDown"
	LeftUp      ClickType = "leftUp"
	RightDown   ClickType = "rightDown"
	RightUp     ClickType = "rightUp"
	DoubleClick ClickType = "doubleClick"
)

// Valid reports whether t is a known click type
func (t ClickType) Valid() bool {
	switch t {
	case LeftDown, LeftUp, RightDown, RightUp, DoubleClick:
		return true
	}
	return false
}

// IsLeftDown reports whether the click is a primary-button press
func (t ClickType) IsLeftDown() bool {
	return t == LeftDown || t == DoubleClick
}

// Click is a discrete button event
type Click struct {
	Time        float64         `json:"time"`
	Position    NormalizedPoint `json:"position"`
	Type        ClickType       `json:"type"`
	AppBundleID string          `json:"appBundleId,omitempty"`
	Element     *ElementInfo    `json:"element,omitempty"`
}

// KeyEventType tags a key transition
type KeyEventType string

const (
	KeyDown KeyEventType = "keyDown"
	KeyUp   KeyEventType = "keyUp"
)

// Valid reports whether t is a known key event type
func (t KeyEventType) Valid() bool {
	return t == KeyDown || t == KeyUp
}

// Modifiers is a bit set of held modifier keys
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModControl
	ModOption
	ModCommand
	ModFunction
)

// Has reports whether all bits in m are set
func (m Modifiers) Has(o Modifiers) bool {
	return m&o == o
}

// Label renders the modifiers as a "Cmd+Shift+" style prefix
func (m Modifiers) Label() string {
	var b strings.Builder
	if m.Has(ModControl) {
		b.WriteString("Ctrl+")
	}
	if m.Has(ModOption) {
		b.WriteString("Opt+")
	}
	if m.Has(ModShift) {
		b.WriteString("Shift+")
	}
	if m.Has(ModCommand) {
		b.WriteString("Cmd+")
	}
	if m.Has(ModFunction) {
		b.WriteString("Fn+")
	}
	return b.String()
}

// KeyEvent is a discrete keyboard event. It carries no position of its own.
type KeyEvent struct {
	Time        float64      `json:"time"`
	KeyCode     int          `json:"keyCode"`
	Character   string       `json:"character,omitempty"`
	Type        KeyEventType `json:"type"`
	Modifiers   Modifiers    `json:"modifiers,omitempty"`
	AppBundleID string       `json:"appBundleId,omitempty"`
}

// IsShortcut reports whether the key is a command chord rather than text entry
func (k KeyEvent) IsShortcut() bool {
	return k.Modifiers.Has(ModCommand) || k.Modifiers.Has(ModControl)
}

// DragKind says what a drag manipulated
type DragKind string

const (
	DragSelection DragKind = "selection"
	DragMove      DragKind = "move"
	DragResize    DragKind = "resize"
	DragOther     DragKind = "other"
)

// Valid reports whether k is a known drag kind
func (k DragKind) Valid() bool {
	switch k {
	case DragSelection, DragMove, DragResize, DragOther:
		return true
	}
	return false
}

// Drag is a press-move-release gesture
type Drag struct {
	StartTime     float64         `json:"startTime"`
	EndTime       float64         `json:"endTime"`
	StartPosition NormalizedPoint `json:"startPosition"`
	EndPosition   NormalizedPoint `json:"endPosition"`
	Kind          DragKind        `json:"kind"`
	AppBundleID   string          `json:"appBundleId,omitempty"`
}

// Scroll is one wheel or trackpad scroll event
type Scroll struct {
	Time        float64         `json:"time"`
	Position    NormalizedPoint `json:"position"`
	DeltaX      float64         `json:"deltaX"`
	DeltaY      float64         `json:"deltaY"`
	AppBundleID string          `json:"appBundleId,omitempty"`
}

// UIStateSample is a periodic snapshot of the focused element
type UIStateSample struct {
	Time           float64         `json:"time"`
	CursorPosition NormalizedPoint `json:"cursorPosition"`
	Element        *ElementInfo    `json:"element,omitempty"`
	CaretBounds    *Rect           `json:"caretBounds,omitempty"` // screen points
}

// Recording is the full event history of one capture
type Recording struct {
	Duration  float64         `json:"duration"`
	FrameRate float64         `json:"frameRate"`
	Screen    Size            `json:"screen"`
	Positions []MousePosition `json:"positions"`
	Clicks    []Click         `json:"clicks"`
	Keys      []KeyEvent      `json:"keys"`
	Drags     []Drag          `json:"drags"`
	Scrolls   []Scroll        `json:"scrolls"`
}

// IsEmpty reports whether the recording holds no events at all
func (r Recording) IsEmpty() bool {
	return len(r.Positions) == 0 && len(r.Clicks) == 0 && len(r.Keys) == 0 &&
		len(r.Drags) == 0 && len(r.Scrolls) == 0
}

// Anchors returns the action timestamps (clicks, key downs, drag edges,
// scrolls) used to steer adaptive sampling. The result is unsorted.
func (r Recording) Anchors() []float64 {
	anchors := make([]float64, 0, len(r.Clicks)+len(r.Keys)+2*len(r.Drags)+len(r.Scrolls))
	for _, c := range r.Clicks {
		anchors = append(anchors, c.Time)
	}
	for _, k := range r.Keys {
		if k.Type == KeyDown {
			anchors = append(anchors, k.Time)
		}
	}
	for _, d := range r.Drags {
		anchors = append(anchors, d.StartTime, d.EndTime)
	}
	for _, s := range r.Scrolls {
		anchors = append(anchors, s.Time)
	}
	return anchors
}
