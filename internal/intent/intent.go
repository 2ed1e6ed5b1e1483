// Package intent segments an event timeline into contiguous spans, each
// labelled with what the user was doing.
package intent

import (
	"fmt"

	"github.com/ivlev/autocam/internal/events"
)

// Kind is the user activity of a span
type Kind int

const (
	Idle Kind = iota
	Typing
	Clicking
	Navigating
	Dragging
	Scrolling
	Switching
	Reading
)

func (k Kind) String() string {
	switch k {
	case Idle:
		return "idle"
	case Typing:
		return "typing"
	case Clicking:
		return "clicking"
	case Navigating:
		return "navigating"
	case Dragging:
		return "dragging"
	case Scrolling:
		return "scrolling"
	case Switching:
		return "switching"
	case Reading:
		return "reading"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// TypingContext is the kind of text surface being typed into
type TypingContext int

const (
	TextField TypingContext = iota
	CodeEditor
	Terminal
	RichText
)

func (c TypingContext) String() string {
	switch c {
	case CodeEditor:
		return "codeEditor"
	case Terminal:
		return "terminal"
	case RichText:
		return "richText"
	default:
		return "textField"
	}
}

// Intent is a tagged value: Context is meaningful only for Typing and
// DragKind only for Dragging. Use the constructors to build one.
type Intent struct {
	Kind     Kind
	Context  TypingContext
	DragKind events.DragKind
}

// Of returns a payload-free intent
func Of(k Kind) Intent {
	return Intent{Kind: k}
}

// TypingIn returns a typing intent in context c
func TypingIn(c TypingContext) Intent {
	return Intent{Kind: Typing, Context: c}
}

// DraggingOf returns a dragging intent of kind d
func DraggingOf(d events.DragKind) Intent {
	return Intent{Kind: Dragging, DragKind: d}
}

func (i Intent) String() string {
	switch i.Kind {
	case Typing:
		return fmt.Sprintf("typing(%s)", i.Context)
	case Dragging:
		return fmt.Sprintf("dragging(%s)", i.DragKind)
	default:
		return i.Kind.String()
	}
}

// Compatible reports whether a gap between spans of intents a and b may be
// absorbed into a
func Compatible(a, b Intent) bool {
	switch a.Kind {
	case Typing:
		return b.Kind == Typing && a.Context == b.Context
	case Clicking, Navigating:
		return b.Kind == Clicking || b.Kind == Navigating
	case Dragging:
		return b.Kind == Dragging && a.DragKind == b.DragKind
	case Scrolling, Reading:
		return a.Kind == b.Kind
	case Switching, Idle:
		return false
	}
	return false
}

// ContextChange is what a click did to the UI
type ContextChange int

const (
	NoChange ContextChange = iota
	Expanded
	Contracted
	ModalOpened
)

func (c ContextChange) String() string {
	switch c {
	case Expanded:
		return "expanded"
	case Contracted:
		return "contracted"
	case ModalOpened:
		return "modalOpened"
	default:
		return "none"
	}
}

// Span is a time interval assigned a single intent
type Span struct {
	Start         float64
	End           float64
	Intent        Intent
	Confidence    float64
	Focus         events.NormalizedPoint
	FocusElement  *events.ElementInfo
	ContextChange ContextChange
}

// Duration returns End-Start
func (s Span) Duration() float64 {
	return s.End - s.Start
}

// Contains reports whether t lies in [Start, End]
func (s Span) Contains(t float64) bool {
	return t >= s.Start && t <= s.End
}
