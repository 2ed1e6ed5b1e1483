package track

import (
	"sort"
	"strings"

	"github.com/ivlev/autocam/internal/events"
)

// CursorSample is one point of the cursor overlay
type CursorSample struct {
	Time     float64                `yaml:"time"`
	Position events.NormalizedPoint `yaml:"position"`
	Click    events.ClickType       `yaml:"click,omitempty"`
}

// Cursor merges the sampled pointer stream and the clicks into one
// time-sorted overlay track
func Cursor(positions []events.MousePosition, clicks []events.Click) []CursorSample {
	out := make([]CursorSample, 0, len(positions)+len(clicks))
	for _, p := range positions {
		out = append(out, CursorSample{Time: p.Time, Position: p.Position})
	}
	for _, c := range clicks {
		out = append(out, CursorSample{Time: c.Time, Position: c.Position, Click: c.Type})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

// Keystroke is one entry of the keystroke overlay: either a single shortcut
// or a burst of typed keys
type Keystroke struct {
	Start    float64  `yaml:"start"`
	End      float64  `yaml:"end"`
	Labels   []string `yaml:"labels"`
	Shortcut bool     `yaml:"shortcut,omitempty"`
}

// Keystrokes builds the keystroke overlay from key-down events. Shortcuts
// get their own entry; plain keys closer than KeystrokeBurstGap collapse
// into one entry.
func Keystrokes(keys []events.KeyEvent, cfg Config) []Keystroke {
	cfg = cfg.Sanitize()

	downs := make([]events.KeyEvent, 0, len(keys))
	for _, k := range keys {
		if k.Type == events.KeyDown {
			downs = append(downs, k)
		}
	}
	sort.SliceStable(downs, func(i, j int) bool { return downs[i].Time < downs[j].Time })

	var out []Keystroke
	burst := -1 // index in out of the open typing burst
	lastTyped := 0.0
	for _, k := range downs {
		if k.IsShortcut() {
			out = append(out, Keystroke{Start: k.Time, End: k.Time + cfg.KeystrokeHold, Labels: []string{KeyLabel(k)}, Shortcut: true})
			burst = -1
			continue
		}
		if burst >= 0 && k.Time-lastTyped <= cfg.KeystrokeBurstGap {
			out[burst].Labels = append(out[burst].Labels, KeyLabel(k))
			out[burst].End = k.Time + cfg.KeystrokeHold
		} else {
			out = append(out, Keystroke{Start: k.Time, End: k.Time + cfg.KeystrokeHold, Labels: []string{KeyLabel(k)}})
			burst = len(out) - 1
		}
		lastTyped = k.Time
	}
	return out
}

// macOS virtual key codes of keys without a printable character
var keyNames = map[int]string{
	36:  "Return",
	48:  "Tab",
	49:  "Space",
	51:  "Delete",
	53:  "Esc",
	117: "FwdDelete",
	115: "Home",
	119: "End",
	116: "PageUp",
	121: "PageDown",
	123: "Left",
	124: "Right",
	125: "Down",
	126: "Up",
}

// KeyLabel renders a key for display, e.g. "Cmd+S" or "a"
func KeyLabel(k events.KeyEvent) string {
	name, ok := keyNames[k.KeyCode]
	if !ok {
		name = k.Character
		if strings.TrimSpace(name) == "" {
			name = "?"
		}
		if k.IsShortcut() {
			name = strings.ToUpper(name)
		}
	}
	if !k.IsShortcut() {
		return name
	}
	return k.Modifiers.Label() + name
}
