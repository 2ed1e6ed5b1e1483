package intent

import (
	"math"
	"slices"
	"strings"
	"unicode"

	"github.com/ivlev/autocam/internal/events"
	"github.com/ivlev/autocam/internal/timeline"
)

// Confidence assigned by each detector
const (
	dragConfidence       = 0.95
	scrollConfidence     = 0.8
	switchConfidence     = 0.85
	clickConfidence      = 0.8
	navigatingConfidence = 0.75
	idleConfidence       = 0.5
	readingConfidence    = 0.4
	minDragDuration      = 0.1
)

// detector is one pass over the timeline
type detector struct {
	tl     *timeline.Timeline
	screen events.Size
	cfg    Config
}

// typing groups consecutive non-shortcut key downs into sessions
func (d *detector) typing() []Span {
	var spans []Span
	var session []timeline.UnifiedEvent

	flush := func() {
		if len(session) == 0 {
			return
		}
		first, last := session[0], session[len(session)-1]
		ui := d.tl.NearestUIState(first.Time, d.cfg.UIStateSearchWindow)

		app := first.AppBundleID
		var element *events.ElementInfo
		focus := first.Position
		if ui != nil {
			element = ui.Element
			if element != nil && element.AppBundleID != "" {
				app = element.AppBundleID
			}
			if p, ok := d.uiFocus(ui); ok {
				focus = p
			}
		}

		role := ""
		if element != nil {
			role = element.Role
		}

		spans = append(spans, Span{
			Start:        first.Time - d.cfg.TypingLeadTime,
			End:          last.Time + d.cfg.TypingTail,
			Intent:       TypingIn(inferTypingContext(app, role)),
			Confidence:   math.Min(0.95, 0.6+0.05*float64(len(session))),
			Focus:        focus,
			FocusElement: element,
		})
		session = session[:0]
	}

	for _, ev := range d.tl.Events() {
		if ev.Kind != timeline.KindKeyDown || ev.Key.IsShortcut() {
			continue
		}
		if len(session) > 0 && ev.Time-session[len(session)-1].Time > d.cfg.TypingSessionTimeout {
			flush()
		}
		session = append(session, ev)
	}
	flush()
	return spans
}

// dragging maps every drag to one span
func (d *detector) dragging() []Span {
	var spans []Span
	for _, ev := range d.tl.Events() {
		if ev.Kind != timeline.KindDragStart {
			continue
		}
		drag := ev.Drag
		end := math.Max(drag.EndTime, drag.StartTime+minDragDuration)
		spans = append(spans, Span{
			Start:      drag.StartTime,
			End:        end,
			Intent:     DraggingOf(drag.Kind),
			Confidence: dragConfidence,
			Focus:      drag.StartPosition.Lerp(drag.EndPosition, 0.5),
		})
	}
	return spans
}

// scrolling merges scroll events separated by less than ScrollMergeGap
func (d *detector) scrolling() []Span {
	var spans []Span
	var group []timeline.UnifiedEvent

	flush := func() {
		if len(group) == 0 {
			return
		}
		spans = append(spans, Span{
			Start:      group[0].Time,
			End:        group[len(group)-1].Time + d.cfg.ScrollTail,
			Intent:     Of(Scrolling),
			Confidence: scrollConfidence,
			Focus:      centroid(group),
		})
		group = group[:0]
	}

	for _, ev := range d.tl.Events() {
		if ev.Kind != timeline.KindScroll {
			continue
		}
		if len(group) > 0 && ev.Time-group[len(group)-1].Time >= d.cfg.ScrollMergeGap {
			flush()
		}
		group = append(group, ev)
	}
	flush()
	return spans
}

// switching emits a short span wherever the application identity changes
func (d *detector) switching() []Span {
	var spans []Span
	prev := ""
	for _, ev := range d.tl.Events() {
		if ev.AppBundleID == "" {
			continue
		}
		if prev != "" && ev.AppBundleID != prev {
			spans = append(spans, Span{
				Start:      ev.Time - d.cfg.SwitchHalfWidth,
				End:        ev.Time + d.cfg.SwitchHalfWidth,
				Intent:     Of(Switching),
				Confidence: switchConfidence,
				Focus:      ev.Position,
			})
		}
		prev = ev.AppBundleID
	}
	return spans
}

// clicking groups left clicks that are close in time and space. Clicks
// inside covered spans belong to those spans already.
func (d *detector) clicking(covered []Span) []Span {
	var spans []Span
	var group []timeline.UnifiedEvent

	flush := func() {
		if len(group) == 0 {
			return
		}
		first, last := group[0], group[len(group)-1]
		span := Span{
			Start:         first.Time - d.cfg.ClickLead,
			End:           last.Time + d.cfg.ClickTail,
			Intent:        Of(Clicking),
			Confidence:    clickConfidence,
			Focus:         first.Position,
			FocusElement:  last.Element,
			ContextChange: d.contextChange(last.Time),
		}
		if len(group) >= 2 {
			span.Intent = Of(Navigating)
			span.Confidence = navigatingConfidence
			span.Focus = centroid(group)
		}
		spans = append(spans, span)
		group = group[:0]
	}

	for _, ev := range d.tl.Events() {
		if ev.Kind != timeline.KindClick || !ev.Click.Type.IsLeftDown() {
			continue
		}
		if coveredAt(covered, ev.Time) {
			continue
		}
		if len(group) > 0 {
			prev := group[len(group)-1]
			if ev.Time-prev.Time > d.cfg.NavigatingClickWindow ||
				ev.Position.Distance(prev.Position) > d.cfg.NavigatingMaxDistance {
				flush()
			}
		}
		group = append(group, ev)
	}
	flush()
	return spans
}

// contextChange compares the UI samples around a click
func (d *detector) contextChange(t float64) ContextChange {
	var before, after *events.UIStateSample
	for _, ev := range d.tl.EventsInRange(t-d.cfg.ContextSearchWindow, t+d.cfg.ContextSearchWindow) {
		if ev.Kind != timeline.KindUIStateChange {
			continue
		}
		if ev.Time <= t {
			before = ev.UIState
		} else if after == nil {
			after = ev.UIState
		}
	}
	if before == nil || after == nil || after.Element == nil {
		return NoChange
	}

	if isModal(after.Element) && (before.Element == nil || !isModal(before.Element)) {
		return ModalOpened
	}
	if before.Element == nil || before.Element.Frame == nil || after.Element.Frame == nil {
		return NoChange
	}

	a0 := d.screen.NormalizeRect(*before.Element.Frame).Area()
	a1 := d.screen.NormalizeRect(*after.Element.Frame).Area()
	if a0 <= 0 || a1 <= 0 {
		return NoChange
	}
	switch ratio := a1 / a0; {
	case ratio >= d.cfg.ExpandRatio:
		return Expanded
	case ratio <= 1/d.cfg.ExpandRatio:
		return Contracted
	}
	return NoChange
}

// uiFocus returns the caret centre, else the focused element centre
func (d *detector) uiFocus(ui *events.UIStateSample) (events.NormalizedPoint, bool) {
	if ui.CaretBounds != nil {
		return d.screen.NormalizeRect(*ui.CaretBounds).Center(), true
	}
	if ui.Element != nil && ui.Element.Frame != nil {
		return d.screen.NormalizeRect(*ui.Element.Frame).Center(), true
	}
	return events.NormalizedPoint{}, false
}

func coveredAt(spans []Span, t float64) bool {
	for _, s := range spans {
		if s.Contains(t) {
			return true
		}
	}
	return false
}

func centroid(evs []timeline.UnifiedEvent) events.NormalizedPoint {
	var x, y float64
	for _, ev := range evs {
		x += ev.Position.X
		y += ev.Position.Y
	}
	n := float64(len(evs))
	return events.NormalizedPoint{X: x / n, Y: y / n}
}

var modalRoles = []string{"AXSheet", "AXDialog", "AXSystemDialog", "AXPopover", "AXMenu"}

func isModal(e *events.ElementInfo) bool {
	for _, r := range modalRoles {
		if e.Role == r || e.Subrole == r {
			return true
		}
	}
	return false
}

// Keyword table for typing context. A keyword matches a whole bundle ID
// segment, see appSegments.
var contextKeywords = []struct {
	context  TypingContext
	keywords []string
}{
	{Terminal, []string{"terminal", "iterm", "warp", "alacritty", "kitty", "hyper", "ghostty", "wezterm"}},
	{CodeEditor, []string{"xcode", "vscode", "jetbrains", "sublimetext", "zed", "nova", "vim", "macvim", "emacs", "cursor", "fleet"}},
	{RichText, []string{"pages", "word", "notion", "textedit", "docs", "bear", "obsidian", "mail", "notes", "slackmacgap"}},
}

// appSegments splits a bundle ID on '.', '-' and '_' and lowercases the
// parts. Trailing version digits are dropped, so "iterm2" gives "iterm".
func appSegments(bundleID string) []string {
	parts := strings.FieldsFunc(strings.ToLower(bundleID), func(r rune) bool {
		return r == '.' || r == '-' || r == '_'
	})
	for i, p := range parts {
		if trimmed := strings.TrimRightFunc(p, unicode.IsDigit); trimmed != "" {
			parts[i] = trimmed
		}
	}
	return parts
}

func inferTypingContext(appBundleID, role string) TypingContext {
	if segments := appSegments(appBundleID); len(segments) > 0 {
		for _, entry := range contextKeywords {
			for _, kw := range entry.keywords {
				if slices.Contains(segments, kw) {
					return entry.context
				}
			}
		}
	}

	switch role {
	case "AXTextArea", "AXWebArea":
		return RichText
	default:
		return TextField
	}
}
