package intent

import "github.com/ivlev/autocam/internal/events"

// Config holds the detector thresholds. Times are in seconds, distances in
// normalized screen units.
type Config struct {
	// Typing
	TypingSessionTimeout float64 `yaml:"typing_session_timeout"`
	TypingLeadTime       float64 `yaml:"typing_lead_time"`
	TypingTail           float64 `yaml:"typing_tail"`

	// Scrolling
	ScrollMergeGap float64 `yaml:"scroll_merge_gap"`
	ScrollTail     float64 `yaml:"scroll_tail"`

	// Switching
	SwitchHalfWidth float64 `yaml:"switch_half_width"`

	// Clicking / navigating
	NavigatingClickWindow float64 `yaml:"navigating_click_window"`
	NavigatingMaxDistance float64 `yaml:"navigating_max_distance"`
	ClickLead             float64 `yaml:"click_lead"`
	ClickTail             float64 `yaml:"click_tail"`
	ContextSearchWindow   float64 `yaml:"context_search_window"`
	ExpandRatio           float64 `yaml:"expand_ratio"`

	// Gap filling
	ContinuationGap      float64 `yaml:"continuation_gap"`
	ContinuationDistance float64 `yaml:"continuation_distance"`

	// UI sample lookup radius for typing context and focus
	UIStateSearchWindow float64 `yaml:"ui_state_search_window"`
}

// DefaultConfig returns the recommended detector thresholds
func DefaultConfig() Config {
	return Config{
		TypingSessionTimeout: 1.5,
		TypingLeadTime:       0.3,
		TypingTail:           0.5,

		ScrollMergeGap: 1.0,
		ScrollTail:     0.3,

		SwitchHalfWidth: 0.25,

		NavigatingClickWindow: 2.0,
		NavigatingMaxDistance: 0.2,
		ClickLead:             0.2,
		ClickTail:             0.8,
		ContextSearchWindow:   1.5,
		ExpandRatio:           1.5,

		ContinuationGap:      1.0,
		ContinuationDistance: 0.15,

		UIStateSearchWindow: 2.0,
	}
}

// Sanitize clamps invalid values to safe minimums
func (c Config) Sanitize() Config {
	c.TypingSessionTimeout = events.AtLeast(c.TypingSessionTimeout, 0.01)
	c.TypingLeadTime = events.AtLeast(c.TypingLeadTime, 0)
	c.TypingTail = events.AtLeast(c.TypingTail, 0.01)
	c.ScrollMergeGap = events.AtLeast(c.ScrollMergeGap, 0)
	c.ScrollTail = events.AtLeast(c.ScrollTail, 0.01)
	c.SwitchHalfWidth = events.AtLeast(c.SwitchHalfWidth, 0.01)
	c.NavigatingClickWindow = events.AtLeast(c.NavigatingClickWindow, 0)
	c.NavigatingMaxDistance = events.AtLeast(c.NavigatingMaxDistance, 0)
	c.ClickLead = events.AtLeast(c.ClickLead, 0)
	c.ClickTail = events.AtLeast(c.ClickTail, 0.01)
	c.ContextSearchWindow = events.AtLeast(c.ContextSearchWindow, 0)
	c.ExpandRatio = events.AtLeast(c.ExpandRatio, 1.01)
	c.ContinuationGap = events.AtLeast(c.ContinuationGap, 0)
	c.ContinuationDistance = events.AtLeast(c.ContinuationDistance, 0)
	c.UIStateSearchWindow = events.AtLeast(c.UIStateSearchWindow, 0)
	return c
}
