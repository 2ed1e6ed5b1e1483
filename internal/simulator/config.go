package simulator

import (
	"github.com/ivlev/autocam/internal/events"
	"github.com/ivlev/autocam/internal/waypoint"
)

// Config is the continuous camera settings bundle. It is never mutated by
// the simulator.
type Config struct {
	PositionDampingRatio float64 `yaml:"position_damping_ratio"`
	ZoomDampingRatio     float64 `yaml:"zoom_damping_ratio"`
	PositionResponseTime float64 `yaml:"position_response_time"` // seconds
	ZoomResponseTime     float64 `yaml:"zoom_response_time"`     // seconds

	// Response time multiplier per urgency; smaller is stiffer
	UrgencyMultiplier waypoint.UrgencyTimes `yaml:"urgency_multiplier"`
	// How long before a waypoint the target starts blending toward it
	LeadWindow waypoint.UrgencyTimes `yaml:"lead_window"`

	TickRate      float64 `yaml:"tick_rate"` // Hz
	MinZoom       float64 `yaml:"min_zoom"`
	MaxZoom       float64 `yaml:"max_zoom"`
	ZoomIntensity float64 `yaml:"zoom_intensity"` // 1 keeps zoom unchanged
}

// DefaultConfig returns critically damped settings at 60 Hz
func DefaultConfig() Config {
	return Config{
		PositionDampingRatio: 1.0,
		ZoomDampingRatio:     1.0,
		PositionResponseTime: 0.6,
		ZoomResponseTime:     0.8,
		UrgencyMultiplier:    waypoint.UrgencyTimes{Lazy: 2.0, Normal: 1.0, High: 0.6, Immediate: 0.3},
		LeadWindow:           waypoint.UrgencyTimes{Lazy: 0.5, Normal: 0.4, High: 0.25, Immediate: 0},
		TickRate:             60,
		MinZoom:              1.0,
		MaxZoom:              3.0,
		ZoomIntensity:        1.0,
	}
}

// Sanitize clamps invalid values to safe minimums
func (c Config) Sanitize() Config {
	c.PositionDampingRatio = events.AtLeast(c.PositionDampingRatio, 0)
	c.ZoomDampingRatio = events.AtLeast(c.ZoomDampingRatio, 0)
	c.PositionResponseTime = events.AtLeast(c.PositionResponseTime, 0.001)
	c.ZoomResponseTime = events.AtLeast(c.ZoomResponseTime, 0.001)
	c.UrgencyMultiplier = c.UrgencyMultiplier.AtLeast(0.01)
	c.LeadWindow = c.LeadWindow.AtLeast(0)
	c.TickRate = events.AtLeast(c.TickRate, 0.1)
	c.MinZoom = events.AtLeast(c.MinZoom, 1)
	c.MaxZoom = events.AtLeast(c.MaxZoom, c.MinZoom)
	c.ZoomIntensity = events.AtLeast(c.ZoomIntensity, 0)
	return c
}
