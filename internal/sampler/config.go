package sampler

import "github.com/ivlev/autocam/internal/events"

// Config holds the adaptive sampling policy. Times are in seconds.
type Config struct {
	// Zone widths around anchors
	BurstWindow    float64 `yaml:"burst_window"`
	BoundaryWindow float64 `yaml:"boundary_window"`
	GapThreshold   float64 `yaml:"gap_threshold"` // pause that makes its edges boundaries

	// Minimum spacing between accepted samples per zone
	BurstInterval    float64 `yaml:"burst_interval"`
	BoundaryInterval float64 `yaml:"boundary_interval"`
	BaseInterval     float64 `yaml:"base_interval"`

	// Global budget, samples per second of recording
	MaxAverageRate float64 `yaml:"max_average_rate"`

	// A sample within this distance of an anchor represents it
	AnchorTolerance float64 `yaml:"anchor_tolerance"`
}

// DefaultConfig returns the recommended sampling policy
func DefaultConfig() Config {
	return Config{
		BurstWindow:    0.35,
		BoundaryWindow: 1.0,
		GapThreshold:   3.0,

		BurstInterval:    1.0 / 60.0,
		BoundaryInterval: 1.0 / 30.0,
		BaseInterval:     1.0 / 8.0,

		MaxAverageRate:  30,
		AnchorTolerance: 0.05,
	}
}

// Sanitize clamps invalid values to safe minimums
func (c Config) Sanitize() Config {
	c.BurstWindow = events.AtLeast(c.BurstWindow, 0)
	c.BoundaryWindow = events.AtLeast(c.BoundaryWindow, c.BurstWindow)
	c.GapThreshold = events.AtLeast(c.GapThreshold, 0.1)
	c.BurstInterval = events.AtLeast(c.BurstInterval, 0)
	c.BoundaryInterval = events.AtLeast(c.BoundaryInterval, c.BurstInterval)
	c.BaseInterval = events.AtLeast(c.BaseInterval, c.BoundaryInterval)
	c.MaxAverageRate = events.AtLeast(c.MaxAverageRate, 0.1)
	c.AnchorTolerance = events.AtLeast(c.AnchorTolerance, 0)
	return c
}

func (c Config) interval(z Zone) float64 {
	switch z {
	case ZoneBurst:
		return c.BurstInterval
	case ZoneBoundary:
		return c.BoundaryInterval
	default:
		return c.BaseInterval
	}
}
