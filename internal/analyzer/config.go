package analyzer

import "runtime"

// Config tunes frame analysis
type Config struct {
	Width            int     `yaml:"width"`           // analysis width in pixels, height keeps aspect
	PixelThreshold   uint8   `yaml:"pixel_threshold"` // luminance delta that counts as a change
	EdgeThreshold    float64 `yaml:"edge_threshold"`  // Sobel magnitude for an edge pixel
	DilateKernel     int     `yaml:"dilate_kernel"`
	DilateIterations int     `yaml:"dilate_iterations"`
	MinRegionArea    int     `yaml:"min_region_area"`   // smallest changed region used for saliency
	ScrollMinChange  float64 `yaml:"scroll_min_change"` // changed fraction needed to call a scroll
	ScrollMinShift   float64 `yaml:"scroll_min_shift"`  // normalized vertical motion needed to call a scroll
	Workers          int     `yaml:"workers"`
}

func DefaultConfig() Config {
	return Config{
		Width:            160,
		PixelThreshold:   16,
		EdgeThreshold:    30,
		DilateKernel:     3,
		DilateIterations: 2,
		MinRegionArea:    4,
		ScrollMinChange:  0.1,
		ScrollMinShift:   0.01,
		Workers:          runtime.NumCPU(),
	}
}

// Sanitize clamps values to usable minimums
func (c Config) Sanitize() Config {
	c.Width = max(c.Width, 8)
	c.EdgeThreshold = max(c.EdgeThreshold, 0)
	c.DilateKernel = max(c.DilateKernel, 1)
	c.DilateIterations = max(c.DilateIterations, 0)
	c.MinRegionArea = max(c.MinRegionArea, 1)
	c.ScrollMinChange = max(c.ScrollMinChange, 0)
	c.ScrollMinShift = max(c.ScrollMinShift, 0)
	c.Workers = max(c.Workers, 1)
	return c
}
