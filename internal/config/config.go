package config

// Config holds the command line parameters of a run
type Config struct {
	InputPath    string    // recording file (.json, .db, .sqlite)
	FramesDir    string    // optional directory of captured frames
	FramesFPS    float64   // frame rate the captured frames were taken at
	SettingsPath string    // optional YAML settings overlay
	OutputPath   string
	TickRate     float64   // overrides Camera.TickRate when > 0
	Intensity    float64   // overrides Camera.ZoomIntensity when >= 0
	Segments     bool      // include display segments in the output
	Variants     []float64 // extra zoom intensities rendered as preview documents
	Workers      int
	ShowStats    bool
	LogLevel     string
	DumpSettings string    // write the effective settings to this path
	BuildVersion string
}

// Apply folds the command line overrides into s
func (c Config) Apply(s Settings) Settings {
	if c.TickRate > 0 {
		s.Camera.TickRate = c.TickRate
	}
	if c.Intensity >= 0 {
		s.Camera.ZoomIntensity = c.Intensity
	}
	return s.Sanitize()
}

// VariantSettings returns one copy of s per preview intensity
func (c Config) VariantSettings(s Settings) []Settings {
	out := make([]Settings, 0, len(c.Variants))
	for _, v := range c.Variants {
		vs := s
		vs.Camera.ZoomIntensity = v
		out = append(out, vs.Sanitize())
	}
	return out
}
