package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/autocam/internal/analyzer"
	"github.com/ivlev/autocam/internal/intent"
	"github.com/ivlev/autocam/internal/sampler"
	"github.com/ivlev/autocam/internal/simulator"
	"github.com/ivlev/autocam/internal/track"
	"github.com/ivlev/autocam/internal/waypoint"
)

// ErrInvalidSettings is returned when a settings file cannot be parsed
var ErrInvalidSettings = errors.New("invalid settings")

// Settings bundles the parameters of every pipeline stage
type Settings struct {
	Sampler  sampler.Config   `yaml:"sampler"`
	Intent   intent.Config    `yaml:"intent"`
	Waypoint waypoint.Config  `yaml:"waypoint"`
	Camera   simulator.Config `yaml:"camera"`
	Track    track.Config     `yaml:"track"`
	Analyzer analyzer.Config  `yaml:"analyzer"`
}

// DefaultSettings returns the recommended parameters for every stage
func DefaultSettings() Settings {
	return Settings{
		Sampler:  sampler.DefaultConfig(),
		Intent:   intent.DefaultConfig(),
		Waypoint: waypoint.DefaultConfig(),
		Camera:   simulator.DefaultConfig(),
		Track:    track.DefaultConfig(),
		Analyzer: analyzer.DefaultConfig(),
	}
}

// Sanitize clamps every stage's values to safe minimums
func (s Settings) Sanitize() Settings {
	s.Sampler = s.Sampler.Sanitize()
	s.Intent = s.Intent.Sanitize()
	s.Waypoint = s.Waypoint.Sanitize()
	s.Camera = s.Camera.Sanitize()
	s.Track = s.Track.Sanitize()
	s.Analyzer = s.Analyzer.Sanitize()
	return s
}

// LoadSettings overlays the YAML file at path on the defaults. Keys absent
// from the file keep their default value.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("failed to read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("%w: %s: %v", ErrInvalidSettings, path, err)
	}

	return s.Sanitize(), nil
}

// WriteSettings writes s as YAML to path
func WriteSettings(s Settings, path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
