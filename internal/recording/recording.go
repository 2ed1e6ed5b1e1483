// Package recording loads recorded interaction events from JSON files and
// SQLite session stores.
package recording

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/ivlev/autocam/internal/events"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither JSON nor SQLite
	ErrUnsupportedFormat = errors.New("unsupported recording format")
	// ErrInvalidEvent is returned when an event fails validation
	ErrInvalidEvent = errors.New("invalid event")
	// ErrSessionNotFound is returned when a store holds no matching session
	ErrSessionNotFound = errors.New("session not found")
)

// Load reads a recording from path, choosing the reader by extension.
// SQLite stores yield their most recent session.
func Load(path string) (events.Recording, []events.UIStateSample, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadJSON(path)
	case ".db", ".sqlite", ".sqlite3":
		store, err := Open(path)
		if err != nil {
			return events.Recording{}, nil, err
		}
		defer store.Close()

		id, err := store.LatestSession()
		if err != nil {
			return events.Recording{}, nil, err
		}
		return store.LoadSession(id)
	default:
		return events.Recording{}, nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Validate checks every event of a recording: times must be finite and
// non-negative, drags must not end before they start and enum values must be
// known
func Validate(rec events.Recording, uiStates []events.UIStateSample) error {
	if !validTime(rec.Duration) {
		return fmt.Errorf("%w: duration %v", ErrInvalidEvent, rec.Duration)
	}
	for i, p := range rec.Positions {
		if !validTime(p.Time) || !validPoint(p.Position) {
			return fmt.Errorf("%w: position %d at %v", ErrInvalidEvent, i, p.Time)
		}
	}
	for i, c := range rec.Clicks {
		if !validTime(c.Time) || !validPoint(c.Position) {
			return fmt.Errorf("%w: click %d at %v", ErrInvalidEvent, i, c.Time)
		}
		if !c.Type.Valid() {
			return fmt.Errorf("%w: click %d has type %q", ErrInvalidEvent, i, c.Type)
		}
	}
	for i, k := range rec.Keys {
		if !validTime(k.Time) {
			return fmt.Errorf("%w: key %d at %v", ErrInvalidEvent, i, k.Time)
		}
		if !k.Type.Valid() {
			return fmt.Errorf("%w: key %d has type %q", ErrInvalidEvent, i, k.Type)
		}
	}
	for i, d := range rec.Drags {
		if !validTime(d.StartTime) || !validTime(d.EndTime) || d.EndTime < d.StartTime {
			return fmt.Errorf("%w: drag %d spans %v-%v", ErrInvalidEvent, i, d.StartTime, d.EndTime)
		}
		if !d.Kind.Valid() {
			return fmt.Errorf("%w: drag %d has kind %q", ErrInvalidEvent, i, d.Kind)
		}
	}
	for i, s := range rec.Scrolls {
		if !validTime(s.Time) || !validPoint(s.Position) {
			return fmt.Errorf("%w: scroll %d at %v", ErrInvalidEvent, i, s.Time)
		}
	}
	for i, u := range uiStates {
		if !validTime(u.Time) {
			return fmt.Errorf("%w: ui state %d at %v", ErrInvalidEvent, i, u.Time)
		}
	}
	return nil
}

func validTime(t float64) bool {
	return t >= 0 && !math.IsInf(t, 1)
}

func validPoint(p events.NormalizedPoint) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}
