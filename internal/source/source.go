// Package source provides time-stamped screen frames for analysis.
package source

import (
	"errors"
	"image"
)

// ErrNoFrames is returned when a frame directory holds no images
var ErrNoFrames = errors.New("no frames found")

// FrameSource yields captured frames in playback order
type FrameSource interface {
	FrameCount() int
	// FrameTime returns the capture time of a frame in seconds
	FrameTime(index int) float64
	Frame(index int) (image.Image, error)
	Close() error
}
