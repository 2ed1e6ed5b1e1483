package events

import "math"

// NormalizedPoint is a screen-relative position, 0..1 on both axes
type NormalizedPoint struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Center is the middle of the screen
var Center = NormalizedPoint{X: 0.5, Y: 0.5}

// Distance returns the euclidean distance between two points
func (p NormalizedPoint) Distance(o NormalizedPoint) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

// Clamped returns the point restricted to the unit square
func (p NormalizedPoint) Clamped() NormalizedPoint {
	return NormalizedPoint{X: Clamp(p.X, 0, 1), Y: Clamp(p.Y, 0, 1)}
}

// Lerp interpolates between p and o
func (p NormalizedPoint) Lerp(o NormalizedPoint, t float64) NormalizedPoint {
	return NormalizedPoint{X: p.X + (o.X-p.X)*t, Y: p.Y + (o.Y-p.Y)*t}
}

// Rect is an axis-aligned box. Depending on where it came from it is either
// in screen points or normalized; see Size.NormalizeRect.
type Rect struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	W float64 `json:"w" yaml:"w"`
	H float64 `json:"h" yaml:"h"`
}

// Center returns the middle of the rectangle
func (r Rect) Center() NormalizedPoint {
	return NormalizedPoint{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Area returns W*H, never negative
func (r Rect) Area() float64 {
	if r.W <= 0 || r.H <= 0 {
		return 0
	}
	return r.W * r.H
}

// Union returns the smallest rectangle containing both r and o
func (r Rect) Union(o Rect) Rect {
	minX := math.Min(r.X, o.X)
	minY := math.Min(r.Y, o.Y)
	maxX := math.Max(r.X+r.W, o.X+o.W)
	maxY := math.Max(r.Y+r.H, o.Y+o.H)
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// RectAround returns a zero-size rectangle at p
func RectAround(p NormalizedPoint) Rect {
	return Rect{X: p.X, Y: p.Y}
}

// Size is the capture surface in screen points
type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// IsZero reports whether the size is unknown
func (s Size) IsZero() bool {
	return s.Width <= 0 || s.Height <= 0
}

// NormalizeRect converts a rectangle in screen points to normalized
// coordinates. A zero size means the rectangle is already normalized.
func (s Size) NormalizeRect(r Rect) Rect {
	if s.IsZero() {
		return r
	}
	return Rect{X: r.X / s.Width, Y: r.Y / s.Height, W: r.W / s.Width, H: r.H / s.Height}
}

// Clamp limits v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampCenter keeps a zoomed viewport centred on c inside the unit square.
// The half extent of the crop is 0.5/zoom.
func ClampCenter(c NormalizedPoint, zoom float64) NormalizedPoint {
	if zoom < 1 {
		zoom = 1
	}
	half := 0.5 / zoom
	return NormalizedPoint{
		X: Clamp(c.X, half, 1-half),
		Y: Clamp(c.Y, half, 1-half),
	}
}

// AtLeast returns v, or lo when v is smaller or NaN
func AtLeast(v, lo float64) float64 {
	if v >= lo {
		return v
	}
	return lo
}
