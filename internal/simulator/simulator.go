// Package simulator integrates a continuous camera trajectory that chases a
// waypoint sequence with per-axis spring-damper dynamics.
package simulator

import (
	"math"

	"github.com/ivlev/autocam/internal/events"
	"github.com/ivlev/autocam/internal/waypoint"
)

const activationEpsilon = 1e-9

// State is the camera position, zoom and their velocities
type State struct {
	X, Y, Zoom    float64
	VX, VY, VZoom float64
}

// InitialState is the full-screen camera at rest
func InitialState() State {
	return State{X: 0.5, Y: 0.5, Zoom: 1}
}

// Transform is what the renderer needs for one frame
type Transform struct {
	Zoom   float64                `yaml:"zoom"`
	Center events.NormalizedPoint `yaml:"center"`
}

// TimedTransform is one sample of the trajectory
type TimedTransform struct {
	Time      float64   `yaml:"time"`
	Transform Transform `yaml:",inline"`
}

// goal is the target the springs chase during one tick
type goal struct {
	x, y, zoom float64
	multiplier float64
}

// Simulate runs the camera from InitialState over [0, duration]
func Simulate(wps []waypoint.Waypoint, duration float64, cfg Config) []TimedTransform {
	return SimulateFrom(InitialState(), wps, duration, cfg)
}

// SimulateFrom steps the camera at cfg.TickRate from t=0 to duration and
// returns one sample per tick. wps must be sorted by time. A duration of
// zero gives an empty trajectory.
func SimulateFrom(initial State, wps []waypoint.Waypoint, duration float64, cfg Config) []TimedTransform {
	cfg = cfg.Sanitize()
	if !(duration > 0) || math.IsInf(duration, 1) {
		return nil
	}

	rate := cfg.TickRate
	dt := 1 / rate
	ticks := int(math.Floor(duration*rate + activationEpsilon))

	s := initial
	active := -1
	next := 0
	out := make([]TimedTransform, 0, ticks+1)

	for i := 0; i <= ticks; i++ {
		t := float64(i) / rate

		cut := -1
		for next < len(wps) && wps[next].Time <= t+activationEpsilon {
			if wps[next].Urgency == waypoint.Immediate {
				cut = next
			}
			active = next
			next++
		}

		switch {
		case cut >= 0:
			w := wps[cut]
			s = State{X: w.Center.X, Y: w.Center.Y, Zoom: w.Zoom}
		case i > 0:
			g := target(s, wps, active, next, t, cfg)
			pOmega := naturalFrequency(cfg.PositionResponseTime, g.multiplier)
			zOmega := naturalFrequency(cfg.ZoomResponseTime, g.multiplier)
			s.X, s.VX = step(s.X, s.VX, g.x, pOmega, cfg.PositionDampingRatio, dt)
			s.Y, s.VY = step(s.Y, s.VY, g.y, pOmega, cfg.PositionDampingRatio, dt)
			s.Zoom, s.VZoom = step(s.Zoom, s.VZoom, g.zoom, zOmega, cfg.ZoomDampingRatio, dt)
		}

		s = clamp(s, cfg)
		out = append(out, TimedTransform{
			Time:      t,
			Transform: Transform{Zoom: s.Zoom, Center: events.NormalizedPoint{X: s.X, Y: s.Y}},
		})
	}

	if cfg.ZoomIntensity != 1 {
		out = ApplyIntensity(out, cfg.ZoomIntensity, cfg.MaxZoom)
	}
	return out
}

// target returns the active waypoint, blended toward the next one when it
// falls inside its lead window. Immediate waypoints are never blended into.
// Before any waypoint is active the camera holds its position.
func target(s State, wps []waypoint.Waypoint, active, next int, t float64, cfg Config) goal {
	g := goal{x: s.X, y: s.Y, zoom: s.Zoom, multiplier: cfg.UrgencyMultiplier.For(waypoint.Normal)}
	if active >= 0 {
		w := wps[active]
		g = goal{x: w.Center.X, y: w.Center.Y, zoom: w.Zoom, multiplier: cfg.UrgencyMultiplier.For(w.Urgency)}
	}

	if next >= len(wps) {
		return g
	}
	n := wps[next]
	if n.Urgency == waypoint.Immediate {
		return g
	}
	lead := cfg.LeadWindow.For(n.Urgency)
	remaining := n.Time - t
	if lead <= 0 || remaining > lead {
		return g
	}

	f := 1 - remaining/lead
	return goal{
		x:          lerp(g.x, n.Center.X, f),
		y:          lerp(g.y, n.Center.Y, f),
		zoom:       lerp(g.zoom, n.Zoom, f),
		multiplier: lerp(g.multiplier, cfg.UrgencyMultiplier.For(n.Urgency), f),
	}
}

// clamp keeps zoom within bounds and the viewport inside the frame. Any
// clamped axis loses its velocity.
func clamp(s State, cfg Config) State {
	if z := events.Clamp(s.Zoom, cfg.MinZoom, cfg.MaxZoom); z != s.Zoom {
		s.Zoom, s.VZoom = z, 0
	}
	c := events.ClampCenter(events.NormalizedPoint{X: s.X, Y: s.Y}, s.Zoom)
	if c.X != s.X {
		s.X, s.VX = c.X, 0
	}
	if c.Y != s.Y {
		s.Y, s.VY = c.Y, 0
	}
	return s
}

// ApplyIntensity rescales every zoom as 1 + (zoom-1)*intensity, limited to
// [1, maxZoom], and re-clamps the centers. The input is not modified.
func ApplyIntensity(samples []TimedTransform, intensity, maxZoom float64) []TimedTransform {
	intensity = events.AtLeast(intensity, 0)
	maxZoom = events.AtLeast(maxZoom, 1)
	out := make([]TimedTransform, len(samples))
	for i, s := range samples {
		zoom := events.Clamp(1+(s.Transform.Zoom-1)*intensity, 1, maxZoom)
		out[i] = TimedTransform{
			Time: s.Time,
			Transform: Transform{
				Zoom:   zoom,
				Center: events.ClampCenter(s.Transform.Center, zoom),
			},
		}
	}
	return out
}
