package simulator

import "math"

const criticalTolerance = 1e-6

// spring advances one axis of a damped harmonic oscillator by dt toward
// target using the closed-form solution, so the step is exact for any dt.
// omega is the natural frequency and zeta the damping ratio.
func spring(x, v, target, omega, zeta, dt float64) (float64, float64) {
	e0 := x - target

	switch {
	case math.Abs(zeta-1) < criticalTolerance:
		b := v + omega*e0
		decay := math.Exp(-omega * dt)
		e := (e0 + b*dt) * decay
		vel := (v - omega*b*dt) * decay
		return target + e, vel

	case zeta > 1:
		s := math.Sqrt(zeta*zeta - 1)
		r1 := -omega * (zeta - s)
		r2 := -omega * (zeta + s)
		c2 := (v - r1*e0) / (r2 - r1)
		c1 := e0 - c2
		x1 := c1 * math.Exp(r1*dt)
		x2 := c2 * math.Exp(r2*dt)
		return target + x1 + x2, r1*x1 + r2*x2

	default:
		wd := omega * math.Sqrt(1-zeta*zeta)
		decay := math.Exp(-zeta * omega * dt)
		cos, sin := math.Cos(wd*dt), math.Sin(wd*dt)
		e := decay * (e0*cos + ((v+zeta*omega*e0)/wd)*sin)
		vel := decay * (v*cos - ((zeta*omega*v+omega*omega*e0)/wd)*sin)
		return target + e, vel
	}
}

// naturalFrequency converts a response time into omega
func naturalFrequency(responseTime, multiplier float64) float64 {
	return 2 * math.Pi / (responseTime * multiplier)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// step advances one axis. A damped axis (zeta >= 1) that would cross its
// target this tick settles on it at rest instead.
func step(x, v, target, omega, zeta, dt float64) (float64, float64) {
	nx, nv := spring(x, v, target, omega, zeta, dt)
	if zeta >= 1-criticalTolerance && nx != target && (x-target)*(nx-target) <= 0 {
		return target, 0
	}
	return nx, nv
}
