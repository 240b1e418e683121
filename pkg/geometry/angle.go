package geometry

import "math"

// Angle represents a rotation in degrees. KiCad files store rotations in
// degrees, so degrees are the canonical unit and radians are derived.
type Angle float64

// AngleFromRadians converts a radian value to an Angle.
func AngleFromRadians(rad float64) Angle {
	return Angle(rad * 180.0 / math.Pi)
}

// Degrees returns the angle in degrees.
func (a Angle) Degrees() float64 {
	return float64(a)
}

// Radians returns the angle in radians.
func (a Angle) Radians() float64 {
	return float64(a) * math.Pi / 180.0
}

// Normalize returns the angle canonicalized to the range [0, 360).
func (a Angle) Normalize() Angle {
	deg := math.Mod(float64(a), 360.0)
	if deg < 0 {
		deg += 360.0
	}
	return Angle(deg)
}

// Add composes two rotations. Rotation composition is additive.
func (a Angle) Add(b Angle) Angle {
	return a + b
}

// NormalizeForText collapses rotations so that text is never laid out
// upside-down: 180 collapses to 0 and 270 collapses to 90. Any visual
// mirroring must be handled by offset direction, not by flipping glyphs.
func (a Angle) NormalizeForText() Angle {
	n := a.Normalize()
	switch n {
	case 180:
		return 0
	case 270:
		return 90
	}
	return n
}
