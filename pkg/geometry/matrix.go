package geometry

import "math"

// Matrix is a 3x3 affine transformation matrix in row-major order:
//
//	| A B C |
//	| D E F |
//	| 0 0 1 |
//
// It maps a point (x, y) to (A*x + B*y + C, D*x + E*y + F).
type Matrix struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the identity transform.
func Identity() Matrix {
	return Matrix{A: 1, E: 1}
}

// Translation returns a transform that translates by (x, y).
func Translation(x, y float64) Matrix {
	return Matrix{A: 1, C: x, E: 1, F: y}
}

// Scaling returns a transform that scales by (sx, sy) around the origin.
func Scaling(sx, sy float64) Matrix {
	return Matrix{A: sx, E: sy}
}

// Rotation returns a transform that rotates around the origin.
func Rotation(a Angle) Matrix {
	rad := a.Radians()
	cos := math.Cos(rad)
	sin := math.Sin(rad)
	return Matrix{A: cos, B: -sin, D: sin, E: cos}
}

// Mul returns m * o, the transform that applies o first and m second.
func (m Matrix) Mul(o Matrix) Matrix {
	return Matrix{
		A: m.A*o.A + m.B*o.D,
		B: m.A*o.B + m.B*o.E,
		C: m.A*o.C + m.B*o.F + m.C,
		D: m.D*o.A + m.E*o.D,
		E: m.D*o.B + m.E*o.E,
		F: m.D*o.C + m.E*o.F + m.F,
	}
}

// Translated returns the transform translated by (x, y) after m.
func (m Matrix) Translated(x, y float64) Matrix {
	return Translation(x, y).Mul(m)
}

// Transform applies the transform to a point.
func (m Matrix) Transform(v Vec2) Vec2 {
	return Vec2{
		X: m.A*v.X + m.B*v.Y + m.C,
		Y: m.D*v.X + m.E*v.Y + m.F,
	}
}

// TransformAll applies the transform to every point in the slice and
// returns a new slice, leaving the input untouched.
func (m Matrix) TransformAll(pts []Vec2) []Vec2 {
	out := make([]Vec2, len(pts))
	for i, p := range pts {
		out[i] = m.Transform(p)
	}
	return out
}

// Inverse returns the inverse transform. A singular matrix (determinant
// zero) inverts to the identity so callers never divide by zero.
func (m Matrix) Inverse() Matrix {
	det := m.A*m.E - m.B*m.D
	if det == 0 {
		return Identity()
	}
	inv := 1.0 / det
	return Matrix{
		A: m.E * inv,
		B: -m.B * inv,
		C: (m.B*m.F - m.C*m.E) * inv,
		D: -m.D * inv,
		E: m.A * inv,
		F: (m.C*m.D - m.A*m.F) * inv,
	}
}

// AbsScale returns the absolute scale factor of the transform, the mean of
// the X and Y basis vector lengths. Used to scale stroke widths.
func (m Matrix) AbsScale() float64 {
	sx := math.Hypot(m.A, m.D)
	sy := math.Hypot(m.B, m.E)
	return (sx + sy) / 2.0
}

// RotationAngle returns the rotation encoded in the transform.
func (m Matrix) RotationAngle() Angle {
	return AngleFromRadians(math.Atan2(m.D, m.A)).Normalize()
}
