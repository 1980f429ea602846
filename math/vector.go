// math/vector.go
// Copyright(c) 2024-2026 routegraph contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import gomath "math"

///////////////////////////////////////////////////////////////////////////
// Vector3

// Vector3 is a 3D vector; unit-length Vector3s are used to represent
// positions on the sphere (see LatLong.Vector).
type Vector3 [3]float64

// a+b
func (a Vector3) Add(b Vector3) Vector3 {
	return Vector3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// a-b
func (a Vector3) Sub(b Vector3) Vector3 {
	return Vector3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// a*s
func (a Vector3) Scale(s float64) Vector3 {
	return Vector3{a[0] * s, a[1] * s, a[2] * s}
}

// -a
func (a Vector3) Neg() Vector3 {
	return Vector3{-a[0], -a[1], -a[2]}
}

func (a Vector3) Dot(b Vector3) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func (a Vector3) Cross(b Vector3) Vector3 {
	return Vector3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func (a Vector3) Length() float64 {
	return gomath.Sqrt(Sqr(a[0]) + Sqr(a[1]) + Sqr(a[2]))
}

// Normalize returns a unit vector in the direction of a. The zero vector
// is returned unchanged.
func (a Vector3) Normalize() Vector3 {
	l := a.Length()
	if l == 0 {
		return a
	}
	return a.Scale(1 / l)
}

// AlmostEqual reports whether each component of a and b differs by no
// more than eps.
func (a Vector3) AlmostEqual(b Vector3, eps float64) bool {
	return Abs(a[0]-b[0]) <= eps && Abs(a[1]-b[1]) <= eps && Abs(a[2]-b[2]) <= eps
}

// ProjectOnPlane returns the component of a that lies in the plane with the
// given unit normal.
func (a Vector3) ProjectOnPlane(unitNormal Vector3) Vector3 {
	return a.Sub(unitNormal.Scale(a.Dot(unitNormal)))
}

///////////////////////////////////////////////////////////////////////////
// 2x2 matrix

type Matrix2 [2][2]float64

func MakeMatrix2(m00, m01, m10, m11 float64) Matrix2 {
	return Matrix2{{m00, m01}, {m10, m11}}
}

func (m Matrix2) Determinant() float64 {
	return m[0][0]*m[1][1] - m[0][1]*m[1][0]
}

// Inverse returns the inverse of m; the result is meaningless if m is
// singular, so callers must check the determinant when that is possible.
func (m Matrix2) Inverse() Matrix2 {
	invDet := 1 / m.Determinant()
	return Matrix2{
		{invDet * m[1][1], -invDet * m[0][1]},
		{-invDet * m[1][0], invDet * m[0][0]},
	}
}

func (m Matrix2) MulVec(v [2]float64) [2]float64 {
	return [2]float64{
		m[0][0]*v[0] + m[0][1]*v[1],
		m[1][0]*v[0] + m[1][1]*v[1],
	}
}
