// math/sphere.go
// Copyright(c) 2024-2026 routegraph contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"errors"
	"fmt"
	gomath "math"
)

// Unit vectors are used to specify positions on the sphere. The x axis
// points to the north pole; y and z span the equatorial plane with z
// through (0N, 0E) and y through (0N, 90E).

const EarthRadiusNM = 3440.065

var (
	ErrDegenerateGeometry = errors.New("Great circle path between identical points is undefined")
	ErrZeroLengthVector   = errors.New("Direction vector has zero length")
)

var (
	NorthPole = LatLong{Lat: 90}.Vector()
	Lat0Lon0  = LatLong{}.Vector()
)

const vectorEpsilon = 1e-12

///////////////////////////////////////////////////////////////////////////
// LatLong

// LatLong is a position on the earth in degrees; north latitude and east
// longitude are positive.
type LatLong struct {
	Lat float64
	Lon float64
}

func (ll LatLong) String() string {
	return fmt.Sprintf("(%f, %f)", ll.Lat, ll.Lon)
}

// Vector returns the unit vector corresponding to ll.
func (ll LatLong) Vector() Vector3 {
	lat, lon := Radians(ll.Lat), Radians(ll.Lon)
	cl := gomath.Cos(lat)
	return Vector3{gomath.Sin(lat), cl * gomath.Sin(lon), cl * gomath.Cos(lon)}
}

// LatLong converts a (not necessarily unit) position vector back to
// latitude and longitude.
func (a Vector3) LatLong() LatLong {
	v := a.Normalize()
	return LatLong{
		Lat: Degrees(gomath.Asin(Clamp(v[0], -1, 1))),
		Lon: Degrees(gomath.Atan2(v[1], v[2])),
	}
}

///////////////////////////////////////////////////////////////////////////
// Great circles

// AngleBetween returns the central angle in radians between two unit
// vectors.
func AngleBetween(v1, v2 Vector3) float64 {
	return gomath.Atan2(v1.Cross(v2).Length(), v1.Dot(v2))
}

// antipodeDetour returns the point that a path between the antipodal
// points v1 and v2 is routed through: the north pole unless one of them
// is the north pole, in which case (0N, 0E).
func antipodeDetour(v1, v2 Vector3) Vector3 {
	if v1.AlmostEqual(NorthPole, vectorEpsilon) || v2.AlmostEqual(NorthPole, vectorEpsilon) {
		return Lat0Lon0
	}
	return NorthPole
}

// Interpolate walks the shorter great circle path from v1 toward v2 by
// the angle alpha (radians) and returns the unit vector it ends up at.
// v1 and v2 must be distinct unit vectors. If they are antipodal the path
// through the north pole is taken, or through (0N, 0E) if either of them
// is the north pole.
func Interpolate(v1, v2 Vector3, alpha float64) (Vector3, error) {
	t := v1.Dot(v2)
	if t >= 1 || v1.AlmostEqual(v2, vectorEpsilon) {
		return Vector3{}, ErrDegenerateGeometry
	}
	if t <= -1 || v1.AlmostEqual(v2.Neg(), vectorEpsilon) {
		return Interpolate(v1, antipodeDetour(v1, v2), alpha)
	}

	// Find a, b such that a*v1 + b*v2 is at angle alpha from v1 and at
	// angle beta-alpha from v2.
	beta := SafeACos(t)
	m := MakeMatrix2(1, t, t, 1)
	ab := m.Inverse().MulVec([2]float64{gomath.Cos(alpha), gomath.Cos(beta - alpha)})

	return v1.Scale(ab[0]).Add(v2.Scale(ab[1])), nil
}

// Tangent returns the unit vector that is tangent to the shorter great
// circle path from v to v2 at v, pointing in the direction of travel.
// Antipodal points are handled as in Interpolate; identical points have
// no path between them and ErrDegenerateGeometry is returned.
func Tangent(v, v2 Vector3) (Vector3, error) {
	if v.Dot(v2) >= 1 || v.AlmostEqual(v2, vectorEpsilon) {
		return Vector3{}, ErrDegenerateGeometry
	}
	if v.AlmostEqual(v2.Neg(), vectorEpsilon) {
		v2 = antipodeDetour(v, v2)
	}

	// v and v2 aren't parallel now, so the cross product is nonzero and
	// crossing it with v gives a vector in the plane of the path,
	// orthogonal to v.
	return v.Cross(v2).Cross(v).Normalize(), nil
}

// TrueHeading returns the true heading of the direction v at the given
// position, in (0, 360]. If v is perpendicular to the earth's surface
// there, 360 is returned.
func TrueHeading(v Vector3, c LatLong) (float64, error) {
	if v.Length() == 0 {
		return 0, ErrZeroLengthVector
	}

	if c.Lat >= 90 {
		return 180, nil
	} else if c.Lat <= -90 {
		return 360, nil
	}

	normal := c.Vector()
	projection := v.ProjectOnPlane(normal)
	if projection.Length() <= vectorEpsilon*v.Length() {
		return 360, nil
	}

	north := Vector3{1, 0, 0}.ProjectOnPlane(normal).Normalize()
	east := normal.Cross(north)

	heading := Degrees(gomath.Atan2(projection.Dot(east), projection.Dot(north)))
	return NormalizeHeading(heading), nil
}

// GreatCircleDistance returns the distance in nautical miles between two
// positions.
func GreatCircleDistance(a, b LatLong) float64 {
	return AngleBetween(a.Vector(), b.Vector()) * EarthRadiusNM
}

// GreatCircleHeading returns the initial true heading of the great circle
// path from a to b.
func GreatCircleHeading(a, b LatLong) (float64, error) {
	t, err := Tangent(a.Vector(), b.Vector())
	if err != nil {
		return 0, err
	}
	return TrueHeading(t, a)
}

// GreatCirclePoints returns a and b along with n evenly-spaced points
// between them on the great circle path.
func GreatCirclePoints(a, b LatLong, n int) []LatLong {
	va, vb := a.Vector(), b.Vector()
	pts := []LatLong{a}

	beta := AngleBetween(va, vb)
	for i := 1; i <= n; i++ {
		v, err := Interpolate(va, vb, beta*float64(i)/float64(n+1))
		if err != nil {
			// a and b coincide; there's nothing in between.
			break
		}
		pts = append(pts, v.LatLong())
	}

	return append(pts, b)
}
