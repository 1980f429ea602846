// math/sphere_test.go
// Copyright(c) 2024-2026 routegraph contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"errors"
	gomath "math"
	"math/rand/v2"
	"testing"
)

func randomLatLong(r *rand.Rand) LatLong {
	return LatLong{Lat: -89 + 178*r.Float64(), Lon: -180 + 360*r.Float64()}
}

// headingDiff returns the absolute angular difference between two headings.
func headingDiff(a, b float64) float64 {
	d := gomath.Mod(gomath.Abs(a-b), 360)
	return min(d, 360-d)
}

func TestLatLongVectorRoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for range 200 {
		ll := randomLatLong(r)
		v := ll.Vector()
		if gomath.Abs(v.Length()-1) > 1e-12 {
			t.Errorf("%s: vector %v is not unit length", ll, v)
		}
		back := v.LatLong()
		if gomath.Abs(back.Lat-ll.Lat) > 1e-9 || gomath.Abs(back.Lon-ll.Lon) > 1e-9 {
			t.Errorf("%s: round trip gave %s", ll, back)
		}
	}

	if !NorthPole.AlmostEqual(Vector3{1, 0, 0}, 1e-15) {
		t.Errorf("north pole is %v, expected +x", NorthPole)
	}
}

func TestInterpolateEndpoints(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	for range 500 {
		v1, v2 := randomLatLong(r).Vector(), randomLatLong(r).Vector()
		if gomath.Abs(v1.Dot(v2)) > 0.999999 {
			// Nearly coincident or antipodal; covered separately.
			continue
		}
		beta := AngleBetween(v1, v2)

		p, err := Interpolate(v1, v2, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !p.AlmostEqual(v1, 1e-7) {
			t.Errorf("Interpolate(v1, v2, 0) = %v, expected %v", p, v1)
		}

		p, err = Interpolate(v1, v2, beta)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !p.AlmostEqual(v2, 1e-7) {
			t.Errorf("Interpolate(v1, v2, beta) = %v, expected %v", p, v2)
		}

		p, err = Interpolate(v1, v2, beta/2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gomath.Abs(p.Length()-1) > 1e-9 {
			t.Errorf("midpoint %v is not unit length", p)
		}
		if d1, d2 := AngleBetween(v1, p), AngleBetween(p, v2); gomath.Abs(d1-d2) > 1e-9 {
			t.Errorf("midpoint not equidistant: %g vs %g", d1, d2)
		}
	}
}

func TestInterpolateDegenerate(t *testing.T) {
	v := LatLong{Lat: 40.6, Lon: -73.8}.Vector()
	if _, err := Interpolate(v, v, 0.1); !errors.Is(err, ErrDegenerateGeometry) {
		t.Errorf("expected ErrDegenerateGeometry, got %v", err)
	}
}

func TestInterpolateAntipodal(t *testing.T) {
	tests := []struct {
		name   string
		v      Vector3
		detour Vector3
	}{
		{name: "equator", v: LatLong{Lat: 0, Lon: 45}.Vector(), detour: NorthPole},
		{name: "mid latitude", v: LatLong{Lat: 51.5, Lon: -0.5}.Vector(), detour: NorthPole},
		{name: "north pole", v: NorthPole, detour: Lat0Lon0},
		{name: "south pole", v: NorthPole.Neg(), detour: Lat0Lon0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			normal := tt.v.Cross(tt.detour).Normalize()
			for _, alpha := range []float64{0, 0.3, 1, gomath.Pi / 2, 2.5, gomath.Pi} {
				p, err := Interpolate(tt.v, tt.v.Neg(), alpha)
				if err != nil {
					t.Fatalf("alpha %g: unexpected error %v", alpha, err)
				}
				if gomath.Abs(p.Length()-1) > 1e-9 {
					t.Errorf("alpha %g: %v not unit length", alpha, p)
				}
				if gomath.Abs(p.Dot(normal)) > 1e-9 {
					t.Errorf("alpha %g: %v not on the arc through %v", alpha, p, tt.detour)
				}
				if a := AngleBetween(tt.v, p); gomath.Abs(a-alpha) > 1e-7 {
					t.Errorf("alpha %g: walked %g", alpha, a)
				}
			}
		})
	}
}

func TestTangent(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 6))
	for range 200 {
		v, v2 := randomLatLong(r).Vector(), randomLatLong(r).Vector()
		if gomath.Abs(v.Dot(v2)) > 0.999999 {
			continue
		}
		w, err := Tangent(v, v2)
		if err != nil {
			t.Fatalf("Tangent(%v, %v): %v", v, v2, err)
		}
		if gomath.Abs(w.Length()-1) > 1e-9 {
			t.Errorf("tangent %v not unit length", w)
		}
		if gomath.Abs(w.Dot(v)) > 1e-9 {
			t.Errorf("tangent %v not normal to %v", w, v)
		}
		// A small step along the tangent should bring us closer to v2.
		step := v.Add(w.Scale(1e-4)).Normalize()
		if AngleBetween(step, v2) >= AngleBetween(v, v2) {
			t.Errorf("tangent %v points away from %v", w, v2)
		}
	}

	// Antipodal: heads toward the north pole.
	v := LatLong{Lat: 10, Lon: 20}.Vector()
	w, err := Tangent(v, v.Neg())
	if err != nil {
		t.Fatal(err)
	}
	if h, err := TrueHeading(w, LatLong{Lat: 10, Lon: 20}); err != nil || headingDiff(h, 360) > 1e-9 {
		t.Errorf("antipodal tangent heading %g (%v), expected 360", h, err)
	}

	for _, p := range []LatLong{{Lat: 10, Lon: 20}, {Lat: 90}, {Lat: -45, Lon: 180}} {
		if w, err := Tangent(p.Vector(), p.Vector()); !errors.Is(err, ErrDegenerateGeometry) {
			t.Errorf("%s: expected ErrDegenerateGeometry for identical points, got %v, %v", p, w, err)
		}
	}
}

func TestTrueHeading(t *testing.T) {
	origin := LatLong{}
	tests := []struct {
		name string
		v    Vector3
		c    LatLong
		want float64
	}{
		{name: "north", v: Vector3{1, 0, 0}, c: origin, want: 360},
		{name: "east", v: Vector3{0, 1, 0}, c: origin, want: 90},
		{name: "south", v: Vector3{-1, 0, 0}, c: origin, want: 180},
		{name: "west", v: Vector3{0, -1, 0}, c: origin, want: 270},
		{name: "northeast", v: Vector3{1, 1, 0}, c: origin, want: 45},
		{name: "vertical", v: Vector3{0, 0, 5}, c: origin, want: 360},
		{name: "north pole", v: Vector3{0, 1, 0}, c: LatLong{Lat: 90}, want: 180},
		{name: "south pole", v: Vector3{0, 1, 0}, c: LatLong{Lat: -90}, want: 360},
		{name: "east at 90E", v: Vector3{0, 0, -1}, c: LatLong{Lon: 90}, want: 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := TrueHeading(tt.v, tt.c)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if headingDiff(h, tt.want) > 1e-9 {
				t.Errorf("got %g, expected %g", h, tt.want)
			}
		})
	}

	if _, err := TrueHeading(Vector3{}, origin); !errors.Is(err, ErrZeroLengthVector) {
		t.Errorf("expected ErrZeroLengthVector, got %v", err)
	}
}

func TestTrueHeadingRange(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 8))
	for range 1000 {
		v := Vector3{r.Float64() - 0.5, r.Float64() - 0.5, r.Float64() - 0.5}
		if v.Length() == 0 {
			continue
		}
		c := randomLatLong(r)
		h, err := TrueHeading(v, c)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if h <= 0 || h > 360 {
			t.Errorf("TrueHeading(%v, %s) = %g out of (0, 360]", v, c, h)
		}
	}
}

func TestGreatCircleDistanceAndHeading(t *testing.T) {
	oneDegree := EarthRadiusNM * gomath.Pi / 180

	tests := []struct {
		name     string
		a, b     LatLong
		distance float64
		heading  float64
	}{
		{name: "east along equator", a: LatLong{}, b: LatLong{Lon: 1}, distance: oneDegree, heading: 90},
		{name: "north along meridian", a: LatLong{}, b: LatLong{Lat: 1}, distance: oneDegree, heading: 360},
		{name: "south along meridian", a: LatLong{Lat: 10}, b: LatLong{}, distance: 10 * oneDegree, heading: 180},
		{name: "west across dateline", a: LatLong{Lon: -179.5}, b: LatLong{Lon: 179.5}, distance: oneDegree, heading: 270},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if d := GreatCircleDistance(tt.a, tt.b); gomath.Abs(d-tt.distance) > 1e-6 {
				t.Errorf("distance %g, expected %g", d, tt.distance)
			}
			h, err := GreatCircleHeading(tt.a, tt.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if headingDiff(h, tt.heading) > 1e-6 {
				t.Errorf("heading %g, expected %g", h, tt.heading)
			}
		})
	}

	if _, err := GreatCircleHeading(LatLong{Lat: 5}, LatLong{Lat: 5}); !errors.Is(err, ErrDegenerateGeometry) {
		t.Errorf("expected ErrDegenerateGeometry, got %v", err)
	}
}

func TestGreatCirclePoints(t *testing.T) {
	a, b := LatLong{Lat: 50, Lon: -50}, LatLong{Lat: 53, Lon: -15}
	pts := GreatCirclePoints(a, b, 4)
	if len(pts) != 6 {
		t.Fatalf("got %d points, expected 6", len(pts))
	}
	if pts[0] != a || pts[5] != b {
		t.Errorf("endpoints not preserved: %v", pts)
	}

	total := GreatCircleDistance(a, b)
	for i := 1; i < len(pts); i++ {
		if d := GreatCircleDistance(pts[i-1], pts[i]); gomath.Abs(d-total/5) > 1e-6 {
			t.Errorf("segment %d length %g, expected %g", i, d, total/5)
		}
	}

	if pts := GreatCirclePoints(a, a, 3); len(pts) != 2 {
		t.Errorf("coincident points gave %d points, expected 2", len(pts))
	}
}

func TestNormalizeHeading(t *testing.T) {
	for _, tc := range [][2]float64{{0, 360}, {-90, 270}, {360, 360}, {450, 90}, {180, 180}, {-180, 180}, {1e-9, 1e-9}} {
		if h := NormalizeHeading(tc[0]); gomath.Abs(h-tc[1]) > 1e-12 {
			t.Errorf("NormalizeHeading(%g) = %g, expected %g", tc[0], h, tc[1])
		}
	}
}
