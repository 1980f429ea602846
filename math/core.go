// math/core.go
// Copyright(c) 2024-2026 routegraph contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	gomath "math"

	"golang.org/x/exp/constraints"
)

// Degrees converts an angle expressed in radians to degrees
func Degrees(r float64) float64 {
	return r * 180 / gomath.Pi
}

// Radians converts an angle expressed in degrees to radians
func Radians(d float64) float64 {
	return d / 180 * gomath.Pi
}

func Abs[V constraints.Integer | constraints.Float](x V) V {
	if x < 0 {
		return -x
	}
	return x
}

func Sqr[V constraints.Integer | constraints.Float](v V) V { return v * v }

func Clamp[T constraints.Ordered](x T, low T, high T) T {
	if x < low {
		return low
	} else if x > high {
		return high
	}
	return x
}

// SafeACos clamps its argument to [-1,1] so that dot products that have
// picked up a little floating-point slop don't turn into NaNs.
func SafeACos(a float64) float64 {
	return gomath.Acos(Clamp(a, -1, 1))
}

// NormalizeHeading returns the equivalent heading in (0, 360]; a due-north
// heading is reported as 360, never 0.
func NormalizeHeading(h float64) float64 {
	h = gomath.Mod(h, 360)
	if h <= 0 {
		h += 360
	}
	return h
}
