// Copyright © 2024 Forge Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package math provides the 2D linear math needed by the object model
// and physics subsystems: vectors, scalar rotations, and parent-relative
// transform composition.
//
// Package math is provided as part of the forge 2D engine core. It is a
// 2D, scalar-rotation reduction of github.com/gazed/vu/math/lin, which
// uses 3D vectors and quaternions; a 2D engine has no need for either.
package math

import "math"

// Various linear math constants.
const (
	Pi     float64 = math.Pi
	Pix2   float64 = Pi * 2
	DegRad float64 = Pix2 / 360.0 // degrees * DegRad = radians
	RadDeg float64 = 360.0 / Pix2 // radians * RadDeg = degrees

	// Epsilon distinguishes a float from zero for equality checks.
	Epsilon float64 = 1e-6
)

// Rad converts degrees to radians.
func Rad(deg float64) float64 { return deg * DegRad }

// Deg converts radians to degrees.
func Deg(rad float64) float64 { return rad * RadDeg }

// AeqZ (~=) almost-equals-zero returns true if x is close enough to
// zero that the difference doesn't matter.
func AeqZ(x float64) bool { return math.Abs(x) < Epsilon }

// Aeq (~=) almost-equals returns true if a and b are close enough
// that the difference doesn't matter.
func Aeq(a, b float64) bool { return math.Abs(a-b) < Epsilon }

// Clamp returns s restricted to the range [lb, ub].
func Clamp(s, lb, ub float64) float64 {
	switch {
	case s < lb:
		return lb
	case s > ub:
		return ub
	}
	return s
}

// Lerp returns the linear interpolation of a to b by the given ratio.
func Lerp(a, b, ratio float64) float64 { return (b-a)*ratio + a }

// Nang (normalize angle) folds a rotation in radians into (-Pi, Pi].
func Nang(radians float64) float64 {
	radians = math.Mod(radians, Pix2)
	switch {
	case radians <= -Pi:
		return radians + Pix2
	case radians > Pi:
		return radians - Pix2
	}
	return radians
}
