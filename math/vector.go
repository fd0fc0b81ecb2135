// Copyright © 2024 Forge Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package math

import "math"

// V2 is a 2 element vector. Used for positions, velocities, and scales.
type V2 struct {
	X float64
	Y float64
}

// Zero is the additive identity vector.
var Zero = V2{0, 0}

// One is used as the default, unscaled, object scale.
var One = V2{1, 1}

// Eq (==) returns true if v and a have identical element values.
func (v V2) Eq(a V2) bool { return v.X == a.X && v.Y == a.Y }

// Aeq (~=) returns true if v and a are within Epsilon of each other.
func (v V2) Aeq(a V2) bool { return Aeq(v.X, a.X) && Aeq(v.Y, a.Y) }

// Add (+) returns v+a.
func (v V2) Add(a V2) V2 { return V2{v.X + a.X, v.Y + a.Y} }

// Sub (-) returns v-a.
func (v V2) Sub(a V2) V2 { return V2{v.X - a.X, v.Y - a.Y} }

// Scale (*) returns v scaled by s.
func (v V2) Scale(s float64) V2 { return V2{v.X * s, v.Y * s} }

// Mul returns the element-wise product of v and a.
func (v V2) Mul(a V2) V2 { return V2{v.X * a.X, v.Y * a.Y} }

// Neg returns -v.
func (v V2) Neg() V2 { return V2{-v.X, -v.Y} }

// Dot returns the dot product of v and a.
func (v V2) Dot(a V2) float64 { return v.X*a.X + v.Y*a.Y }

// Cross returns the 2D "cross product" (scalar) of v and a: the z
// component of the 3D cross product (v.X, v.Y, 0) x (a.X, a.Y, 0).
func (v V2) Cross(a V2) float64 { return v.X*a.Y - v.Y*a.X }

// CrossScalar returns the vector s × v, i.e. the cross product of a
// scalar (treated as a z-axis vector) with a 2D vector: (-s*v.Y, s*v.X).
// Used to compute a point's velocity contribution from angular velocity.
func CrossScalar(s float64, v V2) V2 { return V2{-s * v.Y, s * v.X} }

// Perp returns the vector v rotated 90 degrees counter-clockwise.
// Used to derive a friction tangent from a contact normal.
func (v V2) Perp() V2 { return V2{-v.Y, v.X} }

// Length returns the Euclidean length of v.
func (v V2) Length() float64 { return math.Sqrt(v.Dot(v)) }

// LengthSq returns the squared Euclidean length of v, cheaper than Length.
func (v V2) LengthSq() float64 { return v.Dot(v) }

// Normalize returns v scaled to unit length. The zero vector is
// returned unchanged since it has no direction.
func (v V2) Normalize() V2 {
	length := v.Length()
	if AeqZ(length) {
		return v
	}
	return v.Scale(1 / length)
}

// Rotate returns v rotated by the given angle in radians.
func (v V2) Rotate(radians float64) V2 {
	s, c := math.Sincos(radians)
	return V2{v.X*c - v.Y*s, v.X*s + v.Y*c}
}

// Distance returns the distance between v and a.
func (v V2) Distance(a V2) float64 { return v.Sub(a).Length() }

// DistanceSq returns the squared distance between v and a, cheaper
// than Distance and sufficient for range comparisons.
func (v V2) DistanceSq(a V2) float64 { return v.Sub(a).LengthSq() }
