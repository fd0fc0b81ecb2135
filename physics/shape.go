// Copyright © 2024 Forge Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package physics implements a 2D rigid-body pipeline: broad-phase
// sweep-and-prune, SAT narrow-phase, reference/incident edge clipping
// for contact manifolds, and a sequential-impulse solver. Its pipeline
// shape - predict, broad phase, narrow phase, solve, integrate, clear
// forces - is generalized from a 3D GJK/EPA rigid-body step to 2D
// polygon/circle bodies.
package physics

import (
	"math"

	fmath "github.com/gazed/forge/math"
)

// ShapeKind distinguishes the two collider families: convex polygons
// and circles, the latter treated as a synthetic
// triangle during narrow-phase clipping so polygon and circle
// collisions share one manifold-generation code path.
type ShapeKind uint8

const (
	ShapePolygon ShapeKind = iota
	ShapeCircle
)

// Shape is a single collider attached to a Body. A body may carry more
// than one.
type Shape struct {
	Kind ShapeKind

	// Local points carried by a polygon, CCW wound, centered on the
	// body's origin. Unused (nil) for a circle.
	LocalVertices []fmath.V2

	// Radius carried by a circle. Zero for a polygon.
	Radius float64
}

// NewPolygon builds a convex polygon shape from CCW-wound local
// vertices.
func NewPolygon(vertices []fmath.V2) *Shape {
	return &Shape{Kind: ShapePolygon, LocalVertices: append([]fmath.V2(nil), vertices...)}
}

// NewBox builds an axis-aligned rectangle polygon of the given
// half-width/half-height, centered on the body's origin.
func NewBox(halfW, halfH float64) *Shape {
	return NewPolygon([]fmath.V2{
		{X: -halfW, Y: -halfH},
		{X: halfW, Y: -halfH},
		{X: halfW, Y: halfH},
		{X: -halfW, Y: halfH},
	})
}

// NewCircle builds a circle shape of the given radius.
func NewCircle(radius float64) *Shape {
	return &Shape{Kind: ShapeCircle, Radius: radius}
}

// WorldVertices returns the shape's vertices transformed into world
// space by t. For a circle, it returns a synthetic CCW triangle: the
// center plus two points Radius along axis and Radius to either side
// of it, so the triangle's base is tangent to the circle on the side
// axis points toward and narrow-phase clipping can treat a circle as a
// degenerate polygon.
func (s *Shape) WorldVertices(t fmath.Transform, axis fmath.V2) []fmath.V2 {
	if s.Kind == ShapeCircle {
		perp := axis.Perp()
		return []fmath.V2{
			t.Pos,
			t.Pos.Sub(perp.Scale(s.Radius)).Add(axis.Scale(s.Radius)),
			t.Pos.Add(perp.Scale(s.Radius)).Add(axis.Scale(s.Radius)),
		}
	}
	out := make([]fmath.V2, len(s.LocalVertices))
	for i, v := range s.LocalVertices {
		out[i] = t.Pos.Add(v.Mul(t.Scale).Rotate(t.Rot))
	}
	return out
}

// WorldEdgeNormals returns the outward unit normal for each edge of a
// world-space polygon, in the same order as its vertices.
func WorldEdgeNormals(verts []fmath.V2) []fmath.V2 {
	normals := make([]fmath.V2, len(verts))
	for i := range verts {
		a, b := verts[i], verts[(i+1)%len(verts)]
		edge := b.Sub(a)
		normals[i] = fmath.V2{X: edge.Y, Y: -edge.X}.Normalize()
	}
	return normals
}

// AABB returns the shape's world-space axis-aligned bounding box under
// transform t, expanded by margin on every side (the broad-phase
// margin).
func (s *Shape) AABB(t fmath.Transform, margin float64) (min, max fmath.V2) {
	if s.Kind == ShapeCircle {
		r := s.Radius + margin
		return fmath.V2{X: t.Pos.X - r, Y: t.Pos.Y - r}, fmath.V2{X: t.Pos.X + r, Y: t.Pos.Y + r}
	}
	verts := s.WorldVertices(t, fmath.V2{X: 1, Y: 0})
	min = fmath.V2{X: math.Inf(1), Y: math.Inf(1)}
	max = fmath.V2{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, v := range verts {
		if v.X < min.X {
			min.X = v.X
		}
		if v.Y < min.Y {
			min.Y = v.Y
		}
		if v.X > max.X {
			max.X = v.X
		}
		if v.Y > max.Y {
			max.Y = v.Y
		}
	}
	min.X -= margin
	min.Y -= margin
	max.X += margin
	max.Y += margin
	return min, max
}
