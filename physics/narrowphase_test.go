// Copyright © 2024 Forge Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import (
	"testing"

	fmath "github.com/gazed/forge/math"
)

func TestCircleCircleOverlapProducesManifold(t *testing.T) {
	a := NewBody(1, NewCircle(1))
	b := NewBody(1, NewCircle(1))
	b.Transform.Pos = fmath.V2{X: 1.5, Y: 0}

	m := satCollide(a, a.Shapes[0], b, b.Shapes[0])
	if m == nil {
		t.Fatalf("expected overlapping circles to produce a manifold")
	}
	if len(m.points) != 1 {
		t.Fatalf("expected exactly one circle-circle contact point, got %d", len(m.points))
	}
	if !m.normal.Aeq(fmath.V2{X: 1, Y: 0}) {
		t.Fatalf("expected normal pointing from a to b along +X, got %v", m.normal)
	}
	if want := 0.5; !fmath.Aeq(m.points[0].penetration, want) {
		t.Fatalf("expected penetration %v, got %v", want, m.points[0].penetration)
	}
}

func TestCircleCircleSeparatedProducesNoManifold(t *testing.T) {
	a := NewBody(1, NewCircle(1))
	b := NewBody(1, NewCircle(1))
	b.Transform.Pos = fmath.V2{X: 10, Y: 0}

	if m := satCollide(a, a.Shapes[0], b, b.Shapes[0]); m != nil {
		t.Fatalf("expected no manifold for separated circles, got %+v", m)
	}
}

func TestBoxBoxOverlapProducesManifoldWithTwoPoints(t *testing.T) {
	a := NewBody(1, NewBox(1, 1))
	b := NewBody(1, NewBox(1, 1))
	b.Transform.Pos = fmath.V2{X: 1.5, Y: 0}

	m := satCollide(a, a.Shapes[0], b, b.Shapes[0])
	if m == nil {
		t.Fatalf("expected overlapping boxes to produce a manifold")
	}
	if len(m.points) != 2 {
		t.Fatalf("expected two clipped contact points for face-to-face boxes, got %d", len(m.points))
	}
	for _, p := range m.points {
		if p.penetration <= 0 {
			t.Fatalf("expected positive penetration for every contact point, got %v", p.penetration)
		}
	}
}

func TestBoxBoxSeparatedProducesNoManifold(t *testing.T) {
	a := NewBody(1, NewBox(1, 1))
	b := NewBody(1, NewBox(1, 1))
	b.Transform.Pos = fmath.V2{X: 100, Y: 0}

	if m := satCollide(a, a.Shapes[0], b, b.Shapes[0]); m != nil {
		t.Fatalf("expected no manifold for separated boxes, got %+v", m)
	}
}

func TestBoxCircleOverlapProducesManifold(t *testing.T) {
	a := NewBody(1, NewBox(1, 1))
	b := NewBody(1, NewCircle(1))
	b.Transform.Pos = fmath.V2{X: 1.5, Y: 0}

	m := satCollide(a, a.Shapes[0], b, b.Shapes[0])
	if m == nil {
		t.Fatalf("expected an overlapping box/circle pair to produce a manifold")
	}
	if len(m.points) == 0 {
		t.Fatalf("expected at least one contact point for box/circle overlap")
	}
}

func TestMaxSeparationFindsFurthestEdge(t *testing.T) {
	box := NewBox(1, 1)
	verts := box.WorldVertices(fmath.Identity(), fmath.V2{X: 1})
	normals := WorldEdgeNormals(verts)

	other := []fmath.V2{{X: 5, Y: 0}}
	best, face := maxSeparation(verts, normals, other)
	if best <= 0 {
		t.Fatalf("expected a positive separation for a point far outside the box, got %v", best)
	}
	// the +X edge (index 1, between (1,-1) and (1,1)) should be the one
	// reporting the largest separation toward a point at (5,0).
	if face != 1 {
		t.Fatalf("expected face 1 (the +X edge) to report max separation, got %d", face)
	}
}

func TestClipSegmentKeepsPointsInsideHalfPlane(t *testing.T) {
	points := []fmath.V2{{X: -2, Y: 0}, {X: 2, Y: 0}}
	out := clipSegment(points, fmath.V2{X: 1, Y: 0}, 0)
	if len(out) != 2 {
		t.Fatalf("expected clipping to produce 2 points (one kept, one interpolated), got %d", len(out))
	}
	for _, p := range out {
		if p.X > fmath.Epsilon {
			t.Fatalf("expected every clipped point to satisfy x<=0, got %v", p)
		}
	}
}
