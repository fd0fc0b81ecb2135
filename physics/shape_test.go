// Copyright © 2024 Forge Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import (
	"testing"

	fmath "github.com/gazed/forge/math"
)

func TestNewBoxVerticesAreCCWAroundOrigin(t *testing.T) {
	box := NewBox(2, 1)
	if len(box.LocalVertices) != 4 {
		t.Fatalf("expected 4 vertices, got %d", len(box.LocalVertices))
	}
	want := []fmath.V2{{X: -2, Y: -1}, {X: 2, Y: -1}, {X: 2, Y: 1}, {X: -2, Y: 1}}
	for i, v := range want {
		if !box.LocalVertices[i].Eq(v) {
			t.Fatalf("vertex %d: want %v, got %v", i, v, box.LocalVertices[i])
		}
	}
}

func TestShapeWorldVerticesTranslatesByTransform(t *testing.T) {
	box := NewBox(1, 1)
	tr := fmath.Transform{Pos: fmath.V2{X: 5, Y: 5}, Scale: fmath.One}
	verts := box.WorldVertices(tr, fmath.V2{X: 1, Y: 0})
	if !verts[0].Eq(fmath.V2{X: 4, Y: 4}) {
		t.Fatalf("expected first vertex (4,4), got %v", verts[0])
	}
}

func TestCircleWorldVerticesCenteredAtTransform(t *testing.T) {
	c := NewCircle(1)
	tr := fmath.Transform{Pos: fmath.V2{X: 3, Y: 0}, Scale: fmath.One}
	verts := c.WorldVertices(tr, fmath.V2{X: 1, Y: 0})
	if len(verts) != 3 {
		t.Fatalf("expected synthetic triangle with 3 points, got %d", len(verts))
	}
	if !verts[0].Eq(tr.Pos) {
		t.Fatalf("expected first synthetic point to be the circle's center, got %v", verts[0])
	}
}

func TestShapeAABBCircle(t *testing.T) {
	c := NewCircle(2)
	tr := fmath.Transform{Pos: fmath.V2{X: 1, Y: 1}, Scale: fmath.One}
	min, max := c.AABB(tr, 0.1)
	if !min.Eq(fmath.V2{X: -1.1, Y: -1.1}) || !max.Eq(fmath.V2{X: 3.1, Y: 3.1}) {
		t.Fatalf("unexpected circle AABB: min=%v max=%v", min, max)
	}
}

func TestShapeAABBBox(t *testing.T) {
	box := NewBox(1, 2)
	tr := fmath.Identity()
	min, max := box.AABB(tr, 0)
	if !min.Eq(fmath.V2{X: -1, Y: -2}) || !max.Eq(fmath.V2{X: 1, Y: 2}) {
		t.Fatalf("unexpected box AABB: min=%v max=%v", min, max)
	}
}
