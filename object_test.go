// Copyright © 2024 Forge Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package forge

import (
	"testing"

	"github.com/gazed/forge/math"
)

func TestObjectSetPositionMarksDirtyOnce(t *testing.T) {
	h := NewHandler(nil, nil)
	o := h.Add()
	o.AddStrategy(TransformStrategy{})

	o.SetPosition(math.V2{X: 1, Y: 2})
	o.SetPosition(math.V2{X: 1, Y: 2}) // no-op, same value.

	if _, ok := o.dirty["position"]; !ok {
		t.Fatalf("expected position dirty")
	}
	if len(o.dirty) != 1 {
		t.Fatalf("expected exactly one dirty field, got %d", len(o.dirty))
	}
}

func TestObjectSnapshotDirtyClearsAccumulator(t *testing.T) {
	o := newObject(nil, 1)
	o.MarkDirty("position")

	snap := o.SnapshotDirty()
	if _, ok := snap["position"]; !ok {
		t.Fatalf("snapshot missing position")
	}
	if len(o.dirty) != 0 {
		t.Fatalf("dirty set should be empty after snapshot, got %v", o.dirty)
	}

	o.MarkDirty("rotation")
	snap2 := o.SnapshotDirty()
	if _, ok := snap2["position"]; ok {
		t.Fatalf("stale field leaked into second snapshot")
	}
	if _, ok := snap2["rotation"]; !ok {
		t.Fatalf("second snapshot missing rotation")
	}
}

func TestObjectCollectDeltaEmptyWhenNothingChanged(t *testing.T) {
	h := NewHandler(nil, nil)
	o := h.Add()
	o.AddStrategy(TransformStrategy{})
	o.SnapshotDirty()

	_, ok := o.CollectDelta()
	if ok {
		t.Fatalf("expected no delta when nothing changed")
	}
}

func TestObjectCollectDeltaAfterSetPosition(t *testing.T) {
	h := NewHandler(nil, nil)
	o := h.Add()
	o.AddStrategy(TransformStrategy{})

	o.SetPosition(math.V2{X: 3, Y: 4})
	o.SnapshotDirty()

	update, ok := o.CollectDelta()
	if !ok {
		t.Fatalf("expected a delta")
	}
	v, ok := update.Fields["position"]
	if !ok || !v.Vector.Eq(math.V2{X: 3, Y: 4}) {
		t.Fatalf("expected position field (3,4), got %+v", v)
	}
	if _, ok := update.Fields["rotation"]; ok {
		t.Fatalf("unchanged field rotation should not appear in delta")
	}
}

func TestObjectCollectFullIncludesEverything(t *testing.T) {
	h := NewHandler(nil, nil)
	o := h.Add()
	o.AddStrategy(TransformStrategy{})
	o.SetPosition(math.V2{X: 1, Y: 1})

	full := o.CollectFull()
	for _, name := range []string{"position", "rotation", "scale", "velocity", "angularVelocity", "visible", "interpolate", "layers", "parent"} {
		if _, ok := full.Fields[name]; !ok {
			t.Fatalf("full snapshot missing field %q", name)
		}
	}
}

func TestObjectApplyRoundTrip(t *testing.T) {
	h := NewHandler(nil, nil)
	a := h.Add()
	a.AddStrategy(TransformStrategy{})
	a.SetPosition(math.V2{X: 5, Y: 6})
	a.SetRotation(1.25)
	a.SnapshotDirty()
	full := a.CollectFull()

	b := h.Add()
	b.AddStrategy(TransformStrategy{})
	b.Apply(full)

	if !b.Position().Eq(math.V2{X: 5, Y: 6}) {
		t.Fatalf("expected applied position (5,6), got %v", b.Position())
	}
	if b.Rotation() != 1.25 {
		t.Fatalf("expected applied rotation 1.25, got %v", b.Rotation())
	}
}

func TestSetParentRejectsSelfParent(t *testing.T) {
	h := NewHandler(nil, nil)
	o := h.Add()
	if err := o.SetParent(o.ID(), false); err != ErrParentCycle {
		t.Fatalf("expected ErrParentCycle for self-parent, got %v", err)
	}
}

func TestSetParentRejectsCycle(t *testing.T) {
	h := NewHandler(nil, nil)
	a := h.Add()
	b := h.Add()
	c := h.Add()

	if err := b.SetParent(a.ID(), false); err != nil {
		t.Fatalf("b->a parent failed: %v", err)
	}
	if err := c.SetParent(b.ID(), false); err != nil {
		t.Fatalf("c->b parent failed: %v", err)
	}
	if err := a.SetParent(c.ID(), false); err != ErrParentCycle {
		t.Fatalf("expected ErrParentCycle making a a child of its own descendant c, got %v", err)
	}
	if a.ParentID() != 0 {
		t.Fatalf("rejected reparent must leave parent unchanged, got %d", a.ParentID())
	}
}

func TestRealTransformComposesThroughParent(t *testing.T) {
	h := NewHandler(nil, nil)
	parent := h.Add()
	parent.SetPosition(math.V2{X: 10, Y: 0})
	parent.SetRotation(math.Pi / 2)

	child := h.Add()
	child.SetPosition(math.V2{X: 1, Y: 0})
	if err := child.SetParent(parent.ID(), false); err != nil {
		t.Fatalf("SetParent failed: %v", err)
	}

	real := child.RealPosition()
	if !real.Aeq(math.V2{X: 10, Y: 1}) {
		t.Fatalf("expected real position ~(10,1), got %v", real)
	}
}

func TestRealTransformRetriesUnresolvedParent(t *testing.T) {
	h := NewHandler(nil, nil)
	child := h.Add()
	child.SetPosition(math.V2{X: 2, Y: 0})
	child.parentID = 999 // references an object not yet added.

	if real := child.RealPosition(); !real.Eq(math.V2{X: 2, Y: 0}) {
		t.Fatalf("with an unresolved parent, real position should fall back to local, got %v", real)
	}

	parent := h.AddWithID(999)
	parent.SetPosition(math.V2{X: 5, Y: 5})

	real := child.RealPosition()
	if !real.Eq(math.V2{X: 7, Y: 5}) {
		t.Fatalf("expected parent to resolve once added, got %v", real)
	}
}

func TestBoundingRadiusZeroWithoutBody(t *testing.T) {
	o := newObject(nil, 1)
	if o.BoundingRadius() != 0 {
		t.Fatalf("expected 0 bounding radius without a body")
	}
}
