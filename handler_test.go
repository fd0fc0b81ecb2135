// Copyright © 2024 Forge Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package forge

import (
	"testing"

	"github.com/gazed/forge/physics"
)

func TestHandlerAddAssignsPositiveIDs(t *testing.T) {
	h := NewHandler(nil, nil)
	a := h.Add()
	b := h.Add()
	if a.ID() <= 0 || b.ID() <= 0 {
		t.Fatalf("expected positive ids, got %d, %d", a.ID(), b.ID())
	}
	if a.ID() == b.ID() {
		t.Fatalf("expected unique ids")
	}
}

func TestHandlerAddLocalAssignsNegativeIDs(t *testing.T) {
	h := NewHandler(nil, nil)
	o := h.AddLocal()
	if o.ID() >= 0 {
		t.Fatalf("expected a negative local id, got %d", o.ID())
	}
}

func TestHandlerAddWithIDUsesGivenID(t *testing.T) {
	h := NewHandler(nil, nil)
	o := h.AddWithID(42)
	if o.ID() != 42 {
		t.Fatalf("expected id 42, got %d", o.ID())
	}
	got, ok := h.Lookup(42)
	if !ok || got != o {
		t.Fatalf("lookup(42) should return the same object")
	}
}

func TestHandlerLookupMissing(t *testing.T) {
	h := NewHandler(nil, nil)
	if _, ok := h.Lookup(123); ok {
		t.Fatalf("expected lookup of unknown id to fail")
	}
}

func TestHandlerRemoveDropsObjectAndRecyclesID(t *testing.T) {
	h := NewHandler(nil, nil)
	o := h.Add()
	id := o.ID()
	h.Remove(id)

	if _, ok := h.Lookup(id); ok {
		t.Fatalf("expected object to be gone after Remove")
	}
	if h.Count() != 0 {
		t.Fatalf("expected empty handler, got count %d", h.Count())
	}
}

func TestHandlerRemoveDetachesPhysicsBody(t *testing.T) {
	w := physics.NewWorld()
	h := NewHandler(nil, w)
	o := h.Add()
	o.SetBody(physics.NewBody(1, physics.NewCircle(1)))

	if len(w.Bodies()) != 1 {
		t.Fatalf("expected body registered with world")
	}
	h.Remove(o.ID())
	if len(w.Bodies()) != 0 {
		t.Fatalf("expected body removed from world after handler.Remove, got %d", len(w.Bodies()))
	}
}

func TestHandlerEachStableInsertionOrder(t *testing.T) {
	h := NewHandler(nil, nil)
	var ids []int32
	for i := 0; i < 5; i++ {
		ids = append(ids, h.Add().ID())
	}

	var seen []int32
	h.Each(func(o *Object) bool {
		seen = append(seen, o.ID())
		return true
	})
	if len(seen) != len(ids) {
		t.Fatalf("expected %d objects, saw %d", len(ids), len(seen))
	}
	for i := range ids {
		if seen[i] != ids[i] {
			t.Fatalf("expected insertion order %v, got %v", ids, seen)
		}
	}
}

func TestHandlerEachStopsEarly(t *testing.T) {
	h := NewHandler(nil, nil)
	for i := 0; i < 5; i++ {
		h.Add()
	}
	count := 0
	h.Each(func(o *Object) bool {
		count++
		return count < 2
	})
	if count != 2 {
		t.Fatalf("expected Each to stop after 2 calls, got %d", count)
	}
}

func TestHandlerCountTracksAddAndRemove(t *testing.T) {
	h := NewHandler(nil, nil)
	a := h.Add()
	h.Add()
	if h.Count() != 2 {
		t.Fatalf("expected count 2, got %d", h.Count())
	}
	h.Remove(a.ID())
	if h.Count() != 1 {
		t.Fatalf("expected count 1 after remove, got %d", h.Count())
	}
}
