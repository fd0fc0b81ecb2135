// Copyright © 2024 Forge Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package forge

import (
	"testing"

	"github.com/gazed/forge/math"
)

func TestUnloadTrackerExpiresOutOfRangeObject(t *testing.T) {
	h := NewHandler(nil, nil)
	o := h.Add()
	o.SetPosition(math.V2{X: 1000, Y: 0}) // far outside any reasonable range.

	cam := Camera{Size: math.V2{X: 10, Y: 10}}
	tr := NewUnloadTracker()

	if expired := tr.Tick(h, cam, 1, 1.0, 0.5); len(expired) != 0 {
		t.Fatalf("expected no expiry before unloadTime elapses, got %v", expired)
	}
	expired := tr.Tick(h, cam, 1, 1.0, 0.6)
	if len(expired) != 1 || expired[0] != o.ID() {
		t.Fatalf("expected object %d to expire, got %v", o.ID(), expired)
	}
}

func TestUnloadTrackerResetsTimerWhenBackInRange(t *testing.T) {
	h := NewHandler(nil, nil)
	o := h.Add()
	o.SetPosition(math.V2{X: 1000, Y: 0})
	cam := Camera{Size: math.V2{X: 10, Y: 10}}
	tr := NewUnloadTracker()

	tr.Tick(h, cam, 1, 1.0, 0.9)
	o.SetPosition(math.V2{X: 0, Y: 0}) // back in range.
	tr.Tick(h, cam, 1, 1.0, 0.9)
	o.SetPosition(math.V2{X: 1000, Y: 0}) // out of range again.

	// The earlier 0.9s should not have carried over once the object
	// came back in range, so a single further 0.9s tick must not expire it.
	expired := tr.Tick(h, cam, 1, 1.0, 0.9)
	if len(expired) != 0 {
		t.Fatalf("expected timer reset on in-range tick, got expiry %v", expired)
	}
}

func TestUnloadTrackerNeverExpiresAlwaysLoaded(t *testing.T) {
	h := NewHandler(nil, nil)
	o := h.Add()
	o.SetPosition(math.V2{X: 1000, Y: 0})
	o.SetAlwaysLoaded(true)
	cam := Camera{Size: math.V2{X: 10, Y: 10}}
	tr := NewUnloadTracker()

	expired := tr.Tick(h, cam, 1, 0.01, 10)
	if len(expired) != 0 {
		t.Fatalf("always-loaded object must never expire, got %v", expired)
	}
}

func TestUnloadTrackerForget(t *testing.T) {
	tr := NewUnloadTracker()
	tr.elapsed[7] = 3.0
	tr.Forget(7)
	if _, ok := tr.elapsed[7]; ok {
		t.Fatalf("expected Forget to drop the tracked timer")
	}
}
