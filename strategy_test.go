// Copyright © 2024 Forge Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package forge

import (
	"testing"

	"github.com/gazed/forge/math"
)

func TestAlwaysLoadedStrategyRoundTrip(t *testing.T) {
	h := NewHandler(nil, nil)
	o := h.Add()
	o.AddStrategy(AlwaysLoadedStrategy{})

	o.SetAlwaysLoaded(true)
	o.SnapshotDirty()
	delta, ok := o.CollectDelta()
	if !ok {
		t.Fatalf("expected a delta after SetAlwaysLoaded")
	}
	v, ok := delta.Fields["alwaysLoaded"]
	if !ok || v.Bool != true {
		t.Fatalf("expected alwaysLoaded=true in delta, got %+v", delta.Fields)
	}

	full := o.CollectFull()
	if _, ok := full.Fields["alwaysLoaded"]; !ok {
		t.Fatalf("expected alwaysLoaded in full snapshot")
	}

	other := h.Add()
	other.AddStrategy(AlwaysLoadedStrategy{})
	other.Apply(full)
	if !other.AlwaysLoaded() {
		t.Fatalf("expected Apply to set alwaysLoaded true")
	}
}

func TestDrawStrategyRoundTrip(t *testing.T) {
	h := NewHandler(nil, nil)
	o := h.Add()
	o.AddStrategy(DrawStrategy{})

	d := DrawableDescriptor{Name: "ship.png", Offset: math.V2{X: 1, Y: 2}, RotationOffset: 0.5}
	o.SetCustom("drawable", DrawableValue(d))
	o.SnapshotDirty()

	delta, ok := o.CollectDelta()
	if !ok {
		t.Fatalf("expected a delta after SetCustom drawable")
	}
	v, ok := delta.Fields["drawable"]
	if !ok || v.Drawable.Name != "ship.png" {
		t.Fatalf("expected drawable field, got %+v", delta.Fields)
	}

	other := h.Add()
	other.AddStrategy(DrawStrategy{})
	other.Apply(ObjectUpdate{Fields: map[string]FieldValue{"drawable": DrawableValue(d)}})
	got, ok := other.Custom("drawable")
	if !ok || got.Drawable.Name != "ship.png" {
		t.Fatalf("expected Apply to set drawable, got %+v", got)
	}
}

func TestKeyedStrategyOwnsOnlyItsKeys(t *testing.T) {
	h := NewHandler(nil, nil)
	o := h.Add()
	s := NewKeyedStrategy("health", "score")
	o.AddStrategy(s)

	o.SetCustom("health", ScalarValue(100))
	o.SetCustom("unrelated", ScalarValue(1))
	o.SnapshotDirty()

	delta, ok := o.CollectDelta()
	if !ok {
		t.Fatalf("expected a delta")
	}
	if _, ok := delta.Fields["health"]; !ok {
		t.Fatalf("expected health in delta")
	}
	if _, ok := delta.Fields["unrelated"]; ok {
		t.Fatalf("keyed strategy must not emit fields outside its Keys list")
	}

	full := o.CollectFull()
	if _, ok := full.Fields["health"]; !ok {
		t.Fatalf("expected health in full snapshot")
	}
	if _, ok := full.Fields["score"]; ok {
		t.Fatalf("score was never set, should be absent from full snapshot")
	}
}

func TestKeyedStrategyIncludeFullFiltersUnsetKeys(t *testing.T) {
	s := NewKeyedStrategy("a", "b")
	s.IncludeFull["b"] = false

	o := newObject(nil, 1)
	o.AddStrategy(s)
	o.setCustomRaw("a", ScalarValue(1))
	o.setCustomRaw("b", ScalarValue(2))

	out := map[string]FieldValue{}
	s.CollectFull(o, out)
	if _, ok := out["a"]; !ok {
		t.Fatalf("expected 'a' in full snapshot")
	}
	if _, ok := out["b"]; ok {
		t.Fatalf("'b' has IncludeFull=false, should be excluded")
	}
}

func TestTransformStrategyIgnoresMismatchedFieldKind(t *testing.T) {
	o := newObject(nil, 1)
	o.AddStrategy(TransformStrategy{})
	// Apply with a mismatched kind for "position" must not panic or
	// corrupt state; the strategy should leave the field untouched.
	o.Apply(ObjectUpdate{Fields: map[string]FieldValue{"position": ScalarValue(5)}})
	if !o.Position().Eq(math.V2{}) {
		t.Fatalf("expected position unchanged on kind mismatch, got %v", o.Position())
	}
}
