// Copyright © 2024 Forge Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package forge

import fmath "github.com/gazed/forge/math"

// strategy.go implements the pluggable update-strategy capability: a
// capability bound to an object that knows how to (a) serialize its
// owned fields into a delta or full update, (b) apply an incoming
// update back onto the object, and (c) declare which of its fields
// belong in a full-state snapshot.
//
// A capability table is used over a tagged enum because strategies
// must compose in an ordinal list that application code can extend
// with its own kinds (custom keyed fields), not just select among
// library-provided ones - small interfaces over closed enums.
type UpdateStrategy interface {
	// Name identifies the strategy, primarily for diagnostics.
	Name() string

	// CollectDelta appends an entry to out for each field this
	// strategy owns that is present in dirty.
	CollectDelta(o *Object, dirty map[string]struct{}, out map[string]FieldValue)

	// CollectFull appends an entry to out for each field this strategy
	// includes in a full-state snapshot.
	CollectFull(o *Object, out map[string]FieldValue)

	// Apply consumes any fields this strategy recognizes from in,
	// writing them onto o. Fields it does not own are left untouched.
	Apply(o *Object, in map[string]FieldValue)
}

// TransformStrategy owns position, rotation, scale, velocity,
// angularVelocity, visible, interpolate, layers and parent - the
// baseline fields every replicated object carries. It is typically the
// last strategy registered so flag strategies like AlwaysLoadedStrategy
// can run first.
type TransformStrategy struct{}

func (TransformStrategy) Name() string { return "transform" }

func (TransformStrategy) CollectDelta(o *Object, dirty map[string]struct{}, out map[string]FieldValue) {
	put := func(name string, v FieldValue) {
		if _, ok := dirty[name]; ok {
			out[name] = v
		}
	}
	put("position", VectorValue(o.local.Pos))
	put("rotation", RotationValue(o.local.Rot))
	put("scale", VectorValue(o.local.Scale))
	put("velocity", VectorValue(o.velocity))
	put("angularVelocity", ScalarValue(o.angularVelocity))
	put("visible", BoolValue(o.visible))
	put("interpolate", BoolValue(o.interpolate))
	if _, ok := dirty["layers"]; ok {
		out["layers"] = LayerListValue(o.layers)
	}
	if _, ok := dirty["parent"]; ok {
		if o.parentID == 0 {
			out["parent"] = NoIDRefValue()
		} else {
			out["parent"] = IDRefValue(o.parentID)
		}
	}
}

func (s TransformStrategy) CollectFull(o *Object, out map[string]FieldValue) {
	out["position"] = VectorValue(o.local.Pos)
	out["rotation"] = RotationValue(o.local.Rot)
	out["scale"] = VectorValue(o.local.Scale)
	out["velocity"] = VectorValue(o.velocity)
	out["angularVelocity"] = ScalarValue(o.angularVelocity)
	out["visible"] = BoolValue(o.visible)
	out["interpolate"] = BoolValue(o.interpolate)
	out["layers"] = LayerListValue(o.layers)
	if o.parentID == 0 {
		out["parent"] = NoIDRefValue()
	} else {
		out["parent"] = IDRefValue(o.parentID)
	}
}

func (TransformStrategy) Apply(o *Object, in map[string]FieldValue) {
	if v, ok := in["position"]; ok && v.Kind == FieldVector {
		o.local.Pos = v.Vector
	}
	if v, ok := in["rotation"]; ok && v.Kind == FieldRotation {
		o.local.Rot = fmath.Nang(v.Rotation)
	}
	if v, ok := in["scale"]; ok && v.Kind == FieldVector {
		o.local.Scale = v.Vector
	}
	if v, ok := in["velocity"]; ok && v.Kind == FieldVector {
		o.velocity = v.Vector
	}
	if v, ok := in["angularVelocity"]; ok && v.Kind == FieldScalar {
		o.angularVelocity = v.Scalar
	}
	if v, ok := in["visible"]; ok && v.Kind == FieldBool {
		o.visible = v.Bool
	}
	if v, ok := in["interpolate"]; ok && v.Kind == FieldBool {
		o.interpolate = v.Bool
	}
	if v, ok := in["layers"]; ok && v.Kind == FieldLayerList {
		o.layers = append([]int32(nil), v.Layers...)
	}
	if v, ok := in["parent"]; ok && v.Kind == FieldIDRef {
		if v.HasIDRef {
			o.parentID = v.IDRef
		} else {
			o.parentID = 0
		}
	}
}

// AlwaysLoadedStrategy owns the alwaysLoaded flag: some objects - e.g.
// world boundaries, score state - bypass range-based unloading.
// Register it ahead of TransformStrategy so replication's
// loadedness decision for an object is settled using the flag's
// up-to-date value in the same tick.
type AlwaysLoadedStrategy struct{}

func (AlwaysLoadedStrategy) Name() string { return "alwaysLoaded" }

func (AlwaysLoadedStrategy) CollectDelta(o *Object, dirty map[string]struct{}, out map[string]FieldValue) {
	if _, ok := dirty["alwaysLoaded"]; ok {
		out["alwaysLoaded"] = BoolValue(o.alwaysLoaded)
	}
}

func (AlwaysLoadedStrategy) CollectFull(o *Object, out map[string]FieldValue) {
	out["alwaysLoaded"] = BoolValue(o.alwaysLoaded)
}

func (AlwaysLoadedStrategy) Apply(o *Object, in map[string]FieldValue) {
	if v, ok := in["alwaysLoaded"]; ok && v.Kind == FieldBool {
		o.alwaysLoaded = v.Bool
	}
}

// DrawStrategy owns the drawable field: an opaque texture-name plus
// offset descriptor forwarded to the out-of-scope rendering
// collaborator untouched.
type DrawStrategy struct{}

func (DrawStrategy) Name() string { return "draw" }

func (DrawStrategy) CollectDelta(o *Object, dirty map[string]struct{}, out map[string]FieldValue) {
	if _, ok := dirty["drawable"]; ok {
		if v, ok := o.custom["drawable"]; ok {
			out["drawable"] = v
		}
	}
}

func (DrawStrategy) CollectFull(o *Object, out map[string]FieldValue) {
	if v, ok := o.custom["drawable"]; ok {
		out["drawable"] = v
	}
}

func (DrawStrategy) Apply(o *Object, in map[string]FieldValue) {
	if v, ok := in["drawable"]; ok && v.Kind == FieldDrawable {
		o.setCustomRaw("drawable", v)
	}
}

// KeyedStrategy is the extension point for application-defined fields:
// it owns an arbitrary set of names, reading and writing them through
// Object's generic custom-property map, so application code can add
// fields without the core knowing their meaning.
type KeyedStrategy struct {
	// Keys lists the field names this strategy owns. IncludeFull marks
	// which of them belong in a full-state snapshot.
	Keys        []string
	IncludeFull map[string]bool
}

// NewKeyedStrategy builds a KeyedStrategy owning keys, all included in
// full-state snapshots.
func NewKeyedStrategy(keys ...string) *KeyedStrategy {
	include := make(map[string]bool, len(keys))
	for _, k := range keys {
		include[k] = true
	}
	return &KeyedStrategy{Keys: keys, IncludeFull: include}
}

func (s *KeyedStrategy) Name() string { return "keyed" }

func (s *KeyedStrategy) CollectDelta(o *Object, dirty map[string]struct{}, out map[string]FieldValue) {
	for _, k := range s.Keys {
		if _, ok := dirty[k]; !ok {
			continue
		}
		if v, ok := o.custom[k]; ok {
			out[k] = v
		}
	}
}

func (s *KeyedStrategy) CollectFull(o *Object, out map[string]FieldValue) {
	for _, k := range s.Keys {
		if !s.IncludeFull[k] {
			continue
		}
		if v, ok := o.custom[k]; ok {
			out[k] = v
		}
	}
}

func (s *KeyedStrategy) Apply(o *Object, in map[string]FieldValue) {
	for _, k := range s.Keys {
		if v, ok := in[k]; ok {
			o.setCustomRaw(k, v)
		}
	}
}
