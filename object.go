// Copyright © 2024 Forge Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package forge

// object.go is the authoritative unit of simulation and replication: a
// parent-relative 2D transform, a dirty-field accumulator, and a
// strategy-composed field set, reduced from a 3D quaternion scene graph
// with per-node dirty flags to a flat, dirty-tracked, strategy-composed
// Object.

import (
	"github.com/gazed/forge/math"
	"github.com/gazed/forge/physics"
)

// Object is the unit of simulation and replication. Invariants enforced
// here:
//   - id is immutable after first assignment (no setter is exposed).
//   - the dirty set is append-only within a tick, cleared atomically by
//     SnapshotDirty.
//   - exactly one Handler owns an object; membership transitions go
//     through Handler.Add/Handler.Remove, never by assigning o.handler.
type Object struct {
	id      int32
	handler *Handler // owning handler; back-pointer, non-owning.
	class   string    // client-side class name carried by SPAWN.

	local math.Transform // parent-relative transform.

	velocity        math.V2
	angularVelocity float64

	visible     bool
	interpolate bool
	layers      []int32

	parentID       int32 // 0 = no parent.
	wantedParentID int32 // set when parentID refers to an object not yet resolvable.

	// Replication visibility.
	serverOnly   bool
	alwaysLoaded bool
	includeList  map[int32]bool
	excludeList  map[int32]bool

	dirty    map[string]struct{} // accumulating this tick.
	snapshot map[string]struct{} // captured by the last SnapshotDirty.

	strategies []UpdateStrategy
	custom     map[string]FieldValue // generic strategy-owned properties.

	body *physics.Body // optional physics body.
}

// newObject constructs an Object owned by h with the given id. Objects
// are only ever created through Handler.Add/Handler.AddLocal/
// Handler.AddWithID.
func newObject(h *Handler, id int32) *Object {
	return &Object{
		id:       id,
		handler:  h,
		local:    math.Identity(),
		visible:  true,
		dirty:    map[string]struct{}{},
		snapshot: map[string]struct{}{},
	}
}

// ID returns the object's stable, immutable identifier.
func (o *Object) ID() int32 { return o.id }

// Handler returns the owning handler.
func (o *Object) Handler() *Handler { return o.handler }

// Class returns the client-side class name sent with this object's
// SPAWN record. It is set once, at creation, and is never part of the
// dirty-tracked field set.
func (o *Object) Class() string { return o.class }

// SetClass sets the client-side class name. Typically called once,
// immediately after Handler.Add, before the object is first replicated.
func (o *Object) SetClass(class string) { o.class = class }

// BoundingRadius returns the object's physics-body bounding radius
// (the farthest any attached shape's silhouette reaches from the
// body's origin), or 0 if the object carries no body. Used by
// replication's in-range test.
func (o *Object) BoundingRadius() float64 {
	if o.body == nil {
		return 0
	}
	return o.body.BoundingRadius()
}

// --- plain field getters -----------------------------------------------

func (o *Object) Position() math.V2        { return o.local.Pos }
func (o *Object) Rotation() float64        { return o.local.Rot }
func (o *Object) Scale() math.V2           { return o.local.Scale }
func (o *Object) Velocity() math.V2        { return o.velocity }
func (o *Object) AngularVelocity() float64 { return o.angularVelocity }
func (o *Object) Visible() bool            { return o.visible }
func (o *Object) Interpolate() bool        { return o.interpolate }
func (o *Object) Layers() []int32          { return o.layers }
func (o *Object) ServerOnly() bool         { return o.serverOnly }
func (o *Object) AlwaysLoaded() bool       { return o.alwaysLoaded }
func (o *Object) ParentID() int32          { return o.parentID }
func (o *Object) Body() *physics.Body      { return o.body }

// --- setters: pure-local, they never send; they only mark fields dirty -

// SetPosition writes the local position if it differs from the current
// value, marking "position" dirty.
func (o *Object) SetPosition(p math.V2) {
	if o.local.Pos.Eq(p) {
		return
	}
	o.local.Pos = p
	o.MarkDirty("position")
}

// SetRotation writes the local rotation (radians) if it differs.
func (o *Object) SetRotation(radians float64) {
	radians = math.Nang(radians)
	if o.local.Rot == radians {
		return
	}
	o.local.Rot = radians
	o.MarkDirty("rotation")
}

// SetScale writes the local scale if it differs. The default scale is
// (1,1).
func (o *Object) SetScale(s math.V2) {
	if o.local.Scale.Eq(s) {
		return
	}
	o.local.Scale = s
	o.MarkDirty("scale")
}

// SetVelocity writes the linear velocity if it differs.
func (o *Object) SetVelocity(v math.V2) {
	if o.velocity.Eq(v) {
		return
	}
	o.velocity = v
	o.MarkDirty("velocity")
}

// SetAngularVelocity writes the angular velocity (radians/sec) if it differs.
func (o *Object) SetAngularVelocity(w float64) {
	if o.angularVelocity == w {
		return
	}
	o.angularVelocity = w
	o.MarkDirty("angularVelocity")
}

// SetVisible writes the visibility flag if it differs.
func (o *Object) SetVisible(v bool) {
	if o.visible == v {
		return
	}
	o.visible = v
	o.MarkDirty("visible")
}

// SetInterpolate writes the interpolate flag if it differs.
func (o *Object) SetInterpolate(v bool) {
	if o.interpolate == v {
		return
	}
	o.interpolate = v
	o.MarkDirty("interpolate")
}

// SetLayers writes the ordered draw-layer index list if it differs.
func (o *Object) SetLayers(layers []int32) {
	if equalInt32s(o.layers, layers) {
		return
	}
	o.layers = append([]int32(nil), layers...)
	o.MarkDirty("layers")
}

// SetServerOnly writes the server-only replication flag if it differs.
func (o *Object) SetServerOnly(v bool) {
	if o.serverOnly == v {
		return
	}
	o.serverOnly = v
	o.MarkDirty("serverOnly")
}

// SetAlwaysLoaded writes the always-loaded replication flag if it
// differs. Strategy order matters here: an always-loaded strategy is
// typically registered ahead of the transform strategy so replication
// can decide loadedness before position is considered.
func (o *Object) SetAlwaysLoaded(v bool) {
	if o.alwaysLoaded == v {
		return
	}
	o.alwaysLoaded = v
	o.MarkDirty("alwaysLoaded")
}

// IncludeFor reports whether object's include-list (if any) contains c.
func (o *Object) IncludeFor(c int32) bool { return o.includeList != nil && o.includeList[c] }

// HasIncludeList reports whether an include-list is configured at all.
func (o *Object) HasIncludeList() bool { return len(o.includeList) > 0 }

// SetInclude adds c to the object's include-list.
func (o *Object) SetInclude(c int32) {
	if o.includeList == nil {
		o.includeList = map[int32]bool{}
	}
	o.includeList[c] = true
}

// ExcludeFor reports whether object's exclude-list (if any) contains c.
func (o *Object) ExcludeFor(c int32) bool { return o.excludeList != nil && o.excludeList[c] }

// HasExcludeList reports whether an exclude-list is configured at all.
func (o *Object) HasExcludeList() bool { return len(o.excludeList) > 0 }

// SetExclude adds c to the object's exclude-list.
func (o *Object) SetExclude(c int32) {
	if o.excludeList == nil {
		o.excludeList = map[int32]bool{}
	}
	o.excludeList[c] = true
}

// SetBody attaches a physics body to the object, registering it with
// the handler's physics world if the handler has one. A previously
// attached body is first removed from that world; Handler.Remove
// removes the current body from the world.
func (o *Object) SetBody(b *physics.Body) {
	if o.body != nil && o.handler != nil && o.handler.world != nil {
		o.handler.world.Remove(o.body)
	}
	o.body = b
	if o.body != nil && o.handler != nil && o.handler.world != nil {
		o.handler.world.Add(o.body)
	}
}

// --- dirty tracking ------------------------------------------------------

// MarkDirty idempotently adds name to the accumulating dirty set. Used
// directly by update-strategies that own custom fields outside the
// built-in setters above.
func (o *Object) MarkDirty(name string) { o.dirty[name] = struct{}{} }

// SnapshotDirty returns the current dirty set and atomically swaps in
// an empty one. Must be called exactly once per tick per object,
// before replication reads from it.
func (o *Object) SnapshotDirty() map[string]struct{} {
	snap := o.dirty
	o.dirty = map[string]struct{}{}
	o.snapshot = snap
	return snap
}

// --- custom/keyed strategy storage ---------------------------------------

// SetCustom writes a strategy-owned generic property, marking it dirty
// if the value changed. Used by KeyedStrategy-backed properties.
func (o *Object) SetCustom(name string, v FieldValue) {
	if o.custom == nil {
		o.custom = map[string]FieldValue{}
	}
	if existing, ok := o.custom[name]; ok && existing.Equal(v) {
		return
	}
	o.custom[name] = v
	o.MarkDirty(name)
}

// Custom returns a strategy-owned generic property.
func (o *Object) Custom(name string) (FieldValue, bool) {
	v, ok := o.custom[name]
	return v, ok
}

// setCustomRaw writes a custom property without marking it dirty -
// used when applying an incoming UPDATE so the apply does not bounce
// back out as a locally-authored change.
func (o *Object) setCustomRaw(name string, v FieldValue) {
	if o.custom == nil {
		o.custom = map[string]FieldValue{}
	}
	o.custom[name] = v
}

// --- strategies -----------------------------------------------------------

// Strategies returns the object's ordered update-strategy list.
func (o *Object) Strategies() []UpdateStrategy { return o.strategies }

// AddStrategy appends a strategy to the end of the registration order.
// Strategy order matters: the list is processed in registration order
// both for delta/full collection and for apply.
func (o *Object) AddStrategy(s UpdateStrategy) { o.strategies = append(o.strategies, s) }

// CollectDelta iterates strategies in order, collecting fields that are
// both owned by the strategy and present in the last SnapshotDirty
// result. Returns the record and true, or an empty record and false if
// no strategy added anything.
func (o *Object) CollectDelta() (ObjectUpdate, bool) {
	fields := map[string]FieldValue{}
	for _, s := range o.strategies {
		s.CollectDelta(o, o.snapshot, fields)
	}
	if len(fields) == 0 {
		return ObjectUpdate{}, false
	}
	return ObjectUpdate{ID: o.id, Fields: fields}, true
}

// CollectFull iterates strategies in order, collecting every field each
// strategy marks as "include in full".
func (o *Object) CollectFull() ObjectUpdate {
	fields := map[string]FieldValue{}
	for _, s := range o.strategies {
		s.CollectFull(o, fields)
	}
	return ObjectUpdate{ID: o.id, Fields: fields}
}

// Apply iterates strategies in order; each consumes fields it
// recognizes from update.Fields. Fields no strategy recognizes are
// ignored, for forward compatibility.
func (o *Object) Apply(update ObjectUpdate) {
	for _, s := range o.strategies {
		s.Apply(o, update.Fields)
	}
}

// --- parent resolution -----------------------------------------------------

// SetParent sets the object's parent by id. Setting 0 clears the
// parent. A self-parent or a parent assignment that would create a
// cycle is rejected and the current parent is left unchanged.
//
// If keepGlobalTransform is true, the object's local transform is
// adjusted so its real (world) transform is numerically unchanged by
// the reparent.
func (o *Object) SetParent(parentID int32, keepGlobalTransform bool) error {
	if parentID == o.id {
		return ErrParentCycle
	}
	if parentID != 0 && o.handler != nil {
		if parent, ok := o.handler.Lookup(parentID); ok {
			if createsCycle(o.handler, parent, o) {
				return ErrParentCycle
			}
		}
	}
	var before math.Transform
	if keepGlobalTransform {
		before = o.RealTransform()
	}
	o.parentID = parentID
	o.wantedParentID = 0
	if keepGlobalTransform {
		o.local = adjustLocalForReal(o.handler, o, before)
	}
	o.MarkDirty("parent")
	return nil
}

// createsCycle reports whether making candidateParent the parent of
// child would introduce a cycle, by walking candidateParent's ancestor
// chain looking for child.
func createsCycle(h *Handler, candidateParent, child *Object) bool {
	seen := map[int32]bool{}
	cur := candidateParent
	for cur != nil {
		if cur.id == child.id {
			return true
		}
		if seen[cur.id] {
			return true // defensive: an existing cycle, treat as blocking.
		}
		seen[cur.id] = true
		if cur.parentID == 0 {
			break
		}
		next, ok := h.Lookup(cur.parentID)
		if !ok {
			break
		}
		cur = next
	}
	return false
}

// RealPosition returns the object's world-space position, recursively
// resolving through parents.
func (o *Object) RealPosition() math.V2 { return o.RealTransform().Pos }

// RealRotation returns the object's world-space rotation, recursively
// resolving through parents.
func (o *Object) RealRotation() float64 { return o.RealTransform().Rot }

// RealScale returns the object's world-space scale, recursively
// resolving through parents.
func (o *Object) RealScale() math.V2 { return o.RealTransform().Scale }

// RealTransform composes the object's local transform with its
// resolved parent chain. If the parent id is set but not yet
// resolvable, it is retried here and stored as "wanted" until it
// resolves.
func (o *Object) RealTransform() math.Transform {
	if o.parentID == 0 {
		return o.local
	}
	if o.handler == nil {
		return o.local
	}
	parent, ok := o.handler.Lookup(o.parentID)
	if !ok {
		if o.wantedParentID != o.parentID {
			o.handler.diag.Warn("parent unresolved", "err", ErrParentUnresolved, "object", o.id, "parent", o.parentID)
		}
		o.wantedParentID = o.parentID
		return o.local
	}
	o.wantedParentID = 0
	return math.Compose(parent.RealTransform(), o.local)
}

// adjustLocalForReal recomputes the local transform so that, given the
// object's NEW parent, RealTransform() reproduces `want`. Used by
// SetParent(..., keepGlobalTransform=true).
func adjustLocalForReal(h *Handler, o *Object, want math.Transform) math.Transform {
	if o.parentID == 0 || h == nil {
		return want
	}
	parent, ok := h.Lookup(o.parentID)
	if !ok {
		return want
	}
	parentReal := parent.RealTransform()
	// invert parent's composition: local.Pos = (want.Pos - parent.Pos) rotated
	// by -parent.Rot and unscaled by parent.Scale.
	diff := want.Pos.Sub(parentReal.Pos).Rotate(-parentReal.Rot)
	localPos := math.V2{
		X: safeDiv(diff.X, parentReal.Scale.X),
		Y: safeDiv(diff.Y, parentReal.Scale.Y),
	}
	return math.Transform{
		Pos:   localPos,
		Rot:   math.Nang(want.Rot - parentReal.Rot),
		Scale: math.V2{X: safeDiv(want.Scale.X, parentReal.Scale.X), Y: safeDiv(want.Scale.Y, parentReal.Scale.Y)},
	}
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func equalInt32s(a, b []int32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
