// Copyright © 2024 Forge Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package forge

import "github.com/gazed/forge/physics"

// handler.go is the dense object arena: an id-allocator-backed map
// offering O(1) lookup by packed id and safe recycling of freed slots.
type Handler struct {
	diag  *Diagnostics
	ids   *idAllocator // server-assigned, positive ids.
	local *idAllocator // client-assigned, negated to produce negative ids.

	objects map[int32]*Object
	order   []int32 // insertion order, for stable iteration.

	world *physics.World // optional; nil if this handler has no physics.
}

// NewHandler builds an empty Handler. diag may be nil. world may be nil
// if objects added to this handler never carry physics bodies.
func NewHandler(diag *Diagnostics, world *physics.World) *Handler {
	return &Handler{
		diag:    diag,
		ids:     newIDAllocator(diag),
		local:   newIDAllocator(diag),
		objects: map[int32]*Object{},
		world:   world,
	}
}

// NewWorld builds a physics.World with its degenerate-contact and
// constraint-break events wired to diag, so ErrPhysicsDegenerate and
// ErrConstraintBroke are actually surfaced rather than only documented.
// Callers that need the raw physics.World without diagnostics can still
// call physics.NewWorld directly.
func NewWorld(diag *Diagnostics, opts ...physics.Option) *physics.World {
	opts = append(opts,
		physics.OnDegenerate(func(a, b *physics.Body) {
			diag.Warn("degenerate contact skipped", "err", ErrPhysicsDegenerate)
		}),
		physics.OnConstraintBroke(func(a, b *physics.Body, impulse float64) {
			diag.Warn("constraint broke", "err", ErrConstraintBroke, "impulse", impulse)
		}),
	)
	return physics.NewWorld(opts...)
}

// Add creates a new, server-assigned (positive id) object.
func (h *Handler) Add() *Object {
	id := h.ids.create()
	o := newObject(h, id)
	h.objects[id] = o
	h.order = append(h.order, id)
	return o
}

// AddLocal creates a new, client-assigned (negative id) object that is
// never sent upstream.
func (h *Handler) AddLocal() *Object {
	id := -h.local.create()
	o := newObject(h, id)
	h.objects[id] = o
	h.order = append(h.order, id)
	return o
}

// AddWithID inserts an object under an id already assigned elsewhere
// (the client side creating a mirror of a server-assigned object from
// an ObjectSpawn record).
func (h *Handler) AddWithID(id int32) *Object {
	o := newObject(h, id)
	h.objects[id] = o
	h.order = append(h.order, id)
	return o
}

// Lookup returns the object for id, or false if id does not currently
// name a live object.
func (h *Handler) Lookup(id int32) (*Object, bool) {
	o, ok := h.objects[id]
	return o, ok
}

// Remove deactivates and discards the object for id. Its physics body,
// if any, is removed from the world; its id is returned to the
// allocator it came from so the slot may be recycled.
func (h *Handler) Remove(id int32) {
	o, ok := h.objects[id]
	if !ok {
		return
	}
	if o.body != nil && h.world != nil {
		h.world.Remove(o.body)
	}
	delete(h.objects, id)
	for i, oid := range h.order {
		if oid == id {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
	if id > 0 {
		h.ids.dispose(id)
	} else {
		h.local.dispose(-id)
	}
}

// Count returns the number of live objects.
func (h *Handler) Count() int { return len(h.objects) }

// Each calls fn for every live object in stable insertion order,
// stopping early if fn returns false.
func (h *Handler) Each(fn func(o *Object) bool) {
	for _, id := range h.order {
		o, ok := h.objects[id]
		if !ok {
			continue
		}
		if !fn(o) {
			return
		}
	}
}

// World returns the handler's physics world, or nil.
func (h *Handler) World() *physics.World { return h.world }
