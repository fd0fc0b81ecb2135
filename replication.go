// Copyright © 2024 Forge Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package forge

import (
	"github.com/gazed/forge/math"
	"github.com/gazed/forge/wire"
)

// replication.go implements UpdateClient, the per-tick, per-client
// interest-management pass. It stays in the root package (rather than
// forge/replicate) because it needs direct access to Object/Handler
// internals that forge/replicate, a lower layer the root package
// itself depends on, must not import back.

// UpdateClient runs one interest-management pass over every object in
// h for client c, emitting SPAWN+full UPDATE for newly in-range
// objects, delta UPDATE for already-loaded objects, and REMOVE for
// objects that vanished from the handler. It never unloads an object
// merely because it drifted out of range - that is the client's job,
// acknowledged by UNLOAD_ACK.
func UpdateClient(h *Handler, c *ClientMirror) error {
	stillPresent := map[int32]bool{}

	var err error
	h.Each(func(o *Object) bool {
		stillPresent[o.ID()] = true

		if !visibleTo(o, c.ID) {
			return true
		}
		inRange := o.AlwaysLoaded() || inRangeOf(o, c)
		if !inRange {
			return true
		}
		if c.Loaded[o.ID()] {
			return true
		}
		if sendErr := c.Send(wire.ObjectSpawn{ID: o.ID(), Class: o.Class()}); sendErr != nil {
			err = sendErr
			return false
		}
		full := o.CollectFull()
		if sendErr := c.Send(toWireUpdate(full)); sendErr != nil {
			err = sendErr
			return false
		}
		c.Loaded[o.ID()] = true
		return true
	})
	if err != nil {
		return err
	}

	for id := range c.Loaded {
		o, ok := h.Lookup(id)
		if !ok {
			if sendErr := c.Send(wire.ObjectRemoval{ID: id}); sendErr != nil {
				return sendErr
			}
			delete(c.Loaded, id)
			continue
		}
		if delta, ok := o.CollectDelta(); ok {
			if sendErr := c.Send(toWireUpdate(delta)); sendErr != nil {
				return sendErr
			}
		}
	}
	return nil
}

// visibleTo implements the per-client visibility test.
func visibleTo(o *Object, clientID int32) bool {
	if o.ServerOnly() {
		return false
	}
	if o.HasIncludeList() {
		return o.IncludeFor(clientID)
	}
	if o.HasExcludeList() {
		return !o.ExcludeFor(clientID)
	}
	return true
}

// inRangeOf implements the in-range distance test:
// boundingRadius + camRadius·sendRange >= distance(cam, o.RealPosition).
func inRangeOf(o *Object, c *ClientMirror) bool {
	reach := o.BoundingRadius() + c.Camera.Radius()*c.SendRange
	return reach*reach >= c.Camera.DistanceSq(o.RealPosition())
}

// toWireUpdate converts an in-memory ObjectUpdate's field map to its
// wire representation.
func toWireUpdate(u ObjectUpdate) wire.ObjectUpdate {
	fields := make(map[string]wire.FieldValue, len(u.Fields))
	for name, v := range u.Fields {
		fields[name] = toWireFieldValue(v)
	}
	return wire.ObjectUpdate{ID: u.ID, Fields: fields}
}

func toWireFieldValue(v FieldValue) wire.FieldValue {
	switch v.Kind {
	case FieldScalar:
		return wire.FieldValue{Kind: wire.KindScalar, Scalar: v.Scalar}
	case FieldVector:
		return wire.FieldValue{Kind: wire.KindVector, VecX: v.Vector.X, VecY: v.Vector.Y}
	case FieldRotation:
		return wire.FieldValue{Kind: wire.KindRotation, Rotation: v.Rotation}
	case FieldIDRef:
		id := int32(0)
		if v.HasIDRef {
			id = v.IDRef
		}
		return wire.FieldValue{Kind: wire.KindIDRef, IDRef: id}
	case FieldLayerList:
		return wire.FieldValue{Kind: wire.KindLayerList, Layers: v.Layers}
	case FieldDrawable:
		return wire.FieldValue{Kind: wire.KindDrawable, Drawable: wire.Drawable{
			Name:           v.Drawable.Name,
			OffsetX:        v.Drawable.Offset.X,
			OffsetY:        v.Drawable.Offset.Y,
			RotationOffset: v.Drawable.RotationOffset,
		}}
	case FieldBool:
		return wire.FieldValue{Kind: wire.KindBool, Bool: v.Bool}
	}
	return wire.FieldValue{}
}

// fromWireFieldValue converts a wire-level field value back to the
// in-memory FieldValue the update-strategies operate on.
func fromWireFieldValue(v wire.FieldValue) FieldValue {
	switch v.Kind {
	case wire.KindScalar:
		return ScalarValue(v.Scalar)
	case wire.KindVector:
		return VectorValue(vec(v.VecX, v.VecY))
	case wire.KindRotation:
		return RotationValue(v.Rotation)
	case wire.KindIDRef:
		if v.IDRef == 0 {
			return NoIDRefValue()
		}
		return IDRefValue(v.IDRef)
	case wire.KindLayerList:
		return LayerListValue(v.Layers)
	case wire.KindDrawable:
		return DrawableValue(DrawableDescriptor{
			Name:           v.Drawable.Name,
			Offset:         vec(v.Drawable.OffsetX, v.Drawable.OffsetY),
			RotationOffset: v.Drawable.RotationOffset,
		})
	case wire.KindBool:
		return BoolValue(v.Bool)
	}
	return FieldValue{}
}

// fromWireUpdate converts a wire.ObjectUpdate back to the in-memory
// shape Object.Apply consumes.
func fromWireUpdate(u wire.ObjectUpdate) ObjectUpdate {
	fields := make(map[string]FieldValue, len(u.Fields))
	for name, v := range u.Fields {
		fields[name] = fromWireFieldValue(v)
	}
	return ObjectUpdate{ID: u.ID, Fields: fields}
}

func vec(x, y float64) math.V2 { return math.V2{X: x, Y: y} }
