// Copyright © 2024 Forge Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package forge

import fmath "github.com/gazed/forge/math"

// fieldvalue.go defines the typed variant carried by an ObjectUpdate's
// field map. Keeping the wire protocol's name-keyed field map while
// internally dispatching through a fixed kind means the same
// FieldValue shape is used both in memory and, via forge/wire, on the
// wire.

// FieldKind tags which variant a FieldValue holds.
type FieldKind uint8

const (
	FieldScalar    FieldKind = iota // a single float64.
	FieldVector                    // a 2D vector.
	FieldRotation                  // a radians scalar, distinguished from Scalar for readability.
	FieldIDRef                     // an object id reference, or "no reference".
	FieldLayerList                 // an ordered list of draw-layer indices.
	FieldDrawable                  // an opaque drawable descriptor.
	FieldBool                      // a boolean flag.
)

// DrawableDescriptor is the opaque, externally-owned drawable payload
// that crosses the wire as a texture name plus transform offsets. The
// core never interprets Name; it is forwarded as-is to the
// out-of-scope rendering collaborator.
type DrawableDescriptor struct {
	Name           string
	Offset         fmath.V2
	RotationOffset float64 // additional rotation applied on top of the object's own.
}

// FieldValue is a tagged union over the field value variants. Exactly
// one of the typed fields is meaningful, selected by Kind; the others
// are left at their zero value.
type FieldValue struct {
	Kind FieldKind

	Scalar   float64
	Vector   fmath.V2
	Rotation float64
	IDRef    int32 // 0 means "no reference" (the null-sentinel).
	HasIDRef bool
	Layers   []int32
	Drawable DrawableDescriptor
	Bool     bool
}

// ScalarValue builds a FieldScalar FieldValue.
func ScalarValue(v float64) FieldValue { return FieldValue{Kind: FieldScalar, Scalar: v} }

// VectorValue builds a FieldVector FieldValue.
func VectorValue(v fmath.V2) FieldValue { return FieldValue{Kind: FieldVector, Vector: v} }

// RotationValue builds a FieldRotation FieldValue.
func RotationValue(radians float64) FieldValue {
	return FieldValue{Kind: FieldRotation, Rotation: radians}
}

// IDRefValue builds a FieldIDRef FieldValue referencing id. Pass
// NoIDRefValue() for the null-sentinel case.
func IDRefValue(id int32) FieldValue {
	return FieldValue{Kind: FieldIDRef, IDRef: id, HasIDRef: true}
}

// NoIDRefValue builds a FieldIDRef FieldValue carrying the
// null-sentinel (a cleared parent, for example).
func NoIDRefValue() FieldValue { return FieldValue{Kind: FieldIDRef, HasIDRef: false} }

// LayerListValue builds a FieldLayerList FieldValue. The slice is
// copied so later caller mutation cannot alter the stored value.
func LayerListValue(layers []int32) FieldValue {
	cp := make([]int32, len(layers))
	copy(cp, layers)
	return FieldValue{Kind: FieldLayerList, Layers: cp}
}

// DrawableValue builds a FieldDrawable FieldValue.
func DrawableValue(d DrawableDescriptor) FieldValue {
	return FieldValue{Kind: FieldDrawable, Drawable: d}
}

// BoolValue builds a FieldBool FieldValue.
func BoolValue(v bool) FieldValue { return FieldValue{Kind: FieldBool, Bool: v} }

// Equal reports whether two FieldValues carry the same kind and data,
// used by update-strategy dirty comparisons and wire round-trip tests.
func (v FieldValue) Equal(o FieldValue) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case FieldScalar:
		return v.Scalar == o.Scalar
	case FieldVector:
		return v.Vector.Eq(o.Vector)
	case FieldRotation:
		return v.Rotation == o.Rotation
	case FieldIDRef:
		return v.HasIDRef == o.HasIDRef && (!v.HasIDRef || v.IDRef == o.IDRef)
	case FieldLayerList:
		if len(v.Layers) != len(o.Layers) {
			return false
		}
		for i := range v.Layers {
			if v.Layers[i] != o.Layers[i] {
				return false
			}
		}
		return true
	case FieldDrawable:
		return v.Drawable == o.Drawable
	case FieldBool:
		return v.Bool == o.Bool
	}
	return false
}
