// Copyright © 2024 Forge Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package wire

import (
	"bytes"
	"fmt"
	"io"
)

// FieldKind tags a FieldValue's wire representation. It mirrors
// forge.FieldKind one-for-one; wire keeps its own copy so this package
// has no dependency on the root forge package (the root package's
// replication.go does the translation between the two, keeping wire a
// pure protocol leaf).
type FieldKind byte

const (
	KindScalar FieldKind = iota
	KindVector
	KindRotation
	KindIDRef
	KindLayerList
	KindDrawable
	KindBool
)

// FieldValue is the wire-level tagged union for one named field in an
// OBJECT_UPDATE record.
type FieldValue struct {
	Kind FieldKind

	Scalar   float64
	VecX     float64
	VecY     float64
	Rotation float64
	IDRef    int32 // 0 is the null-sentinel: "no reference".
	Layers   []int32
	Drawable Drawable
	Bool     bool
}

// Drawable is the opaque texture/offset descriptor: name length + utf8
// + offset + rotation-offset.
type Drawable struct {
	Name           string
	OffsetX        float64
	OffsetY        float64
	RotationOffset float64
}

// encode writes v's tag byte followed by its kind-specific payload.
func (v FieldValue) encode(w io.Writer) error {
	if err := writeByte(w, byte(v.Kind)); err != nil {
		return err
	}
	switch v.Kind {
	case KindScalar:
		return writeF64(w, v.Scalar)
	case KindVector:
		if err := writeF64(w, v.VecX); err != nil {
			return err
		}
		return writeF64(w, v.VecY)
	case KindRotation:
		return writeF64(w, v.Rotation)
	case KindIDRef:
		return writeI32(w, v.IDRef)
	case KindLayerList:
		if len(v.Layers) > 0xFFFF {
			return fmt.Errorf("%w: layer list too long (%d)", ErrSchema, len(v.Layers))
		}
		if err := writeU16(w, uint16(len(v.Layers))); err != nil {
			return err
		}
		for _, l := range v.Layers {
			if err := writeI32(w, l); err != nil {
				return err
			}
		}
		return nil
	case KindDrawable:
		if err := writeString(w, v.Drawable.Name); err != nil {
			return err
		}
		if err := writeF64(w, v.Drawable.OffsetX); err != nil {
			return err
		}
		if err := writeF64(w, v.Drawable.OffsetY); err != nil {
			return err
		}
		return writeF64(w, v.Drawable.RotationOffset)
	case KindBool:
		b := byte(0)
		if v.Bool {
			b = 1
		}
		return writeByte(w, b)
	default:
		return fmt.Errorf("%w: unknown field kind %d", ErrSchema, v.Kind)
	}
}

// decodeFieldValue reads one tagged FieldValue from r.
func decodeFieldValue(r *bytes.Reader) (FieldValue, error) {
	tag, err := r.ReadByte()
	if err != nil {
		return FieldValue{}, fmt.Errorf("%w: %w", ErrSchema, err)
	}
	kind := FieldKind(tag)
	switch kind {
	case KindScalar:
		f, err := readF64(r)
		return FieldValue{Kind: kind, Scalar: f}, err
	case KindVector:
		x, err := readF64(r)
		if err != nil {
			return FieldValue{}, err
		}
		y, err := readF64(r)
		return FieldValue{Kind: kind, VecX: x, VecY: y}, err
	case KindRotation:
		f, err := readF64(r)
		return FieldValue{Kind: kind, Rotation: f}, err
	case KindIDRef:
		id, err := readI32(r)
		return FieldValue{Kind: kind, IDRef: id}, err
	case KindLayerList:
		n, err := readU16(r)
		if err != nil {
			return FieldValue{}, err
		}
		layers := make([]int32, n)
		for i := range layers {
			if layers[i], err = readI32(r); err != nil {
				return FieldValue{}, err
			}
		}
		return FieldValue{Kind: kind, Layers: layers}, nil
	case KindDrawable:
		name, err := readString(r)
		if err != nil {
			return FieldValue{}, err
		}
		ox, err := readF64(r)
		if err != nil {
			return FieldValue{}, err
		}
		oy, err := readF64(r)
		if err != nil {
			return FieldValue{}, err
		}
		ro, err := readF64(r)
		if err != nil {
			return FieldValue{}, err
		}
		return FieldValue{Kind: kind, Drawable: Drawable{Name: name, OffsetX: ox, OffsetY: oy, RotationOffset: ro}}, nil
	case KindBool:
		b, err := r.ReadByte()
		if err != nil {
			return FieldValue{}, fmt.Errorf("%w: %w", ErrSchema, err)
		}
		return FieldValue{Kind: kind, Bool: b != 0}, nil
	default:
		return FieldValue{}, fmt.Errorf("%w: unknown field kind %d", ErrSchema, kind)
	}
}
