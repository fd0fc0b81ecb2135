// Copyright © 2024 Forge Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package wire

import (
	"bytes"
	"errors"
	"testing"
)

func TestObjectUpdateRoundTrip(t *testing.T) {
	want := ObjectUpdate{
		ID: 42,
		Fields: map[string]FieldValue{
			"position": {Kind: KindVector, VecX: 1.5, VecY: -2.5},
			"visible":  {Kind: KindBool, Bool: true},
			"parent":   {Kind: KindIDRef, IDRef: 7},
			"layers":   {Kind: KindLayerList, Layers: []int32{1, 2, 3}},
		},
	}

	var buf bytes.Buffer
	fw := NewFrameWriter(&buf)
	if err := fw.WriteRecord(want); err != nil {
		t.Fatalf("WriteRecord: %v", err)
	}

	fr := NewFrameReader(&buf)
	got, err := fr.ReadRecord()
	if err != nil {
		t.Fatalf("ReadRecord: %v", err)
	}
	update, ok := got.(ObjectUpdate)
	if !ok {
		t.Fatalf("got %T, want ObjectUpdate", got)
	}
	if update.ID != want.ID {
		t.Fatalf("id = %d, want %d", update.ID, want.ID)
	}
	if len(update.Fields) != len(want.Fields) {
		t.Fatalf("field count = %d, want %d", len(update.Fields), len(want.Fields))
	}
	for name, v := range want.Fields {
		got, ok := update.Fields[name]
		if !ok {
			t.Fatalf("missing field %q", name)
		}
		if got.Kind != v.Kind {
			t.Fatalf("field %q kind = %v, want %v", name, got.Kind, v.Kind)
		}
		switch v.Kind {
		case KindVector:
			if got.VecX != v.VecX || got.VecY != v.VecY {
				t.Fatalf("field %q = %+v, want %+v", name, got, v)
			}
		case KindBool:
			if got.Bool != v.Bool {
				t.Fatalf("field %q = %+v, want %+v", name, got, v)
			}
		case KindIDRef:
			if got.IDRef != v.IDRef {
				t.Fatalf("field %q = %+v, want %+v", name, got, v)
			}
		case KindLayerList:
			if !intsEqual(got.Layers, v.Layers) {
				t.Fatalf("field %q = %+v, want %+v", name, got, v)
			}
		}
	}
}

func intsEqual(a, b []int32) bool {
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

func TestClientStateRoundTripPartialGroups(t *testing.T) {
	want := ClientState{
		HasCamera: true,
		CameraX:   1, CameraY: 2, CameraW: 3, CameraH: 4, CameraRot: 0.5,
		HasWheel: true,
		Wheel:    -1.5,
	}
	var buf bytes.Buffer
	if err := NewFrameWriter(&buf).WriteRecord(want); err != nil {
		t.Fatalf("WriteRecord: %v", err)
	}
	got, err := NewFrameReader(&buf).ReadRecord()
	if err != nil {
		t.Fatalf("ReadRecord: %v", err)
	}
	cs := got.(ClientState)
	if cs.HasWindow || cs.HasMouse || cs.HasInputMap || cs.HasUnload {
		t.Fatalf("unset groups decoded as present: %+v", cs)
	}
	if !cs.HasCamera || cs.CameraRot != 0.5 {
		t.Fatalf("camera group mismatch: %+v", cs)
	}
	if !cs.HasWheel || cs.Wheel != -1.5 {
		t.Fatalf("wheel group mismatch: %+v", cs)
	}
}

func TestReadRecordRejectsMalformedLength(t *testing.T) {
	var buf bytes.Buffer
	// A zero length prefix is malformed (length must be > 0).
	buf.Write([]byte{0, 0, 0, 0})
	_, err := NewFrameReader(&buf).ReadRecord()
	if !errors.Is(err, ErrFraming) {
		t.Fatalf("err = %v, want ErrFraming", err)
	}
}

func TestReadRecordRejectsOversizeLength(t *testing.T) {
	var buf bytes.Buffer
	var lenPrefix [4]byte
	byteOrder.PutUint32(lenPrefix[:], MaxPayloadBytes+1)
	buf.Write(lenPrefix[:])
	_, err := NewFrameReader(&buf).ReadRecord()
	if !errors.Is(err, ErrFraming) {
		t.Fatalf("err = %v, want ErrFraming", err)
	}
}

func TestReadRecordRejectsTruncatedPayload(t *testing.T) {
	var buf bytes.Buffer
	var lenPrefix [4]byte
	byteOrder.PutUint32(lenPrefix[:], 10)
	buf.Write(lenPrefix[:])
	buf.Write([]byte{byte(TagObjectRemoval), 1, 2, 3}) // declared 10, only 4 present.
	_, err := NewFrameReader(&buf).ReadRecord()
	if !errors.Is(err, ErrFraming) {
		t.Fatalf("err = %v, want ErrFraming", err)
	}
}

func TestReadRecordSkipsUnknownTag(t *testing.T) {
	var buf bytes.Buffer
	var lenPrefix [4]byte
	byteOrder.PutUint32(lenPrefix[:], 1)
	buf.Write(lenPrefix[:])
	buf.Write([]byte{0x7F}) // tag 0x7F is not defined.
	_, err := NewFrameReader(&buf).ReadRecord()
	if !errors.Is(err, ErrUnknownTag) {
		t.Fatalf("err = %v, want ErrUnknownTag", err)
	}
	// The connection survives: the next well-formed frame still reads fine.
	if err := NewFrameWriter(&buf).WriteRecord(UnloadAck{ID: 9}); err != nil {
		t.Fatalf("WriteRecord: %v", err)
	}
	got, err := NewFrameReader(&buf).ReadRecord()
	if err != nil {
		t.Fatalf("ReadRecord after skip: %v", err)
	}
	if ack, ok := got.(UnloadAck); !ok || ack.ID != 9 {
		t.Fatalf("got %+v, want UnloadAck{ID:9}", got)
	}
}
