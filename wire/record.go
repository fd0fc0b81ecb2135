// Copyright © 2024 Forge Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package wire

import (
	"bytes"
	"fmt"
	"io"
)

// Record is any of the six defined payload kinds. encode writes the
// tag byte followed by the kind-specific body; FrameWriter wraps the
// result with the length prefix.
type Record interface {
	Tag() Tag
	encode(w io.Writer) error
}

// ObjectUpdate carries a named-field delta or full snapshot for one
// object (tag 0x01).
type ObjectUpdate struct {
	ID     int32
	Fields map[string]FieldValue
}

func (ObjectUpdate) Tag() Tag { return TagObjectUpdate }

func (r ObjectUpdate) encode(w io.Writer) error {
	if err := writeI32(w, r.ID); err != nil {
		return err
	}
	if len(r.Fields) > 0xFFFF {
		return fmt.Errorf("%w: too many fields (%d)", ErrSchema, len(r.Fields))
	}
	if err := writeU16(w, uint16(len(r.Fields))); err != nil {
		return err
	}
	for name, v := range r.Fields {
		if err := writeString(w, name); err != nil {
			return err
		}
		if err := v.encode(w); err != nil {
			return err
		}
	}
	return nil
}

func decodeObjectUpdate(r *bytes.Reader) (ObjectUpdate, error) {
	id, err := readI32(r)
	if err != nil {
		return ObjectUpdate{}, err
	}
	n, err := readU16(r)
	if err != nil {
		return ObjectUpdate{}, err
	}
	fields := make(map[string]FieldValue, n)
	for i := uint16(0); i < n; i++ {
		name, err := readString(r)
		if err != nil {
			return ObjectUpdate{}, err
		}
		v, err := decodeFieldValue(r)
		if err != nil {
			return ObjectUpdate{}, err
		}
		fields[name] = v
	}
	return ObjectUpdate{ID: id, Fields: fields}, nil
}

// ObjectSpawn announces a new object, naming the class the receiving
// side should instantiate before any ObjectUpdate for the same id is
// expected to apply cleanly (tag 0x02).
type ObjectSpawn struct {
	ID    int32
	Class string
}

func (ObjectSpawn) Tag() Tag { return TagObjectSpawn }

func (r ObjectSpawn) encode(w io.Writer) error {
	if err := writeI32(w, r.ID); err != nil {
		return err
	}
	return writeString(w, r.Class)
}

func decodeObjectSpawn(r *bytes.Reader) (ObjectSpawn, error) {
	id, err := readI32(r)
	if err != nil {
		return ObjectSpawn{}, err
	}
	class, err := readString(r)
	if err != nil {
		return ObjectSpawn{}, err
	}
	return ObjectSpawn{ID: id, Class: class}, nil
}

// ObjectRemoval announces that an object has left the simulation (tag 0x03).
type ObjectRemoval struct{ ID int32 }

func (ObjectRemoval) Tag() Tag { return TagObjectRemoval }

func (r ObjectRemoval) encode(w io.Writer) error { return writeI32(w, r.ID) }

func decodeObjectRemoval(r *bytes.Reader) (ObjectRemoval, error) {
	id, err := readI32(r)
	return ObjectRemoval{ID: id}, err
}

// Optional-group bits for ClientState (tag 0x04).
const (
	clientHasCamera = 1 << iota
	clientHasWindow
	clientHasMouse
	clientHasWheel
	clientHasInputMap
	clientHasUnload
)

// ClientState is the client-authored record sent upstream each network
// tick. Every group is optional; a sender includes only the groups
// whose Has flag it sets.
type ClientState struct {
	HasCamera                    bool
	CameraX, CameraY             float64
	CameraW, CameraH, CameraRot  float64

	HasWindow           bool
	WindowW, WindowH    int32

	HasMouse     bool
	MouseX, MouseY float64

	HasWheel bool
	Wheel    float64

	HasInputMap bool
	Controls    []string

	HasUnload               bool
	UnloadTime, UnloadRange float64
}

func (ClientState) Tag() Tag { return TagClientState }

func (r ClientState) encode(w io.Writer) error {
	var mask byte
	if r.HasCamera {
		mask |= clientHasCamera
	}
	if r.HasWindow {
		mask |= clientHasWindow
	}
	if r.HasMouse {
		mask |= clientHasMouse
	}
	if r.HasWheel {
		mask |= clientHasWheel
	}
	if r.HasInputMap {
		mask |= clientHasInputMap
	}
	if r.HasUnload {
		mask |= clientHasUnload
	}
	if err := writeByte(w, mask); err != nil {
		return err
	}
	if r.HasCamera {
		for _, v := range []float64{r.CameraX, r.CameraY, r.CameraW, r.CameraH, r.CameraRot} {
			if err := writeF64(w, v); err != nil {
				return err
			}
		}
	}
	if r.HasWindow {
		if err := writeI32(w, r.WindowW); err != nil {
			return err
		}
		if err := writeI32(w, r.WindowH); err != nil {
			return err
		}
	}
	if r.HasMouse {
		if err := writeF64(w, r.MouseX); err != nil {
			return err
		}
		if err := writeF64(w, r.MouseY); err != nil {
			return err
		}
	}
	if r.HasWheel {
		if err := writeF64(w, r.Wheel); err != nil {
			return err
		}
	}
	if r.HasInputMap {
		if len(r.Controls) > 0xFFFF {
			return fmt.Errorf("%w: too many controls (%d)", ErrSchema, len(r.Controls))
		}
		if err := writeU16(w, uint16(len(r.Controls))); err != nil {
			return err
		}
		for _, c := range r.Controls {
			if err := writeString(w, c); err != nil {
				return err
			}
		}
	}
	if r.HasUnload {
		if err := writeF64(w, r.UnloadTime); err != nil {
			return err
		}
		if err := writeF64(w, r.UnloadRange); err != nil {
			return err
		}
	}
	return nil
}

func decodeClientState(r *bytes.Reader) (ClientState, error) {
	maskByte, err := r.ReadByte()
	if err != nil {
		return ClientState{}, fmt.Errorf("%w: %w", ErrSchema, err)
	}
	var out ClientState
	if maskByte&clientHasCamera != 0 {
		out.HasCamera = true
		vals := make([]float64, 5)
		for i := range vals {
			if vals[i], err = readF64(r); err != nil {
				return ClientState{}, err
			}
		}
		out.CameraX, out.CameraY, out.CameraW, out.CameraH, out.CameraRot = vals[0], vals[1], vals[2], vals[3], vals[4]
	}
	if maskByte&clientHasWindow != 0 {
		out.HasWindow = true
		if out.WindowW, err = readI32(r); err != nil {
			return ClientState{}, err
		}
		if out.WindowH, err = readI32(r); err != nil {
			return ClientState{}, err
		}
	}
	if maskByte&clientHasMouse != 0 {
		out.HasMouse = true
		if out.MouseX, err = readF64(r); err != nil {
			return ClientState{}, err
		}
		if out.MouseY, err = readF64(r); err != nil {
			return ClientState{}, err
		}
	}
	if maskByte&clientHasWheel != 0 {
		out.HasWheel = true
		if out.Wheel, err = readF64(r); err != nil {
			return ClientState{}, err
		}
	}
	if maskByte&clientHasInputMap != 0 {
		out.HasInputMap = true
		n, err := readU16(r)
		if err != nil {
			return ClientState{}, err
		}
		out.Controls = make([]string, n)
		for i := range out.Controls {
			if out.Controls[i], err = readString(r); err != nil {
				return ClientState{}, err
			}
		}
	}
	if maskByte&clientHasUnload != 0 {
		out.HasUnload = true
		if out.UnloadTime, err = readF64(r); err != nil {
			return ClientState{}, err
		}
		if out.UnloadRange, err = readF64(r); err != nil {
			return ClientState{}, err
		}
	}
	return out, nil
}

// ServerState is a periodic, low-frequency record the server pushes to
// every client (tag 0x05).
type ServerState struct {
	GameScale float64
}

func (ServerState) Tag() Tag { return TagServerState }

func (r ServerState) encode(w io.Writer) error { return writeF64(w, r.GameScale) }

func decodeServerState(r *bytes.Reader) (ServerState, error) {
	v, err := readF64(r)
	return ServerState{GameScale: v}, err
}

// UnloadAck is the client's acknowledgement that it unloaded an object
// (tag 0x06).
type UnloadAck struct{ ID int32 }

func (UnloadAck) Tag() Tag { return TagUnloadAck }

func (r UnloadAck) encode(w io.Writer) error { return writeI32(w, r.ID) }

func decodeUnloadAck(r *bytes.Reader) (UnloadAck, error) {
	id, err := readI32(r)
	return UnloadAck{ID: id}, err
}

// DecodeRecord dispatches on tag, decoding body (the payload bytes
// after the tag byte) into the matching Record type. An unrecognized
// tag returns ErrUnknownTag - not fatal, for forward compatibility:
// callers should skip the record and keep reading.
func DecodeRecord(tag Tag, body []byte) (Record, error) {
	r := bytes.NewReader(body)
	switch tag {
	case TagObjectUpdate:
		return decodeObjectUpdate(r)
	case TagObjectSpawn:
		return decodeObjectSpawn(r)
	case TagObjectRemoval:
		return decodeObjectRemoval(r)
	case TagClientState:
		return decodeClientState(r)
	case TagServerState:
		return decodeServerState(r)
	case TagUnloadAck:
		return decodeUnloadAck(r)
	default:
		return nil, fmt.Errorf("%w: tag 0x%02x", ErrUnknownTag, tag)
	}
}
