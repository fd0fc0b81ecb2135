// Copyright © 2024 Forge Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package forge

// update.go defines the in-memory shape of the records the core works
// with. forge/wire has its own record types; replication.go, server.go
// and client.go convert ObjectUpdate and ClientReport to and from them.

// ObjectUpdate carries a named-field delta or full snapshot for one
// object. It corresponds to the wire OBJECT_UPDATE record; a wire
// OBJECT_SPAWN carries only an id and a class name, not fields.
type ObjectUpdate struct {
	ID     int32
	Fields map[string]FieldValue
}

// ObjectRemoval announces that an object has left the simulation (or,
// client-side, should be unloaded).
type ObjectRemoval struct {
	ID int32
}

// ClientReport is the client-authored record the client actor sends
// upstream each network tick: camera pose, window size, mouse state,
// and the currently-active control symbols. Decoded from a
// wire.ClientState frame; not to be confused with ClientMirror, the
// server's own per-client bookkeeping.
type ClientReport struct {
	CameraPos  [2]float64
	CameraSize [2]float64
	CameraRot  float64
	WindowW    int
	WindowH    int
	MouseX     float64
	MouseY     float64
	MouseWheel float64
	Controls   []string
}

// ServerState holds a tick number and server wall-time. No code in this
// module sends or receives it; the wire SERVER_STATE record
// (wire.ServerState) carries the game scale instead.
type ServerState struct {
	Tick     uint64
	ServerMS int64
}

// UnloadAck is the client's acknowledgement that it has unloaded an
// object, letting the server drop it from that client's loaded set
// without waiting out a timeout blind.
type UnloadAck struct {
	ID int32
}
