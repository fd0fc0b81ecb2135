// Copyright © 2024 Forge Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package forge

import (
	"github.com/gazed/forge/math"
	"github.com/gazed/forge/wire"
)

// clientstate.go holds ClientMirror, the server-side bookkeeping that
// mirrors one connected client's state: everything UpdateClient needs
// to know about that client, without touching the socket itself.
type ClientMirror struct {
	ID int32

	Camera Camera

	WindowW, WindowH int

	MouseWindow math.V2 // raw window-space mouse position.
	MouseWorld  math.V2 // derived world-space mouse position.
	MouseWheel  float64 // accumulator, cleared by application code as it is consumed.

	Controls map[string]bool // currently active control symbols.

	SendRange   float64 // multiplier of camera radius used for in-range tests.
	UnloadTime  float64 // seconds; informational mirror of the client's own timer config.

	Loaded map[int32]bool // object ids this client is known to have loaded.

	listeners []func(ClientReport)

	writer recordSender // outbound sink; nil for a locally-simulated client in tests.
}

// recordSender is anything that can deliver one framed record
// somewhere: a direct *wire.FrameWriter for tests, or an adapter that
// queues onto a NetworkActor's Outbound channel in the real server.
type recordSender interface {
	WriteRecord(rec wire.Record) error
}

// NewClientMirror builds a ClientMirror for id, sending outbound
// records through w (nil is valid - useful in tests that only inspect
// Loaded/Camera).
func NewClientMirror(id int32, sendRange, unloadTime float64, w recordSender) *ClientMirror {
	return &ClientMirror{
		ID:         id,
		Controls:   map[string]bool{},
		SendRange:  sendRange,
		UnloadTime: unloadTime,
		Loaded:     map[int32]bool{},
		writer:     w,
	}
}

// AddInputListener registers fn to be called with every ClientReport
// ingested for this client.
func (c *ClientMirror) AddInputListener(fn func(ClientReport)) {
	c.listeners = append(c.listeners, fn)
}

// Ingest applies an upstream client report to the mirror and notifies
// listeners. Mouse wheel is accumulated, not overwritten, since it is
// a delta the client may report multiple times before the application
// consumes it.
func (c *ClientMirror) Ingest(r ClientReport) {
	c.Camera.Pos = math.V2{X: r.CameraPos[0], Y: r.CameraPos[1]}
	c.Camera.Size = math.V2{X: r.CameraSize[0], Y: r.CameraSize[1]}
	c.Camera.Rot = r.CameraRot
	c.WindowW, c.WindowH = r.WindowW, r.WindowH
	c.MouseWindow = math.V2{X: r.MouseX, Y: r.MouseY}
	c.MouseWheel += r.MouseWheel
	c.Controls = map[string]bool{}
	for _, sym := range r.Controls {
		c.Controls[sym] = true
	}
	for _, fn := range c.listeners {
		fn(r)
	}
}

// Send writes rec to the client's outbound socket, if it has one.
func (c *ClientMirror) Send(rec wire.Record) error {
	if c.writer == nil {
		return nil
	}
	return c.writer.WriteRecord(rec)
}
