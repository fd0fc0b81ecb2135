// Copyright © 2024 Forge Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package forge

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/gazed/forge/replicate"
	"github.com/gazed/forge/wire"
)

// server.go is the authoritative tick loop: a fixed dt, a carried
// "update time" balance fed by wall-clock elapsed time each pass, and a
// capped elapsed time to guard against a spiral of death. Server has no
// render side, and adds the overrun policy of skipping rather than
// stacking catch-up ticks.
type Server struct {
	cfg  Config
	diag *Diagnostics

	Handler *Handler

	// StepFunc, if set, is called once per tick before physics and
	// replication, with the same fixed dt passed to physics.World.Step.
	// This is where application code drives game logic.
	StepFunc func(dt float64)

	mu         sync.Mutex
	clients    map[int32]*ClientMirror
	nextClient int32
	listener   net.Listener
	tick       uint64

	// inbox queues records handed off by serveConn's network goroutines.
	// step, running on the one simulation goroutine, drains it each
	// tick: ClientMirror is mutated only there, never from a connection
	// goroutine.
	inboxMu sync.Mutex
	inbox   []inboundRecord
}

// inboundRecord pairs one record received from a client with the
// mirror it belongs to.
type inboundRecord struct {
	client *ClientMirror
	rec    wire.Record
}

// NewServer builds a Server over handler, applying attrs to the
// default configuration.
func NewServer(diag *Diagnostics, handler *Handler, attrs ...Attr) *Server {
	cfg := newConfig(attrs...)
	return &Server{
		cfg:     cfg,
		diag:    diag,
		Handler: handler,
		clients: map[int32]*ClientMirror{},
	}
}

// Listen accepts connections on addr until ctx is canceled, spawning a
// goroutine per connection that speaks the framed wire protocol
// through a replicate.NetworkActor. Listen blocks; call it in its own
// goroutine alongside Run.
func (s *Server) Listen(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransportIO, err)
	}
	s.listener = ln
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("%w: %v", ErrTransportIO, err)
		}
		go s.serveConn(ctx, conn)
	}
}

// chanWriter adapts a NetworkActor's Outbound channel to the
// recordSender interface ClientMirror.Send expects, so a ClientMirror
// never writes to the socket directly - only the network actor's own
// write loop touches the connection.
type chanWriter struct {
	ctx context.Context
	out chan<- wire.Record
}

func (c chanWriter) WriteRecord(rec wire.Record) error {
	select {
	case c.out <- rec:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	}
}

// serveConn owns one client's connection lifetime: it registers a
// ClientMirror, runs the network actor, and dispatches inbound records
// until the actor stops.
func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	actor := replicate.NewNetworkActor(conn, 64, 64)
	id := s.newClientID()
	mirror := NewClientMirror(id, s.cfg.ObjectSendingRange, s.cfg.ObjectUnloadTime,
		chanWriter{ctx: connCtx, out: actor.Outbound})

	s.mu.Lock()
	s.clients[id] = mirror
	s.mu.Unlock()
	s.diag.Info("client connected", "id", id, "remote", conn.RemoteAddr())

	defer func() {
		s.mu.Lock()
		delete(s.clients, id)
		s.mu.Unlock()
		s.diag.Info("client disconnected", "id", id)
	}()

	done := make(chan error, 1)
	go func() { done <- actor.Run(connCtx) }()

	for {
		select {
		case rec, ok := <-actor.Inbound:
			if !ok {
				<-done
				return
			}
			s.enqueueInbound(mirror, rec)
		case err := <-done:
			if err != nil {
				s.logConnError(id, err)
			}
			return
		}
	}
}

// enqueueInbound hands rec off to the simulation goroutine instead of
// applying it here. The network actor's goroutine must never touch a
// ClientMirror's fields directly - step is the sole mutator.
func (s *Server) enqueueInbound(c *ClientMirror, rec wire.Record) {
	s.inboxMu.Lock()
	s.inbox = append(s.inbox, inboundRecord{client: c, rec: rec})
	s.inboxMu.Unlock()
}

// logConnError classifies a network actor's terminal error against the
// core's protocol error taxonomy before logging it, so a framing or
// schema failure at the wire layer is surfaced as the matching
// sentinel rather than an opaque wrapped error.
func (s *Server) logConnError(clientID int32, err error) {
	switch {
	case errors.Is(err, wire.ErrFraming):
		s.diag.Error("network actor ended", "client", clientID, "err", fmt.Errorf("%w: %v", ErrProtocolFraming, err))
	case errors.Is(err, wire.ErrSchema):
		s.diag.Error("network actor ended", "client", clientID, "err", fmt.Errorf("%w: %v", ErrProtocolSchema, err))
	default:
		s.diag.Error("network actor ended", "client", clientID, "err", err)
	}
}

// handleInbound applies one record received from a client, called only
// from step on the simulation goroutine. Only CLIENT_STATE and
// UNLOAD_ACK are valid in this direction; anything else is logged and
// dropped, the connection otherwise left alone.
func (s *Server) handleInbound(c *ClientMirror, rec wire.Record) {
	switch r := rec.(type) {
	case wire.ClientState:
		c.Ingest(reportFromWire(c, r))
	case wire.UnloadAck:
		delete(c.Loaded, r.ID)
	default:
		s.diag.Warn("unexpected record from client", "client", c.ID, "tag", rec.Tag())
	}
}

// reportFromWire converts a partial wire.ClientState into a
// ClientReport, carrying forward c's current values for any group the
// client omitted (every group in CLIENT_STATE is optional per tick).
func reportFromWire(c *ClientMirror, cs wire.ClientState) ClientReport {
	r := ClientReport{
		CameraPos:  [2]float64{c.Camera.Pos.X, c.Camera.Pos.Y},
		CameraSize: [2]float64{c.Camera.Size.X, c.Camera.Size.Y},
		CameraRot:  c.Camera.Rot,
		WindowW:    c.WindowW,
		WindowH:    c.WindowH,
		MouseX:     c.MouseWindow.X,
		MouseY:     c.MouseWindow.Y,
	}
	for sym := range c.Controls {
		r.Controls = append(r.Controls, sym)
	}
	if cs.HasCamera {
		r.CameraPos = [2]float64{cs.CameraX, cs.CameraY}
		r.CameraSize = [2]float64{cs.CameraW, cs.CameraH}
		r.CameraRot = cs.CameraRot
	}
	if cs.HasWindow {
		r.WindowW, r.WindowH = int(cs.WindowW), int(cs.WindowH)
	}
	if cs.HasMouse {
		r.MouseX, r.MouseY = cs.MouseX, cs.MouseY
	}
	if cs.HasWheel {
		r.MouseWheel = cs.Wheel
	}
	if cs.HasInputMap {
		r.Controls = cs.Controls
	}
	return r
}

func (s *Server) newClientID() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextClient++
	return s.nextClient
}

// Run drives the fixed-rate simulation loop until ctx is canceled. Each
// tick: StepFunc, physics, per-object dirty snapshot, then
// update_client for every connected client.
func (s *Server) Run(ctx context.Context) error {
	dt := 1.0 / s.cfg.UpdateSpeed
	capTime := 2 * dt
	updateTime := 0.0
	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		elapsed := time.Since(lastTime).Seconds()
		lastTime = time.Now()
		if elapsed > capTime {
			// Drop the backlog instead of stacking catch-up ticks.
			s.diag.Warn("tick overrun", "err", ErrTickOverrun, "elapsed", elapsed, "cap", capTime)
			elapsed = dt
		}

		updateTime += elapsed
		for updateTime >= dt {
			s.step(dt)
			updateTime -= dt
			s.tick++
		}

		if sleep := dt - updateTime; sleep > 0 {
			time.Sleep(time.Duration(sleep * float64(time.Second)))
		}
	}
}

// step runs one fixed-dt tick of simulation and replication.
func (s *Server) step(dt float64) {
	s.inboxMu.Lock()
	pending := s.inbox
	s.inbox = nil
	s.inboxMu.Unlock()
	for _, ir := range pending {
		s.handleInbound(ir.client, ir.rec)
	}

	if s.StepFunc != nil {
		s.StepFunc(dt)
	}
	if w := s.Handler.World(); w != nil {
		w.Step(dt)
	}
	s.Handler.Each(func(o *Object) bool {
		o.SnapshotDirty()
		return true
	})

	s.mu.Lock()
	clients := make([]*ClientMirror, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	for _, c := range clients {
		if err := UpdateClient(s.Handler, c); err != nil {
			s.diag.Error("update_client failed", "client", c.ID, "err", err)
		}
	}
}

// Tick returns the number of simulation ticks run so far.
func (s *Server) Tick() uint64 { return s.tick }
