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

// client.go mirrors server.go's tick shape locally and non-
// authoritatively: the same fixed-dt accumulator loop, but driving a
// Handler whose objects are either spawned from the server (ids > 0,
// mutated only through Apply) or created locally for effects that
// never leave the client (ids < 0, via Handler.AddLocal).

// ClassFactory builds the update-strategy list a freshly spawned
// object should carry, keyed by the class name the server sent in its
// ObjectSpawn. A nil ClassFactory on Client falls back to
// defaultStrategies.
type ClassFactory func(class string) []UpdateStrategy

// Client owns one connection to a Server: the network actor, the local
// object handler, and the fixed-rate loop that advances local physics,
// sends input upstream, and runs the per-object unload timer.
type Client struct {
	cfg  Config
	diag *Diagnostics

	Handler *Handler
	Camera  Camera

	// StepFunc, if set, is called once per tick before physics, the
	// same way Server.StepFunc is.
	StepFunc func(dt float64)

	// ClassFactory builds strategies for objects spawned from the
	// server. Defaults to defaultStrategies if nil.
	ClassFactory ClassFactory

	actor  *replicate.NetworkActor
	unload *UnloadTracker

	mu        sync.Mutex
	report    ClientReport
	gameScale float64

	// inbox queues records handed off by dispatch. step, running on the
	// one tick goroutine, drains it each tick: Handler is mutated only
	// there, never from the dispatch goroutine.
	inboxMu sync.Mutex
	inbox   []wire.Record
}

// NewClient builds a Client over handler, applying attrs to the
// default configuration.
func NewClient(diag *Diagnostics, handler *Handler, attrs ...Attr) *Client {
	cfg := newConfig(attrs...)
	return &Client{
		cfg:       cfg,
		diag:      diag,
		Handler:   handler,
		unload:    NewUnloadTracker(),
		gameScale: cfg.GameScale,
	}
}

// Connect dials addr and starts the network actor. Run and Connect are
// separate calls so application code can register ClassFactory/
// StepFunc between them if it needs to.
func (c *Client) Connect(ctx context.Context, addr string) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransportIO, err)
	}
	c.actor = replicate.NewNetworkActor(conn, 64, 64)
	go func() {
		if err := c.actor.Run(ctx); err != nil {
			c.logConnError(err)
		}
	}()
	go c.dispatch(ctx)
	return nil
}

// logConnError classifies the network actor's terminal error against
// the core's protocol error taxonomy before logging it, so a framing
// or schema failure at the wire layer is surfaced as the matching
// sentinel rather than an opaque wrapped error.
func (c *Client) logConnError(err error) {
	switch {
	case errors.Is(err, wire.ErrFraming):
		c.diag.Error("network actor ended", "err", fmt.Errorf("%w: %v", ErrProtocolFraming, err))
	case errors.Is(err, wire.ErrSchema):
		c.diag.Error("network actor ended", "err", fmt.Errorf("%w: %v", ErrProtocolSchema, err))
	default:
		c.diag.Error("network actor ended", "err", err)
	}
}

// dispatch drains the actor's Inbound channel, queuing each record for
// step to apply on the tick goroutine - the dispatch goroutine never
// touches Handler directly.
func (c *Client) dispatch(ctx context.Context) {
	for {
		select {
		case rec, ok := <-c.actor.Inbound:
			if !ok {
				return
			}
			c.enqueueInbound(rec)
		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) enqueueInbound(rec wire.Record) {
	c.inboxMu.Lock()
	c.inbox = append(c.inbox, rec)
	c.inboxMu.Unlock()
}

// handleInbound applies one record received from the server, called
// only from step on the tick goroutine.
func (c *Client) handleInbound(rec wire.Record) {
	switch r := rec.(type) {
	case wire.ObjectSpawn:
		c.handleSpawn(r)
	case wire.ObjectUpdate:
		c.handleUpdate(r)
	case wire.ObjectRemoval:
		c.Handler.Remove(r.ID)
		c.unload.Forget(r.ID)
	case wire.ServerState:
		c.mu.Lock()
		c.gameScale = r.GameScale
		c.mu.Unlock()
	default:
		c.diag.Warn("unexpected record from server", "tag", rec.Tag())
	}
}

func (c *Client) handleSpawn(r wire.ObjectSpawn) {
	o := c.Handler.AddWithID(r.ID)
	o.SetClass(r.Class)
	factory := c.ClassFactory
	if factory == nil {
		factory = defaultStrategies
	}
	for _, s := range factory(r.Class) {
		o.AddStrategy(s)
	}
}

func (c *Client) handleUpdate(r wire.ObjectUpdate) {
	o, ok := c.Handler.Lookup(r.ID)
	if !ok {
		// Race with a REMOVE already processed; not an error. The
		// update is dropped and reported as a warning.
		c.diag.Warn("update for unknown object", "err", ErrObjectNotFound, "id", r.ID)
		return
	}
	o.Apply(fromWireUpdate(r))
}

// defaultStrategies is the strategy set a spawned object gets when no
// ClassFactory is configured: the three built-in strategies, ordered
// so the flag strategies settle before the transform strategy reads
// them.
func defaultStrategies(string) []UpdateStrategy {
	return []UpdateStrategy{
		AlwaysLoadedStrategy{},
		DrawStrategy{},
		TransformStrategy{},
	}
}

// SetReport records the latest local input/camera snapshot, sent
// upstream on the next tick. Typically called once per render frame by
// whatever collaborator owns the window and input devices.
func (c *Client) SetReport(r ClientReport) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.report = r
	c.Camera = Camera{
		Pos:  vec(r.CameraPos[0], r.CameraPos[1]),
		Size: vec(r.CameraSize[0], r.CameraSize[1]),
		Rot:  r.CameraRot,
	}
}

// GameScale returns the world-units-per-texture-pixel ratio last
// received from the server, or the locally configured default before
// any ServerState has arrived.
func (c *Client) GameScale() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gameScale
}

// Run drives the client's fixed-rate local loop until ctx is canceled:
// StepFunc, local physics, a per-object dirty snapshot, the unload
// timer pass, and one outbound CLIENT_STATE per tick.
func (c *Client) Run(ctx context.Context) error {
	dt := 1.0 / c.cfg.ClientUpdateSpeed
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
			c.diag.Warn("tick overrun", "err", ErrTickOverrun, "elapsed", elapsed, "cap", capTime)
			elapsed = dt
		}

		updateTime += elapsed
		for updateTime >= dt {
			c.step(ctx, dt)
			updateTime -= dt
		}

		if sleep := dt - updateTime; sleep > 0 {
			time.Sleep(time.Duration(sleep * float64(time.Second)))
		}
	}
}

func (c *Client) step(ctx context.Context, dt float64) {
	c.inboxMu.Lock()
	pending := c.inbox
	c.inbox = nil
	c.inboxMu.Unlock()
	for _, rec := range pending {
		c.handleInbound(rec)
	}

	if c.StepFunc != nil {
		c.StepFunc(dt)
	}
	if w := c.Handler.World(); w != nil {
		w.Step(dt)
	}
	c.Handler.Each(func(o *Object) bool {
		o.SnapshotDirty()
		return true
	})

	c.mu.Lock()
	report := c.report
	cam := c.Camera
	c.mu.Unlock()

	expired := c.unload.Tick(c.Handler, cam, c.cfg.ObjectSendingRange, c.cfg.ObjectUnloadTime, dt)
	for _, id := range expired {
		c.send(ctx, wire.UnloadAck{ID: id})
		c.Handler.Remove(id)
	}

	c.send(ctx, clientStateFromReport(report))
}

func (c *Client) send(ctx context.Context, rec wire.Record) {
	if c.actor == nil {
		return
	}
	select {
	case c.actor.Outbound <- rec:
	case <-ctx.Done():
	}
}

// clientStateFromReport packs a ClientReport into a wire.ClientState
// with every group present except the unload group, which is left
// unset - a connected client always knows its full local input and
// camera state, unlike a relayed record that may carry only a subset.
func clientStateFromReport(r ClientReport) wire.ClientState {
	return wire.ClientState{
		HasCamera: true,
		CameraX:   r.CameraPos[0], CameraY: r.CameraPos[1],
		CameraW: r.CameraSize[0], CameraH: r.CameraSize[1],
		CameraRot: r.CameraRot,

		HasWindow: true,
		WindowW:   int32(r.WindowW), WindowH: int32(r.WindowH),

		HasMouse: true,
		MouseX:   r.MouseX, MouseY: r.MouseY,

		HasWheel: true,
		Wheel:    r.MouseWheel,

		HasInputMap: true,
		Controls:    r.Controls,
	}
}
