// Copyright © 2024 Forge Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package replicate holds the network actor: the goroutine pair that
// owns one client connection's socket and turns it into a pair of
// record channels. It knows nothing about objects, handlers, or
// strategies - only wire.Record - so the simulation loop that consumes
// its channels can live in a separate package without an import cycle.
package replicate

import (
	"context"
	"errors"
	"io"
	"net"

	"github.com/gazed/forge/wire"
	"golang.org/x/sync/errgroup"
)

// NetworkActor owns one connection's read and write loops. Inbound
// carries records parsed off the socket; Outbound carries records
// queued for the socket. These two channels are the only shared
// mutable state between the actor and whatever drains/feeds them -
// everything else is local to one side or the other.
type NetworkActor struct {
	conn   net.Conn
	reader *wire.FrameReader
	writer *wire.FrameWriter

	Inbound  chan wire.Record
	Outbound chan wire.Record
}

// NewNetworkActor wraps conn. inboundBuf/outboundBuf size the channel
// buffers; a buffer of 0 makes the corresponding loop synchronous with
// its consumer/producer.
func NewNetworkActor(conn net.Conn, inboundBuf, outboundBuf int) *NetworkActor {
	return &NetworkActor{
		conn:     conn,
		reader:   wire.NewFrameReader(conn),
		writer:   wire.NewFrameWriter(conn),
		Inbound:  make(chan wire.Record, inboundBuf),
		Outbound: make(chan wire.Record, outboundBuf),
	}
}

// Run drives the read and write loops until ctx is canceled or either
// loop hits an unrecoverable error, then closes the connection and the
// Inbound channel; Outbound is not closed. Run blocks; callers typically invoke it in its own
// goroutine per connection.
func (a *NetworkActor) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.readLoop(gctx) })
	g.Go(func() error { return a.writeLoop(gctx) })

	// A blocked conn.Read does not observe ctx cancellation on its own;
	// closing the connection is what actually unblocks readLoop.
	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			a.conn.Close()
		case <-stop:
		}
	}()

	err := g.Wait()
	close(stop)
	a.conn.Close()
	close(a.Inbound)
	if errors.Is(err, context.Canceled) || isClosed(err) {
		return nil
	}
	return err
}

// isClosed reports whether err stems from a connection this actor
// itself closed (on Close or ctx cancellation), which is an expected
// shutdown path rather than a failure.
func isClosed(err error) bool {
	return errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe)
}

// readLoop parses frames off the socket and forwards them to Inbound.
// An unknown record tag is not an error at this layer (forward
// compatibility); it is silently skipped and the loop continues.
func (a *NetworkActor) readLoop(ctx context.Context) error {
	for {
		rec, err := a.reader.ReadRecord()
		if err != nil {
			if errors.Is(err, wire.ErrUnknownTag) {
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		select {
		case a.Inbound <- rec:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// writeLoop drains Outbound and writes each record to the socket until
// the channel is closed or ctx is canceled.
func (a *NetworkActor) writeLoop(ctx context.Context) error {
	for {
		select {
		case rec, ok := <-a.Outbound:
			if !ok {
				return nil
			}
			if err := a.writer.WriteRecord(rec); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close closes the underlying connection directly, unblocking any
// in-flight read so Run can return promptly even with no pending ctx
// cancellation.
func (a *NetworkActor) Close() error { return a.conn.Close() }
