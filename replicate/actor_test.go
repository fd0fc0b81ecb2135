// Copyright © 2024 Forge Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package replicate

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/gazed/forge/wire"
)

func TestNetworkActorRoundTrip(t *testing.T) {
	serverConn, clientConn := net.Pipe()
	defer clientConn.Close()

	server := NewNetworkActor(serverConn, 4, 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- server.Run(ctx) }()

	clientWriter := wire.NewFrameWriter(clientConn)
	if err := clientWriter.WriteRecord(wire.UnloadAck{ID: 5}); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case rec := <-server.Inbound:
		ack, ok := rec.(wire.UnloadAck)
		if !ok || ack.ID != 5 {
			t.Fatalf("got %+v, want UnloadAck{ID:5}", rec)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for inbound record")
	}

	server.Outbound <- wire.ObjectRemoval{ID: 9}
	clientReader := wire.NewFrameReader(clientConn)
	rec, err := clientReader.ReadRecord()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if removal, ok := rec.(wire.ObjectRemoval); !ok || removal.ID != 9 {
		t.Fatalf("got %+v, want ObjectRemoval{ID:9}", rec)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
