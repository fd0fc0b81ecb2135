// Copyright © 2024 Forge Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package wire implements a framed binary protocol: a u32 big-endian
// length prefix followed by a self-describing, tagged payload, over a
// length-prefixed TCP stream. The package is actor-free and does pure
// encode/decode only; connection handling lives above it.
package wire

import "encoding/binary"

// Tag identifies a record's payload kind, the first byte after the
// length prefix.
type Tag byte

const (
	TagObjectUpdate  Tag = 0x01
	TagObjectSpawn   Tag = 0x02
	TagObjectRemoval Tag = 0x03
	TagClientState   Tag = 0x04
	TagServerState   Tag = 0x05
	TagUnloadAck     Tag = 0x06
)

// MaxPayloadBytes is the upper bound on a single record's length
// prefix; anything beyond it is treated as malformed framing, not
// merely a large message.
const MaxPayloadBytes = 100 * 1024 * 1024

var byteOrder = binary.BigEndian
