// Copyright © 2024 Forge Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package wire

import "errors"

// ErrFraming: the outer length prefix was malformed (<=0 or greater
// than MaxPayloadBytes) or the payload was truncated before the
// declared length was fully read. Recovery: close the connection.
var ErrFraming = errors.New("wire: framing error")

// ErrSchema: the payload's tag was recognized but its body did not
// decode, or carried a kind/count wire format does not support.
// Recovery: drop the record, keep the connection.
var ErrSchema = errors.New("wire: schema error")

// ErrUnknownTag is returned by Decode for a tag byte the protocol does
// not define. This is not fatal: an unknown tag is skipped for forward
// compatibility at record granularity - callers should treat it as
// "ignore this record" rather than tearing down the connection.
var ErrUnknownTag = errors.New("wire: unknown record tag")
