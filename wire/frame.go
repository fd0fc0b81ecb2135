// Copyright © 2024 Forge Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package wire

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// FrameWriter serializes Records onto an underlying stream as
// length-prefixed frames: u32 big-endian length, then tag byte, then
// body.
type FrameWriter struct {
	w   io.Writer
	buf bytes.Buffer // reused across writes to avoid reallocating per record.
}

// NewFrameWriter wraps w. w is typically a net.Conn or a buffered
// writer over one.
func NewFrameWriter(w io.Writer) *FrameWriter { return &FrameWriter{w: w} }

// WriteRecord encodes rec and writes it as one framed message. The
// record is first serialized into an internal buffer so the length
// prefix can be computed before anything reaches w; a write failure
// partway through a frame therefore never leaves a half-written length
// prefix on the wire.
func (fw *FrameWriter) WriteRecord(rec Record) error {
	fw.buf.Reset()
	fw.buf.WriteByte(byte(rec.Tag()))
	if err := rec.encode(&fw.buf); err != nil {
		return err
	}
	if fw.buf.Len() > MaxPayloadBytes {
		return fmt.Errorf("%w: encoded record too large (%d bytes)", ErrFraming, fw.buf.Len())
	}
	var lenPrefix [4]byte
	byteOrder.PutUint32(lenPrefix[:], uint32(fw.buf.Len()))
	if _, err := fw.w.Write(lenPrefix[:]); err != nil {
		return err
	}
	_, err := fw.w.Write(fw.buf.Bytes())
	return err
}

// FrameReader deserializes Records from an underlying stream. Each
// call to ReadRecord blocks (via io.ReadFull) until either a complete
// frame is available or the stream errors; the caller sees that as one
// atomic unit rather than needing to track partial reads itself.
type FrameReader struct {
	r   io.Reader
	buf []byte // reused scratch space, grown to the largest frame seen.
}

// NewFrameReader wraps r.
func NewFrameReader(r io.Reader) *FrameReader { return &FrameReader{r: r} }

// ReadRecord reads one framed message and decodes it. It returns
// ErrFraming (wrapping the underlying cause) for a malformed length
// prefix or a truncated payload - both treated as connection-ending.
// It returns ErrUnknownTag, unwrapped from DecodeRecord, for a tag the
// protocol does not define - the caller should skip that record and
// keep reading, not close the connection.
func (fr *FrameReader) ReadRecord() (Record, error) {
	var lenPrefix [4]byte
	if _, err := io.ReadFull(fr.r, lenPrefix[:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFraming, err)
	}
	n := byteOrder.Uint32(lenPrefix[:])
	if n == 0 || n > MaxPayloadBytes {
		return nil, fmt.Errorf("%w: invalid length %d", ErrFraming, n)
	}
	if cap(fr.buf) < int(n) {
		fr.buf = make([]byte, n)
	}
	payload := fr.buf[:n]
	if _, err := io.ReadFull(fr.r, payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFraming, err)
	}
	tag := Tag(payload[0])
	rec, err := DecodeRecord(tag, payload[1:])
	if err != nil {
		if errors.Is(err, ErrUnknownTag) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrSchema, err)
	}
	return rec, nil
}
