// Copyright © 2024 Forge Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package wire

import (
	"bytes"
	"fmt"
	"io"
	"math"
)

func writeByte(w io.Writer, b byte) error {
	_, err := w.Write([]byte{b})
	return err
}

func writeU16(w io.Writer, v uint16) error {
	var buf [2]byte
	byteOrder.PutUint16(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func writeI32(w io.Writer, v int32) error {
	var buf [4]byte
	byteOrder.PutUint32(buf[:], uint32(v))
	_, err := w.Write(buf[:])
	return err
}

func writeF64(w io.Writer, v float64) error {
	var buf [8]byte
	byteOrder.PutUint64(buf[:], math.Float64bits(v))
	_, err := w.Write(buf[:])
	return err
}

func writeString(w io.Writer, s string) error {
	if len(s) > 0xFFFF {
		return fmt.Errorf("%w: string too long (%d)", ErrSchema, len(s))
	}
	if err := writeU16(w, uint16(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readU16(r *bytes.Reader) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSchema, err)
	}
	return byteOrder.Uint16(buf[:]), nil
}

func readI32(r *bytes.Reader) (int32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSchema, err)
	}
	return int32(byteOrder.Uint32(buf[:])), nil
}

func readF64(r *bytes.Reader) (float64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSchema, err)
	}
	return math.Float64frombits(byteOrder.Uint64(buf[:])), nil
}

func readString(r *bytes.Reader) (string, error) {
	n, err := readU16(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("%w: %w", ErrSchema, err)
	}
	return string(buf), nil
}
