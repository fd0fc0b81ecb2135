// Copyright © 2024 Forge Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package forge

// diagnostics.go gives every core component a construction-time sink
// for non-fatal errors instead of a package-level logger or global
// mutable singleton. It wraps log/slog rather than the bare "log"
// package.

import (
	"log/slog"
	"os"
)

// Diagnostics is the sink every error-producing constructor takes.
// Nothing in the core calls log.Fatal, os.Exit, or panics on a
// recoverable condition - it reports through here instead.
type Diagnostics struct {
	log *slog.Logger
}

// NewDiagnostics wraps the given logger. A nil logger falls back to
// slog.Default() so callers never need a nil check before use.
func NewDiagnostics(log *slog.Logger) *Diagnostics {
	if log == nil {
		log = slog.Default()
	}
	return &Diagnostics{log: log}
}

// NewTextDiagnostics is a convenience constructor writing leveled text
// to the given writer (os.Stderr if nil), for CLI/test use.
func NewTextDiagnostics(w *os.File) *Diagnostics {
	if w == nil {
		w = os.Stderr
	}
	return NewDiagnostics(slog.New(slog.NewTextHandler(w, nil)))
}

// Warn records a recoverable error: schema violations, dropped records,
// degenerate physics configurations, broken constraints, tick overruns.
func (d *Diagnostics) Warn(msg string, args ...any) {
	if d == nil || d.log == nil {
		return
	}
	d.log.Warn(msg, args...)
}

// Error records an error serious enough to end one connection or one
// tick's worth of work, but never the process.
func (d *Diagnostics) Error(msg string, args ...any) {
	if d == nil || d.log == nil {
		return
	}
	d.log.Error(msg, args...)
}

// Info records routine lifecycle events: client connected, object
// spawned/despawned, tick-loop started/stopped.
func (d *Diagnostics) Info(msg string, args ...any) {
	if d == nil || d.log == nil {
		return
	}
	d.log.Info(msg, args...)
}
