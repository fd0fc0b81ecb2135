// Copyright © 2024 Forge Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package forge

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestDiagnosticsNilReceiverIsSafe(t *testing.T) {
	var d *Diagnostics
	d.Warn("warn")
	d.Error("error")
	d.Info("info")
}

func TestNewDiagnosticsFallsBackOnNilLogger(t *testing.T) {
	d := NewDiagnostics(nil)
	if d.log == nil {
		t.Fatalf("expected NewDiagnostics(nil) to fall back to slog.Default()")
	}
	d.Info("should not panic")
}

func TestDiagnosticsWarnWritesThroughGivenLogger(t *testing.T) {
	var buf bytes.Buffer
	d := NewDiagnostics(slog.New(slog.NewTextHandler(&buf, nil)))
	d.Warn("tick overrun", "dt", 0.5)

	out := buf.String()
	if !strings.Contains(out, "tick overrun") || !strings.Contains(out, "dt=0.5") {
		t.Fatalf("expected warn log to contain message and args, got: %s", out)
	}
}
