// Copyright © 2024 Forge Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package forge

import "errors"

// errors.go implements the core's error taxonomy. Each kind is a
// sentinel, wrapped with fmt.Errorf("...: %w", Err...) at the call site
// so callers can test with errors.Is while still getting a message with
// the offending id/field/tag. None of these are meant to kill the
// process - see each kind's doc comment for the required recovery
// action.

var (
	// ErrProtocolFraming: length out of range, truncated payload, or an
	// unknown tag at the outer framing level. Action: close the
	// connection; the server removes the client.
	ErrProtocolFraming = errors.New("forge: protocol framing error")

	// ErrProtocolSchema: a known tag with an invalid field payload.
	// Action: drop the record, log once; the connection survives.
	ErrProtocolSchema = errors.New("forge: protocol schema error")

	// ErrObjectNotFound: an UPDATE was received for an unknown id.
	// Action: drop the update and log a warning - this is a race with
	// a remove, not a failure.
	ErrObjectNotFound = errors.New("forge: object not found on update")

	// ErrParentUnresolved: a parent id was set but no matching object
	// exists yet. Action: hold the id as "wanted", retry resolution on
	// each real_* lookup.
	ErrParentUnresolved = errors.New("forge: parent unresolved")

	// ErrParentCycle: setting the requested parent would create a
	// cycle in the parent forest. Action: reject the assignment.
	ErrParentCycle = errors.New("forge: parent would create a cycle")

	// ErrPhysicsDegenerate: a zero-length MTV, empty contact manifold,
	// or singular effective mass. Action: skip the offending
	// constraint/pair, continue with the others.
	ErrPhysicsDegenerate = errors.New("forge: degenerate physics configuration")

	// ErrConstraintBroke: accumulated impulse exceeded the configured
	// upper clamp. Action: fire the constraint-broke callback on both
	// bodies, remove the constraint.
	ErrConstraintBroke = errors.New("forge: constraint broke")

	// ErrTickOverrun: dt exceeded 2x the tick period. Action: schedule
	// a single skipped tick, never stack catch-up ticks.
	ErrTickOverrun = errors.New("forge: tick overrun")

	// ErrTransportIO: a socket read or write failed. Action: disconnect
	// the one client; the process keeps running.
	ErrTransportIO = errors.New("forge: transport io failure")
)
