// Copyright © 2024 Forge Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import fmath "github.com/gazed/forge/math"

// callbacks.go exposes the World's collision/constraint lifecycle as
// functional options, configuring behavior through Attr-shaped option
// funcs rather than an event-bus or an exported listener interface.

// Option configures a World at construction time.
type Option func(*World)

// OnCollision registers fn to run whenever two bodies' contact
// manifold gains at least one point this step.
func OnCollision(fn func(a, b *Body)) Option {
	return func(w *World) { w.onCollision = append(w.onCollision, fn) }
}

// OnConstraintCreated registers fn to run the first step a contact
// constraint exists for a pair (the pair began touching).
func OnConstraintCreated(fn func(a, b *Body)) Option {
	return func(w *World) { w.onConstraintCreated = append(w.onConstraintCreated, fn) }
}

// OnConstraintRemoved registers fn to run the step a previously-touching
// pair's contact constraint is torn down (the pair separated).
func OnConstraintRemoved(fn func(a, b *Body)) Option {
	return func(w *World) { w.onConstraintRemoved = append(w.onConstraintRemoved, fn) }
}

// OnConstraintBroke registers fn to run when a contact constraint's
// resolved impulse exceeds the world's BreakImpulse threshold, just
// before that constraint is torn down early. Callers of Step typically
// surface this as a Diagnostics warning.
func OnConstraintBroke(fn func(a, b *Body, impulse float64)) Option {
	return func(w *World) { w.onConstraintBroke = append(w.onConstraintBroke, fn) }
}

// OnDegenerate registers fn to run when the solver skips a contact
// point because its effective mass along the normal or tangent is
// singular (neither body has inverse mass or inverse inertia along
// that axis, as when both are static).
// Callers of Step typically surface this as a Diagnostics warning.
func OnDegenerate(fn func(a, b *Body)) Option {
	return func(w *World) { w.onDegenerate = append(w.onDegenerate, fn) }
}

// Gravity sets the world's constant linear acceleration (default is
// zero; a 2D game world has no intrinsic "down" unless the caller
// configures one).
func Gravity(g fmath.V2) Option {
	return func(w *World) { w.gravity = g }
}

// BreakImpulse sets the accumulated normal-impulse threshold above
// which a contact constraint is considered broken (default: disabled,
// i.e. no breaking).
func BreakImpulse(threshold float64) Option {
	return func(w *World) { w.breakImpulse = threshold }
}
