// Copyright © 2024 Forge Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package math

// Transform is a 2D position, rotation and scale. It is used both as a
// standalone (world/"real") transform and as a parent-relative (local)
// transform; Compose combines the two: rotation adds, position rotates
// then translates, scale multiplies element-wise.
type Transform struct {
	Pos   V2
	Rot   float64 // radians
	Scale V2
}

// Identity is the neutral transform: no translation, no rotation, unit scale.
func Identity() Transform { return Transform{Pos: Zero, Rot: 0, Scale: One} }

// Compose returns the world transform of a child whose local transform
// is `local`, given its parent's already-resolved world transform
// `parent`. Scale composes element-wise, rotation adds, and the local
// position is rotated by the parent's rotation before being translated
// by the parent's position - so a parent's rotation and scale affect
// where the child ends up, the standard scene-graph transform chain.
func Compose(parent, local Transform) Transform {
	rotated := local.Pos.Mul(parent.Scale).Rotate(parent.Rot)
	return Transform{
		Pos:   parent.Pos.Add(rotated),
		Rot:   Nang(parent.Rot + local.Rot),
		Scale: V2{parent.Scale.X * local.Scale.X, parent.Scale.Y * local.Scale.Y},
	}
}
