// Copyright © 2024 Forge Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package math

import "testing"

// TestComposeChain verifies property 3 from the testable-properties
// list: for a chain A->B->C, the composed real position of C equals
// the sequential composition of local transforms.
func TestComposeChain(t *testing.T) {
	a := Transform{Pos: V2{10, 0}, Rot: Pi / 2, Scale: One}
	bLocal := Transform{Pos: V2{1, 0}, Rot: 0, Scale: One}
	cLocal := Transform{Pos: V2{1, 0}, Rot: 0, Scale: One}

	b := Compose(a, bLocal)
	c := Compose(b, cLocal)

	// a is rotated 90 degrees, so its local +X axis points along +Y.
	wantB := V2{10, 1}
	wantC := V2{10, 2}
	if !b.Pos.Aeq(wantB) {
		t.Errorf("b.Pos = %v, want %v", b.Pos, wantB)
	}
	if !c.Pos.Aeq(wantC) {
		t.Errorf("c.Pos = %v, want %v", c.Pos, wantC)
	}
}

func TestComposeIdentity(t *testing.T) {
	local := Transform{Pos: V2{5, -3}, Rot: 1.2, Scale: V2{2, 3}}
	got := Compose(Identity(), local)
	if !got.Pos.Aeq(local.Pos) || !Aeq(got.Rot, local.Rot) || !got.Scale.Aeq(local.Scale) {
		t.Errorf("composing with identity changed the transform: got %+v want %+v", got, local)
	}
}

func TestComposeScale(t *testing.T) {
	parent := Transform{Pos: Zero, Rot: 0, Scale: V2{2, 2}}
	local := Transform{Pos: V2{1, 0}, Rot: 0, Scale: One}
	got := Compose(parent, local)
	want := V2{2, 0} // parent scale is applied to the local offset.
	if !got.Pos.Aeq(want) {
		t.Errorf("got %v want %v", got.Pos, want)
	}
}
