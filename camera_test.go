// Copyright © 2024 Forge Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package forge

import (
	"testing"

	"github.com/gazed/forge/math"
)

func TestCameraRadiusIsHalfDiagonal(t *testing.T) {
	c := Camera{Size: math.V2{X: 6, Y: 8}}
	if got := c.Radius(); got != 5 {
		t.Fatalf("expected radius 5 (half of a 6-8-10 diagonal), got %v", got)
	}
}

func TestCameraDistanceSq(t *testing.T) {
	c := Camera{Pos: math.V2{X: 0, Y: 0}}
	if got := c.DistanceSq(math.V2{X: 3, Y: 4}); got != 25 {
		t.Fatalf("expected distance^2 25, got %v", got)
	}
}
