// Copyright © 2024 Forge Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package forge

import "github.com/gazed/forge/math"

// Camera is a 2D pose and footprint: replication's in-range test only
// needs position, viewport size and rotation, not a full view/projection
// pair.
type Camera struct {
	Pos  math.V2
	Size math.V2 // viewport width/height in world units.
	Rot  float64
}

// Radius returns the camera's bounding radius: half the length of its
// viewport diagonal, used by the in-range test.
func (c Camera) Radius() float64 {
	return c.Size.Length() / 2
}

// DistanceSq returns the squared distance from the camera to p, cheaper
// than Distance and sufficient for range comparisons.
func (c Camera) DistanceSq(p math.V2) float64 {
	return c.Pos.DistanceSq(p)
}
