// Copyright © 2024 Forge Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package forge

// unload.go implements the client-side unload strategy: a per-object
// timer advances while the object is out of range; once it exceeds
// unloadTime the client emits UNLOAD_ACK(id) and removes the object
// locally. It is deliberately not an UpdateStrategy - it never touches
// the wire-field map, only local object lifecycle - so it runs as its
// own per-tick pass over the handler instead of through the
// Object.Strategies() list.
type UnloadTracker struct {
	elapsed map[int32]float64
}

// NewUnloadTracker builds an empty tracker.
func NewUnloadTracker() *UnloadTracker { return &UnloadTracker{elapsed: map[int32]float64{}} }

// Tick advances every tracked object's out-of-range timer by dt and
// returns the ids that just crossed unloadTime. The caller is expected
// to send UNLOAD_ACK for each returned id and then remove the object
// from its local handler.
func (u *UnloadTracker) Tick(h *Handler, cam Camera, sendRange, unloadTime, dt float64) []int32 {
	var expired []int32
	h.Each(func(o *Object) bool {
		if o.AlwaysLoaded() || inRangeOfCamera(o, cam, sendRange) {
			delete(u.elapsed, o.ID())
			return true
		}
		u.elapsed[o.ID()] += dt
		if u.elapsed[o.ID()] >= unloadTime {
			expired = append(expired, o.ID())
			delete(u.elapsed, o.ID())
		}
		return true
	})
	return expired
}

// Forget drops any tracked timer for id, called once the object has
// actually been removed (whether by unload or by a server REMOVE).
func (u *UnloadTracker) Forget(id int32) { delete(u.elapsed, id) }

func inRangeOfCamera(o *Object, cam Camera, sendRange float64) bool {
	reach := o.BoundingRadius() + cam.Radius()*sendRange
	return reach*reach >= cam.DistanceSq(o.RealPosition())
}
