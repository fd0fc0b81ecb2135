// Copyright © 2024 Forge Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import fmath "github.com/gazed/forge/math"

// Body is a single rigid body: mass, moment of inertia, force/torque
// accumulators reset every tick, and the material properties the
// solver's contact constraints read. Reduced from a 3D rigid body
// (mass, inertia tensor, damping, world transform) to 2D.
type Body struct {
	Transform fmath.Transform
	Velocity  fmath.V2
	AngularVelocity float64

	force  fmath.V2
	torque float64

	Mass       float64
	InvMass    float64
	Inertia    float64
	InvInertia float64

	Restitution float64 // bounciness, [0,1].
	Friction    float64 // Coulomb friction coefficient.

	Static bool // infinite mass; never moved by the solver.
	Layers uint32 // collision-layer bitmask.

	Shapes []*Shape

	// UserData lets the owning package (forge) attach its Object back
	// without physics importing forge.
	UserData interface{}
}

// NewBody constructs a dynamic body of the given mass with shapes. Pass
// mass <= 0 to build a static body (infinite mass, never integrated).
func NewBody(mass float64, shapes ...*Shape) *Body {
	b := &Body{
		Transform:   fmath.Identity(),
		Mass:        mass,
		Shapes:      shapes,
		Restitution: 0.2,
		Friction:    0.3,
		Layers:      1,
	}
	if mass <= 0 {
		b.Static = true
		b.InvMass = 0
	} else {
		b.InvMass = 1 / mass
	}
	b.Inertia, b.InvInertia = b.computeInertia()
	return b
}

// computeInertia sums the moment of inertia of every attached shape
// about the body's own origin (parallel-axis not needed, shapes are
// body-local already). Static bodies carry zero inverse inertia.
func (b *Body) computeInertia() (inertia, invInertia float64) {
	if b.Static || b.Mass <= 0 {
		return 0, 0
	}
	var sum float64
	for _, s := range b.Shapes {
		switch s.Kind {
		case ShapeCircle:
			sum += 0.5 * b.Mass * s.Radius * s.Radius
		case ShapePolygon:
			sum += polygonInertia(b.Mass, s.LocalVertices)
		}
	}
	if sum <= 0 {
		return 0, 0
	}
	return sum, 1 / sum
}

// polygonInertia approximates the moment of inertia of a convex
// polygon of uniform density mass, about the origin its vertices are
// expressed in (the body's origin).
func polygonInertia(mass float64, verts []fmath.V2) float64 {
	if len(verts) < 3 {
		return 0
	}
	var numer, denom float64
	for i := range verts {
		a, b := verts[i], verts[(i+1)%len(verts)]
		cross := a.Cross(b)
		numer += cross * (a.Dot(a) + a.Dot(b) + b.Dot(b))
		denom += cross
	}
	if denom == 0 {
		return 0
	}
	return mass * numer / (6 * denom)
}

// ApplyForce accumulates a force acting through the body's center of
// mass, cleared at the end of every Step.
func (b *Body) ApplyForce(f fmath.V2) {
	if b.Static {
		return
	}
	b.force = b.force.Add(f)
}

// ApplyTorque accumulates a torque, cleared at the end of every Step.
func (b *Body) ApplyTorque(t float64) {
	if b.Static {
		return
	}
	b.torque += t
}

// ApplyImpulse applies an instantaneous linear impulse at a point
// offset r from the body's center of mass, used by the solver's
// sequential-impulse pass.
func (b *Body) ApplyImpulse(impulse, r fmath.V2) {
	if b.Static {
		return
	}
	b.Velocity = b.Velocity.Add(impulse.Scale(b.InvMass))
	b.AngularVelocity += b.InvInertia * r.Cross(impulse)
}

// BoundingRadius returns the farthest distance any attached shape's
// silhouette reaches from the body's origin, used by replication's
// in-range test.
func (b *Body) BoundingRadius() float64 {
	var max float64
	for _, s := range b.Shapes {
		switch s.Kind {
		case ShapeCircle:
			if s.Radius > max {
				max = s.Radius
			}
		case ShapePolygon:
			for _, v := range s.LocalVertices {
				if l := v.Length(); l > max {
					max = l
				}
			}
		}
	}
	return max
}

func (b *Body) clearForces() {
	b.force = fmath.Zero
	b.torque = 0
}
