// Copyright © 2024 Forge Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import (
	"math"
	"sort"
	"unsafe"

	fmath "github.com/gazed/forge/math"
)

// World holds the live body set and steps the full pipeline: integrate
// velocities, broad phase, narrow phase, contact manifold generation,
// contact constraint setup, sequential-impulse solve, integrate
// positions, clear forces. The step order and the
// predict/broadphase/narrowphase/solve/integrate/clearForces shape
// follows a standard rigid-body step; the algorithms inside each stage
// are 2D SAT/sequential-impulse rather than 3D GJK/EPA/PBD.
type World struct {
	bodies []*Body
	gravity fmath.V2

	breakImpulse float64 // 0 disables constraint breaking.

	// pairs persisted across steps, keyed by a stable unordered-pair
	// key, so OnConstraintCreated/Removed only fire on a transition.
	pairs map[pairKey]*contact

	onCollision         []func(a, b *Body)
	onConstraintCreated []func(a, b *Body)
	onConstraintRemoved []func(a, b *Body)
	onConstraintBroke   []func(a, b *Body, impulse float64)
	onDegenerate        []func(a, b *Body)
}

// NewWorld builds an empty World.
func NewWorld(opts ...Option) *World {
	w := &World{pairs: map[pairKey]*contact{}}
	for _, o := range opts {
		o(w)
	}
	return w
}

// Add registers a body with the world.
func (w *World) Add(b *Body) { w.bodies = append(w.bodies, b) }

// Remove deregisters a body, tearing down any contact constraints it
// participates in.
func (w *World) Remove(b *Body) {
	for i, bb := range w.bodies {
		if bb == b {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			break
		}
	}
	for k, c := range w.pairs {
		if c.a == b || c.b == b {
			w.fireRemoved(c.a, c.b)
			delete(w.pairs, k)
		}
	}
}

// Bodies returns the live body set.
func (w *World) Bodies() []*Body { return w.bodies }

const (
	broadphaseMargin = 0.04
	slopPenetration  = 0.05
	slopRestitution  = 1.0
	biasFactor       = 0.2
	maxSolverIters   = 100
)

// Step advances the simulation by dt seconds.
func (w *World) Step(dt float64) {
	w.integrateVelocities(dt)

	candidates := w.broadphase()
	manifolds, collided := w.narrowphase(candidates)
	created, removed := w.updateConstraints(manifolds)
	w.solve(dt)

	// Contact callbacks fire after solving and before position
	// integration, once the step's outcome - including any constraint
	// break inside solve - is settled.
	for _, p := range collided {
		for _, fn := range w.onCollision {
			fn(p.a, p.b)
		}
	}
	for _, p := range created {
		w.fireCreated(p.a, p.b)
	}
	for _, p := range removed {
		w.fireRemoved(p.a, p.b)
	}

	w.integratePositions(dt)
	w.clearForces()
}

// integrateVelocities applies gravity and accumulated forces/torques to
// every non-static body's velocities. A static body's velocities are
// pinned at zero rather than merely left un-integrated.
func (w *World) integrateVelocities(dt float64) {
	for _, b := range w.bodies {
		if b.Static {
			b.Velocity = fmath.V2{}
			b.AngularVelocity = 0
			continue
		}
		b.Velocity = b.Velocity.Add(w.gravity.Scale(dt))
		b.Velocity = b.Velocity.Add(b.force.Scale(b.InvMass * dt))
		b.AngularVelocity += b.torque * b.InvInertia * dt
	}
}

// pair is an unordered candidate pair surfaced by the broad phase.
type pair struct{ a, b *Body }

type pairKey struct{ a, b *Body }

func keyFor(a, b *Body) pairKey {
	if uintptrOf(a) < uintptrOf(b) {
		return pairKey{a, b}
	}
	return pairKey{b, a}
}

// uintptrOf gives a stable, arbitrary ordering over body pointers so
// keyFor is commutative regardless of which order the broad phase
// discovers a pair in from one step to the next.
func uintptrOf(b *Body) uintptr { return uintptr(unsafe.Pointer(b)) }

// broadphase finds candidate overlapping pairs with a per-axis
// sweep-and-prune over margin-expanded AABBs, restricted to bodies that
// share at least one collision layer and are not both static.
func (w *World) broadphase() []pair {
	type entry struct {
		body     *Body
		min, max fmath.V2
	}
	entries := make([]entry, 0, len(w.bodies))
	for _, b := range w.bodies {
		min, max := shapeSetAABB(b, broadphaseMargin)
		entries = append(entries, entry{b, min, max})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].min.X < entries[j].min.X })

	var out []pair
	for i := range entries {
		for j := i + 1; j < len(entries); j++ {
			if entries[j].min.X > entries[i].max.X {
				break // swept past: no further candidates on the X axis.
			}
			a, b := entries[i].body, entries[j].body
			if a.Static && b.Static {
				continue
			}
			if a.Layers&b.Layers == 0 {
				continue
			}
			// Y-axis prune.
			if entries[i].max.Y < entries[j].min.Y || entries[j].max.Y < entries[i].min.Y {
				continue
			}
			out = append(out, pair{a, b})
		}
	}
	return out
}

// shapeSetAABB returns the union AABB over every shape a body carries.
func shapeSetAABB(b *Body, margin float64) (min, max fmath.V2) {
	min = fmath.V2{X: math.Inf(1), Y: math.Inf(1)}
	max = fmath.V2{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, s := range b.Shapes {
		smin, smax := s.AABB(b.Transform, margin)
		if smin.X < min.X {
			min.X = smin.X
		}
		if smin.Y < min.Y {
			min.Y = smin.Y
		}
		if smax.X > max.X {
			max.X = smax.X
		}
		if smax.Y > max.Y {
			max.Y = smax.Y
		}
	}
	return min, max
}

// manifold is the narrow-phase result for one pair: the separating
// (collision) axis and up to two clipped contact points.
type manifold struct {
	a, b     *Body
	normal   fmath.V2 // points from a to b.
	points   []contactPoint
}

type contactPoint struct {
	point         fmath.V2
	penetration   float64
	normalImpulse float64 // solver accumulator, persisted across iterations.
	tangentImpulse float64
}

// narrowphase runs SAT between each shape pair of every broad-phase
// candidate, returning pairs with positive overlap and the list of
// body pairs that collided (for the caller to fire onCollision against
// once the step's solve has settled).
func (w *World) narrowphase(candidates []pair) ([]*manifold, []pair) {
	var out []*manifold
	var collided []pair
	for _, c := range candidates {
		for _, sa := range c.a.Shapes {
			for _, sb := range c.b.Shapes {
				if m := satCollide(c.a, sa, c.b, sb); m != nil {
					out = append(out, m)
					collided = append(collided, pair{c.a, c.b})
				}
			}
		}
	}
	return out, collided
}

type contact struct {
	a, b    *Body
	m       *manifold
}

// updateConstraints reconciles this step's manifolds against the
// persisted pair table: a contact constraint exists for as long as a
// pair's manifold is non-empty. It returns the pairs whose constraint
// was just created or torn down, for the caller to fire
// OnConstraintCreated/Removed against once solve has settled.
func (w *World) updateConstraints(manifolds []*manifold) (created, removed []pair) {
	seen := map[pairKey]bool{}
	for _, m := range manifolds {
		k := keyFor(m.a, m.b)
		seen[k] = true
		if existing, ok := w.pairs[k]; ok {
			existing.m = m
		} else {
			w.pairs[k] = &contact{a: m.a, b: m.b, m: m}
			created = append(created, pair{m.a, m.b})
		}
	}
	for k, c := range w.pairs {
		if !seen[k] {
			removed = append(removed, pair{c.a, c.b})
			delete(w.pairs, k)
		}
	}
	return created, removed
}

func (w *World) fireCreated(a, b *Body) {
	for _, fn := range w.onConstraintCreated {
		fn(a, b)
	}
}

func (w *World) fireRemoved(a, b *Body) {
	for _, fn := range w.onConstraintRemoved {
		fn(a, b)
	}
}

func (w *World) fireDegenerate(a, b *Body) {
	for _, fn := range w.onDegenerate {
		fn(a, b)
	}
}

// solve runs the sequential-impulse solver over every live contact
// constraint: normal (non-penetration, Baumgarte-biased) and friction
// constraints, iterated until accumulated-impulse change falls below a
// dt-scaled convergence threshold or maxSolverIters is reached.
func (w *World) solve(dt float64) {
	threshold := 0.1 * math.Pow(10, -dt)
	for iter := 0; iter < maxSolverIters; iter++ {
		maxDelta := 0.0
		for _, c := range w.pairs {
			delta := w.resolveContact(c, dt)
			if delta > maxDelta {
				maxDelta = delta
			}
		}
		if maxDelta < threshold {
			break
		}
	}
	if w.breakImpulse <= 0 {
		return
	}
	for k, c := range w.pairs {
		total := 0.0
		for _, p := range c.m.points {
			total += p.normalImpulse
		}
		if total > w.breakImpulse {
			for _, fn := range w.onConstraintBroke {
				fn(c.a, c.b, total)
			}
			delete(w.pairs, k)
		}
	}
}

// resolveContact applies one sequential-impulse pass over every point
// in c's manifold, returning the largest impulse delta observed (used
// as the solve loop's convergence signal).
func (w *World) resolveContact(c *contact, dt float64) float64 {
	a, b, m := c.a, c.b, c.m
	restitution := math.Min(a.Restitution, b.Restitution)
	friction := math.Sqrt(a.Friction * b.Friction)
	maxDelta := 0.0

	for i := range m.points {
		p := &m.points[i]
		ra := p.point.Sub(a.Transform.Pos)
		rb := p.point.Sub(b.Transform.Pos)

		relVel := relativeVelocity(a, b, ra, rb)
		velAlongNormal := relVel.Dot(m.normal)

		bias := 0.0
		if p.penetration > slopPenetration {
			bias = biasFactor / dt * (p.penetration - slopPenetration)
		}
		var restBias float64
		if velAlongNormal < -slopRestitution {
			restBias = -restitution * velAlongNormal
		}

		invMassSum := a.InvMass + b.InvMass +
			a.InvInertia*square(ra.Cross(m.normal)) +
			b.InvInertia*square(rb.Cross(m.normal))
		if invMassSum == 0 {
			w.fireDegenerate(a, b)
			continue
		}

		lambda := (-velAlongNormal + bias + restBias) / invMassSum
		newImpulse := math.Max(p.normalImpulse+lambda, 0)
		delta := newImpulse - p.normalImpulse
		p.normalImpulse = newImpulse
		if d := math.Abs(delta); d > maxDelta {
			maxDelta = d
		}

		impulse := m.normal.Scale(delta)
		a.ApplyImpulse(impulse.Neg(), ra)
		b.ApplyImpulse(impulse, rb)

		// friction, clamped to the Coulomb cone of the current normal impulse.
		relVel = relativeVelocity(a, b, ra, rb)
		tangent := relVel.Sub(m.normal.Scale(relVel.Dot(m.normal)))
		if tangent.LengthSq() < fmath.Epsilon {
			continue
		}
		tangent = tangent.Normalize()
		tInvMassSum := a.InvMass + b.InvMass +
			a.InvInertia*square(ra.Cross(tangent)) +
			b.InvInertia*square(rb.Cross(tangent))
		if tInvMassSum == 0 {
			w.fireDegenerate(a, b)
			continue
		}
		tLambda := -relVel.Dot(tangent) / tInvMassSum
		maxFriction := friction * p.normalImpulse
		newTangentImpulse := clamp(p.tangentImpulse+tLambda, -maxFriction, maxFriction)
		tDelta := newTangentImpulse - p.tangentImpulse
		p.tangentImpulse = newTangentImpulse

		tImpulse := tangent.Scale(tDelta)
		a.ApplyImpulse(tImpulse.Neg(), ra)
		b.ApplyImpulse(tImpulse, rb)
	}
	return maxDelta
}

func relativeVelocity(a, b *Body, ra, rb fmath.V2) fmath.V2 {
	va := a.Velocity.Add(fmath.CrossScalar(a.AngularVelocity, ra))
	vb := b.Velocity.Add(fmath.CrossScalar(b.AngularVelocity, rb))
	return vb.Sub(va)
}

func square(x float64) float64 { return x * x }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// integratePositions applies final velocities to body transforms,
// guarding against sub-threshold numerical noise so resting bodies do
// not drift (a 1e-5 magnitude guard).
func (w *World) integratePositions(dt float64) {
	const guard = 1e-5
	for _, b := range w.bodies {
		if b.Static {
			continue
		}
		if b.Velocity.LengthSq() > guard*guard {
			b.Transform.Pos = b.Transform.Pos.Add(b.Velocity.Scale(dt))
		}
		if math.Abs(b.AngularVelocity) > guard {
			b.Transform.Rot = fmath.Nang(b.Transform.Rot + b.AngularVelocity*dt)
		}
	}
}

func (w *World) clearForces() {
	for _, b := range w.bodies {
		b.clearForces()
	}
}
