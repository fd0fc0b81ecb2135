// Copyright © 2024 Forge Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package physics

import (
	"math"

	fmath "github.com/gazed/forge/math"
)

// satCollide runs the separating-axis test between two shapes and, if
// they overlap, builds a contact manifold via reference/incident edge
// clipping. Circle-circle is handled as a direct distance test; any
// pairing involving a circle against a polygon treats the circle as a
// synthetic triangle (Shape.WorldVertices) so the same SAT/clipping
// code serves every shape combination.
func satCollide(bodyA *Body, shapeA *Shape, bodyB *Body, shapeB *Shape) *manifold {
	if shapeA.Kind == ShapeCircle && shapeB.Kind == ShapeCircle {
		return circleCircle(bodyA, shapeA, bodyB, shapeB)
	}

	axis := bodyB.Transform.Pos.Sub(bodyA.Transform.Pos)
	if axis.LengthSq() < fmath.Epsilon {
		axis = fmath.V2{X: 1}
	} else {
		axis = axis.Normalize()
	}
	vertsA := shapeA.WorldVertices(bodyA.Transform, axis)
	vertsB := shapeB.WorldVertices(bodyB.Transform, axis.Neg())

	normalsA := WorldEdgeNormals(vertsA)
	normalsB := WorldEdgeNormals(vertsB)

	sepA, faceA := maxSeparation(vertsA, normalsA, vertsB)
	if sepA > 0 {
		return nil
	}
	sepB, faceB := maxSeparation(vertsB, normalsB, vertsA)
	if sepB > 0 {
		return nil
	}

	var refVerts, incVerts []fmath.V2
	var refNormals []fmath.V2
	var refFace int
	var normal fmath.V2
	var flip bool
	if sepB > sepA+1e-4 {
		refVerts, refNormals, refFace = vertsB, normalsB, faceB
		incVerts = vertsA
		normal = normalsB[faceB]
		flip = true
	} else {
		refVerts, refNormals, refFace = vertsA, normalsA, faceA
		incVerts = vertsB
		normal = normalsA[faceA]
	}

	clipped := clipIncidentFace(refVerts, refNormals, refFace, incVerts)
	if len(clipped) == 0 {
		return nil
	}

	refA := refVerts[refFace]
	var points []contactPoint
	for _, p := range clipped {
		depth := refA.Sub(p).Dot(normal)
		if depth < 0 {
			continue
		}
		points = append(points, contactPoint{point: p, penetration: depth})
	}
	if len(points) == 0 {
		return nil
	}
	if flip {
		normal = normal.Neg()
	}
	return &manifold{a: bodyA, b: bodyB, normal: normal, points: points}
}

// circleCircle resolves a circle-circle pair directly; no clipping is
// needed since the manifold is always a single point.
func circleCircle(bodyA *Body, shapeA *Shape, bodyB *Body, shapeB *Shape) *manifold {
	delta := bodyB.Transform.Pos.Sub(bodyA.Transform.Pos)
	dist := delta.Length()
	radii := shapeA.Radius + shapeB.Radius
	if dist >= radii {
		return nil
	}
	var normal fmath.V2
	if dist < fmath.Epsilon {
		normal = fmath.V2{X: 1}
	} else {
		normal = delta.Scale(1 / dist)
	}
	point := bodyA.Transform.Pos.Add(normal.Scale(shapeA.Radius))
	return &manifold{
		a: bodyA, b: bodyB, normal: normal,
		points: []contactPoint{{point: point, penetration: radii - dist}},
	}
}

// maxSeparation returns the largest (least negative, or positive if
// separated) distance from any edge of verts to the closest vertex of
// other, and the index of the edge that achieves it - the SAT
// reference-face search.
func maxSeparation(verts, normals []fmath.V2, other []fmath.V2) (best float64, bestFace int) {
	best = math.Inf(-1)
	for i, n := range normals {
		v := verts[i]
		minDist := math.Inf(1)
		for _, p := range other {
			d := n.Dot(p.Sub(v))
			if d < minDist {
				minDist = d
			}
		}
		if minDist > best {
			best = minDist
			bestFace = i
		}
	}
	return best, bestFace
}

// clipIncidentFace finds the incident edge of incVerts (the one most
// anti-parallel to the reference face's normal) and clips it against
// the reference face's side planes, returning up to two contact
// points.
func clipIncidentFace(refVerts, refNormals []fmath.V2, refFace int, incVerts []fmath.V2) []fmath.V2 {
	refNormal := refNormals[refFace]

	// find the incident edge: the one whose normal is most anti-parallel.
	incNormals := WorldEdgeNormals(incVerts)
	incEdge := 0
	minDot := math.Inf(1)
	for i, n := range incNormals {
		d := n.Dot(refNormal)
		if d < minDot {
			minDot = d
			incEdge = i
		}
	}
	v1 := incVerts[incEdge]
	v2 := incVerts[(incEdge+1)%len(incVerts)]
	points := []fmath.V2{v1, v2}

	refV1 := refVerts[refFace]
	refV2 := refVerts[(refFace+1)%len(refVerts)]
	tangent := refV2.Sub(refV1).Normalize()

	// clip against the first side plane.
	points = clipSegment(points, tangent.Neg(), -tangent.Dot(refV1))
	if len(points) < 2 {
		return nil
	}
	// clip against the second side plane.
	points = clipSegment(points, tangent, tangent.Dot(refV2))
	if len(points) < 2 {
		return nil
	}

	// drop any point that lies in front of (outside) the reference face.
	out := points[:0]
	for _, p := range points {
		if refNormal.Dot(p.Sub(refV1)) <= 0 {
			out = append(out, p)
		}
	}
	return out
}

// clipSegment clips the two-point segment points against the half
// plane { x : normal . x - offset <= 0 }, returning the (possibly new)
// pair of points that remain. Standard Sutherland-Hodgman clip
// specialized to a two-point polygon.
func clipSegment(points []fmath.V2, normal fmath.V2, offset float64) []fmath.V2 {
	if len(points) != 2 {
		return nil
	}
	d0 := normal.Dot(points[0]) - offset
	d1 := normal.Dot(points[1]) - offset

	var out []fmath.V2
	if d0 <= 0 {
		out = append(out, points[0])
	}
	if d1 <= 0 {
		out = append(out, points[1])
	}
	if d0*d1 < 0 {
		t := d0 / (d0 - d1)
		out = append(out, points[0].Add(points[1].Sub(points[0]).Scale(t)))
	}
	return out
}
