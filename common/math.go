package common

import "github.com/jakecoffman/cp"

// PolygonArea returns the signed shoelace area of a closed vertex loop.
// Counter-clockwise loops are positive.
func PolygonArea(verts []cp.Vector) float64 {
	n := len(verts)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += verts[i].Cross(verts[(i+1)%n])
	}
	return 0.5 * sum
}

// CircleArea returns the area of a solid disk of radius r.
func CircleArea(r float64) float64 {
	return cp.AreaForCircle(0, r)
}

// PolygonMoment returns the moment of inertia of a solid polygon of the given
// mass about pivot. The result does not depend on winding.
func PolygonMoment(verts []cp.Vector, mass float64, pivot cp.Vector) float64 {
	if len(verts) < 3 || mass == 0 || PolygonArea(verts) == 0 {
		return 0
	}
	return cp.MomentForPoly(mass, len(verts), verts, pivot.Neg(), 0)
}

// CircleMoment returns the moment of inertia of an annulus (innerR = 0 for a
// solid disk) whose center sits at offset from the rotation axis.
func CircleMoment(mass, innerR, outerR float64, offset cp.Vector) float64 {
	return cp.MomentForCircle(mass, innerR, outerR, offset)
}

// ScaleVertices divides every vertex by factor in place.
func ScaleVertices(verts []cp.Vector, factor float64) {
	if factor == 0 || factor == 1 {
		return
	}
	for i := range verts {
		verts[i] = verts[i].Mult(1 / factor)
	}
}
