package render

import (
	"math"

	"github.com/EBonura/bonnie-engine/pkg/math3d"
)

// baryEval solves barycentric coordinates against one fixed triangle.
// The edge vectors and the denominator depend only on the triangle, so
// they are computed once here and each pixel pays only for the two
// point-dependent dot products. The arithmetic mirrors barycentric
// exactly, term for term, so both paths place the same pixels.
type baryEval struct {
	x0, y0   float64
	v0x, v0y float64 // vertex 0 to vertex 2
	v1x, v1y float64 // vertex 0 to vertex 1

	dot00, dot01, dot11 float64
	invDenom            float64
	degenerate          bool
}

// newBaryEval precomputes the triangle-constant terms of the solve.
func newBaryEval(x0, y0, x1, y1, x2, y2 float64) baryEval {
	e := baryEval{x0: x0, y0: y0}
	e.v0x, e.v0y = x2-x0, y2-y0
	e.v1x, e.v1y = x1-x0, y1-y0

	e.dot00 = e.v0x*e.v0x + e.v0y*e.v0y
	e.dot01 = e.v0x*e.v1x + e.v0y*e.v1y
	e.dot11 = e.v1x*e.v1x + e.v1y*e.v1y

	denom := e.dot00*e.dot11 - e.dot01*e.dot01
	if math.Abs(denom) < 1e-10 {
		e.degenerate = true
		return e
	}
	e.invDenom = 1.0 / denom
	return e
}

// at returns the barycentric coordinates of (px, py), ordered to match
// the triangle's vertex order. Degenerate triangles return (-1, -1, -1),
// which fails every inside test.
func (e *baryEval) at(px, py float64) math3d.Vec3 {
	if e.degenerate {
		return math3d.V3(-1, -1, -1)
	}

	v2x, v2y := px-e.x0, py-e.y0
	dot02 := e.v0x*v2x + e.v0y*v2y
	dot12 := e.v1x*v2x + e.v1y*v2y

	u := (e.dot11*dot02 - e.dot01*dot12) * e.invDenom
	v := (e.dot00*dot12 - e.dot01*dot02) * e.invDenom

	return math3d.V3(1-u-v, v, u)
}

// barycentric calculates barycentric coordinates for point (px, py) in
// the triangle (x0, y0), (x1, y1), (x2, y2). One-shot form of baryEval
// for callers outside a pixel loop.
func barycentric(x0, y0, x1, y1, x2, y2, px, py float64) math3d.Vec3 {
	e := newBaryEval(x0, y0, x1, y1, x2, y2)
	return e.at(px, py)
}
