package render

import (
	"math"

	"github.com/EBonura/bonnie-engine/pkg/math3d"
)

// Plane represents a plane in 3D space using the equation
// Ax + By + Cz + D = 0, where (A, B, C) is the normal.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// Normalize normalizes the plane equation so the normal has unit length.
func (p *Plane) Normalize() {
	len := p.Normal.Len()
	if len == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1.0 / len)
	p.D /= len
}

// DistanceToPoint returns the signed distance from the plane to a point.
// Positive = in front (same side as normal), negative = behind.
func (p Plane) DistanceToPoint(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Frustum is the visible volume of a camera: the near plane plus the
// four side planes, normals pointing inward. There is no far plane; the
// pipeline draws arbitrarily deep.
type Frustum struct {
	Planes [5]Plane
}

// Frustum plane indices. Left/right/top/bottom name image edges.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
)

// NewFrustum builds the view frustum for a camera rendering at the
// given pixel dimensions. Side planes pass through the camera position;
// the near plane sits at the rasterizer's near distance.
func NewFrustum(c *Camera, width, height int) Frustum {
	var f Frustum

	// Half-extent tangents of the image at unit depth. The vertical
	// FOV fixes tanV; the aspect ratio stretches it horizontally.
	tanV := math.Tan(c.FOV / 2)
	tanH := tanV * float64(width) / float64(height)

	// Side-plane normals in camera space, rotated to world through the
	// basis. Screen X grows with camera X, screen Y with camera Y, so
	// (-1, 0, tanH) bounds the right image edge and (0, -1, tanV) the
	// bottom.
	sides := [4]struct {
		idx    int
		normal math3d.Vec3
	}{
		{FrustumLeft, math3d.V3(1, 0, tanH)},
		{FrustumRight, math3d.V3(-1, 0, tanH)},
		{FrustumBottom, math3d.V3(0, -1, tanV)},
		{FrustumTop, math3d.V3(0, 1, tanV)},
	}
	for _, s := range sides {
		n := c.Right.Scale(s.normal.X).
			Add(c.Up.Scale(s.normal.Y)).
			Add(c.Forward.Scale(s.normal.Z)).
			Normalize()
		f.Planes[s.idx] = Plane{Normal: n, D: -n.Dot(c.Position)}
	}

	f.Planes[FrustumNear] = Plane{
		Normal: c.Forward,
		D:      -c.Forward.Dot(c.Position) - NearPlane,
	}

	return f
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// NewAABB creates an AABB from min and max points.
func NewAABB(min, max math3d.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// Center returns the center of the AABB.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the dimensions of the AABB.
func (b AABB) Size() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}

// HalfSize returns half the dimensions (extents from center).
func (b AABB) HalfSize() math3d.Vec3 {
	return b.Size().Scale(0.5)
}

// Union returns the smallest AABB containing both boxes.
func (b AABB) Union(o AABB) AABB {
	return AABB{
		Min: b.Min.Min(o.Min),
		Max: b.Max.Max(o.Max),
	}
}

// Transform returns an AABB that bounds the original box after
// transformation, computed from all 8 transformed corners.
func (b AABB) Transform(m math3d.Mat4) AABB {
	corners := [8]math3d.Vec3{
		{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Max.Z},
	}

	transformed := m.MulVec3(corners[0])
	newMin := transformed
	newMax := transformed

	for i := 1; i < 8; i++ {
		transformed = m.MulVec3(corners[i])
		newMin = newMin.Min(transformed)
		newMax = newMax.Max(transformed)
	}

	return AABB{Min: newMin, Max: newMax}
}

// ContainsPoint returns true if the point is inside the AABB.
func (b AABB) ContainsPoint(p math3d.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// IntersectsAABB tests if any part of the AABB is inside the frustum.
// Uses the "positive vertex" optimization for fast rejection.
func (f Frustum) IntersectsAABB(box AABB) bool {
	for i := range f.Planes {
		plane := f.Planes[i]

		// The positive vertex is the corner furthest along the plane
		// normal. If even it is behind the plane, the box is out.
		pVertex := math3d.V3(
			selectComponent(plane.Normal.X >= 0, box.Max.X, box.Min.X),
			selectComponent(plane.Normal.Y >= 0, box.Max.Y, box.Min.Y),
			selectComponent(plane.Normal.Z >= 0, box.Max.Z, box.Min.Z),
		)

		if plane.DistanceToPoint(pVertex) < 0 {
			return false
		}
	}

	return true
}

// ContainsAABB tests if the AABB is completely inside the frustum.
func (f Frustum) ContainsAABB(box AABB) bool {
	for i := range f.Planes {
		plane := f.Planes[i]

		// The negative vertex is the corner least far along the plane
		// normal. If it is inside every plane, the whole box is.
		nVertex := math3d.V3(
			selectComponent(plane.Normal.X >= 0, box.Min.X, box.Max.X),
			selectComponent(plane.Normal.Y >= 0, box.Min.Y, box.Max.Y),
			selectComponent(plane.Normal.Z >= 0, box.Min.Z, box.Max.Z),
		)

		if plane.DistanceToPoint(nVertex) < 0 {
			return false
		}
	}

	return true
}

// ContainsPoint tests if a point is inside the frustum.
func (f Frustum) ContainsPoint(p math3d.Vec3) bool {
	for i := range f.Planes {
		if f.Planes[i].DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}

// IntersectsSphere tests if a sphere intersects the frustum.
func (f Frustum) IntersectsSphere(center math3d.Vec3, radius float64) bool {
	for i := range f.Planes {
		if f.Planes[i].DistanceToPoint(center) < -radius {
			return false
		}
	}
	return true
}

// selectComponent is a branchless conditional selection helper.
func selectComponent(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}
