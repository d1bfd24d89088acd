package render

import (
	"github.com/EBonura/bonnie-engine/pkg/math3d"
)

// wireEdge is a screen-space edge with integer endpoints, normalized so
// the smaller endpoint comes first.
type wireEdge struct {
	x0, y0, x1, y1 int
}

// edgeSet collects triangle edges for wireframe drawing, deduplicating
// shared edges so adjacent triangles draw each border once. Insertion
// order is preserved to keep draws deterministic.
type edgeSet struct {
	seen  map[wireEdge]struct{}
	edges []wireEdge
}

// addTriangle adds the three edges of a projected triangle. Z is
// ignored; the overlay draws on top of everything.
func (e *edgeSet) addTriangle(v1, v2, v3 math3d.Vec3) {
	e.add(v1, v2)
	e.add(v2, v3)
	e.add(v3, v1)
}

func (e *edgeSet) add(a, b math3d.Vec3) {
	edge := wireEdge{int(a.X), int(a.Y), int(b.X), int(b.Y)}
	if edge.x1 < edge.x0 || (edge.x1 == edge.x0 && edge.y1 < edge.y0) {
		edge.x0, edge.y0, edge.x1, edge.y1 = edge.x1, edge.y1, edge.x0, edge.y0
	}
	if e.seen == nil {
		e.seen = make(map[wireEdge]struct{})
	}
	if _, ok := e.seen[edge]; ok {
		return
	}
	e.seen[edge] = struct{}{}
	e.edges = append(e.edges, edge)
}

// draw renders every collected edge, ignoring depth.
func (e *edgeSet) draw(fb *Framebuffer, color Color) {
	for _, edge := range e.edges {
		fb.DrawLine(edge.x0, edge.y0, edge.x1, edge.y1, color)
	}
}

// Wireframe draws debug geometry on top of a rendered frame.
type Wireframe struct {
	camera *Camera
	fb     *Framebuffer
}

// NewWireframe creates a wireframe renderer sharing camera and fb.
func NewWireframe(camera *Camera, fb *Framebuffer) *Wireframe {
	return &Wireframe{
		camera: camera,
		fb:     fb,
	}
}

// DrawLine3D draws a depth-tested line between two world positions.
// Both endpoints must be in front of the near plane; lines crossing it
// are dropped rather than clipped.
func (w *Wireframe) DrawLine3D(p1, p2 math3d.Vec3, color Color) {
	x1, y1, z1, vis1 := w.camera.WorldToScreen(p1, w.fb.Width, w.fb.Height)
	x2, y2, z2, vis2 := w.camera.WorldToScreen(p2, w.fb.Width, w.fb.Height)
	if !vis1 || !vis2 {
		return
	}
	w.fb.DrawLine3D(int(x1), int(y1), z1, int(x2), int(y2), z2, color)
}

// DrawMesh outlines every face of a mesh, deduplicating shared edges so
// each border draws once.
func (w *Wireframe) DrawMesh(vertices []Vertex, faces []Face, color Color) {
	type projected struct {
		pos math3d.Vec3
		ok  bool
	}
	pts := make([]projected, len(vertices))
	for i, v := range vertices {
		x, y, z, ok := w.camera.WorldToScreen(v.Position, w.fb.Width, w.fb.Height)
		pts[i] = projected{math3d.V3(x, y, z), ok}
	}

	var wires edgeSet
	for _, f := range faces {
		i0, i1, i2 := f.V[0], f.V[1], f.V[2]
		if i0 < 0 || i1 < 0 || i2 < 0 ||
			i0 >= len(pts) || i1 >= len(pts) || i2 >= len(pts) {
			continue
		}
		if !pts[i0].ok || !pts[i1].ok || !pts[i2].ok {
			continue
		}
		wires.addTriangle(pts[i0].pos, pts[i1].pos, pts[i2].pos)
	}
	wires.draw(w.fb, color)
}

// DrawAABB outlines a world-space bounding box.
func (w *Wireframe) DrawAABB(box AABB, color Color) {
	corners := [8]math3d.Vec3{
		math3d.V3(box.Min.X, box.Min.Y, box.Min.Z),
		math3d.V3(box.Max.X, box.Min.Y, box.Min.Z),
		math3d.V3(box.Max.X, box.Max.Y, box.Min.Z),
		math3d.V3(box.Min.X, box.Max.Y, box.Min.Z),
		math3d.V3(box.Min.X, box.Min.Y, box.Max.Z),
		math3d.V3(box.Max.X, box.Min.Y, box.Max.Z),
		math3d.V3(box.Max.X, box.Max.Y, box.Max.Z),
		math3d.V3(box.Min.X, box.Max.Y, box.Max.Z),
	}

	edges := [][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{4, 5}, {5, 6}, {6, 7}, {7, 4},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}

	for _, e := range edges {
		w.DrawLine3D(corners[e[0]], corners[e[1]], color)
	}
}

// DrawCube draws a wireframe cube centered at a point.
func (w *Wireframe) DrawCube(center math3d.Vec3, size float64, color Color) {
	half := math3d.V3(size/2, size/2, size/2)
	w.DrawAABB(AABB{Min: center.Sub(half), Max: center.Add(half)}, color)
}

// DrawAxes draws the coordinate axes at the origin.
func (w *Wireframe) DrawAxes(length float64) {
	origin := math3d.Zero3()
	w.DrawLine3D(origin, math3d.V3(length, 0, 0), ColorRed)   // X axis
	w.DrawLine3D(origin, math3d.V3(0, length, 0), ColorGreen) // Y axis
	w.DrawLine3D(origin, math3d.V3(0, 0, length), ColorBlue)  // Z axis
}

// DrawGrid draws a grid on the XZ plane at y=0.
func (w *Wireframe) DrawGrid(size, step float64, color Color) {
	half := size / 2
	for x := -half; x <= half; x += step {
		w.DrawLine3D(math3d.V3(x, 0, -half), math3d.V3(x, 0, half), color)
	}
	for z := -half; z <= half; z += step {
		w.DrawLine3D(math3d.V3(-half, 0, z), math3d.V3(half, 0, z), color)
	}
}

// DrawPoint draws a point as a small cross.
func (w *Wireframe) DrawPoint(pos math3d.Vec3, size float64, color Color) {
	halfSize := size / 2
	w.DrawLine3D(
		math3d.V3(pos.X-halfSize, pos.Y, pos.Z),
		math3d.V3(pos.X+halfSize, pos.Y, pos.Z),
		color,
	)
	w.DrawLine3D(
		math3d.V3(pos.X, pos.Y-halfSize, pos.Z),
		math3d.V3(pos.X, pos.Y+halfSize, pos.Z),
		color,
	)
	w.DrawLine3D(
		math3d.V3(pos.X, pos.Y, pos.Z-halfSize),
		math3d.V3(pos.X, pos.Y, pos.Z+halfSize),
		color,
	)
}
