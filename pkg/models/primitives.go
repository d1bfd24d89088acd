package models

import (
	"github.com/EBonura/bonnie-engine/pkg/math3d"
	"github.com/EBonura/bonnie-engine/pkg/render"
)

// Rooms are built on a fixed TRLE-style grid: floors and ceilings snap
// to whole sectors, heights move in quarter-sector clicks.
const (
	SectorSize  = 1024.0
	ClickHeight = 256.0
)

// addQuad appends a textured quad as two triangles. Corners must run
// around the face so that (p1-p0) x (p2-p0) points along n. UVs are
// pinned corner by corner: p0 (0,0), p1 (1,0), p2 (1,1), p3 (0,1).
func addQuad(m *Mesh, p0, p1, p2, p3, n math3d.Vec3, tex render.TextureID) {
	base := len(m.Vertices)
	m.Vertices = append(m.Vertices,
		render.Vertex{Position: p0, Normal: n, UV: math3d.V2(0, 0)},
		render.Vertex{Position: p1, Normal: n, UV: math3d.V2(1, 0)},
		render.Vertex{Position: p2, Normal: n, UV: math3d.V2(1, 1)},
		render.Vertex{Position: p3, Normal: n, UV: math3d.V2(0, 1)},
	)
	m.Faces = append(m.Faces,
		render.NewTexturedFace(base, base+1, base+2, tex),
		render.NewTexturedFace(base, base+2, base+3, tex),
	)
}

// NewTestCube builds a 2x2x2 cube centered on the origin. Each of the
// six faces gets its own four vertices so normals and UVs stay per
// face, 24 vertices and 12 triangles in total.
func NewTestCube(tex render.TextureID) *Mesh {
	m := NewMesh("cube")

	// Front (+Z)
	addQuad(m,
		math3d.V3(-1, -1, 1), math3d.V3(1, -1, 1), math3d.V3(1, 1, 1), math3d.V3(-1, 1, 1),
		math3d.V3(0, 0, 1), tex)
	// Back (-Z)
	addQuad(m,
		math3d.V3(-1, -1, -1), math3d.V3(-1, 1, -1), math3d.V3(1, 1, -1), math3d.V3(1, -1, -1),
		math3d.V3(0, 0, -1), tex)
	// Top (+Y)
	addQuad(m,
		math3d.V3(-1, 1, -1), math3d.V3(-1, 1, 1), math3d.V3(1, 1, 1), math3d.V3(1, 1, -1),
		math3d.V3(0, 1, 0), tex)
	// Bottom (-Y)
	addQuad(m,
		math3d.V3(-1, -1, -1), math3d.V3(1, -1, -1), math3d.V3(1, -1, 1), math3d.V3(-1, -1, 1),
		math3d.V3(0, -1, 0), tex)
	// Right (+X)
	addQuad(m,
		math3d.V3(1, -1, -1), math3d.V3(1, 1, -1), math3d.V3(1, 1, 1), math3d.V3(1, -1, 1),
		math3d.V3(1, 0, 0), tex)
	// Left (-X)
	addQuad(m,
		math3d.V3(-1, -1, -1), math3d.V3(-1, -1, 1), math3d.V3(-1, 1, 1), math3d.V3(-1, 1, -1),
		math3d.V3(-1, 0, 0), tex)

	m.CalculateBounds()
	return m
}

// NewRoom builds a rectangular room on the sector grid: a widthSectors
// by depthSectors field of floor and ceiling quads with a rim of walls,
// centered on the origin in X and Z with the floor at y=0. Faces are
// wound so their normals point into the room; standing inside, every
// surface is solid, while from outside the near walls drop to the
// back-face wireframe and the interior shows through.
func NewRoom(widthSectors, depthSectors, heightClicks int, floor, ceiling, wall render.TextureID) *Mesh {
	widthSectors = max(widthSectors, 1)
	depthSectors = max(depthSectors, 1)
	heightClicks = max(heightClicks, 1)

	m := NewMesh("room")

	w := float64(widthSectors) * SectorSize
	d := float64(depthSectors) * SectorSize
	h := float64(heightClicks) * ClickHeight
	x0 := -w / 2
	z0 := -d / 2

	for sx := range widthSectors {
		ax := x0 + float64(sx)*SectorSize
		bx := ax + SectorSize
		for sz := range depthSectors {
			az := z0 + float64(sz)*SectorSize
			bz := az + SectorSize

			addQuad(m,
				math3d.V3(ax, 0, az), math3d.V3(ax, 0, bz), math3d.V3(bx, 0, bz), math3d.V3(bx, 0, az),
				math3d.V3(0, 1, 0), floor)
			addQuad(m,
				math3d.V3(ax, h, az), math3d.V3(bx, h, az), math3d.V3(bx, h, bz), math3d.V3(ax, h, bz),
				math3d.V3(0, -1, 0), ceiling)
		}
	}

	// Walls run one quad per rim sector, full height each.
	zf := z0 + d
	for sx := range widthSectors {
		ax := x0 + float64(sx)*SectorSize
		bx := ax + SectorSize

		addQuad(m,
			math3d.V3(ax, 0, z0), math3d.V3(bx, 0, z0), math3d.V3(bx, h, z0), math3d.V3(ax, h, z0),
			math3d.V3(0, 0, 1), wall)
		addQuad(m,
			math3d.V3(bx, 0, zf), math3d.V3(ax, 0, zf), math3d.V3(ax, h, zf), math3d.V3(bx, h, zf),
			math3d.V3(0, 0, -1), wall)
	}
	xf := x0 + w
	for sz := range depthSectors {
		az := z0 + float64(sz)*SectorSize
		bz := az + SectorSize

		addQuad(m,
			math3d.V3(x0, 0, bz), math3d.V3(x0, 0, az), math3d.V3(x0, h, az), math3d.V3(x0, h, bz),
			math3d.V3(1, 0, 0), wall)
		addQuad(m,
			math3d.V3(xf, 0, az), math3d.V3(xf, 0, bz), math3d.V3(xf, h, bz), math3d.V3(xf, h, az),
			math3d.V3(-1, 0, 0), wall)
	}

	m.CalculateBounds()
	return m
}
