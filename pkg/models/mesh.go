// Package models provides mesh construction and glTF loading for the
// Bonnie engine. Meshes carry render-ready vertex and face slices so
// they can be handed straight to the rasterizer.
package models

import (
	"github.com/EBonura/bonnie-engine/pkg/math3d"
	"github.com/EBonura/bonnie-engine/pkg/render"
)

// Mesh is a named triangle mesh. Faces index into Vertices and carry
// their own texture handles, so one mesh can mix textures per face.
type Mesh struct {
	Name     string
	Vertices []render.Vertex
	Faces    []render.Face

	// Bounds is kept current by the loaders, the builders, and
	// Transform. Code that edits Vertices directly must call
	// CalculateBounds afterwards.
	Bounds render.AABB
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]render.Vertex, 0),
		Faces:    make([]render.Face, 0),
	}
}

// CalculateBounds recomputes the axis-aligned bounding box from the
// vertex positions.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	lo := m.Vertices[0].Position
	hi := m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		lo = lo.Min(v.Position)
		hi = hi.Max(v.Position)
	}
	m.Bounds = render.NewAABB(lo, hi)
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.Bounds.Center()
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.Bounds.Size()
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// CalculateNormals assigns each face's geometric normal to all three of
// its vertices. Vertices shared between faces end up with the normal of
// whichever face was visited last, so meshes that want flat shading
// should not share vertices across faces.
func (m *Mesh) CalculateNormals() {
	for _, f := range m.Faces {
		v0 := m.Vertices[f.V[0]].Position
		v1 := m.Vertices[f.V[1]].Position
		v2 := m.Vertices[f.V[2]].Position

		edge1 := v1.Sub(v0)
		edge2 := v2.Sub(v0)
		normal := edge1.Cross(edge2).Normalize()

		m.Vertices[f.V[0]].Normal = normal
		m.Vertices[f.V[1]].Normal = normal
		m.Vertices[f.V[2]].Normal = normal
	}
}

// CalculateSmoothNormals averages face normals onto shared vertices.
// The accumulated cross products are area weighted, so larger faces
// pull shared normals harder.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Zero3()
	}

	for _, f := range m.Faces {
		v0 := m.Vertices[f.V[0]].Position
		v1 := m.Vertices[f.V[1]].Position
		v2 := m.Vertices[f.V[2]].Position

		edge1 := v1.Sub(v0)
		edge2 := v2.Sub(v0)
		normal := edge1.Cross(edge2)

		m.Vertices[f.V[0]].Normal = m.Vertices[f.V[0]].Normal.Add(normal)
		m.Vertices[f.V[1]].Normal = m.Vertices[f.V[1]].Normal.Add(normal)
		m.Vertices[f.V[2]].Normal = m.Vertices[f.V[2]].Normal.Add(normal)
	}

	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

// Transform applies a matrix to every vertex position and normal, then
// recalculates the bounds. Normals use the rotation part of the matrix
// only, which is wrong under non-uniform scale.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Vertices {
		m.Vertices[i].Position = mat.MulVec3(m.Vertices[i].Position)
		m.Vertices[i].Normal = mat.MulVec3Dir(m.Vertices[i].Normal).Normalize()
	}
	m.CalculateBounds()
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:     m.Name,
		Vertices: make([]render.Vertex, len(m.Vertices)),
		Faces:    make([]render.Face, len(m.Faces)),
		Bounds:   m.Bounds,
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Faces, m.Faces)
	return clone
}
