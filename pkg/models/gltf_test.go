package models

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/EBonura/bonnie-engine/pkg/math3d"
	"github.com/EBonura/bonnie-engine/pkg/render"
)

func TestLoadGLBInvalidPath(t *testing.T) {
	_, err := LoadGLB("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestGLTFLoaderCreation(t *testing.T) {
	loader := NewGLTFLoader()
	if loader == nil {
		t.Error("NewGLTFLoader returned nil")
		return
	}
	if !loader.CalculateNormals {
		t.Error("CalculateNormals should default to true")
	}
	if !loader.SmoothNormals {
		t.Error("SmoothNormals should default to true")
	}
}

// writeTriangleGLB writes a minimal binary glTF file: one triangle in
// the XY plane with UVs, uint16 indices, and a red base color material.
func writeTriangleGLB(t *testing.T) string {
	t.Helper()

	jsonDoc := []byte(`{
		"asset":{"version":"2.0"},
		"scene":0,
		"scenes":[{"nodes":[0]}],
		"nodes":[{"mesh":0}],
		"meshes":[{"name":"tri","primitives":[{
			"attributes":{"POSITION":0,"TEXCOORD_0":1},
			"indices":2,"material":0,"mode":4}]}],
		"materials":[{"name":"red","pbrMetallicRoughness":{"baseColorFactor":[1,0,0,1]}}],
		"accessors":[
			{"bufferView":0,"componentType":5126,"count":3,"type":"VEC3","min":[0,0,0],"max":[1,1,0]},
			{"bufferView":1,"componentType":5126,"count":3,"type":"VEC2"},
			{"bufferView":2,"componentType":5123,"count":3,"type":"SCALAR"}],
		"bufferViews":[
			{"buffer":0,"byteOffset":0,"byteLength":36},
			{"buffer":0,"byteOffset":36,"byteLength":24},
			{"buffer":0,"byteOffset":60,"byteLength":6}],
		"buffers":[{"byteLength":66}]
	}`)
	for len(jsonDoc)%4 != 0 {
		jsonDoc = append(jsonDoc, ' ')
	}

	var bin []byte
	f32 := func(f float32) {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(f))
		bin = append(bin, b[:]...)
	}
	u16 := func(v uint16) {
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], v)
		bin = append(bin, b[:]...)
	}

	for _, p := range [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}} {
		f32(p[0])
		f32(p[1])
		f32(p[2])
	}
	for _, uv := range [][2]float32{{0.25, 0.25}, {1, 0}, {0, 1}} {
		f32(uv[0])
		f32(uv[1])
	}
	u16(0)
	u16(1)
	u16(2)
	for len(bin)%4 != 0 {
		bin = append(bin, 0)
	}

	total := 12 + 8 + len(jsonDoc) + 8 + len(bin)
	glb := make([]byte, 0, total)
	u32 := func(v uint32) {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], v)
		glb = append(glb, b[:]...)
	}
	u32(0x46546C67) // "glTF"
	u32(2)
	u32(uint32(total))
	u32(uint32(len(jsonDoc)))
	u32(0x4E4F534A) // "JSON"
	glb = append(glb, jsonDoc...)
	u32(uint32(len(bin)))
	u32(0x004E4942) // "BIN"
	glb = append(glb, bin...)

	path := filepath.Join(t.TempDir(), "tri.glb")
	if err := os.WriteFile(path, glb, 0o644); err != nil {
		t.Fatalf("write glb: %v", err)
	}
	return path
}

func TestLoadGLB(t *testing.T) {
	path := writeTriangleGLB(t)

	mesh, err := LoadGLB(path)
	if err != nil {
		t.Fatalf("LoadGLB: %v", err)
	}

	if mesh.Name != "tri.glb" {
		t.Errorf("Expected name 'tri.glb', got %q", mesh.Name)
	}
	if mesh.VertexCount() != 3 {
		t.Fatalf("Expected 3 vertices, got %d", mesh.VertexCount())
	}
	if mesh.TriangleCount() != 1 {
		t.Fatalf("Expected 1 triangle, got %d", mesh.TriangleCount())
	}

	f := mesh.Faces[0]
	if f.V != [3]int{0, 1, 2} {
		t.Errorf("Expected indices kept in authored order, got %v", f.V)
	}
	if f.Texture != render.NoTexture {
		t.Errorf("Expected untextured face from Load, got texture %d", f.Texture)
	}

	// V flips so the image's top row maps to V=1
	if !vec2Near(mesh.Vertices[0].UV, math3d.V2(0.25, 0.75), 1e-6) {
		t.Errorf("Expected UV (0.25,0.75), got %v", mesh.Vertices[0].UV)
	}
	if !vec2Near(mesh.Vertices[1].UV, math3d.V2(1, 1), 1e-6) {
		t.Errorf("Expected UV (1,1), got %v", mesh.Vertices[1].UV)
	}
	if !vec2Near(mesh.Vertices[2].UV, math3d.V2(0, 0), 1e-6) {
		t.Errorf("Expected UV (0,0), got %v", mesh.Vertices[2].UV)
	}

	// The file has no normals, so the loader computes them
	for i, v := range mesh.Vertices {
		if !vecNear(v.Normal, math3d.V3(0, 0, 1), 1e-6) {
			t.Errorf("Vertex %d: expected computed normal (0,0,1), got %v", i, v.Normal)
		}
	}

	if !vecNear(mesh.Bounds.Min, math3d.Zero3(), 1e-6) {
		t.Errorf("Expected min (0,0,0), got %v", mesh.Bounds.Min)
	}
	if !vecNear(mesh.Bounds.Max, math3d.V3(1, 1, 0), 1e-6) {
		t.Errorf("Expected max (1,1,0), got %v", mesh.Bounds.Max)
	}
}

func TestLoadGLBWithTextures(t *testing.T) {
	path := writeTriangleGLB(t)

	table := render.NewTextureTable()
	mesh, err := LoadGLBWithTextures(path, table)
	if err != nil {
		t.Fatalf("LoadGLBWithTextures: %v", err)
	}

	if table.Len() != 1 {
		t.Fatalf("Expected 1 texture in table, got %d", table.Len())
	}

	f := mesh.Faces[0]
	if f.Texture == render.NoTexture {
		t.Fatal("Expected face bound to a material texture")
	}
	if got := table.IDByName("red"); got != f.Texture {
		t.Errorf("Expected material 'red' to resolve to %d, got %d", f.Texture, got)
	}

	tex := table.Resolve(f.Texture)
	if tex == nil {
		t.Fatal("Face texture handle did not resolve")
	}
	c := tex.Sample(0.5, 0.5)
	if c.R != 255 || c.G != 0 || c.B != 0 {
		t.Errorf("Expected red base color, got %v", c)
	}
}
