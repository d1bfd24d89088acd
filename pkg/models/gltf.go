package models

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"

	"github.com/EBonura/bonnie-engine/pkg/math3d"
	"github.com/EBonura/bonnie-engine/pkg/render"
)

// GLTFLoader loads glTF/GLB files into Mesh form.
type GLTFLoader struct {
	// CalculateNormals fills in normals when the file carries none.
	CalculateNormals bool
	// SmoothNormals averages the computed normals across shared
	// vertices instead of keeping one normal per face.
	SmoothNormals bool
}

// NewGLTFLoader creates a loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		CalculateNormals: true,
		SmoothNormals:    true,
	}
}

// LoadGLB loads a glTF or binary glTF file with default options.
// Geometry only; faces come back untextured.
func LoadGLB(path string) (*Mesh, error) {
	loader := NewGLTFLoader()
	return loader.Load(path)
}

// LoadGLBWithTextures loads a glTF or binary glTF file with default
// options, registering one texture per document material in table and
// binding faces to the resulting handles.
func LoadGLBWithTextures(path string, table *render.TextureTable) (*Mesh, error) {
	loader := NewGLTFLoader()
	return loader.LoadWithTextures(path, table)
}

// Load loads a glTF or GLB file and returns a Mesh. Faces are left
// untextured; use LoadWithTextures to bind materials.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	return l.load(path, nil)
}

// LoadWithTextures loads a glTF or GLB file, resolving each document
// material to a texture handle in table. Materials with a base color
// image use it directly; the rest get a 1x1 solid of their base color
// factor, so untextured models still render with their intended color.
func (l *GLTFLoader) LoadWithTextures(path string, table *render.TextureTable) (*Mesh, error) {
	return l.load(path, table)
}

func (l *GLTFLoader) load(path string, table *render.TextureTable) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))

	// Resolve materials to handles up front so every primitive that
	// shares a material shares one texture.
	var matTextures []render.TextureID
	if table != nil {
		matTextures = bindMaterials(doc, path, table)
	}

	for _, m := range doc.Meshes {
		if err := l.processMesh(doc, m, mesh, matTextures); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}

	hasNormals := false
	for _, v := range mesh.Vertices {
		if v.Normal.Len() > 0.001 {
			hasNormals = true
			break
		}
	}

	if l.CalculateNormals && !hasNormals {
		if l.SmoothNormals {
			mesh.CalculateSmoothNormals()
		} else {
			mesh.CalculateNormals()
		}
	}

	mesh.CalculateBounds()

	return mesh, nil
}

// processMesh extracts geometry from one glTF mesh. Triangle winding is
// kept exactly as authored; face visibility keys off vertex normals, so
// no reordering is needed here.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh, matTextures []render.TextureID) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Skip non-triangle primitives (lines, points, etc)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var normals []math3d.Vec3
		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			normals, err = readVec3Accessor(doc, normIdx)
			if err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}

		var uvs []math3d.Vec2
		if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			uvs, err = readVec2Accessor(doc, uvIdx)
			if err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		texID := render.NoTexture
		if prim.Material != nil {
			if mi := int(*prim.Material); mi >= 0 && mi < len(matTextures) {
				texID = matTextures[mi]
			}
		}

		baseVertex := len(mesh.Vertices)

		for i := range positions {
			v := render.Vertex{
				Position: positions[i],
			}
			if i < len(normals) {
				v.Normal = normals[i]
			}
			if i < len(uvs) {
				// glTF puts V=0 at the top of the image, the
				// sampler wants V=0 at the bottom.
				v.UV = math3d.V2(uvs[i].X, 1.0-uvs[i].Y)
			}
			mesh.Vertices = append(mesh.Vertices, v)
		}

		if prim.Indices != nil {
			indices, err := readIndices(doc, int(*prim.Indices))
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}

			for i := 0; i+2 < len(indices); i += 3 {
				mesh.Faces = append(mesh.Faces, render.NewTexturedFace(
					baseVertex+indices[i],
					baseVertex+indices[i+1],
					baseVertex+indices[i+2],
					texID,
				))
			}
		} else {
			// No indices, assume sequential triangles
			for i := 0; i+2 < len(positions); i += 3 {
				mesh.Faces = append(mesh.Faces, render.NewTexturedFace(
					baseVertex+i,
					baseVertex+i+1,
					baseVertex+i+2,
					texID,
				))
			}
		}
	}

	return nil
}

// bindMaterials registers one texture per document material and returns
// the handle for each material index.
func bindMaterials(doc *gltf.Document, path string, table *render.TextureTable) []render.TextureID {
	ids := make([]render.TextureID, len(doc.Materials))
	for i, mat := range doc.Materials {
		name := mat.Name
		if name == "" {
			name = fmt.Sprintf("material_%d", i)
		}
		ids[i] = table.AddNamed(name, materialTexture(doc, path, mat))
	}
	return ids
}

// materialTexture builds the texture for a single material: the base
// color image when one is referenced and decodable, otherwise a 1x1
// solid of the base color factor.
func materialTexture(doc *gltf.Document, path string, mat *gltf.Material) *render.Texture {
	pbr := mat.PBRMetallicRoughness
	if pbr == nil {
		return render.NewSolidTexture(1, 1, render.ColorWhite)
	}

	if pbr.BaseColorTexture != nil {
		if img := materialImage(doc, path, int(pbr.BaseColorTexture.Index)); img != nil {
			return render.TextureFromImage(img)
		}
	}

	col := render.ColorWhite
	if pbr.BaseColorFactor != nil {
		f := *pbr.BaseColorFactor
		col = render.RGB(
			colorByte(float64(f[0])),
			colorByte(float64(f[1])),
			colorByte(float64(f[2])),
		)
	}
	return render.NewSolidTexture(1, 1, col)
}

// materialImage decodes the image behind a texture index. Returns nil
// when the reference is dangling or the data cannot be decoded.
func materialImage(doc *gltf.Document, path string, texIdx int) image.Image {
	if texIdx < 0 || texIdx >= len(doc.Textures) {
		return nil
	}
	tex := doc.Textures[texIdx]
	if tex.Source == nil {
		return nil
	}
	srcIdx := int(*tex.Source)
	if srcIdx < 0 || srcIdx >= len(doc.Images) {
		return nil
	}
	img := doc.Images[srcIdx]

	var data []byte
	if img.BufferView != nil {
		bv := doc.BufferViews[*img.BufferView]
		buf := doc.Buffers[bv.Buffer]
		if buf.Data != nil {
			data = buf.Data[bv.ByteOffset : bv.ByteOffset+bv.ByteLength]
		}
	} else if img.URI != "" {
		// External texture file, relative to the document
		raw, err := os.ReadFile(filepath.Join(filepath.Dir(path), img.URI))
		if err == nil {
			data = raw
		}
	}
	if len(data) == 0 {
		return nil
	}

	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	return decoded
}

// colorByte converts a 0..1 color factor to a byte channel.
func colorByte(f float64) uint8 {
	switch {
	case f <= 0:
		return 0
	case f >= 1:
		return 255
	}
	return uint8(f*255 + 0.5)
}

// readVec3Accessor reads Vec3 data from a glTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", accessor.Type)
	}

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	floats, ok := data.([][3]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected data type for VEC3")
	}

	result := make([]math3d.Vec3, len(floats))
	for i, f := range floats {
		result[i] = math3d.V3(float64(f[0]), float64(f[1]), float64(f[2]))
	}

	return result, nil
}

// readVec2Accessor reads Vec2 data from a glTF accessor.
func readVec2Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec2, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec2 {
		return nil, fmt.Errorf("expected VEC2, got %v", accessor.Type)
	}

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	floats, ok := data.([][2]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected data type for VEC2")
	}

	result := make([]math3d.Vec2, len(floats))
	for i, f := range floats {
		result[i] = math3d.V2(float64(f[0]), float64(f[1]))
	}

	return result, nil
}

// readIndices reads index data from a glTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	accessor := doc.Accessors[accessorIdx]

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	switch v := data.(type) {
	case []uint8:
		result := make([]int, len(v))
		for i, x := range v {
			result[i] = int(x)
		}
		return result, nil
	case []uint16:
		result := make([]int, len(v))
		for i, x := range v {
			result[i] = int(x)
		}
		return result, nil
	case []uint32:
		result := make([]int, len(v))
		for i, x := range v {
			result[i] = int(x)
		}
		return result, nil
	default:
		return nil, fmt.Errorf("unexpected index type: %T", data)
	}
}

// readAccessorData reads raw data from a glTF accessor. Only the
// layouts the loader needs are handled: float VEC3 and VEC2, and the
// three unsigned scalar index widths.
func readAccessorData(doc *gltf.Document, accessor *gltf.Accessor) (any, error) {
	if accessor.BufferView == nil {
		return nil, fmt.Errorf("accessor has no buffer view")
	}

	bufferView := doc.BufferViews[*accessor.BufferView]
	buffer := doc.Buffers[bufferView.Buffer]

	// GLB keeps the payload in the document itself
	var bufData []byte
	if buffer.URI == "" {
		bufData = buffer.Data
	} else {
		return nil, fmt.Errorf("external buffers not supported yet")
	}

	if bufData == nil {
		return nil, fmt.Errorf("buffer has no data")
	}

	start := bufferView.ByteOffset + accessor.ByteOffset
	stride := bufferView.ByteStride
	count := accessor.Count

	switch accessor.Type {
	case gltf.AccessorVec3:
		if stride == 0 {
			stride = 12 // 3 floats * 4 bytes
		}
		result := make([][3]float32, count)
		for i := range count {
			offset := start + i*stride
			for j := range 3 {
				result[i][j] = readFloat32(bufData[offset+j*4:])
			}
		}
		return result, nil

	case gltf.AccessorVec2:
		if stride == 0 {
			stride = 8 // 2 floats * 4 bytes
		}
		result := make([][2]float32, count)
		for i := range count {
			offset := start + i*stride
			for j := range 2 {
				result[i][j] = readFloat32(bufData[offset+j*4:])
			}
		}
		return result, nil

	case gltf.AccessorScalar:
		if stride == 0 {
			switch accessor.ComponentType {
			case gltf.ComponentUbyte:
				stride = 1
			case gltf.ComponentUshort:
				stride = 2
			case gltf.ComponentUint:
				stride = 4
			}
		}

		switch accessor.ComponentType {
		case gltf.ComponentUbyte:
			result := make([]uint8, count)
			for i := range count {
				result[i] = bufData[start+i*stride]
			}
			return result, nil
		case gltf.ComponentUshort:
			result := make([]uint16, count)
			for i := range count {
				offset := start + i*stride
				result[i] = uint16(bufData[offset]) | uint16(bufData[offset+1])<<8
			}
			return result, nil
		case gltf.ComponentUint:
			result := make([]uint32, count)
			for i := range count {
				offset := start + i*stride
				result[i] = uint32(bufData[offset]) |
					uint32(bufData[offset+1])<<8 |
					uint32(bufData[offset+2])<<16 |
					uint32(bufData[offset+3])<<24
			}
			return result, nil
		}
	}

	return nil, fmt.Errorf("unsupported accessor type: %v / %v", accessor.Type, accessor.ComponentType)
}

// readFloat32 reads a little-endian float32.
func readFloat32(b []byte) float32 {
	bits := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return math.Float32frombits(bits)
}
