package render

import (
	"github.com/EBonura/bonnie-engine/pkg/math3d"
)

// ShadingMode selects how triangle lighting is computed.
type ShadingMode uint8

const (
	// ShadingNone draws interpolated vertex colors with no lighting.
	ShadingNone ShadingMode = iota
	// ShadingFlat lights the whole triangle by its geometric face normal.
	ShadingFlat
	// ShadingGouraud lights each vertex and interpolates intensity
	// across the face.
	ShadingGouraud
)

func (m ShadingMode) String() string {
	switch m {
	case ShadingNone:
		return "none"
	case ShadingFlat:
		return "flat"
	case ShadingGouraud:
		return "gouraud"
	}
	return "unknown"
}

// RasterSettings bundles the per-frame toggles of the software pipeline.
// The zero value is NOT useful; start from DefaultRasterSettings.
type RasterSettings struct {
	// AffineTextures interpolates UVs in screen space the way the PS1
	// did, producing the characteristic texture warp on large faces.
	// When false, UVs are perspective-corrected.
	AffineTextures bool

	// VertexSnap floors projected vertices to integer screen positions,
	// recreating the PS1 vertex wobble.
	VertexSnap bool

	// UseZBuffer enables per-pixel depth testing. When false, triangles
	// are sorted back to front and drawn painter-style.
	UseZBuffer bool

	// Shading selects the lighting model for filled triangles.
	Shading ShadingMode

	// BackfaceCull skips rasterization of faces whose averaged normal
	// points away from the camera, drawing their edges as a wireframe
	// overlay instead. With culling off the back faces are filled,
	// lit by their flipped normals, and the overlay is skipped.
	BackfaceCull bool

	// Dithering quantizes output to 15-bit color through the Bayer
	// matrix before each pixel write.
	Dithering bool

	// LightDir is the direction light travels and must be normalized.
	// It is dotted against camera-space normals as-is, so the light
	// rides along with the camera instead of staying fixed in the
	// world.
	LightDir math3d.Vec3

	// Ambient is the minimum light intensity in [0, 1]. A face turned
	// fully away from the light still receives this much.
	Ambient float64
}

// DefaultRasterSettings returns the settings the engine boots with: full
// PS1 flavor, z-buffered, Gouraud shaded, lit diagonally.
func DefaultRasterSettings() RasterSettings {
	return RasterSettings{
		AffineTextures: true,
		VertexSnap:     true,
		UseZBuffer:     true,
		Shading:        ShadingGouraud,
		BackfaceCull:   true,
		Dithering:      true,
		LightDir:       math3d.V3(-1, -1, -1).Normalize(),
		Ambient:        0.3,
	}
}
