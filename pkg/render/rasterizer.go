// Package render implements the software rasterizer at the heart of the
// Bonnie engine: a PS1-flavored triangle pipeline drawing into an RGBA
// framebuffer that can be presented in a terminal or exported as an image.
package render

import (
	"math"
	"sort"

	"github.com/EBonura/bonnie-engine/pkg/math3d"
)

// Vertex is a single mesh vertex in world space.
type Vertex struct {
	Position math3d.Vec3 // World position
	Normal   math3d.Vec3 // Normal vector, for lighting and face classification
	UV       math3d.Vec2 // Texture coordinates
	// Color modulates sampled texels. The zero value is treated as
	// ColorNeutral, so vertices that never set it render the texture
	// at full brightness.
	Color Color
}

// Face is a triangle: three indices into a vertex slice plus the handle
// of the texture to draw with. The zero value is an untextured face.
type Face struct {
	V       [3]int
	Texture TextureID
}

// NewFace creates an untextured face.
func NewFace(v0, v1, v2 int) Face {
	return Face{V: [3]int{v0, v1, v2}}
}

// NewTexturedFace creates a face drawing from a texture table handle.
func NewTexturedFace(v0, v1, v2 int, tex TextureID) Face {
	return Face{V: [3]int{v0, v1, v2}, Texture: tex}
}

// surface is a triangle that survived the geometry stage: screen-space
// positions carrying camera-space depth in Z, camera-space normals, and
// everything the pixel loop interpolates. Surfaces only live for the
// duration of one RenderMesh call.
type surface struct {
	s1, s2, s3    math3d.Vec3 // Screen X/Y, camera-space depth in Z
	n1, n2, n3    math3d.Vec3 // Camera-space vertex normals
	uv1, uv2, uv3 math3d.Vec2
	c1, c2, c3    Color
	normal        math3d.Vec3 // Geometric face normal, camera space
	texture       TextureID
}

// RenderStats tracks what happened to the triangles of a render call.
type RenderStats struct {
	FacesIn      int // Triangles submitted
	NearCulled   int // Dropped by the near-plane cull
	BackFaces    int // Classified back-facing
	Rasterized   int // Solid triangles rasterized
	MeshesCulled int // Whole meshes skipped by frustum culling
}

// Add accumulates another call's stats, for per-frame totals.
func (s *RenderStats) Add(o RenderStats) {
	s.FacesIn += o.FacesIn
	s.NearCulled += o.NearCulled
	s.BackFaces += o.BackFaces
	s.Rasterized += o.Rasterized
	s.MeshesCulled += o.MeshesCulled
}

// Rasterizer draws meshes through a camera into a framebuffer. It holds
// both by reference and never resizes either.
type Rasterizer struct {
	camera *Camera
	fb     *Framebuffer
}

// NewRasterizer creates a rasterizer drawing camera's view into fb.
func NewRasterizer(camera *Camera, fb *Framebuffer) *Rasterizer {
	return &Rasterizer{
		camera: camera,
		fb:     fb,
	}
}

// Camera returns the camera the rasterizer projects through.
func (r *Rasterizer) Camera() *Camera {
	return r.camera
}

// Framebuffer returns the render target.
func (r *Rasterizer) Framebuffer() *Framebuffer {
	return r.fb
}

// RenderMesh transforms, classifies, sorts, and rasterizes one triangle
// mesh in a single synchronous pass. Vertices are world space, faces
// index into them, and textures may be nil for untextured meshes.
//
// Back-facing triangles always contribute their edges to a wireframe
// overlay drawn on top of the solid pass. With BackfaceCull clear they
// are additionally rasterized solid with flipped normals, so lighting
// stays plausible from the visible side; the overlay is then skipped.
func (r *Rasterizer) RenderMesh(vertices []Vertex, faces []Face, textures *TextureTable, settings RasterSettings) RenderStats {
	stats := RenderStats{FacesIn: len(faces)}
	if len(vertices) == 0 || len(faces) == 0 {
		return stats
	}

	focal := focalLength(r.camera.FOV, r.fb.Height)
	halfW := float64(r.fb.Width) / 2
	halfH := float64(r.fb.Height) / 2

	// Transform every vertex to camera space and project it, and
	// rotate its normal into camera space.
	camPositions := make([]math3d.Vec3, len(vertices))
	projected := make([]math3d.Vec3, len(vertices))
	camNormals := make([]math3d.Vec3, len(vertices))
	for i, v := range vertices {
		camPos := r.camera.WorldToCamera(v.Position)
		camPositions[i] = camPos
		projected[i] = projectVertex(camPos, focal, halfW, halfH, settings.VertexSnap)
		camNormals[i] = r.camera.RotateToCamera(v.Normal).Normalize()
	}

	surfaces := make([]surface, 0, len(faces))
	var wires edgeSet

	for _, face := range faces {
		i0, i1, i2 := face.V[0], face.V[1], face.V[2]
		if i0 < 0 || i1 < 0 || i2 < 0 ||
			i0 >= len(vertices) || i1 >= len(vertices) || i2 >= len(vertices) {
			continue
		}

		cv1 := camPositions[i0]
		cv2 := camPositions[i1]
		cv3 := camPositions[i2]

		// Near-plane cull guards every later divide by depth.
		if cv1.Z <= NearPlane || cv2.Z <= NearPlane || cv3.Z <= NearPlane {
			stats.NearCulled++
			continue
		}

		v1 := projected[i0]
		v2 := projected[i1]
		v3 := projected[i2]

		// Facing is classified with the smoothed average of the
		// vertex normals, kept separate from the geometric normal
		// below so curved meshes classify the way they shade.
		vn1, vn2, vn3 := camNormals[i0], camNormals[i1], camNormals[i2]
		classNormal := vn1.Add(vn2).Add(vn3).Scale(1.0 / 3.0).Normalize()

		// The camera sits at the camera-space origin, so the view
		// direction is just the normalized centroid.
		center := cv1.Add(cv2).Add(cv3).Scale(1.0 / 3.0)
		viewDir := center.Normalize()

		// A normal pointing with the view ray faces away from us.
		isBackface := classNormal.Dot(viewDir) > 0

		// Geometric normal from the winding, used for flat shading.
		normal := cv2.Sub(cv1).Cross(cv3.Sub(cv1)).Normalize()

		s := surface{
			s1: v1, s2: v2, s3: v3,
			n1: vn1, n2: vn2, n3: vn3,
			uv1: vertices[i0].UV, uv2: vertices[i1].UV, uv3: vertices[i2].UV,
			c1:      vertexColor(vertices[i0].Color),
			c2:      vertexColor(vertices[i1].Color),
			c3:      vertexColor(vertices[i2].Color),
			normal:  normal,
			texture: face.Texture,
		}

		if isBackface {
			stats.BackFaces++
			wires.addTriangle(v1, v2, v3)
			if settings.BackfaceCull {
				continue
			}
			// Rendered double-sided: flip the normals so the side
			// we can see lights like a front face.
			s.n1 = s.n1.Negate()
			s.n2 = s.n2.Negate()
			s.n3 = s.n3.Negate()
			s.normal = s.normal.Negate()
		}

		surfaces = append(surfaces, s)
	}

	// Painter's algorithm: without a depth buffer the draw order is
	// the visibility rule. Stable sort, farthest first, keyed by each
	// triangle's deepest vertex.
	if !settings.UseZBuffer {
		sort.SliceStable(surfaces, func(i, j int) bool {
			zi := max3(surfaces[i].s1.Z, surfaces[i].s2.Z, surfaces[i].s3.Z)
			zj := max3(surfaces[j].s1.Z, surfaces[j].s2.Z, surfaces[j].s3.Z)
			return zi > zj
		})
	}

	for i := range surfaces {
		s := &surfaces[i]
		r.rasterizeTriangle(s, textures.Resolve(s.texture), settings)
	}
	stats.Rasterized = len(surfaces)

	// The overlay draws over everything rasterized above. With culling
	// off the back faces were already drawn solid instead.
	if settings.BackfaceCull {
		wires.draw(r.fb, ColorWireframe)
	}

	return stats
}

// RenderMeshBounded renders a mesh after testing its world-space bounds
// against the view frustum, skipping the whole mesh when it cannot be
// visible. Purely an optimization: bounds-checked pixel writes mean an
// off-screen triangle never produces a pixel anyway.
func (r *Rasterizer) RenderMeshBounded(vertices []Vertex, faces []Face, bounds AABB, textures *TextureTable, settings RasterSettings) RenderStats {
	frustum := NewFrustum(r.camera, r.fb.Width, r.fb.Height)
	if !frustum.IntersectsAABB(bounds) {
		return RenderStats{FacesIn: len(faces), MeshesCulled: 1}
	}
	return r.RenderMesh(vertices, faces, textures, settings)
}

// rasterizeTriangle fills one surface. Every write funnels through
// SetPixelWithDepth, so color and depth can never go out of step.
func (r *Rasterizer) rasterizeTriangle(s *surface, tex *Texture, settings RasterSettings) {
	fb := r.fb

	// Bounding box clamped to the framebuffer, upper bounds exclusive.
	minX := int(math.Max(min3(s.s1.X, s.s2.X, s.s3.X), 0))
	maxX := int(math.Min(max3(s.s1.X, s.s2.X, s.s3.X)+1, float64(fb.Width)))
	minY := int(math.Max(min3(s.s1.Y, s.s2.Y, s.s3.Y), 0))
	maxY := int(math.Min(max3(s.s1.Y, s.s2.Y, s.s3.Y)+1, float64(fb.Height)))

	// One intensity for the whole triangle when flat shading.
	flatShade := 1.0
	if settings.Shading == ShadingFlat {
		flatShade = shadeIntensity(s.normal, settings.LightDir, settings.Ambient)
	}

	// Triangle-constant barycentric terms, hoisted out of the loop. A
	// degenerate triangle covers no pixels, so skip it outright.
	eval := newBaryEval(
		s.s1.X, s.s1.Y,
		s.s2.X, s.s2.Y,
		s.s3.X, s.s3.Y,
	)
	if eval.degenerate {
		return
	}

	for y := minY; y < maxY; y++ {
		for x := minX; x < maxX; x++ {
			bc := eval.at(float64(x), float64(y))

			// Small negative tolerance closes seams between
			// triangles sharing an edge.
			const tolerance = -1e-4
			if bc.X < tolerance || bc.Y < tolerance || bc.Z < tolerance {
				continue
			}

			z := bc.X*s.s1.Z + bc.Y*s.s2.Z + bc.Z*s.s3.Z

			// Cheap pre-check; the authoritative depth test happens
			// inside SetPixelWithDepth.
			if settings.UseZBuffer && float32(z) >= fb.Depth[y*fb.Width+x] {
				continue
			}

			var u, v float64
			if settings.AffineTextures {
				// Screen-space interpolation ignores depth. This
				// is what makes PS1 textures swim on big polygons.
				u = bc.X*s.uv1.X + bc.Y*s.uv2.X + bc.Z*s.uv3.X
				v = bc.X*s.uv1.Y + bc.Y*s.uv2.Y + bc.Z*s.uv3.Y
			} else {
				// Perspective correction: weight each barycentric
				// by 1/depth and renormalize. The near cull keeps
				// all three depths positive.
				bx := bc.X / s.s1.Z
				by := bc.Y / s.s2.Z
				bz := bc.Z / s.s3.Z
				bd := bx + by + bz
				bx /= bd
				by /= bd
				bz /= bd
				u = bx*s.uv1.X + by*s.uv2.X + bz*s.uv3.X
				v = bx*s.uv1.Y + by*s.uv2.Y + bz*s.uv3.Y
			}

			c := ColorWhite
			if tex != nil {
				c = tex.Sample(u, v)
			}

			c = ModulateColor(c, interpolateColor3(s.c1, s.c2, s.c3, bc))

			shade := 1.0
			switch settings.Shading {
			case ShadingFlat:
				shade = flatShade
			case ShadingGouraud:
				sh1 := shadeIntensity(s.n1, settings.LightDir, settings.Ambient)
				sh2 := shadeIntensity(s.n2, settings.LightDir, settings.Ambient)
				sh3 := shadeIntensity(s.n3, settings.LightDir, settings.Ambient)
				shade = bc.X*sh1 + bc.Y*sh2 + bc.Z*sh3
			}
			c = MultiplyColor(c, shade)

			if settings.Dithering {
				c = DitherColor(c, x, y)
			}

			fb.SetPixelWithDepth(x, y, z, c)
		}
	}
}

// projectVertex maps a camera-space position to screen coordinates with
// a pinhole projection, keeping camera-space depth in Z. Snapping floors
// the screen position to whole pixels, recreating PS1 vertex wobble.
func projectVertex(camPos math3d.Vec3, focal, halfW, halfH float64, snap bool) math3d.Vec3 {
	sx := camPos.X/camPos.Z*focal + halfW
	sy := camPos.Y/camPos.Z*focal + halfH
	if snap {
		sx = math.Floor(sx)
		sy = math.Floor(sy)
	}
	return math3d.V3(sx, sy, camPos.Z)
}

// shadeIntensity computes lighting for a camera-space normal: an ambient
// floor plus diffuse toward the light, clamped to [0, 1].
func shadeIntensity(normal, lightDir math3d.Vec3, ambient float64) float64 {
	diffuse := math.Max(0, normal.Dot(lightDir))
	intensity := ambient + (1-ambient)*diffuse
	if intensity < 0 {
		return 0
	}
	if intensity > 1 {
		return 1
	}
	return intensity
}

// vertexColor promotes the zero Color to ColorNeutral so unset vertex
// colors modulate at unity instead of black.
func vertexColor(c Color) Color {
	if c == (Color{}) {
		return ColorNeutral
	}
	return c
}

// interpolateColor3 interpolates between 3 colors using barycentric coords.
func interpolateColor3(c0, c1, c2 Color, bc math3d.Vec3) Color {
	return RGB(
		uint8(float64(c0.R)*bc.X+float64(c1.R)*bc.Y+float64(c2.R)*bc.Z),
		uint8(float64(c0.G)*bc.X+float64(c1.G)*bc.Y+float64(c2.G)*bc.Z),
		uint8(float64(c0.B)*bc.X+float64(c1.B)*bc.Y+float64(c2.B)*bc.Z),
	)
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
