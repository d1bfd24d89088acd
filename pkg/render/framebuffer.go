package render

import (
	"image"
	"image/png"
	"math"
	"os"

	"github.com/EBonura/bonnie-engine/pkg/math3d"
)

// Framebuffer is the render target: interleaved RGBA8 pixel bytes plus a
// parallel depth buffer. Smaller depth values are nearer; +Inf marks an
// untouched pixel. In the terminal we show two pixel rows per character
// row using half-block glyphs, so Height is typically twice the terminal
// row count.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []uint8   // Row-major RGBA, 4 bytes per pixel
	Depth  []float32 // Row-major depth, one float per pixel
}

// NewFramebuffer creates a framebuffer with the given dimensions, cleared
// to transparent black with empty depth.
func NewFramebuffer(width, height int) *Framebuffer {
	fb := &Framebuffer{}
	fb.Resize(width, height)
	return fb
}

// Resize reallocates the buffers for new dimensions. Calling with the
// current dimensions is a no-op, so per-frame resize checks cost nothing.
func (fb *Framebuffer) Resize(width, height int) {
	if width == fb.Width && height == fb.Height {
		return
	}
	fb.Width = width
	fb.Height = height
	fb.Pixels = make([]uint8, width*height*4)
	fb.Depth = make([]float32, width*height)
	fb.ClearDepth()
}

// Clear fills every pixel with a solid color and resets every depth cell.
func (fb *Framebuffer) Clear(c Color) {
	if len(fb.Pixels) == 0 {
		return
	}
	fb.Pixels[0] = c.R
	fb.Pixels[1] = c.G
	fb.Pixels[2] = c.B
	fb.Pixels[3] = c.A
	for i := 4; i < len(fb.Pixels); i *= 2 {
		copy(fb.Pixels[i:], fb.Pixels[:i])
	}
	fb.ClearDepth()
}

// ClearDepth resets every depth cell to +Inf without touching pixels.
func (fb *Framebuffer) ClearDepth() {
	if len(fb.Depth) == 0 {
		return
	}
	fb.Depth[0] = float32(math.Inf(1))
	for i := 1; i < len(fb.Depth); i *= 2 {
		copy(fb.Depth[i:], fb.Depth[:i])
	}
}

// SetPixel sets a pixel at (x, y) to the given color, ignoring depth.
// Out-of-bounds writes are silently dropped.
func (fb *Framebuffer) SetPixel(x, y int, c Color) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	i := (y*fb.Width + x) * 4
	fb.Pixels[i] = c.R
	fb.Pixels[i+1] = c.G
	fb.Pixels[i+2] = c.B
	fb.Pixels[i+3] = c.A
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) Color {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return Color{}
	}
	i := (y*fb.Width + x) * 4
	return Color{R: fb.Pixels[i], G: fb.Pixels[i+1], B: fb.Pixels[i+2], A: fb.Pixels[i+3]}
}

// SetPixelBlended combines c with the existing pixel according to the
// blend mode, ignoring depth.
func (fb *Framebuffer) SetPixelBlended(x, y int, c Color, mode BlendMode) {
	if mode == BlendOpaque {
		fb.SetPixel(x, y, c)
		return
	}
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.SetPixel(x, y, BlendColors(fb.GetPixel(x, y), c, mode))
}

// SetPixelWithDepth writes color and depth iff z is nearer than what the
// pixel already holds. It is the only mutator of the depth buffer, so
// color and depth can never disagree. Reports whether the pixel was
// written.
func (fb *Framebuffer) SetPixelWithDepth(x, y int, z float64, c Color) bool {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return false
	}
	di := y*fb.Width + x
	zf := float32(z)
	if zf >= fb.Depth[di] {
		return false
	}
	fb.Depth[di] = zf
	i := di * 4
	fb.Pixels[i] = c.R
	fb.Pixels[i+1] = c.G
	fb.Pixels[i+2] = c.B
	fb.Pixels[i+3] = c.A
	return true
}

// DepthAt returns the depth at (x, y), or +Inf out of bounds.
func (fb *Framebuffer) DepthAt(x, y int) float32 {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return float32(math.Inf(1))
	}
	return fb.Depth[y*fb.Width+x]
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's
// algorithm.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c Color) {
	fb.DrawLineBlended(x0, y0, x1, y1, c, BlendOpaque)
}

// DrawLineBlended draws a Bresenham line combining each pixel with the
// framebuffer through the given blend mode.
func (fb *Framebuffer) DrawLineBlended(x0, y0, x1, y1 int, c Color, mode BlendMode) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.SetPixelBlended(x0, y0, c, mode)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawLine3D draws a line with per-pixel depth testing. z0 and z1 are the
// endpoint depths (smaller = nearer); the depth is interpolated along the
// line and each pixel drawn only where the line is nearer than the depth
// buffer. The depth buffer itself is never written, so 3D lines respect
// occlusion without occluding anything drawn after them.
func (fb *Framebuffer) DrawLine3D(x0, y0 int, z0 float64, x1, y1 int, z1 float64, c Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	totalSteps := float64(max(dx, -dy, 1))
	step := 0.0

	for {
		if x0 >= 0 && x0 < fb.Width && y0 >= 0 && y0 < fb.Height {
			t := step / totalSteps
			z := z0 + t*(z1-z0)
			if float32(z) < fb.Depth[y0*fb.Width+x0] {
				fb.SetPixel(x0, y0, c)
			}
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
			step++
		}
		if e2 <= dx {
			err += dx
			y0 += sy
			if e2 < dy {
				step++
			}
		}
	}
}

// DrawThickLine draws a line with the given pixel thickness as a filled
// quad: the endpoints are offset perpendicular to the line by half the
// thickness and every pixel inside the resulting convex quad is set.
func (fb *Framebuffer) DrawThickLine(x0, y0, x1, y1, thickness int, c Color) {
	if thickness <= 1 {
		fb.DrawLine(x0, y0, x1, y1, c)
		return
	}

	p0 := math3d.V2(float64(x0), float64(y0))
	p1 := math3d.V2(float64(x1), float64(y1))
	dir := p1.Sub(p0)
	length := dir.Len()
	if length < 0.001 {
		return
	}

	offset := dir.Scale(1 / length).Perp().Scale(float64(thickness) * 0.5)
	corners := [4]math3d.Vec2{
		p0.Add(offset),
		p0.Sub(offset),
		p1.Sub(offset),
		p1.Add(offset),
	}

	minX := int(min(corners[0].X, corners[1].X, corners[2].X, corners[3].X))
	maxX := int(max(corners[0].X, corners[1].X, corners[2].X, corners[3].X))
	minY := int(min(corners[0].Y, corners[1].Y, corners[2].Y, corners[3].Y))
	maxY := int(max(corners[0].Y, corners[1].Y, corners[2].Y, corners[3].Y))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
				continue
			}
			// Test the pixel center against all four edges; a convex
			// quad with consistent winding keeps interior points on
			// the same side of every edge.
			p := math3d.V2(float64(x)+0.5, float64(y)+0.5)
			inside := true
			for i := range corners {
				a := corners[i]
				b := corners[(i+1)%4]
				if b.Sub(a).Cross(p.Sub(a)) < 0 {
					inside = false
					break
				}
			}
			if inside {
				fb.SetPixel(x, y, c)
			}
		}
	}
}

// DrawCircle draws a filled circle centered at (cx, cy).
func (fb *Framebuffer) DrawCircle(cx, cy, radius int, c Color) {
	rSq := radius * radius
	for y := max(cy-radius, 0); y <= min(cy+radius, fb.Height-1); y++ {
		for x := max(cx-radius, 0); x <= min(cx+radius, fb.Width-1); x++ {
			dx := x - cx
			dy := y - cy
			if dx*dx+dy*dy <= rSq {
				fb.SetPixel(x, y, c)
			}
		}
	}
}

// DrawRect draws a rectangle outline between two opposite corners.
func (fb *Framebuffer) DrawRect(x0, y0, x1, y1 int, c Color) {
	minX, maxX := x0, x1
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	minY, maxY := y0, y1
	if minY > maxY {
		minY, maxY = maxY, minY
	}

	fb.DrawLine(minX, minY, maxX, minY, c) // Top
	fb.DrawLine(maxX, minY, maxX, maxY, c) // Right
	fb.DrawLine(maxX, maxY, minX, maxY, c) // Bottom
	fb.DrawLine(minX, maxY, minX, minY, c) // Left
}

// DrawFilledRect fills the rectangle between two opposite corners.
func (fb *Framebuffer) DrawFilledRect(x0, y0, x1, y1 int, c Color) {
	minX, maxX := x0, x1
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	minY, maxY := y0, y1
	if minY > maxY {
		minY, maxY = maxY, minY
	}

	minX = max(minX, 0)
	minY = max(minY, 0)
	maxX = min(maxX, fb.Width-1)
	maxY = min(maxY, fb.Height-1)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			fb.SetPixel(x, y, c)
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToImage converts the framebuffer to a standard Go image.RGBA. The pixel
// layouts match byte for byte, so this is a straight copy.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	copy(img.Pix, fb.Pixels)
	return img
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, fb.ToImage())
}
