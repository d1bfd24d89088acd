package render

import "image/color"

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Colors for convenience
var (
	ColorBlack   = color.RGBA{0, 0, 0, 255}
	ColorWhite   = color.RGBA{255, 255, 255, 255}
	ColorRed     = color.RGBA{255, 0, 0, 255}
	ColorGreen   = color.RGBA{0, 255, 0, 255}
	ColorBlue    = color.RGBA{0, 0, 255, 255}
	ColorYellow  = color.RGBA{255, 255, 0, 255}
	ColorCyan    = color.RGBA{0, 255, 255, 255}
	ColorMagenta = color.RGBA{255, 0, 255, 255}
	ColorGray    = color.RGBA{128, 128, 128, 255}
	ColorSky     = color.RGBA{135, 206, 235, 255}
)

// ColorNeutral is the identity vertex color for texture modulation.
// Modulating a texel with it leaves the texel unchanged; brighter vertex
// colors over-brighten up to 2x.
var ColorNeutral = RGB(128, 128, 128)

// ColorWireframe is the color used for back-face wireframe overlays.
var ColorWireframe = RGB(80, 80, 100)

// RGB creates a color from RGB values.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}

// RGBA creates a color from RGBA values.
func RGBA(r, g, b, a uint8) color.RGBA {
	return color.RGBA{r, g, b, a}
}

// MultiplyColor multiplies a color by an intensity value (0.0 to 1.0).
func MultiplyColor(c Color, intensity float64) Color {
	if intensity < 0 {
		intensity = 0
	} else if intensity > 1 {
		intensity = 1
	}
	return Color{
		R: uint8(float64(c.R) * intensity),
		G: uint8(float64(c.G) * intensity),
		B: uint8(float64(c.B) * intensity),
		A: c.A,
	}
}

// ModulateColor combines a texel with a vertex color. Each channel is
// texel*vertex/128 clamped to 255, so ColorNeutral passes the texel
// through and values above 128 brighten it.
func ModulateColor(texel, vertex Color) Color {
	return Color{
		R: clampChannel(int(texel.R) * int(vertex.R) / 128),
		G: clampChannel(int(texel.G) * int(vertex.G) / 128),
		B: clampChannel(int(texel.B) * int(vertex.B) / 128),
		A: texel.A,
	}
}

// lerpColor linearly interpolates between two colors.
func lerpColor(c1, c2 Color, t float64) Color {
	return Color{
		R: uint8(float64(c1.R) + (float64(c2.R)-float64(c1.R))*t),
		G: uint8(float64(c1.G) + (float64(c2.G)-float64(c1.G))*t),
		B: uint8(float64(c1.B) + (float64(c2.B)-float64(c1.B))*t),
		A: uint8(float64(c1.A) + (float64(c2.A)-float64(c1.A))*t),
	}
}

func clampChannel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// BlendMode selects how a source color combines with the pixel already in
// the framebuffer, mirroring the PS1 semi-transparency modes.
type BlendMode uint8

const (
	// BlendOpaque replaces the destination pixel.
	BlendOpaque BlendMode = iota
	// BlendAverage is (dst + src) / 2.
	BlendAverage
	// BlendAdditive is dst + src, clamped.
	BlendAdditive
	// BlendSubtract is dst - src, clamped.
	BlendSubtract
	// BlendAddQuarter is dst + src/4, clamped.
	BlendAddQuarter
)

func (m BlendMode) String() string {
	switch m {
	case BlendOpaque:
		return "opaque"
	case BlendAverage:
		return "average"
	case BlendAdditive:
		return "additive"
	case BlendSubtract:
		return "subtract"
	case BlendAddQuarter:
		return "add-quarter"
	}
	return "unknown"
}

// BlendColors combines src with dst according to mode. The arithmetic
// modes operate on RGB and return an opaque pixel.
func BlendColors(dst, src Color, mode BlendMode) Color {
	switch mode {
	case BlendAverage:
		return Color{
			R: uint8((int(dst.R) + int(src.R)) / 2),
			G: uint8((int(dst.G) + int(src.G)) / 2),
			B: uint8((int(dst.B) + int(src.B)) / 2),
			A: 255,
		}
	case BlendAdditive:
		return Color{
			R: clampChannel(int(dst.R) + int(src.R)),
			G: clampChannel(int(dst.G) + int(src.G)),
			B: clampChannel(int(dst.B) + int(src.B)),
			A: 255,
		}
	case BlendSubtract:
		return Color{
			R: clampChannel(int(dst.R) - int(src.R)),
			G: clampChannel(int(dst.G) - int(src.G)),
			B: clampChannel(int(dst.B) - int(src.B)),
			A: 255,
		}
	case BlendAddQuarter:
		return Color{
			R: clampChannel(int(dst.R) + int(src.R)/4),
			G: clampChannel(int(dst.G) + int(src.G)/4),
			B: clampChannel(int(dst.B) + int(src.B)/4),
			A: 255,
		}
	default:
		return src
	}
}
