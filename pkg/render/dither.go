package render

// bayer4 is the 4x4 ordered dither threshold matrix.
var bayer4 = [4][4]int{
	{0, 8, 2, 10},
	{12, 4, 14, 6},
	{3, 11, 1, 9},
	{15, 7, 13, 5},
}

// DitherColor quantizes a color to 15-bit depth (5 bits per channel) using
// ordered dithering. The screen position picks a threshold from the Bayer
// matrix so quantization error turns into a stable crosshatch pattern
// instead of banding. The same input at the same position always produces
// the same output.
func DitherColor(c Color, x, y int) Color {
	offset := (bayer4[y&3][x&3] - 8) / 2
	return Color{
		R: ditherChannel(c.R, offset),
		G: ditherChannel(c.G, offset),
		B: ditherChannel(c.B, offset),
		A: c.A,
	}
}

// ditherChannel adds the Bayer offset, clamps to byte range, then drops
// the low 3 bits.
func ditherChannel(v uint8, offset int) uint8 {
	d := int(v) + offset
	if d < 0 {
		d = 0
	} else if d > 255 {
		d = 255
	}
	return uint8(d) & 0xF8
}
