package render

import (
	"image"
	"testing"
)

func TestSolidTexture(t *testing.T) {
	tex := NewSolidTexture(4, 4, ColorRed)
	for _, uv := range [][2]float64{{0, 0}, {0.5, 0.5}, {0.99, 0.99}, {2.5, -1.5}} {
		if got := tex.Sample(uv[0], uv[1]); got != ColorRed {
			t.Errorf("Sample(%v, %v) = %v, want red", uv[0], uv[1], got)
		}
	}
}

func TestCheckerTexture(t *testing.T) {
	tex := NewCheckerTexture(4, 4, 2, ColorWhite, ColorBlack)

	if got := tex.GetPixel(0, 0); got != ColorWhite {
		t.Errorf("(0,0) = %v, want white", got)
	}
	if got := tex.GetPixel(2, 0); got != ColorBlack {
		t.Errorf("(2,0) = %v, want black", got)
	}
	if got := tex.GetPixel(2, 2); got != ColorWhite {
		t.Errorf("(2,2) = %v, want white", got)
	}
	if got := tex.GetPixel(1, 1); got != ColorWhite {
		t.Errorf("(1,1) = %v, want white (same cell as origin)", got)
	}
}

func TestGradientTexture(t *testing.T) {
	tex := NewGradientTexture(8, 1, ColorBlack, ColorWhite)

	if got := tex.GetPixel(0, 0); got != ColorBlack {
		t.Errorf("left edge = %v, want black", got)
	}
	if got := tex.GetPixel(7, 0); got != ColorWhite {
		t.Errorf("right edge = %v, want white", got)
	}
	mid := tex.GetPixel(4, 0)
	if mid.R <= ColorBlack.R || mid.R >= ColorWhite.R {
		t.Errorf("middle = %v, want something in between", mid)
	}
}

func TestTextureSample(t *testing.T) {
	// One column, two rows: row 0 red on top, row 1 blue on the bottom.
	tex := NewTexture(1, 2)
	tex.SetPixel(0, 0, ColorRed)
	tex.SetPixel(0, 1, ColorBlue)

	t.Run("v is flipped", func(t *testing.T) {
		// Low v addresses the bottom of the image.
		if got := tex.Sample(0, 0.25); got != ColorBlue {
			t.Errorf("Sample(0, 0.25) = %v, want bottom blue", got)
		}
		if got := tex.Sample(0, 0.75); got != ColorRed {
			t.Errorf("Sample(0, 0.75) = %v, want top red", got)
		}
	})

	t.Run("u wraps", func(t *testing.T) {
		wide := NewTexture(2, 1)
		wide.SetPixel(0, 0, ColorRed)
		wide.SetPixel(1, 0, ColorBlue)

		if got := wide.Sample(0.25, 0.5); got != ColorRed {
			t.Errorf("Sample(0.25) = %v, want red", got)
		}
		if a, b := wide.Sample(1.25, 0.5), wide.Sample(0.25, 0.5); a != b {
			t.Errorf("u=1.25 sampled %v but u=0.25 sampled %v", a, b)
		}
		// Negative u wraps back into range instead of crashing.
		if got := wide.Sample(-0.75, 0.5); got != ColorBlue {
			t.Errorf("Sample(-0.75) = %v, want blue", got)
		}
	})

	t.Run("empty texture", func(t *testing.T) {
		empty := NewTexture(0, 0)
		if got := empty.Sample(0.5, 0.5); got != (Color{}) {
			t.Errorf("empty texture sampled %v, want zero", got)
		}
	})
}

func TestTexturePixelBounds(t *testing.T) {
	tex := NewTexture(2, 2)
	tex.SetPixel(-1, 0, ColorRed)
	tex.SetPixel(0, 5, ColorRed)

	if got := tex.GetPixel(-1, 0); got != (Color{}) {
		t.Errorf("out-of-bounds read = %v, want zero", got)
	}
	for i, p := range tex.Pixels {
		if p != (Color{}) {
			t.Errorf("out-of-bounds write landed on texel %d", i)
		}
	}
}

func TestTextureFromImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, ColorRed)
	img.Set(1, 1, ColorGreen)

	tex := TextureFromImage(img)
	if tex.Width != 2 || tex.Height != 2 {
		t.Fatalf("size = %dx%d, want 2x2", tex.Width, tex.Height)
	}
	if got := tex.GetPixel(0, 0); got != ColorRed {
		t.Errorf("(0,0) = %v, want red", got)
	}
	if got := tex.GetPixel(1, 1); got != ColorGreen {
		t.Errorf("(1,1) = %v, want green", got)
	}
}

func TestLoadTextureMissing(t *testing.T) {
	if _, err := LoadTexture("does/not/exist.png"); err == nil {
		t.Error("loading a missing file should fail")
	}
}

func TestTextureTable(t *testing.T) {
	tbl := NewTextureTable()

	red := NewSolidTexture(1, 1, ColorRed)
	blue := NewSolidTexture(1, 1, ColorBlue)

	idRed := tbl.Add(red)
	idBlue := tbl.Add(blue)

	if idRed == NoTexture || idBlue == NoTexture {
		t.Fatal("Add returned NoTexture for a real texture")
	}
	if idRed == idBlue {
		t.Fatal("handles collide")
	}
	if tbl.Len() != 2 {
		t.Errorf("Len = %d, want 2", tbl.Len())
	}

	if tbl.Resolve(idRed) != red || tbl.Resolve(idBlue) != blue {
		t.Error("Resolve returned the wrong texture")
	}
	if tbl.Resolve(NoTexture) != nil {
		t.Error("Resolve(NoTexture) should be nil")
	}
	if tbl.Resolve(99) != nil {
		t.Error("Resolve of an unknown handle should be nil")
	}
	if tbl.Add(nil) != NoTexture {
		t.Error("Add(nil) should return NoTexture")
	}
}

func TestTextureTableNil(t *testing.T) {
	// A nil table resolves everything to untextured, so callers can skip
	// the nil check.
	var tbl *TextureTable
	if tbl.Resolve(1) != nil {
		t.Error("nil table should resolve to nil")
	}
	if tbl.Len() != 0 {
		t.Error("nil table should have zero length")
	}
}

func TestTextureTableNamed(t *testing.T) {
	tbl := NewTextureTable()

	first := NewSolidTexture(1, 1, ColorRed)
	id := tbl.AddNamed("wall", first)
	if id == NoTexture {
		t.Fatal("AddNamed returned NoTexture")
	}
	if tbl.IDByName("wall") != id {
		t.Error("IDByName lookup failed")
	}
	if tbl.IDByName("missing") != NoTexture {
		t.Error("unknown name should map to NoTexture")
	}

	// Re-adding swaps the texture behind the same handle.
	second := NewSolidTexture(1, 1, ColorBlue)
	id2 := tbl.AddNamed("wall", second)
	if id2 != id {
		t.Errorf("re-add returned new handle %d, want %d", id2, id)
	}
	if tbl.Resolve(id) != second {
		t.Error("faces holding the old handle should see the new texture")
	}
	if tbl.Len() != 1 {
		t.Errorf("Len = %d, want 1 after swap", tbl.Len())
	}
}
