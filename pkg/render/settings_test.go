package render

import (
	"math"
	"testing"
)

func TestDefaultRasterSettings(t *testing.T) {
	s := DefaultRasterSettings()

	if !s.AffineTextures || !s.VertexSnap || !s.UseZBuffer || !s.BackfaceCull || !s.Dithering {
		t.Errorf("defaults should enable every PS1 effect: %+v", s)
	}
	if s.Shading != ShadingGouraud {
		t.Errorf("default shading = %v, want gouraud", s.Shading)
	}
	if s.Ambient != 0.3 {
		t.Errorf("default ambient = %v, want 0.3", s.Ambient)
	}
	if l := s.LightDir.Len(); math.Abs(l-1) > 1e-9 {
		t.Errorf("default light direction has length %v, want 1", l)
	}
}

func TestShadingModeString(t *testing.T) {
	names := map[ShadingMode]string{
		ShadingNone:     "none",
		ShadingFlat:     "flat",
		ShadingGouraud:  "gouraud",
		ShadingMode(99): "unknown",
	}
	for mode, want := range names {
		if got := mode.String(); got != want {
			t.Errorf("ShadingMode(%d).String() = %q, want %q", mode, got, want)
		}
	}
}
