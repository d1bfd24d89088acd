package math3d

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func vec3Near(a, b Vec3) bool {
	return math.Abs(a.X-b.X) < epsilon &&
		math.Abs(a.Y-b.Y) < epsilon &&
		math.Abs(a.Z-b.Z) < epsilon
}

func TestVec3Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   Vec3
		want Vec3
	}{
		{"unit x", V3(5, 0, 0), V3(1, 0, 0)},
		{"diagonal", V3(1, 1, 1), V3(1, 1, 1).Scale(1 / math.Sqrt(3))},
		{"zero stays zero", Zero3(), Zero3()},
		{"negative", V3(0, -3, 0), V3(0, -1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			if !vec3Near(got, tt.want) {
				t.Errorf("Normalize(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestVec3Cross(t *testing.T) {
	// Right-handed: x × y = z
	got := V3(1, 0, 0).Cross(V3(0, 1, 0))
	if !vec3Near(got, V3(0, 0, 1)) {
		t.Errorf("x cross y = %v, want (0,0,1)", got)
	}

	// Anti-commutative
	a, b := V3(1, 2, 3), V3(4, 5, 6)
	if !vec3Near(a.Cross(b), b.Cross(a).Negate()) {
		t.Errorf("cross product should be anti-commutative")
	}
}

func TestVec2Perp(t *testing.T) {
	v := V2(3, 1)
	p := v.Perp()
	if p.Dot(v) != 0 {
		t.Errorf("Perp should be orthogonal, dot = %f", p.Dot(v))
	}
	if p.X != -1 || p.Y != 3 {
		t.Errorf("Perp(3,1) = %v, want (-1,3)", p)
	}
}

func TestVec2Cross(t *testing.T) {
	// Positive for counterclockwise turn, negative for clockwise.
	if c := V2(1, 0).Cross(V2(0, 1)); c != 1 {
		t.Errorf("cross = %f, want 1", c)
	}
	if c := V2(0, 1).Cross(V2(1, 0)); c != -1 {
		t.Errorf("cross = %f, want -1", c)
	}
}

func TestMat4TranslatePoint(t *testing.T) {
	m := Translate(V3(10, 20, 30))
	got := m.MulVec3(V3(1, 2, 3))
	if !vec3Near(got, V3(11, 22, 33)) {
		t.Errorf("translate = %v, want (11,22,33)", got)
	}

	// Directions ignore translation.
	dir := m.MulVec3Dir(V3(1, 0, 0))
	if !vec3Near(dir, V3(1, 0, 0)) {
		t.Errorf("MulVec3Dir should ignore translation, got %v", dir)
	}
}

func TestMat4RotateY(t *testing.T) {
	// 90 degrees around Y takes +Z to +X.
	m := RotateY(math.Pi / 2)
	got := m.MulVec3(V3(0, 0, 1))
	if !vec3Near(got, V3(1, 0, 0)) {
		t.Errorf("RotateY(90)*(0,0,1) = %v, want (1,0,0)", got)
	}
}

func TestMat4Compose(t *testing.T) {
	// Scale then translate: point (1,1,1) -> (2,2,2) -> (12,22,32)
	m := Translate(V3(10, 20, 30)).Mul(ScaleUniform(2))
	got := m.MulVec3(V3(1, 1, 1))
	if !vec3Near(got, V3(12, 22, 32)) {
		t.Errorf("compose = %v, want (12,22,32)", got)
	}
}
