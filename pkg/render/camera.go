package render

import (
	"math"

	"github.com/EBonura/bonnie-engine/pkg/math3d"
)

// NearPlane is the camera-space depth at or below which geometry is
// culled. Keeping it above zero guarantees every perspective divide
// happens with a safely positive depth.
const NearPlane = 0.1

// maxPitch stops the camera short of straight up/down so the basis never
// degenerates.
const maxPitch = math.Pi/2 - 0.01

// Camera is a first-person camera: a position plus pitch/yaw angles.
// Instead of a view matrix it maintains three orthonormal basis vectors,
// so a world point enters camera space through one dot product per axis.
//
// The up reference is -Y: camera-space Y grows downward to match
// framebuffer rows, while the world itself is Y-up. Camera-space +Z is
// the view direction.
type Camera struct {
	Position math3d.Vec3
	Pitch    float64 // Rotation around X (look up/down)
	Yaw      float64 // Rotation around Y (look left/right)

	// FOV is the vertical field of view in radians.
	FOV float64

	// Basis vectors derived from Pitch and Yaw.
	Right   math3d.Vec3
	Up      math3d.Vec3
	Forward math3d.Vec3
}

// NewCamera creates a camera at the origin looking down +Z with a 60
// degree field of view.
func NewCamera() *Camera {
	c := &Camera{
		FOV: math.Pi / 3,
	}
	c.UpdateBasis()
	return c
}

// UpdateBasis recomputes the basis vectors from Pitch and Yaw. Rotate and
// LookAt call it automatically; call it yourself after assigning the
// angles directly.
func (c *Camera) UpdateBasis() {
	// -Y as the up reference folds the screen-space Y flip into the
	// basis itself.
	upward := math3d.V3(0, -1, 0)

	c.Forward = math3d.V3(
		math.Cos(c.Pitch)*math.Sin(c.Yaw),
		-math.Sin(c.Pitch),
		math.Cos(c.Pitch)*math.Cos(c.Yaw),
	)
	c.Right = upward.Cross(c.Forward).Normalize()
	c.Up = c.Forward.Cross(c.Right)
}

// Rotate adjusts pitch and yaw by the given deltas (radians), clamping
// pitch short of vertical.
func (c *Camera) Rotate(deltaPitch, deltaYaw float64) {
	c.Yaw += deltaYaw
	c.Pitch += deltaPitch
	if c.Pitch > maxPitch {
		c.Pitch = maxPitch
	}
	if c.Pitch < -maxPitch {
		c.Pitch = -maxPitch
	}
	c.UpdateBasis()
}

// LookAt points the camera at a target position.
func (c *Camera) LookAt(target math3d.Vec3) {
	d := target.Sub(c.Position)
	c.Yaw = math.Atan2(d.X, d.Z)
	c.Pitch = math.Atan2(-d.Y, math.Hypot(d.X, d.Z))
	if c.Pitch > maxPitch {
		c.Pitch = maxPitch
	}
	if c.Pitch < -maxPitch {
		c.Pitch = -maxPitch
	}
	c.UpdateBasis()
}

// MoveForward moves along the view direction (or backward if negative).
func (c *Camera) MoveForward(distance float64) {
	c.Position = c.Position.Add(c.Forward.Scale(distance))
}

// MoveRight strafes along the right vector (or left if negative).
func (c *Camera) MoveRight(distance float64) {
	c.Position = c.Position.Add(c.Right.Scale(distance))
}

// MoveUp moves along the world vertical, independent of pitch.
func (c *Camera) MoveUp(distance float64) {
	c.Position = c.Position.Add(math3d.V3(0, distance, 0))
}

// WorldToCamera transforms a world-space point into camera space.
func (c *Camera) WorldToCamera(p math3d.Vec3) math3d.Vec3 {
	rel := p.Sub(c.Position)
	return math3d.V3(rel.Dot(c.Right), rel.Dot(c.Up), rel.Dot(c.Forward))
}

// RotateToCamera transforms a world-space direction into camera space,
// ignoring the camera position. Used for normals.
func (c *Camera) RotateToCamera(d math3d.Vec3) math3d.Vec3 {
	return math3d.V3(d.Dot(c.Right), d.Dot(c.Up), d.Dot(c.Forward))
}

// WorldToScreen projects a world point to pixel coordinates.
// Returns (screenX, screenY, depth, visible); visible is false when the
// point lies at or behind the near plane.
func (c *Camera) WorldToScreen(worldPos math3d.Vec3, screenWidth, screenHeight int) (x, y, depth float64, visible bool) {
	p := c.WorldToCamera(worldPos)
	if p.Z <= NearPlane {
		return 0, 0, 0, false
	}
	focal := focalLength(c.FOV, screenHeight)
	x = p.X/p.Z*focal + float64(screenWidth)/2
	y = p.Y/p.Z*focal + float64(screenHeight)/2
	return x, y, p.Z, true
}

// focalLength converts a vertical field of view to the pinhole focal
// length in pixels for an image of the given height.
func focalLength(fov float64, height int) float64 {
	return float64(height) / 2 / math.Tan(fov/2)
}
