// Package camera provides camera implementations for 3D rendering.
package camera

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// FlyCamera is a free-flying first person camera. Yaw 0 looks down -Z.
type FlyCamera struct {
	Position mgl32.Vec3

	Yaw   float32 // Horizontal angle, radians
	Pitch float32 // Vertical angle, radians

	FOV  float32 // Vertical field of view, degrees
	Near float32
	Far  float32

	MoveSpeed       float32 // World units per second
	BoostFactor     float32
	LookSensitivity float32 // Radians per pixel
	MinPitch        float32
	MaxPitch        float32
}

// NewFlyCamera creates a camera at pos looking toward -Z, slightly down.
func NewFlyCamera(pos mgl32.Vec3) *FlyCamera {
	return &FlyCamera{
		Position:        pos,
		Pitch:           -0.3,
		FOV:             60,
		Near:            0.5,
		Far:             5000,
		MoveSpeed:       80,
		BoostFactor:     4,
		LookSensitivity: 0.003,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
	}
}

// Forward returns the unit view direction.
func (c *FlyCamera) Forward() mgl32.Vec3 {
	sy, cy := sincos(c.Yaw)
	sp, cp := sincos(c.Pitch)
	return mgl32.Vec3{sy * cp, sp, -cy * cp}
}

// Right returns the horizontal unit vector to the right of the view.
func (c *FlyCamera) Right() mgl32.Vec3 {
	sy, cy := sincos(c.Yaw)
	return mgl32.Vec3{cy, 0, sy}
}

// Look turns the camera by a mouse delta in pixels.
func (c *FlyCamera) Look(dx, dy float32) {
	c.Yaw += dx * c.LookSensitivity
	c.Pitch -= dy * c.LookSensitivity
	c.Pitch = mgl32.Clamp(c.Pitch, c.MinPitch, c.MaxPitch)
}

// Move translates the camera. forward and right move on the horizontal
// plane, up moves vertically; each is expected in [-1, 1].
func (c *FlyCamera) Move(forward, right, up, dt float32, boost bool) {
	speed := c.MoveSpeed * dt
	if boost {
		speed *= c.BoostFactor
	}
	sy, cy := sincos(c.Yaw)
	flat := mgl32.Vec3{sy, 0, -cy}

	delta := flat.Mul(forward).Add(c.Right().Mul(right)).Add(mgl32.Vec3{0, up, 0})
	if delta.Len() > 1 {
		delta = delta.Normalize()
	}
	c.Position = c.Position.Add(delta.Mul(speed))
}

// FollowGround keeps the camera at least clearance above ground.
func (c *FlyCamera) FollowGround(ground, clearance float32) {
	if floor := ground + clearance; c.Position.Y() < floor {
		c.Position[1] = floor
	}
}

// ViewMatrix returns the view matrix for this camera.
func (c *FlyCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Forward()), mgl32.Vec3{0, 1, 0})
}

// ProjectionMatrix returns the perspective projection for an aspect ratio.
func (c *FlyCamera) ProjectionMatrix(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

// ViewProjection returns projection * view.
func (c *FlyCamera) ViewProjection(aspect float32) mgl32.Mat4 {
	return c.ProjectionMatrix(aspect).Mul4(c.ViewMatrix())
}

// GroundPosition returns the camera position projected on the XZ plane, the
// viewer position used for chunk streaming.
func (c *FlyCamera) GroundPosition() math.Vec2 {
	return math.Vec2{X: c.Position.X(), Y: c.Position.Z()}
}

func sincos(a float32) (float32, float32) {
	s, c := gomath.Sincos(float64(a))
	return float32(s), float32(c)
}
