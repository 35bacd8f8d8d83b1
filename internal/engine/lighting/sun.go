// Package lighting provides lighting utilities for 3D rendering.
package lighting

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Sun is a directional light placed by compass angles in degrees.
type Sun struct {
	Azimuth   float32 // Rotation around +Y, 0 = toward +Z
	Elevation float32 // Angle above the horizon, 0..90
}

// DefaultSun is a late-morning sun from the south-west.
var DefaultSun = Sun{Azimuth: 220, Elevation: 50}

// ToSun returns the unit vector pointing from the ground toward the sun.
func (s Sun) ToSun() mgl32.Vec3 {
	az := float64(mgl32.DegToRad(s.Azimuth))
	el := float64(mgl32.DegToRad(s.Elevation))
	return mgl32.Vec3{
		float32(math.Cos(el) * math.Sin(az)),
		float32(math.Sin(el)),
		float32(math.Cos(el) * math.Cos(az)),
	}
}

// Direction returns the direction light travels, as shaders expect it.
func (s Sun) Direction() [3]float32 {
	return [3]float32(s.ToSun().Mul(-1))
}
