// Package picking casts rays from the screen into the terrain.
package picking

import (
	"github.com/go-gl/mathgl/mgl32"
)

// refineSteps is the number of bisection steps after the march brackets a hit.
const refineSteps = 16

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3 // Normalized direction
}

// HeightFunc returns the ground height at (x, z), or false where no ground
// is known.
type HeightFunc func(x, z float32) (float32, bool)

// ScreenToRay converts pixel coordinates to a world-space ray.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj mgl32.Mat4) Ray {
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH // Flip Y

	near := invViewProj.Mul4x1(mgl32.Vec4{ndcX, ndcY, -1, 1})
	far := invViewProj.Mul4x1(mgl32.Vec4{ndcX, ndcY, 1, 1})

	origin := near.Vec3()
	if near[3] != 0 {
		origin = origin.Mul(1 / near[3])
	}
	end := far.Vec3()
	if far[3] != 0 {
		end = end.Mul(1 / far[3])
	}

	dir := end.Sub(origin)
	if dir.Len() > 0 {
		dir = dir.Normalize()
	}
	return Ray{Origin: origin, Direction: dir}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectPlaneY intersects the ray with the horizontal plane y = planeY.
func (r Ray) IntersectPlaneY(planeY float32) (x, z float32, ok bool) {
	if mgl32.Abs(r.Direction[1]) < 0.001 {
		return 0, 0, false // Parallel
	}
	t := (planeY - r.Origin[1]) / r.Direction[1]
	if t < 0 {
		return 0, 0, false // Behind the origin
	}
	p := r.At(t)
	return p[0], p[2], true
}

// MarchHeight walks the ray in fixed steps up to maxDist and returns the
// first point where it drops below the ground. Stretches without ground
// are skipped.
func (r Ray) MarchHeight(ground HeightFunc, maxDist, step float32) (mgl32.Vec3, bool) {
	if step <= 0 || maxDist <= 0 {
		return mgl32.Vec3{}, false
	}

	above := func(t float32) (bool, bool) {
		p := r.At(t)
		h, ok := ground(p[0], p[2])
		return p[1] >= h, ok
	}

	prev, known := float32(0), false
	if a, ok := above(0); ok {
		if !a {
			return r.Origin, true
		}
		known = true
	}

	for t := step; t <= maxDist+step/2; t += step {
		a, ok := above(t)
		if !ok {
			known = false
			continue
		}
		if !a {
			if !known {
				return r.At(t), true
			}
			lo, hi := prev, t
			for range refineSteps {
				mid := (lo + hi) / 2
				if m, ok := above(mid); ok && !m {
					hi = mid
				} else {
					lo = mid
				}
			}
			return r.At(hi), true
		}
		prev, known = t, true
	}
	return mgl32.Vec3{}, false
}
