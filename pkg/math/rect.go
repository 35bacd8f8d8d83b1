package math

// Rect is an axis-aligned rectangle described by its center and full size.
type Rect struct {
	Center Vec2
	Size   Vec2
}

// NewRect creates a rect centered on center with the given full size.
func NewRect(center, size Vec2) Rect {
	return Rect{Center: center, Size: size}
}

// Min returns the lower corner.
func (r Rect) Min() Vec2 {
	return r.Center.Sub(r.Size.Scale(0.5))
}

// Max returns the upper corner.
func (r Rect) Max() Vec2 {
	return r.Center.Add(r.Size.Scale(0.5))
}

// Contains reports whether p lies inside or on the edge of the rect.
func (r Rect) Contains(p Vec2) bool {
	lo, hi := r.Min(), r.Max()
	return p.X >= lo.X && p.X <= hi.X && p.Y >= lo.Y && p.Y <= hi.Y
}

// SqrDistance returns the squared distance from p to the nearest point of
// the rect. Points inside the rect are at distance 0.
func (r Rect) SqrDistance(p Vec2) float32 {
	lo, hi := r.Min(), r.Max()
	dx := axisExcess(p.X, lo.X, hi.X)
	dy := axisExcess(p.Y, lo.Y, hi.Y)
	return dx*dx + dy*dy
}

func axisExcess(v, lo, hi float32) float32 {
	if v < lo {
		return lo - v
	}
	if v > hi {
		return v - hi
	}
	return 0
}
