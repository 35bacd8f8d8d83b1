package terrain

import "sort"

// CurveKey is one keyframe of a Curve.
type CurveKey struct {
	T float32
	V float32
}

// Curve is a piecewise-linear function through a set of keyframes. Outside
// the key range it holds the first/last value. An empty curve evaluates to 1.
// A Curve is immutable once built and safe to evaluate from many goroutines.
type Curve struct {
	keys []CurveKey
}

// NewCurve builds a curve from keys in any order.
func NewCurve(keys ...CurveKey) Curve {
	sorted := make([]CurveKey, len(keys))
	copy(sorted, keys)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].T < sorted[j].T })
	return Curve{keys: sorted}
}

// LinearCurve returns the identity curve on [0,1].
func LinearCurve() Curve {
	return NewCurve(CurveKey{0, 0}, CurveKey{1, 1})
}

// Keys returns a copy of the curve keyframes.
func (c Curve) Keys() []CurveKey {
	out := make([]CurveKey, len(c.keys))
	copy(out, c.keys)
	return out
}

// Evaluate returns the curve value at t.
func (c Curve) Evaluate(t float32) float32 {
	n := len(c.keys)
	if n == 0 {
		return 1
	}
	if t <= c.keys[0].T {
		return c.keys[0].V
	}
	if t >= c.keys[n-1].T {
		return c.keys[n-1].V
	}

	i := sort.Search(n, func(i int) bool { return c.keys[i].T >= t })
	a, b := c.keys[i-1], c.keys[i]
	span := b.T - a.T
	if span <= 0 {
		return b.V
	}
	f := (t - a.T) / span
	return a.V + (b.V-a.V)*f
}
