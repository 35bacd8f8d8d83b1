package terrain

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// NormalizeMode selects how raw fractal noise is mapped into [0,1].
type NormalizeMode int

const (
	// NormalizeGlobal maps against the theoretical noise range, so adjacent
	// chunks agree at their shared edges.
	NormalizeGlobal NormalizeMode = iota
	// NormalizeLocal stretches each map to its own min/max. Chunks will not
	// line up; useful only for previewing a single map.
	NormalizeLocal
)

// ErrNoiseSettings is returned for noise settings outside their valid range.
var ErrNoiseSettings = errors.New("invalid noise settings")

// NoiseSettings configures fractal value noise.
type NoiseSettings struct {
	Seed        int64
	Scale       float32 // grid steps per noise unit at the first octave
	Octaves     int
	Persistence float32 // amplitude multiplier per octave
	Lacunarity  float32 // frequency multiplier per octave
	Offset      math.Vec2
	Normalize   NormalizeMode
}

// DefaultNoiseSettings returns rolling-hills noise settings.
func DefaultNoiseSettings() NoiseSettings {
	return NoiseSettings{
		Seed:        1,
		Scale:       50,
		Octaves:     6,
		Persistence: 0.5,
		Lacunarity:  2,
		Normalize:   NormalizeGlobal,
	}
}

// Validate checks that the settings produce well-defined noise.
func (s NoiseSettings) Validate() error {
	switch {
	case s.Scale <= 0:
		return fmt.Errorf("%w: scale %g must be positive", ErrNoiseSettings, s.Scale)
	case s.Octaves < 1 || s.Octaves > 16:
		return fmt.Errorf("%w: octaves %d outside 1..16", ErrNoiseSettings, s.Octaves)
	case s.Persistence <= 0 || s.Persistence > 1:
		return fmt.Errorf("%w: persistence %g outside (0,1]", ErrNoiseSettings, s.Persistence)
	case s.Lacunarity < 1:
		return fmt.Errorf("%w: lacunarity %g below 1", ErrNoiseSettings, s.Lacunarity)
	case s.Normalize != NormalizeGlobal && s.Normalize != NormalizeLocal:
		return fmt.Errorf("%w: unknown normalize mode %d", ErrNoiseSettings, s.Normalize)
	}
	return nil
}

// GenerateNoiseMap samples width x height noise values in [0,1], indexed [x][y].
// sampleCentre is the map center in grid steps; sample (x,y) lands on grid
// coordinate sampleCentre + (x,y) - (width-1, height-1)/2, so maps sampled
// around neighbouring centres share their border values.
func GenerateNoiseMap(width, height int, s NoiseSettings, sampleCentre math.Vec2) [][]float32 {
	values := make([][]float32, width)
	for x := range values {
		values[x] = make([]float32, height)
	}

	seed := uint32(s.Seed) ^ uint32(uint64(s.Seed)>>32)
	offsets := make([][2]float64, s.Octaves)
	maxPossible := 0.0
	amplitude := 1.0
	for i := range offsets {
		offsets[i] = [2]float64{
			float64(int32(hash2(seed, int32(i), 0))%100000) + float64(s.Offset.X),
			float64(int32(hash2(seed, int32(i), 1))%100000) + float64(s.Offset.Y),
		}
		maxPossible += amplitude
		amplitude *= float64(s.Persistence)
	}

	halfW := float64(width-1) / 2
	halfH := float64(height-1) / 2
	scale := float64(s.Scale)

	raw := make([]float64, width*height)
	minLocal := gomath.MaxFloat64
	maxLocal := -gomath.MaxFloat64

	for y := range height {
		for x := range width {
			gx := float64(x) - halfW + float64(sampleCentre.X)
			gy := float64(y) - halfH + float64(sampleCentre.Y)

			amplitude := 1.0
			frequency := 1.0
			h := 0.0
			for i := range s.Octaves {
				sx := (gx + offsets[i][0]) / scale * frequency
				sy := (gy + offsets[i][1]) / scale * frequency
				h += (valueNoise(seed+uint32(i), sx, sy)*2 - 1) * amplitude

				amplitude *= float64(s.Persistence)
				frequency *= float64(s.Lacunarity)
			}

			if h < minLocal {
				minLocal = h
			}
			if h > maxLocal {
				maxLocal = h
			}

			raw[x*height+y] = h
		}
	}

	span := maxLocal - minLocal
	for x := range values {
		for y := range values[x] {
			h := raw[x*height+y]
			switch {
			case s.Normalize == NormalizeGlobal:
				values[x][y] = float32(clamp01((h + maxPossible) / (2 * maxPossible)))
			case span > 0:
				values[x][y] = float32((h - minLocal) / span)
			default:
				values[x][y] = 0
			}
		}
	}

	return values
}

// valueNoise returns smoothly interpolated lattice noise in [0,1].
func valueNoise(seed uint32, x, y float64) float64 {
	x0 := gomath.Floor(x)
	y0 := gomath.Floor(y)
	ix, iy := int32(x0), int32(y0)

	fx := smoothstep(x - x0)
	fy := smoothstep(y - y0)

	v00 := lattice(seed, ix, iy)
	v10 := lattice(seed, ix+1, iy)
	v01 := lattice(seed, ix, iy+1)
	v11 := lattice(seed, ix+1, iy+1)

	top := v00 + (v10-v00)*fx
	bottom := v01 + (v11-v01)*fx
	return top + (bottom-top)*fy
}

func lattice(seed uint32, x, y int32) float64 {
	return float64(hash2(seed, x, y)) / float64(^uint32(0))
}

// hash2 returns a stable hash for 2D integer coordinates and a seed.
func hash2(seed uint32, x, y int32) uint32 {
	h := seed
	h ^= uint32(x) * 0x9e3779b1
	h ^= uint32(y) * 0x85ebca6b
	h ^= h >> 16
	h *= 0x7feb352d
	h ^= h >> 15
	h *= 0x846ca68b
	h ^= h >> 16
	return h
}

func smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
