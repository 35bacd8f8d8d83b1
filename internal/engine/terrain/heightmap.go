package terrain

import (
	"errors"
	"fmt"

	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// NoiseFunc produces a width x height grid of raw values in [0,1], indexed
// [x][y]. It must be a pure function of its arguments.
type NoiseFunc func(width, height int, settings NoiseSettings, sampleCentre math.Vec2) [][]float32

// ErrHeightMultiplier is returned for a non-positive height multiplier.
var ErrHeightMultiplier = errors.New("height multiplier must be positive")

// HeightMapSettings controls height field synthesis.
type HeightMapSettings struct {
	Noise      NoiseSettings
	Multiplier float32
	Curve      Curve
	Source     NoiseFunc // defaults to GenerateNoiseMap
}

// DefaultHeightMapSettings returns the default height field settings.
func DefaultHeightMapSettings() HeightMapSettings {
	return HeightMapSettings{
		Noise:      DefaultNoiseSettings(),
		Multiplier: 40,
		Curve:      NewCurve(CurveKey{0, 0}, CurveKey{0.35, 0.05}, CurveKey{1, 1}),
	}
}

// Validate checks the settings.
func (s HeightMapSettings) Validate() error {
	if err := s.Noise.Validate(); err != nil {
		return err
	}
	if s.Multiplier <= 0 {
		return fmt.Errorf("%w: %g", ErrHeightMultiplier, s.Multiplier)
	}
	return nil
}

// MinHeight returns the lowest elevation the settings can produce.
func (s HeightMapSettings) MinHeight() float32 {
	return s.Multiplier * s.Curve.Evaluate(0)
}

// MaxHeight returns the highest elevation the settings can produce.
func (s HeightMapSettings) MaxHeight() float32 {
	return s.Multiplier * s.Curve.Evaluate(1)
}

// GenerateHeightMap samples noise around sampleCentre and shapes it with the
// height curve and multiplier. Safe to call from any goroutine.
func GenerateHeightMap(width, height int, settings HeightMapSettings, sampleCentre math.Vec2) *HeightMap {
	source := settings.Source
	if source == nil {
		source = GenerateNoiseMap
	}
	values := source(width, height, settings.Noise, sampleCentre)

	hm := &HeightMap{Values: values}
	first := true
	for x := range values {
		for y := range values[x] {
			v := values[x][y]
			v *= settings.Curve.Evaluate(v) * settings.Multiplier
			values[x][y] = v

			if first || v < hm.Min {
				hm.Min = v
			}
			if first || v > hm.Max {
				hm.Max = v
			}
			first = false
		}
	}

	return hm
}
