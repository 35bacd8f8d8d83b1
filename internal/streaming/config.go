package streaming

import (
	"fmt"
	gomath "math"

	"go.uber.org/multierr"

	"github.com/Faultbox/midgard-terrain/internal/config"
	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// LODInfo maps a visibility distance to a mesh decimation level. Detail
// levels are ordered from most to least detailed.
type LODInfo struct {
	LOD             int     // Mesh decimation level, 0..terrain.NumSupportedLODs-1
	VisibleDistance float32 // Up to this distance from a chunk's bounds the level is used
}

// Config is the immutable streaming configuration. A Streamer works on a
// validated snapshot of it; change it with Streamer.Reconfigure.
type Config struct {
	Mesh                     terrain.MeshSettings
	HeightMap                terrain.HeightMapSettings
	DetailLevels             []LODInfo
	ColliderLODIndex         int
	RescanDistance           float32 // Viewer displacement that triggers a window rescan
	ColliderFinalizeDistance float32 // Distance under which the collision mesh is locked in
	MaxRetries               int     // Extra attempts after a failed generation request
}

// Defaults for values the host usually leaves alone.
const (
	DefaultRescanDistance           = 25
	DefaultColliderFinalizeDistance = 5
	DefaultMaxRetries               = 3
)

// Validate checks the configuration and reports every problem found.
func (c Config) Validate() error {
	var err error

	err = multierr.Append(err, c.Mesh.Validate())
	err = multierr.Append(err, c.HeightMap.Validate())

	switch n := len(c.DetailLevels); {
	case n == 0:
		err = multierr.Append(err, ErrNoDetailLevels)
	case n > terrain.NumSupportedLODs:
		err = multierr.Append(err, fmt.Errorf("%w: %d > %d", ErrTooManyDetailLevels, n, terrain.NumSupportedLODs))
	}

	for i, level := range c.DetailLevels {
		if level.LOD < 0 || level.LOD >= terrain.NumSupportedLODs {
			err = multierr.Append(err, fmt.Errorf("%w: level %d has LOD %d", ErrLODRange, i, level.LOD))
		}
		if level.VisibleDistance <= 0 {
			err = multierr.Append(err, fmt.Errorf("%w: level %d distance %g", ErrThresholdOrder, i, level.VisibleDistance))
		}
		if i > 0 && level.VisibleDistance <= c.DetailLevels[i-1].VisibleDistance {
			err = multierr.Append(err, fmt.Errorf("%w: level %d distance %g after %g",
				ErrThresholdOrder, i, level.VisibleDistance, c.DetailLevels[i-1].VisibleDistance))
		}
	}

	if len(c.DetailLevels) > 0 && (c.ColliderLODIndex < 0 || c.ColliderLODIndex >= len(c.DetailLevels)) {
		err = multierr.Append(err, fmt.Errorf("%w: %d with %d levels", ErrColliderLOD, c.ColliderLODIndex, len(c.DetailLevels)))
	}
	if c.RescanDistance < 0 {
		err = multierr.Append(err, fmt.Errorf("%w: rescan distance %g", ErrNegativeDistance, c.RescanDistance))
	}
	if c.ColliderFinalizeDistance < 0 {
		err = multierr.Append(err, fmt.Errorf("%w: collider finalize distance %g", ErrNegativeDistance, c.ColliderFinalizeDistance))
	}
	if c.MaxRetries < 0 {
		err = multierr.Append(err, fmt.Errorf("%w: %d", ErrMaxRetries, c.MaxRetries))
	}

	return err
}

// FromConfig translates the file/flag configuration into a streaming Config.
func FromConfig(cfg *config.Config) (Config, error) {
	t := cfg.Terrain
	s := cfg.Streaming

	mode, err := parseNormalize(t.Noise.Normalize)
	if err != nil {
		return Config{}, err
	}

	keys := make([]terrain.CurveKey, len(t.HeightCurve))
	for i, k := range t.HeightCurve {
		keys[i] = terrain.CurveKey{T: k.T, V: k.V}
	}

	levels := make([]LODInfo, len(s.DetailLevels))
	for i, l := range s.DetailLevels {
		levels[i] = LODInfo{LOD: l.LOD, VisibleDistance: l.VisibleDistance}
	}

	return Config{
		Mesh: terrain.MeshSettings{
			Scale:          t.MeshScale,
			ChunkSizeIndex: t.ChunkSizeIndex,
		},
		HeightMap: terrain.HeightMapSettings{
			Noise: terrain.NoiseSettings{
				Seed:        t.Noise.Seed,
				Scale:       t.Noise.Scale,
				Octaves:     t.Noise.Octaves,
				Persistence: t.Noise.Persistence,
				Lacunarity:  t.Noise.Lacunarity,
				Offset:      math.Vec2{X: t.Noise.OffsetX, Y: t.Noise.OffsetY},
				Normalize:   mode,
			},
			Multiplier: t.HeightMultiplier,
			Curve:      terrain.NewCurve(keys...),
		},
		DetailLevels:             levels,
		ColliderLODIndex:         s.ColliderLODIndex,
		RescanDistance:           s.RescanDistance,
		ColliderFinalizeDistance: s.ColliderFinalizeDistance,
		MaxRetries:               s.MaxRetries,
	}, nil
}

func parseNormalize(s string) (terrain.NormalizeMode, error) {
	switch s {
	case "", "global":
		return terrain.NormalizeGlobal, nil
	case "local":
		return terrain.NormalizeLocal, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrNormalizeMode, s)
	}
}

// settings is a validated Config plus every derived value, computed together
// so they can never disagree.
type settings struct {
	cfg Config

	sqrThresholds  []float32
	vertsPerLine   int
	worldSize      float32
	maxViewDist    float32
	sqrMaxViewDist float32
	chunksVisible  int

	sqrRescan           float32
	sqrColliderFinalize float32
}

func newSettings(cfg Config) (*settings, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	levels := make([]LODInfo, len(cfg.DetailLevels))
	copy(levels, cfg.DetailLevels)
	cfg.DetailLevels = levels

	s := &settings{
		cfg:                 cfg,
		sqrThresholds:       make([]float32, len(levels)),
		vertsPerLine:        cfg.Mesh.VertsPerLine(),
		worldSize:           cfg.Mesh.WorldSize(),
		maxViewDist:         levels[len(levels)-1].VisibleDistance,
		sqrRescan:           cfg.RescanDistance * cfg.RescanDistance,
		sqrColliderFinalize: cfg.ColliderFinalizeDistance * cfg.ColliderFinalizeDistance,
	}
	for i, l := range levels {
		s.sqrThresholds[i] = l.VisibleDistance * l.VisibleDistance
	}
	s.sqrMaxViewDist = s.maxViewDist * s.maxViewDist
	s.chunksVisible = roundToInt(s.maxViewDist / s.worldSize)

	return s, nil
}

// SelectLOD returns the index of the first detail level whose squared
// threshold is not exceeded by sqrDist, or the last index when all are.
func SelectLOD(sqrThresholds []float32, sqrDist float32) int {
	for i, t := range sqrThresholds {
		if sqrDist <= t {
			return i
		}
	}
	return len(sqrThresholds) - 1
}

// roundToInt rounds half to even, so a viewer exactly between two chunk
// centers resolves the same way on both axes.
func roundToInt(v float32) int {
	return int(gomath.RoundToEven(float64(v)))
}
