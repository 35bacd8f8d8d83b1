package sim

import (
	"context"
	"errors"
	gomath "math"
	"testing"
	"time"

	"github.com/Faultbox/midgard-terrain/internal/engine/dispatch"
	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
	"github.com/Faultbox/midgard-terrain/internal/streaming"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

func TestLine(t *testing.T) {
	l := Line{From: math.Vec2{X: 10, Y: -5}, Velocity: math.Vec2{X: 2, Y: 4}}
	if got := l.At(0); got != l.From {
		t.Errorf("At(0) = %+v", got)
	}
	if got := l.At(2.5); got != (math.Vec2{X: 15, Y: 5}) {
		t.Errorf("At(2.5) = %+v, want (15,5)", got)
	}
}

func TestCircle(t *testing.T) {
	c := Circle{Centre: math.Vec2{X: 100, Y: 100}, Radius: 50, Speed: 25}

	tests := []struct {
		t    float32
		want math.Vec2
	}{
		{0, math.Vec2{X: 150, Y: 100}},
		{float32(gomath.Pi), math.Vec2{X: 100, Y: 150}},
		{float32(2 * gomath.Pi), math.Vec2{X: 50, Y: 100}},
	}
	for _, tt := range tests {
		got := c.At(tt.t)
		if got.Distance(tt.want) > 1e-3 {
			t.Errorf("At(%v) = %+v, want %+v", tt.t, got, tt.want)
		}
	}

	for _, tt := range []float32{0.3, 7, 42} {
		if d := c.At(tt).Distance(c.Centre); gomath.Abs(float64(d-50)) > 1e-3 {
			t.Errorf("At(%v) is %v from the centre", tt, d)
		}
	}

	if got := (Circle{Centre: math.Vec2{X: 1, Y: 2}}).At(5); got != (math.Vec2{X: 1, Y: 2}) {
		t.Errorf("zero radius At() = %+v", got)
	}
}

func flatNoise(width, height int, _ terrain.NoiseSettings, _ math.Vec2) [][]float32 {
	out := make([][]float32, width)
	for x := range out {
		out[x] = make([]float32, height)
	}
	return out
}

func newStreamer(t *testing.T, pool *dispatch.Pool) *streaming.Streamer {
	t.Helper()
	hm := terrain.DefaultHeightMapSettings()
	hm.Source = flatNoise
	cfg := streaming.Config{
		Mesh:                     terrain.MeshSettings{Scale: 2, ChunkSizeIndex: 0},
		HeightMap:                hm,
		DetailLevels:             []streaming.LODInfo{{LOD: 0, VisibleDistance: 100}, {LOD: 2, VisibleDistance: 200}},
		RescanDistance:           streaming.DefaultRescanDistance,
		ColliderFinalizeDistance: streaming.DefaultColliderFinalizeDistance,
		MaxRetries:               streaming.DefaultMaxRetries,
	}
	s, err := streaming.New(cfg, pool, streaming.NewRecordingSurface)
	if err != nil {
		t.Fatalf("streaming.New() error = %v", err)
	}
	return s
}

func TestRunSettles(t *testing.T) {
	pool := dispatch.NewPool(dispatch.Config{Workers: 2})
	defer pool.Close()
	s := newStreamer(t, pool)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	path := Line{Velocity: math.Vec2{X: 60}}
	res, err := Run(ctx, Options{Frames: 120, FrameTime: 1.0 / 60, Settle: true}, path, s, pool)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if res.Frames != 120 {
		t.Errorf("Frames = %d, want 120", res.Frames)
	}
	if res.Final.Distance(math.Vec2{X: 120}) > 1e-3 {
		t.Errorf("Final = %+v, want (120,0)", res.Final)
	}
	if pool.Pending() != 0 {
		t.Errorf("pending after settle = %d", pool.Pending())
	}
	if res.Stats.HeightPending != 0 || res.Stats.MeshesRequested != 0 {
		t.Errorf("work left after settle: %+v", res.Stats)
	}
	if res.Stats.Visible == 0 || res.Applied == 0 {
		t.Errorf("nothing streamed in: %+v, applied %d", res.Stats, res.Applied)
	}

	home, ok := s.Chunk(s.HomeCoord())
	if !ok || !home.Visible() || home.DisplayedLOD() != 0 {
		t.Error("chunk under the viewer not shown at full detail")
	}
}

func TestRunCancelled(t *testing.T) {
	pool := dispatch.NewPool(dispatch.Config{Workers: 1})
	defer pool.Close()
	s := newStreamer(t, pool)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, Options{Frames: 10, FrameTime: 0.1}, Line{}, s, pool)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want %v", err, context.Canceled)
	}
}

func TestVisit(t *testing.T) {
	pool := dispatch.NewPool(dispatch.Config{Workers: 2})
	defer pool.Close()
	s := newStreamer(t, pool)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	coord := streaming.Coord{X: 3, Y: -2}
	c, res, err := Visit(ctx, coord, 10, s, pool)
	if err != nil {
		t.Fatalf("Visit() error = %v", err)
	}
	if res.Final != (math.Vec2{X: 300, Y: -200}) {
		t.Errorf("Final = %+v, want (300,-200)", res.Final)
	}
	if c.Coord() != coord || s.HomeCoord() != coord {
		t.Errorf("visited %v, home %v, want %v", c.Coord(), s.HomeCoord(), coord)
	}
	if c.State() != streaming.ChunkHeightReady || c.DisplayedLOD() != 0 {
		t.Errorf("state = %v, lod = %d", c.State(), c.DisplayedLOD())
	}
	if !c.ColliderFinalized() {
		t.Error("collider not finalized under the viewer")
	}
	if c.LODMesh(1).Ready() || c.LODMesh(1).Requested() {
		t.Error("coarse level generated for the chunk under the viewer")
	}
}
