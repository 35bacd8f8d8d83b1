package streaming

import (
	"context"
	"testing"

	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

type manualJob struct {
	produce func(context.Context) (any, error)
	done    func(any, error)
}

// manualDispatcher queues jobs until the test decides to run or fail them.
type manualDispatcher struct {
	queue []manualJob
}

func (d *manualDispatcher) Submit(produce func(context.Context) (any, error), done func(any, error)) {
	d.queue = append(d.queue, manualJob{produce: produce, done: done})
}

func (d *manualDispatcher) Len() int { return len(d.queue) }

func (d *manualDispatcher) take(i int) manualJob {
	j := d.queue[i]
	d.queue = append(d.queue[:i], d.queue[i+1:]...)
	return j
}

func (d *manualDispatcher) complete(i int) {
	j := d.take(i)
	result, err := j.produce(context.Background())
	j.done(result, err)
}

func (d *manualDispatcher) fail(i int, err error) {
	j := d.take(i)
	j.done(nil, err)
}

// runAll completes jobs in submission order, including ones submitted by
// completions, until the queue is empty.
func (d *manualDispatcher) runAll() {
	for len(d.queue) > 0 {
		d.complete(0)
	}
}

func flatNoise(width, height int, _ terrain.NoiseSettings, _ math.Vec2) [][]float32 {
	out := make([][]float32, width)
	for x := range out {
		out[x] = make([]float32, height)
		for y := range out[x] {
			out[x][y] = 0.5
		}
	}
	return out
}

// testConfig uses the smallest chunk size with scale 2, giving a mesh world
// size of exactly 100.
func testConfig(levels ...LODInfo) Config {
	hm := terrain.DefaultHeightMapSettings()
	hm.Source = flatNoise
	return Config{
		Mesh:                     terrain.MeshSettings{Scale: 2, ChunkSizeIndex: 0},
		HeightMap:                hm,
		DetailLevels:             levels,
		RescanDistance:           DefaultRescanDistance,
		ColliderFinalizeDistance: DefaultColliderFinalizeDistance,
		MaxRetries:               DefaultMaxRetries,
	}
}

func newTestStreamer(t *testing.T, cfg Config) (*Streamer, *manualDispatcher) {
	t.Helper()
	d := &manualDispatcher{}
	s, err := New(cfg, d, NewRecordingSurface)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s, d
}

func mustChunk(t *testing.T, s *Streamer, coord Coord) *Chunk {
	t.Helper()
	c, ok := s.Chunk(coord)
	if !ok {
		t.Fatalf("chunk %v not created", coord)
	}
	return c
}

func recording(c *Chunk) *RecordingSurface {
	return c.Surface().(*RecordingSurface)
}

func vec(x, y float32) math.Vec2 {
	return math.Vec2{X: x, Y: y}
}
