// Package sim drives a streamer along a scripted viewer path without a
// window, for soak runs and benchmarks of the generation pipeline.
package sim

import (
	"context"
	"fmt"
	gomath "math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Faultbox/midgard-terrain/internal/logger"
	"github.com/Faultbox/midgard-terrain/internal/streaming"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// Path gives the viewer position t seconds into the run.
type Path interface {
	At(t float32) math.Vec2
}

// Line moves at constant velocity.
type Line struct {
	From     math.Vec2
	Velocity math.Vec2 // World units per second
}

func (l Line) At(t float32) math.Vec2 {
	return l.From.Add(l.Velocity.Scale(t))
}

// Circle orbits Centre counter-clockwise, starting on the +X side.
type Circle struct {
	Centre math.Vec2
	Radius float32
	Speed  float32 // World units per second along the circle
}

func (c Circle) At(t float32) math.Vec2 {
	if c.Radius == 0 {
		return c.Centre
	}
	angle := float64(c.Speed * t / c.Radius)
	s, co := gomath.Sincos(angle)
	return c.Centre.Add(math.Vec2{X: float32(co) * c.Radius, Y: float32(s) * c.Radius})
}

// Drainer applies finished generation results on the calling goroutine.
type Drainer interface {
	Drain() int
	Pending() int
}

// Options controls a run.
type Options struct {
	Frames     int
	FrameTime  float32       // Simulated seconds per frame
	StatsEvery time.Duration // Progress log interval, 0 disables it
	Settle     bool          // Keep draining after the last frame until idle
}

// Result summarizes a run.
type Result struct {
	Frames  int
	Applied int
	Final   math.Vec2
	Stats   streaming.Stats
	Elapsed time.Duration
}

// Run initializes s at the start of path and updates it once per frame,
// draining d before every update.
func Run(ctx context.Context, opts Options, path Path, s *streaming.Streamer, d Drainer) (Result, error) {
	log := logger.Named("sim")
	progress := rate.Sometimes{Interval: opts.StatsEvery}
	start := time.Now()

	res := Result{Final: path.At(0)}
	s.Init(res.Final)

	for frame := 1; frame <= opts.Frames; frame++ {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("frame %d: %w", frame, err)
		}
		res.Applied += d.Drain()
		res.Final = path.At(float32(frame) * opts.FrameTime)
		s.Update(res.Final)
		res.Frames = frame

		if opts.StatsEvery > 0 {
			progress.Do(func() {
				log.Info("progress",
					zap.Int("frame", frame),
					zap.Float32("x", res.Final.X),
					zap.Float32("z", res.Final.Y),
					zap.Object("stats", s.Stats()),
					zap.Int("queued", d.Pending()))
			})
		}
	}

	if opts.Settle {
		for d.Pending() > 0 {
			if err := ctx.Err(); err != nil {
				return res, fmt.Errorf("settle: %w", err)
			}
			n := d.Drain()
			res.Applied += n
			s.Update(res.Final)
			if n == 0 {
				time.Sleep(time.Millisecond)
			}
		}
	}

	res.Stats = s.Stats()
	res.Elapsed = time.Since(start)
	return res, nil
}

// Visit parks the viewer on the centre of the chunk at coord for a short run
// and returns that chunk once generation has settled.
func Visit(ctx context.Context, coord streaming.Coord, frames int, s *streaming.Streamer, d Drainer) (*streaming.Chunk, Result, error) {
	centre := math.Vec2{X: float32(coord.X), Y: float32(coord.Y)}.Scale(s.MeshWorldSize())
	res, err := Run(ctx, Options{Frames: frames, FrameTime: 1.0 / 60, Settle: true}, Line{From: centre}, s, d)
	if err != nil {
		return nil, res, err
	}
	c, ok := s.Chunk(coord)
	if !ok {
		return nil, res, fmt.Errorf("chunk %v was not streamed in", coord)
	}
	return c, res, nil
}
