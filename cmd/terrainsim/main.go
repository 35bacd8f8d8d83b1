// terrainsim streams terrain along a scripted path without a window.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/config"
	"github.com/Faultbox/midgard-terrain/internal/engine/dispatch"
	"github.com/Faultbox/midgard-terrain/internal/logger"
	"github.com/Faultbox/midgard-terrain/internal/sim"
	"github.com/Faultbox/midgard-terrain/internal/streaming"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

var (
	flagFrames     = flag.Int("frames", 3600, "Frames to simulate")
	flagFrameTime  = flag.Float64("frame-time", 1.0/60, "Simulated seconds per frame")
	flagPath       = flag.String("path", "line", "Viewer path: line or circle")
	flagSpeed      = flag.Float64("speed", 0, "Viewer speed, 0 = viewer.move_speed")
	flagRadius     = flag.Float64("radius", 500, "Circle path radius")
	flagStatsEvery = flag.Duration("stats-every", 2*time.Second, "Progress log interval")
	flagTimeout    = flag.Duration("timeout", 5*time.Minute, "Abort the run after this long")
	flagOut        = flag.String("o", "", "Output file for the config command")
)

// chunkFrames is the length of the run behind the chunk command.
const chunkFrames = 30

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	if err := config.ParseArgs(os.Args[2:]); err != nil {
		os.Exit(2)
	}

	switch command {
	case "run":
		cmdRun()
	case "chunk":
		cmdChunk(flag.Args())
	case "config":
		cmdConfig()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`terrainsim - headless terrain streaming driver

Usage:
  terrainsim <command> [options]

Commands:
  run                 Stream terrain along a scripted viewer path
  chunk <x> <y>       Stream in one chunk with the viewer on it and print its detail levels
  config [-o file]    Print or save the effective configuration

Examples:
  terrainsim run -frames 600 -path circle -radius 800
  terrainsim run -seed 42 -workers 4 -debug
  terrainsim chunk -chunk-size 8 3 -2
  terrainsim config -o ./terrain.yaml`)
}

func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func cmdRun() {
	cfg := loadConfig()
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	stream, err := streaming.FromConfig(cfg)
	if err != nil {
		logger.Fatal("invalid streaming config", zap.Error(err))
	}

	pool := dispatch.NewPool(dispatch.FromConfig(cfg.Workers))
	defer pool.Close()

	s, err := streaming.New(stream, pool, streaming.NewRecordingSurface)
	if err != nil {
		logger.Fatal("failed to create streamer", zap.Error(err))
	}

	speed := float32(*flagSpeed)
	if speed == 0 {
		speed = cfg.Viewer.MoveSpeed
	}
	start := math.Vec2{X: cfg.Viewer.StartX, Y: cfg.Viewer.StartZ}

	var path sim.Path
	switch *flagPath {
	case "line":
		path = sim.Line{From: start, Velocity: math.Vec2{X: speed}}
	case "circle":
		path = sim.Circle{Centre: start, Radius: float32(*flagRadius), Speed: speed}
	default:
		logger.Fatal("unknown path", zap.String("path", *flagPath))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *flagTimeout)
	defer cancel()

	logger.Info("=== Midgard Terrain Sim ===",
		zap.String("path", *flagPath),
		zap.Int("frames", *flagFrames),
		zap.Float32("speed", speed),
		zap.Float32("world_size", s.MeshWorldSize()),
		zap.Int("chunks_visible", s.ChunksVisibleInViewDist()))

	res, err := sim.Run(ctx, sim.Options{
		Frames:     *flagFrames,
		FrameTime:  float32(*flagFrameTime),
		StatsEvery: *flagStatsEvery,
		Settle:     true,
	}, path, s, pool)
	if err != nil {
		logger.Error("run aborted", zap.Error(err), zap.Object("stats", s.Stats()))
		os.Exit(1)
	}

	logger.Info("run complete",
		zap.Int("frames", res.Frames),
		zap.Int("applied", res.Applied),
		zap.Duration("elapsed", res.Elapsed),
		zap.Float32("x", res.Final.X),
		zap.Float32("z", res.Final.Y),
		zap.Object("stats", res.Stats))
}

func cmdChunk(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: terrainsim chunk <x> <y>")
		os.Exit(1)
	}
	var coord streaming.Coord
	if _, err := fmt.Sscan(args[0], &coord.X); err != nil {
		fmt.Fprintf(os.Stderr, "Error: bad x %q\n", args[0])
		os.Exit(1)
	}
	if _, err := fmt.Sscan(args[1], &coord.Y); err != nil {
		fmt.Fprintf(os.Stderr, "Error: bad y %q\n", args[1])
		os.Exit(1)
	}

	cfg := loadConfig()
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	stream, err := streaming.FromConfig(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	pool := dispatch.NewPool(dispatch.FromConfig(cfg.Workers))
	defer pool.Close()

	s, err := streaming.New(stream, pool, streaming.NewRecordingSurface)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *flagTimeout)
	defer cancel()

	start := time.Now()
	c, res, err := sim.Visit(ctx, coord, chunkFrames, s, pool)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ms := stream.Mesh
	fmt.Printf("Chunk %v\n", coord)
	fmt.Printf("  Chunk size:    %d (%d samples per line)\n", ms.ChunkSize(), ms.VertsPerLine())
	fmt.Printf("  World size:    %.2f\n", ms.WorldSize())
	fmt.Printf("  Sample centre: (%.2f, %.2f)\n", c.SampleCentre().X, c.SampleCentre().Y)
	if hm := c.HeightMap(); hm != nil {
		fmt.Printf("  Heights:       %.2f .. %.2f\n", hm.Min, hm.Max)
	}
	fmt.Printf("  State:         %v, visible %v, collider finalized %v\n", c.State(), c.Visible(), c.ColliderFinalized())
	fmt.Printf("  Run:           %d frames, %d results applied in %v\n\n", res.Frames, res.Applied, time.Since(start).Round(time.Millisecond))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LEVEL\tLOD\tDISTANCE\tSTATUS\tVERTICES\tTRIANGLES\tCOLLIDER")
	for i, level := range stream.DetailLevels {
		m := c.LODMesh(i)
		status := "idle"
		switch {
		case m.Ready():
			status = "ready"
		case m.Requested():
			status = "pending"
		case m.Failures() > 0:
			status = fmt.Sprintf("failed x%d", m.Failures())
		}
		if i == c.DisplayedLOD() {
			status += ", shown"
		}
		verts, tris := "-", "-"
		if mesh := m.Mesh(); mesh != nil {
			verts, tris = fmt.Sprint(len(mesh.Vertices)), fmt.Sprint(mesh.TriangleCount())
		}
		collider := ""
		if i == stream.ColliderLODIndex {
			collider = "yes"
		}
		fmt.Fprintf(w, "%d\t%d\t%.0f\t%s\t%s\t%s\t%s\n", i, level.LOD, level.VisibleDistance, status, verts, tris, collider)
	}
	w.Flush()
}

func cmdConfig() {
	cfg := loadConfig()
	if *flagOut != "" {
		if err := cfg.SaveTo(*flagOut); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Saved config to %s\n", *flagOut)
		return
	}

	data, err := cfg.Marshal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	os.Stdout.Write(data)
}
