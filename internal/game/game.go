// Package game implements the interactive terrain viewer loop.
package game

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Faultbox/midgard-terrain/internal/config"
	"github.com/Faultbox/midgard-terrain/internal/engine/camera"
	"github.com/Faultbox/midgard-terrain/internal/engine/debug"
	"github.com/Faultbox/midgard-terrain/internal/engine/dispatch"
	"github.com/Faultbox/midgard-terrain/internal/engine/input"
	"github.com/Faultbox/midgard-terrain/internal/engine/lighting"
	"github.com/Faultbox/midgard-terrain/internal/engine/picking"
	"github.com/Faultbox/midgard-terrain/internal/engine/renderer"
	"github.com/Faultbox/midgard-terrain/internal/engine/scene"
	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
	"github.com/Faultbox/midgard-terrain/internal/engine/window"
	"github.com/Faultbox/midgard-terrain/internal/logger"
	"github.com/Faultbox/midgard-terrain/internal/streaming"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

const (
	title           = "Midgard Terrain"
	groundClearance = 2
	pickStep        = 1
)

var skyColor = [3]float32{0.55, 0.70, 0.90}

// Game is the viewer instance.
type Game struct {
	cfg     *config.Config
	running bool
	log     *zap.Logger

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.FlyCamera

	pool     *dispatch.Pool
	chunks   *scene.ChunkRenderer
	bounds   *scene.BoundsOverlay
	shots    *debug.ScreenshotCapture
	streamer *streaming.Streamer
	stream   streaming.Config

	followGround  bool
	showBounds    bool
	mouseCaptured bool
	statsLog      rate.Sometimes
}

// New creates the window, GL state, worker pool and streamer.
func New(cfg *config.Config) (*Game, error) {
	stream, err := streaming.FromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("streaming config: %w", err)
	}

	g := &Game{
		cfg:          cfg,
		log:          logger.Named("game"),
		stream:       stream,
		followGround: true,
		statsLog:     rate.Sometimes{Interval: 2 * time.Second},
	}
	g.log.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Int64("seed", cfg.Terrain.Noise.Seed),
	)

	g.window, err = window.New(window.Config{
		Title:      title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	g.renderer, err = renderer.New(renderer.Config{
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		ClearColor: skyColor,
		Wireframe:  cfg.Graphics.Wireframe,
	})
	if err != nil {
		g.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	g.chunks, err = scene.NewChunkRenderer(sceneConfig(stream))
	if err != nil {
		g.renderer.Close()
		g.window.Close()
		return nil, fmt.Errorf("failed to create chunk renderer: %w", err)
	}

	g.bounds, err = scene.NewBoundsOverlay()
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("failed to create bounds overlay: %w", err)
	}
	g.shots = debug.NewScreenshotCapture(filepath.Join(config.ConfigDir(), "screenshots"), "terrain")

	g.pool = dispatch.NewPool(dispatch.FromConfig(cfg.Workers))
	g.streamer, err = streaming.New(stream, g.pool, g.chunks.NewSurface)
	if err != nil {
		g.Close()
		return nil, err
	}

	g.input = input.New()
	g.camera = camera.NewFlyCamera(mgl32.Vec3{cfg.Viewer.StartX, cfg.Viewer.Height, cfg.Viewer.StartZ})
	g.camera.FOV = cfg.Graphics.FOV
	g.camera.MoveSpeed = cfg.Viewer.MoveSpeed
	g.camera.Far = g.streamer.MaxViewDistance() * 1.5

	return g, nil
}

func sceneConfig(stream streaming.Config) scene.Config {
	maxView := stream.DetailLevels[len(stream.DetailLevels)-1].VisibleDistance
	return scene.Config{
		MinHeight: stream.HeightMap.MinHeight(),
		MaxHeight: stream.HeightMap.MaxHeight(),
		FogNear:   maxView * 0.6,
		FogFar:    maxView,
		FogColor:  skyColor,
		LightDir:  lighting.DefaultSun.Direction(),
	}
}

// Run starts the main loop.
func (g *Game) Run() error {
	g.running = true
	g.streamer.Init(g.camera.GroundPosition())

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	g.log.Info("starting viewer loop")

	for g.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		if g.input.Update() {
			g.running = false
			break
		}

		for _, event := range g.input.Events() {
			switch event.Type {
			case input.EventWindowResize:
				g.renderer.Resize(event.Width, event.Height)
			case input.EventKeyDown:
				g.handleKey(event.Key)
			case input.EventMouseDown:
				switch event.Button {
				case sdl.BUTTON_RIGHT:
					g.setMouseCaptured(!g.mouseCaptured)
				case sdl.BUTTON_MIDDLE:
					g.inspect(event.X, event.Y)
				}
			}
		}

		g.update(dt)
		g.render()
		g.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			drawn, triangles := g.chunks.FrameStats()
			g.window.SetTitle(fmt.Sprintf("%s - %d fps, %d chunks, %d tris", title, frameCount, drawn, triangles))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (g *Game) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		if g.mouseCaptured {
			g.setMouseCaptured(false)
		} else {
			g.running = false
		}
	case sdl.SCANCODE_F1:
		g.renderer.SetWireframe(!g.renderer.Wireframe())
	case sdl.SCANCODE_F2:
		cfg := g.chunks.Config()
		cfg.TintLODs = !cfg.TintLODs
		g.chunks.SetConfig(cfg)
	case sdl.SCANCODE_F3:
		g.showBounds = !g.showBounds
	case sdl.SCANCODE_F12:
		g.screenshot()
	case sdl.SCANCODE_G:
		g.followGround = !g.followGround
		g.log.Info("ground follow", zap.Bool("enabled", g.followGround))
	case sdl.SCANCODE_N:
		g.reconfigure(func(c *streaming.Config) { c.HeightMap.Noise.Seed++ })
	case sdl.SCANCODE_LEFTBRACKET:
		g.reconfigure(func(c *streaming.Config) { c.Mesh.ChunkSizeIndex-- })
	case sdl.SCANCODE_RIGHTBRACKET:
		g.reconfigure(func(c *streaming.Config) { c.Mesh.ChunkSizeIndex++ })
	}
}

// reconfigure applies a change to the streaming config and rebuilds the
// world. Invalid changes are logged and dropped.
func (g *Game) reconfigure(change func(*streaming.Config)) {
	next := g.stream
	next.DetailLevels = append([]streaming.LODInfo(nil), g.stream.DetailLevels...)
	change(&next)

	if err := g.streamer.Reconfigure(next); err != nil {
		g.log.Warn("reconfigure rejected", zap.Error(err))
		return
	}
	g.stream = next
	cfg := sceneConfig(next)
	cfg.TintLODs = g.chunks.Config().TintLODs
	g.chunks.SetConfig(cfg)
	g.log.Info("world rebuilt",
		zap.Int64("seed", next.HeightMap.Noise.Seed),
		zap.Int("chunk_size", terrain.SupportedChunkSizes[next.Mesh.ChunkSizeIndex]),
		zap.Float32("world_size", g.streamer.MeshWorldSize()))
}

// inspect logs the chunk under the cursor.
func (g *Game) inspect(x, y int32) {
	w, h := g.window.GetSize()
	inv := g.camera.ViewProjection(g.window.Aspect()).Inv()
	ray := picking.ScreenToRay(float32(x), float32(y), float32(w), float32(h), inv)

	hit, ok := ray.MarchHeight(g.groundAt, g.streamer.MaxViewDistance(), pickStep)
	if !ok {
		g.log.Info("no ground under cursor")
		return
	}
	coord := g.streamer.CoordAt(math.Vec2{X: hit[0], Y: hit[2]})
	c, ok := g.streamer.Chunk(coord)
	if !ok {
		return
	}
	g.log.Info("chunk",
		zap.Stringer("coord", coord),
		zap.Stringer("state", c.State()),
		zap.Int("lod", c.DisplayedLOD()),
		zap.Bool("collider_finalized", c.ColliderFinalized()),
		zap.Float32s("hit", hit[:]),
	)
}

func (g *Game) groundAt(x, z float32) (float32, bool) {
	return g.chunks.GroundHeight(math.Vec2{X: x, Y: z})
}

func (g *Game) screenshot() {
	pixels, w, h := g.renderer.ReadPixels()
	img, err := debug.FromGLPixels(pixels, w, h)
	if err != nil {
		g.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	path, err := g.shots.Save(img)
	if err != nil {
		g.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	g.log.Info("screenshot saved", zap.String("path", path))
}

func (g *Game) setMouseCaptured(on bool) {
	g.mouseCaptured = on
	g.window.SetMouseCaptured(on)
}

func (g *Game) update(dt float32) {
	if g.mouseCaptured {
		g.camera.Look(g.input.MouseDelta())
	}
	g.camera.Move(
		g.input.Axis(sdl.SCANCODE_S, sdl.SCANCODE_W),
		g.input.Axis(sdl.SCANCODE_A, sdl.SCANCODE_D),
		g.input.Axis(sdl.SCANCODE_LCTRL, sdl.SCANCODE_SPACE),
		dt,
		g.input.IsKeyHeld(sdl.SCANCODE_LSHIFT),
	)
	if wheel := g.input.Wheel(); wheel != 0 {
		g.camera.MoveSpeed = max(g.camera.MoveSpeed*(1+0.1*wheel), 1)
	}

	g.pool.Drain()

	if g.followGround {
		if h, ok := g.chunks.GroundHeight(g.camera.GroundPosition()); ok {
			g.camera.FollowGround(h, groundClearance)
		}
	}

	g.streamer.Update(g.camera.GroundPosition())

	g.statsLog.Do(func() {
		g.log.Debug("streaming", zap.Object("stats", g.streamer.Stats()), zap.Int("queued", g.pool.Pending()))
	})
}

func (g *Game) render() {
	g.renderer.Begin()
	viewProj := g.camera.ViewProjection(g.window.Aspect())
	g.chunks.Render(viewProj, g.camera.Position)
	if g.showBounds {
		g.bounds.Render(viewProj, g.chunks)
	}
	g.renderer.End()
}

// Close cleans up viewer resources.
func (g *Game) Close() {
	g.log.Info("closing viewer")

	if g.pool != nil {
		g.pool.Close()
	}
	if g.bounds != nil {
		g.bounds.Destroy()
	}
	if g.chunks != nil {
		g.chunks.Destroy()
	}
	if g.renderer != nil {
		g.renderer.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
}
