// Package streaming keeps a window of procedurally generated terrain chunks
// around a moving viewer, choosing a level of detail per chunk and locking in
// collision meshes near the viewer.
//
// All methods must be called from a single update thread. Generation runs on
// a Dispatcher whose completions are delivered back on that thread.
package streaming

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Faultbox/midgard-terrain/internal/logger"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// Stats is a snapshot of streamer bookkeeping.
type Stats struct {
	Chunks             int // Chunks in the coordinate map
	Visible            int
	HeightPending      int
	HeightReady        int
	MeshesRequested    int // LOD meshes with a job in flight
	MeshesReady        int
	CollidersFinalized int
	Retired            int // Chunks discarded by reconfiguration
	Rescans            int
}

// Streamer owns every chunk. Chunks are never destroyed; once created a chunk
// stays in the coordinate map until the streamer is reconfigured.
type Streamer struct {
	set        *settings
	dispatcher Dispatcher
	surfaces   SurfaceFactory
	log        *zap.Logger

	chunks  map[Coord]*Chunk
	visible map[Coord]*Chunk

	viewer        math.Vec2
	lastFrame     math.Vec2
	lastRescan    math.Vec2
	initialized   bool
	retiredChunks int
	rescans       int
}

// New creates a streamer. A nil surfaces factory produces invisible chunks.
func New(cfg Config, d Dispatcher, surfaces SurfaceFactory) (*Streamer, error) {
	set, err := newSettings(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid streaming config: %w", err)
	}
	if surfaces == nil {
		surfaces = NopSurfaces
	}

	s := &Streamer{
		set:        set,
		dispatcher: d,
		surfaces:   surfaces,
		log:        logger.Named("streamer"),
		chunks:     make(map[Coord]*Chunk),
		visible:    make(map[Coord]*Chunk),
	}
	s.log.Info("streamer created",
		zap.Float32("world_size", set.worldSize),
		zap.Float32("max_view_distance", set.maxViewDist),
		zap.Int("chunks_visible", set.chunksVisible),
		zap.Int("detail_levels", len(set.sqrThresholds)))
	return s, nil
}

// Init performs the first scan around the viewer.
func (s *Streamer) Init(viewer math.Vec2) {
	s.viewer = viewer
	s.lastFrame = viewer
	s.lastRescan = viewer
	s.initialized = true
	s.rescan()
}

// Update is called once per frame with the viewer's horizontal position.
// Visible chunks refresh their collision mesh whenever the viewer moved since
// the previous frame; the window is rescanned once the viewer strays further
// than the rescan distance from the last scan.
func (s *Streamer) Update(viewer math.Vec2) {
	if !s.initialized {
		s.Init(viewer)
		return
	}

	s.viewer = viewer
	if viewer != s.lastFrame {
		for _, c := range s.visibleChunks() {
			c.UpdateCollisionMesh()
		}
	}
	s.lastFrame = viewer

	if s.lastRescan.SqrDistance(viewer) > s.set.sqrRescan {
		s.lastRescan = viewer
		s.rescan()
	}
}

func (s *Streamer) rescan() {
	s.rescans++

	updated := make(map[Coord]struct{}, len(s.visible))
	for _, c := range s.visibleChunks() {
		updated[c.coord] = struct{}{}
		c.Update()
	}

	created := 0
	for _, coord := range s.ActiveWindow() {
		if _, ok := updated[coord]; ok {
			continue
		}
		if c, ok := s.chunks[coord]; ok {
			c.Update()
			continue
		}
		c := newChunk(coord, s.set, s.dispatcher, s.surfaces, s.viewerPosition, s.onVisibilityChanged, s.log)
		s.chunks[coord] = c
		c.Load()
		created++
	}

	s.log.Debug("rescan",
		zap.Stringer("home", s.HomeCoord()),
		zap.Int("created", created),
		zap.Int("chunks", len(s.chunks)),
		zap.Int("visible", len(s.visible)))
}

func (s *Streamer) onVisibilityChanged(c *Chunk, visible bool) {
	if visible {
		s.visible[c.coord] = c
	} else {
		delete(s.visible, c.coord)
	}
}

func (s *Streamer) viewerPosition() math.Vec2 {
	return s.viewer
}

// visibleChunks returns the visible set in a stable order. Callers may change
// visibility while iterating the result.
func (s *Streamer) visibleChunks() []*Chunk {
	out := make([]*Chunk, 0, len(s.visible))
	for _, c := range s.visible {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].coord.Less(out[j].coord) })
	return out
}

// Reconfigure validates cfg and rebuilds the world with it. Every existing
// chunk is hidden and discarded; results still in flight for them are
// ignored. On error the streamer is left unchanged.
func (s *Streamer) Reconfigure(cfg Config) error {
	set, err := newSettings(cfg)
	if err != nil {
		return fmt.Errorf("invalid streaming config: %w", err)
	}

	for _, c := range s.chunks {
		c.retire()
	}
	s.retiredChunks += len(s.chunks)
	s.log.Info("reconfigured",
		zap.Int("retired", len(s.chunks)),
		zap.Float32("world_size", set.worldSize),
		zap.Int("chunks_visible", set.chunksVisible))

	s.set = set
	s.chunks = make(map[Coord]*Chunk)
	s.visible = make(map[Coord]*Chunk)

	if s.initialized {
		s.lastRescan = s.viewer
		s.rescan()
	}
	return nil
}

// HomeCoord returns the coordinate of the chunk under the viewer.
func (s *Streamer) HomeCoord() Coord {
	return s.CoordAt(s.viewer)
}

// CoordAt returns the coordinate of the chunk whose footprint holds p.
func (s *Streamer) CoordAt(p math.Vec2) Coord {
	return Coord{
		X: roundToInt(p.X / s.set.worldSize),
		Y: roundToInt(p.Y / s.set.worldSize),
	}
}

// ActiveWindow returns the coordinates scanned around the viewer, row by row.
func (s *Streamer) ActiveWindow() []Coord {
	home := s.HomeCoord()
	r := s.set.chunksVisible
	out := make([]Coord, 0, (2*r+1)*(2*r+1))
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			out = append(out, home.Add(Coord{dx, dy}))
		}
	}
	return out
}

// Chunk returns the chunk at coord, if one was created.
func (s *Streamer) Chunk(coord Coord) (*Chunk, bool) {
	c, ok := s.chunks[coord]
	return c, ok
}

// Chunks returns every chunk in the coordinate map in row order.
func (s *Streamer) Chunks() []*Chunk {
	out := make([]*Chunk, 0, len(s.chunks))
	for _, c := range s.chunks {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].coord.Less(out[j].coord) })
	return out
}

// VisibleCoords returns the coordinates of visible chunks in row order.
func (s *Streamer) VisibleCoords() []Coord {
	chunks := s.visibleChunks()
	out := make([]Coord, len(chunks))
	for i, c := range chunks {
		out[i] = c.coord
	}
	return out
}

// Viewer returns the last viewer position passed to Init or Update.
func (s *Streamer) Viewer() math.Vec2 { return s.viewer }

// MeshWorldSize returns the world-space edge length of a chunk.
func (s *Streamer) MeshWorldSize() float32 { return s.set.worldSize }

// MaxViewDistance returns the distance beyond which chunks are hidden.
func (s *Streamer) MaxViewDistance() float32 { return s.set.maxViewDist }

// ChunksVisibleInViewDist returns the window radius in chunks.
func (s *Streamer) ChunksVisibleInViewDist() int { return s.set.chunksVisible }

// Config returns the active configuration.
func (s *Streamer) Config() Config { return s.set.cfg }

// Stats walks the coordinate map and summarizes it.
func (s *Streamer) Stats() Stats {
	st := Stats{
		Chunks:  len(s.chunks),
		Visible: len(s.visible),
		Retired: s.retiredChunks,
		Rescans: s.rescans,
	}
	for _, c := range s.chunks {
		switch c.State() {
		case ChunkHeightPending:
			st.HeightPending++
		case ChunkHeightReady:
			st.HeightReady++
		}
		for _, m := range c.lodMeshes {
			if m.Requested() {
				st.MeshesRequested++
			}
			if m.Ready() {
				st.MeshesReady++
			}
		}
		if c.colliderFinalized {
			st.CollidersFinalized++
		}
	}
	return st
}

// MarshalLogObject lets Stats be logged with zap.Object.
func (st Stats) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("chunks", st.Chunks)
	enc.AddInt("visible", st.Visible)
	enc.AddInt("height_pending", st.HeightPending)
	enc.AddInt("height_ready", st.HeightReady)
	enc.AddInt("meshes_requested", st.MeshesRequested)
	enc.AddInt("meshes_ready", st.MeshesReady)
	enc.AddInt("colliders_finalized", st.CollidersFinalized)
	enc.AddInt("retired", st.Retired)
	enc.AddInt("rescans", st.Rescans)
	return nil
}
