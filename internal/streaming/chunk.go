package streaming

import (
	"context"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// ChunkState is the height data lifecycle of a chunk.
type ChunkState int

const (
	ChunkUninitialized ChunkState = iota // created, nothing requested
	ChunkHeightPending                   // height map job in flight
	ChunkHeightReady                     // height map received
)

func (s ChunkState) String() string {
	switch s {
	case ChunkUninitialized:
		return "uninitialized"
	case ChunkHeightPending:
		return "height-pending"
	case ChunkHeightReady:
		return "height-ready"
	default:
		return "unknown"
	}
}

// Chunk is one square terrain tile. Chunks start hidden and are only ever
// touched from the update thread.
type Chunk struct {
	coord        Coord
	bounds       math.Rect
	sampleCentre math.Vec2

	set        *settings
	dispatcher Dispatcher
	surface    Surface
	viewer     func() math.Vec2
	onVisible  func(c *Chunk, visible bool)
	log        *zap.Logger

	heightMap       *terrain.HeightMap
	heightRequested bool
	heightFailures  int

	lodMeshes         []*LODMesh
	displayedLOD      int
	colliderFinalized bool
	visible           bool
	retired           bool
}

func newChunk(coord Coord, set *settings, d Dispatcher, surfaces SurfaceFactory,
	viewer func() math.Vec2, onVisible func(*Chunk, bool), log *zap.Logger) *Chunk {
	pos := math.Vec2{X: float32(coord.X), Y: float32(coord.Y)}
	c := &Chunk{
		coord:        coord,
		bounds:       math.NewRect(pos.Scale(set.worldSize), math.Vec2{X: set.worldSize, Y: set.worldSize}),
		sampleCentre: pos.Scale(set.worldSize / set.cfg.Mesh.Scale),
		set:          set,
		dispatcher:   d,
		viewer:       viewer,
		onVisible:    onVisible,
		log:          log.With(zap.Stringer("chunk", coord)),
		displayedLOD: -1,
	}
	c.surface = surfaces(coord, c.bounds)
	c.surface.SetActive(false)

	c.lodMeshes = make([]*LODMesh, len(set.cfg.DetailLevels))
	for i, level := range set.cfg.DetailLevels {
		m := newLODMesh(level.LOD, set.cfg.MaxRetries, d, c.log)
		m.Subscribe(c.Update)
		if i == set.cfg.ColliderLODIndex {
			m.Subscribe(c.UpdateCollisionMesh)
		}
		c.lodMeshes[i] = m
	}
	return c
}

// Load requests the chunk's height map. It does nothing while a request is
// in flight or once the map has arrived.
func (c *Chunk) Load() {
	if c.retired || c.heightRequested || c.heightMap != nil {
		return
	}
	c.heightRequested = true

	vpl := c.set.vertsPerLine
	hm := c.set.cfg.HeightMap
	centre := c.sampleCentre
	Request(c.dispatcher,
		func(ctx context.Context) (*terrain.HeightMap, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return terrain.GenerateHeightMap(vpl, vpl, hm, centre), nil
		},
		c.onHeightMap,
	)
}

func (c *Chunk) onHeightMap(heights *terrain.HeightMap, err error) {
	if c.retired {
		return
	}
	if err != nil {
		c.heightRequested = false
		c.heightFailures++
		if c.heightFailures > c.set.cfg.MaxRetries {
			c.log.Error("height map generation failed, giving up", zap.Int("attempts", c.heightFailures), zap.Error(err))
		} else {
			c.log.Warn("height map generation failed", zap.Int("attempts", c.heightFailures), zap.Error(err))
		}
		return
	}
	c.heightMap = heights
	c.Update()
	if c.visible {
		c.UpdateCollisionMesh()
	}
}

// Update re-evaluates visibility and the displayed detail level against the
// current viewer position, requesting meshes as needed.
func (c *Chunk) Update() {
	if c.retired {
		return
	}
	if c.heightMap == nil {
		if c.heightFailures > 0 && c.heightFailures <= c.set.cfg.MaxRetries {
			c.Load()
		}
		return
	}

	sqrDist := c.bounds.SqrDistance(c.viewer())
	visible := sqrDist <= c.set.sqrMaxViewDist

	if visible {
		index := SelectLOD(c.set.sqrThresholds, sqrDist)
		if index != c.displayedLOD {
			m := c.lodMeshes[index]
			if m.Ready() {
				c.displayedLOD = index
				c.surface.SetMesh(m.Mesh())
				if !c.colliderFinalized {
					c.surface.SetCollider(m.Mesh())
				}
			} else {
				m.Request(c.heightMap, c.set.cfg.Mesh)
			}
		}
	}

	if visible != c.visible {
		c.visible = visible
		c.surface.SetActive(visible)
		if c.onVisible != nil {
			c.onVisible(c, visible)
		}
	}
}

// UpdateCollisionMesh requests the collider detail level once the viewer is
// close and locks it in as the collision mesh once the viewer is very close.
// After that the collision mesh never changes.
func (c *Chunk) UpdateCollisionMesh() {
	if c.retired || c.colliderFinalized || c.heightMap == nil {
		return
	}

	sqrDist := c.bounds.SqrDistance(c.viewer())
	index := c.set.cfg.ColliderLODIndex
	m := c.lodMeshes[index]

	if sqrDist < c.set.sqrThresholds[index] {
		m.Request(c.heightMap, c.set.cfg.Mesh)
	}
	if sqrDist < c.set.sqrColliderFinalize && m.Ready() {
		c.surface.SetCollider(m.Mesh())
		c.colliderFinalized = true
		c.log.Debug("collider finalized")
	}
}

func (c *Chunk) retire() {
	c.retired = true
	if c.visible {
		c.visible = false
		c.surface.SetActive(false)
	}
	if r, ok := c.surface.(Releaser); ok {
		r.Release()
	}
}

// Coord returns the chunk's grid coordinate.
func (c *Chunk) Coord() Coord { return c.coord }

// Bounds returns the chunk's horizontal extent in world space.
func (c *Chunk) Bounds() math.Rect { return c.bounds }

// SampleCentre returns the noise-space centre used for the height map.
func (c *Chunk) SampleCentre() math.Vec2 { return c.sampleCentre }

// Surface returns the chunk's presentation surface.
func (c *Chunk) Surface() Surface { return c.surface }

// HeightMap returns the received height map, or nil.
func (c *Chunk) HeightMap() *terrain.HeightMap { return c.heightMap }

// State returns the height data lifecycle state.
func (c *Chunk) State() ChunkState {
	switch {
	case c.heightMap != nil:
		return ChunkHeightReady
	case c.heightRequested:
		return ChunkHeightPending
	default:
		return ChunkUninitialized
	}
}

// Visible reports whether the chunk is currently shown.
func (c *Chunk) Visible() bool { return c.visible }

// DisplayedLOD returns the index of the detail level on screen, or -1.
func (c *Chunk) DisplayedLOD() int { return c.displayedLOD }

// LODMesh returns the mesh slot for detail level index i.
func (c *Chunk) LODMesh(i int) *LODMesh { return c.lodMeshes[i] }

// ColliderFinalized reports whether the collision mesh is locked in.
func (c *Chunk) ColliderFinalized() bool { return c.colliderFinalized }

// Retired reports whether the chunk was discarded by a reconfiguration.
func (c *Chunk) Retired() bool { return c.retired }
