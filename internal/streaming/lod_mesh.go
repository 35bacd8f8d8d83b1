package streaming

import (
	"context"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
)

// LODMesh is the mesh of one chunk at one decimation level. It is requested
// at most once at a time, and never again once ready.
type LODMesh struct {
	lod        int
	maxRetries int
	dispatcher Dispatcher
	log        *zap.Logger

	mesh      *terrain.Mesh
	requested bool
	ready     bool
	failures  int

	observers []func()
}

func newLODMesh(lod, maxRetries int, d Dispatcher, log *zap.Logger) *LODMesh {
	return &LODMesh{
		lod:        lod,
		maxRetries: maxRetries,
		dispatcher: d,
		log:        log.With(zap.Int("lod", lod)),
	}
}

// Subscribe registers fn to run on the update thread each time the mesh
// becomes ready.
func (m *LODMesh) Subscribe(fn func()) {
	m.observers = append(m.observers, fn)
}

// Request asks the dispatcher to build the mesh from heights. It reports
// whether a job was submitted: nothing happens if one is in flight, the mesh
// is ready or the retry allowance is used up.
func (m *LODMesh) Request(heights *terrain.HeightMap, settings terrain.MeshSettings) bool {
	if m.requested || m.ready || m.failures > m.maxRetries {
		return false
	}
	m.requested = true

	values := heights.Values
	lod := m.lod
	Request(m.dispatcher,
		func(ctx context.Context) (*terrain.Mesh, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return terrain.GenerateTerrainMesh(values, settings, lod), nil
		},
		m.onMesh,
	)
	return true
}

func (m *LODMesh) onMesh(mesh *terrain.Mesh, err error) {
	if err != nil {
		m.requested = false
		m.failures++
		if m.failures > m.maxRetries {
			m.log.Error("mesh generation failed, giving up", zap.Int("attempts", m.failures), zap.Error(err))
		} else {
			m.log.Warn("mesh generation failed", zap.Int("attempts", m.failures), zap.Error(err))
		}
		return
	}

	m.mesh = mesh
	m.requested = false
	m.ready = true
	for _, fn := range m.observers {
		fn()
	}
}

// LOD returns the decimation level.
func (m *LODMesh) LOD() int { return m.lod }

// Mesh returns the generated mesh, or nil before it is ready.
func (m *LODMesh) Mesh() *terrain.Mesh { return m.mesh }

// Ready reports whether the mesh has been generated.
func (m *LODMesh) Ready() bool { return m.ready }

// Requested reports whether a generation job is in flight.
func (m *LODMesh) Requested() bool { return m.requested }

// Failures returns the number of failed generation attempts.
func (m *LODMesh) Failures() int { return m.failures }
