package terrain

import (
	"errors"
	"fmt"
)

// NumSupportedLODs is the number of mesh decimation levels the builder supports.
const NumSupportedLODs = 5

// SupportedChunkSizes lists the chunk edge lengths, in grid steps, that
// divide evenly by every LOD increment.
var SupportedChunkSizes = [...]int{48, 72, 96, 120, 144, 168, 192, 216, 240}

var (
	// ErrChunkSizeIndex is returned for a chunk size index outside SupportedChunkSizes.
	ErrChunkSizeIndex = errors.New("chunk size index out of range")
	// ErrMeshScale is returned for a non-positive mesh scale.
	ErrMeshScale = errors.New("mesh scale must be positive")
)

// MeshSettings is the immutable mesh configuration shared by every chunk.
type MeshSettings struct {
	Scale          float32
	ChunkSizeIndex int
}

// DefaultMeshSettings returns the default mesh configuration.
func DefaultMeshSettings() MeshSettings {
	return MeshSettings{
		Scale:          2.5,
		ChunkSizeIndex: 0,
	}
}

// Validate checks the settings against the supported ranges.
func (s MeshSettings) Validate() error {
	if s.ChunkSizeIndex < 0 || s.ChunkSizeIndex >= len(SupportedChunkSizes) {
		return fmt.Errorf("%w: %d (want 0..%d)", ErrChunkSizeIndex, s.ChunkSizeIndex, len(SupportedChunkSizes)-1)
	}
	if s.Scale <= 0 {
		return fmt.Errorf("%w: %g", ErrMeshScale, s.Scale)
	}
	return nil
}

// ChunkSize returns the selected chunk edge length in grid steps.
func (s MeshSettings) ChunkSize() int {
	return SupportedChunkSizes[s.ChunkSizeIndex]
}

// VertsPerLine is the number of height samples per chunk edge at LOD 0.
// It includes one border sample on each side that only feeds normal
// computation and never appears in the final mesh.
func (s MeshSettings) VertsPerLine() int {
	return s.ChunkSize() + 5
}

// WorldSize is the edge length of a chunk in world units.
func (s MeshSettings) WorldSize() float32 {
	return float32(s.VertsPerLine()-3) * s.Scale
}

// LODIncrement returns the grid step between main vertices at the given LOD.
func LODIncrement(lod int) int {
	if lod <= 0 {
		return 1
	}
	return lod * 2
}
