package terrain

import (
	"errors"
	"testing"
)

func TestWorldSizeInvariant(t *testing.T) {
	for i, size := range SupportedChunkSizes {
		s := MeshSettings{Scale: 2.5, ChunkSizeIndex: i}

		if got := s.VertsPerLine(); got != size+5 {
			t.Errorf("tier %d: VertsPerLine() = %d, want %d", i, got, size+5)
		}

		want := float32(s.VertsPerLine()-3) * s.Scale
		if got := s.WorldSize(); got != want {
			t.Errorf("tier %d: WorldSize() = %v, want %v", i, got, want)
		}
	}
}

func TestChunkSizesDivideByEveryLOD(t *testing.T) {
	for _, size := range SupportedChunkSizes {
		for lod := range NumSupportedLODs {
			if size%LODIncrement(lod) != 0 {
				t.Errorf("chunk size %d not divisible by LOD %d increment %d", size, lod, LODIncrement(lod))
			}
		}
	}
}

func TestMeshSettingsValidate(t *testing.T) {
	tests := []struct {
		name    string
		s       MeshSettings
		wantErr error
	}{
		{"default", DefaultMeshSettings(), nil},
		{"last tier", MeshSettings{Scale: 1, ChunkSizeIndex: len(SupportedChunkSizes) - 1}, nil},
		{"negative tier", MeshSettings{Scale: 1, ChunkSizeIndex: -1}, ErrChunkSizeIndex},
		{"tier too large", MeshSettings{Scale: 1, ChunkSizeIndex: len(SupportedChunkSizes)}, ErrChunkSizeIndex},
		{"zero scale", MeshSettings{Scale: 0}, ErrMeshScale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate()
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCurveEvaluate(t *testing.T) {
	c := NewCurve(CurveKey{1, 10}, CurveKey{0, 0}, CurveKey{0.5, 2})

	tests := []struct {
		t, want float32
	}{
		{-1, 0},
		{0, 0},
		{0.25, 1},
		{0.5, 2},
		{0.75, 6},
		{1, 10},
		{2, 10},
	}

	for _, tt := range tests {
		if got := c.Evaluate(tt.t); got != tt.want {
			t.Errorf("Evaluate(%v) = %v, want %v", tt.t, got, tt.want)
		}
	}

	if got := (Curve{}).Evaluate(0.3); got != 1 {
		t.Errorf("empty curve Evaluate = %v, want 1", got)
	}
}
