package terrain

import (
	"errors"
	"testing"

	"github.com/Faultbox/midgard-terrain/pkg/math"
)

func TestGenerateNoiseMapDeterministic(t *testing.T) {
	s := DefaultNoiseSettings()
	a := GenerateNoiseMap(16, 16, s, math.Vec2{X: 10, Y: -4})
	b := GenerateNoiseMap(16, 16, s, math.Vec2{X: 10, Y: -4})

	for x := range a {
		for y := range a[x] {
			if a[x][y] != b[x][y] {
				t.Fatalf("sample (%d,%d) differs: %v vs %v", x, y, a[x][y], b[x][y])
			}
			if a[x][y] < 0 || a[x][y] > 1 {
				t.Fatalf("sample (%d,%d) = %v outside [0,1]", x, y, a[x][y])
			}
		}
	}
}

func TestGenerateNoiseMapSeedMatters(t *testing.T) {
	s := DefaultNoiseSettings()
	a := GenerateNoiseMap(8, 8, s, math.Vec2{})
	s.Seed = 99
	b := GenerateNoiseMap(8, 8, s, math.Vec2{})

	same := true
	for x := range a {
		for y := range a[x] {
			if a[x][y] != b[x][y] {
				same = false
			}
		}
	}
	if same {
		t.Error("different seeds produced identical maps")
	}
}

func TestNeighbouringMapsShareEdges(t *testing.T) {
	ms := DefaultMeshSettings()
	vpl := ms.VertsPerLine()
	step := float32(vpl - 3)

	s := DefaultNoiseSettings()
	left := GenerateNoiseMap(vpl, vpl, s, math.Vec2{X: 0, Y: 0})
	right := GenerateNoiseMap(vpl, vpl, s, math.Vec2{X: step, Y: 0})

	for y := 0; y < vpl; y++ {
		if left[vpl-2][y] != right[1][y] {
			t.Fatalf("row %d: shared edge differs: %v vs %v", y, left[vpl-2][y], right[1][y])
		}
	}
}

func TestLocalNormalizeSpansUnitRange(t *testing.T) {
	s := DefaultNoiseSettings()
	s.Normalize = NormalizeLocal
	values := GenerateNoiseMap(32, 32, s, math.Vec2{})

	lo, hi := float32(1), float32(0)
	for x := range values {
		for y := range values[x] {
			lo = min(lo, values[x][y])
			hi = max(hi, values[x][y])
		}
	}
	if lo != 0 || hi != 1 {
		t.Errorf("local normalize range = [%v,%v], want [0,1]", lo, hi)
	}
}

func TestGenerateHeightMapMinMax(t *testing.T) {
	settings := HeightMapSettings{
		Noise:      DefaultNoiseSettings(),
		Multiplier: 10,
		Curve:      LinearCurve(),
		Source: func(width, height int, _ NoiseSettings, _ math.Vec2) [][]float32 {
			values := make([][]float32, width)
			for x := range values {
				values[x] = make([]float32, height)
				for y := range values[x] {
					values[x][y] = float32(x+y) / float32(width+height-2)
				}
			}
			return values
		},
	}

	hm := GenerateHeightMap(5, 5, settings, math.Vec2{})

	if hm.Width() != 5 || hm.Height() != 5 {
		t.Fatalf("size = %dx%d, want 5x5", hm.Width(), hm.Height())
	}
	// v * curve(v) * multiplier with a linear curve is 10*v^2.
	if hm.Min != 0 {
		t.Errorf("Min = %v, want 0", hm.Min)
	}
	if hm.Max != 10 {
		t.Errorf("Max = %v, want 10", hm.Max)
	}
	if got := hm.Values[2][2]; got != 2.5 {
		t.Errorf("Values[2][2] = %v, want 2.5", got)
	}
}

func TestHeightMapSettingsDerivedHeights(t *testing.T) {
	s := DefaultHeightMapSettings()
	if got := s.MinHeight(); got != 0 {
		t.Errorf("MinHeight() = %v, want 0", got)
	}
	if got := s.MaxHeight(); got != s.Multiplier {
		t.Errorf("MaxHeight() = %v, want %v", got, s.Multiplier)
	}
}

func TestHeightMapSettingsValidate(t *testing.T) {
	s := DefaultHeightMapSettings()
	if err := s.Validate(); err != nil {
		t.Fatalf("default settings invalid: %v", err)
	}

	s.Noise.Octaves = 0
	if err := s.Validate(); !errors.Is(err, ErrNoiseSettings) {
		t.Errorf("zero octaves: got %v, want ErrNoiseSettings", err)
	}

	s = DefaultHeightMapSettings()
	s.Multiplier = -1
	if err := s.Validate(); !errors.Is(err, ErrHeightMultiplier) {
		t.Errorf("negative multiplier: got %v, want ErrHeightMultiplier", err)
	}
}
