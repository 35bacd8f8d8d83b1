package streaming

import (
	"errors"
	"testing"

	"go.uber.org/multierr"

	"github.com/Faultbox/midgard-terrain/internal/config"
	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"valid", func(*Config) {}, nil},
		{"no levels", func(c *Config) { c.DetailLevels = nil }, ErrNoDetailLevels},
		{"too many levels", func(c *Config) {
			c.DetailLevels = []LODInfo{{0, 10}, {1, 20}, {2, 30}, {3, 40}, {4, 50}, {4, 60}}
		}, ErrTooManyDetailLevels},
		{"decreasing distances", func(c *Config) {
			c.DetailLevels = []LODInfo{{0, 300}, {1, 100}}
		}, ErrThresholdOrder},
		{"equal distances", func(c *Config) {
			c.DetailLevels = []LODInfo{{0, 100}, {1, 100}}
		}, ErrThresholdOrder},
		{"zero distance", func(c *Config) {
			c.DetailLevels = []LODInfo{{0, 0}}
		}, ErrThresholdOrder},
		{"lod out of range", func(c *Config) {
			c.DetailLevels = []LODInfo{{terrain.NumSupportedLODs, 100}}
		}, ErrLODRange},
		{"collider index out of range", func(c *Config) { c.ColliderLODIndex = 2 }, ErrColliderLOD},
		{"negative collider index", func(c *Config) { c.ColliderLODIndex = -1 }, ErrColliderLOD},
		{"negative rescan", func(c *Config) { c.RescanDistance = -1 }, ErrNegativeDistance},
		{"negative finalize", func(c *Config) { c.ColliderFinalizeDistance = -1 }, ErrNegativeDistance},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }, ErrMaxRetries},
		{"bad chunk size", func(c *Config) { c.Mesh.ChunkSizeIndex = 99 }, terrain.ErrChunkSizeIndex},
		{"bad scale", func(c *Config) { c.Mesh.Scale = 0 }, terrain.ErrMeshScale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(LODInfo{0, 100}, LODInfo{1, 300})
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.want == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestConfigValidateReportsAll(t *testing.T) {
	cfg := testConfig()
	cfg.RescanDistance = -1
	cfg.MaxRetries = -1

	err := cfg.Validate()
	if n := len(multierr.Errors(err)); n != 3 {
		t.Fatalf("got %d errors, want 3: %v", n, err)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(testConfig(), &manualDispatcher{}, nil)
	if !errors.Is(err, ErrNoDetailLevels) {
		t.Fatalf("New() error = %v, want %v", err, ErrNoDetailLevels)
	}
}

func TestDerivedSettings(t *testing.T) {
	tests := []struct {
		maxDist float32
		visible int
	}{
		{100, 1},
		{150, 2}, // half rounds to even
		{250, 2},
		{260, 3},
		{600, 6},
	}

	for _, tt := range tests {
		set, err := newSettings(testConfig(LODInfo{0, tt.maxDist}))
		if err != nil {
			t.Fatalf("newSettings() error = %v", err)
		}
		if set.worldSize != 100 {
			t.Errorf("worldSize = %v, want 100", set.worldSize)
		}
		if set.vertsPerLine != 53 {
			t.Errorf("vertsPerLine = %d, want 53", set.vertsPerLine)
		}
		if set.chunksVisible != tt.visible {
			t.Errorf("max %v: chunksVisible = %d, want %d", tt.maxDist, set.chunksVisible, tt.visible)
		}
		if set.sqrMaxViewDist != tt.maxDist*tt.maxDist {
			t.Errorf("sqrMaxViewDist = %v", set.sqrMaxViewDist)
		}
	}
}

func TestSettingsCopyDetailLevels(t *testing.T) {
	cfg := testConfig(LODInfo{0, 100})
	set, err := newSettings(cfg)
	if err != nil {
		t.Fatal(err)
	}
	cfg.DetailLevels[0].VisibleDistance = 999
	if set.cfg.DetailLevels[0].VisibleDistance != 100 {
		t.Error("settings share detail levels with the caller")
	}
}

func TestSelectLOD(t *testing.T) {
	thresholds := []float32{100 * 100, 300 * 300}
	tests := []struct {
		sqrDist float32
		want    int
	}{
		{0, 0},
		{100 * 100, 0},
		{100*100 + 1, 1},
		{300 * 300, 1},
		{1e9, 1},
	}
	for _, tt := range tests {
		if got := SelectLOD(thresholds, tt.sqrDist); got != tt.want {
			t.Errorf("SelectLOD(%v) = %d, want %d", tt.sqrDist, got, tt.want)
		}
	}
}

func TestFromConfig(t *testing.T) {
	cfg, err := FromConfig(config.Default())
	if err != nil {
		t.Fatalf("FromConfig() error = %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if got := cfg.Mesh.WorldSize(); got != 245 {
		t.Errorf("WorldSize() = %v, want 245", got)
	}
	if len(cfg.DetailLevels) != len(config.Default().Streaming.DetailLevels) {
		t.Errorf("detail levels = %d", len(cfg.DetailLevels))
	}
	if cfg.HeightMap.Noise.Normalize != terrain.NormalizeGlobal {
		t.Errorf("Normalize = %v, want global", cfg.HeightMap.Noise.Normalize)
	}

	file := config.Default()
	file.Terrain.Noise.Normalize = "local"
	cfg, err = FromConfig(file)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HeightMap.Noise.Normalize != terrain.NormalizeLocal {
		t.Errorf("Normalize = %v, want local", cfg.HeightMap.Noise.Normalize)
	}

	file.Terrain.Noise.Normalize = "sideways"
	if _, err := FromConfig(file); !errors.Is(err, ErrNormalizeMode) {
		t.Errorf("FromConfig() error = %v, want %v", err, ErrNormalizeMode)
	}
}
