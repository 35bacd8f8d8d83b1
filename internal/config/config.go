// Package config handles terrain streamer configuration loading and management.
package config

// Config holds all settings.
type Config struct {
	Terrain   TerrainConfig   `yaml:"terrain"`
	Streaming StreamingConfig `yaml:"streaming"`
	Workers   WorkersConfig   `yaml:"workers"`
	Graphics  GraphicsConfig  `yaml:"graphics"`
	Viewer    ViewerConfig    `yaml:"viewer"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// TerrainConfig holds chunk geometry and height synthesis settings.
type TerrainConfig struct {
	ChunkSizeIndex   int         `yaml:"chunk_size_index"` // Index into the supported chunk sizes
	MeshScale        float32     `yaml:"mesh_scale"`       // World units per grid step
	HeightMultiplier float32     `yaml:"height_multiplier"`
	HeightCurve      []CurveKey  `yaml:"height_curve"`
	Noise            NoiseConfig `yaml:"noise"`
}

// CurveKey is one keyframe of the height curve.
type CurveKey struct {
	T float32 `yaml:"t"`
	V float32 `yaml:"v"`
}

// NoiseConfig holds fractal noise settings.
type NoiseConfig struct {
	Seed        int64   `yaml:"seed"`
	Scale       float32 `yaml:"scale"`
	Octaves     int     `yaml:"octaves"`
	Persistence float32 `yaml:"persistence"`
	Lacunarity  float32 `yaml:"lacunarity"`
	OffsetX     float32 `yaml:"offset_x"`
	OffsetY     float32 `yaml:"offset_y"`
	Normalize   string  `yaml:"normalize"` // "global" or "local"
}

// StreamingConfig holds chunk streaming and level of detail settings.
type StreamingConfig struct {
	DetailLevels             []DetailLevel `yaml:"detail_levels"`
	ColliderLODIndex         int           `yaml:"collider_lod_index"`
	RescanDistance           float32       `yaml:"rescan_distance"`
	ColliderFinalizeDistance float32       `yaml:"collider_finalize_distance"`
	MaxRetries               int           `yaml:"max_retries"`
}

// DetailLevel maps a visibility distance to a mesh decimation level.
type DetailLevel struct {
	LOD             int     `yaml:"lod"`
	VisibleDistance float32 `yaml:"visible_distance"`
}

// WorkersConfig holds background generation settings.
type WorkersConfig struct {
	Count         int     `yaml:"count"`           // 0 = one per CPU
	QueueSize     int     `yaml:"queue_size"`      // Pending job buffer
	JobsPerSecond float64 `yaml:"jobs_per_second"` // 0 = unlimited
	ApplyBudget   int     `yaml:"apply_budget"`    // Results applied per frame, 0 = all
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Fullscreen bool    `yaml:"fullscreen"`
	VSync      bool    `yaml:"vsync"`
	FOV        float32 `yaml:"fov"` // Vertical field of view in degrees
	Wireframe  bool    `yaml:"wireframe"`
}

// ViewerConfig holds the starting viewpoint and movement settings.
type ViewerConfig struct {
	StartX    float32 `yaml:"start_x"`
	StartZ    float32 `yaml:"start_z"`
	Height    float32 `yaml:"height"`
	MoveSpeed float32 `yaml:"move_speed"` // World units per second
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Terrain: TerrainConfig{
			ChunkSizeIndex:   2,
			MeshScale:        2.5,
			HeightMultiplier: 40,
			HeightCurve: []CurveKey{
				{T: 0, V: 0},
				{T: 0.35, V: 0.05},
				{T: 1, V: 1},
			},
			Noise: NoiseConfig{
				Seed:        1,
				Scale:       50,
				Octaves:     6,
				Persistence: 0.5,
				Lacunarity:  2,
				Normalize:   "global",
			},
		},
		Streaming: StreamingConfig{
			DetailLevels: []DetailLevel{
				{LOD: 0, VisibleDistance: 150},
				{LOD: 1, VisibleDistance: 300},
				{LOD: 3, VisibleDistance: 450},
				{LOD: 4, VisibleDistance: 600},
			},
			ColliderLODIndex:         0,
			RescanDistance:           25,
			ColliderFinalizeDistance: 5,
			MaxRetries:               3,
		},
		Workers: WorkersConfig{
			Count:         0,
			QueueSize:     1024,
			JobsPerSecond: 0,
			ApplyBudget:   0,
		},
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FOV:        60,
		},
		Viewer: ViewerConfig{
			Height:    60,
			MoveSpeed: 80,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
