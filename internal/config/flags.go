package config

import (
	"flag"
	"strconv"
)

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagSeed       = optionalInt64("seed", "Terrain noise seed")
	flagChunkSize  = flag.Int("chunk-size", -1, "Chunk size index")
	flagWorkers    = flag.Int("workers", 0, "Generation worker count")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
)

// int64Flag is an int64 flag that remembers whether it was given, so zero
// can still override a value from the config file.
type int64Flag struct {
	value int64
	set   bool
}

func optionalInt64(name, usage string) *int64Flag {
	f := &int64Flag{}
	flag.Var(f, name, usage)
	return f
}

func (f *int64Flag) String() string {
	if f == nil {
		return "0"
	}
	return strconv.FormatInt(f.value, 10)
}

func (f *int64Flag) Set(s string) error {
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return err
	}
	f.value, f.set = v, true
	return nil
}

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if flagSeed.set {
		cfg.Terrain.Noise.Seed = flagSeed.value
	}
	if *flagChunkSize >= 0 {
		cfg.Terrain.ChunkSizeIndex = *flagChunkSize
	}
	if *flagWorkers > 0 {
		cfg.Workers.Count = *flagWorkers
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
}

// ParseArgs parses an explicit argument list, for tools with subcommands.
func ParseArgs(args []string) error {
	return flag.CommandLine.Parse(args)
}
