// Package config reads runtime settings from the environment and .env files.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/samdwyer/bspwalk/internal/navgraph"
	"github.com/samdwyer/bspwalk/internal/presets"
	"github.com/samdwyer/bspwalk/internal/world"
)

const envPrefix = "BSPWALK_"

// Config holds the settings for one run.
type Config struct {
	// Seed for random number generation. Used for reproducible dungeon generation.
	// A seed of 0 means a random seed will be generated.
	Seed int64

	Preset          string // Name of the preset the size fields start from
	Width, Height   int    // Area in grid cells
	MinimumRoomSize int
	Scale           float64 // World units per grid cell
	Variant         world.Variant
	Policy          navgraph.Policy

	Speed        int           // Agent speed in world units per tick
	TickInterval time.Duration // Time between agent ticks

	Addr         string // Listen address of the websocket server
	LogVerbosity int
	LogFile      string // Log destination for the terminal viewer
	Telemetry    bool   // Export traces over OTLP

	// Honeycomb credentials for the trace exporter. Without an API key the
	// standard OTEL_EXPORTER_OTLP_* variables decide where traces go.
	HoneycombAPIKey  string
	HoneycombDataset string
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Preset:           "default",
		Width:            world.DefaultWidth,
		Height:           world.DefaultHeight,
		MinimumRoomSize:  world.DefaultMinimumRoomSize,
		Scale:            1,
		Variant:          world.VariantTrimmed,
		Policy:           navgraph.PolicyLinearChain,
		Speed:            1,
		TickInterval:     50 * time.Millisecond,
		Addr:             ":8080",
		LogFile:          "bspwalk.log",
		HoneycombDataset: "bspwalk",
	}
}

// Load reads BSPWALK_* variables from the process environment.
func Load(registry *presets.Registry) (Config, error) {
	return FromLookup(os.LookupEnv, registry)
}

// LoadFile reads BSPWALK_* variables from a .env style file only.
func LoadFile(path string, registry *presets.Registry) (Config, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return FromLookup(func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}, registry)
}

// FromLookup builds a Config: defaults first, then the selected preset, then
// individual variables.
func FromLookup(lookup func(string) (string, bool), registry *presets.Registry) (Config, error) {
	cfg := Default()
	r := reader{lookup: lookup}

	r.setString("PRESET", &cfg.Preset)
	if registry != nil && cfg.Preset != "" {
		p, ok := registry.Get(cfg.Preset)
		if !ok {
			return cfg, fmt.Errorf("config: unknown preset %q (have %v)", cfg.Preset, registry.Names())
		}
		if err := cfg.apply(p); err != nil {
			return cfg, err
		}
	}

	r.setInt64("SEED", &cfg.Seed)
	r.setInt("WIDTH", &cfg.Width)
	r.setInt("HEIGHT", &cfg.Height)
	r.setInt("MIN_ROOM_SIZE", &cfg.MinimumRoomSize)
	r.setFloat("SCALE", &cfg.Scale)
	r.parse("VARIANT", func(s string) (err error) {
		cfg.Variant, err = world.ParseVariant(s)
		return err
	})
	r.parse("POLICY", func(s string) (err error) {
		cfg.Policy, err = navgraph.ParsePolicy(s)
		return err
	})
	r.setInt("SPEED", &cfg.Speed)
	r.parse("TICK_MS", func(s string) error {
		ms, err := strconv.Atoi(s)
		cfg.TickInterval = time.Duration(ms) * time.Millisecond
		return err
	})
	r.setString("ADDR", &cfg.Addr)
	r.setInt("LOG_VERBOSITY", &cfg.LogVerbosity)
	r.setString("LOG_FILE", &cfg.LogFile)
	r.parse("TELEMETRY", func(s string) (err error) {
		cfg.Telemetry, err = strconv.ParseBool(s)
		return err
	})
	r.setString("HONEYCOMB_API_KEY", &cfg.HoneycombAPIKey)
	r.setString("HONEYCOMB_DATASET", &cfg.HoneycombDataset)

	if r.err != nil {
		return cfg, r.err
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the generator or graph builder cannot use.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("config: area %dx%d is empty", c.Width, c.Height)
	case c.MinimumRoomSize <= 0:
		return fmt.Errorf("config: minimum room size %d must be positive", c.MinimumRoomSize)
	case c.Scale <= 0:
		return fmt.Errorf("config: scale %v must be positive", c.Scale)
	case c.TickInterval <= 0:
		return fmt.Errorf("config: tick interval %v must be positive", c.TickInterval)
	}
	return nil
}

func (c *Config) apply(p presets.Preset) error {
	c.Width, c.Height = p.Width, p.Height
	c.MinimumRoomSize = p.MinimumRoomSize
	c.Scale = p.Scale
	if p.Variant != "" {
		v, err := world.ParseVariant(p.Variant)
		if err != nil {
			return fmt.Errorf("config: preset %q: %w", p.Name, err)
		}
		c.Variant = v
	}
	if p.Policy != "" {
		pol, err := navgraph.ParsePolicy(p.Policy)
		if err != nil {
			return fmt.Errorf("config: preset %q: %w", p.Name, err)
		}
		c.Policy = pol
	}
	return nil
}

// reader applies prefixed variables, keeping the first error.
type reader struct {
	lookup func(string) (string, bool)
	err    error
}

func (r *reader) parse(name string, set func(string) error) {
	if r.err != nil {
		return
	}
	v, ok := r.lookup(envPrefix + name)
	if !ok || v == "" {
		return
	}
	if err := set(v); err != nil {
		r.err = fmt.Errorf("config: %s%s=%q: %w", envPrefix, name, v, err)
	}
}

func (r *reader) setString(name string, dst *string) {
	r.parse(name, func(s string) error { *dst = s; return nil })
}

func (r *reader) setInt(name string, dst *int) {
	r.parse(name, func(s string) (err error) { *dst, err = strconv.Atoi(s); return err })
}

func (r *reader) setInt64(name string, dst *int64) {
	r.parse(name, func(s string) (err error) { *dst, err = strconv.ParseInt(s, 10, 64); return err })
}

func (r *reader) setFloat(name string, dst *float64) {
	r.parse(name, func(s string) (err error) { *dst, err = strconv.ParseFloat(s, 64); return err })
}
