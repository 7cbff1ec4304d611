package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"gonum.org/v1/gonum/spatial/r2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/TFMV/skillgraph/logging"
	"github.com/TFMV/skillgraph/physics"
	"github.com/TFMV/skillgraph/scheduler"
)

// EnvPrefix prefixes environment overrides. A double underscore descends
// into a section: SKILLGRAPH_PHYSICS__DAMPING sets physics.damping.
const EnvPrefix = "SKILLGRAPH_"

// Load reads configuration from the given file, then overlays environment
// variable overrides. A missing file yields the defaults. Files ending in
// .toml are parsed as TOML, anything else as YAML.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ToLower(strings.ReplaceAll(s, "__", "."))
}

func parserFor(path string) koanf.Parser {
	if isTOML(path) {
		return tomlParser{}
	}
	return yaml.Parser()
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Save writes the configuration to path, as TOML when the name ends in .toml
// and YAML otherwise.
func (c *Config) Save(path string) error {
	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		data, err = toml.Marshal(c)
	} else {
		data, err = yamlv3.Marshal(c)
	}
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	p := c.Physics
	if p.Repulsion < 0 || p.Spring < 0 || p.Centering < 0 {
		return fmt.Errorf("physics: repulsion, spring and centering must be non-negative")
	}
	if p.RestLength <= 0 {
		return fmt.Errorf("physics.rest_length must be positive")
	}
	if p.Damping <= 0 || p.Damping >= 1 {
		return fmt.Errorf("physics.damping must be in (0, 1), got %v", p.Damping)
	}
	if p.MinDistance <= 0 {
		return fmt.Errorf("physics.min_distance must be positive")
	}
	if p.SeedRadius < 0 {
		return fmt.Errorf("physics.seed_radius must be non-negative")
	}
	if p.SettleEnergy < 0 {
		return fmt.Errorf("physics.settle_energy must be non-negative")
	}
	if p.MaxNodes < 0 {
		return fmt.Errorf("physics.max_nodes must be non-negative")
	}

	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("viewport must have positive width and height")
	}
	if c.FrameRate <= 0 || c.FrameRate > scheduler.MaxFrameRate {
		return fmt.Errorf("frame_rate must be in 1..%d, got %d", scheduler.MaxFrameRate, c.FrameRate)
	}
	if c.Iterations < 0 {
		return fmt.Errorf("iterations must be non-negative")
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if c.Server.TimeoutSeconds < 0 {
		return fmt.Errorf("server.timeout_seconds must be non-negative")
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level %q: %w", c.Log.Level, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log.format %q: must be text or json", c.Log.Format)
	}

	return nil
}

// Params converts the physics section into simulation constants
func (c *Config) Params() physics.Params {
	return physics.Params{
		Repulsion:    c.Physics.Repulsion,
		RestLength:   c.Physics.RestLength,
		Spring:       c.Physics.Spring,
		Centering:    c.Physics.Centering,
		Damping:      c.Physics.Damping,
		MinDistance:  c.Physics.MinDistance,
		SeedRadius:   c.Physics.SeedRadius,
		SettleEnergy: c.Physics.SettleEnergy,
	}
}

// Center is the midpoint of the viewport
func (c *Config) Center() r2.Vec {
	return r2.Vec{X: c.Viewport.Width / 2, Y: c.Viewport.Height / 2}
}

// Addr is the listen address for the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// APIKey reads the analysis API key from the configured variable
func (c *Config) APIKey() string {
	if c.Analysis.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.Analysis.APIKeyEnv)
}
