package config

import (
	"github.com/TFMV/skillgraph/ingest"
	"github.com/TFMV/skillgraph/physics"
)

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	p := physics.DefaultParams()
	return &Config{
		Physics: PhysicsConfig{
			Repulsion:    p.Repulsion,
			RestLength:   p.RestLength,
			Spring:       p.Spring,
			Centering:    p.Centering,
			Damping:      p.Damping,
			MinDistance:  p.MinDistance,
			SeedRadius:   p.SeedRadius,
			SettleEnergy: p.SettleEnergy,
			MaxNodes:     ingest.DefaultMaxNodes,
		},
		Viewport: ViewportConfig{
			Width:  800,
			Height: 600,
		},
		Seed:       1,
		FrameRate:  60,
		Iterations: 300,
		Server: ServerConfig{
			Host:            "",
			Port:            8080,
			AllowAllOrigins: true,
			TimeoutSeconds:  60,
		},
		Analysis: AnalysisConfig{
			Model:     "gpt-4o-mini",
			APIKeyEnv: "OPENAI_API_KEY",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
