package config

// Config is the top-level skillgraph configuration, read from skillgraph.yml
// or skillgraph.toml.
type Config struct {
	Physics    PhysicsConfig  `yaml:"physics" koanf:"physics" toml:"physics"`
	Viewport   ViewportConfig `yaml:"viewport" koanf:"viewport" toml:"viewport"`
	Seed       int64          `yaml:"seed" koanf:"seed" toml:"seed"`
	FrameRate  int            `yaml:"frame_rate" koanf:"frame_rate" toml:"frame_rate"`
	Iterations int            `yaml:"iterations" koanf:"iterations" toml:"iterations"`
	Server     ServerConfig   `yaml:"server" koanf:"server" toml:"server"`
	Analysis   AnalysisConfig `yaml:"analysis" koanf:"analysis" toml:"analysis"`
	Log        LogConfig      `yaml:"log" koanf:"log" toml:"log"`
}

// PhysicsConfig mirrors physics.Params
type PhysicsConfig struct {
	Repulsion    float64 `yaml:"repulsion" koanf:"repulsion" toml:"repulsion"`
	RestLength   float64 `yaml:"rest_length" koanf:"rest_length" toml:"rest_length"`
	Spring       float64 `yaml:"spring" koanf:"spring" toml:"spring"`
	Centering    float64 `yaml:"centering" koanf:"centering" toml:"centering"`
	Damping      float64 `yaml:"damping" koanf:"damping" toml:"damping"`
	MinDistance  float64 `yaml:"min_distance" koanf:"min_distance" toml:"min_distance"`
	SeedRadius   float64 `yaml:"seed_radius" koanf:"seed_radius" toml:"seed_radius"`
	SettleEnergy float64 `yaml:"settle_energy" koanf:"settle_energy" toml:"settle_energy"`

	// MaxNodes bounds accepted networks, 0 for no limit. A tick is O(n²).
	MaxNodes int `yaml:"max_nodes" koanf:"max_nodes" toml:"max_nodes"`
}

// ViewportConfig is the drawing area. The layout centers on its midpoint.
type ViewportConfig struct {
	Width  float64 `yaml:"width" koanf:"width" toml:"width"`
	Height float64 `yaml:"height" koanf:"height" toml:"height"`
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Host            string `yaml:"host" koanf:"host" toml:"host"`
	Port            int    `yaml:"port" koanf:"port" toml:"port"`
	AllowAllOrigins bool   `yaml:"allow_all_origins" koanf:"allow_all_origins" toml:"allow_all_origins"`
	TimeoutSeconds  int    `yaml:"timeout_seconds" koanf:"timeout_seconds" toml:"timeout_seconds"`
}

// AnalysisConfig selects the model that turns resume text into a network.
type AnalysisConfig struct {
	Model     string `yaml:"model" koanf:"model" toml:"model"`
	BaseURL   string `yaml:"base_url" koanf:"base_url" toml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env" koanf:"api_key_env" toml:"api_key_env"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string `yaml:"level" koanf:"level" toml:"level"`
	Format string `yaml:"format" koanf:"format" toml:"format"`
}
