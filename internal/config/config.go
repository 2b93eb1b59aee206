package config

import "time"

type Config struct {
	ConfigVersion int                     `yaml:"configVersion"`
	Mode          string                  `yaml:"mode"`
	Patterns      PatternsConfig          `yaml:"patterns"`
	SpamTail      SpamTailConfig          `yaml:"spamTail"`
	Sources       map[string]SourceConfig `yaml:"sources"`
	Server        ServerConfig            `yaml:"server"`
	Logging       LoggingConfig           `yaml:"logging"`
	Metrics       MetricsConfig           `yaml:"metrics"`

	baseDir string `yaml:"-"`
}

type PatternsConfig struct {
	// UseDefaults keeps the built-in tables underneath the configured ones.
	// Unset means true.
	UseDefaults *bool           `yaml:"useDefaults"`
	Drop        []PatternConfig `yaml:"drop"`
	Cutoff      []PatternConfig `yaml:"cutoff"`
}

type PatternConfig struct {
	ID           string `yaml:"id"`
	Pattern      string `yaml:"pattern"`
	PatternsFile string `yaml:"patternsFile"`
	Note         string `yaml:"note"`
}

type SpamTailConfig struct {
	Enabled  *bool `yaml:"enabled"`
	MaxWords int   `yaml:"maxWords"`
	MinRun   int   `yaml:"minRun"`
	// Unanchored also strips bodies that consist only of short lines.
	Unanchored bool `yaml:"unanchored"`
}

// SourceConfig adds patterns for one source on top of the global tables and
// may override the spam-tail settings.
type SourceConfig struct {
	Drop     []PatternConfig `yaml:"drop"`
	Cutoff   []PatternConfig `yaml:"cutoff"`
	SpamTail *SpamTailConfig `yaml:"spamTail"`
}

type ServerConfig struct {
	Listen       string          `yaml:"listen"`
	MaxBodyBytes int64           `yaml:"maxBodyBytes"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
}

type RateLimitConfig struct {
	Enabled    bool    `yaml:"enabled"`
	RPS        float64 `yaml:"rps"`
	Burst      int     `yaml:"burst"`
	StatusCode int     `yaml:"statusCode"`
}

type LoggingConfig struct {
	Level     string `yaml:"level"`
	Format    string `yaml:"format"`
	RecordLog string `yaml:"recordLog"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

const (
	ModeEnforce = "enforce"
	ModeShadow  = "shadow"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		ConfigVersion: 1,
		Mode:          ModeEnforce,
		Server: ServerConfig{
			Listen:       ":8080",
			MaxBodyBytes: 1 << 20,
			ReadTimeout:  5 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: FormatConsole,
		},
		Metrics: MetricsConfig{
			Listen: ":9090",
		},
	}
}

func (c *Config) BaseDir() string {
	return c.baseDir
}

func (c *Config) ResolvePath(path string) string {
	return c.resolvePath(path)
}

func (c *Config) UseDefaultPatterns() bool {
	return c.Patterns.UseDefaults == nil || *c.Patterns.UseDefaults
}

func (s SpamTailConfig) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}
