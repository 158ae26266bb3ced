package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the retrieval library configuration.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Segmenter SegmenterConfig `yaml:"segmenter"`
	Search    SearchConfig    `yaml:"search"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// DatabaseConfig holds chunk store connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider      string `yaml:"provider"`
	APIKey        string `yaml:"api_key"`
	BaseURL       string `yaml:"base_url"`
	Model         string `yaml:"model"`
	Dimensions    int    `yaml:"dimensions"`
	CacheTTLHours int    `yaml:"cache_ttl_hours"`
}

// SegmenterConfig holds Thai word-segmenter settings. An empty endpoint
// disables segmentation (Thai-dense queries are tokenized unsegmented).
type SegmenterConfig struct {
	Endpoint  string `yaml:"endpoint"`
	TimeoutMS int    `yaml:"timeout_ms"`
}

// SearchConfig holds fusion and selection defaults plus the curated
// literal boost-term list.
type SearchConfig struct {
	KeywordWeight  float64           `yaml:"keyword_weight"`
	VectorWeight   float64           `yaml:"vector_weight"`
	MassFraction   float64           `yaml:"mass_fraction"`
	MinChunks      int               `yaml:"min_chunks"` // 0 = scope-dependent default
	MaxChunks      int               `yaml:"max_chunks"`
	PrimaryBoost   float64           `yaml:"primary_boost"`
	SecondaryBoost float64           `yaml:"secondary_boost"`
	BoostTerms     []BoostTermConfig `yaml:"boost_terms"`
}

// BoostTermConfig is one curated literal with its boost level.
type BoostTermConfig struct {
	Term  string `yaml:"term"`
	Level string `yaml:"level"` // "primary" | "secondary" (default)
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Embedding.CacheTTLHours <= 0 {
		c.Embedding.CacheTTLHours = 24
	}
	if c.Segmenter.TimeoutMS <= 0 {
		c.Segmenter.TimeoutMS = 2000
	}
	if c.Search.KeywordWeight == 0 && c.Search.VectorWeight == 0 {
		c.Search.KeywordWeight = 0.5
		c.Search.VectorWeight = 0.5
	}
	if c.Search.MassFraction <= 0 {
		c.Search.MassFraction = 0.3
	}
	if c.Search.MaxChunks <= 0 {
		c.Search.MaxChunks = 8
	}
	if c.Search.PrimaryBoost <= 0 {
		c.Search.PrimaryBoost = 0.8
	}
	if c.Search.SecondaryBoost <= 0 {
		c.Search.SecondaryBoost = 0.3
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.Search.KeywordWeight < 0 || c.Search.KeywordWeight > 1 {
		return fmt.Errorf("search.keyword_weight must be between 0 and 1, got %v", c.Search.KeywordWeight)
	}
	if c.Search.VectorWeight < 0 || c.Search.VectorWeight > 1 {
		return fmt.Errorf("search.vector_weight must be between 0 and 1, got %v", c.Search.VectorWeight)
	}
	if c.Search.MassFraction <= 0 || c.Search.MassFraction > 1 {
		return fmt.Errorf("search.mass_fraction must be in (0,1], got %v", c.Search.MassFraction)
	}
	if c.Search.MinChunks < 0 {
		return fmt.Errorf("search.min_chunks must not be negative, got %d", c.Search.MinChunks)
	}
	if c.Search.MinChunks > c.Search.MaxChunks {
		return fmt.Errorf(
			"search.min_chunks %d exceeds search.max_chunks %d",
			c.Search.MinChunks, c.Search.MaxChunks,
		)
	}
	for i, b := range c.Search.BoostTerms {
		if b.Term == "" {
			return fmt.Errorf("search.boost_terms[%d].term is required", i)
		}
		switch b.Level {
		case "", "primary", "secondary":
			// ok
		default:
			return fmt.Errorf(
				"search.boost_terms[%d].level must be \"primary\" or \"secondary\", got %q", i, b.Level,
			)
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
