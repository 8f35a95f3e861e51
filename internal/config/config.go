// Package config loads the pipeline configuration. Values come from an
// optional YAML file with environment-variable overrides; the core packages
// receive them as plain values and never read the environment themselves.
package config

// #region imports
import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// #endregion

// #region config

// Config is the full pipeline configuration.
type Config struct {
	MaxAttempts       int     `yaml:"max_attempts"`
	BaseDepth         int     `yaml:"base_recursion_depth"`
	MaxDepth          int     `yaml:"max_recursion_depth"`
	Resolution        int     `yaml:"resolution"`
	Tolerance         float64 `yaml:"acceptance_tolerance"`
	UseRefinement     bool    `yaml:"use_refinement"`
	RefinementModel   string  `yaml:"refinement_model_id"`
	RefinementTimeout float64 `yaml:"refinement_timeout_seconds"`
	DBPath            string  `yaml:"db_path"`
	ArtifactDir       string  `yaml:"artifact_dir"`

	// APIKey comes only from the environment, never from the file.
	APIKey string `yaml:"-"`
}

// Default returns the standard configuration.
func Default() Config {
	return Config{
		MaxAttempts:       6,
		BaseDepth:         4,
		MaxDepth:          8,
		Resolution:        256,
		Tolerance:         0.35,
		UseRefinement:     false,
		RefinementModel:   "mistral-large-latest",
		RefinementTimeout: 10,
		DBPath:            "uago.db",
		ArtifactDir:       "artifacts",
	}
}

// TimeoutDuration returns the refinement timeout as a duration.
func (c Config) TimeoutDuration() time.Duration {
	return time.Duration(c.RefinementTimeout * float64(time.Second))
}

// #endregion

// #region load

// Load reads the YAML file at path (skipped when path is empty or absent),
// applies environment overrides, and validates.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.DBPath = envOr("UAGO_DB", cfg.DBPath)
	cfg.ArtifactDir = envOr("UAGO_ARTIFACT_DIR", cfg.ArtifactDir)
	cfg.RefinementModel = envOr("UAGO_REFINEMENT_MODEL", cfg.RefinementModel)
	cfg.APIKey = envOr("UAGO_API_KEY", "")

	if v := os.Getenv("UAGO_USE_REFINEMENT"); v != "" {
		cfg.UseRefinement = v == "true" || v == "1"
	}
	if v := os.Getenv("UAGO_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxAttempts = n
		}
	}
	if v := os.Getenv("UAGO_TOLERANCE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Tolerance = f
		}
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion

// #region validate

// Validate rejects configurations the core cannot honor.
func (c Config) Validate() error {
	if c.MaxAttempts < 1 {
		return fmt.Errorf("config: max_attempts must be >= 1, got %d", c.MaxAttempts)
	}
	if c.BaseDepth < 0 {
		return fmt.Errorf("config: base_recursion_depth must be >= 0, got %d", c.BaseDepth)
	}
	if c.MaxDepth < c.BaseDepth {
		return fmt.Errorf("config: max_recursion_depth %d below base_recursion_depth %d", c.MaxDepth, c.BaseDepth)
	}
	if c.Tolerance <= 0 {
		return fmt.Errorf("config: acceptance_tolerance must be > 0, got %v", c.Tolerance)
	}
	if c.RefinementTimeout <= 0 {
		return fmt.Errorf("config: refinement_timeout_seconds must be > 0, got %v", c.RefinementTimeout)
	}
	if c.Resolution < 16 {
		return fmt.Errorf("config: resolution must be >= 16, got %d", c.Resolution)
	}
	return nil
}

// #endregion
