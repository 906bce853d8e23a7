package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/production-optimizer/internal/lp"
	"github.com/eugenenazirov/production-optimizer/internal/params"
)

const (
	defaultPort           = "8080"
	defaultRateLimitRPS   = 25.0
	defaultRateLimitBurst = 50
	defaultMaxUploadBytes = 1 << 20
	defaultSolveTimeout   = 5 * time.Second
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > Defaults
type Config struct {
	Port                 string
	Layout               params.Layout
	SolverMaxIterations  int
	SolveTimeout         time.Duration
	MaxUploadBytes       int64
	LogLevel             string
	ShutdownGracePeriod  time.Duration
	ReadHeaderTimeout    time.Duration
	WriteTimeout         time.Duration
	IdleTimeout          time.Duration
	EnableRequestLogging bool
	RateLimitRPS         float64
	RateLimitBurst       int
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	Port                 string        `yaml:"port"`
	Products             []string      `yaml:"products"`
	Machines             []string      `yaml:"machines"`
	Solver               yamlSolver    `yaml:"solver"`
	MaxUploadBytes       int64         `yaml:"max_upload_bytes"`
	LogLevel             string        `yaml:"log_level"`
	ShutdownGracePeriod  string        `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    string        `yaml:"read_header_timeout"`
	WriteTimeout         string        `yaml:"write_timeout"`
	IdleTimeout          string        `yaml:"idle_timeout"`
	EnableRequestLogging *bool         `yaml:"enable_request_logging"`
	RateLimit            yamlRateLimit `yaml:"rate_limit"`
}

// yamlSolver represents the solver section in YAML.
type yamlSolver struct {
	MaxIterations int    `yaml:"max_iterations"`
	Timeout       string `yaml:"timeout"`
}

// yamlRateLimit represents the rate limit section in YAML.
type yamlRateLimit struct {
	RPS   *float64 `yaml:"rps"`
	Burst *int     `yaml:"burst"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile     string
	Port           *string
	ProductsStr    *string
	MachinesStr    *string
	MaxIterations  *int
	LogLevel       *string
	RateLimitRPS   *float64
	RateLimitBurst *int
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	// Apply environment variables (lowest precedence after defaults)
	applyEnvConfig(&cfg)

	// Load from YAML file if specified
	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		if err := applyYAMLConfig(&cfg, yamlCfg); err != nil {
			return Config{}, fmt.Errorf("apply YAML config: %w", err)
		}
	}

	// Apply CLI overrides (highest precedence)
	if overrides != nil {
		if err := applyCLIOverrides(&cfg, overrides); err != nil {
			return Config{}, err
		}
	}

	// Validate final configuration
	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		Port:                 defaultPort,
		Layout:               params.DefaultLayout(),
		SolverMaxIterations:  lp.DefaultMaxIterations,
		SolveTimeout:         defaultSolveTimeout,
		MaxUploadBytes:       defaultMaxUploadBytes,
		LogLevel:             "info",
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) error {
	if yamlCfg.Port != "" {
		cfg.Port = yamlCfg.Port
	}

	if len(yamlCfg.Products) > 0 {
		cfg.Layout.Products = yamlCfg.Products
	}

	if len(yamlCfg.Machines) > 0 {
		cfg.Layout.Machines = yamlCfg.Machines
	}

	if yamlCfg.Solver.MaxIterations > 0 {
		cfg.SolverMaxIterations = yamlCfg.Solver.MaxIterations
	}

	if yamlCfg.MaxUploadBytes > 0 {
		cfg.MaxUploadBytes = yamlCfg.MaxUploadBytes
	}

	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}

	durations := []struct {
		name   string
		raw    string
		target *time.Duration
	}{
		{"solver.timeout", yamlCfg.Solver.Timeout, &cfg.SolveTimeout},
		{"shutdown_grace_period", yamlCfg.ShutdownGracePeriod, &cfg.ShutdownGracePeriod},
		{"read_header_timeout", yamlCfg.ReadHeaderTimeout, &cfg.ReadHeaderTimeout},
		{"write_timeout", yamlCfg.WriteTimeout, &cfg.WriteTimeout},
		{"idle_timeout", yamlCfg.IdleTimeout, &cfg.IdleTimeout},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("parse %s: %w", d.name, err)
		}
		*d.target = parsed
	}

	if yamlCfg.EnableRequestLogging != nil {
		cfg.EnableRequestLogging = *yamlCfg.EnableRequestLogging
	}

	if yamlCfg.RateLimit.RPS != nil && *yamlCfg.RateLimit.RPS >= 0 {
		cfg.RateLimitRPS = *yamlCfg.RateLimit.RPS
	}

	if yamlCfg.RateLimit.Burst != nil && *yamlCfg.RateLimit.Burst >= 0 {
		cfg.RateLimitBurst = *yamlCfg.RateLimit.Burst
	}

	return nil
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Port = port
	}

	if products := parseList(os.Getenv("PRODUCTS")); len(products) > 0 {
		cfg.Layout.Products = products
	}

	if machines := parseList(os.Getenv("MACHINES")); len(machines) > 0 {
		cfg.Layout.Machines = machines
	}

	if iterations := strings.TrimSpace(os.Getenv("SOLVER_MAX_ITERATIONS")); iterations != "" {
		if value, err := strconv.Atoi(iterations); err == nil && value > 0 {
			cfg.SolverMaxIterations = value
		}
	}

	if timeout := strings.TrimSpace(os.Getenv("SOLVER_TIMEOUT")); timeout != "" {
		if value, err := time.ParseDuration(timeout); err == nil && value >= 0 {
			cfg.SolveTimeout = value
		}
	}

	if limit := strings.TrimSpace(os.Getenv("MAX_UPLOAD_BYTES")); limit != "" {
		if value, err := strconv.ParseInt(limit, 10, 64); err == nil && value > 0 {
			cfg.MaxUploadBytes = value
		}
	}

	if level := strings.TrimSpace(os.Getenv("LOG_LEVEL")); level != "" {
		cfg.LogLevel = level
	}

	if rps := strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")); rps != "" {
		if value, err := strconv.ParseFloat(rps, 64); err == nil && value >= 0 {
			cfg.RateLimitRPS = value
		}
	}

	if burst := strings.TrimSpace(os.Getenv("RATE_LIMIT_BURST")); burst != "" {
		if value, err := strconv.Atoi(burst); err == nil && value >= 0 {
			cfg.RateLimitBurst = value
		}
	}
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) error {
	if overrides.Port != nil && *overrides.Port != "" {
		cfg.Port = *overrides.Port
	}

	if overrides.ProductsStr != nil && *overrides.ProductsStr != "" {
		products := parseList(*overrides.ProductsStr)
		if len(products) == 0 {
			return fmt.Errorf("parse products: no products provided")
		}
		cfg.Layout.Products = products
	}

	if overrides.MachinesStr != nil && *overrides.MachinesStr != "" {
		machines := parseList(*overrides.MachinesStr)
		if len(machines) == 0 {
			return fmt.Errorf("parse machines: no machines provided")
		}
		cfg.Layout.Machines = machines
	}

	if overrides.MaxIterations != nil && *overrides.MaxIterations > 0 {
		cfg.SolverMaxIterations = *overrides.MaxIterations
	}

	if overrides.LogLevel != nil && *overrides.LogLevel != "" {
		cfg.LogLevel = *overrides.LogLevel
	}

	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}

	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}

	return nil
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	if cfg.SolverMaxIterations <= 0 {
		return fmt.Errorf("solver max iterations must be positive")
	}
	if cfg.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive")
	}
	if err := cfg.Layout.Validate(); err != nil {
		return fmt.Errorf("layout: %w", err)
	}
	return nil
}

// parseList splits a comma-separated list of identifiers, dropping blanks.
func parseList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
