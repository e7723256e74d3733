package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// =============================================================================
// Config Types
// =============================================================================

// Config holds all application configuration.
type Config struct {
	Docker    DockerConfig    `mapstructure:"docker"`
	Discovery DiscoveryConfig `mapstructure:"discovery"`
	Resolver  ResolverConfig  `mapstructure:"resolver"`
	Output    OutputConfig    `mapstructure:"output"`
	Log       LogConfig       `mapstructure:"log"`
}

// DockerConfig holds Docker client configuration.
type DockerConfig struct {
	Host string `mapstructure:"host"`
}

// DiscoveryConfig holds compose file discovery configuration.
type DiscoveryConfig struct {
	// ComposeRoots are the directories searched for Compose files.
	ComposeRoots []string `mapstructure:"compose_roots"`
}

// ResolverConfig holds dependency analysis configuration.
type ResolverConfig struct {
	// PerContainerMinutes is the flat migration estimate per container.
	PerContainerMinutes float64 `mapstructure:"per_container_minutes"`

	// ComplexityMultiplier scales estimates for containers coupled
	// through shared volumes or environment references.
	ComplexityMultiplier float64 `mapstructure:"complexity_multiplier"`

	// CyclePathLimit caps cycle enumeration work.
	CyclePathLimit int `mapstructure:"cycle_path_limit"`

	// Extractors restricts which relationship categories are analyzed.
	// Empty enables all of them.
	Extractors []string `mapstructure:"extractors"`
}

// OutputConfig holds report output configuration.
type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// =============================================================================
// Config Loading
// =============================================================================

// LoadConfig loads configuration from file and environment.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("docker.host", "")
	v.SetDefault("discovery.compose_roots", []string{"."})
	v.SetDefault("resolver.per_container_minutes", 5.0)
	v.SetDefault("resolver.complexity_multiplier", 1.5)
	v.SetDefault("resolver.cycle_path_limit", 10000)
	v.SetDefault("resolver.extractors", []string{})
	v.SetDefault("output.dir", ".")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Load from file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			// Only return error if file was explicitly specified and is invalid
			if _, ok := err.(viper.ConfigParseError); ok {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
			// File not found is OK, we'll use defaults
		}
	}

	// Enable environment variable overrides
	v.SetEnvPrefix("PODSHIFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// =============================================================================
// Logger Setup
// =============================================================================

// SetupLogger creates a logger with the configured level and format.
func SetupLogger(cfg *Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if strings.ToLower(cfg.Log.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}
