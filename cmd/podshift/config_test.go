package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Config Loading Tests
// =============================================================================

func TestLoadConfig_DefaultValues(t *testing.T) {
	// Clear environment
	clearEnv(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Docker.Host)
	assert.Equal(t, []string{"."}, cfg.Discovery.ComposeRoots)
	assert.Equal(t, 5.0, cfg.Resolver.PerContainerMinutes)
	assert.Equal(t, 1.5, cfg.Resolver.ComplexityMultiplier)
	assert.Equal(t, 10000, cfg.Resolver.CyclePathLimit)
	assert.Empty(t, cfg.Resolver.Extractors)
	assert.Equal(t, ".", cfg.Output.Dir)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadConfig_FromFile(t *testing.T) {
	clearEnv(t)

	// Create temp config file
	configContent := `
docker:
  host: "unix:///var/run/docker.sock"

discovery:
  compose_roots:
    - /srv/apps
    - /opt/stacks

resolver:
  per_container_minutes: 10
  complexity_multiplier: 2.0
  cycle_path_limit: 500
  extractors:
    - compose_depends_on
    - legacy_link

output:
  dir: /tmp/reports

log:
  level: "debug"
  format: "json"
`
	tmpFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(configContent), 0644))

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)

	assert.Equal(t, "unix:///var/run/docker.sock", cfg.Docker.Host)
	assert.Equal(t, []string{"/srv/apps", "/opt/stacks"}, cfg.Discovery.ComposeRoots)
	assert.Equal(t, 10.0, cfg.Resolver.PerContainerMinutes)
	assert.Equal(t, 2.0, cfg.Resolver.ComplexityMultiplier)
	assert.Equal(t, 500, cfg.Resolver.CyclePathLimit)
	assert.Equal(t, []string{"compose_depends_on", "legacy_link"}, cfg.Resolver.Extractors)
	assert.Equal(t, "/tmp/reports", cfg.Output.Dir)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadConfig_EnvironmentOverride(t *testing.T) {
	clearEnv(t)

	// Set environment variables
	t.Setenv("PODSHIFT_DOCKER_HOST", "tcp://10.0.0.1:2375")
	t.Setenv("PODSHIFT_OUTPUT_DIR", "/var/lib/podshift")
	t.Setenv("PODSHIFT_LOG_LEVEL", "warn")
	t.Setenv("PODSHIFT_LOG_FORMAT", "json")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "tcp://10.0.0.1:2375", cfg.Docker.Host)
	assert.Equal(t, "/var/lib/podshift", cfg.Output.Dir)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadConfig_FileNotFound_UsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig("/nonexistent/path/config.yaml")
	require.NoError(t, err) // Should not error, just use defaults

	assert.Equal(t, 5.0, cfg.Resolver.PerContainerMinutes)
	assert.Equal(t, ".", cfg.Output.Dir)
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	clearEnv(t)

	// Create invalid config file
	tmpFile := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte("invalid: yaml: content: [[["), 0644))

	_, err := LoadConfig(tmpFile)
	assert.Error(t, err)
}

// =============================================================================
// Logger Setup Tests
// =============================================================================

func TestSetupLogger_JSONFormat(t *testing.T) {
	cfg := &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}

	logger := SetupLogger(cfg)
	assert.NotNil(t, logger)
}

func TestSetupLogger_TextFormat(t *testing.T) {
	cfg := &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}

	logger := SetupLogger(cfg)
	assert.NotNil(t, logger)
}

func TestSetupLogger_InvalidLevel(t *testing.T) {
	cfg := &Config{
		Log: LogConfig{
			Level:  "invalid",
			Format: "json",
		},
	}

	// Should fall back to info level, not panic
	logger := SetupLogger(cfg)
	assert.NotNil(t, logger)
}

// =============================================================================
// Extractor Parsing Tests
// =============================================================================

func TestParseExtractors_Empty(t *testing.T) {
	kinds, err := parseExtractors(nil)
	require.NoError(t, err)
	assert.Nil(t, kinds)
}

func TestParseExtractors_Valid(t *testing.T) {
	kinds, err := parseExtractors([]string{"compose_depends_on", "network_shared"})
	require.NoError(t, err)
	require.Len(t, kinds, 2)
}

func TestParseExtractors_Unknown(t *testing.T) {
	_, err := parseExtractors([]string{"port_shared"})
	assert.ErrorContains(t, err, "port_shared")
}

// =============================================================================
// Test Helpers
// =============================================================================

func clearEnv(t *testing.T) {
	t.Helper()
	envVars := []string{
		"PODSHIFT_DOCKER_HOST",
		"PODSHIFT_OUTPUT_DIR",
		"PODSHIFT_LOG_LEVEL",
		"PODSHIFT_LOG_FORMAT",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}
}
