package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 10, cfg.Harvest.Concurrency)
	assert.Equal(t, "checkpoint.txt", cfg.Harvest.CheckpointFile)
	assert.Equal(t, "pre", cfg.Harvest.PayloadTag)
	assert.Equal(t, "json", cfg.Harvest.PayloadClass)
	assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("URLHARVEST_INPUT_LIST", "custom.txt")
	t.Setenv("URLHARVEST_CONCURRENCY", "5")
	t.Setenv("URLHARVEST_REQUESTS_PER_MINUTE", "30")
	t.Setenv("URLHARVEST_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "custom.txt", cfg.Harvest.InputList)
	assert.Equal(t, 5, cfg.Harvest.Concurrency)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 30, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
harvest:
  input_list: from-file.txt
  concurrency: 7
  not_found_marker: "Nothing to see"
logging:
  level: warn
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, "from-file.txt", cfg.Harvest.InputList)
	assert.Equal(t, 7, cfg.Harvest.Concurrency)
	assert.Equal(t, "Nothing to see", cfg.Harvest.NotFoundMarker)
	assert.Equal(t, "warn", cfg.Logging.Level)
	// Untouched keys keep their defaults.
	assert.Equal(t, "./artifacts", cfg.Harvest.ArtifactDir)
}

func TestLoadFromFileMissingIsNotAnError(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.LoadFromFile(""))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty input list", func(c *Config) { c.Harvest.InputList = "" }},
		{"empty checkpoint", func(c *Config) { c.Harvest.CheckpointFile = "" }},
		{"empty artifact dir", func(c *Config) { c.Harvest.ArtifactDir = "" }},
		{"zero concurrency", func(c *Config) { c.Harvest.Concurrency = 0 }},
		{"negative concurrency", func(c *Config) { c.Harvest.Concurrency = -1 }},
		{"empty payload tag", func(c *Config) { c.Harvest.PayloadTag = "" }},
		{"zero timeout", func(c *Config) { c.Fetch.Timeout = 0 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
		{"bad rate limit", func(c *Config) { c.RateLimit.Enabled = true; c.RateLimit.RequestsPerMinute = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestMergeCommandLineFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MergeCommandLineFlags(map[string]interface{}{
		"input":      "flag.txt",
		"concurrent": 3,
		"timeout":    10 * time.Second,
	})

	assert.Equal(t, "flag.txt", cfg.Harvest.InputList)
	assert.Equal(t, 3, cfg.Harvest.Concurrency)
	assert.Equal(t, 10*time.Second, cfg.Fetch.Timeout)
}

func TestLoadPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("harvest:\n  concurrency: 4\n"), 0644))
	t.Setenv("URLHARVEST_CONCURRENCY", "6")

	// Flags beat env, env beats file.
	cfg, err := Load(path, map[string]interface{}{"concurrent": 8})
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Harvest.Concurrency)

	cfg, err = Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Harvest.Concurrency)
}
