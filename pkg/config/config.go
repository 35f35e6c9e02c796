package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the URL harvester
type Config struct {
	// Input and output paths for a pass
	Harvest HarvestConfig `yaml:"harvest" json:"harvest"`

	// HTTP fetch settings
	Fetch FetchConfig `yaml:"fetch" json:"fetch"`

	// Request pacing configuration
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// HarvestConfig holds the pass inputs, outputs, and extraction markers
type HarvestConfig struct {
	InputList      string `yaml:"input_list" json:"input_list"`
	CheckpointFile string `yaml:"checkpoint_file" json:"checkpoint_file"`
	ArtifactDir    string `yaml:"artifact_dir" json:"artifact_dir"`
	Concurrency    int    `yaml:"concurrency" json:"concurrency"`

	// NotFoundMarker is the site's canonical not-found text. A body
	// containing it is classified 404 regardless of HTTP status.
	NotFoundMarker string `yaml:"not_found_marker" json:"not_found_marker"`

	// PayloadTag and PayloadClass identify the embedded payload block,
	// e.g. <pre class="json">...</pre>.
	PayloadTag   string `yaml:"payload_tag" json:"payload_tag"`
	PayloadClass string `yaml:"payload_class" json:"payload_class"`

	// ArtifactSuffix is stripped from the URL's trailing path segment
	// when deriving the artifact filename.
	ArtifactSuffix string `yaml:"artifact_suffix" json:"artifact_suffix"`

	// RewriteOld and RewriteNew define the dead-link substitution rule
	// used by the rewrite command's relink mode.
	RewriteOld string `yaml:"rewrite_old" json:"rewrite_old"`
	RewriteNew string `yaml:"rewrite_new" json:"rewrite_new"`
}

// FetchConfig holds HTTP client settings
type FetchConfig struct {
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
	UserAgent string        `yaml:"user_agent" json:"user_agent"`
}

// RateLimitConfig holds request pacing configuration
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled" json:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute" json:"requests_per_minute"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Harvest: HarvestConfig{
			InputList:      "urls.txt",
			CheckpointFile: "checkpoint.txt",
			ArtifactDir:    "./artifacts",
			Concurrency:    10,
			NotFoundMarker: "Page Not Found",
			PayloadTag:     "pre",
			PayloadClass:   "json",
			ArtifactSuffix: ".html",
		},
		Fetch: FetchConfig{
			Timeout:   30 * time.Second,
			UserAgent: "urlharvest/1.0",
		},
		RateLimit: RateLimitConfig{
			Enabled:           false,
			RequestsPerMinute: 60,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if input := os.Getenv("URLHARVEST_INPUT_LIST"); input != "" {
		c.Harvest.InputList = input
	}
	if cp := os.Getenv("URLHARVEST_CHECKPOINT_FILE"); cp != "" {
		c.Harvest.CheckpointFile = cp
	}
	if dir := os.Getenv("URLHARVEST_ARTIFACT_DIR"); dir != "" {
		c.Harvest.ArtifactDir = dir
	}
	if concurrency := os.Getenv("URLHARVEST_CONCURRENCY"); concurrency != "" {
		var val int
		fmt.Sscanf(concurrency, "%d", &val)
		if val > 0 {
			c.Harvest.Concurrency = val
		}
	}
	if marker := os.Getenv("URLHARVEST_NOT_FOUND_MARKER"); marker != "" {
		c.Harvest.NotFoundMarker = marker
	}
	if rpm := os.Getenv("URLHARVEST_REQUESTS_PER_MINUTE"); rpm != "" {
		var val int
		fmt.Sscanf(rpm, "%d", &val)
		if val > 0 {
			c.RateLimit.RequestsPerMinute = val
			c.RateLimit.Enabled = true
		}
	}
	if logLevel := os.Getenv("URLHARVEST_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile := os.Getenv("URLHARVEST_LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".urlharvest.yaml",
		".urlharvest.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "urlharvest", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "urlharvest", "config.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Harvest.InputList == "" {
		errs = append(errs, errors.New("input list path is required"))
	}
	if c.Harvest.CheckpointFile == "" {
		errs = append(errs, errors.New("checkpoint file path is required"))
	}
	if c.Harvest.ArtifactDir == "" {
		errs = append(errs, errors.New("artifact directory is required"))
	}
	if c.Harvest.Concurrency <= 0 {
		errs = append(errs, errors.New("concurrency must be positive"))
	}
	if c.Harvest.PayloadTag == "" {
		errs = append(errs, errors.New("payload tag is required"))
	}
	if c.Fetch.Timeout <= 0 {
		errs = append(errs, errors.New("fetch timeout must be positive"))
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if input, ok := flags["input"].(string); ok && input != "" {
		c.Harvest.InputList = input
	}
	if cp, ok := flags["checkpoint"].(string); ok && cp != "" {
		c.Harvest.CheckpointFile = cp
	}
	if dir, ok := flags["artifacts"].(string); ok && dir != "" {
		c.Harvest.ArtifactDir = dir
	}
	if concurrency, ok := flags["concurrent"].(int); ok && concurrency > 0 {
		c.Harvest.Concurrency = concurrency
	}
	if marker, ok := flags["not-found-marker"].(string); ok && marker != "" {
		c.Harvest.NotFoundMarker = marker
	}
	if timeout, ok := flags["timeout"].(time.Duration); ok && timeout > 0 {
		c.Fetch.Timeout = timeout
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile, ok := flags["log-file"].(string); ok && logFile != "" {
		c.Logging.File = logFile
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".urlharvest.env"))

	// Start with defaults
	config := DefaultConfig()

	// Load from config file
	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Override with command line flags
	config.MergeCommandLineFlags(flags)

	// Validate final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
