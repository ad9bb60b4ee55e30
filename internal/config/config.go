// Package config provides configuration loading and validation for the server and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/resume-builder/internal/export"
)

// DefaultPort is the HTTP port used when PORT is unset.
const DefaultPort = 8080

// Duration is a time.Duration that reads JSON strings such as "45s".
type Duration time.Duration

// UnmarshalJSON accepts a Go duration string or a number of seconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var seconds float64
	if err := json.Unmarshal(data, &seconds); err != nil {
		return fmt.Errorf("duration must be a string or number of seconds")
	}
	*d = Duration(time.Duration(seconds * float64(time.Second)))
	return nil
}

// MarshalJSON writes the duration in Go string form.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Config represents the service configuration. Values come from the
// environment and may be overridden by a JSON file.
type Config struct {
	Port        int    `json:"port,omitempty"`
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	Model       string `json:"model,omitempty"`        // Overrides the standard-tier model

	// Export
	ChromePath          string   `json:"chrome_path,omitempty"`
	ExportTimeout       Duration `json:"export_timeout,omitempty"`
	ExportLoadTimeout   Duration `json:"export_load_timeout,omitempty"`
	ExportPaperSize     string   `json:"export_paper_size,omitempty"`
	ExportMaxConcurrent int64    `json:"export_max_concurrent,omitempty"`

	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information
}

// FromEnv builds a Config from environment variables. Malformed numeric
// values are reported by Validate as out of range rather than silently dropped.
func FromEnv() *Config {
	return &Config{
		Port:                envInt("PORT", DefaultPort),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		APIKey:              os.Getenv("GEMINI_API_KEY"),
		Model:               os.Getenv("GEMINI_MODEL"),
		ChromePath:          os.Getenv("CHROME_PATH"),
		ExportTimeout:       Duration(envDuration("EXPORT_TIMEOUT", export.DefaultTimeout)),
		ExportLoadTimeout:   Duration(envDuration("EXPORT_LOAD_TIMEOUT", export.DefaultLoadTimeout)),
		ExportPaperSize:     envString("EXPORT_PAPER_SIZE", export.PaperA4),
		ExportMaxConcurrent: int64(envInt("EXPORT_MAX_CONCURRENT", export.DefaultMaxConcurrent)),
	}
}

// Load reads the environment and, when path is set, overlays the JSON file on top.
func Load(path string) (*Config, error) {
	env := FromEnv()
	if path == "" {
		return env, nil
	}
	file, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	merged := file.MergeWithDefaults(*env)
	return &merged, nil
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Required values depend on the command and are checked by the caller.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 1 and 65535, got %d", c.Port)
	}
	if c.ExportTimeout < 0 || c.ExportLoadTimeout < 0 {
		return fmt.Errorf("config error: export timeouts must be non-negative")
	}
	if c.ExportMaxConcurrent < 0 {
		return fmt.Errorf("config error: 'export_max_concurrent' must be non-negative")
	}
	if c.ChromePath != "" {
		if _, err := os.Stat(c.ChromePath); os.IsNotExist(err) {
			return fmt.Errorf("config error: chrome binary not found: %s", c.ChromePath)
		}
	}
	if err := c.ExportOptions().Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// ExportOptions converts the export settings into exporter options.
func (c *Config) ExportOptions() export.Options {
	return export.Options{
		ChromePath:    c.ChromePath,
		Timeout:       time.Duration(c.ExportTimeout),
		LoadTimeout:   time.Duration(c.ExportLoadTimeout),
		PaperSize:     c.ExportPaperSize,
		MaxConcurrent: c.ExportMaxConcurrent,
	}
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply environment values beneath a config file.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.ChromePath == "" {
		result.ChromePath = defaults.ChromePath
	}
	if result.ExportTimeout == 0 {
		result.ExportTimeout = defaults.ExportTimeout
	}
	if result.ExportLoadTimeout == 0 {
		result.ExportLoadTimeout = defaults.ExportLoadTimeout
	}
	if result.ExportPaperSize == "" {
		result.ExportPaperSize = defaults.ExportPaperSize
	}
	if result.ExportMaxConcurrent == 0 {
		result.ExportMaxConcurrent = defaults.ExportMaxConcurrent
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

func envString(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func envInt(key string, defaultValue int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return -1
	}
	return n
}

func envDuration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return -1
	}
	return d
}
