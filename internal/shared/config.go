package shared

import (
	_ "embed"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Missing-column policies for the importer.
const (
	PolicyDefault = "default" // missing columns fall back to per-field defaults
	PolicyFail    = "fail"    // missing columns abort the import before any write
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Import   ImportConfig   `toml:"import"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host      string  `toml:"host"`
	Port      int     `toml:"port"`
	RateLimit float64 `toml:"rate_limit"`
	RateBurst int     `toml:"rate_burst"`
}

// ImportConfig contains CSV import settings.
type ImportConfig struct {
	Delimiter       string `toml:"delimiter"`
	OnMissingColumn string `toml:"on_missing_column"`
}

// DelimiterRune returns the configured field delimiter, defaulting to ';'.
func (c ImportConfig) DelimiterRune() rune {
	if c.Delimiter == "" {
		return ';'
	}
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}

// Validate checks that the configuration values are usable.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("%w: database.path is empty", ErrInvalidConfig)
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalidConfig, c.Server.Port)
	}

	switch c.Import.OnMissingColumn {
	case "", PolicyDefault, PolicyFail:
	default:
		return fmt.Errorf("%w: import.on_missing_column must be %q or %q, got %q",
			ErrInvalidConfig, PolicyDefault, PolicyFail, c.Import.OnMissingColumn)
	}

	if utf8.RuneCountInString(c.Import.Delimiter) > 1 {
		return fmt.Errorf("%w: import.delimiter must be a single character", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadConfigOrDefault loads the config at path, falling back to [DefaultConfig] when the file doesn't exist.
func LoadConfigOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
