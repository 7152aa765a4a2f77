package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

const (
	appName = "voicejournal"

	DefaultPageSize        = 5
	DefaultShowAllPageSize = 10000
	DefaultLongPressMS     = 600
)

// Config represents the client configuration from config.toml
type Config struct {
	API     APIConfig     `toml:"api"`
	Feed    FeedConfig    `toml:"feed"`
	Gesture GestureConfig `toml:"gesture"`
	Log     LogConfig     `toml:"log"`
}

// APIConfig locates the journal backend
type APIConfig struct {
	Host           string  `toml:"host" validate:"required,hostname_rfc1123|ip"`
	Port           int     `toml:"port" validate:"min=1,max=65535"`
	Scheme         string  `toml:"scheme" validate:"oneof=http https"`
	TimeoutSeconds int     `toml:"timeout_seconds" validate:"gte=0"`
	RatePerSecond  float64 `toml:"rate_per_second" validate:"gte=0"`
}

// FeedConfig controls pagination and date formatting
type FeedConfig struct {
	PageSize        int    `toml:"page_size" validate:"gt=0"`
	ShowAllPageSize int    `toml:"show_all_page_size" validate:"gt=0"`
	Locale          string `toml:"locale" validate:"oneof=de en"`
}

// GestureConfig controls long-press detection
type GestureConfig struct {
	LongPressMS    int  `toml:"long_press_ms" validate:"gt=0"`
	TapOpensEditor bool `toml:"tap_opens_editor"`
}

// LogConfig selects the log file and level. An empty file means the default state path.
type LogConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level" validate:"omitempty,oneof=debug info warn error"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		API: APIConfig{
			Host:           "localhost",
			Port:           8080,
			Scheme:         "http",
			TimeoutSeconds: 10,
			RatePerSecond:  5,
		},
		Feed: FeedConfig{
			PageSize:        DefaultPageSize,
			ShowAllPageSize: DefaultShowAllPageSize,
			Locale:          "de",
		},
		Gesture: GestureConfig{
			LongPressMS: DefaultLongPressMS,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Path returns the config file location using XDG_CONFIG_HOME or ~/.config
func Path() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, appName, "config.toml"), nil
}

// LoadConfig loads configuration from the standard XDG config path with sensible defaults
func LoadConfig() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// Load reads the file at path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	config := Default()

	configData, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(configData, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.normalize()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// normalize constrains values that have a safe fallback instead of failing the load
func (c *Config) normalize() {
	if c.Feed.PageSize <= 0 {
		c.Feed.PageSize = DefaultPageSize
	}
	if c.Feed.ShowAllPageSize <= 0 {
		c.Feed.ShowAllPageSize = DefaultShowAllPageSize
	}
	if c.Gesture.LongPressMS <= 0 {
		c.Gesture.LongPressMS = DefaultLongPressMS
	}
	c.API.Host = strings.TrimSpace(c.API.Host)
	c.API.Scheme = strings.ToLower(strings.TrimSpace(c.API.Scheme))
	c.Feed.Locale = strings.ToLower(strings.TrimSpace(c.Feed.Locale))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
}

// Validate checks every field against its constraints
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s fails %q", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Save writes the configuration to path, creating parent directories
func Save(path string, c *Config) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// BaseURL returns scheme://host:port for the API client
func (c *Config) BaseURL() string {
	return fmt.Sprintf("%s://%s:%d", c.API.Scheme, c.API.Host, c.API.Port)
}

// Timeout returns the per-request timeout, zero meaning none
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// LongPress returns the long-press duration
func (c *Config) LongPress() time.Duration {
	return time.Duration(c.Gesture.LongPressMS) * time.Millisecond
}

// SetHost applies a host from the settings form. "host:port" also sets the port.
func (c *Config) SetHost(raw string) error {
	raw = strings.TrimSpace(raw)
	if i := strings.Index(raw, "://"); i >= 0 {
		c.API.Scheme = strings.ToLower(raw[:i])
		raw = raw[i+3:]
	}
	raw = strings.TrimSuffix(raw, "/")
	if host, port, ok := strings.Cut(raw, ":"); ok {
		var p int
		if _, err := fmt.Sscanf(port, "%d", &p); err != nil {
			return fmt.Errorf("invalid port %q", port)
		}
		c.API.Port = p
		raw = host
	}
	c.API.Host = raw
	return c.Validate()
}
