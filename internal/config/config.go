package config

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

const (
	envAPIURL   = "TRENDLY_API_URL"
	envLogLevel = "TRENDLY_LOG_LEVEL"

	defaultTimeout = 15 * time.Second
	defaultWindow  = 7 * 24 * time.Hour
)

type API struct {
	BaseURL   string  `yaml:"base_url" validate:"required,http_url"`
	Timeout   string  `yaml:"timeout"`
	RateLimit float64 `yaml:"rate_limit" validate:"gte=0"`
	Burst     int     `yaml:"burst" validate:"gte=0"`
}

// Defaults are the filters a session starts with.
type Defaults struct {
	Query    string `yaml:"query"`
	SortBy   string `yaml:"sort_by" validate:"oneof=publishedAt relevancy popularity"`
	Language string `yaml:"language" validate:"len=2,lowercase"`
}

type Config struct {
	API         API      `yaml:"api"`
	Defaults    Defaults `yaml:"defaults"`
	Window      string   `yaml:"window"`
	Theme       string   `yaml:"theme" validate:"oneof=dark light"`
	LogLevel    string   `yaml:"log_level"`
	LogFile     string   `yaml:"log_file,omitempty"`
	Categories  []string `yaml:"categories" validate:"min=1,dive,required"`
	SortOptions []string `yaml:"sort_options" validate:"min=1,dive,oneof=publishedAt relevancy popularity"`
	Languages   []string `yaml:"languages" validate:"min=1,dive,len=2,lowercase"`
}

func (c *Config) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil || d <= 0 {
		return defaultTimeout
	}
	return d
}

func (c *Config) WindowDuration() time.Duration {
	if c.Window == "" {
		return defaultWindow
	}
	d, err := ParseDuration(c.Window)
	if err != nil || d <= 0 {
		return defaultWindow
	}
	return d
}

func (c *Config) Dark() bool {
	return c.Theme != "light"
}

// LogPath returns the configured log file or the XDG state location.
func (c *Config) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(xdg.StateHome, "trendly", "trendly.log")
}

// ParseDuration accepts Go durations plus an "Nd" day suffix.
func ParseDuration(s string) (time.Duration, error) {
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil {
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}
	return time.ParseDuration(s)
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "trendly", "config.yaml")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load reads the config file at path (DefaultConfigPath when empty) over the
// embedded defaults, applies environment overrides and validates the result.
// A missing file is created from the defaults.
func Load(path string) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Non-fatal: keep running on embedded defaults.
		_ = writeDefaults(path)
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(envAPIURL); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv(envLogLevel); v != "" {
		c.LogLevel = v
	}
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

var validate = newValidator()

func newValidator() func(*Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return func(cfg *Config) error {
		err := v.Struct(cfg)
		if err == nil {
			return nil
		}
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validating config: %w", err)
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			field := strings.TrimPrefix(fe.Namespace(), "Config.")
			if fe.Param() != "" {
				msgs = append(msgs, fmt.Sprintf("%s: must satisfy %s=%s (got %v)", field, fe.Tag(), fe.Param(), fe.Value()))
			} else {
				msgs = append(msgs, fmt.Sprintf("%s: must satisfy %s (got %v)", field, fe.Tag(), fe.Value()))
			}
		}
		return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
	}
}
