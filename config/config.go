// Package config loads server settings from defaults, an optional YAML file
// and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// maxFileBytes 配置文件大小上限。
const maxFileBytes = 1 << 20

var (
	ErrInvalidConfig = errors.New("config: invalid value")
	ErrFileTooLarge  = errors.New("config: file exceeds maximum size")
)

type RateLimit struct {
	Max    int
	Window time.Duration
}

type Config struct {
	Port       int
	Env        string
	CORSOrigin string

	RateLimit RateLimit

	// Upload and request limits
	MaxFileSize   int64
	MaxTextLength int
	MaxBodyBytes  int64

	TemplatesFile string
	StripMarkdown bool

	LogFormat string
	LogLevel  string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Port:          4000,
		Env:           "development",
		CORSOrigin:    "http://localhost:3000",
		RateLimit:     RateLimit{Max: 100, Window: 15 * time.Minute},
		MaxFileSize:   5 << 20,
		MaxTextLength: 50_000,
		MaxBodyBytes:  1 << 20,
		LogFormat:     "json",
		LogLevel:      "info",
	}
}

// fileConfig mirrors Config for YAML; nil fields keep the current value.
type fileConfig struct {
	Port       *int    `yaml:"port"`
	Env        *string `yaml:"env"`
	CORSOrigin *string `yaml:"corsOrigin"`
	RateLimit  *struct {
		Max    *int    `yaml:"max"`
		Window *string `yaml:"window"`
	} `yaml:"rateLimit"`
	MaxFileSize   *int64  `yaml:"maxFileSize"`
	MaxTextLength *int    `yaml:"maxTextLength"`
	MaxBodyBytes  *int64  `yaml:"maxBodyBytes"`
	TemplatesFile *string `yaml:"templatesFile"`
	StripMarkdown *bool   `yaml:"stripMarkdown"`
	LogFormat     *string `yaml:"logFormat"`
	LogLevel      *string `yaml:"logLevel"`
}

// Load builds the configuration. path may be empty to skip the YAML layer.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("读取配置文件失败: %w", err)
		}
		if err := cfg.applyYAML(data); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyYAML(data []byte) error {
	if len(data) > maxFileBytes {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, len(data), maxFileBytes)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	var fc fileConfig
	if err := yaml.UnmarshalWithOptions(data, &fc, yaml.Strict()); err != nil {
		return fmt.Errorf("解析配置失败: %w", err)
	}
	set(&c.Port, fc.Port)
	set(&c.Env, fc.Env)
	set(&c.CORSOrigin, fc.CORSOrigin)
	if rl := fc.RateLimit; rl != nil {
		set(&c.RateLimit.Max, rl.Max)
		if rl.Window != nil {
			d, err := time.ParseDuration(*rl.Window)
			if err != nil {
				return fmt.Errorf("%w: rateLimit.window: %w", ErrInvalidConfig, err)
			}
			c.RateLimit.Window = d
		}
	}
	set(&c.MaxFileSize, fc.MaxFileSize)
	set(&c.MaxTextLength, fc.MaxTextLength)
	set(&c.MaxBodyBytes, fc.MaxBodyBytes)
	set(&c.TemplatesFile, fc.TemplatesFile)
	set(&c.StripMarkdown, fc.StripMarkdown)
	set(&c.LogFormat, fc.LogFormat)
	set(&c.LogLevel, fc.LogLevel)
	return nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func (c *Config) applyEnv() {
	c.Port = envInt("PORT", c.Port)
	c.Env = envOr("APP_ENV", envOr("NODE_ENV", c.Env))
	c.CORSOrigin = envOr("CORS_ORIGIN", c.CORSOrigin)
	c.RateLimit.Max = envInt("RATE_LIMIT_MAX", c.RateLimit.Max)
	c.RateLimit.Window = envDuration("RATE_LIMIT_WINDOW", c.RateLimit.Window)
	c.MaxFileSize = envInt64("MAX_FILE_SIZE", c.MaxFileSize)
	c.MaxTextLength = envInt("MAX_TEXT_LENGTH", c.MaxTextLength)
	c.MaxBodyBytes = envInt64("MAX_BODY_BYTES", c.MaxBodyBytes)
	c.TemplatesFile = envOr("TEMPLATES_FILE", c.TemplatesFile)
	c.StripMarkdown = envBool("STRIP_MARKDOWN", c.StripMarkdown)
	c.LogFormat = envOr("LOG_FORMAT", c.LogFormat)
	c.LogLevel = envOr("LOG_LEVEL", c.LogLevel)
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("%w: port %d", ErrInvalidConfig, c.Port))
	}
	if c.RateLimit.Max <= 0 {
		errs = append(errs, fmt.Errorf("%w: rateLimit.max must be positive", ErrInvalidConfig))
	}
	if c.RateLimit.Window <= 0 {
		errs = append(errs, fmt.Errorf("%w: rateLimit.window must be positive", ErrInvalidConfig))
	}
	if c.MaxFileSize <= 0 || c.MaxBodyBytes <= 0 || c.MaxTextLength <= 0 {
		errs = append(errs, fmt.Errorf("%w: size limits must be positive", ErrInvalidConfig))
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("%w: logFormat %q (json or text)", ErrInvalidConfig, c.LogFormat))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("%w: logLevel %q", ErrInvalidConfig, c.LogLevel))
	}
	return errors.Join(errs...)
}

// Production reports whether error details should be hidden from clients.
func (c Config) Production() bool { return c.Env == "production" }

// Addr returns the listen address.
func (c Config) Addr() string { return ":" + strconv.Itoa(c.Port) }

// CORSOrigins splits the comma-separated origin list.
func (c Config) CORSOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigin, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
