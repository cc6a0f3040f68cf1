// Package config holds the renderer configuration and loads it from a
// YAML file and VUE2IMG_* environment variables via viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// VUE2IMG_RENDER_WIDTH.
const EnvPrefix = "VUE2IMG"

// Config is the complete application configuration.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Render  RenderConfig  `mapstructure:"render" yaml:"render"`
	Network NetworkConfig `mapstructure:"network" yaml:"network"`
}

// LoggerConfig controls the zap logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// RenderConfig controls the canvas and text.
type RenderConfig struct {
	Width             float64           `mapstructure:"width" yaml:"width"`
	FontSize          float64           `mapstructure:"font_size" yaml:"font_size"`
	Fonts             map[string]string `mapstructure:"fonts" yaml:"fonts"`
	ExpressionTimeout time.Duration     `mapstructure:"expression_timeout" yaml:"expression_timeout"`
}

// NetworkConfig controls how remote images are fetched.
type NetworkConfig struct {
	Timeout       time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Retries       int           `mapstructure:"retries" yaml:"retries"`
	Concurrency   int           `mapstructure:"concurrency" yaml:"concurrency"`
	RatePerSecond float64       `mapstructure:"rate_per_second" yaml:"rate_per_second"`
	UserAgent     string        `mapstructure:"user_agent" yaml:"user_agent"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "vue2img")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 7)
	v.SetDefault("logger.compress", false)

	// -- Render --
	v.SetDefault("render.width", 1000)
	v.SetDefault("render.font_size", 16)
	v.SetDefault("render.fonts", map[string]string{})
	v.SetDefault("render.expression_timeout", "100ms")

	// -- Network --
	v.SetDefault("network.timeout", "30s")
	v.SetDefault("network.retries", 2)
	v.SetDefault("network.concurrency", 4)
	v.SetDefault("network.rate_per_second", 10.0)
	v.SetDefault("network.user_agent", "vue2img/1.0")
}

// NewViper returns a viper instance with defaults and environment
// overrides registered.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// NewDefaultConfig returns the configuration with every default applied.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := NewConfigFromViper(v)
	if err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return cfg
}

// NewConfigFromViper unmarshals and validates the configuration held by v.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if cfg.Render.Fonts == nil {
		cfg.Render.Fonts = map[string]string{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Load reads the YAML file at path on top of the defaults and
// environment. An empty path looks for vue2img.yaml in the working
// directory and is not an error when that file is absent.
func Load(path string) (*Config, error) {
	v := NewViper()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("vue2img")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return NewConfigFromViper(v)
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	if c.Render.Width <= 0 {
		return fmt.Errorf("render.width must be positive")
	}
	if c.Render.FontSize <= 0 {
		return fmt.Errorf("render.font_size must be positive")
	}
	if c.Render.ExpressionTimeout < 0 {
		return fmt.Errorf("render.expression_timeout must not be negative")
	}
	if c.Network.Concurrency <= 0 {
		return fmt.Errorf("network.concurrency must be a positive integer")
	}
	if c.Network.Retries < 0 {
		return fmt.Errorf("network.retries must not be negative")
	}
	switch c.Logger.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logger.format must be console or json, got %q", c.Logger.Format)
	}
	return nil
}
