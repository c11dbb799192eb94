// Package config loads the dashboard settings from a YAML file, the environment and defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. DEVDASH_HEALTH_THRESHOLD.
const EnvPrefix = "DEVDASH"

type Config struct {
	Data   DataConfig   `mapstructure:"data"`
	PR     PRConfig     `mapstructure:"pr"`
	Health HealthConfig `mapstructure:"health"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
}

type DataConfig struct {
	// Fixture is a YAML file path or http(s) URL; empty selects the built-in seed.
	Fixture   string `mapstructure:"fixture"`
	Seed      int64  `mapstructure:"seed"`
	Synthetic int    `mapstructure:"synthetic"`
}

type PRConfig struct {
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

type HealthConfig struct {
	Threshold       int           `mapstructure:"threshold"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	Environment     string        `mapstructure:"environment"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// New returns a viper instance with defaults and environment bindings in place.
// Commands bind their flags onto it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data.fixture", "")
	v.SetDefault("data.seed", 42)
	v.SetDefault("data.synthetic", 0)
	v.SetDefault("pr.refresh_interval", 10*time.Minute)
	v.SetDefault("health.threshold", 85)
	v.SetDefault("health.refresh_interval", 5*time.Minute)
	v.SetDefault("health.environment", "production")
	v.SetDefault("server.addr", ":8080")
	// Empty means debug once --verbose turns logging on.
	v.SetDefault("log.level", "")
	v.SetDefault("log.format", "console")
}

// Load reads the config file (explicit path, or devdash.yaml in . or ./config when path is empty)
// and unmarshals the merged settings. A missing default config file is not an error.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("devdash")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that cannot be fixed up silently.
func (c *Config) Validate() error {
	if c.Health.Threshold < 0 || c.Health.Threshold > 100 {
		return fmt.Errorf("health.threshold must be between 0 and 100, got %d", c.Health.Threshold)
	}
	if c.PR.RefreshInterval <= 0 {
		return fmt.Errorf("pr.refresh_interval must be positive, got %s", c.PR.RefreshInterval)
	}
	if c.Health.RefreshInterval <= 0 {
		return fmt.Errorf("health.refresh_interval must be positive, got %s", c.Health.RefreshInterval)
	}
	if c.Data.Synthetic < 0 {
		return fmt.Errorf("data.synthetic must not be negative, got %d", c.Data.Synthetic)
	}
	return nil
}
