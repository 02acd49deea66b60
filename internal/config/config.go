// Package config loads runtime configuration from defaults, an optional YAML
// file, a .env file and LANES_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPrefix      = "LANES"
	configDirName  = "lanes"
	configFileName = "config.yaml"
)

// Config aggregates all runtime settings.
type Config struct {
	DataDir       string        `mapstructure:"data_dir"       yaml:"data_dir"`
	Backend       string        `mapstructure:"backend"        yaml:"backend"`
	SweepInterval time.Duration `mapstructure:"sweep_interval" yaml:"sweep_interval"`
	Log           LogConfig     `mapstructure:"log"            yaml:"log"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level    string `mapstructure:"level"    yaml:"level"`
	Encoding string `mapstructure:"encoding" yaml:"encoding"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		DataDir:       "",
		Backend:       "file",
		SweepInterval: 30 * time.Second, //nolint:mnd // default sweep cadence
		Log: LogConfig{
			Level:    "warn",
			Encoding: "console",
		},
	}
}

// DefaultPath returns the user-level config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, configDirName, configFileName)
}

// Load builds the configuration. An explicit path must exist; without one the
// user-level file is read when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	setDefaults(v, Default())
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := readFile(v, path); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("data_dir", cfg.DataDir)
	v.SetDefault("backend", cfg.Backend)
	v.SetDefault("sweep_interval", cfg.SweepInterval)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.encoding", cfg.Log.Encoding)
}

func readFile(v *viper.Viper, path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
		if path == "" {
			return nil
		}
	}

	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config file: %w", err)
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// Validate rejects values no component can use.
func (c *Config) Validate() error {
	switch c.Backend {
	case "file", "bolt":
	default:
		return fmt.Errorf("invalid backend %q (valid: file, bolt)", c.Backend)
	}
	if c.SweepInterval < time.Second {
		return fmt.Errorf("sweep_interval must be at least 1s, got %s", c.SweepInterval)
	}
	switch c.Log.Encoding {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log encoding %q (valid: console, json)", c.Log.Encoding)
	}
	return nil
}
