package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSize      = 3
	DefaultInfluence = "diffused"
	DefaultGain      = 1.0
	DefaultDataDir   = ".thermoscan"
	DefaultAddr      = "127.0.0.1:8080"
	DefaultLogLevel  = "info"
	DefaultPolicy    = "sequential"

	DefaultIdleTimeout = 30 * time.Minute
	DefaultMaxSessions = 256
)

// Environment overrides applied by ApplyEnv.
const (
	EnvDataDir  = "THERMOSCAN_DATA"
	EnvAddr     = "THERMOSCAN_ADDR"
	EnvLogLevel = "THERMOSCAN_LOG_LEVEL"
)

type Config struct {
	Size      int             `yaml:"size"`
	Influence InfluenceConfig `yaml:"influence"`
	Workers   int             `yaml:"workers"`
	DataDir   string          `yaml:"data_dir"`
	LogLevel  string          `yaml:"log_level"`
	Server    ServerConfig    `yaml:"server"`
	Autoplay  AutoplayConfig  `yaml:"autoplay"`
}

type InfluenceConfig struct {
	Name string  `yaml:"name"`
	Gain float64 `yaml:"gain"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`

	// IdleTimeout evicts sessions untouched for this long.
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	MaxSessions int           `yaml:"max_sessions"`
}

type AutoplayConfig struct {
	Policy string `yaml:"policy"`
	Seed   int64  `yaml:"seed"`
}

func DefaultConfig() *Config {
	return &Config{
		Size: DefaultSize,
		Influence: InfluenceConfig{
			Name: DefaultInfluence,
			Gain: DefaultGain,
		},
		DataDir:  DefaultDataDir,
		LogLevel: DefaultLogLevel,
		Server: ServerConfig{
			Addr:        DefaultAddr,
			IdleTimeout: DefaultIdleTimeout,
			MaxSessions: DefaultMaxSessions,
		},
		Autoplay: AutoplayConfig{Policy: DefaultPolicy},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides fields from THERMOSCAN_* variables that are set.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvDataDir); ok && v != "" {
		c.DataDir = v
	}
	if v, ok := lookup(EnvAddr); ok && v != "" {
		c.Server.Addr = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = strings.ToLower(v)
	}
}

func (c *Config) Validate() error {
	if c.Size < 3 || c.Size > 10 {
		return fmt.Errorf("size must be in [3,10], got %d", c.Size)
	}
	if c.Influence.Gain <= 0 {
		return fmt.Errorf("influence gain must be positive, got %f", c.Influence.Gain)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.Server.IdleTimeout <= 0 {
		return fmt.Errorf("server idle timeout must be positive, got %s", c.Server.IdleTimeout)
	}
	if c.Server.MaxSessions <= 0 {
		return fmt.Errorf("server max sessions must be positive, got %d", c.Server.MaxSessions)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %s", c.LogLevel)
	}
	return nil
}
