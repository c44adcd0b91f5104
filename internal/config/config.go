// Package config loads gosymcore settings from YAML.
//
// Example file:
//
//	log:
//	  level: debug
//	  json: true
//	server:
//	  addr: ":8090"
//	  read_timeout: 10s
//	limits:
//	  max_exponent: 64
//	  max_batch: 256
//	workers: 4
package config

import (
	"os"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/njchilds90/gosymcore/internal/logging"
)

// Config is the full settings tree.
type Config struct {
	Log     LogConfig    `yaml:"log"`
	Server  ServerConfig `yaml:"server"`
	Limits  LimitsConfig `yaml:"limits"`
	Workers int          `yaml:"workers"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

type ServerConfig struct {
	Addr        string        `yaml:"addr"`
	ReadTimeout time.Duration `yaml:"read_timeout"`
}

// LimitsConfig bounds the work a single request may ask for.
type LimitsConfig struct {
	// MaxExponent caps integer exponents of sums before expansion.
	MaxExponent int64 `yaml:"max_exponent"`
	// MaxBatch caps the number of expressions per batch request.
	MaxBatch int `yaml:"max_batch"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Log: LogConfig{Level: "info"},
		Server: ServerConfig{
			Addr:        ":8090",
			ReadTimeout: 10 * time.Second,
		},
		Limits: LimitsConfig{
			MaxExponent: 64,
			MaxBatch:    256,
		},
		Workers: runtime.NumCPU(),
	}
}

// Load reads path over the defaults. An empty path returns Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "reading config %s", path)
	}
	if err := Parse(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes YAML into cfg and validates the result. Fields absent
// from data keep their current values.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrap(err, "parsing yaml")
	}
	return cfg.Validate()
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if _, ok := logging.ParseLevel(c.Log.Level); !ok {
		return errors.Errorf("log.level: unknown level %q", c.Log.Level)
	}
	if c.Server.Addr == "" {
		return errors.New("server.addr must not be empty")
	}
	if c.Server.ReadTimeout < 0 {
		return errors.Errorf("server.read_timeout: negative duration %s", c.Server.ReadTimeout)
	}
	if c.Limits.MaxExponent < 1 {
		return errors.Errorf("limits.max_exponent must be positive, got %d", c.Limits.MaxExponent)
	}
	if c.Limits.MaxBatch < 1 {
		return errors.Errorf("limits.max_batch must be positive, got %d", c.Limits.MaxBatch)
	}
	if c.Workers < 1 {
		return errors.Errorf("workers must be positive, got %d", c.Workers)
	}
	return nil
}

// LoggingConfig converts the log section for logging.New.
func (c Config) LoggingConfig(service string) logging.Config {
	level, _ := logging.ParseLevel(c.Log.Level)
	return logging.Config{Level: level, Service: service, JSON: c.Log.JSON}
}
