package logger

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/arawlin/logkit/pkg/utils"
)

// Environment selects the profile that drives the default severity.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// DetectEnvironment reads the conventional APP_ENV production signal. It is
// the only place ambient process state is consulted; New works purely from
// the Config it is handed.
func DetectEnvironment() Environment {
	if os.Getenv("APP_ENV") == string(EnvProduction) {
		return EnvProduction
	}
	return EnvDevelopment
}

// Config represents logger configuration. Every zero field falls back to
// its default, resolved once per New call.
type Config struct {
	LogDir      string      `yaml:"log_dir" env:"LOGKIT_LOG_DIR"`       // directory for log files, default ./logs
	Level       string      `yaml:"level" env:"LOGKIT_LEVEL"`           // fatal, error, warn, info, debug, trace
	FileName    string      `yaml:"file_name" env:"LOGKIT_FILE_NAME"`   // base name without extension, default app
	FileSize    string      `yaml:"file_size" env:"LOGKIT_FILE_SIZE"`   // rotation threshold, e.g. 10M or 512K
	MaxFiles    int         `yaml:"max_files" env:"LOGKIT_MAX_FILES"`   // rotated files kept, default 10, negative keeps all
	Compress    *bool       `yaml:"compress" env:"LOGKIT_COMPRESS"`     // gzip rotated files, default true
	Environment Environment `yaml:"environment" env:"APP_ENV"`          // production or development
	RateLimit   float64     `yaml:"rate_limit" env:"LOGKIT_RATE_LIMIT"` // records per second across sinks, 0 disables
	NoColor     bool        `yaml:"no_color" env:"LOGKIT_NO_COLOR"`     // plain console output even on a terminal
}

// Bool is a convenience for the pointer fields of Config.
func Bool(v bool) *bool { return &v }

// withDefaults returns a resolved copy of c with every unset field filled.
// The level default depends on the environment profile: production wants
// info, everything else debug.
func (c Config) withDefaults() Config {
	if c.LogDir == "" {
		c.LogDir = "./logs"
	}
	if c.Environment != EnvProduction {
		c.Environment = EnvDevelopment
	}
	if c.Level == "" {
		if c.Environment == EnvProduction {
			c.Level = "info"
		} else {
			c.Level = "debug"
		}
	}
	if c.FileName == "" {
		c.FileName = "app"
	}
	if c.FileSize == "" {
		c.FileSize = "10M"
	}
	if c.MaxFiles == 0 {
		c.MaxFiles = 10
	}
	if c.Compress == nil {
		c.Compress = Bool(true)
	}
	return c
}

func (c Config) compress() bool {
	if c.Compress == nil {
		return true
	}
	return *c.Compress
}

// DefaultConfig returns the configuration the package-level default logger
// uses: all defaults under the ambient environment profile.
func DefaultConfig() Config {
	return Config{Environment: DetectEnvironment()}.withDefaults()
}

// FromEnv builds a Config from LOGKIT_* environment variables plus APP_ENV.
// Unset variables leave their fields to the usual defaults.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse logger environment: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads a YAML configuration file. ${VAR} references in the
// file are expanded from the environment first. A missing file is an
// error; an empty file yields the defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read logger config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal([]byte(utils.ExpandEnv(string(data))), &cfg); err != nil {
		return Config{}, fmt.Errorf("parse logger config %s: %w", path, err)
	}
	return cfg, nil
}
