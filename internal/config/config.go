package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// DefaultsConfig seeds the settings collection on first run.
type DefaultsConfig struct {
	Units         string `yaml:"units"`
	RestSeconds   int    `yaml:"rest_seconds"`
	IntensityMode string `yaml:"intensity_mode"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides. Env vars use the prefix GYMTRACK_ and underscore-separated
// paths:
//
//	GYMTRACK_SERVER_HOST, GYMTRACK_SERVER_PORT, GYMTRACK_DB_PATH
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GYMTRACK_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("GYMTRACK_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("GYMTRACK_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Defaults.Units == "" {
		cfg.Defaults.Units = "kg"
	}
	if cfg.Defaults.RestSeconds == 0 {
		cfg.Defaults.RestSeconds = 90
	}
	if cfg.Defaults.IntensityMode == "" {
		cfg.Defaults.IntensityMode = "rpe"
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	switch c.Defaults.IntensityMode {
	case "rpe", "felt":
	default:
		return fmt.Errorf("defaults.intensity_mode must be %q or %q", "rpe", "felt")
	}
	return nil
}
