// Package config loads the service configuration from YAML and the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"

	"modelrisk_intake/pkg/core/agent"
)

// DefaultPath is where binaries look for the config file.
const DefaultPath = "config/intake.yaml"

type ServerConfig struct {
	Addr        string `yaml:"addr"`
	MaxUploadMB int    `yaml:"max_upload_mb"`
	CacheDir    string `yaml:"cache_dir"`
	PromptsDir  string `yaml:"prompts_dir"`
}

type Config struct {
	Agents      agent.Config `yaml:",inline"`
	Server      ServerConfig `yaml:"server"`
	LogLevel    string       `yaml:"log_level"`
	DatabaseURL string       `yaml:"-"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Agents: agent.Config{ActiveProvider: "openai"},
		Server: ServerConfig{
			Addr:        ":8080",
			MaxUploadMB: 25,
			CacheDir:    ".cache",
			PromptsDir:  "resources/prompts",
		},
		LogLevel: "info",
	}
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if v := os.Getenv("INTAKE_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("INTAKE_MAX_UPLOAD_MB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Server.MaxUploadMB = n
		}
	}
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	if cfg.Server.MaxUploadMB <= 0 {
		cfg.Server.MaxUploadMB = Default().Server.MaxUploadMB
	}
	return cfg, nil
}

// MaxUploadBytes is the per-file upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadMB) << 20
}
