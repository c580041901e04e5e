// Package config loads application configuration from the environment,
// with an optional YAML file layered underneath for local development.
package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"sheetpilot/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Generator GeneratorConfig `yaml:"generator"`
	History   HistoryConfig   `yaml:"history"`
	Database  DatabaseConfig  `yaml:"database"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

// GeneratorConfig holds settings for the external sheet-generation
// service. An empty URL disables generation endpoints.
type GeneratorConfig struct {
	URL       string `yaml:"url"`
	APIKey    string `yaml:"api_key"`
	TimeoutMS int    `yaml:"timeout_ms"`
}

// HistoryConfig locates the persisted generation log
type HistoryConfig struct {
	FilePath string `yaml:"file_path"`
}

// DatabaseConfig holds the saved-workbook store settings. The driver
// follows the DSN: postgres:// URLs use Postgres, anything else is
// treated as a SQLite file path. Empty disables the store.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// Load reads configuration, environment variables last so they win
// over the optional YAML file named by SHEETPILOT_CONFIG.
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:    "8080",
			GinMode: "release",
		},
		Generator: GeneratorConfig{
			TimeoutMS: 60000,
		},
		History: HistoryConfig{
			FilePath: "history.json",
		},
	}

	if path := os.Getenv("SHEETPILOT_CONFIG"); path != "" {
		if err := loadYAML(path, config); err != nil {
			return nil, err
		}
	}

	applyEnv(config)

	if config.Server.Port == "" {
		return nil, errors.ConfigInvalid("server port cannot be empty")
	}
	if config.Generator.TimeoutMS <= 0 {
		return nil, errors.ConfigInvalid("generator timeout must be positive")
	}
	return config, nil
}

func loadYAML(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read config file %s", path)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return errors.Wrapf(err, "failed to parse config file %s", path)
	}
	return nil
}

func applyEnv(config *Config) {
	if v := os.Getenv("PORT"); v != "" {
		config.Server.Port = v
	}
	if v := os.Getenv("GIN_MODE"); v != "" {
		config.Server.GinMode = v
	}
	if v := os.Getenv("GENERATOR_URL"); v != "" {
		config.Generator.URL = v
	}
	if v := os.Getenv("GENERATOR_KEY"); v != "" {
		config.Generator.APIKey = v
	}
	if v := os.Getenv("GENERATOR_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			config.Generator.TimeoutMS = ms
		}
	}
	if v := os.Getenv("HISTORY_FILE"); v != "" {
		config.History.FilePath = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		config.Database.URL = v
	}
}
