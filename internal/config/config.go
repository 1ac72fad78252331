package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the project config looked for in the working directory
// when no --config flag is given.
const DefaultFile = "worlds.yaml"

type ProjectConfig struct {
	Project  string         `yaml:"project"`
	Version  int            `yaml:"version"`
	Database DatabaseConfig `yaml:"database"`
	Schemas  SchemasConfig  `yaml:"schemas"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type SchemasConfig struct {
	// Dir overrides the built-in entity type schemas with JSON documents
	// read from this directory.
	Dir string `yaml:"dir"`
}

func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	if err := validateProjectConfig(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return &cfg, nil
}

func validateProjectConfig(cfg *ProjectConfig) error {
	if strings.TrimSpace(cfg.Project) == "" {
		return fmt.Errorf("project name is required")
	}
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}
	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return fmt.Errorf("database dsn is required")
	}
	if !strings.HasPrefix(cfg.Database.DSN, "sqlite://") && !strings.HasPrefix(cfg.Database.DSN, "postgres://") {
		return fmt.Errorf("unsupported database dsn scheme: %s", cfg.Database.DSN)
	}
	return nil
}
