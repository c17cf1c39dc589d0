package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Dir returns the CLI state directory, ~/.respkv.
func Dir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".respkv"
	}
	return filepath.Join(homeDir, ".respkv")
}

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	return filepath.Join(Dir(), "cli.yaml")
}

// Load reads the CLI configuration. A missing file yields the defaults;
// fields absent from the file keep their default values.
func Load(path string) (*CLIConfig, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration with owner-only permissions.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// HistoryPath returns the REPL history file.
func (c *CLIConfig) HistoryPath() string {
	if c.HistoryFile != "" {
		return c.HistoryFile
	}
	return filepath.Join(Dir(), "history")
}
