package config

import (
	"errors"
	"fmt"
	"io/fs"
)

// Load reads and resolves a YAML configuration file
func Load(path string) (*Config, error) {
	raw, err := Parse(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg, err := Resolve(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault behaves like Load but returns the default configuration when
// the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}
