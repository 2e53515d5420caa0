// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Drill DrillFileConfig `toml:"drill"`
}

// DrillFileConfig maps drill-related settings.
type DrillFileConfig struct {
	Sets     *int     `toml:"sets"`
	Birds    *int     `toml:"birds"`
	Recovery *float64 `toml:"recovery"`
	Preview  *float64 `toml:"preview"`
	SetBreak *float64 `toml:"break"`
	Corners  *string  `toml:"corners"`
	Sound    *bool    `toml:"sound"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
