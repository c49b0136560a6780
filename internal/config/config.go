// Package config loads user-facing settings from a TOML file.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds all user-facing configuration for lantir.
type Config struct {
	Window  WindowConfig  `toml:"window"`
	Map     MapConfig     `toml:"map"`
	Data    DataConfig    `toml:"data"`
	Imports ImportsConfig `toml:"imports"`
}

type WindowConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

type MapConfig struct {
	// HexRadius is the corner-to-center distance of a hex in world
	// pixels at zoom 1.0.
	HexRadius  float64 `toml:"hex_radius"`
	ShowCoords bool    `toml:"show_coords"`
}

type DataConfig struct {
	// WorldFile is the SQLite file holding the persisted map state.
	WorldFile string `toml:"world_file"`
}

type ImportsConfig struct {
	// Dir is watched for new *.json turn reports; empty disables the
	// watcher.
	Dir string `toml:"dir"`
	// RemoveDepartedUnits drops units a newer report no longer mentions
	// for a known hex, instead of keeping their last reported state.
	RemoveDepartedUnits bool `toml:"remove_departed_units"`
}

// Defaults returns a Config populated with built-in default values.
func Defaults() *Config {
	return &Config{
		Window:  WindowConfig{Width: 1600, Height: 900},
		Map:     MapConfig{HexRadius: 40, ShowCoords: true},
		Data:    DataConfig{WorldFile: "lantir-world.db"},
		Imports: ImportsConfig{Dir: "reports"},
	}
}

// Load reads a TOML config file. If the file does not exist, built-in
// defaults are returned without error.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
