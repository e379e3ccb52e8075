// Package config persists the dashboard's small user-facing settings
// — the active theme and the refresh interval — to a JSON file under the
// daemon's home directory. This is a single round-trip of two flat
// fields, not the multi-source, env-aware configuration viper is built for, so
// it's a plain encoding/json read/write rather than a viper.Viper.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/galacticcic/galacticcic/internal/errors"
)

// DirName is the directory under the user's home holding the daemon's
// database, PID file, and this config file.
const DirName = ".galactic_cic"

// FileName is the JSON config file's name within DirName.
const FileName = "config.json"

// MinRefreshIntervalSeconds is the floor below which the dashboard's
// background poll is not allowed to run, however the user configures it.
const MinRefreshIntervalSeconds = 1

// dirOverride, when set via SetDirOverride, replaces the default
// <home>/.galactic_cic location. The CLI root command binds this to a
// --home flag and the GALACTIC_CIC_HOME env var via viper.
var dirOverride string

// SetDirOverride points Dir (and everything built on it: the store,
// PID file, log file, and config.json) at dir instead of the default
// home-relative location.
func SetDirOverride(dir string) {
	dirOverride = dir
}

// Config is the dashboard's persisted settings.
type Config struct {
	Theme           string `json:"theme"`
	RefreshInterval int    `json:"refresh_interval"`
}

// Default returns the default config: the phosphor theme and a 2s
// refresh cadence.
func Default() Config {
	return Config{Theme: "phosphor", RefreshInterval: 2}
}

// Dir returns <home>/.galactic_cic (or dirOverride, if set), creating
// it if necessary.
func Dir() (string, error) {
	dir := dirOverride
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.WrapWithCode(err, errors.ErrConfig, "could not determine home directory", "")
		}
		dir = filepath.Join(home, DirName)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig, "could not create "+dir, "")
	}
	return dir, nil
}

// Path returns <home>/.galactic_cic/config.json.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads the config file, returning Default() if it doesn't exist
// yet or fails to parse.
func Load() Config {
	path, err := Path()
	if err != nil {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Default()
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Default()
	}
	if cfg.Theme == "" {
		cfg.Theme = Default().Theme
	}
	if cfg.RefreshInterval < MinRefreshIntervalSeconds {
		cfg.RefreshInterval = MinRefreshIntervalSeconds
	}
	return cfg
}

// Save writes cfg to the config file, overwriting it.
func Save(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "could not encode config", "")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "could not write "+path, "")
	}
	return nil
}
