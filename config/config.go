// Package config loads beansc settings from beans.toml and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/xyproto/env/v2"

	"github.com/gogpu/beans/ir"
)

// FileName is the name of the configuration file searched for by Find.
const FileName = "beans.toml"

// Environment variables that override the file.
const (
	EnvCacheDir = "BEANS_CACHE_DIR"
	EnvColor    = "BEANS_COLOR"
	EnvMaxWords = "BEANS_MAX_WORDS"
)

// Color modes.
const (
	ColorAuto = "auto"
	ColorOn   = "on"
	ColorOff  = "off"
)

// Config holds every beansc setting.
type Config struct {
	Color  string    `toml:"color"`
	Jobs   int       `toml:"jobs"`
	Cache  Cache     `toml:"cache"`
	Limits ir.Limits `toml:"limits"`
}

// Cache configures the on-disk binary cache.
type Cache struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// Default returns the configuration used without a file.
func Default() Config {
	return Config{
		Color:  ColorAuto,
		Limits: ir.DefaultLimits(),
	}
}

// Find looks for beans.toml in startDir and its parents.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load reads the file at path over the defaults and then applies the
// environment. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		meta, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return Config{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
		}
		if meta.IsDefined("cache", "dir") && strings.TrimSpace(cfg.Cache.Dir) == "" {
			return Config{}, fmt.Errorf("%s: [cache].dir must not be empty", path)
		}
		if meta.IsDefined("cache", "dir") && !meta.IsDefined("cache", "enabled") {
			cfg.Cache.Enabled = true
		}
		if cfg.Cache.Dir != "" && !filepath.IsAbs(cfg.Cache.Dir) {
			cfg.Cache.Dir = filepath.Join(filepath.Dir(path), cfg.Cache.Dir)
		}
	}
	ApplyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		if path != "" {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with any BEANS_* variables that are set.
func ApplyEnv(cfg *Config) {
	env.Load()
	if dir := env.Str(EnvCacheDir); dir != "" {
		cfg.Cache.Dir = dir
		cfg.Cache.Enabled = true
	}
	cfg.Color = env.Str(EnvColor, cfg.Color)
	cfg.Limits.Words = env.Int(EnvMaxWords, cfg.Limits.Words)
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.Color {
	case ColorAuto, ColorOn, ColorOff:
	default:
		return fmt.Errorf("color must be %q, %q or %q, not %q", ColorAuto, ColorOn, ColorOff, c.Color)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", c.Jobs)
	}
	if c.Limits.Words < 0 {
		return fmt.Errorf("limits.words must not be negative, got %d", c.Limits.Words)
	}
	return nil
}
