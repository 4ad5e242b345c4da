package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/beans/ir"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{EnvCacheDir, EnvColor, EnvMaxWords} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Color != ColorAuto || cfg.Cache.Enabled || cfg.Limits != ir.DefaultLimits() {
		t.Errorf("got %+v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := writeConfig(t, dir, `
color = "off"
jobs = 2

[cache]
dir = "cache"

[limits]
words = 512
scope_depth = 4
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Color != ColorOff || cfg.Jobs != 2 {
		t.Errorf("color %q jobs %d", cfg.Color, cfg.Jobs)
	}
	if !cfg.Cache.Enabled || cfg.Cache.Dir != filepath.Join(dir, "cache") {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Limits.Words != 512 || cfg.Limits.ScopeDepth != 4 {
		t.Errorf("limits = %+v", cfg.Limits)
	}
	if cfg.Limits.Procedures != ir.DefaultLimits().Procedures {
		t.Errorf("unset limit lost its default: %d", cfg.Limits.Procedures)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "color = ", "failed to parse TOML"},
		{"unknown key", "colour = \"on\"", "unknown key colour"},
		{"bad color", "color = \"sometimes\"", "color must be"},
		{"negative jobs", "jobs = -1", "jobs must not be negative"},
		{"empty cache dir", "[cache]\ndir = \"\"", "[cache].dir must not be empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			path := writeConfig(t, t.TempDir(), tt.body)
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, t.TempDir(), "color = \"on\"\n[limits]\nwords = 100\n")
	t.Setenv(EnvColor, "off")
	t.Setenv(EnvMaxWords, "2048")
	t.Setenv(EnvCacheDir, "/tmp/beans-cache")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Color != ColorOff {
		t.Errorf("color = %q, want off", cfg.Color)
	}
	if cfg.Limits.Words != 2048 {
		t.Errorf("words = %d, want 2048", cfg.Limits.Words)
	}
	if !cfg.Cache.Enabled || cfg.Cache.Dir != "/tmp/beans-cache" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	want := writeConfig(t, root, "")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	got, ok, err := Find(nested)
	if err != nil || !ok {
		t.Fatalf("Find: ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Errorf("Find = %q, want %q", got, want)
	}
}
