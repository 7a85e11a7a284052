package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// withConfigPath temporarily overrides configPathFunc for a test.
func withConfigPath(t *testing.T, path string) {
	t.Helper()
	original := configPathFunc
	configPathFunc = func() string { return path }
	t.Cleanup(func() { configPathFunc = original })
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return configPath
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Editor.Default != "vscode" {
		t.Errorf("Editor.Default = %q, want vscode", cfg.Editor.Default)
	}
	if cfg.UI.Theme != ThemeModeAuto {
		t.Errorf("UI.Theme = %v, want %v", cfg.UI.Theme, ThemeModeAuto)
	}
	if cfg.Clone.Tool != "git" {
		t.Errorf("Clone.Tool = %q, want git", cfg.Clone.Tool)
	}
	if cfg.CloneTimeout() != 5*time.Minute {
		t.Errorf("CloneTimeout() = %v, want 5m", cfg.CloneTimeout())
	}
	if !cfg.Storage.Watch {
		t.Error("Storage.Watch = false, want true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults = %v", err)
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	withConfigPath(t, filepath.Join(t.TempDir(), "nonexistent", "config.toml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	defaultCfg := DefaultConfig()
	if cfg.UI.Theme != defaultCfg.UI.Theme {
		t.Errorf("UI.Theme = %v, want %v", cfg.UI.Theme, defaultCfg.UI.Theme)
	}
	if cfg.Storage.Dir == "" {
		t.Error("Storage.Dir should be filled with the default data directory")
	}
}

func TestLoad_WithConfigFile(t *testing.T) {
	dataDir := t.TempDir()
	configPath := writeConfig(t, `
[editor]
default = "cursor"

[storage]
dir = "`+filepath.ToSlash(dataDir)+`"
backends = ["json"]
watch = false

[clone]
timeout_secs = 60
default_destination = "/home/user/src"

[ui]
theme = "dark"
`)
	withConfigPath(t, configPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Editor.Default != "cursor" {
		t.Errorf("Editor.Default = %q, want cursor", cfg.Editor.Default)
	}
	if filepath.Clean(cfg.Storage.Dir) != filepath.Clean(dataDir) {
		t.Errorf("Storage.Dir = %q, want %q", cfg.Storage.Dir, dataDir)
	}
	if len(cfg.Storage.Backends) != 1 || cfg.Storage.Backends[0] != "json" {
		t.Errorf("Storage.Backends = %v, want [json]", cfg.Storage.Backends)
	}
	if cfg.Storage.Watch {
		t.Error("Storage.Watch = true, want false")
	}
	if cfg.CloneTimeout() != time.Minute {
		t.Errorf("CloneTimeout() = %v, want 1m", cfg.CloneTimeout())
	}
	if cfg.Clone.DefaultDestination != "/home/user/src" {
		t.Errorf("Clone.DefaultDestination = %q", cfg.Clone.DefaultDestination)
	}
	if cfg.UI.Theme != ThemeModeDark {
		t.Errorf("UI.Theme = %v, want %v", cfg.UI.Theme, ThemeModeDark)
	}
}

func TestLoad_PartialOverride(t *testing.T) {
	withConfigPath(t, writeConfig(t, `
[ui]
theme = "light"
`))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.UI.Theme != ThemeModeLight {
		t.Errorf("UI.Theme = %v, want %v", cfg.UI.Theme, ThemeModeLight)
	}
	if cfg.Editor.Default != "vscode" {
		t.Errorf("Editor.Default = %q, want default vscode", cfg.Editor.Default)
	}
	if cfg.Launch.WaitMillis != 1500 {
		t.Errorf("Launch.WaitMillis = %d, want default 1500", cfg.Launch.WaitMillis)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	withConfigPath(t, writeConfig(t, `
[clone]
timeout_secs = 60
`))
	t.Setenv("PROJECTPILOT_CLONE_TIMEOUT_SECS", "120")
	t.Setenv("PROJECTPILOT_EDITOR_DEFAULT", "zed")
	t.Setenv("PROJECTPILOT_STORAGE_BACKENDS", "sqlite-ncruces, json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Clone.TimeoutSecs != 120 {
		t.Errorf("Clone.TimeoutSecs = %d, want 120 from env", cfg.Clone.TimeoutSecs)
	}
	if cfg.Editor.Default != "zed" {
		t.Errorf("Editor.Default = %q, want zed from env", cfg.Editor.Default)
	}
	want := []string{"sqlite-ncruces", "json"}
	if len(cfg.Storage.Backends) != len(want) {
		t.Fatalf("Storage.Backends = %v, want %v", cfg.Storage.Backends, want)
	}
	for i := range want {
		if cfg.Storage.Backends[i] != want[i] {
			t.Errorf("Storage.Backends[%d] = %q, want %q", i, cfg.Storage.Backends[i], want[i])
		}
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	withConfigPath(t, writeConfig(t, `invalid toml [[[`))

	if _, err := Load(); err == nil {
		t.Error("Load() should return error for invalid TOML")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown theme", "[ui]\ntheme = \"sepia\"\n"},
		{"unknown backend", "[storage]\nbackends = [\"postgres\"]\n"},
		{"zero clone timeout", "[clone]\ntimeout_secs = 0\n"},
		{"bad log format", "[logging]\nformat = \"xml\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withConfigPath(t, writeConfig(t, tt.content))
			if _, err := Load(); err == nil {
				t.Errorf("Load() should reject %s", tt.name)
			}
		})
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	withConfigPath(t, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Editor.Default != DefaultConfig().Editor.Default {
		t.Errorf("Editor.Default = %q, want default", cfg.Editor.Default)
	}
}

func TestLaunchWait_Clamped(t *testing.T) {
	tests := []struct {
		millis int64
		want   time.Duration
	}{
		{200, time.Second},
		{1500, 1500 * time.Millisecond},
		{9000, 2 * time.Second},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.Launch.WaitMillis = tt.millis
		if got := cfg.LaunchWait(); got != tt.want {
			t.Errorf("LaunchWait(%d) = %v, want %v", tt.millis, got, tt.want)
		}
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandHome("~/projects"); got != filepath.Join(home, "projects") {
		t.Errorf("expandHome(~/projects) = %q", got)
	}
	if got := expandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("expandHome(/abs/path) = %q", got)
	}
}

func TestThemeMode_Values(t *testing.T) {
	if ThemeModeAuto != "auto" {
		t.Errorf("ThemeModeAuto = %q, want 'auto'", ThemeModeAuto)
	}
	if ThemeModeLight != "light" {
		t.Errorf("ThemeModeLight = %q, want 'light'", ThemeModeLight)
	}
	if ThemeModeDark != "dark" {
		t.Errorf("ThemeModeDark = %q, want 'dark'", ThemeModeDark)
	}
}
