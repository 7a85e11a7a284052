// Package config provides configuration management for projectpilot.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix prefixes environment overrides, e.g. PROJECTPILOT_CLONE_TIMEOUT_SECS.
const EnvPrefix = "PROJECTPILOT_"

// ThemeMode represents the theme selection mode.
type ThemeMode string

const (
	ThemeModeAuto  ThemeMode = "auto"
	ThemeModeLight ThemeMode = "light"
	ThemeModeDark  ThemeMode = "dark"
)

// Storage backend names accepted in storage.backends.
var knownBackends = []string{"sqlite-modernc", "sqlite-ncruces", "json"}

// EditorConfig contains editor defaults.
type EditorConfig struct {
	Default string `koanf:"default" toml:"default"`
}

// StorageConfig controls where and how projects are persisted.
type StorageConfig struct {
	Dir      string   `koanf:"dir" toml:"dir"`
	Backends []string `koanf:"backends" toml:"backends"`
	Watch    bool     `koanf:"watch" toml:"watch"`
}

// LaunchConfig contains process launch settings.
type LaunchConfig struct {
	WaitMillis int64 `koanf:"wait_ms" toml:"wait_ms"`
}

// ProbeConfig contains command-existence check settings.
type ProbeConfig struct {
	TimeoutMillis int64 `koanf:"timeout_ms" toml:"timeout_ms"`
}

// CloneConfig contains repository clone settings.
type CloneConfig struct {
	Tool               string `koanf:"tool" toml:"tool"`
	TimeoutSecs        int64  `koanf:"timeout_secs" toml:"timeout_secs"`
	DefaultDestination string `koanf:"default_destination" toml:"default_destination"`
}

// UIConfig contains UI-related settings.
type UIConfig struct {
	Theme ThemeMode `koanf:"theme" toml:"theme"`
}

// LoggingConfig contains log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level" toml:"level"`
	Format string `koanf:"format" toml:"format"`
	File   string `koanf:"file" toml:"file"`
}

// Config represents the application configuration.
type Config struct {
	Editor  EditorConfig  `koanf:"editor" toml:"editor"`
	Storage StorageConfig `koanf:"storage" toml:"storage"`
	Launch  LaunchConfig  `koanf:"launch" toml:"launch"`
	Probe   ProbeConfig   `koanf:"probe" toml:"probe"`
	Clone   CloneConfig   `koanf:"clone" toml:"clone"`
	UI      UIConfig      `koanf:"ui" toml:"ui"`
	Logging LoggingConfig `koanf:"logging" toml:"logging"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Editor: EditorConfig{
			Default: "vscode",
		},
		Storage: StorageConfig{
			Backends: []string{},
			Watch:    true,
		},
		Launch: LaunchConfig{
			WaitMillis: 1500,
		},
		Probe: ProbeConfig{
			TimeoutMillis: 3000,
		},
		Clone: CloneConfig{
			Tool:        "git",
			TimeoutSecs: 300,
		},
		UI: UIConfig{
			Theme: ThemeModeAuto,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// configPathFunc is the function used to determine the config file path.
// It can be overridden in tests to control the config location.
var configPathFunc = defaultConfigPath

// Load loads the configuration from the standard config file location.
// Returns the default config if no config file exists.
func Load() (*Config, error) {
	return LoadFrom(configPathFunc())
}

// LoadFrom loads the configuration from path, then applies PROJECTPILOT_*
// environment overrides. An empty or missing path yields the defaults.
func LoadFrom(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		if err == nil {
			if err := k.Load(rawbytes.Provider(data), tomlParser{}); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		}
	}

	// PROJECTPILOT_CLONE_TIMEOUT_SECS -> clone.timeout_secs
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config := DefaultConfig()
	if err := k.Unmarshal("", config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// envTransform maps an environment variable to a section.field key, splitting
// on the first underscore after the prefix. List values are comma separated.
func envTransform(key, value string) (string, interface{}) {
	lower := strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower, value
	}
	name := parts[0] + "." + parts[1]
	if name == "storage.backends" {
		var list []string
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				list = append(list, item)
			}
		}
		return name, list
	}
	return name, value
}

// applyDefaults fills values that depend on the environment.
func (c *Config) applyDefaults() {
	if c.Storage.Dir == "" {
		c.Storage.Dir = defaultDataDir()
	}
	c.Storage.Dir = expandHome(c.Storage.Dir)
	c.Clone.DefaultDestination = expandHome(c.Clone.DefaultDestination)
	c.Logging.File = expandHome(c.Logging.File)
}

// Validate rejects values the rest of the program cannot act on.
func (c *Config) Validate() error {
	switch c.UI.Theme {
	case ThemeModeAuto, ThemeModeLight, ThemeModeDark:
	default:
		return fmt.Errorf("ui.theme: unknown theme %q", c.UI.Theme)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unknown level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format: must be json or console, got %q", c.Logging.Format)
	}
	for _, b := range c.Storage.Backends {
		if !isKnownBackend(b) {
			return fmt.Errorf("storage.backends: unknown backend %q (known: %s)", b, strings.Join(knownBackends, ", "))
		}
	}
	if c.Launch.WaitMillis <= 0 {
		return fmt.Errorf("launch.wait_ms must be positive")
	}
	if c.Probe.TimeoutMillis <= 0 {
		return fmt.Errorf("probe.timeout_ms must be positive")
	}
	if c.Clone.TimeoutSecs <= 0 {
		return fmt.Errorf("clone.timeout_secs must be positive")
	}
	if strings.TrimSpace(c.Clone.Tool) == "" {
		return fmt.Errorf("clone.tool must not be empty")
	}
	if strings.TrimSpace(c.Editor.Default) == "" {
		return fmt.Errorf("editor.default must not be empty")
	}
	return nil
}

// LaunchWait returns the launch-confirmation window, clamped to 1-2 seconds.
func (c *Config) LaunchWait() time.Duration {
	d := time.Duration(c.Launch.WaitMillis) * time.Millisecond
	switch {
	case d < time.Second:
		return time.Second
	case d > 2*time.Second:
		return 2 * time.Second
	}
	return d
}

// ProbeTimeout returns the bound on a single command-existence check.
func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.Probe.TimeoutMillis) * time.Millisecond
}

// CloneTimeout returns the ceiling for one clone operation.
func (c *Config) CloneTimeout() time.Duration {
	return time.Duration(c.Clone.TimeoutSecs) * time.Second
}

// LogFile returns the log file used while the terminal UI owns the screen.
func (c *Config) LogFile() string {
	if c.Logging.File != "" {
		return c.Logging.File
	}
	return filepath.Join(c.Storage.Dir, "projectpilot.log")
}

func isKnownBackend(name string) bool {
	for _, b := range knownBackends {
		if b == name {
			return true
		}
	}
	return false
}

// defaultConfigPath returns the standard config file path for the current platform.
func defaultConfigPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, "projectpilot", "config.toml")
}

func defaultDataDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "projectpilot")
	}
	return filepath.Join(configDir, "projectpilot")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// tomlParser adapts go-toml to koanf's Parser interface.
type tomlParser struct{}

func (tomlParser) Unmarshal(b []byte) (map[string]interface{}, error) {
	var out map[string]interface{}
	if err := toml.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (tomlParser) Marshal(o map[string]interface{}) ([]byte, error) {
	return toml.Marshal(o)
}
