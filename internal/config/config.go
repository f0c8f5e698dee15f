// Package config persists the tool's path settings and install options.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	toml "github.com/pelletier/go-toml/v2"
)

const envOverride = "HEMTTCTL_CONFIG"

type Config struct {
	Paths   PathsConfig   `toml:"paths"`
	GitHub  GitHubConfig  `toml:"github"`
	History HistoryConfig `toml:"history"`
}

type PathsConfig struct {
	Hemtt      string `toml:"hemtt"`
	ProjectDir string `toml:"project_dir"`
	Arma3Exe   string `toml:"arma3_exe"`
}

type GitHubConfig struct {
	Token        string `toml:"token"`
	AssetPattern string `toml:"asset_pattern"`
}

type HistoryConfig struct {
	DB       string `toml:"db"`
	Disabled bool   `toml:"disabled"`
}

// DefaultPath returns the configuration file path.
func DefaultPath() string {
	if p := os.Getenv(envOverride); p != "" {
		return p
	}
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "hemttctl", "config.toml")
}

// DataDir returns the directory holding installed binaries and the
// history database.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".local", "share", "hemttctl")
}

// BinDir returns the directory installed hemtt binaries go into.
func BinDir() string {
	return filepath.Join(DataDir(), "bin")
}

// Load reads configuration from the default path.
func Load() (*Config, error) {
	return LoadFrom(DefaultPath())
}

// LoadFrom reads configuration from the given path. A missing file is not
// an error: the defaults stand in until the first Save.
func LoadFrom(path string) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// first run
	case err != nil:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	// Apply defaults
	if cfg.Paths.Hemtt == "" {
		cfg.Paths.Hemtt = "hemtt"
	}
	if cfg.Paths.ProjectDir == "" {
		if wd, err := os.Getwd(); err == nil {
			cfg.Paths.ProjectDir = wd
		}
	}
	if cfg.GitHub.AssetPattern == "" {
		cfg.GitHub.AssetPattern = "{{.Name}}-linux-x86_64"
	}
	if cfg.History.DB == "" {
		cfg.History.DB = filepath.Join(DataDir(), "history.db")
	}

	return &cfg, nil
}

// Save writes cfg to the default path.
func Save(cfg *Config) error {
	return SaveTo(DefaultPath(), cfg)
}

// SaveTo writes cfg to the given path, creating parent directories.
func SaveTo(path string, cfg *Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config dir for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

// Set assigns a dotted key like "paths.hemtt". Used by 'config set'.
func (c *Config) Set(key, value string) error {
	switch key {
	case "paths.hemtt":
		c.Paths.Hemtt = value
	case "paths.project_dir":
		c.Paths.ProjectDir = value
	case "paths.arma3_exe":
		c.Paths.Arma3Exe = value
	case "github.token":
		c.GitHub.Token = value
	case "github.asset_pattern":
		c.GitHub.AssetPattern = value
	case "history.db":
		c.History.DB = value
	case "history.disabled":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid bool %q for %s", value, key)
		}
		c.History.Disabled = v
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

// TemplateConfig returns a TOML template with placeholder values for
// first-time setup.
func TemplateConfig() string {
	return `[paths]
hemtt       = "hemtt"
project_dir = "/path/to/your/mod"
arma3_exe   = ""

[github]
# Optional; public releases work unauthenticated.
token         = ""
asset_pattern = "{{.Name}}-linux-x86_64"

[history]
disabled = false
`
}
