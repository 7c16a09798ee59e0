package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const configFileName = "config.yaml"

// Storage backends.
const (
	BackendYAML        = "yaml"
	BackendSQLite      = "sqlite"
	BackendPreferences = "preferences"
	BackendMemory      = "memory"
)

// Config is the application configuration.
type Config struct {
	Storage Storage `yaml:"storage"`
	Log     Log     `yaml:"log"`
	Window  Window  `yaml:"window"`
}

// Storage selects where window and timer state are kept.
type Storage struct {
	Backend string `yaml:"backend"`
	// Path is the state file or database. Empty means a file next to config.yaml.
	Path string `yaml:"path"`
}

// Log configures the slog handler.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Window holds clock face geometry.
type Window struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Storage: Storage{Backend: BackendYAML},
		Log:     Log{Level: "info", Format: "text"},
		Window:  Window{Width: 300, Height: 200},
	}
}

// Load reads config.yaml from dir. A missing file yields the defaults;
// on any other error the defaults are returned together with the error.
func Load(dir string) (Config, error) {
	cfg := Default()
	rawData, err := os.ReadFile(filepath.Join(dir, configFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	var fileData Config
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return cfg, fmt.Errorf("parse config yaml: %w", err)
	}

	if err := apply(&cfg, fileData); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// ResolveStoragePath returns the configured state path, or the backend
// default inside dir.
func (cfg Config) ResolveStoragePath(dir string) string {
	if cfg.Storage.Path != "" {
		return cfg.Storage.Path
	}
	if cfg.Storage.Backend == BackendSQLite {
		return filepath.Join(dir, "state.db")
	}
	return filepath.Join(dir, "state.yaml")
}

func apply(cfg *Config, fileData Config) error {
	if backend := strings.ToLower(strings.TrimSpace(fileData.Storage.Backend)); backend != "" {
		switch backend {
		case BackendYAML, BackendSQLite, BackendPreferences, BackendMemory:
			cfg.Storage.Backend = backend
		default:
			return fmt.Errorf("unknown storage backend %q", fileData.Storage.Backend)
		}
	}
	if fileData.Storage.Path != "" {
		cfg.Storage.Path = fileData.Storage.Path
	}
	if fileData.Log.Level != "" {
		cfg.Log.Level = strings.ToLower(fileData.Log.Level)
	}
	if fileData.Log.Format != "" {
		cfg.Log.Format = strings.ToLower(fileData.Log.Format)
	}
	if fileData.Window.Width > 0 {
		cfg.Window.Width = fileData.Window.Width
	}
	if fileData.Window.Height > 0 {
		cfg.Window.Height = fileData.Window.Height
	}
	return nil
}
