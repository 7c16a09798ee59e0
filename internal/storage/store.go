package storage

import (
	"context"
	"fmt"

	"pinwatch/internal/config"

	"fyne.io/fyne/v2"
)

// Store is a durable key-value backend holding YAML-encoded values.
type Store interface {
	// Load returns the stored value, or false when the key was never saved.
	Load(ctx context.Context, key string) ([]byte, bool, error)
	// Save overwrites the value stored under key.
	Save(ctx context.Context, key string, value []byte) error
	Close() error
}

// Open creates the backend selected by cfg. dir is the application
// directory used for default file locations.
func Open(cfg config.Config, dir string, prefs fyne.Preferences) (Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendYAML, "":
		return NewYAMLFileStore(cfg.ResolveStoragePath(dir)), nil
	case config.BackendSQLite:
		return NewSQLiteStore(cfg.ResolveStoragePath(dir))
	case config.BackendPreferences:
		if prefs == nil {
			return nil, fmt.Errorf("open preferences store: no preferences available")
		}
		return NewPreferencesStore(prefs), nil
	case config.BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("open store: unknown backend %q", cfg.Storage.Backend)
	}
}
