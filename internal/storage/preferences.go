package storage

import (
	"context"

	"fyne.io/fyne/v2"
)

// PreferencesStore keeps values in the Fyne application preferences.
type PreferencesStore struct {
	prefs fyne.Preferences
}

// NewPreferencesStore wraps prefs, usually fyne.App.Preferences().
func NewPreferencesStore(prefs fyne.Preferences) *PreferencesStore {
	return &PreferencesStore{prefs: prefs}
}

func (store *PreferencesStore) Load(_ context.Context, key string) ([]byte, bool, error) {
	value := store.prefs.StringWithFallback(key, "")
	if value == "" {
		return nil, false, nil
	}
	return []byte(value), true, nil
}

func (store *PreferencesStore) Save(_ context.Context, key string, value []byte) error {
	store.prefs.SetString(key, string(value))
	return nil
}

func (store *PreferencesStore) Close() error { return nil }
