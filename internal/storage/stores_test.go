package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"pinwatch/internal/config"
	"pinwatch/internal/core/model"
	"pinwatch/internal/logging"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/require"
)

func backends() map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store {
			return NewMemoryStore()
		},
		"yaml": func(t *testing.T) Store {
			return NewYAMLFileStore(filepath.Join(t.TempDir(), "nested", "state.yaml"))
		},
		"sqlite-memory": func(t *testing.T) Store {
			store, err := NewSQLiteStore(":memory:")
			require.NoError(t, err)
			return store
		},
		"sqlite-file": func(t *testing.T) Store {
			store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "state.db"))
			require.NoError(t, err)
			return store
		},
		"preferences": func(t *testing.T) Store {
			return NewPreferencesStore(test.NewTempApp(t).Preferences())
		},
	}
}

func TestStoresRoundTrip(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			store := open(t)
			defer func() { _ = store.Close() }()
			gateway := NewGateway(store, logging.Discard())

			_, ok := gateway.LoadTimerState()
			require.False(t, ok)

			gateway.SaveTimerState(model.TimerState{Elapsed: 12, Running: true})
			gateway.SaveTimerState(model.TimerState{Elapsed: 13, Running: false})
			gateway.SaveWindowPosition(model.WindowPosition{X: -20, Y: 300})
			gateway.SavePinned(true)

			state, ok := gateway.LoadTimerState()
			require.True(t, ok)
			require.Equal(t, model.TimerState{Elapsed: 13, Running: false}, state)

			position, ok := gateway.LoadWindowPosition()
			require.True(t, ok)
			require.Equal(t, model.WindowPosition{X: -20, Y: 300}, position)

			require.True(t, gateway.LoadPinned())
		})
	}
}

func TestYAMLFileStoreDocumentLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	gateway := NewGateway(NewYAMLFileStore(path), logging.Discard())

	gateway.SaveWindowPosition(model.WindowPosition{X: 10, Y: 20})
	gateway.SavePinned(false)
	gateway.SaveTimerState(model.TimerState{Elapsed: 42, Running: true})

	rawData, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(rawData)
	require.Contains(t, content, "alwaysOnTop: false\n")
	require.Contains(t, content, "timerState:\n")
	require.Contains(t, content, "time: 42\n")
	require.Contains(t, content, "isRunning: true\n")
	require.Contains(t, content, "windowPosition: [10, 20]\n")
	require.NotContains(t, content, "isAlwaysOnTop")

	_, err = os.Stat(path + ".tmp")
	require.True(t, os.IsNotExist(err))
}

func TestYAMLFileStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	NewGateway(NewYAMLFileStore(path), logging.Discard()).SaveTimerState(model.TimerState{Elapsed: 99})

	state, ok := NewGateway(NewYAMLFileStore(path), logging.Discard()).LoadTimerState()
	require.True(t, ok)
	require.Equal(t, model.TimerState{Elapsed: 99}, state)
}

func TestYAMLFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timerState: [broken"), 0o644))

	store := NewYAMLFileStore(path)
	_, _, err := store.Load(context.Background(), "timerState")
	require.Error(t, err)

	gateway := NewGateway(store, logging.Discard())
	_, ok := gateway.LoadTimerState()
	require.False(t, ok)

	gateway.SavePinned(true)
	require.True(t, gateway.LoadPinned())
}

func TestYAMLFileStoreReportsReplacedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, os.WriteFile(path, []byte("alwaysOnTop: [broken"), 0o644))

	var logs bytes.Buffer
	gateway := NewGateway(NewYAMLFileStore(path), logging.New(&logs, "debug", "text"))
	gateway.SaveTimerState(model.TimerState{Elapsed: 4})

	require.Contains(t, logs.String(), "save persisted value")
	require.Contains(t, logs.String(), "previous keys dropped")

	state, ok := gateway.LoadTimerState()
	require.True(t, ok)
	require.Equal(t, model.TimerState{Elapsed: 4}, state)

	logs.Reset()
	gateway.SavePinned(true)
	require.Empty(t, logs.String())
}

func TestYAMLFileStoreNullDocument(t *testing.T) {
	for _, content := range []string{"~\n", "null\n", ""} {
		path := filepath.Join(t.TempDir(), "state.yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		store := NewYAMLFileStore(path)
		_, ok, err := store.Load(context.Background(), model.KeyTimerState)
		require.NoError(t, err)
		require.False(t, ok)

		gateway := NewGateway(store, logging.Discard())
		require.NotPanics(t, func() {
			gateway.SaveTimerState(model.TimerState{Elapsed: 9, Running: true})
		})
		state, ok := gateway.LoadTimerState()
		require.True(t, ok)
		require.Equal(t, model.TimerState{Elapsed: 9, Running: true}, state)

		reopened := NewGateway(NewYAMLFileStore(path), logging.Discard())
		state, ok = reopened.LoadTimerState()
		require.True(t, ok)
		require.Equal(t, model.TimerState{Elapsed: 9, Running: true}, state)
	}
}

func TestYAMLFileStoreRejectsEmptyValue(t *testing.T) {
	store := NewYAMLFileStore(filepath.Join(t.TempDir(), "state.yaml"))
	require.Error(t, store.Save(context.Background(), "timerState", nil))
}

func TestSQLiteStorePersistsAcrossConnections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	first, err := NewSQLiteStore(path)
	require.NoError(t, err)
	NewGateway(first, logging.Discard()).SavePinned(true)
	require.NoError(t, first.Close())

	second, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer func() { _ = second.Close() }()
	require.True(t, NewGateway(second, logging.Discard()).LoadPinned())
}

func TestOpenSelectsBackend(t *testing.T) {
	dir := t.TempDir()
	prefs := test.NewTempApp(t).Preferences()

	cfg := config.Default()
	store, err := Open(cfg, dir, prefs)
	require.NoError(t, err)
	require.IsType(t, &YAMLFileStore{}, store)
	require.Equal(t, filepath.Join(dir, "state.yaml"), store.(*YAMLFileStore).Path())

	cfg.Storage.Backend = config.BackendSQLite
	store, err = Open(cfg, dir, prefs)
	require.NoError(t, err)
	require.IsType(t, &SQLiteStore{}, store)
	require.NoError(t, store.Close())
	require.FileExists(t, filepath.Join(dir, "state.db"))

	cfg.Storage.Backend = config.BackendPreferences
	store, err = Open(cfg, dir, prefs)
	require.NoError(t, err)
	require.IsType(t, &PreferencesStore{}, store)

	_, err = Open(cfg, dir, nil)
	require.Error(t, err)

	cfg.Storage.Backend = config.BackendMemory
	store, err = Open(cfg, dir, nil)
	require.NoError(t, err)
	require.IsType(t, &MemoryStore{}, store)

	cfg.Storage.Backend = "etcd"
	_, err = Open(cfg, dir, nil)
	require.Error(t, err)
}
