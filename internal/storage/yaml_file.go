package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// YAMLFileStore keeps every key as a top-level entry of one YAML document.
type YAMLFileStore struct {
	path   string
	mu     sync.Mutex
	doc    map[string]yaml.Node
	loaded bool
}

// NewYAMLFileStore creates a store backed by the file at path. The file
// is created on the first save.
func NewYAMLFileStore(path string) *YAMLFileStore {
	return &YAMLFileStore{path: path}
}

// Path returns the backing file.
func (store *YAMLFileStore) Path() string {
	return store.path
}

func (store *YAMLFileStore) Load(_ context.Context, key string) ([]byte, bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if err := store.ensureLoadedLocked(); err != nil {
		return nil, false, err
	}
	node, ok := store.doc[key]
	if !ok {
		return nil, false, nil
	}
	data, err := yaml.Marshal(&node)
	if err != nil {
		return nil, false, fmt.Errorf("marshal %s: %w", key, err)
	}
	return data, true, nil
}

func (store *YAMLFileStore) Save(_ context.Context, key string, value []byte) error {
	var parsed yaml.Node
	if err := yaml.Unmarshal(value, &parsed); err != nil {
		return fmt.Errorf("parse value for %s: %w", key, err)
	}
	if parsed.Kind != yaml.DocumentNode || len(parsed.Content) == 0 {
		return fmt.Errorf("parse value for %s: empty document", key)
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	var replaced error
	if err := store.ensureLoadedLocked(); err != nil {
		// An unreadable file is replaced rather than blocking every save.
		// The caller still gets the error so the lost keys are reported.
		replaced = fmt.Errorf("replace unreadable state file, previous keys dropped: %w", err)
		store.doc = make(map[string]yaml.Node)
		store.loaded = true
	}
	store.doc[key] = *parsed.Content[0]
	return errors.Join(replaced, store.writeLocked())
}

func (store *YAMLFileStore) Close() error { return nil }

func (store *YAMLFileStore) ensureLoadedLocked() error {
	if store.loaded {
		return nil
	}

	rawData, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			store.doc = make(map[string]yaml.Node)
			store.loaded = true
			return nil
		}
		return fmt.Errorf("read state file: %w", err)
	}

	doc := make(map[string]yaml.Node)
	if err := yaml.Unmarshal(rawData, &doc); err != nil {
		return fmt.Errorf("parse state yaml: %w", err)
	}
	// A null document decodes into a nil map.
	if doc == nil {
		doc = make(map[string]yaml.Node)
	}
	store.doc = doc
	store.loaded = true
	return nil
}

func (store *YAMLFileStore) writeLocked() error {
	serialized, err := yaml.Marshal(store.doc)
	if err != nil {
		return fmt.Errorf("marshal state yaml: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(store.path), 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	tmpPath := store.path + ".tmp"
	if err := os.WriteFile(tmpPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmpPath, store.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
