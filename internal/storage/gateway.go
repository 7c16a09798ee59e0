package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"pinwatch/internal/core/model"

	"gopkg.in/yaml.v3"
)

const defaultOperationTimeout = 2 * time.Second

// Gateway is the application's view of persistence. It never returns
// errors: failed loads read as absent and failed saves are logged.
type Gateway struct {
	mu      sync.Mutex
	store   Store
	logger  *slog.Logger
	timeout time.Duration
}

// NewGateway wraps store. A nil logger uses slog.Default().
func NewGateway(store Store, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		store:   store,
		logger:  logger,
		timeout: defaultOperationTimeout,
	}
}

// Save encodes value and stores it under key, replacing any prior value.
func (gateway *Gateway) Save(key string, value any) {
	data, err := yaml.Marshal(value)
	if err != nil {
		gateway.logger.Error("encode persisted value", "key", key, "error", err)
		return
	}

	gateway.mu.Lock()
	defer gateway.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), gateway.timeout)
	defer cancel()
	if err := gateway.store.Save(ctx, key, data); err != nil {
		gateway.logger.Error("save persisted value", "key", key, "error", err)
	}
}

// Load decodes the value stored under key into out. It reports false when
// the key is absent or cannot be read, leaving out untouched.
func (gateway *Gateway) Load(key string, out any) bool {
	data, ok := gateway.loadRaw(key)
	if !ok {
		return false
	}
	if err := decodeInto(data, out); err != nil {
		gateway.logger.Warn("decode persisted value", "key", key, "error", err)
		return false
	}
	return true
}

// LoadTimerState returns the saved timer snapshot.
func (gateway *Gateway) LoadTimerState() (model.TimerState, bool) {
	var state model.TimerState
	if !gateway.Load(model.KeyTimerState, &state) {
		return model.TimerState{}, false
	}
	return state.Normalize(), true
}

// SaveTimerState persists a timer snapshot.
func (gateway *Gateway) SaveTimerState(state model.TimerState) {
	gateway.Save(model.KeyTimerState, state)
}

// LoadWindowPosition returns the saved window position.
func (gateway *Gateway) LoadWindowPosition() (model.WindowPosition, bool) {
	var position model.WindowPosition
	if !gateway.Load(model.KeyWindowPosition, &position) {
		return model.WindowPosition{}, false
	}
	return position, true
}

// SaveWindowPosition persists the window position.
func (gateway *Gateway) SaveWindowPosition(position model.WindowPosition) {
	gateway.Save(model.KeyWindowPosition, position)
}

// LoadPinned returns the always-on-top flag, false when absent.
func (gateway *Gateway) LoadPinned() bool {
	var pinned bool
	if !gateway.Load(model.KeyAlwaysOnTop, &pinned) {
		return false
	}
	return pinned
}

// SavePinned persists the always-on-top flag.
func (gateway *Gateway) SavePinned(pinned bool) {
	gateway.Save(model.KeyAlwaysOnTop, pinned)
}

// Close releases the underlying store.
func (gateway *Gateway) Close() error {
	gateway.mu.Lock()
	defer gateway.mu.Unlock()
	return gateway.store.Close()
}

func (gateway *Gateway) loadRaw(key string) ([]byte, bool) {
	gateway.mu.Lock()
	defer gateway.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), gateway.timeout)
	defer cancel()
	data, ok, err := gateway.store.Load(ctx, key)
	if err != nil {
		gateway.logger.Warn("load persisted value", "key", key, "error", err)
		return nil, false
	}
	return data, ok
}

// decodeInto rejects empty documents, which yaml.Unmarshal accepts silently.
func decodeInto(data []byte, out any) error {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	if len(node.Content) == 0 {
		return fmt.Errorf("parse yaml: empty document")
	}
	return node.Content[0].Decode(out)
}
