// Package pin tracks whether the window stays above other windows.
package pin

import "sync"

// Store persists the pin flag.
type Store interface {
	LoadPinned() bool
	SavePinned(pinned bool)
}

// Pin holds the always-on-top flag. Its lifecycle is independent of the timer.
type Pin struct {
	mu        sync.Mutex
	store     Store
	pinned    bool
	listeners []func(bool)
}

// New creates a Pin seeded from the store.
func New(store Store) *Pin {
	pin := &Pin{store: store}
	if store != nil {
		pin.pinned = store.LoadPinned()
	}
	return pin
}

// Pinned reports the current flag.
func (pin *Pin) Pinned() bool {
	pin.mu.Lock()
	defer pin.mu.Unlock()
	return pin.pinned
}

// Toggle flips the flag, persists it and notifies listeners.
func (pin *Pin) Toggle() bool {
	pin.mu.Lock()
	pinned := !pin.pinned
	pin.mu.Unlock()

	pin.Set(pinned)
	return pinned
}

// Set stores the flag. Listeners run only when the value changes.
func (pin *Pin) Set(pinned bool) {
	pin.mu.Lock()
	if pin.pinned == pinned {
		pin.mu.Unlock()
		return
	}
	pin.pinned = pinned
	if pin.store != nil {
		pin.store.SavePinned(pinned)
	}
	listeners := append(([]func(bool))(nil), pin.listeners...)
	pin.mu.Unlock()

	for _, listener := range listeners {
		listener(pinned)
	}
}

// OnToggle registers a listener for pin changes.
func (pin *Pin) OnToggle(listener func(bool)) {
	if listener == nil {
		return
	}
	pin.mu.Lock()
	defer pin.mu.Unlock()
	pin.listeners = append(pin.listeners, listener)
}
