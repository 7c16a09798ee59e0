package stopwatch

import (
	"fmt"
	"sync"
	"time"

	"pinwatch/internal/core/model"

	"github.com/jonboulle/clockwork"
)

// StateStore persists timer snapshots.
type StateStore interface {
	LoadTimerState() (model.TimerState, bool)
	SaveTimerState(state model.TimerState)
}

// Config contains runtime options for Engine.
type Config struct {
	TickInterval time.Duration
	Clock        clockwork.Clock
}

// Engine is the stopwatch state machine. Every mutation is persisted
// through the StateStore before the lock is released.
type Engine struct {
	mu      sync.Mutex
	options Config
	store   StateStore
	state   State
	elapsed int64
	ticker  clockwork.Ticker
	stopCh  chan struct{}
	events  []chan Event
	closed  bool
}

// New creates a stopped Engine. Call Restore to seed it from the store.
func New(store StateStore, options Config) *Engine {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.Clock == nil {
		options.Clock = clockwork.NewRealClock()
	}

	return &Engine{
		options: options,
		store:   store,
		state:   StateStopped,
	}
}

// Restore loads the persisted snapshot. A running snapshot resumes ticking.
func (engine *Engine) Restore() model.TimerState {
	var (
		saved model.TimerState
		ok    bool
	)
	if engine.store != nil {
		saved, ok = engine.store.LoadTimerState()
	}
	if !ok {
		saved = model.TimerState{}
	}
	saved = saved.Normalize()

	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		return engine.snapshotLocked()
	}
	engine.stopTickingLocked()
	engine.elapsed = saved.Elapsed
	engine.state = StateStopped
	if saved.Running {
		engine.state = StateRunning
		engine.startTickingLocked()
	}
	engine.emitLocked(engine.eventLocked(EventStateChange))
	return engine.snapshotLocked()
}

// Subscribe registers a new observer channel.
func (engine *Engine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		close(ch)
		return ch
	}
	engine.events = append(engine.events, ch)
	return ch
}

// Start begins counting. It is a no-op while running.
func (engine *Engine) Start() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.startLocked()
}

// Stop pauses counting. It is a no-op while stopped.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.stopLocked()
}

// Toggle starts a stopped engine and stops a running one.
func (engine *Engine) Toggle() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.state == StateRunning {
		engine.stopLocked()
		return
	}
	engine.startLocked()
}

// Reset stops the engine and clears the elapsed time.
func (engine *Engine) Reset() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		return
	}
	engine.stopTickingLocked()
	engine.state = StateStopped
	engine.elapsed = 0
	engine.commitLocked(EventStateChange)
}

// Snapshot returns the current timer state.
func (engine *Engine) Snapshot() model.TimerState {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.snapshotLocked()
}

// State returns the current mode.
func (engine *Engine) State() State {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.state
}

// Close terminates the tick loop and closes observers. The persisted
// snapshot is left as is so a running timer resumes on the next launch.
func (engine *Engine) Close() {
	engine.mu.Lock()
	if engine.closed {
		engine.mu.Unlock()
		return
	}
	engine.closed = true
	engine.stopTickingLocked()
	events := engine.events
	engine.events = nil
	engine.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (engine *Engine) startLocked() {
	if engine.closed || engine.state == StateRunning {
		return
	}
	engine.state = StateRunning
	engine.startTickingLocked()
	engine.commitLocked(EventStateChange)
}

func (engine *Engine) stopLocked() {
	if engine.closed || engine.state == StateStopped {
		return
	}
	engine.stopTickingLocked()
	engine.state = StateStopped
	engine.commitLocked(EventStateChange)
}

func (engine *Engine) startTickingLocked() {
	stopCh := make(chan struct{})
	ticker := engine.options.Clock.NewTicker(engine.options.TickInterval)
	engine.stopCh = stopCh
	engine.ticker = ticker
	go engine.run(ticker, stopCh)
}

func (engine *Engine) stopTickingLocked() {
	if engine.stopCh == nil {
		return
	}
	close(engine.stopCh)
	engine.ticker.Stop()
	engine.stopCh = nil
	engine.ticker = nil
}

func (engine *Engine) run(ticker clockwork.Ticker, stopCh chan struct{}) {
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.Chan():
			engine.tick(stopCh)
		}
	}
}

func (engine *Engine) tick(stopCh chan struct{}) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	// A tick from a cancelled period must not count.
	if engine.state != StateRunning || engine.stopCh != stopCh {
		return
	}
	engine.elapsed++
	engine.commitLocked(EventTick)
}

func (engine *Engine) commitLocked(eventType EventType) {
	if engine.store != nil {
		engine.store.SaveTimerState(engine.snapshotLocked())
	}
	engine.emitLocked(engine.eventLocked(eventType))
}

func (engine *Engine) snapshotLocked() model.TimerState {
	return model.TimerState{
		Elapsed: engine.elapsed,
		Running: engine.state == StateRunning,
	}
}

func (engine *Engine) eventLocked(eventType EventType) Event {
	return Event{
		Type:    eventType,
		State:   engine.state,
		Elapsed: engine.elapsed,
		At:      engine.options.Clock.Now(),
	}
}

func (engine *Engine) emitLocked(event Event) {
	for _, ch := range engine.events {
		select {
		case ch <- event:
		default:
		}
	}
}

// Format renders elapsed seconds as HH:MM:SS.
func Format(elapsed int64) string {
	if elapsed < 0 {
		elapsed = 0
	}
	hours := elapsed / 3600
	minutes := (elapsed % 3600) / 60
	seconds := elapsed % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
