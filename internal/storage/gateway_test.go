package storage

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"pinwatch/internal/core/model"
	"pinwatch/internal/logging"

	"github.com/stretchr/testify/require"
)

type failingStore struct {
	loadErr error
	saveErr error
}

func (store failingStore) Load(context.Context, string) ([]byte, bool, error) {
	return nil, false, store.loadErr
}

func (store failingStore) Save(context.Context, string, []byte) error { return store.saveErr }

func (store failingStore) Close() error { return nil }

func TestGatewayAbsentKeysUseDefaults(t *testing.T) {
	gateway := NewGateway(NewMemoryStore(), logging.Discard())

	state, ok := gateway.LoadTimerState()
	require.False(t, ok)
	require.Equal(t, model.TimerState{}, state)

	_, ok = gateway.LoadWindowPosition()
	require.False(t, ok)
	require.False(t, gateway.LoadPinned())
}

func TestGatewayRoundTrip(t *testing.T) {
	gateway := NewGateway(NewMemoryStore(), logging.Discard())

	gateway.SaveTimerState(model.TimerState{Elapsed: 3723, Running: true})
	gateway.SaveWindowPosition(model.WindowPosition{X: 640, Y: 12})
	gateway.SavePinned(true)

	state, ok := gateway.LoadTimerState()
	require.True(t, ok)
	require.Equal(t, model.TimerState{Elapsed: 3723, Running: true}, state)

	position, ok := gateway.LoadWindowPosition()
	require.True(t, ok)
	require.Equal(t, model.WindowPosition{X: 640, Y: 12}, position)

	require.True(t, gateway.LoadPinned())
}

func TestGatewayLastWriteWins(t *testing.T) {
	gateway := NewGateway(NewMemoryStore(), logging.Discard())
	for i := int64(0); i <= 10; i++ {
		gateway.SaveTimerState(model.TimerState{Elapsed: i, Running: i%2 == 0})
	}

	state, ok := gateway.LoadTimerState()
	require.True(t, ok)
	require.Equal(t, model.TimerState{Elapsed: 10, Running: true}, state)
}

func TestGatewayUsesCanonicalKeys(t *testing.T) {
	store := NewMemoryStore()
	gateway := NewGateway(store, logging.Discard())
	gateway.SavePinned(true)
	gateway.SaveTimerState(model.TimerState{Elapsed: 9})
	gateway.SaveWindowPosition(model.WindowPosition{X: 1, Y: 2})

	ctx := context.Background()
	for _, key := range []string{"alwaysOnTop", "timerState", "windowPosition"} {
		_, ok, err := store.Load(ctx, key)
		require.NoError(t, err)
		require.True(t, ok, key)
	}
	_, ok, err := store.Load(ctx, "isAlwaysOnTop")
	require.NoError(t, err)
	require.False(t, ok)

	raw, _, err := store.Load(ctx, "timerState")
	require.NoError(t, err)
	require.Equal(t, "time: 9\nisRunning: false\n", string(raw))
}

func TestGatewayLoadFailureDegradesToDefaults(t *testing.T) {
	var buffer bytes.Buffer
	gateway := NewGateway(failingStore{loadErr: errors.New("disk gone")}, logging.New(&buffer, "debug", "text"))

	state, ok := gateway.LoadTimerState()
	require.False(t, ok)
	require.Equal(t, model.TimerState{}, state)
	require.False(t, gateway.LoadPinned())
	require.Contains(t, buffer.String(), "disk gone")
}

func TestGatewaySaveFailureIsLogged(t *testing.T) {
	var buffer bytes.Buffer
	gateway := NewGateway(failingStore{saveErr: errors.New("read-only")}, logging.New(&buffer, "info", "text"))

	require.NotPanics(t, func() {
		gateway.SaveTimerState(model.TimerState{Elapsed: 1})
	})
	require.Contains(t, buffer.String(), "read-only")
	require.Contains(t, buffer.String(), "key=timerState")
}

func TestGatewayCorruptValueReadsAsAbsent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "timerState", []byte("time: [nope")))
	require.NoError(t, store.Save(ctx, "windowPosition", []byte("[1, 2, 3]")))
	require.NoError(t, store.Save(ctx, "alwaysOnTop", []byte("")))

	gateway := NewGateway(store, logging.Discard())
	_, ok := gateway.LoadTimerState()
	require.False(t, ok)
	_, ok = gateway.LoadWindowPosition()
	require.False(t, ok)
	require.False(t, gateway.LoadPinned())
}

func TestGatewayClampsNegativeElapsed(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), "timerState", []byte("time: -4\nisRunning: true\n")))

	state, ok := NewGateway(store, logging.Discard()).LoadTimerState()
	require.True(t, ok)
	require.Equal(t, model.TimerState{Elapsed: 0, Running: true}, state)
}
