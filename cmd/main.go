package main

import (
	"log/slog"
	"os"
	"time"

	"pinwatch/internal/config"
	"pinwatch/internal/core/model"
	"pinwatch/internal/core/pin"
	"pinwatch/internal/core/stopwatch"
	"pinwatch/internal/logging"
	"pinwatch/internal/platform"
	"pinwatch/internal/storage"
	"pinwatch/internal/ui/clockface"
	"pinwatch/internal/ui/tray"
	"pinwatch/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
)

const appName = "PinWatch"

func main() {
	logger := logging.New(os.Stderr, "info", "text")

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		logger.Info("single instance", "error", err)
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	cfg := config.Default()
	dir, err := platform.ConfigDir(appName)
	if err != nil {
		logger.Warn("no config directory, keeping state in memory", "error", err)
		cfg.Storage.Backend = config.BackendMemory
	} else {
		cfg, err = config.Load(dir)
		if err != nil {
			logger.Warn("load config, using defaults", "error", err)
		}
	}
	logger = logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	fyneApp := app.NewWithID("com.pinwatch.app")
	fyneApp.SetIcon(resources.MustLogo(resources.LogoApp))

	store, err := storage.Open(cfg, dir, fyneApp.Preferences())
	if err != nil {
		logger.Error("open store, keeping state in memory", "backend", cfg.Storage.Backend, "error", err)
		store = storage.NewMemoryStore()
	}
	gateway := storage.NewGateway(store, logger.With("component", "storage"))
	defer func() {
		if err := gateway.Close(); err != nil {
			logger.Warn("close store", "error", err)
		}
	}()

	engine := stopwatch.New(gateway, stopwatch.Config{TickInterval: time.Second})
	defer engine.Close()
	pinState := pin.New(gateway)

	face := clockface.New(fyneApp, clockface.Config{
		Title: appName,
		Size:  fyne.NewSize(float32(cfg.Window.Width), float32(cfg.Window.Height)),
	}, engine, pinState, gateway, logger.With("component", "window"))

	desktopApp, hasTray := fyneApp.(desktop.App)
	if !hasTray {
		logger.Info("system tray unsupported on this platform")
	}

	trayManager := tray.New(desktopApp, tray.Callbacks{
		OnShow:            face.Show,
		OnToggleStartStop: face.ToggleStartStop,
		OnReset:           face.Reset,
		OnTogglePin:       face.TogglePin,
		OnQuit: func() {
			face.Hide()
			fyneApp.Quit()
		},
	})
	trayManager.SetPinned(pinState.Pinned())
	pinState.OnToggle(func(pinned bool) {
		logger.Debug("pin toggled", "alwaysOnTop", pinned)
		trayManager.SetPinned(pinned)
	})

	runningIcon := resources.MustLogo(resources.LogoRunning)
	stoppedIcon := resources.MustLogo(resources.LogoStopped)
	lastRunning := false
	if desktopApp != nil {
		desktopApp.SetSystemTrayIcon(stoppedIcon)
	}
	face.SetOnStateChange(func(state model.TimerState) {
		trayManager.SetElapsed(stopwatch.Format(state.Elapsed))
		trayManager.SetRunning(state.Running)
		if desktopApp != nil && state.Running != lastRunning {
			if state.Running {
				desktopApp.SetSystemTrayIcon(runningIcon)
			} else {
				desktopApp.SetSystemTrayIcon(stoppedIcon)
			}
		}
		lastRunning = state.Running
	})

	face.SetOnClose(func() {
		if hasTray {
			face.Hide()
			return
		}
		fyneApp.Quit()
	})

	face.Watch(engine.Subscribe(16))
	restored := engine.Restore()
	logger.Info("timer restored", "elapsed", restored.Elapsed, "running", restored.Running, "backend", cfg.Storage.Backend)

	face.Show()
	fyneApp.Run()
}
