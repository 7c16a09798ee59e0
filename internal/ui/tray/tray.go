package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow            func()
	OnToggleStartStop func()
	OnReset           func()
	OnTogglePin       func()
	OnQuit            func()
}

// Manager handles system tray state.
type Manager struct {
	app        desktop.App
	callbacks  Callbacks
	statusItem *fyne.MenuItem
	showItem   *fyne.MenuItem
	toggleItem *fyne.MenuItem
	resetItem  *fyne.MenuItem
	pinItem    *fyne.MenuItem
	quitItem   *fyne.MenuItem
	running    bool
	elapsed    string
}

// New creates a tray manager. app may be nil when the platform has no tray.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
		elapsed:   "00:00:00",
	}

	manager.statusItem = fyne.NewMenuItem("", nil)
	manager.statusItem.Disabled = true
	manager.showItem = fyne.NewMenuItem("Show", invoke(&manager.callbacks.OnShow))
	manager.toggleItem = fyne.NewMenuItem("Start", invoke(&manager.callbacks.OnToggleStartStop))
	manager.resetItem = fyne.NewMenuItem("Reset", invoke(&manager.callbacks.OnReset))
	manager.pinItem = fyne.NewMenuItem("Always on top", invoke(&manager.callbacks.OnTogglePin))
	manager.quitItem = fyne.NewMenuItem("Quit", invoke(&manager.callbacks.OnQuit))
	manager.quitItem.IsQuit = true

	manager.refreshStatus()
	manager.refreshMenu()
	return manager
}

// SetElapsed updates the status line.
func (manager *Manager) SetElapsed(elapsed string) {
	if manager.elapsed == elapsed {
		return
	}
	manager.elapsed = elapsed
	manager.refreshStatus()
	manager.refreshMenu()
}

// SetRunning switches the start/stop label.
func (manager *Manager) SetRunning(running bool) {
	if manager.running == running {
		return
	}
	manager.running = running
	if running {
		manager.toggleItem.Label = "Stop"
	} else {
		manager.toggleItem.Label = "Start"
	}
	manager.refreshStatus()
	manager.refreshMenu()
}

// SetPinned checks or unchecks the always-on-top item.
func (manager *Manager) SetPinned(pinned bool) {
	manager.pinItem.Checked = pinned
	manager.refreshMenu()
}

func (manager *Manager) refreshStatus() {
	status := manager.elapsed
	if !manager.running {
		status = fmt.Sprintf("%s (stopped)", status)
	}
	manager.statusItem.Label = fmt.Sprintf("Elapsed: %s", status)
}

func (manager *Manager) menu() *fyne.Menu {
	return fyne.NewMenu("PinWatch",
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		manager.showItem,
		manager.toggleItem,
		manager.resetItem,
		manager.pinItem,
		fyne.NewMenuItemSeparator(),
		manager.quitItem,
	)
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(manager.menu())
	}
}

func invoke(handler *func()) func() {
	return func() {
		if *handler != nil {
			(*handler)()
		}
	}
}
