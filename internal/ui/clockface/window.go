package clockface

import (
	"image/color"
	"log/slog"

	"pinwatch/internal/core/model"
	"pinwatch/internal/core/pin"
	"pinwatch/internal/core/stopwatch"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Timer is the stopwatch surface the window drives.
type Timer interface {
	Toggle()
	Reset()
	Snapshot() model.TimerState
}

// PositionStore persists the window position.
type PositionStore interface {
	LoadWindowPosition() (model.WindowPosition, bool)
	SaveWindowPosition(position model.WindowPosition)
}

// Config defines clock face visuals.
type Config struct {
	Title string
	Size  fyne.Size
}

// Window is the borderless stopwatch window.
type Window struct {
	window    fyne.Window
	timer     Timer
	pin       *pin.Pin
	positions PositionStore
	logger    *slog.Logger
	placer    placer

	timeLabel       *canvas.Text
	startStopButton *widget.Button
	resetButton     *widget.Button
	pinButton       *widget.Button

	position      model.WindowPosition
	havePosition  bool
	onClose       func()
	onStateChange func(model.TimerState)
}

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// New creates the clock face. Call Show to display it.
func New(app fyne.App, config Config, timer Timer, pinState *pin.Pin, positions PositionStore, logger *slog.Logger) *Window {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Title == "" {
		config.Title = "PinWatch"
	}
	if config.Size.Width <= 0 || config.Size.Height <= 0 {
		config.Size = fyne.NewSize(300, 200)
	}

	window := newWindow(app, config.Title, nativePlacement)
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}
	window.SetPadded(false)
	window.SetFixedSize(true)

	timeLabel := canvas.NewText(stopwatch.Format(0), color.NRGBA{R: 232, G: 190, B: 66, A: 255})
	timeLabel.Alignment = fyne.TextAlignCenter
	timeLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	timeLabel.TextSize = 36

	face := &Window{
		window:    window,
		timer:     timer,
		pin:       pinState,
		positions: positions,
		logger:    logger,
		timeLabel: timeLabel,
	}
	face.placer = newPlacer(window)

	face.startStopButton = widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), face.ToggleStartStop)
	face.resetButton = widget.NewButtonWithIcon("Reset", theme.MediaReplayIcon(), face.Reset)
	face.pinButton = widget.NewButtonWithIcon("Pin", theme.VisibilityIcon(), face.TogglePin)
	closeButton := widget.NewButtonWithIcon("", theme.CancelIcon(), face.close)
	closeButton.Importance = widget.LowImportance

	handle := newDragHandle(container.NewCenter(timeLabel), face.dragged, face.dragEnded)
	buttons := container.NewGridWithColumns(3, face.startStopButton, face.resetButton, face.pinButton)
	top := container.NewHBox(layout.NewSpacer(), closeButton)
	window.SetContent(container.NewBorder(top, buttons, nil, nil, handle))
	window.Resize(config.Size)

	window.SetCloseIntercept(face.close)

	if pinState != nil {
		pinState.OnToggle(face.applyPin)
	}
	face.renderPin(face.pinned())
	face.render(timer.Snapshot())
	return face
}

// newWindow creates a borderless splash window when the window can still be
// moved natively. Elsewhere the window keeps its frame so the window manager
// can move it.
func newWindow(app fyne.App, title string, borderless bool) fyne.Window {
	if borderless {
		if driver, ok := app.Driver().(splashWindowDriver); ok {
			return driver.CreateSplashWindow()
		}
	}
	return app.NewWindow(title)
}

// SetOnClose replaces the default close behaviour.
func (face *Window) SetOnClose(handler func()) {
	face.onClose = handler
}

// SetOnStateChange registers a callback run after each rendered timer update.
func (face *Window) SetOnStateChange(handler func(model.TimerState)) {
	face.onStateChange = handler
}

// Show displays the window and applies the persisted position and pin state.
func (face *Window) Show() {
	face.window.Show()

	if face.positions != nil {
		if position, ok := face.positions.LoadWindowPosition(); ok {
			if face.placer.Move(position) {
				face.position = position
				face.havePosition = true
			} else {
				face.logger.Debug("window placement unsupported", "x", position.X, "y", position.Y)
			}
		}
	}
	face.applyPin(face.pinned())
	face.window.RequestFocus()
}

// Hide hides the window without quitting.
func (face *Window) Hide() {
	face.savePosition()
	face.window.Hide()
}

// ToggleStartStop starts or stops the timer.
func (face *Window) ToggleStartStop() {
	face.timer.Toggle()
	face.render(face.timer.Snapshot())
}

// Reset stops the timer and clears it.
func (face *Window) Reset() {
	face.timer.Reset()
	face.render(face.timer.Snapshot())
}

// TogglePin flips always-on-top.
func (face *Window) TogglePin() {
	if face.pin == nil {
		return
	}
	face.pin.Toggle()
}

// Watch applies engine events on the UI thread until events is closed.
// The returned channel is closed once the last event has been handed off.
func (face *Window) Watch(events <-chan stopwatch.Event) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range events {
			state := model.TimerState{
				Elapsed: event.Elapsed,
				Running: event.State == stopwatch.StateRunning,
			}
			fyne.Do(func() {
				face.render(state)
			})
		}
	}()
	return done
}

func (face *Window) close() {
	face.savePosition()
	if face.onClose != nil {
		face.onClose()
		return
	}
	face.window.Close()
}

func (face *Window) render(state model.TimerState) {
	face.timeLabel.Text = stopwatch.Format(state.Elapsed)
	face.timeLabel.Refresh()

	if state.Running {
		face.startStopButton.SetText("Stop")
		face.startStopButton.SetIcon(theme.MediaPauseIcon())
	} else {
		face.startStopButton.SetText("Start")
		face.startStopButton.SetIcon(theme.MediaPlayIcon())
	}

	if face.onStateChange != nil {
		face.onStateChange(state)
	}
}

func (face *Window) applyPin(pinned bool) {
	if !face.placer.SetAlwaysOnTop(pinned) && pinned {
		face.logger.Debug("always on top unsupported on this platform")
	}
	face.renderPin(pinned)
}

func (face *Window) renderPin(pinned bool) {
	if pinned {
		face.pinButton.SetText("Unpin")
		face.pinButton.Importance = widget.HighImportance
	} else {
		face.pinButton.SetText("Pin")
		face.pinButton.Importance = widget.MediumImportance
	}
	face.pinButton.Refresh()
}

func (face *Window) pinned() bool {
	return face.pin != nil && face.pin.Pinned()
}

func (face *Window) dragged(delta fyne.Delta) {
	if !face.havePosition {
		position, ok := face.placer.Position()
		if !ok {
			return
		}
		face.position = position
		face.havePosition = true
	}

	scale := face.window.Canvas().Scale()
	next := model.WindowPosition{
		X: face.position.X + int(delta.DX*scale),
		Y: face.position.Y + int(delta.DY*scale),
	}
	if face.placer.Move(next) {
		face.position = next
	}
}

func (face *Window) dragEnded() {
	face.savePosition()
}

func (face *Window) savePosition() {
	if face.positions == nil {
		return
	}
	position, ok := face.placer.Position()
	if !ok {
		return
	}
	face.position = position
	face.havePosition = true
	face.positions.SaveWindowPosition(position)
}
