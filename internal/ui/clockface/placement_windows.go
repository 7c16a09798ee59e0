//go:build windows

package clockface

import (
	"syscall"
	"unsafe"

	"pinwatch/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver"
)

const nativePlacement = true

const (
	swpNoSize     = 0x0001
	swpNoMove     = 0x0002
	swpNoZOrder   = 0x0004
	swpNoActivate = 0x0010
)

var (
	hwndTopmost   = ^uintptr(0) // HWND_TOPMOST (-1)
	hwndNoTopmost = ^uintptr(1) // HWND_NOTOPMOST (-2)
)

var (
	user32DLL         = syscall.NewLazyDLL("user32.dll")
	procGetWindowRect = user32DLL.NewProc("GetWindowRect")
	procSetWindowPos  = user32DLL.NewProc("SetWindowPos")
)

type windowRect struct {
	Left   int32
	Top    int32
	Right  int32
	Bottom int32
}

type hwndPlacer struct {
	window fyne.Window
}

func newPlacer(window fyne.Window) placer {
	if _, ok := window.(driver.NativeWindow); !ok {
		return unsupportedPlacer{}
	}
	return &hwndPlacer{window: window}
}

func (placement *hwndPlacer) Position() (model.WindowPosition, bool) {
	var (
		position model.WindowPosition
		ok       bool
	)
	placement.withHWND(func(hwnd uintptr) {
		var rect windowRect
		result, _, _ := procGetWindowRect.Call(hwnd, uintptr(unsafe.Pointer(&rect)))
		if result == 0 {
			return
		}
		position = model.WindowPosition{X: int(rect.Left), Y: int(rect.Top)}
		ok = true
	})
	return position, ok
}

func (placement *hwndPlacer) Move(position model.WindowPosition) bool {
	moved := false
	placement.withHWND(func(hwnd uintptr) {
		result, _, _ := procSetWindowPos.Call(
			hwnd,
			0,
			intToUintptr(position.X),
			intToUintptr(position.Y),
			0,
			0,
			swpNoSize|swpNoZOrder|swpNoActivate,
		)
		moved = result != 0
	})
	return moved
}

func (placement *hwndPlacer) SetAlwaysOnTop(pinned bool) bool {
	insertAfter := hwndNoTopmost
	if pinned {
		insertAfter = hwndTopmost
	}
	applied := false
	placement.withHWND(func(hwnd uintptr) {
		result, _, _ := procSetWindowPos.Call(hwnd, insertAfter, 0, 0, 0, 0, swpNoMove|swpNoSize|swpNoActivate)
		applied = result != 0
	})
	return applied
}

func (placement *hwndPlacer) withHWND(fn func(hwnd uintptr)) {
	nativeWindow, ok := placement.window.(driver.NativeWindow)
	if !ok {
		return
	}

	nativeWindow.RunNative(func(context any) {
		var hwnd uintptr
		switch value := context.(type) {
		case driver.WindowsWindowContext:
			hwnd = value.HWND
		case *driver.WindowsWindowContext:
			hwnd = value.HWND
		default:
			return
		}
		if hwnd == 0 {
			return
		}
		fn(hwnd)
	})
}

func intToUintptr(value int) uintptr {
	return uintptr(uint32(int32(value)))
}
