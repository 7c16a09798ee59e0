//go:build !windows

package clockface

import "fyne.io/fyne/v2"

// Fyne exposes no window placement API outside the Windows HWND, so the
// window manager owns the frame and position here.
const nativePlacement = false

func newPlacer(fyne.Window) placer {
	return unsupportedPlacer{}
}
