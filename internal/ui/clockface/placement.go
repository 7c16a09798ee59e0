package clockface

import "pinwatch/internal/core/model"

// placer reads and changes the native window placement. Every method
// reports false when the platform cannot do it.
type placer interface {
	Position() (model.WindowPosition, bool)
	Move(position model.WindowPosition) bool
	SetAlwaysOnTop(pinned bool) bool
}

type unsupportedPlacer struct{}

func (unsupportedPlacer) Position() (model.WindowPosition, bool) {
	return model.WindowPosition{}, false
}

func (unsupportedPlacer) Move(model.WindowPosition) bool { return false }

func (unsupportedPlacer) SetAlwaysOnTop(bool) bool { return false }
