package clockface

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// dragHandle turns pointer drags on its content into window moves.
type dragHandle struct {
	widget.BaseWidget
	content fyne.CanvasObject
	onDrag  func(fyne.Delta)
	onEnd   func()
}

var _ fyne.Draggable = (*dragHandle)(nil)

func newDragHandle(content fyne.CanvasObject, onDrag func(fyne.Delta), onEnd func()) *dragHandle {
	handle := &dragHandle{content: content, onDrag: onDrag, onEnd: onEnd}
	handle.ExtendBaseWidget(handle)
	return handle
}

func (handle *dragHandle) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(handle.content)
}

func (handle *dragHandle) Dragged(event *fyne.DragEvent) {
	if handle.onDrag != nil {
		handle.onDrag(event.Dragged)
	}
}

func (handle *dragHandle) DragEnd() {
	if handle.onEnd != nil {
		handle.onEnd()
	}
}
