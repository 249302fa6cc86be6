package decomp

import "github.com/meshforge/convdec/internal/scene"

// SelectionGuard captures the host selection and active object so they
// can be restored no matter how the guarded code exits. Release is
// meant to run under defer, covering the error paths too.
type SelectionGuard struct {
	host     Host
	selected []*scene.Object
	active   *scene.Object
}

// NewSelectionGuard captures the current selection state. With clear
// set, the selection is emptied after capture.
func NewSelectionGuard(host Host, clear bool) *SelectionGuard {
	g := &SelectionGuard{
		host:     host,
		selected: host.SelectedObjects(),
		active:   host.ActiveObject(),
	}
	if clear {
		host.SetSelection(nil)
	}
	return g
}

// Release restores the captured selection and active object. Objects
// that have since left the scene are silently dropped by the host.
func (g *SelectionGuard) Release() {
	g.host.SetSelection(g.selected)
	g.host.SetActiveObject(g.active)
}
