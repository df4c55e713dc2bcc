package behaviors

import (
	"github.com/elix-dev/elix/pkg/behavior"
	"github.com/elix-dev/elix/pkg/state"
)

// TapSelection selects the item the user presses with the primary mouse
// button. Presses with other buttons, or outside any item, are passed on.
type TapSelection struct{}

// NewTapSelection returns a TapSelection.
func NewTapSelection() *TapSelection { return &TapSelection{} }

// Name implements behavior.Behavior.
func (*TapSelection) Name() string { return "tap-selection" }

// HandleEvent implements behavior.EventHandler.
func (*TapSelection) HandleEvent(h behavior.Host, e behavior.Event, next func() bool) bool {
	if e.Type != "mousedown" || e.Button != 0 {
		return next()
	}
	if e.Index < 0 || e.Index >= len(Items(h.State())) {
		return next()
	}
	if err := h.SetState(state.Patch{KeySelectedIndex: e.Index}); err != nil {
		return false
	}
	return true
}
