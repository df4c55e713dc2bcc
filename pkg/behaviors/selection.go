package behaviors

import (
	"github.com/elix-dev/elix/pkg/behavior"
	"github.com/elix-dev/elix/pkg/state"
)

// EventSelectedIndexChanged is emitted when the user changes the selection.
// Its detail is the new index.
const EventSelectedIndexChanged = "selected-index-changed"

// SingleSelection tracks a single selected item by index.
//
// The selected index is kept within range whenever the items or the index
// change: it is clamped to the last item, forced to 0 when a selection is
// required, and -1 when there are no items. Arrow keys, Home and End move
// the selection.
type SingleSelection struct {
	// Required makes the initial selectionRequired true.
	Required bool

	// Wraps makes the initial selectionWraps true.
	Wraps bool
}

// NewSingleSelection returns a SingleSelection.
func NewSingleSelection() *SingleSelection { return &SingleSelection{} }

// Name implements behavior.Behavior.
func (*SingleSelection) Name() string { return "single-selection" }

// DefaultState implements behavior.DefaultStater.
func (b *SingleSelection) DefaultState(next func() state.Patch) state.Patch {
	p := next()
	p[KeySelectedIndex] = -1
	p[KeySelectionRequired] = b.Required
	p[KeySelectionWraps] = b.Wraps
	return p
}

// Handlers implements behavior.HandlerProvider.
func (*SingleSelection) Handlers(next func() []state.Handler) []state.Handler {
	return append(next(), state.Handler{
		Name:  "single-selection",
		Watch: []string{KeyItems, KeySelectedIndex, KeySelectionRequired},
		Fn: func(s state.State) state.Patch {
			index := SelectedIndex(s)
			clamped := clampIndex(index, len(Items(s)), boolValue(s, KeySelectionRequired))
			if clamped == index {
				return nil
			}
			return state.Patch{KeySelectedIndex: clamped}
		},
	})
}

func clampIndex(index, count int, required bool) int {
	switch {
	case count == 0:
		return -1
	case index >= count:
		return count - 1
	case index < 0 && required:
		return 0
	case index < -1:
		return -1
	}
	return index
}

// HandleEvent implements behavior.EventHandler.
func (b *SingleSelection) HandleEvent(h behavior.Host, e behavior.Event, next func() bool) bool {
	if e.Type != "keydown" {
		return next()
	}
	var handled bool
	switch e.Key {
	case "ArrowDown", "ArrowRight":
		handled = b.SelectNext(h)
	case "ArrowUp", "ArrowLeft":
		handled = b.SelectPrevious(h)
	case "Home":
		handled = b.SelectFirst(h)
	case "End":
		handled = b.SelectLast(h)
	}
	return handled || next()
}

// DidUpdate implements behavior.Updater.
func (*SingleSelection) DidUpdate(h behavior.Host, u behavior.Update, next func()) {
	next()
	if u.RaiseChangeEvents && u.Has(KeySelectedIndex) {
		h.Emit(EventSelectedIndexChanged, SelectedIndex(h.State()))
	}
}

// Select sets the selected index and reports whether it changed.
// Out-of-range indexes are clamped.
func (*SingleSelection) Select(h behavior.Host, index int) bool {
	before := SelectedIndex(h.State())
	if err := h.SetState(state.Patch{KeySelectedIndex: index}); err != nil {
		return false
	}
	return SelectedIndex(h.State()) != before
}

// SelectFirst selects the first item.
func (b *SingleSelection) SelectFirst(h behavior.Host) bool {
	return b.Select(h, 0)
}

// SelectLast selects the last item.
func (b *SingleSelection) SelectLast(h behavior.Host) bool {
	return b.Select(h, len(Items(h.State()))-1)
}

// SelectNext selects the item after the current one, wrapping to the first
// when selectionWraps is set.
func (b *SingleSelection) SelectNext(h behavior.Host) bool {
	s := h.State()
	count := len(Items(s))
	index := SelectedIndex(s) + 1
	if index >= count && boolValue(s, KeySelectionWraps) {
		index = 0
	}
	return b.Select(h, index)
}

// SelectPrevious selects the item before the current one. With no
// selection it selects the last item. It wraps to the last item when
// selectionWraps is set.
func (b *SingleSelection) SelectPrevious(h behavior.Host) bool {
	s := h.State()
	count := len(Items(s))
	index := SelectedIndex(s)
	switch {
	case index < 0:
		index = count - 1
	case index == 0 && boolValue(s, KeySelectionWraps):
		index = count - 1
	default:
		index--
	}
	if index < 0 {
		return false
	}
	return b.Select(h, index)
}
