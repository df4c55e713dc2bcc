package behaviors

import (
	"github.com/elix-dev/elix/pkg/behavior"
	"github.com/elix-dev/elix/pkg/props"
	"github.com/elix-dev/elix/pkg/state"
)

// EventOpenedChanged is emitted when the user opens or closes the element.
// Its detail is the new opened value.
const EventOpenedChanged = "opened-changed"

// OpenClose tracks whether the element is open. The host node gets the
// "opened" class while open, and Escape closes it.
type OpenClose struct {
	// Opened is the initial state.
	Opened bool
}

// NewOpenClose returns an OpenClose that starts closed.
func NewOpenClose() *OpenClose { return &OpenClose{} }

// Name implements behavior.Behavior.
func (*OpenClose) Name() string { return "open-close" }

// DefaultState implements behavior.DefaultStater.
func (b *OpenClose) DefaultState(next func() state.Patch) state.Patch {
	p := next()
	p[KeyOpened] = b.Opened
	return p
}

// Props implements behavior.PropsContributor.
func (*OpenClose) Props(s state.State, next func() props.Props) props.Props {
	opened := Opened(s)
	return props.Merge(next(), props.Props{
		Classes:    map[string]bool{"opened": opened},
		Attributes: map[string]any{"aria-expanded": boolString(opened)},
	})
}

// HandleEvent implements behavior.EventHandler.
func (b *OpenClose) HandleEvent(h behavior.Host, e behavior.Event, next func() bool) bool {
	if e.Type == "keydown" && e.Key == "Escape" && Opened(h.State()) {
		return b.Close(h) == nil
	}
	return next()
}

// DidUpdate implements behavior.Updater.
func (*OpenClose) DidUpdate(h behavior.Host, u behavior.Update, next func()) {
	next()
	if u.RaiseChangeEvents && u.Has(KeyOpened) {
		h.Emit(EventOpenedChanged, Opened(h.State()))
	}
}

// Open opens the element.
func (*OpenClose) Open(h behavior.Host) error {
	return h.SetState(state.Patch{KeyOpened: true})
}

// Close closes the element.
func (*OpenClose) Close(h behavior.Host) error {
	return h.SetState(state.Patch{KeyOpened: false})
}

// Toggle flips the opened state.
func (*OpenClose) Toggle(h behavior.Host) error {
	return h.SetState(state.Patch{KeyOpened: !Opened(h.State())})
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
