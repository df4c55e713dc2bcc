// Package behavior composes element behaviors into an explicit chain.
//
// A Behavior is a named value that implements any subset of the capability
// interfaces in this package. Compose puts behaviors in a fixed order,
// outermost first. When the chain runs a capability it calls the outermost
// behavior that implements it, handing it a next function that continues with
// the following behavior inward. A behavior that lacks a capability is
// skipped for that capability only. The walk ends at a base value: an empty
// state, no handlers, empty props, an empty template, an unhandled event.
//
// Outer behaviors therefore decide whether, when and how to consult inner
// ones, and override them by merging their own results over next().
package behavior

import (
	"slices"
	"time"

	"github.com/elix-dev/elix/pkg/dom"
	"github.com/elix-dev/elix/pkg/props"
	"github.com/elix-dev/elix/pkg/state"
	"github.com/elix-dev/elix/pkg/template"
)

// Behavior is a named unit of element functionality.
type Behavior interface {
	Name() string
}

// DefaultStater contributes initial state.
type DefaultStater interface {
	DefaultState(next func() state.Patch) state.Patch
}

// HandlerProvider contributes state change handlers.
type HandlerProvider interface {
	Handlers(next func() []state.Handler) []state.Handler
}

// PropsContributor maps state to props for the host node and its parts.
type PropsContributor interface {
	Props(s state.State, next func() props.Props) props.Props
}

// Templater builds the element's template. The returned template belongs to
// the caller, who may modify it.
type Templater interface {
	Template(next func() (*template.Template, error)) (*template.Template, error)
}

// EventHandler reacts to input events. It reports whether the event was
// handled; returning next() passes it inward.
type EventHandler interface {
	HandleEvent(h Host, e Event, next func() bool) bool
}

// Mounter runs after the element's first render.
type Mounter interface {
	DidMount(h Host, next func())
}

// Updater runs after every render but the first.
type Updater interface {
	DidUpdate(h Host, u Update, next func())
}

// RenderHook does imperative node work after props are applied and before
// DidMount or DidUpdate.
type RenderHook interface {
	Render(h Host, u Update, next func() error) error
}

// Host is what a behavior sees of its element.
type Host interface {
	State() state.State
	SetState(p state.Patch) error

	// Emit sends a named event to the element's listeners.
	Emit(name string, detail any)

	// Part returns the template node with the given id, or nil before the
	// first render.
	Part(id string) *dom.Node

	// Root returns the element's host node.
	Root() *dom.Node

	// After runs fn as a later loop turn once d has elapsed.
	After(d time.Duration, fn func())

	// Report hands an error that has no caller to return to, such as one
	// raised inside an After callback, to the element's error reporting.
	Report(err error)
}

// Event is an input event delivered to the element.
type Event struct {
	// Type is the event type, for example "keydown" or "mousedown".
	Type string

	// Key is the key name for keyboard events, for example "ArrowDown".
	Key string

	// Button is the mouse button for pointer events. 0 is the primary button.
	Button int

	// Index is the item the event targets, or -1 when it targets none.
	Index int

	// Target is the id of the nearest part enclosing the node the event hit,
	// or empty when no part encloses it.
	Target string

	// Detail carries event-specific data.
	Detail any
}

// Update describes a render after the first.
type Update struct {
	// Previous is the state at the last render.
	Previous state.State

	// Changed lists, sorted, the keys that differ from Previous.
	Changed []string

	// RaiseChangeEvents is true when at least one of the changes came from
	// user interaction. Behaviors emit change notifications only then.
	RaiseChangeEvents bool
}

// Has reports whether key is among the changed keys.
func (u Update) Has(key string) bool {
	_, found := slices.BinarySearch(u.Changed, key)
	return found
}

// HasAny reports whether any of keys changed.
func (u Update) HasAny(keys ...string) bool {
	for _, k := range keys {
		if u.Has(k) {
			return true
		}
	}
	return false
}
