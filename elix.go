// Package elix provides the public API for building reactive elements.
//
// This is the recommended import for most applications:
//
//	import "github.com/elix-dev/elix"
//
// Usage:
//
//	l := elix.NewLoop()
//	sched := elix.NewScheduler(l)
//
//	var el *elix.Element
//	var err error
//	l.Turn(func() {
//	    el, err = elix.New("my-list", sched, elix.ListBox()...)
//	    if err != nil {
//	        return
//	    }
//	    el.Connect()
//	    err = el.SetState(elix.Patch{"content": elix.TextItems("a", "b")})
//	})
//
// Elements render when the turn that changed them ends, so every call that
// creates, connects or updates an element belongs inside a turn. A
// long-running host runs the loop on one goroutine and hands it work:
//
//	go l.Run(ctx)
//	l.Post(func() { el.SetState(elix.Patch{"selectedIndex": 2}) })
//
// Calls made outside any turn queue their render until a turn ends; with
// nothing driving the loop, that never happens.
package elix

import (
	"github.com/elix-dev/elix/pkg/behavior"
	"github.com/elix-dev/elix/pkg/behaviors"
	"github.com/elix-dev/elix/pkg/dom"
	"github.com/elix-dev/elix/pkg/element"
	"github.com/elix-dev/elix/pkg/loop"
	"github.com/elix-dev/elix/pkg/props"
	"github.com/elix-dev/elix/pkg/render"
	"github.com/elix-dev/elix/pkg/state"
)

// =============================================================================
// Elements (re-export from pkg/element)
// =============================================================================

// Element is a reactive element.
type Element = element.Element

// ElementOptions configures an element.
type ElementOptions = element.Options

// Listener receives host events.
type Listener = element.Listener

// AnyEvent subscribes a listener to every event.
const AnyEvent = element.AnyEvent

// New creates an element from behaviors listed outermost first. A nil
// scheduler means the default scheduler on DefaultLoop, which the caller
// drives like any other loop.
//
// Example:
//
//	el, err := elix.New("my-disclosure", nil, elix.Disclosure("More")...)
func New(tag string, sched *Scheduler, behaviors ...Behavior) (*Element, error) {
	return element.New(tag, sched, element.Options{}, behaviors...)
}

// NewWithOptions is like New with explicit element options.
func NewWithOptions(tag string, sched *Scheduler, opts ElementOptions, behaviors ...Behavior) (*Element, error) {
	return element.New(tag, sched, opts, behaviors...)
}

// =============================================================================
// Composition (re-export from pkg/behavior)
// =============================================================================

type (
	Behavior = behavior.Behavior
	Chain    = behavior.Chain
	Host     = behavior.Host
	Event    = behavior.Event
	Update   = behavior.Update
	Func     = behavior.Func
)

// Compose builds a behavior chain, outermost first.
var Compose = behavior.Compose

// =============================================================================
// State (re-export from pkg/state)
// =============================================================================

type (
	State   = state.State
	Patch   = state.Patch
	Handler = state.Handler
	Store   = state.Store

	StoreOptions = state.Options
)

// NewStore creates a state store outside an element.
var NewStore = state.NewStore

// =============================================================================
// Props (re-export from pkg/props)
// =============================================================================

// Props describes node attributes, classes, styles, content and parts.
type Props = props.Props

// Merge merges props left to right.
var Merge = props.Merge

// =============================================================================
// Scheduling (re-export from pkg/loop and pkg/render)
// =============================================================================

type (
	Loop      = loop.Loop
	Scheduler = render.Scheduler
)

// NewLoop creates a single-threaded loop.
func NewLoop() *Loop {
	return loop.New(loop.Options{})
}

// DefaultLoop returns the process-wide loop used by elements created with a
// nil scheduler.
func DefaultLoop() *Loop {
	return loop.Default()
}

// NewScheduler creates a render scheduler bound to l.
func NewScheduler(l *Loop) *Scheduler {
	return render.NewScheduler(l, render.Options{})
}

// =============================================================================
// Nodes and behaviors (re-export from pkg/dom and pkg/behaviors)
// =============================================================================

// Node is a node in an element's tree.
type Node = dom.Node

// El creates an element node.
var El = dom.NewElement

// Text creates a text node.
var Text = dom.NewText

// ListBox returns the behaviors of a single-selection list box.
var ListBox = behaviors.ListBox

// Disclosure returns the behaviors of a disclosure widget.
var Disclosure = behaviors.Disclosure

// Plain returns the behaviors of a content-only element.
var Plain = behaviors.Plain

// TextItems builds one div per label.
var TextItems = behaviors.TextItems

// =============================================================================
// Errors
// =============================================================================

var (
	// ErrNotSettled is matched when change handlers do not settle.
	ErrNotSettled = state.ErrNotSettled

	// ErrSetDuringRender is matched when state is set while rendering.
	ErrSetDuringRender = element.ErrSetDuringRender

	// ErrPartMissing is matched when props name a missing template part.
	ErrPartMissing = props.ErrPartMissing

	// ErrInvalidChain is matched by Compose errors.
	ErrInvalidChain = behavior.ErrInvalid

	// ErrLoopClosed is matched by Post after Close.
	ErrLoopClosed = loop.ErrClosed
)
