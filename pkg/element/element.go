// Package element provides the reactive element that behaviors run on.
//
// An Element owns a state store, a behavior chain and a host node. Changing
// its state never renders synchronously: the element queues itself on its
// render scheduler and renders once, at the end of the loop turn, however
// many changes the turn made. Rendering instantiates the chain's template
// on first use, applies the chain's props to the host node and its parts,
// and then runs the chain's render, mount and update hooks.
//
// Changes made with SetState are programmatic and never produce change
// notifications. Changes made while handling Dispatch or Interact go
// through an interaction-scoped host, and the next render reports them to
// DidUpdate with Update.RaiseChangeEvents set.
package element

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/elix-dev/elix/internal/errors"
	"github.com/elix-dev/elix/pkg/behavior"
	"github.com/elix-dev/elix/pkg/dom"
	"github.com/elix-dev/elix/pkg/props"
	"github.com/elix-dev/elix/pkg/render"
	"github.com/elix-dev/elix/pkg/state"
)

const tracerName = "github.com/elix-dev/elix/pkg/element"

// ErrSetDuringRender is matched by errors from SetState calls made while the
// element computes or applies its props.
var ErrSetDuringRender = errors.New("E004")

// AnyEvent subscribes a listener to every event the element emits.
const AnyEvent = "*"

// Listener receives events emitted by an element.
type Listener func(name string, detail any)

// Options configures an Element.
type Options struct {
	// MaxPasses caps state handler passes per update.
	// Default: state.DefaultMaxPasses.
	MaxPasses int

	// Logger receives render diagnostics. Default: slog.Default().
	Logger *slog.Logger

	// Tracer traces renders. Default: the global otel tracer provider.
	Tracer trace.Tracer
}

var nextID atomic.Uint64

type listener struct {
	name string
	fn   Listener
}

// Element is a reactive element.
//
// An Element is confined to its scheduler's loop. Only Render, via the
// scheduler, and the methods documented otherwise may be called from
// elsewhere, and then only from inside a loop turn.
type Element struct {
	id    uint64
	name  string
	chain *behavior.Chain
	store *state.Store
	sched *render.Scheduler

	root  *dom.Node
	parts map[string]*dom.Node

	connected bool
	mounted   bool
	rendering bool
	raise     bool
	rendered  state.State

	listeners []*listener
	observers []func(*Element)
	timers    []*time.Timer

	logger *slog.Logger
	tracer trace.Tracer
}

// New creates an element whose host node has the given tag name. Behaviors
// are listed outermost first. A nil scheduler means render.Default().
//
// New settles the chain's default state; it fails if the chain is invalid
// or the default state does not settle.
func New(name string, sched *render.Scheduler, opts Options, behaviors ...behavior.Behavior) (*Element, error) {
	chain, err := behavior.Compose(behaviors...)
	if err != nil {
		return nil, err
	}
	if sched == nil {
		sched = render.Default()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer(tracerName)
	}

	id := nextID.Add(1)
	logger := opts.Logger.With("component", "element", "element", name, "element_id", id)

	store, err := state.NewStore(chain.DefaultState(), chain.Handlers(), state.Options{
		MaxPasses: opts.MaxPasses,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	return &Element{
		id:     id,
		name:   name,
		chain:  chain,
		store:  store,
		sched:  sched,
		root:   dom.NewElement(name),
		logger: logger,
		tracer: opts.Tracer,
	}, nil
}

// Name returns the element's tag name.
func (e *Element) Name() string { return e.name }

// Behaviors returns the behavior names, outermost first.
func (e *Element) Behaviors() []string { return e.chain.Names() }

// State returns the current state.
func (e *Element) State() state.State { return e.store.State() }

// Get returns the value of one state key.
func (e *Element) Get(key string) any { return e.store.State().Get(key) }

// Root returns the host node.
func (e *Element) Root() *dom.Node { return e.root }

// Part returns the template node with the given id. It returns nil before
// the first render.
func (e *Element) Part(id string) *dom.Node { return e.parts[id] }

// Mounted reports whether the element has rendered at least once.
func (e *Element) Mounted() bool { return e.mounted }

// HTML returns the host node as HTML.
func (e *Element) HTML() string { return e.root.HTML() }

// Connect attaches the element to its scheduler and queues the first render.
// State changes made before Connect are rendered then.
func (e *Element) Connect() {
	if e.connected {
		return
	}
	e.connected = true
	e.sched.Enqueue(e)
}

// Disconnect stops the element from queueing renders and cancels its
// pending After callbacks.
func (e *Element) Disconnect() {
	e.connected = false
	for _, t := range e.timers {
		t.Stop()
	}
	e.timers = nil
}

// SetState applies a programmatic state change. It never raises change
// events. An error means nothing was committed.
func (e *Element) SetState(p state.Patch) error {
	return e.setState(p, false)
}

func (e *Element) setState(p state.Patch, raise bool) error {
	if e.rendering {
		return errors.New("E004").WithDetailf("element %s", e.name)
	}
	result, err := e.store.Set(p)
	if err != nil {
		return err
	}
	if len(result.Changed) == 0 {
		return nil
	}
	if raise {
		e.raise = true
	}
	e.logger.Debug("state changed", "changed", result.Changed, "passes", result.Passes, "interactive", raise)
	if e.connected {
		e.sched.Enqueue(e)
	}
	return nil
}

// Dispatch delivers a user input event to the behavior chain and reports
// whether a behavior handled it. State changes made while handling it raise
// change events.
func (e *Element) Dispatch(ev behavior.Event) bool {
	return e.chain.HandleEvent(interaction{e}, ev)
}

// Interact runs fn as user interaction: state changes made through the host
// it receives raise change events.
func (e *Element) Interact(fn func(h behavior.Host) error) error {
	return fn(interaction{e})
}

// On subscribes fn to events with the given name, or to all events when
// name is AnyEvent. Calling the returned function unsubscribes.
func (e *Element) On(name string, fn Listener) (off func()) {
	l := &listener{name: name, fn: fn}
	e.listeners = append(e.listeners, l)
	return func() {
		for i, x := range e.listeners {
			if x == l {
				e.listeners = append(e.listeners[:i:i], e.listeners[i+1:]...)
				return
			}
		}
	}
}

// Emit sends an event to the element's listeners in subscription order.
func (e *Element) Emit(name string, detail any) {
	for _, l := range append([]*listener(nil), e.listeners...) {
		if l.name == name || l.name == AnyEvent {
			l.fn(name, detail)
		}
	}
}

// OnRender registers fn to run after every successful render.
func (e *Element) OnRender(fn func(*Element)) {
	e.observers = append(e.observers, fn)
}

// After runs fn as a later turn on the element's loop once d has elapsed.
func (e *Element) After(d time.Duration, fn func()) {
	var t *time.Timer
	t = e.sched.Loop().AfterFunc(d, func() {
		e.dropTimer(t)
		if e.connected {
			fn()
		}
	})
	e.timers = append(e.timers, t)
}

func (e *Element) dropTimer(t *time.Timer) {
	for i, x := range e.timers {
		if x == t {
			e.timers = append(e.timers[:i:i], e.timers[i+1:]...)
			return
		}
	}
}

// Report logs err and passes it to the scheduler's error callback.
func (e *Element) Report(err error) {
	e.logger.Error("behavior error", "error", err)
	e.sched.Report(e, err)
}

// Render brings the host node up to date with the current state.
//
// The first render builds the template. A template error is returned and
// the element stays unmounted; later renders try again. Render does nothing
// when the state has not changed since the last render.
func (e *Element) Render(ctx context.Context) (err error) {
	current := e.store.State()
	var changed []string
	if e.mounted {
		changed = state.Diff(e.rendered, current)
		if len(changed) == 0 {
			return nil
		}
	} else {
		changed = current.Keys()
	}

	_, span := e.tracer.Start(ctx, "elix.element.render", trace.WithAttributes(
		attribute.String("element.name", e.name),
		attribute.Int("state.changed", len(changed)),
		attribute.Bool("element.first", !e.mounted),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if !e.mounted {
		if err := e.instantiate(); err != nil {
			return err
		}
	}

	if err := e.applyProps(current); err != nil {
		return err
	}

	update := behavior.Update{
		Previous:          e.rendered,
		Changed:           changed,
		RaiseChangeEvents: e.raise,
	}
	first := !e.mounted
	e.mounted = true
	e.rendered = current
	e.raise = false

	if err := e.chain.Render(e, update); err != nil {
		return err
	}
	if first {
		e.chain.DidMount(e)
	} else {
		e.chain.DidUpdate(e, update)
	}

	for _, fn := range e.observers {
		fn(e)
	}
	return nil
}

func (e *Element) instantiate() error {
	t, err := e.chain.Template()
	if err != nil {
		e.logger.Error("template construction failed", "error", err)
		return err
	}
	inst := t.Instantiate()
	e.root.SetChildren(inst.Root.Children)
	e.parts = inst.Parts
	return nil
}

func (e *Element) applyProps(s state.State) error {
	e.rendering = true
	defer func() { e.rendering = false }()

	p := e.chain.Props(s)
	if err := props.Apply(e.root, p, e.parts); err != nil {
		e.logger.Error("applying props failed", "error", err)
		return err
	}
	return nil
}

// interaction is the host handed to code running on behalf of the user.
type interaction struct {
	*Element
}

func (h interaction) SetState(p state.Patch) error {
	return h.setState(p, true)
}
