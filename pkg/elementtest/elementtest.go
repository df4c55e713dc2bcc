package elementtest

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/elix-dev/elix/pkg/behavior"
	"github.com/elix-dev/elix/pkg/behaviors"
	"github.com/elix-dev/elix/pkg/dom"
	"github.com/elix-dev/elix/pkg/element"
	"github.com/elix-dev/elix/pkg/loop"
	"github.com/elix-dev/elix/pkg/render"
	"github.com/elix-dev/elix/pkg/state"
)

// DefaultTag is the host tag used when WithTag is not called.
const DefaultTag = "elix-test"

// Builder allows fluent construction of a test element.
type Builder struct {
	tag       string
	behaviors []behavior.Behavior
	patch     state.Patch
	maxPasses int
	logger    *slog.Logger
}

// New creates a builder for an element composed of bs.
func New(bs ...behavior.Behavior) *Builder {
	return &Builder{
		tag:       DefaultTag,
		behaviors: bs,
		patch:     state.Patch{},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithTag sets the host tag name.
func (b *Builder) WithTag(tag string) *Builder {
	b.tag = tag
	return b
}

// WithContent sets the element's content before it mounts.
func (b *Builder) WithContent(nodes ...*dom.Node) *Builder {
	if nodes == nil {
		nodes = []*dom.Node{}
	}
	b.patch[behaviors.KeyContent] = nodes
	return b
}

// WithState sets a state key before the element mounts.
func (b *Builder) WithState(key string, value any) *Builder {
	b.patch[key] = value
	return b
}

// WithMaxPasses sets the handler pass limit.
func (b *Builder) WithMaxPasses(n int) *Builder {
	b.maxPasses = n
	return b
}

// WithLogger sets the element and scheduler logger. The default discards.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// Mount builds the element, applies the seeded state and renders it once.
// It fails the test on any error.
func (b *Builder) Mount(t testing.TB) *Harness {
	t.Helper()
	h := &Harness{t: t, Loop: loop.New(loop.Options{Logger: b.logger})}
	t.Cleanup(h.Loop.Close)

	h.Scheduler = render.NewScheduler(h.Loop, render.Options{
		Logger: b.logger,
		OnError: func(_ render.Renderer, err error) {
			t.Errorf("render error: %v", err)
		},
	})

	var err error
	h.Loop.Turn(func() {
		h.Element, err = element.New(b.tag, h.Scheduler, element.Options{MaxPasses: b.maxPasses, Logger: b.logger}, b.behaviors...)
		if err != nil {
			return
		}
		h.Element.On(element.AnyEvent, func(name string, detail any) {
			h.events = append(h.events, Event{Name: name, Detail: detail})
		})
		h.Element.OnRender(func(*element.Element) { h.Renders++ })
		if err = h.Element.SetState(b.patch); err != nil {
			return
		}
		h.Element.Connect()
	})
	if err != nil {
		t.Fatalf("mount %s: %v", b.tag, err)
	}
	return h
}

// Event is one recorded host event.
type Event struct {
	Name   string
	Detail any
}

// Harness drives a mounted element. Every method runs its work as one loop
// turn, so renders have happened by the time it returns.
type Harness struct {
	t testing.TB

	Loop      *loop.Loop
	Scheduler *render.Scheduler
	Element   *element.Element

	// Renders counts completed renders, including the first.
	Renders int

	events []Event
}

// Turn runs fn as one loop turn.
func (h *Harness) Turn(fn func()) {
	h.Loop.Turn(fn)
}

// Set applies a programmatic state change, failing the test on error.
func (h *Harness) Set(p state.Patch) {
	h.t.Helper()
	var err error
	h.Turn(func() { err = h.Element.SetState(p) })
	if err != nil {
		h.t.Fatalf("SetState(%v): %v", p, err)
	}
}

// Dispatch delivers ev and reports whether a behavior handled it.
func (h *Harness) Dispatch(ev behavior.Event) bool {
	var handled bool
	h.Turn(func() { handled = h.Element.Dispatch(ev) })
	return handled
}

// Key dispatches a keydown for key.
func (h *Harness) Key(key string) bool {
	return h.Dispatch(behavior.Event{Type: "keydown", Key: key, Index: -1})
}

// Click dispatches a primary-button mousedown on the item at index. Pass -1
// to click the host itself.
func (h *Harness) Click(index int) bool {
	return h.Dispatch(behavior.Event{Type: "mousedown", Button: 0, Index: index})
}

// Press dispatches a primary-button mousedown on the part with id part.
func (h *Harness) Press(part string) bool {
	return h.Dispatch(behavior.Event{Type: "mousedown", Button: 0, Index: -1, Target: part})
}

// Wait lets time-delayed callbacks fire: it sleeps for d, then runs the
// tasks they post, polling briefly for timers that fire late.
func (h *Harness) Wait(d time.Duration) {
	deadline := time.Now().Add(d + 100*time.Millisecond)
	time.Sleep(d)
	for h.Loop.RunPending() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
}

// Events returns the host events recorded since the last call.
func (h *Harness) Events() []Event {
	events := h.events
	h.events = nil
	return events
}

// EventNames returns the names of the recorded events and clears them.
func (h *Harness) EventNames() []string {
	var names []string
	for _, e := range h.Events() {
		names = append(names, e.Name)
	}
	return names
}

// HTML returns the element's rendered HTML.
func (h *Harness) HTML() string {
	return h.Element.HTML()
}

// ExpectContains asserts that the rendered HTML contains expected.
func (h *Harness) ExpectContains(expected string) {
	h.t.Helper()
	if html := h.HTML(); !strings.Contains(html, expected) {
		h.t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that the rendered HTML does not contain
// unexpected.
func (h *Harness) ExpectNotContains(unexpected string) {
	h.t.Helper()
	if html := h.HTML(); strings.Contains(html, unexpected) {
		h.t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectAttribute asserts that the node with the given id carries attr with
// value. An empty id means the host.
func (h *Harness) ExpectAttribute(id, attr, value string) {
	h.t.Helper()
	n := h.node(id)
	if n == nil {
		return
	}
	got, ok := n.Attr(attr)
	if !ok {
		h.t.Errorf("node %q has no %s attribute, got:\n%s", id, attr, truncate(n.HTML(), 500))
		return
	}
	if got != value {
		h.t.Errorf("node %q %s = %q, want %q", id, attr, got, value)
	}
}

// ExpectClass asserts whether the node with the given id has class name. An
// empty id means the host.
func (h *Harness) ExpectClass(id, name string, want bool) {
	h.t.Helper()
	n := h.node(id)
	if n == nil {
		return
	}
	if got := n.HasClass(name); got != want {
		h.t.Errorf("node %q class %q = %v, want %v", id, name, got, want)
	}
}

// ExpectState asserts the value of a state key.
func (h *Harness) ExpectState(key string, want any) {
	h.t.Helper()
	if diff := cmp.Diff(want, h.Element.Get(key)); diff != "" {
		h.t.Errorf("state %q mismatch (-want +got):\n%s", key, diff)
	}
}

func (h *Harness) node(id string) *dom.Node {
	h.t.Helper()
	if id == "" {
		return h.Element.Root()
	}
	n := h.Element.Root().FindByID(id)
	if n == nil {
		h.t.Errorf("no node with id %q in:\n%s", id, truncate(h.HTML(), 500))
	}
	return n
}

// truncate truncates a string to limit bytes with an ellipsis.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
