package behavior

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/elix-dev/elix/pkg/dom"
	"github.com/elix-dev/elix/pkg/props"
	"github.com/elix-dev/elix/pkg/state"
	"github.com/elix-dev/elix/pkg/template"
)

// named implements no capability at all.
type named string

func (n named) Name() string { return string(n) }

type fakeHost struct {
	st     state.State
	events []string
}

func (h *fakeHost) State() state.State { return h.st }
func (h *fakeHost) SetState(p state.Patch) error { return nil }
func (h *fakeHost) Emit(name string, detail any) { h.events = append(h.events, name) }
func (h *fakeHost) Part(id string) *dom.Node { return nil }
func (h *fakeHost) Root() *dom.Node { return nil }
func (h *fakeHost) After(d time.Duration, fn func()) {}
func (h *fakeHost) Report(err error) {}

func TestComposeRejects(t *testing.T) {
	tests := []struct {
		name      string
		behaviors []Behavior
		want      string
	}{
		{"nil", []Behavior{named("a"), nil}, "behavior 1 is nil"},
		{"unnamed", []Behavior{named("")}, "has no name"},
		{"duplicate", []Behavior{named("a"), named("b"), named("a")}, `"a" listed twice`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compose(tt.behaviors...)
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("Compose() error = %v, want E007", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestEmptyChainBaseValues(t *testing.T) {
	c := MustCompose()

	if got := c.DefaultState(); len(got) != 0 {
		t.Errorf("DefaultState() = %v", got)
	}
	if got := c.Handlers(); got != nil {
		t.Errorf("Handlers() = %v", got)
	}
	if got := c.Props(state.State{}); !got.IsEmpty() {
		t.Errorf("Props() = %+v", got)
	}
	tpl, err := c.Template()
	if err != nil || tpl == nil || len(tpl.Content()) != 0 {
		t.Errorf("Template() = %v, %v", tpl, err)
	}
	if c.HandleEvent(&fakeHost{}, Event{Type: "keydown"}) {
		t.Error("empty chain handled an event")
	}
	if err := c.Render(&fakeHost{}, Update{}); err != nil {
		t.Errorf("Render() = %v", err)
	}
}

func TestBehaviorWithoutCapabilitiesIsSkipped(t *testing.T) {
	inner := &Func{ID: "inner", DefaultStateFn: func() state.Patch { return state.Patch{"x": 1} }}
	c := MustCompose(named("plain"), inner, named("other"))

	if diff := cmp.Diff(state.Patch{"x": 1}, c.DefaultState()); diff != "" {
		t.Errorf("DefaultState() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"plain", "inner", "other"}, c.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d", c.Len())
	}
}

func TestOuterDefaultStateWins(t *testing.T) {
	outer := &Func{ID: "outer", DefaultStateFn: func() state.Patch { return state.Patch{"shared": "outer", "o": true} }}
	inner := &Func{ID: "inner", DefaultStateFn: func() state.Patch { return state.Patch{"shared": "inner", "i": true} }}

	got := MustCompose(outer, inner).DefaultState()
	want := state.Patch{"shared": "outer", "o": true, "i": true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DefaultState() mismatch (-want +got):\n%s", diff)
	}
}

func TestHandlersInnermostFirst(t *testing.T) {
	h := func(name string) []state.Handler {
		return []state.Handler{{Name: name, Fn: func(state.State) state.Patch { return nil }}}
	}
	c := MustCompose(
		&Func{ID: "outer", HandlersFn: func() []state.Handler { return h("outer") }},
		named("plain"),
		&Func{ID: "inner", HandlersFn: func() []state.Handler { return h("inner") }},
	)

	var names []string
	for _, handler := range c.Handlers() {
		names = append(names, handler.Name)
	}
	if diff := cmp.Diff([]string{"inner", "outer"}, names); diff != "" {
		t.Errorf("handler order mismatch (-want +got):\n%s", diff)
	}
}

func TestPropsOuterOverridesInner(t *testing.T) {
	c := MustCompose(
		&Func{ID: "outer", PropsFn: func(s state.State) props.Props {
			return props.Attr("role", "listbox")
		}},
		&Func{ID: "inner", PropsFn: func(s state.State) props.Props {
			return props.Merge(props.Attr("role", "none"), props.Class("on", s.Get("on") == true))
		}},
	)

	got := c.Props(state.FromPatch(state.Patch{"on": true}))
	want := props.Props{
		Attributes: map[string]any{"role": "listbox"},
		Classes:    map[string]bool{"on": true},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreUnexported(dom.Node{})); diff != "" {
		t.Errorf("Props() mismatch (-want +got):\n%s", diff)
	}
}

// trap is a behavior that decides itself whether to call inward.
type trap struct {
	key   string
	calls *[]string
}

func (t trap) Name() string { return "trap-" + t.key }

func (t trap) HandleEvent(h Host, e Event, next func() bool) bool {
	*t.calls = append(*t.calls, t.Name())
	if e.Key == t.key {
		return true
	}
	return next()
}

func TestHandleEventStopsAtFirstHandler(t *testing.T) {
	var calls []string
	c := MustCompose(trap{"Home", &calls}, trap{"End", &calls}, trap{"ArrowDown", &calls})

	if !c.HandleEvent(&fakeHost{}, Event{Type: "keydown", Key: "End"}) {
		t.Fatal("End not handled")
	}
	if diff := cmp.Diff([]string{"trap-Home", "trap-End"}, calls); diff != "" {
		t.Errorf("call order mismatch (-want +got):\n%s", diff)
	}

	calls = nil
	if c.HandleEvent(&fakeHost{}, Event{Type: "keydown", Key: "Tab"}) {
		t.Error("Tab handled")
	}
	if len(calls) != 3 {
		t.Errorf("calls = %v, want all three", calls)
	}
}

func TestTemplateBuildsOutward(t *testing.T) {
	c := MustCompose(
		&Func{ID: "outer", TemplateFn: func(t *template.Template) (*template.Template, error) {
			return t, t.Replace("stage", dom.NewElement("ul"))
		}},
		&Func{ID: "inner", TemplateFn: func(t *template.Template) (*template.Template, error) {
			return t.Append(dom.NewElement("div").SetID("stage")), nil
		}},
	)

	tpl, err := c.Template()
	if err != nil {
		t.Fatalf("Template() error = %v", err)
	}
	if got := tpl.HTML(); got != `<ul id="stage"></ul>` {
		t.Errorf("HTML() = %s", got)
	}
}

func TestTemplateErrorPropagates(t *testing.T) {
	c := MustCompose(
		&Func{ID: "outer", TemplateFn: func(t *template.Template) (*template.Template, error) {
			t.Append(dom.NewElement("never"))
			return t, nil
		}},
		&Func{ID: "inner", TemplateFn: func(t *template.Template) (*template.Template, error) {
			return nil, t.Require("missing")
		}},
	)
	if _, err := c.Template(); !errors.Is(err, template.ErrPartMissing) {
		t.Errorf("Template() error = %v, want E002", err)
	}
}

func TestLifecycleHooksRunInnerFirst(t *testing.T) {
	var order []string
	record := func(name string) *Func {
		return &Func{
			ID:       name,
			MountFn:  func(Host) { order = append(order, name+".mount") },
			UpdateFn: func(Host, Update) { order = append(order, name+".update") },
			RenderFn: func(Host, Update) error {
				order = append(order, name+".render")
				return nil
			},
		}
	}
	c := MustCompose(record("outer"), record("inner"))
	h := &fakeHost{}

	_ = c.Render(h, Update{})
	c.DidMount(h)
	c.DidUpdate(h, Update{})

	want := []string{
		"inner.render", "outer.render",
		"inner.mount", "outer.mount",
		"inner.update", "outer.update",
	}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Errorf("hook order mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderHookErrorStopsOuter(t *testing.T) {
	boom := errors.New("boom")
	outerRan := false
	c := MustCompose(
		&Func{ID: "outer", RenderFn: func(Host, Update) error {
			outerRan = true
			return nil
		}},
		&Func{ID: "inner", RenderFn: func(Host, Update) error { return boom }},
	)
	if err := c.Render(&fakeHost{}, Update{}); err != boom {
		t.Errorf("Render() = %v, want boom", err)
	}
	if outerRan {
		t.Error("outer render hook ran after inner failure")
	}
}

func TestUpdateHas(t *testing.T) {
	u := Update{Changed: []string{"items", "opened", "selectedIndex"}}
	if !u.Has("opened") || u.Has("closed") {
		t.Error("Has() wrong")
	}
	if !u.HasAny("x", "selectedIndex") || u.HasAny("x", "y") {
		t.Error("HasAny() wrong")
	}
}
