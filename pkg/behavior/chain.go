package behavior

import (
	"github.com/elix-dev/elix/internal/errors"
	"github.com/elix-dev/elix/pkg/props"
	"github.com/elix-dev/elix/pkg/state"
	"github.com/elix-dev/elix/pkg/template"
)

// ErrInvalid is matched by errors from Compose.
var ErrInvalid = errors.New("E007")

// Chain is an ordered list of behaviors, outermost first.
type Chain struct {
	behaviors []Behavior
}

// Compose builds a chain from behaviors listed outermost first. Nil
// behaviors, empty names and duplicate names are rejected.
func Compose(behaviors ...Behavior) (*Chain, error) {
	seen := make(map[string]bool, len(behaviors))
	for i, b := range behaviors {
		if b == nil {
			return nil, errors.New("E007").WithDetailf("behavior %d is nil", i)
		}
		name := b.Name()
		if name == "" {
			return nil, errors.New("E007").WithDetailf("behavior %d (%T) has no name", i, b)
		}
		if seen[name] {
			return nil, errors.New("E007").WithDetailf("behavior %q listed twice", name)
		}
		seen[name] = true
	}
	return &Chain{behaviors: append([]Behavior(nil), behaviors...)}, nil
}

// MustCompose is like Compose but panics on error.
func MustCompose(behaviors ...Behavior) *Chain {
	c, err := Compose(behaviors...)
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of behaviors in the chain.
func (c *Chain) Len() int {
	return len(c.behaviors)
}

// Names returns the behavior names, outermost first.
func (c *Chain) Names() []string {
	names := make([]string, len(c.behaviors))
	for i, b := range c.behaviors {
		names[i] = b.Name()
	}
	return names
}

// walk calls the outermost behavior implementing C. Its next function
// resumes the search one position further in; base ends the walk.
func walk[C any, R any](bs []Behavior, base func() R, call func(C, func() R) R) R {
	var step func(from int) R
	step = func(from int) R {
		for i := from; i < len(bs); i++ {
			if capability, ok := bs[i].(C); ok {
				return call(capability, func() R { return step(i + 1) })
			}
		}
		return base()
	}
	return step(0)
}

// DefaultState returns the chain's initial state.
func (c *Chain) DefaultState() state.Patch {
	return walk(c.behaviors,
		func() state.Patch { return state.Patch{} },
		func(b DefaultStater, next func() state.Patch) state.Patch {
			return b.DefaultState(next)
		})
}

// Handlers returns the chain's state handlers, innermost behaviors' first,
// so that outer behaviors' patches win within a pass.
func (c *Chain) Handlers() []state.Handler {
	return walk(c.behaviors,
		func() []state.Handler { return nil },
		func(b HandlerProvider, next func() []state.Handler) []state.Handler {
			return b.Handlers(next)
		})
}

// Props computes the props for s.
func (c *Chain) Props(s state.State) props.Props {
	return walk(c.behaviors,
		func() props.Props { return props.Props{} },
		func(b PropsContributor, next func() props.Props) props.Props {
			return b.Props(s, next)
		})
}

type templateResult struct {
	t   *template.Template
	err error
}

// Template builds the element's template. It never returns a nil template
// without an error.
func (c *Chain) Template() (*template.Template, error) {
	r := walk(c.behaviors,
		func() templateResult { return templateResult{t: template.New()} },
		func(b Templater, next func() templateResult) templateResult {
			t, err := b.Template(func() (*template.Template, error) {
				r := next()
				return r.t, r.err
			})
			return templateResult{t, err}
		})
	if r.err == nil && r.t == nil {
		return template.New(), nil
	}
	return r.t, r.err
}

// HandleEvent offers e to the chain and reports whether a behavior handled it.
func (c *Chain) HandleEvent(h Host, e Event) bool {
	return walk(c.behaviors,
		func() bool { return false },
		func(b EventHandler, next func() bool) bool {
			return b.HandleEvent(h, e, next)
		})
}

// DidMount runs the mount hooks.
func (c *Chain) DidMount(h Host) {
	walk(c.behaviors,
		func() struct{} { return struct{}{} },
		func(b Mounter, next func() struct{}) struct{} {
			b.DidMount(h, func() { next() })
			return struct{}{}
		})
}

// DidUpdate runs the update hooks.
func (c *Chain) DidUpdate(h Host, u Update) {
	walk(c.behaviors,
		func() struct{} { return struct{}{} },
		func(b Updater, next func() struct{}) struct{} {
			b.DidUpdate(h, u, func() { next() })
			return struct{}{}
		})
}

// Render runs the render hooks and returns the first error.
func (c *Chain) Render(h Host, u Update) error {
	return walk(c.behaviors,
		func() error { return nil },
		func(b RenderHook, next func() error) error {
			return b.Render(h, u, next)
		})
}
