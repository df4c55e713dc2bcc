package behavior

import (
	"github.com/elix-dev/elix/pkg/props"
	"github.com/elix-dev/elix/pkg/state"
	"github.com/elix-dev/elix/pkg/template"
)

// Func builds a behavior from plain functions. Nil fields are skipped.
// Each function contributes only its own part; Func combines it with the
// inner behaviors' result so that Func's contribution wins.
type Func struct {
	ID string

	DefaultStateFn func() state.Patch
	HandlersFn     func() []state.Handler
	PropsFn        func(s state.State) props.Props

	// TemplateFn receives the inner template and returns the one to use.
	TemplateFn func(t *template.Template) (*template.Template, error)

	// EventFn reports whether it handled the event. Unhandled events go inward.
	EventFn func(h Host, e Event) bool

	MountFn  func(h Host)
	UpdateFn func(h Host, u Update)
	RenderFn func(h Host, u Update) error
}

// Name implements Behavior.
func (f *Func) Name() string { return f.ID }

// DefaultState implements DefaultStater.
func (f *Func) DefaultState(next func() state.Patch) state.Patch {
	base := next()
	if f.DefaultStateFn == nil {
		return base
	}
	out := make(state.Patch, len(base))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range f.DefaultStateFn() {
		out[k] = v
	}
	return out
}

// Handlers implements HandlerProvider.
func (f *Func) Handlers(next func() []state.Handler) []state.Handler {
	inner := next()
	if f.HandlersFn == nil {
		return inner
	}
	return append(inner, f.HandlersFn()...)
}

// Props implements PropsContributor.
func (f *Func) Props(s state.State, next func() props.Props) props.Props {
	if f.PropsFn == nil {
		return next()
	}
	return props.Merge(next(), f.PropsFn(s))
}

// Template implements Templater.
func (f *Func) Template(next func() (*template.Template, error)) (*template.Template, error) {
	t, err := next()
	if err != nil || f.TemplateFn == nil {
		return t, err
	}
	return f.TemplateFn(t)
}

// HandleEvent implements EventHandler.
func (f *Func) HandleEvent(h Host, e Event, next func() bool) bool {
	if f.EventFn != nil && f.EventFn(h, e) {
		return true
	}
	return next()
}

// DidMount implements Mounter. Inner behaviors run first.
func (f *Func) DidMount(h Host, next func()) {
	next()
	if f.MountFn != nil {
		f.MountFn(h)
	}
}

// DidUpdate implements Updater. Inner behaviors run first.
func (f *Func) DidUpdate(h Host, u Update, next func()) {
	next()
	if f.UpdateFn != nil {
		f.UpdateFn(h, u)
	}
}

// Render implements RenderHook. Inner behaviors run first.
func (f *Func) Render(h Host, u Update, next func() error) error {
	if err := next(); err != nil {
		return err
	}
	if f.RenderFn == nil {
		return nil
	}
	return f.RenderFn(h, u)
}
