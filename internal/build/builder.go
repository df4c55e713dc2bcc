package build

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/elix-dev/elix/internal/errors"
	"github.com/elix-dev/elix/internal/registry"
	"github.com/elix-dev/elix/pkg/behavior"
	"github.com/elix-dev/elix/pkg/behaviors"
	"github.com/elix-dev/elix/pkg/dom"
	"github.com/elix-dev/elix/pkg/element"
	"github.com/elix-dev/elix/pkg/loop"
	"github.com/elix-dev/elix/pkg/render"
	"github.com/elix-dev/elix/pkg/snapshot"
	"github.com/elix-dev/elix/pkg/state"
	"github.com/elix-dev/elix/pkg/template"
)

// DefaultKind is the kind built when Options.Kind is empty.
const DefaultKind = "plain"

// Result contains the build output.
type Result struct {
	// Duration is how long the build took.
	Duration time.Duration

	// Element is the host tag name.
	Element string

	// Generation is the state generation that was rendered.
	Generation uint64

	// HTML is the rendered element.
	HTML []byte
}

// Snapshot returns the result as a snapshot stored under key.
func (r *Result) Snapshot(key string, now time.Time) snapshot.Snapshot {
	return snapshot.Snapshot{
		Key:        key,
		Element:    r.Element,
		Generation: r.Generation,
		CreatedAt:  now.UTC(),
		HTML:       r.HTML,
	}
}

// Options configures the builder.
type Options struct {
	// Kind is the registry kind to build. Default: DefaultKind.
	Kind string

	// Tag overrides the kind's host tag name.
	Tag string

	// Template is a template file whose nodes are appended to the kind's
	// template. Optional.
	Template string

	// Content is a content file. Optional.
	Content string

	// Demo uses the kind's demo content when Content is empty.
	Demo bool

	// State is a state file applied before the render. Optional.
	State string

	// Pretty enables indented HTML.
	Pretty bool

	// MaxPasses caps state handler passes. Default: state.DefaultMaxPasses.
	MaxPasses int

	// Logger receives build diagnostics. Default: slog.Default().
	Logger *slog.Logger

	// OnProgress is called with progress updates.
	OnProgress func(step string)
}

// Builder renders elements from files.
type Builder struct {
	options Options
	logger  *slog.Logger
}

// New creates a new builder.
func New(options Options) *Builder {
	if options.Kind == "" {
		options.Kind = DefaultKind
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	return &Builder{
		options: options,
		logger:  options.Logger.With("component", "build"),
	}
}

// progress reports a progress step.
func (b *Builder) progress(step string) {
	b.logger.Debug(step)
	if b.options.OnProgress != nil {
		b.options.OnProgress(step)
	}
}

// Build renders the element once.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	start := time.Now()
	opts := b.options

	b.progress("Resolving " + opts.Kind)
	kind, err := registry.Lookup(opts.Kind)
	if err != nil {
		return nil, err
	}
	if opts.Tag != "" {
		kind.Tag = opts.Tag
	}
	if opts.Template != "" {
		b.progress("Reading template " + opts.Template)
		extra, err := template.ParseFile(opts.Template)
		if err != nil {
			return nil, err
		}
		kind.Behaviors = withTemplate(kind.Behaviors, extra)
	}

	content, err := b.content(kind)
	if err != nil {
		return nil, err
	}

	var patch state.Patch
	if opts.State != "" {
		b.progress("Reading state " + opts.State)
		if patch, err = LoadState(opts.State); err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.progress("Rendering " + kind.Tag)
	el, err := b.render(kind, content, patch)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := dom.RenderHTML(&buf, el.Root(), dom.RenderConfig{Pretty: opts.Pretty}); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')

	return &Result{
		Duration:   time.Since(start),
		Element:    kind.Tag,
		Generation: el.State().Generation(),
		HTML:       buf.Bytes(),
	}, nil
}

func (b *Builder) content(kind registry.Kind) ([]*dom.Node, error) {
	switch {
	case b.options.Content != "":
		b.progress("Reading content " + b.options.Content)
		t, err := template.ParseFile(b.options.Content)
		if err != nil {
			return nil, err
		}
		return t.Instantiate().Root.Children, nil
	case b.options.Demo:
		return kind.DemoContent()
	}
	return nil, nil
}

// render builds, seeds and connects the element in one loop turn, so the
// flush at the end of the turn renders it.
func (b *Builder) render(kind registry.Kind, content []*dom.Node, patch state.Patch) (*element.Element, error) {
	l := loop.New(loop.Options{Logger: b.logger})
	defer l.Close()

	var renderErr error
	sched := render.NewScheduler(l, render.Options{
		Logger:  b.logger,
		OnError: func(_ render.Renderer, err error) { renderErr = err },
	})

	var el *element.Element
	var err error
	l.Turn(func() {
		el, err = kind.New(sched, element.Options{MaxPasses: b.options.MaxPasses, Logger: b.logger}, content)
		if err != nil {
			return
		}
		if err = el.SetState(patch); err != nil {
			return
		}
		el.Connect()
	})
	if err != nil {
		return nil, err
	}
	if renderErr != nil {
		return nil, renderErr
	}
	return el, nil
}

// withTemplate wraps a behavior constructor so the chain's template gets
// the nodes of extra appended after everything inner behaviors add.
func withTemplate(inner func() []behavior.Behavior, extra *template.Template) func() []behavior.Behavior {
	return func() []behavior.Behavior {
		wrapper := &behavior.Func{
			ID: "template-file",
			TemplateFn: func(t *template.Template) (*template.Template, error) {
				return t.Append(extra.Clone().Content()...), nil
			},
		}
		return append([]behavior.Behavior{wrapper}, inner()...)
	}
}

// LoadState reads a state file into a patch.
func LoadState(path string) (state.Patch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E021").WithDetailf("reading state file %s", path).Wrap(err)
	}
	return ParseState(data)
}

// ParseState parses a YAML mapping of state keys to values. Content keys
// are rejected; content comes from content files.
func ParseState(data []byte) (state.Patch, error) {
	var patch state.Patch
	if err := yaml.Unmarshal(data, &patch); err != nil {
		return nil, errors.New("E021").WithDetail("state file must be a mapping").Wrap(err)
	}
	for _, key := range []string{behaviors.KeyContent, behaviors.KeyItems} {
		if _, ok := patch[key]; ok {
			return nil, errors.New("E021").
				WithDetailf("state file sets %q", key).
				WithSuggestion("Put content in a content file and pass it with --content")
		}
	}
	return patch, nil
}
