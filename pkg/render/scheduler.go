// Package render batches element renders into one pass per loop turn.
//
// State changes enqueue their element on a Scheduler. The first enqueue in a
// turn queues a flush microtask on the scheduler's loop; the flush renders
// every queued element once, in the order they were first enqueued. Since
// the flush runs before the turn ends, several state changes made during the
// same turn produce a single render, and no render happens synchronously
// inside a state update.
package render

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/elix-dev/elix/pkg/loop"
)

const tracerName = "github.com/elix-dev/elix/pkg/render"

// Renderer is anything the scheduler can render. Elements implement it.
// Renderers are used as set members, so they must be comparable
// (pointer types are).
type Renderer interface {
	Render(ctx context.Context) error
}

// Options configures a Scheduler.
type Options struct {
	// Metrics records render counts and flush timings. Optional.
	Metrics *Metrics

	// Tracer traces flushes. Default: the global otel tracer provider.
	Tracer trace.Tracer

	// Logger receives render errors. Default: slog.Default().
	Logger *slog.Logger

	// OnError is called with each render error after it is logged, and with
	// errors elements hand to Report. Optional.
	OnError func(r Renderer, err error)
}

// Scheduler is a render queue bound to one loop.
//
// Scheduler is confined to its loop: Enqueue and Flush must be called from
// the goroutine running the loop.
type Scheduler struct {
	loop      *loop.Loop
	pending   []Renderer
	queued    map[Renderer]struct{}
	scheduled bool

	metrics *Metrics
	tracer  trace.Tracer
	logger  *slog.Logger
	onError func(Renderer, error)
}

// NewScheduler creates a scheduler that flushes on l.
func NewScheduler(l *loop.Loop, opts Options) *Scheduler {
	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer(tracerName)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default().With("component", "render")
	}
	return &Scheduler{
		loop:    l,
		queued:  make(map[Renderer]struct{}),
		metrics: opts.Metrics,
		tracer:  opts.Tracer,
		logger:  opts.Logger,
		onError: opts.OnError,
	}
}

var (
	defaultScheduler     *Scheduler
	defaultSchedulerOnce sync.Once
)

// Default returns the process-wide scheduler on loop.Default().
func Default() *Scheduler {
	defaultSchedulerOnce.Do(func() {
		defaultScheduler = NewScheduler(loop.Default(), Options{})
	})
	return defaultScheduler
}

// Loop returns the loop the scheduler flushes on.
func (s *Scheduler) Loop() *loop.Loop {
	return s.loop
}

// Enqueue marks r for rendering in the current turn. Enqueueing an element
// that is already pending does nothing.
func (s *Scheduler) Enqueue(r Renderer) {
	if _, ok := s.queued[r]; ok {
		return
	}
	s.queued[r] = struct{}{}
	s.pending = append(s.pending, r)
	if s.metrics != nil {
		s.metrics.pending.Inc()
	}

	if !s.scheduled {
		s.scheduled = true
		s.loop.QueueMicrotask(s.Flush)
	}
}

// Pending returns the number of elements waiting to render.
func (s *Scheduler) Pending() int {
	return len(s.pending)
}

// IsPending reports whether r is waiting to render.
func (s *Scheduler) IsPending(r Renderer) bool {
	_, ok := s.queued[r]
	return ok
}

// Report passes an error raised outside a render by r to OnError.
func (s *Scheduler) Report(r Renderer, err error) {
	if s.onError != nil {
		s.onError(r, err)
	}
}

// Flush renders every pending element once, in enqueue order, and clears
// the queue. Elements enqueued while the flush runs go into a fresh queue
// with its own flush microtask, so they still render in this turn.
// A render error is logged and reported to OnError; the flush continues.
func (s *Scheduler) Flush() {
	batch := s.pending
	s.pending = nil
	s.queued = make(map[Renderer]struct{})
	s.scheduled = false

	if len(batch) == 0 {
		return
	}

	ctx, span := s.tracer.Start(context.Background(), "elix.render.flush",
		trace.WithAttributes(attribute.Int("render.count", len(batch))))
	defer span.End()

	start := time.Now()
	failed := 0
	for _, r := range batch {
		if err := r.Render(ctx); err != nil {
			failed++
			span.RecordError(err)
			s.logger.Error("render failed", "error", err)
			s.Report(r, err)
		}
	}

	if failed > 0 {
		span.SetStatus(codes.Error, "render failed")
		span.SetAttributes(attribute.Int("render.errors", failed))
	}
	if s.metrics != nil {
		s.metrics.pending.Sub(float64(len(batch)))
		s.metrics.rendersTotal.Add(float64(len(batch)))
		s.metrics.renderErrors.Add(float64(failed))
		s.metrics.flushesTotal.Inc()
		s.metrics.flushDuration.Observe(time.Since(start).Seconds())
	}
}
