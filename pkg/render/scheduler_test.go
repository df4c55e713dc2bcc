package render

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/elix-dev/elix/pkg/loop"
)

type countingRenderer struct {
	name  string
	log   *[]string
	err   error
	count int
	then  func()
}

func (c *countingRenderer) Render(context.Context) error {
	c.count++
	if c.log != nil {
		*c.log = append(*c.log, c.name)
	}
	if c.then != nil {
		c.then()
	}
	return c.err
}

func newTestScheduler(opts Options) (*loop.Loop, *Scheduler) {
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	l := loop.New(loop.Options{Logger: quiet})
	if opts.Logger == nil {
		opts.Logger = quiet
	}
	return l, NewScheduler(l, opts)
}

func TestEnqueueSameElementRendersOncePerTurn(t *testing.T) {
	l, s := newTestScheduler(Options{})
	r := &countingRenderer{}

	l.Turn(func() {
		s.Enqueue(r)
		s.Enqueue(r)
		s.Enqueue(r)
		if r.count != 0 {
			t.Error("render ran synchronously inside the turn")
		}
	})

	if r.count != 1 {
		t.Errorf("renders = %d, want 1", r.count)
	}
	if s.Pending() != 0 {
		t.Errorf("pending = %d after flush", s.Pending())
	}
}

func TestFlushInInsertionOrder(t *testing.T) {
	l, s := newTestScheduler(Options{})
	var order []string
	a := &countingRenderer{name: "a", log: &order}
	b := &countingRenderer{name: "b", log: &order}
	c := &countingRenderer{name: "c", log: &order}

	l.Turn(func() {
		s.Enqueue(b)
		s.Enqueue(a)
		s.Enqueue(b)
		s.Enqueue(c)
	})

	want := []string{"b", "a", "c"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestEachTurnGetsItsOwnRender(t *testing.T) {
	l, s := newTestScheduler(Options{})
	r := &countingRenderer{}

	l.Turn(func() { s.Enqueue(r) })
	l.Turn(func() { s.Enqueue(r) })
	l.Turn(func() {})

	if r.count != 2 {
		t.Errorf("renders = %d, want 2", r.count)
	}
}

func TestEnqueueDuringFlushRendersSameTurn(t *testing.T) {
	l, s := newTestScheduler(Options{})
	second := &countingRenderer{}
	first := &countingRenderer{}
	first.then = func() {
		if first.count == 1 {
			s.Enqueue(first) // re-dirtied by an update hook
			s.Enqueue(second)
		}
	}

	l.Turn(func() { s.Enqueue(first) })

	if first.count != 2 || second.count != 1 {
		t.Errorf("first = %d, second = %d; want 2, 1", first.count, second.count)
	}
	if s.Pending() != 0 {
		t.Error("queue not empty at end of turn")
	}
}

func TestRenderErrorDoesNotStopFlush(t *testing.T) {
	var failed []Renderer
	l, s := newTestScheduler(Options{
		OnError: func(r Renderer, err error) { failed = append(failed, r) },
	})
	bad := &countingRenderer{err: errors.New("boom")}
	good := &countingRenderer{}

	l.Turn(func() {
		s.Enqueue(bad)
		s.Enqueue(good)
	})

	if good.count != 1 {
		t.Error("renderer after a failure did not run")
	}
	if len(failed) != 1 || failed[0] != bad {
		t.Errorf("OnError calls = %v", failed)
	}
}

func TestIsPending(t *testing.T) {
	l, s := newTestScheduler(Options{})
	r := &countingRenderer{}
	l.Turn(func() {
		s.Enqueue(r)
		if !s.IsPending(r) {
			t.Error("IsPending false right after Enqueue")
		}
	})
	if s.IsPending(r) {
		t.Error("IsPending true after flush")
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg), WithNamespace("test"))
	l, s := newTestScheduler(Options{Metrics: m})

	a := &countingRenderer{}
	b := &countingRenderer{err: errors.New("boom")}
	l.Turn(func() {
		s.Enqueue(a)
		s.Enqueue(b)
		if got := testutil.ToFloat64(m.pending); got != 2 {
			t.Errorf("pending gauge = %v, want 2", got)
		}
	})
	l.Turn(func() { s.Enqueue(a) })

	if got := testutil.ToFloat64(m.rendersTotal); got != 3 {
		t.Errorf("renders_total = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.renderErrors); got != 1 {
		t.Errorf("render_errors_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.flushesTotal); got != 2 {
		t.Errorf("flushes_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.pending); got != 0 {
		t.Errorf("pending gauge = %v, want 0", got)
	}
	if n, err := testutil.GatherAndCount(reg, "test_render_flush_duration_seconds"); err != nil || n != 1 {
		t.Errorf("flush histogram count = %d, %v", n, err)
	}
}

func TestMetricsOptions(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(
		WithRegistry(reg),
		WithNamespace("test"),
		WithSubsystem("ui"),
		WithConstLabels(prometheus.Labels{"pool": "main"}),
		WithBuckets([]float64{0.001, 0.01, 0.1}),
	)
	l, s := newTestScheduler(Options{Metrics: m})
	l.Turn(func() { s.Enqueue(&countingRenderer{}) })

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, mf := range families {
		names = append(names, mf.GetName())
		for _, metric := range mf.GetMetric() {
			pool := ""
			for _, lp := range metric.GetLabel() {
				if lp.GetName() == "pool" {
					pool = lp.GetValue()
				}
			}
			if pool != "main" {
				t.Errorf("%s: pool label = %q, want main", mf.GetName(), pool)
			}
			if h := metric.GetHistogram(); h != nil && len(h.GetBucket()) != 3 {
				t.Errorf("%s: buckets = %d, want 3", mf.GetName(), len(h.GetBucket()))
			}
		}
	}
	want := []string{
		"test_ui_flush_duration_seconds",
		"test_ui_flushes_total",
		"test_ui_pending_renders",
		"test_ui_render_errors_total",
		"test_ui_renders_total",
	}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("metric names mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultScheduler(t *testing.T) {
	if Default() != Default() {
		t.Error("Default() should be shared")
	}
	if Default().Loop() != loop.Default() {
		t.Error("Default scheduler should use the default loop")
	}
}
