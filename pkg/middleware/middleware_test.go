package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

func newRouter(mw func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(mw)
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("item " + chi.URLParam(r, "id")))
	})
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	return r
}

func serve(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestPrometheusLabelsByRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg), WithNamespace("test"))
	r := newRouter(m.Handler)

	serve(r, "/items/1")
	serve(r, "/items/2")
	serve(r, "/boom")
	serve(r, "/missing")

	tests := []struct {
		route, status string
		want          float64
	}{
		{"/items/{id}", "2xx", 2},
		{"/boom", "5xx", 1},
		{"unmatched", "4xx", 1},
	}
	for _, tt := range tests {
		got := testutil.ToFloat64(m.requestsTotal.WithLabelValues(http.MethodGet, tt.route, tt.status))
		if got != tt.want {
			t.Errorf("requests_total{route=%q,status=%q} = %v, want %v", tt.route, tt.status, got, tt.want)
		}
	}
	if n, err := testutil.GatherAndCount(reg, "test_http_request_duration_seconds"); err != nil || n != 3 {
		t.Errorf("duration series = %d (%v), want 3", n, err)
	}
}

func TestMetricsOptions(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(
		WithRegistry(reg),
		WithNamespace("test"),
		WithSubsystem("web"),
		WithConstLabels(prometheus.Labels{"instance": "a"}),
		WithBuckets([]float64{0.1, 1}),
	)
	serve(newRouter(m.Handler), "/items/1")

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	names := map[string]bool{}
	for _, mf := range families {
		names[mf.GetName()] = true
		for _, metric := range mf.GetMetric() {
			instance := ""
			for _, lp := range metric.GetLabel() {
				if lp.GetName() == "instance" {
					instance = lp.GetValue()
				}
			}
			if instance != "a" {
				t.Errorf("%s: instance label = %q, want a", mf.GetName(), instance)
			}
			if h := metric.GetHistogram(); h != nil && len(h.GetBucket()) != 2 {
				t.Errorf("%s: buckets = %d, want 2", mf.GetName(), len(h.GetBucket()))
			}
		}
	}
	for _, name := range []string{"test_web_requests_total", "test_web_request_duration_seconds"} {
		if !names[name] {
			t.Errorf("missing metric %s, got %v", name, names)
		}
	}
}

func TestPrometheusDefaultsToDefaultRegisterer(t *testing.T) {
	cfg := defaultMetricsConfig()
	if cfg.Registry != prometheus.DefaultRegisterer || cfg.Namespace != "elix" || cfg.Subsystem != "http" {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestStatusClass(t *testing.T) {
	tests := map[int]string{0: "2xx", 101: "1xx", 200: "2xx", 304: "3xx", 404: "4xx", 503: "5xx"}
	for status, want := range tests {
		if got := statusClass(status); got != want {
			t.Errorf("statusClass(%d) = %q, want %q", status, got, want)
		}
	}
}

type recordingProvider struct {
	noop.TracerProvider
	spans []*recordingSpan
}

func (p *recordingProvider) Tracer(name string, _ ...trace.TracerOption) trace.Tracer {
	return &recordingTracer{Tracer: noop.NewTracerProvider().Tracer(name), p: p}
}

type recordingTracer struct {
	trace.Tracer
	p *recordingProvider
}

func (t *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	ctx, span := t.Tracer.Start(ctx, name, opts...)
	rs := &recordingSpan{Span: span, name: name}
	t.p.spans = append(t.p.spans, rs)
	return trace.ContextWithSpan(ctx, rs), rs
}

type recordingSpan struct {
	trace.Span
	name   string
	attrs  []attribute.KeyValue
	failed bool
	ended  bool
}

func (s *recordingSpan) SetName(name string)                    { s.name = name }
func (s *recordingSpan) SetAttributes(kv ...attribute.KeyValue) { s.attrs = append(s.attrs, kv...) }
func (s *recordingSpan) End(...trace.SpanEndOption)             { s.ended = true }
func (s *recordingSpan) SetStatus(code codes.Code, _ string)    { s.failed = code == codes.Error }

func TestOpenTelemetryNamesSpanAfterRoute(t *testing.T) {
	tp := &recordingProvider{}
	var inHandler trace.Span
	r := chi.NewRouter()
	r.Use(OpenTelemetry(WithTracerProvider(tp)))
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		inHandler = trace.SpanFromContext(r.Context())
	})
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	serve(r, "/items/7")
	serve(r, "/boom")

	if len(tp.spans) != 2 {
		t.Fatalf("spans = %d, want 2", len(tp.spans))
	}
	ok, failed := tp.spans[0], tp.spans[1]
	if ok.name != "HTTP GET /items/{id}" || !ok.ended || ok.failed {
		t.Errorf("span = %+v", ok)
	}
	if inHandler != trace.Span(ok) {
		t.Error("handler did not see the request span")
	}
	if !failed.failed {
		t.Error("5xx response should mark the span failed")
	}
}

func TestOpenTelemetryFilter(t *testing.T) {
	tp := &recordingProvider{}
	r := newRouter(OpenTelemetry(WithTracerProvider(tp), WithRequestFilter(func(r *http.Request) bool {
		return !strings.HasPrefix(r.URL.Path, "/items")
	})))

	serve(r, "/items/1")
	if len(tp.spans) != 0 {
		t.Errorf("filtered request produced %d spans", len(tp.spans))
	}
	serve(r, "/boom")
	if len(tp.spans) != 1 {
		t.Errorf("spans = %d, want 1", len(tp.spans))
	}
}

func TestLoggerLogsRouteAndStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := newRouter(Logger(logger))

	serve(r, "/items/3")
	serve(r, "/boom")

	out := buf.String()
	for _, want := range []string{
		`route=/items/{id} status=200`,
		`level=ERROR msg=request method=GET route=/boom status=500`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}
