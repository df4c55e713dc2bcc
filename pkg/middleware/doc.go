// Package middleware provides HTTP middleware for the elix server.
//
// This package includes:
//   - OpenTelemetry request tracing
//   - Prometheus request metrics
//   - Structured request logging
//
// Each middleware has the standard func(http.Handler) http.Handler shape and
// can be mounted on a chi router or any other mux.
//
// # OpenTelemetry Middleware
//
// OpenTelemetry starts a server span for every request and stores it in the
// request context, so handlers and the elements they render continue the
// trace.
//
//	r := chi.NewRouter()
//	r.Use(middleware.OpenTelemetry(
//	    middleware.WithTracerName("my-app"),
//	    middleware.WithRequestFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/healthz"
//	    }),
//	))
//
// # Prometheus Metrics
//
// Prometheus records:
//   - elix_http_requests_total: requests by route and status class
//   - elix_http_request_duration_seconds: request duration by route
//
//	reg := prometheus.NewRegistry()
//	r.Use(middleware.Prometheus(middleware.WithRegistry(reg)))
//	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
//
// Routes are labelled by their chi route pattern, never the raw path, to
// keep label cardinality bounded.
package middleware
