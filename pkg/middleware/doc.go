// Package middleware provides the HTTP middleware hxstate mounts in front of
// its handlers.
//
// This package includes:
//   - Prometheus metrics, instance-based and registered on an injected registry
//   - OpenTelemetry server spans named after the chi route pattern
//   - Structured request logging with log/slog
//
// All three read the route pattern from chi's routing context after the
// wrapped handler ran, so label and span cardinality stays bounded by the
// number of routes rather than by the number of item ids.
//
// # Prometheus Metrics
//
//	reg := prometheus.NewRegistry()
//	m := middleware.NewMetrics(middleware.WithRegistry(reg))
//	r.Use(m.Middleware)
//	r.Handle("/metrics", m.Handler())
//
// # OpenTelemetry
//
// The tracer comes from the global provider unless WithTracerProvider is
// given. Configure the provider in main() before starting the server.
//
//	r.Use(middleware.Tracing(middleware.WithTracerName("hxstate")))
package middleware
