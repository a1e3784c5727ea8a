// Package middleware provides observability for routekit routers and the
// HTTP server that fronts them.
//
// # Prometheus Metrics
//
// Prometheus returns a Metrics value that plugs into a router as a guard
// and an error hook, and wraps HTTP handlers:
//
//	m := middleware.Prometheus(middleware.WithNamespace("myapp"))
//	r.BeforeEach(m.Guard())
//	r.OnError(m.ErrorHook())
//	mux.Use(m.Handler)
//
// Navigation metrics are labelled by route name, never by raw path, so the
// label set stays bounded by the route table.
//
// # OpenTelemetry
//
// OpenTelemetry returns a guard that opens a span for every navigation;
// Trace does the same for HTTP requests. Both use the global tracer
// provider, so configure it in main before building the router:
//
//	otel.SetTracerProvider(tp)
//	r.BeforeEach(middleware.OpenTelemetry(middleware.WithTracerName("myapp")))
package middleware
