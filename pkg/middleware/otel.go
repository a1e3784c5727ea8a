package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vango-dev/routekit/pkg/router"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultTracerName = "routekit"

// OTelConfig configures the OpenTelemetry guard and HTTP middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "routekit").
	TracerName string

	// IncludeQuery records the destination query string. Query values may
	// carry user input, so it is disabled by default.
	IncludeQuery bool

	// Filter determines which navigations to trace. If nil, all are traced.
	Filter func(t *router.Transition) bool

	// AttributeExtractor adds custom attributes to each navigation span.
	AttributeExtractor func(t *router.Transition) []attribute.KeyValue

	// TracerProvider supplies the tracer. If nil, the global provider is used.
	TracerProvider trace.TracerProvider

	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider uses tp instead of the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithIncludeQuery enables recording the query string.
func WithIncludeQuery(include bool) OTelOption {
	return func(c *OTelConfig) {
		c.IncludeQuery = include
	}
}

// WithNavigationFilter sets a filter function for navigations.
func WithNavigationFilter(filter func(t *router.Transition) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(t *router.Transition) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName: defaultTracerName,
	}
}

func newOTelConfig(opts []OTelOption) OTelConfig {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.TracerProvider != nil {
		config.tracer = config.TracerProvider.Tracer(config.TracerName)
	} else {
		config.tracer = otel.Tracer(config.TracerName)
	}
	return config
}

// OpenTelemetry creates a router guard that traces every navigation.
// The span context is passed down the guard chain, so later guards and the
// after hooks nest under it. Spans carry the destination route and path, the source route, and
// whether the navigation replaced an entry or traversed history. Aborted
// navigations are recorded as errors; redirects are not.
func OpenTelemetry(opts ...OTelOption) router.Guard {
	config := newOTelConfig(opts)

	return router.GuardFunc(func(ctx context.Context, t *router.Transition, next router.Next) error {
		if config.Filter != nil && !config.Filter(t) {
			return next(ctx)
		}

		attrs := transitionAttributes(t, config.IncludeQuery)
		if config.AttributeExtractor != nil {
			attrs = append(attrs, config.AttributeExtractor(t)...)
		}

		ctx, span := config.tracer.Start(ctx, formatSpanName(t),
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(attrs...),
		)
		defer span.End()

		err := next(ctx)

		switch outcome(err) {
		case OutcomeAborted:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		case OutcomeRedirected:
			span.SetAttributes(attribute.String("routekit.redirect", err.Error()))
			span.SetStatus(codes.Ok, "")
		default:
			span.SetStatus(codes.Ok, "")
		}
		return err
	})
}

// Trace wraps an HTTP handler with a server span per request. The span
// context is stored in the request context so guards run while serving
// the request nest under it.
func Trace(opts ...OTelOption) func(http.Handler) http.Handler {
	config := newOTelConfig(opts)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := config.tracer.Start(r.Context(), "HTTP "+r.Method,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.method", r.Method),
					attribute.String("http.target", r.URL.Path),
				),
			)
			defer span.End()

			next.ServeHTTP(w, r.WithContext(ctx))
			span.SetAttributes(attribute.String("http.route", routePattern(r)))
		})
	}
}

func transitionAttributes(t *router.Transition, includeQuery bool) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("routekit.route", t.To.Name),
		attribute.String("routekit.path", t.To.Path),
		attribute.Bool("routekit.replace", t.Replace),
		attribute.Bool("routekit.traversal", t.Traversal),
	}
	if t.From != nil {
		attrs = append(attrs, attribute.String("routekit.from", t.From.Name))
	}
	if includeQuery && len(t.To.Query) > 0 {
		attrs = append(attrs, attribute.String("routekit.query", t.To.Query.Encode()))
	}
	return attrs
}

func formatSpanName(t *router.Transition) string {
	if t.Traversal {
		return fmt.Sprintf("routekit traverse %s", t.To.Name)
	}
	return fmt.Sprintf("routekit navigate %s", t.To.Name)
}
