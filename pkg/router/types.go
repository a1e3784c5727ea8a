package router

import (
	"context"
	"io"
	"net/url"
)

// Props are the inputs forwarded from a location to its view.
type Props map[string]string

// Renderable is anything a route can display.
type Renderable interface {
	// Render writes the view for the given props. Props is nil for routes
	// that do not forward route data.
	Render(ctx context.Context, w io.Writer, props Props) error
}

// RenderFunc adapts a function to Renderable.
type RenderFunc func(ctx context.Context, w io.Writer, props Props) error

// Render implements Renderable.
func (f RenderFunc) Render(ctx context.Context, w io.Writer, props Props) error {
	return f(ctx, w, props)
}

// Route describes one destination of the application.
type Route struct {
	// Path is the URL pattern (e.g., "/login", "/users/:id:int").
	Path string

	// Name identifies the route for named navigation.
	Name string

	// View is rendered when the route matches.
	View Renderable

	// Props forwards params and query to the view as inputs.
	Props bool
}

// Table is an ordered route list. Order decides which route wins when
// several patterns match the same location.
type Table []Route

// Clone returns a copy of the table.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	out := make(Table, len(t))
	copy(out, t)
	return out
}

// Names returns the route names in table order.
func (t Table) Names() []string {
	names := make([]string, len(t))
	for i, r := range t {
		names[i] = r.Name
	}
	return names
}

// Location is a resolved navigation target.
type Location struct {
	// Path is the canonical application path, without base, query or fragment.
	Path string

	// Query holds the decoded query parameters.
	Query url.Values

	// Fragment is the decoded fragment without "#".
	Fragment string

	// FullPath is Path with query and fragment re-attached.
	FullPath string

	// Name is the matched route name.
	Name string

	// Params are the decoded route parameters.
	Params map[string]string

	// Route is the matched route. It is never nil for a resolved location.
	Route *Route
}

// Props returns the view inputs for this location: route params overlaid
// on the first value of each query key. It returns nil when the matched
// route does not forward props.
func (l *Location) Props() Props {
	if l == nil || l.Route == nil || !l.Route.Props {
		return nil
	}
	props := make(Props, len(l.Params)+len(l.Query))
	for k, v := range l.Query {
		if len(v) > 0 {
			props[k] = v[0]
		}
	}
	for k, v := range l.Params {
		props[k] = v
	}
	return props
}

// ParamDef describes one parameter in a route pattern.
type ParamDef struct {
	// Name is the parameter name (e.g., "id").
	Name string

	// Type is the declared type (string, int, uint, uuid).
	Type string

	// CatchAll marks a trailing *name segment.
	CatchAll bool
}
