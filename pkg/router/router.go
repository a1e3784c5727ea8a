package router

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	rkerrors "github.com/vango-dev/routekit/internal/errors"
	"github.com/vango-dev/routekit/pkg/routepath"
)

// Error targets for errors.Is.
var (
	ErrNoMatch          = rkerrors.Code("R010")
	ErrUnknownRoute     = rkerrors.Code("R011")
	ErrMissingParam     = rkerrors.Code("R012")
	ErrInvalidTarget    = rkerrors.Code("R013")
	ErrAborted          = rkerrors.Code("R014")
	ErrInvalidParam     = rkerrors.Code("R015")
	ErrNoHistoryEntry   = rkerrors.Code("R016")
	ErrTooManyRedirects = rkerrors.Code("R017")
)

// Options configures New.
type Options struct {
	// History selects how locations are synchronized with URLs.
	History History

	// Routes is the ordered route table.
	Routes Table

	// Logger receives navigation logs. If nil, slog.Default() is used.
	Logger *slog.Logger

	// Sensitive makes static segments match case-sensitively.
	// By default "/LOGIN" resolves like "/login".
	Sensitive bool
}

// Router resolves locations against an immutable route table.
type Router struct {
	history History
	routes  Table
	byName  map[string]int
	root    *routeNode
	logger  *slog.Logger
	fold    bool

	mu      sync.RWMutex
	before  []Guard
	after   []AfterHook
	onError []ErrorHook
}

// New validates the table and builds a router.
// Validation failures are returned as ValidationErrors.
func New(opts Options) (*Router, error) {
	if opts.History == nil {
		return nil, rkerrors.New("R006").
			WithSuggestion("Pass router.WebHistory(\"/\") or router.HashHistory(\"/\")")
	}
	if err := opts.History.Err(); err != nil {
		return nil, rkerrors.New("R007").WithRoute(opts.History.Base()).Wrap(err)
	}
	if err := ValidateTable(opts.Routes); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := &Router{
		history: opts.History,
		routes:  opts.Routes.Clone(),
		byName:  make(map[string]int, len(opts.Routes)),
		root:    newRouteNode(""),
		logger:  logger,
		fold:    !opts.Sensitive,
	}
	for i, route := range r.routes {
		r.byName[route.Name] = i
		r.root.insertRoute(route.Path).route = i
	}
	return r, nil
}

// MustNew is like New but panics on error. Intended for package-level
// tables known to be valid.
func MustNew(opts Options) *Router {
	r, err := New(opts)
	if err != nil {
		panic(err)
	}
	return r
}

// History returns the router's history strategy.
func (r *Router) History() History {
	return r.history
}

// Routes returns a copy of the route table.
func (r *Router) Routes() Table {
	return r.routes.Clone()
}

// HasRoute reports whether a route with the given name exists.
func (r *Router) HasRoute(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Route returns the route with the given name.
func (r *Router) Route(name string) (Route, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Route{}, false
	}
	return r.routes[i], true
}

// BeforeEach registers a guard that runs before every navigation.
func (r *Router) BeforeEach(g ...Guard) {
	r.mu.Lock()
	r.before = append(r.before, g...)
	r.mu.Unlock()
}

// AfterEach registers a hook that runs after every committed navigation.
func (r *Router) AfterEach(h AfterHook) {
	r.mu.Lock()
	r.after = append(r.after, h)
	r.mu.Unlock()
}

// OnError registers a hook for failed navigations.
func (r *Router) OnError(h ErrorHook) {
	r.mu.Lock()
	r.onError = append(r.onError, h)
	r.mu.Unlock()
}

// Resolve maps an application location ("/login?next=/") to the first
// route that matches it. Unmatched locations return an error matching
// ErrNoMatch.
func (r *Router) Resolve(to string) (*Location, error) {
	res, err := routepath.ValidateNavTarget(to)
	if err != nil {
		return nil, rkerrors.New("R013").WithRoute(to).Wrap(err)
	}

	idx, params := r.root.match(routepath.Segments(res.Path), make(map[string]string), r.fold)
	if idx < 0 {
		return nil, rkerrors.New("R010").WithRoute(res.Path)
	}

	// The query and fragment never decide the match. Malformed pairs are
	// dropped and an undecodable fragment is kept raw.
	query, err := url.ParseQuery(res.Query)
	if err != nil {
		r.logger.Debug("dropped malformed query pairs", "target", to, "error", err)
	}
	fragment, err := url.PathUnescape(res.Fragment)
	if err != nil {
		fragment = res.Fragment
	}

	route := r.routes[idx]
	return &Location{
		Path:     res.Path,
		Query:    query,
		Fragment: fragment,
		FullPath: res.String(),
		Name:     route.Name,
		Params:   params,
		Route:    &route,
	}, nil
}

// ResolveURL resolves the location carried by a request URL under the
// router's history strategy.
func (r *Router) ResolveURL(u *url.URL) (*Location, error) {
	loc, ok := r.history.Location(u)
	if !ok {
		return nil, rkerrors.New("R010").
			WithRoute(u.Path).
			WithDetail("The URL is outside the history base " + r.history.Base() + ".")
	}
	return r.Resolve(loc)
}

// ResolveNamed builds the location of a named route from its params and
// an optional query.
func (r *Router) ResolveNamed(name string, params map[string]string, query url.Values) (*Location, error) {
	i, ok := r.byName[name]
	if !ok {
		return nil, rkerrors.New("R011").
			WithRoute(name).
			WithSuggestion("Known routes: " + strings.Join(r.routes.Names(), ", "))
	}
	route := r.routes[i]

	segments := routepath.Segments(route.Path)
	out := make([]string, 0, len(segments))
	resolved := make(map[string]string)
	for _, seg := range segments {
		switch {
		case strings.HasPrefix(seg, "*"):
			pname := seg[1:]
			value, ok := params[pname]
			if !ok || value == "" {
				return nil, rkerrors.New("R012").WithRoute(route.Path).WithSuggestion("Provide a value for " + pname)
			}
			parts := strings.Split(strings.Trim(value, "/"), "/")
			for j, p := range parts {
				parts[j] = url.PathEscape(p)
			}
			out = append(out, parts...)
			resolved[pname] = strings.Trim(value, "/")
		case strings.HasPrefix(seg, ":"):
			pname, typ := parseParamSegment(seg)
			value, ok := params[pname]
			if !ok || value == "" {
				return nil, rkerrors.New("R012").WithRoute(route.Path).WithSuggestion("Provide a value for " + pname)
			}
			if err := ValidateParam(value, typ); err != nil {
				return nil, rkerrors.New("R015").WithRoute(route.Path).Wrap(err)
			}
			out = append(out, url.PathEscape(value))
			resolved[pname] = value
		default:
			out = append(out, seg)
		}
	}

	path := "/" + strings.Join(out, "/")
	fullPath := path
	if len(query) > 0 {
		fullPath += "?" + query.Encode()
	}
	if query == nil {
		query = url.Values{}
	}

	return &Location{
		Path:     path,
		Query:    query,
		FullPath: fullPath,
		Name:     route.Name,
		Params:   resolved,
		Route:    &route,
	}, nil
}

// Href returns the browser URL reference for a location.
func (r *Router) Href(loc *Location) string {
	return r.history.Href(loc.FullPath)
}

// runGuards runs the registered guards for a transition. It returns the
// context that reached the end of the chain, or ctx when a guard ended the
// chain early.
func (r *Router) runGuards(ctx context.Context, t *Transition) (context.Context, error) {
	r.mu.RLock()
	guards := append([]Guard(nil), r.before...)
	r.mu.RUnlock()

	committed := ctx
	err := ComposeGuards(ctx, t, guards, func(c context.Context) error {
		committed = c
		return nil
	})
	return committed, err
}

func (r *Router) runAfter(ctx context.Context, to, from *Location) {
	r.mu.RLock()
	hooks := append([]AfterHook(nil), r.after...)
	r.mu.RUnlock()
	for _, h := range hooks {
		h(ctx, to, from)
	}
}

func (r *Router) reportError(ctx context.Context, target string, err error) {
	r.mu.RLock()
	hooks := append([]ErrorHook(nil), r.onError...)
	r.mu.RUnlock()

	r.logger.DebugContext(ctx, "navigation failed", "target", target, "error", err)
	for _, h := range hooks {
		h(ctx, target, err)
	}
}
