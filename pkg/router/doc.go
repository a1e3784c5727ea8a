// Package router maps application locations to views.
//
// A Router is built once from an ordered route table and a history
// strategy:
//
//	r, err := router.New(router.Options{
//	    History: router.WebHistory("/"),
//	    Routes: router.Table{
//	        {Path: "/", Name: "Home", View: views.Home},
//	        {Path: "/login", Name: "Login", View: views.Login, Props: true},
//	    },
//	})
//
// Construction validates the table (absolute, well-formed patterns and
// unique names and paths) and compiles it into a radix tree. After New the
// router is read-only and safe for concurrent use.
//
// # Patterns
//
//	/login             static
//	/users/:id         param (any non-empty segment)
//	/users/:id:int     typed param (int, uint, uuid, string)
//	/docs/*rest        catch-all, must be the last segment
//
// When more than one route matches a location, the route declared first in
// the table wins. Static segments ignore letter case unless
// Options.Sensitive is set. The query and fragment never take part in
// matching; malformed query pairs are dropped.
//
// # Navigation
//
// Resolve maps a location string to a Location without side effects. A
// Navigator owns a history stack and runs guards on every transition:
//
//	nav := r.NewNavigator()
//	loc, err := nav.Push(ctx, "/login?next=/")
//	if errors.Is(err, router.ErrNoMatch) {
//	    // render a fallback view
//	}
//
// Guards form a chain. A guard that derives a context passes it to next,
// and the after hooks of a committed navigation receive it:
//
//	r.BeforeEach(router.GuardFunc(func(ctx context.Context, t *router.Transition, next router.Next) error {
//	    return next(context.WithValue(ctx, userKey{}, currentUser(ctx)))
//	}))
//
// Routes declared with Props forward their params and query to the view
// through Location.Props.
package router
