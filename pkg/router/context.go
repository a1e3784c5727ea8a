package router

import "context"

type (
	locationKey struct{}
	routerKey   struct{}
)

// WithLocation returns a context carrying the location being rendered.
func WithLocation(ctx context.Context, loc *Location) context.Context {
	return context.WithValue(ctx, locationKey{}, loc)
}

// LocationFrom returns the location stored by WithLocation, or nil.
func LocationFrom(ctx context.Context) *Location {
	loc, _ := ctx.Value(locationKey{}).(*Location)
	return loc
}

// WithRouter returns a context carrying the router, so views can build links.
func WithRouter(ctx context.Context, r *Router) context.Context {
	return context.WithValue(ctx, routerKey{}, r)
}

// RouterFrom returns the router stored by WithRouter, or nil.
func RouterFrom(ctx context.Context) *Router {
	r, _ := ctx.Value(routerKey{}).(*Router)
	return r
}
