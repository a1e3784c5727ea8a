package router

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	rkerrors "github.com/vango-dev/routekit/internal/errors"
)

// maxRedirects bounds guard redirect chains.
const maxRedirects = 10

// NavigateOptions configures a navigation.
type NavigateOptions struct {
	// Replace replaces the current history entry instead of pushing.
	Replace bool

	// Query is merged into the target's query string.
	Query map[string]any
}

// NavigateOption is a functional option for Navigate.
type NavigateOption func(*NavigateOptions)

// WithReplace replaces the current history entry instead of pushing.
func WithReplace() NavigateOption {
	return func(o *NavigateOptions) {
		o.Replace = true
	}
}

// WithQuery adds query parameters to the navigation target.
func WithQuery(query map[string]any) NavigateOption {
	return func(o *NavigateOptions) {
		o.Query = query
	}
}

// Navigator walks a router's locations and keeps the back/forward stack.
// A Navigator is safe for concurrent use; each browsing session (a tab, a
// websocket connection, a request) should own its own.
type Navigator struct {
	router *Router

	mu      sync.Mutex
	entries []*Location
	index   int
}

// NewNavigator creates a navigator with an empty history.
func (r *Router) NewNavigator() *Navigator {
	return &Navigator{router: r, index: -1}
}

// Router returns the router the navigator resolves against.
func (n *Navigator) Router() *Router {
	return n.router
}

// Current returns the committed location, or nil before the first navigation.
func (n *Navigator) Current() *Location {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.index < 0 {
		return nil
	}
	return n.entries[n.index]
}

// Len returns the number of history entries.
func (n *Navigator) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.entries)
}

// Index returns the position of the current entry, -1 when empty.
func (n *Navigator) Index() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.index
}

// Push navigates to target, adding a history entry.
func (n *Navigator) Push(ctx context.Context, target string, opts ...NavigateOption) (*Location, error) {
	return n.Navigate(ctx, target, opts...)
}

// Replace navigates to target, replacing the current history entry.
func (n *Navigator) Replace(ctx context.Context, target string, opts ...NavigateOption) (*Location, error) {
	return n.Navigate(ctx, target, append(opts, WithReplace())...)
}

// Navigate resolves target, runs the guards and commits the result.
func (n *Navigator) Navigate(ctx context.Context, target string, opts ...NavigateOption) (*Location, error) {
	var options NavigateOptions
	for _, opt := range opts {
		opt(&options)
	}

	target, err := withQuery(target, options.Query)
	if err != nil {
		err = rkerrors.New("R013").WithRoute(target).Wrap(err)
		n.router.reportError(ctx, target, err)
		return nil, err
	}

	return n.navigate(ctx, target, options.Replace)
}

func (n *Navigator) navigate(ctx context.Context, target string, replace bool) (*Location, error) {
	for redirects := 0; ; redirects++ {
		if redirects > maxRedirects {
			err := rkerrors.New("R017").WithRoute(target)
			n.router.reportError(ctx, target, err)
			return nil, err
		}

		to, err := n.router.Resolve(target)
		if err != nil {
			n.router.reportError(ctx, target, err)
			return nil, err
		}

		from := n.Current()
		guarded, next, err := n.guard(ctx, &Transition{To: to, From: from, Replace: replace})
		if err != nil {
			return nil, err
		}
		if next != "" {
			target = next
			continue
		}

		n.mu.Lock()
		if replace && n.index >= 0 {
			n.entries[n.index] = to
		} else {
			n.entries = append(n.entries[:n.index+1], to)
			n.index++
		}
		n.mu.Unlock()

		n.router.logger.DebugContext(guarded, "navigated", "route", to.Name, "path", to.FullPath, "replace", replace)
		n.router.runAfter(guarded, to, from)
		return to, nil
	}
}

// guard runs the router guards. It returns the context the chain handed
// on, and a redirect target when a guard asks for one.
func (n *Navigator) guard(ctx context.Context, t *Transition) (context.Context, string, error) {
	guarded, err := n.router.runGuards(ctx, t)
	if err == nil {
		return guarded, "", nil
	}

	var redirect *Redirect
	if errors.As(err, &redirect) {
		return ctx, redirect.To, nil
	}

	aborted := rkerrors.New("R014").WithRoute(t.To.FullPath).Wrap(err)
	n.router.reportError(ctx, t.To.FullPath, aborted)
	return ctx, "", aborted
}

// Back moves one entry back.
func (n *Navigator) Back(ctx context.Context) (*Location, error) {
	return n.Go(ctx, -1)
}

// Forward moves one entry forward.
func (n *Navigator) Forward(ctx context.Context) (*Location, error) {
	return n.Go(ctx, 1)
}

// Go moves delta entries through the history. Guards run for the
// destination; a guard redirect turns the traversal into a push.
func (n *Navigator) Go(ctx context.Context, delta int) (*Location, error) {
	n.mu.Lock()
	target := n.index + delta
	if delta == 0 || target < 0 || target >= len(n.entries) {
		n.mu.Unlock()
		err := rkerrors.New("R016").WithDetail(fmt.Sprintf("Cannot move %d entries from position %d of %d.", delta, n.index, len(n.entries)))
		n.router.reportError(ctx, "", err)
		return nil, err
	}
	to := n.entries[target]
	from := n.entries[n.index]
	n.mu.Unlock()

	guarded, next, err := n.guard(ctx, &Transition{To: to, From: from, Traversal: true})
	if err != nil {
		return nil, err
	}
	if next != "" {
		return n.navigate(ctx, next, false)
	}

	n.mu.Lock()
	n.index = target
	n.mu.Unlock()

	n.router.runAfter(guarded, to, from)
	return to, nil
}

// withQuery merges extra query parameters into target.
func withQuery(target string, extra map[string]any) (string, error) {
	if len(extra) == 0 {
		return target, nil
	}
	u, err := url.Parse(target)
	if err != nil {
		return target, fmt.Errorf("invalid path: %s", target)
	}
	q := u.Query()
	for k, v := range extra {
		q.Set(k, fmt.Sprintf("%v", v))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
