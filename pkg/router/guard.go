package router

import (
	"context"
	"fmt"
)

// Transition describes a navigation in progress.
type Transition struct {
	// To is the resolved destination.
	To *Location

	// From is the location being left, nil on the first navigation.
	From *Location

	// Replace reports whether the history entry is replaced, not pushed.
	Replace bool

	// Traversal reports a back/forward move through existing entries.
	Traversal bool
}

// Next continues a guard chain with the given context. A guard that
// derives a context (a span, a deadline) passes it on so later guards and
// the after hooks see it.
type Next func(ctx context.Context) error

// Guard runs before a navigation is committed.
type Guard interface {
	// Guard inspects the transition and calls next to continue the chain.
	// Return an error to abort the navigation, or a *Redirect to send it
	// elsewhere. Returning nil without calling next also allows the
	// navigation but skips the remaining guards.
	Guard(ctx context.Context, t *Transition, next Next) error
}

// GuardFunc is a function adapter for Guard.
type GuardFunc func(ctx context.Context, t *Transition, next Next) error

// Guard implements Guard.
func (f GuardFunc) Guard(ctx context.Context, t *Transition, next Next) error {
	return f(ctx, t, next)
}

// AfterHook runs once a navigation has been committed.
type AfterHook func(ctx context.Context, to, from *Location)

// ErrorHook runs when a navigation fails: no match, invalid target or a
// guard abort.
type ErrorHook func(ctx context.Context, target string, err error)

// Redirect is returned by a guard to send the navigation to another target.
type Redirect struct {
	To string
}

func (r *Redirect) Error() string {
	return fmt.Sprintf("redirect to %s", r.To)
}

// RedirectTo builds a guard result that redirects the navigation.
func RedirectTo(to string) error {
	return &Redirect{To: to}
}

// ComposeGuards runs guards in order with final at the end of the chain.
// Each guard receives the context its predecessor passed to next.
func ComposeGuards(ctx context.Context, t *Transition, guards []Guard, final Next) error {
	chain := final
	for i := len(guards) - 1; i >= 0; i-- {
		g := guards[i]
		next := chain
		chain = func(ctx context.Context) error {
			return g.Guard(ctx, t, next)
		}
	}
	return chain(ctx)
}

// Chain combines several guards into one.
func Chain(guards ...Guard) Guard {
	return GuardFunc(func(ctx context.Context, t *Transition, next Next) error {
		return ComposeGuards(ctx, t, guards, next)
	})
}

// Only runs g when the destination route has one of the given names.
func Only(g Guard, names ...string) Guard {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return GuardFunc(func(ctx context.Context, t *Transition, next Next) error {
		if t.To == nil || !set[t.To.Name] {
			return next(ctx)
		}
		return g.Guard(ctx, t, next)
	})
}

// Skip bypasses g when condition holds.
func Skip(condition func(t *Transition) bool, g Guard) Guard {
	return GuardFunc(func(ctx context.Context, t *Transition, next Next) error {
		if condition(t) {
			return next(ctx)
		}
		return g.Guard(ctx, t, next)
	})
}
