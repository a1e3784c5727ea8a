package router

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func recordingGuard(name string, log *[]string) Guard {
	return GuardFunc(func(ctx context.Context, t *Transition, next Next) error {
		*log = append(*log, name+":before")
		err := next(ctx)
		*log = append(*log, name+":after")
		return err
	})
}

func TestComposeGuardsOrder(t *testing.T) {
	var log []string
	guards := []Guard{recordingGuard("a", &log), recordingGuard("b", &log)}

	err := ComposeGuards(context.Background(), &Transition{}, guards, func(context.Context) error {
		log = append(log, "final")
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"a:before", "b:before", "final", "b:after", "a:after"}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("order = %v, want %v", log, want)
	}
}

type guardKey struct{}

func TestComposeGuardsPassesContext(t *testing.T) {
	guards := []Guard{
		GuardFunc(func(ctx context.Context, t *Transition, next Next) error {
			return next(context.WithValue(ctx, guardKey{}, "a"))
		}),
		GuardFunc(func(ctx context.Context, t *Transition, next Next) error {
			return next(context.WithValue(ctx, guardKey{}, ctx.Value(guardKey{}).(string)+"b"))
		}),
	}

	var got any
	err := ComposeGuards(context.Background(), &Transition{}, guards, func(ctx context.Context) error {
		got = ctx.Value(guardKey{})
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if got != "ab" {
		t.Errorf("final saw %v, want ab", got)
	}
}

func TestComposeGuardsShortCircuit(t *testing.T) {
	stop := errors.New("stop")
	called := false
	guards := []Guard{
		GuardFunc(func(ctx context.Context, t *Transition, next Next) error { return stop }),
		GuardFunc(func(ctx context.Context, t *Transition, next Next) error {
			called = true
			return next(ctx)
		}),
	}

	err := ComposeGuards(context.Background(), &Transition{}, guards, func(context.Context) error { return nil })
	if !errors.Is(err, stop) {
		t.Errorf("err = %v, want stop", err)
	}
	if called {
		t.Error("second guard should not run")
	}
}

func TestChain(t *testing.T) {
	var log []string
	g := Chain(recordingGuard("x", &log), recordingGuard("y", &log))
	g.Guard(context.Background(), &Transition{}, func(context.Context) error { return nil })
	if len(log) != 4 || log[0] != "x:before" || log[1] != "y:before" {
		t.Errorf("Chain order = %v", log)
	}
}

func TestOnlyAndSkip(t *testing.T) {
	var log []string
	login := &Transition{To: &Location{Name: "Login"}}
	home := &Transition{To: &Location{Name: "Home"}}
	done := func(context.Context) error { return nil }

	only := Only(recordingGuard("only", &log), "Login")
	only.Guard(context.Background(), home, done)
	if len(log) != 0 {
		t.Errorf("Only ran for Home: %v", log)
	}
	only.Guard(context.Background(), login, done)
	if len(log) != 2 {
		t.Errorf("Only did not run for Login: %v", log)
	}

	log = nil
	skip := Skip(func(t *Transition) bool { return t.Replace }, recordingGuard("skip", &log))
	skip.Guard(context.Background(), &Transition{Replace: true}, done)
	if len(log) != 0 {
		t.Errorf("Skip ran when condition held: %v", log)
	}
	skip.Guard(context.Background(), &Transition{}, done)
	if len(log) != 2 {
		t.Errorf("Skip did not run: %v", log)
	}
}

func TestRedirectError(t *testing.T) {
	err := RedirectTo("/login")
	var r *Redirect
	if !errors.As(err, &r) || r.To != "/login" {
		t.Errorf("RedirectTo = %v", err)
	}
	if err.Error() != "redirect to /login" {
		t.Errorf("Error() = %q", err.Error())
	}
}
