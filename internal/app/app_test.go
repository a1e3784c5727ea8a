package app

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/vango-dev/routekit/internal/config"
	"github.com/vango-dev/routekit/pkg/router"
	"github.com/vango-dev/routekit/pkg/views"
)

func TestRoutesTable(t *testing.T) {
	routes := Routes()
	if len(routes) != 2 {
		t.Fatalf("len(Routes()) = %d, want 2", len(routes))
	}

	names := make(map[string]bool)
	paths := make(map[string]bool)
	roots := 0
	for _, r := range routes {
		if names[r.Name] {
			t.Errorf("duplicate name %q", r.Name)
		}
		if paths[r.Path] {
			t.Errorf("duplicate path %q", r.Path)
		}
		names[r.Name] = true
		paths[r.Path] = true
		if r.Path == "/" {
			roots++
		}
	}
	if roots != 1 {
		t.Errorf("%d routes have path \"/\", want exactly 1", roots)
	}

	home, login := routes[0], routes[1]
	if home.Path != "/" || home.Name != "Home" || home.View != views.Home || home.Props {
		t.Errorf("Home route = %+v", home)
	}
	if login.Path != "/login" || login.Name != "Login" || login.View != views.Login || !login.Props {
		t.Errorf("Login route = %+v", login)
	}
}

func TestRoutesIsIdempotent(t *testing.T) {
	a, b := Routes(), Routes()
	if !reflect.DeepEqual(a, b) {
		t.Error("Routes() should produce identical tables")
	}

	ra, err := Build(router.WebHistory("/"), nil)
	if err != nil {
		t.Fatal(err)
	}
	rb, err := Build(router.WebHistory("/"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(ra.Routes(), rb.Routes()) {
		t.Error("two builds should hold identical tables")
	}
}

func TestDefaultIsSingleton(t *testing.T) {
	first := Default()
	if first == nil {
		t.Fatal("Default() returned nil")
	}

	var wg sync.WaitGroup
	got := make([]*router.Router, 16)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = Default()
		}(i)
	}
	wg.Wait()

	for i, r := range got {
		if r != first {
			t.Errorf("Default() call %d returned a different instance", i)
		}
	}
}

func TestApplicationRoutingProperties(t *testing.T) {
	r := Default()

	t.Run("home", func(t *testing.T) {
		loc, err := r.Resolve("/")
		if err != nil {
			t.Fatal(err)
		}
		if loc.Name != "Home" || loc.Route.Path != "/" {
			t.Errorf("Resolve(/) = %s %s", loc.Name, loc.Route.Path)
		}
		if loc.Props() != nil {
			t.Error("Home must not receive forwarded props")
		}
	})

	t.Run("login forwards props", func(t *testing.T) {
		loc, err := r.Resolve("/login?next=/&reason=expired")
		if err != nil {
			t.Fatal(err)
		}
		if loc.Name != "Login" || loc.Route.Path != "/login" {
			t.Errorf("Resolve(/login) = %s %s", loc.Name, loc.Route.Path)
		}
		props := loc.Props()
		if props["next"] != "/" || props["reason"] != "expired" {
			t.Errorf("Props() = %v", props)
		}
	})

	t.Run("unregistered path", func(t *testing.T) {
		if _, err := r.Resolve("/does-not-exist"); !errors.Is(err, router.ErrNoMatch) {
			t.Errorf("Resolve(/does-not-exist) = %v, want ErrNoMatch", err)
		}
	})

	t.Run("navigation", func(t *testing.T) {
		nav := r.NewNavigator()
		if _, err := nav.Push(context.Background(), "/"); err != nil {
			t.Fatal(err)
		}
		loc, err := nav.Push(context.Background(), "/login")
		if err != nil || loc.Name != "Login" {
			t.Fatalf("Push(/login) = %v, %v", loc, err)
		}
	})
}

func TestNewApp(t *testing.T) {
	cfg := config.New()
	cfg.History = config.HistoryConfig{Mode: "hash", Base: "/ui"}

	a, err := New(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if a.Router() == nil || a.Router() != a.Router() {
		t.Fatal("App.Router() should return one stable instance")
	}
	h := a.Router().History()
	if h.Mode() != router.ModeHash || h.Base() != "/ui" {
		t.Errorf("history = %s %s", h.Mode(), h.Base())
	}
	if a.Logger == nil {
		t.Error("logger should default")
	}

	cfg.History.Base = "ui"
	if _, err := New(cfg, nil); err == nil {
		t.Error("New with an invalid base should fail")
	}
}

func TestNewAppCaseSensitivity(t *testing.T) {
	tests := []struct {
		sensitive bool
		wantMatch bool
	}{
		{sensitive: false, wantMatch: true},
		{sensitive: true, wantMatch: false},
	}
	for _, tt := range tests {
		cfg := config.New()
		cfg.History.CaseSensitive = tt.sensitive

		a, err := New(cfg, nil)
		if err != nil {
			t.Fatal(err)
		}
		loc, err := a.Router().Resolve("/LOGIN")
		if tt.wantMatch {
			if err != nil || loc.Name != "Login" {
				t.Errorf("sensitive=%v: Resolve(/LOGIN) = %v, %v; want Login", tt.sensitive, loc, err)
			}
			continue
		}
		if !errors.Is(err, router.ErrNoMatch) {
			t.Errorf("sensitive=%v: Resolve(/LOGIN) error = %v, want ErrNoMatch", tt.sensitive, err)
		}
	}
}
