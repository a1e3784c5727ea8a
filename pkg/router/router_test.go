package router

import (
	"errors"
	"net/url"
	"reflect"
	"testing"

	rkerrors "github.com/vango-dev/routekit/internal/errors"
)

func TestNewRequiresHistory(t *testing.T) {
	_, err := New(Options{Routes: appTable()})
	if !errors.Is(err, rkerrors.Code("R006")) {
		t.Errorf("New() without history = %v, want R006", err)
	}
}

func TestNewRejectsInvalidBase(t *testing.T) {
	_, err := New(Options{History: WebHistory("app"), Routes: appTable()})
	if !errors.Is(err, rkerrors.Code("R007")) {
		t.Errorf("New() with relative base = %v, want R007", err)
	}
}

func TestNewRejectsInvalidTable(t *testing.T) {
	routes := appTable()
	routes = append(routes, Route{Path: "/signin", Name: "Login", View: stubView("x")})
	_, err := New(Options{History: WebHistory("/"), Routes: routes})
	if !errors.Is(err, rkerrors.Code("R002")) {
		t.Errorf("New() with duplicate name = %v, want R002", err)
	}
}

func TestMustNewPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustNew should panic on an empty table")
		}
	}()
	MustNew(Options{History: WebHistory("/")})
}

func TestNewCopiesTable(t *testing.T) {
	routes := appTable()
	r := newTestRouter(t, routes)
	routes[0].Name = "Changed"

	if !r.HasRoute("Home") {
		t.Error("router should keep its own copy of the table")
	}

	out := r.Routes()
	out[1].Name = "Mutated"
	if got, _ := r.Route("Login"); got.Name != "Login" {
		t.Error("Routes() should return a copy")
	}
}

func TestResolveSupportedPaths(t *testing.T) {
	r := newTestRouter(t, appTable())

	for _, path := range []string{"/", "/login"} {
		t.Run(path, func(t *testing.T) {
			loc, err := r.Resolve(path)
			if err != nil {
				t.Fatalf("Resolve(%q) error: %v", path, err)
			}
			if loc.Route.Path != path {
				t.Errorf("Route.Path = %q, want %q", loc.Route.Path, path)
			}

			matches := 0
			for _, route := range r.Routes() {
				if route.Path == loc.Route.Path {
					matches++
				}
			}
			if matches != 1 {
				t.Errorf("%d table entries share path %q", matches, path)
			}
		})
	}
}

func TestResolveNames(t *testing.T) {
	r := newTestRouter(t, appTable())

	home, err := r.Resolve("/")
	if err != nil {
		t.Fatal(err)
	}
	if home.Name != "Home" {
		t.Errorf("Name = %q, want Home", home.Name)
	}
	if home.Props() != nil {
		t.Errorf("Home should not receive props, got %v", home.Props())
	}

	login, err := r.Resolve("/login?next=/account&reason=expired")
	if err != nil {
		t.Fatal(err)
	}
	if login.Name != "Login" {
		t.Errorf("Name = %q, want Login", login.Name)
	}
	want := Props{"next": "/account", "reason": "expired"}
	if got := login.Props(); !reflect.DeepEqual(got, want) {
		t.Errorf("Props() = %v, want %v", got, want)
	}
}

func TestResolveCanonicalizes(t *testing.T) {
	r := newTestRouter(t, appTable())

	for _, in := range []string{"/login/", "/login//", "/./login", "/x/../login"} {
		loc, err := r.Resolve(in)
		if err != nil {
			t.Errorf("Resolve(%q) error: %v", in, err)
			continue
		}
		if loc.Name != "Login" || loc.Path != "/login" {
			t.Errorf("Resolve(%q) = %s %s", in, loc.Name, loc.Path)
		}
	}
}

func TestResolveNoMatch(t *testing.T) {
	r := newTestRouter(t, appTable())

	for _, path := range []string{"/does-not-exist", "/login/extra", "/loginx"} {
		loc, err := r.Resolve(path)
		if loc != nil {
			t.Errorf("Resolve(%q) = %+v, want nil", path, loc)
		}
		if !errors.Is(err, ErrNoMatch) {
			t.Errorf("Resolve(%q) error = %v, want ErrNoMatch", path, err)
		}
	}
}

func TestResolveIgnoresCaseByDefault(t *testing.T) {
	r := newTestRouter(t, appTable())

	for _, in := range []string{"/LOGIN", "/Login/", "/lOgIn?next=/"} {
		loc, err := r.Resolve(in)
		if err != nil {
			t.Errorf("Resolve(%q) error: %v", in, err)
			continue
		}
		if loc.Name != "Login" {
			t.Errorf("Resolve(%q) = %s, want Login", in, loc.Name)
		}
	}
}

func TestResolveSensitive(t *testing.T) {
	r, err := New(Options{History: WebHistory("/"), Routes: appTable(), Sensitive: true})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Resolve("/LOGIN"); !errors.Is(err, ErrNoMatch) {
		t.Errorf("Resolve(/LOGIN) error = %v, want ErrNoMatch", err)
	}
	if loc, err := r.Resolve("/login"); err != nil || loc.Name != "Login" {
		t.Errorf("Resolve(/login) = %v, %v", loc, err)
	}
}

func TestResolveLenientQuery(t *testing.T) {
	r := newTestRouter(t, appTable())

	tests := []struct {
		target   string
		query    url.Values
		fragment string
	}{
		{"/login?next=/a;b", url.Values{}, ""},
		{"/login?a=%zz&next=/home", url.Values{"next": {"/home"}}, ""},
		{"/login?next=/#bad%zz", url.Values{"next": {"/"}}, "bad%zz"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			loc, err := r.Resolve(tt.target)
			if err != nil {
				t.Fatalf("Resolve(%q) error: %v", tt.target, err)
			}
			if loc.Name != "Login" {
				t.Errorf("Name = %q, want Login", loc.Name)
			}
			if !reflect.DeepEqual(loc.Query, tt.query) {
				t.Errorf("Query = %v, want %v", loc.Query, tt.query)
			}
			if loc.Fragment != tt.fragment {
				t.Errorf("Fragment = %q, want %q", loc.Fragment, tt.fragment)
			}
		})
	}
}

func TestResolveInvalidTarget(t *testing.T) {
	r := newTestRouter(t, appTable())

	for _, target := range []string{"https://evil.example/", "//evil.example", "login", "/../x", "/a\\b"} {
		if _, err := r.Resolve(target); !errors.Is(err, ErrInvalidTarget) {
			t.Errorf("Resolve(%q) error = %v, want ErrInvalidTarget", target, err)
		}
	}
}

func TestResolveFirstMatchWins(t *testing.T) {
	r := newTestRouter(t, Table{
		{Path: "/", Name: "Home", View: stubView("h")},
		{Path: "/:page", Name: "Page", View: stubView("p"), Props: true},
		{Path: "/login", Name: "Login", View: stubView("l")},
	})

	loc, err := r.Resolve("/login")
	if err != nil {
		t.Fatal(err)
	}
	if loc.Name != "Page" {
		t.Errorf("Name = %q, want Page (declared first)", loc.Name)
	}
	if loc.Params["page"] != "login" {
		t.Errorf("Params = %v", loc.Params)
	}
}

func TestResolveIsRepeatable(t *testing.T) {
	a := newTestRouter(t, appTable())
	b := newTestRouter(t, appTable())

	if !reflect.DeepEqual(a.Routes().Names(), b.Routes().Names()) {
		t.Error("two builds from the same table should agree")
	}
	for i, route := range a.Routes() {
		other := b.Routes()[i]
		if route.Path != other.Path || route.Name != other.Name || route.Props != other.Props || route.View != other.View {
			t.Errorf("route %d differs: %+v vs %+v", i, route, other)
		}
	}
}

func TestResolveURL(t *testing.T) {
	r, err := New(Options{History: WebHistory("/app"), Routes: appTable()})
	if err != nil {
		t.Fatal(err)
	}

	loc, err := r.ResolveURL(&url.URL{Path: "/app/login", RawQuery: "next=%2F"})
	if err != nil {
		t.Fatal(err)
	}
	if loc.Name != "Login" || loc.Query.Get("next") != "/" {
		t.Errorf("ResolveURL = %s %v", loc.Name, loc.Query)
	}

	if _, err := r.ResolveURL(&url.URL{Path: "/login"}); !errors.Is(err, ErrNoMatch) {
		t.Errorf("outside base error = %v, want ErrNoMatch", err)
	}
}

func TestResolveNamed(t *testing.T) {
	r := newTestRouter(t, Table{
		{Path: "/", Name: "Home", View: stubView("h")},
		{Path: "/login", Name: "Login", View: stubView("l"), Props: true},
		{Path: "/users/:id:int", Name: "User", View: stubView("u")},
		{Path: "/docs/*rest", Name: "Docs", View: stubView("d")},
	})

	loc, err := r.ResolveNamed("Login", nil, url.Values{"next": {"/"}})
	if err != nil {
		t.Fatal(err)
	}
	if loc.FullPath != "/login?next=%2F" {
		t.Errorf("FullPath = %q", loc.FullPath)
	}
	if loc.Props()["next"] != "/" {
		t.Errorf("Props = %v", loc.Props())
	}

	loc, err = r.ResolveNamed("Home", nil, nil)
	if err != nil || loc.Path != "/" || loc.Query == nil {
		t.Errorf("ResolveNamed(Home) = %+v, %v", loc, err)
	}

	loc, err = r.ResolveNamed("User", map[string]string{"id": "7"}, nil)
	if err != nil || loc.Path != "/users/7" || loc.Params["id"] != "7" {
		t.Errorf("ResolveNamed(User) = %+v, %v", loc, err)
	}

	loc, err = r.ResolveNamed("Docs", map[string]string{"rest": "a b/c"}, nil)
	if err != nil || loc.Path != "/docs/a%20b/c" {
		t.Errorf("ResolveNamed(Docs) = %+v, %v", loc, err)
	}

	_, err = r.ResolveNamed("Nope", nil, nil)
	if !errors.Is(err, ErrUnknownRoute) {
		t.Errorf("unknown name error = %v", err)
	}
	var rkErr *rkerrors.Error
	if errors.As(err, &rkErr) && rkErr.Suggestion != "Known routes: Home, Login, User, Docs" {
		t.Errorf("Suggestion = %q", rkErr.Suggestion)
	}
	if _, err := r.ResolveNamed("User", nil, nil); !errors.Is(err, ErrMissingParam) {
		t.Errorf("missing param error = %v", err)
	}
	if _, err := r.ResolveNamed("User", map[string]string{"id": "x"}, nil); !errors.Is(err, ErrInvalidParam) {
		t.Errorf("invalid param error = %v", err)
	}
}

func TestHasRouteAndRoute(t *testing.T) {
	r := newTestRouter(t, appTable())

	if !r.HasRoute("Home") || !r.HasRoute("Login") {
		t.Error("HasRoute should find both routes")
	}
	if r.HasRoute("Signup") {
		t.Error("HasRoute(Signup) should be false")
	}
	route, ok := r.Route("Login")
	if !ok || route.Path != "/login" || !route.Props {
		t.Errorf("Route(Login) = %+v, %v", route, ok)
	}
}

func TestHref(t *testing.T) {
	tests := []struct {
		history History
		want    string
	}{
		{WebHistory("/"), "/login?next=%2F"},
		{WebHistory("/app/"), "/app/login?next=%2F"},
		{HashHistory("/"), "/#/login?next=%2F"},
	}
	for _, tt := range tests {
		r, err := New(Options{History: tt.history, Routes: appTable()})
		if err != nil {
			t.Fatal(err)
		}
		loc, err := r.ResolveNamed("Login", nil, url.Values{"next": {"/"}})
		if err != nil {
			t.Fatal(err)
		}
		if got := r.Href(loc); got != tt.want {
			t.Errorf("%s Href = %q, want %q", tt.history.Mode(), got, tt.want)
		}
	}
}
