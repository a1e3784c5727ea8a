package router

import (
	"context"
	"io"
	"testing"
)

// stubView is a Renderable that writes its name.
type stubView string

func (v stubView) Render(ctx context.Context, w io.Writer, props Props) error {
	_, err := io.WriteString(w, string(v))
	return err
}

// appTable mirrors the application's two-route table.
func appTable() Table {
	return Table{
		{Path: "/", Name: "Home", View: stubView("home")},
		{Path: "/login", Name: "Login", View: stubView("login"), Props: true},
	}
}

func newTestRouter(t *testing.T, routes Table) *Router {
	t.Helper()
	r, err := New(Options{History: WebHistory("/"), Routes: routes})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return r
}
