package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/routekit/internal/config"
	rkerrors "github.com/vango-dev/routekit/internal/errors"
	"github.com/vango-dev/routekit/pkg/router"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestRoutesCommand(t *testing.T) {
	out, err := run(t, "routes", "--config", t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Home", "Login", "/login", "yes"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Home") > strings.Index(out, "Login") {
		t.Error("routes should be listed in table order")
	}
}

func TestInitCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "site")

	out, err := run(t, "init", "--config", dir, "--name", "portal", "--history", "hash", "--base", "/ui")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Wrote") || !strings.Contains(out, "hash at /ui") {
		t.Errorf("output = %q", out)
	}

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("Load() after init: %v", err)
	}
	if cfg.Name != "portal" || cfg.History.Mode != "hash" || cfg.History.Base != "/ui" {
		t.Errorf("written config = %+v", cfg)
	}

	if _, err := run(t, "init", "--config", dir); err == nil {
		t.Error("init should refuse to overwrite without --force")
	}
	if _, err := run(t, "init", "--config", dir, "--force"); err != nil {
		t.Errorf("init --force: %v", err)
	}
	if _, err := run(t, "init", "--config", t.TempDir(), "--history", "memory"); !errors.Is(err, rkerrors.Code("C004")) {
		t.Errorf("init with bad mode = %v, want C004", err)
	}
}

func TestRoutesCommandJSON(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, config.JSONFileName), []byte(`{"history":{"mode":"hash","base":"/ui"}}`), 0o644)

	out, err := run(t, "routes", "--json", "--config", dir)
	if err != nil {
		t.Fatal(err)
	}
	var infos []routeInfo
	if err := json.Unmarshal([]byte(out), &infos); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if len(infos) != 2 {
		t.Fatalf("len = %d, want 2", len(infos))
	}
	if infos[1].Href != "/ui#/login" || infos[1].History != "hash" || !infos[1].Props {
		t.Errorf("Login = %+v", infos[1])
	}
}

func TestResolveCommand(t *testing.T) {
	out, err := run(t, "resolve", "/login?next=/", "--config", t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "matched Login") || !strings.Contains(out, "next=/") {
		t.Errorf("output = %q", out)
	}

	out, err = run(t, "resolve", "/", "--config", t.TempDir())
	if err != nil || !strings.Contains(out, "not forwarded") {
		t.Errorf("resolve / = %q, %v", out, err)
	}

	_, err = run(t, "resolve", "/does-not-exist", "--config", t.TempDir())
	if !errors.Is(err, router.ErrNoMatch) {
		t.Errorf("resolve unmatched error = %v, want ErrNoMatch", err)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version", "--short")
	if err != nil || strings.TrimSpace(out) != version {
		t.Errorf("version --short = %q, %v", out, err)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, config.JSONFileName), []byte(`{"history":{"mode":"memory"}}`), 0o644)
	if _, err := loadConfig(dir); err == nil {
		t.Error("loadConfig should reject an unknown history mode")
	}
}

func TestBuildServer(t *testing.T) {
	dir := t.TempDir()
	public := filepath.Join(dir, "public")
	os.MkdirAll(public, 0o755)
	os.WriteFile(filepath.Join(public, "app.1a2b.js"), []byte("x"), 0o644)
	os.WriteFile(filepath.Join(public, "manifest.json"), []byte(`{"app.js":"app.1a2b.js"}`), 0o644)
	os.WriteFile(filepath.Join(dir, config.JSONFileName), []byte(`{"name":"demo"}`), 0o644)

	cfg, err := loadConfig(dir)
	if err != nil {
		t.Fatal(err)
	}
	srv, err := buildServer(context.Background(), cfg, discard)
	if err != nil {
		t.Fatal(err)
	}

	get := func(target string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		return rec
	}

	page := get("/login")
	if page.Code != http.StatusOK {
		t.Fatalf("GET /login = %d", page.Code)
	}
	body := page.Body.String()
	if !strings.Contains(body, "<title>demo</title>") || !strings.Contains(body, "/assets/app.1a2b.js") {
		t.Errorf("page:\n%s", body)
	}
	if rec := get("/assets/app.1a2b.js"); rec.Code != http.StatusOK {
		t.Errorf("GET asset = %d", rec.Code)
	}
	if rec := get("/does-not-exist"); rec.Code != http.StatusNotFound {
		t.Errorf("GET unmatched = %d", rec.Code)
	}
	if rec := get("/metrics"); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "routekit_http_requests_total") {
		t.Errorf("GET /metrics = %d", rec.Code)
	}
}
