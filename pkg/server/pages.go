package server

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"net/http"

	rkerrors "github.com/vango-dev/routekit/internal/errors"
	"github.com/vango-dev/routekit/pkg/router"
	"github.com/vango-dev/routekit/pkg/views"
)

// handlePage is the history fallback. It maps the request URL to an
// application location and renders the matching view.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	loc, err := s.router.ResolveURL(r.URL)
	if err != nil {
		if errors.Is(err, router.ErrNoMatch) || errors.Is(err, router.ErrInvalidTarget) {
			s.renderNotFound(w, r, r.URL.Path)
			return
		}
		s.renderError(w, r, err)
		return
	}

	s.render(w, r, http.StatusOK, loc, loc.Route.View, loc.Props())
}

func (s *Server) renderNotFound(w http.ResponseWriter, r *http.Request, path string) {
	s.render(w, r, http.StatusNotFound, nil, s.notFound, router.Props{"path": path})
}

// render writes view inside the document. The view renders into a buffer
// first so a failing view never leaves a half-written page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, loc *router.Location, view router.Renderable, props router.Props) {
	ctx := router.WithRouter(r.Context(), s.router)
	if loc != nil {
		ctx = router.WithLocation(ctx, loc)
	}

	body, err := renderView(ctx, view, props)
	if err != nil {
		s.renderError(w, r, rkerrors.New("S004").WithRoute(routeName(loc)).Wrap(err))
		return
	}

	history := s.router.History()
	doc := views.Document{
		Title:      s.config.Title,
		Base:       documentBase(history.Base()),
		Route:      routeName(loc),
		History:    string(history.Mode()),
		Stylesheet: s.resolver.Asset("app.css"),
		Script:     s.resolver.Asset("app.js"),
		Body:       body,
	}

	var page bytes.Buffer
	if err := views.WriteDocument(&page, doc); err != nil {
		s.renderError(w, r, rkerrors.New("S004").Wrap(err))
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		w.Write(page.Bytes())
	}
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.ErrorContext(r.Context(), "render failed", "path", r.URL.Path, "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func renderView(ctx context.Context, view router.Renderable, props router.Props) (template.HTML, error) {
	var buf bytes.Buffer
	if err := view.Render(ctx, &buf, props); err != nil {
		return "", err
	}
	// Views render through html/template, so their output is already escaped.
	return template.HTML(buf.String()), nil
}

func routeName(loc *router.Location) string {
	if loc == nil {
		return ""
	}
	return loc.Name
}

// documentBase returns the <base href> for a history base. Relative asset
// and link URLs resolve against a directory, so it ends in "/".
func documentBase(base string) string {
	if base == "" || base == "/" {
		return "/"
	}
	return base + "/"
}
