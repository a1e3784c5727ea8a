package views

import (
	"context"
	"html/template"
	"io"
	"strings"

	"github.com/vango-dev/routekit/pkg/router"
)

// Views used by the application route table.
var (
	Home     router.Renderable = HomeView{}
	Login    router.Renderable = NewLoginView()
	NotFound router.Renderable = NotFoundView{}
)

var homeTmpl = template.Must(template.New("home").Parse(
	`<section class="home">
  <h1>Welcome</h1>
  <p>You are on the home page.</p>
  <nav>{{.Nav}}</nav>
</section>
`))

// HomeView is the landing page. It takes no props.
type HomeView struct{}

// Render implements router.Renderable.
func (HomeView) Render(ctx context.Context, w io.Writer, _ router.Props) error {
	return homeTmpl.Execute(w, struct{ Nav template.HTML }{
		Nav: navLinks(ctx),
	})
}

var notFoundTmpl = template.Must(template.New("notfound").Parse(
	`<section class="not-found">
  <h1>Page not found</h1>
  <p>Nothing lives at <code>{{.Path}}</code>.</p>
  <nav><a href="{{.HomeHref}}" data-link="true">Back to home</a></nav>
</section>
`))

// NotFoundView is the fallback shown when no route matches.
type NotFoundView struct{}

// Render implements router.Renderable. The "path" prop carries the
// location that failed to match.
func (NotFoundView) Render(ctx context.Context, w io.Writer, props router.Props) error {
	return notFoundTmpl.Execute(w, struct{ Path, HomeHref string }{
		Path:     props["path"],
		HomeHref: linkOr(ctx, "Home", "/"),
	})
}

// linkOr builds the href of a named route from the router in ctx, falling
// back to a literal path when rendering outside a router.
func linkOr(ctx context.Context, name, fallback string) string {
	r := router.RouterFrom(ctx)
	if r == nil {
		return fallback
	}
	href, err := r.Link(name, nil, nil)
	if err != nil {
		return fallback
	}
	return href
}

var navItems = []struct{ name, text, fallback string }{
	{"Home", "Home", "/"},
	{"Login", "Sign in", "/login"},
}

// navLinks renders the site navigation. The entry for the location in ctx
// is marked active.
func navLinks(ctx context.Context) template.HTML {
	r := router.RouterFrom(ctx)
	current := router.LocationFrom(ctx)

	links := make([]string, 0, len(navItems))
	for _, item := range navItems {
		if r != nil {
			if a, err := r.Anchor(current, item.name, item.text); err == nil {
				links = append(links, a)
				continue
			}
		}
		links = append(links, `<a href="`+template.HTMLEscapeString(item.fallback)+`" data-link="true">`+
			template.HTMLEscapeString(item.text)+`</a>`)
	}
	return template.HTML(strings.Join(links, " "))
}
