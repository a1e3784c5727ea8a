package router

import (
	"fmt"
	"html"
	"net/url"
)

// Link returns the browser href of a named route.
func (r *Router) Link(name string, params map[string]string, query url.Values) (string, error) {
	loc, err := r.ResolveNamed(name, params, query)
	if err != nil {
		return "", err
	}
	return r.Href(loc), nil
}

// MustLink is like Link but panics on error. Use it only for routes that
// take no params.
func (r *Router) MustLink(name string) string {
	href, err := r.Link(name, nil, nil)
	if err != nil {
		panic(err)
	}
	return href
}

// Anchor renders an anchor element for a named route. The data-link
// attribute marks it for client-side interception so the click becomes a
// navigation message instead of a full page load. An active class is added
// when the route is the current location.
func (r *Router) Anchor(current *Location, name, text string) (string, error) {
	href, err := r.Link(name, nil, nil)
	if err != nil {
		return "", err
	}
	class := ""
	if current != nil && current.Name == name {
		class = ` class="active"`
	}
	return fmt.Sprintf(`<a href="%s" data-link="true"%s>%s</a>`,
		html.EscapeString(href), class, html.EscapeString(text)), nil
}
