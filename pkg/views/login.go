package views

import (
	"context"
	"html"
	"html/template"
	"io"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/vango-dev/routekit/pkg/routepath"
	"github.com/vango-dev/routekit/pkg/router"
)

// LoginProps are the inputs the login route forwards from its location.
type LoginProps struct {
	// Next is where to go after signing in.
	Next string `prop:"next"`

	// Reason explains why the user was sent here (e.g., "expired").
	Reason string `prop:"reason"`

	// Email pre-fills the email field.
	Email string `prop:"email"`
}

var loginTmpl = template.Must(template.New("login").Parse(
	`<section class="login">
  <nav>{{.Nav}}</nav>
  <h1>Sign in</h1>
{{- if .Reason}}
  <p class="notice">{{.Reason}}</p>
{{- end}}
  <form method="post" action="{{.Action}}">
    <input type="hidden" name="next" value="{{.Next}}">
    <label>Email <input type="email" name="email" value="{{.Email}}"></label>
    <label>Password <input type="password" name="password"></label>
    <button type="submit">Sign in</button>
  </form>
</section>
`))

// LoginView is the sign-in page. It receives route params and query as
// props.
type LoginView struct {
	policy *bluemonday.Policy
}

// NewLoginView creates a login view that strips markup from every prop.
func NewLoginView() *LoginView {
	return &LoginView{policy: bluemonday.StrictPolicy()}
}

// Props decodes and sanitizes forwarded props. A Next target that is not
// an application-relative path is replaced with "/".
func (v *LoginView) Props(props router.Props) (LoginProps, error) {
	var p LoginProps
	if err := router.BindProps(props, &p); err != nil {
		return LoginProps{}, err
	}

	p.Reason = v.plain(p.Reason)
	p.Email = v.plain(p.Email)

	next, err := routepath.ValidateNavTarget(p.Next)
	if err != nil {
		p.Next = "/"
	} else {
		p.Next = next.String()
	}
	return p, nil
}

// plain strips markup and returns text; the template escapes it again.
func (v *LoginView) plain(s string) string {
	return strings.TrimSpace(html.UnescapeString(v.policy.Sanitize(s)))
}

// Render implements router.Renderable.
func (v *LoginView) Render(ctx context.Context, w io.Writer, props router.Props) error {
	p, err := v.Props(props)
	if err != nil {
		return err
	}
	return loginTmpl.Execute(w, struct {
		LoginProps
		Action string
		Nav    template.HTML
	}{
		LoginProps: p,
		Action:     linkOr(ctx, "Login", "/login"),
		Nav:        navLinks(ctx),
	})
}
