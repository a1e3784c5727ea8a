package views

import (
	"html/template"
	"io"
)

var documentTmpl = template.Must(template.New("document").Parse(
	`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <base href="{{.Base}}">
  {{with .Stylesheet}}<link rel="stylesheet" href="{{.}}">{{end}}
</head>
<body data-route="{{.Route}}" data-history="{{.History}}">
<main id="app">{{.Body}}</main>
{{with .Script}}<script src="{{.}}" defer></script>{{end}}
</body>
</html>
`))

// Document describes the HTML shell around a rendered view.
type Document struct {
	Title   string
	Base    string
	Route   string
	History string

	// Stylesheet and Script are resolved asset URLs. Empty ones are omitted.
	Stylesheet string
	Script     string

	// Body is the rendered view. It must already be safe HTML.
	Body template.HTML
}

// WriteDocument renders the shell.
func WriteDocument(w io.Writer, doc Document) error {
	if doc.Base == "" {
		doc.Base = "/"
	}
	return documentTmpl.Execute(w, doc)
}
