package router

import (
	"fmt"
	"strings"

	rkerrors "github.com/vango-dev/routekit/internal/errors"
	"github.com/vango-dev/routekit/pkg/routepath"
)

// ValidationErrors collects every problem found in a route table.
type ValidationErrors []*rkerrors.Error

func (e ValidationErrors) Error() string {
	switch len(e) {
	case 0:
		return "no validation errors"
	case 1:
		return e[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d route validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (e ValidationErrors) Unwrap() []error {
	out := make([]error, len(e))
	for i, err := range e {
		out[i] = err
	}
	return out
}

// knownParamTypes are the types a :param may declare.
var knownParamTypes = map[string]bool{
	"string": true,
	"int":    true,
	"uint":   true,
	"uuid":   true,
}

// ValidateTable checks a route table for malformed patterns, missing views
// and duplicate names or paths. It returns nil or a ValidationErrors.
func ValidateTable(routes Table) error {
	if len(routes) == 0 {
		return ValidationErrors{rkerrors.New("R004").
			WithSuggestion("Declare at least one route, usually the \"/\" home route")}
	}

	var errs ValidationErrors
	names := make(map[string]int, len(routes))
	shapes := make(map[string]int, len(routes))

	for i, route := range routes {
		if err := ValidatePattern(route.Path); err != nil {
			errs = append(errs, rkerrors.New("R001").
				WithRoute(route.Path).
				WithIndex(i).
				Wrap(err))
			continue
		}

		if route.Name == "" {
			errs = append(errs, rkerrors.New("R002").
				WithRoute(route.Path).
				WithIndex(i).
				WithDetail("Route names must be non-empty."))
		} else if prev, ok := names[route.Name]; ok {
			errs = append(errs, rkerrors.New("R002").
				WithRoute(route.Path).
				WithIndex(i).
				WithSuggestion(fmt.Sprintf("%q is already used by route #%d (%s)", route.Name, prev, routes[prev].Path)))
		} else {
			names[route.Name] = i
		}

		shape := patternShape(route.Path)
		if prev, ok := shapes[shape]; ok {
			errs = append(errs, rkerrors.New("R003").
				WithRoute(route.Path).
				WithIndex(i).
				WithSuggestion(fmt.Sprintf("Route #%d (%s) already matches the same locations", prev, routes[prev].Path)))
		} else {
			shapes[shape] = i
		}

		if route.View == nil {
			errs = append(errs, rkerrors.New("R005").WithRoute(route.Path).WithIndex(i))
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidatePattern checks that a route pattern is well formed.
func ValidatePattern(pattern string) error {
	if !strings.HasPrefix(pattern, "/") {
		return fmt.Errorf("pattern %q must start with \"/\"", pattern)
	}
	if strings.ContainsAny(pattern, "?#\\ \t") {
		return fmt.Errorf("pattern %q contains a query, fragment, backslash or whitespace", pattern)
	}
	if pattern != "/" && strings.HasSuffix(pattern, "/") {
		return fmt.Errorf("pattern %q has a trailing slash", pattern)
	}

	if pattern == "/" {
		return nil
	}

	segments := strings.Split(strings.TrimPrefix(pattern, "/"), "/")

	seen := make(map[string]bool)
	for i, seg := range segments {
		switch {
		case seg == "":
			return fmt.Errorf("pattern %q has an empty segment", pattern)
		case seg == "." || seg == "..":
			return fmt.Errorf("pattern %q has a dot segment", pattern)
		case strings.HasPrefix(seg, "*"):
			if i != len(segments)-1 {
				return fmt.Errorf("catch-all %q must be the last segment", seg)
			}
			if err := checkParamName(seg[1:], seen); err != nil {
				return err
			}
		case strings.HasPrefix(seg, ":"):
			name, typ := parseParamSegment(seg)
			if err := checkParamName(name, seen); err != nil {
				return err
			}
			if !knownParamTypes[typ] {
				return fmt.Errorf("param %q has unknown type %q", name, typ)
			}
		default:
			if strings.ContainsAny(seg, ":*") {
				return fmt.Errorf("static segment %q contains ':' or '*'", seg)
			}
			if _, err := routepath.DecodeSegment(seg, false); err != nil {
				return fmt.Errorf("static segment %q: %w", seg, err)
			}
		}
	}
	return nil
}

func checkParamName(name string, seen map[string]bool) error {
	if name == "" {
		return fmt.Errorf("parameter without a name")
	}
	for _, r := range name {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return fmt.Errorf("parameter name %q must be alphanumeric", name)
		}
	}
	if seen[name] {
		return fmt.Errorf("parameter %q appears twice", name)
	}
	seen[name] = true
	return nil
}

// patternShape erases parameter names so that /users/:id and /users/:uid
// are recognized as the same path.
func patternShape(pattern string) string {
	segments := routepath.Segments(pattern)
	for i, seg := range segments {
		switch {
		case strings.HasPrefix(seg, "*"):
			segments[i] = "*"
		case strings.HasPrefix(seg, ":"):
			_, typ := parseParamSegment(seg)
			segments[i] = ":" + typ
		}
	}
	return "/" + strings.Join(segments, "/")
}

// PatternParams lists the parameters declared in a pattern, in order.
func PatternParams(pattern string) []ParamDef {
	var defs []ParamDef
	for _, seg := range routepath.Segments(pattern) {
		switch {
		case strings.HasPrefix(seg, "*"):
			defs = append(defs, ParamDef{Name: seg[1:], Type: "[]string", CatchAll: true})
		case strings.HasPrefix(seg, ":"):
			name, typ := parseParamSegment(seg)
			defs = append(defs, ParamDef{Name: name, Type: typ})
		}
	}
	return defs
}
