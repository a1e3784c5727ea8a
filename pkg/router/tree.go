package router

import (
	"strings"

	"github.com/vango-dev/routekit/pkg/routepath"
)

// routeNode is a node in the radix tree.
type routeNode struct {
	// segment is the static path segment this node matches
	segment string

	// paramName is the parameter name (without : or *)
	paramName string

	// paramType is the declared parameter type (int, string, uuid)
	paramType string

	isParam    bool
	isCatchAll bool

	// route is the table index of the route ending here, or -1
	route int

	children      []*routeNode
	paramChildren []*routeNode
	catchAllChild *routeNode
}

func newRouteNode(segment string) *routeNode {
	return &routeNode{segment: segment, route: -1}
}

// findChild finds a static child with an exact segment match.
func (n *routeNode) findChild(segment string) *routeNode {
	for _, child := range n.children {
		if child.segment == segment {
			return child
		}
	}
	return nil
}

func (n *routeNode) addChild(segment string) *routeNode {
	if child := n.findChild(segment); child != nil {
		return child
	}
	child := newRouteNode(segment)
	n.children = append(n.children, child)
	return child
}

// addParamChild returns the param child with the same name and type,
// creating it if needed. Params with different types at the same depth get
// separate children so that each keeps its own constraint.
func (n *routeNode) addParamChild(name, paramType string) *routeNode {
	for _, child := range n.paramChildren {
		if child.paramName == name && child.paramType == paramType {
			return child
		}
	}
	child := newRouteNode("")
	child.isParam = true
	child.paramName = name
	child.paramType = paramType
	n.paramChildren = append(n.paramChildren, child)
	return child
}

func (n *routeNode) addCatchAllChild(name string) *routeNode {
	if n.catchAllChild != nil {
		return n.catchAllChild
	}
	child := newRouteNode("")
	child.isCatchAll = true
	child.paramName = name
	child.paramType = "[]string"
	n.catchAllChild = child
	return child
}

// insertRoute adds a pattern to the tree and returns its terminal node.
func (n *routeNode) insertRoute(pattern string) *routeNode {
	current := n
	for _, seg := range routepath.Segments(pattern) {
		switch {
		case strings.HasPrefix(seg, "*"):
			return current.addCatchAllChild(seg[1:])
		case strings.HasPrefix(seg, ":"):
			name, paramType := parseParamSegment(seg)
			current = current.addParamChild(name, paramType)
		default:
			current = current.addChild(seg)
		}
	}
	return current
}

// matchesStatic reports whether a static child accepts the raw or decoded
// segment. With fold set, letter case is ignored.
func (n *routeNode) matchesStatic(raw, decoded string, fold bool) bool {
	if n.segment == raw || n.segment == decoded {
		return true
	}
	return fold && (strings.EqualFold(n.segment, raw) || strings.EqualFold(n.segment, decoded))
}

// match walks every branch that can match segments and returns the lowest
// route index among the full matches, with its decoded params. Exploring
// all branches lets table order, not tree shape, decide ties.
func (n *routeNode) match(segments []string, params map[string]string, fold bool) (int, map[string]string) {
	if len(segments) == 0 {
		return n.route, cloneParams(params)
	}

	best, bestParams := -1, map[string]string(nil)
	consider := func(idx int, p map[string]string) {
		if idx >= 0 && (best < 0 || idx < best) {
			best, bestParams = idx, p
		}
	}

	segment, remaining := segments[0], segments[1:]

	if decoded, err := routepath.DecodeSegment(segment, false); err == nil {
		for _, child := range n.children {
			if child.matchesStatic(segment, decoded, fold) {
				consider(child.match(remaining, params, fold))
			}
		}

		for _, child := range n.paramChildren {
			if ValidateParam(decoded, child.paramType) != nil {
				continue
			}
			params[child.paramName] = decoded
			consider(child.match(remaining, params, fold))
			delete(params, child.paramName)
		}
	}

	if n.catchAllChild != nil && n.catchAllChild.route >= 0 {
		rest, err := routepath.DecodeSegment(strings.Join(segments, "/"), true)
		if err == nil {
			params[n.catchAllChild.paramName] = rest
			consider(n.catchAllChild.route, cloneParams(params))
			delete(params, n.catchAllChild.paramName)
		}
	}

	return best, bestParams
}

func cloneParams(params map[string]string) map[string]string {
	out := make(map[string]string, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}

// parseParamSegment extracts name and type from a parameter segment.
// Input: ":id" or ":id:int" -> name="id", type="string" or "int"
func parseParamSegment(seg string) (name, paramType string) {
	seg = seg[1:]
	if idx := strings.Index(seg, ":"); idx != -1 {
		return seg[:idx], seg[idx+1:]
	}
	return seg, "string"
}
