package router

import (
	"net/url"
	"strings"

	"github.com/vango-dev/routekit/pkg/routepath"
)

// HistoryMode names a history strategy.
type HistoryMode string

const (
	// ModeWeb keeps application locations in the real URL path.
	ModeWeb HistoryMode = "web"

	// ModeHash keeps application locations in the URL fragment.
	ModeHash HistoryMode = "hash"
)

// History describes how application locations are written into and read
// back from browser URLs.
type History interface {
	// Mode reports the strategy.
	Mode() HistoryMode

	// Base is the normalized path the application is mounted under.
	Base() string

	// Href turns an application location (path?query#fragment) into the
	// URL reference a browser should display.
	Href(location string) string

	// Location extracts the application location from a request URL. It
	// reports false when the URL is outside the base.
	Location(u *url.URL) (string, bool)

	// Err reports a problem with the configured base, if any.
	Err() error
}

// historyBase holds the base shared by every strategy.
type historyBase struct {
	base string
	err  error
}

func newHistoryBase(base string) historyBase {
	normalized, err := routepath.NormalizeBase(base)
	if err != nil {
		return historyBase{base: base, err: err}
	}
	return historyBase{base: normalized}
}

func (h historyBase) Base() string { return h.base }
func (h historyBase) Err() error   { return h.err }

// WebHistory returns a path-based strategy rooted at base. Locations map
// one to one onto URL paths below base, so the server must answer every
// such path with the application.
func WebHistory(base string) History {
	return &webHistory{historyBase: newHistoryBase(base)}
}

type webHistory struct {
	historyBase
}

func (h *webHistory) Mode() HistoryMode { return ModeWeb }

func (h *webHistory) Href(location string) string {
	path, rest := splitLocation(location)
	return routepath.JoinBase(h.base, path) + rest
}

func (h *webHistory) Location(u *url.URL) (string, bool) {
	path, ok := routepath.StripBase(h.base, u.EscapedPath())
	if !ok {
		return "", false
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	if u.Fragment != "" {
		path += "#" + u.EscapedFragment()
	}
	return path, true
}

// HashHistory returns a fragment-based strategy: the document lives at base
// and application locations follow "#". Servers only ever see base.
func HashHistory(base string) History {
	return &hashHistory{historyBase: newHistoryBase(base)}
}

type hashHistory struct {
	historyBase
}

func (h *hashHistory) Mode() HistoryMode { return ModeHash }

func (h *hashHistory) Href(location string) string {
	return h.base + "#" + location
}

func (h *hashHistory) Location(u *url.URL) (string, bool) {
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if path != h.base && path != h.base+"/" {
		return "", false
	}
	frag := u.EscapedFragment()
	if frag == "" {
		return "/", true
	}
	if !strings.HasPrefix(frag, "/") {
		frag = "/" + frag
	}
	return frag, true
}

// splitLocation separates the path from its "?query#fragment" tail.
func splitLocation(location string) (path, rest string) {
	if i := strings.IndexAny(location, "?#"); i >= 0 {
		return location[:i], location[i:]
	}
	return location, ""
}
