// Package routepath normalizes URL paths before they reach the route matcher.
package routepath

import (
	"errors"
	"net/url"
	"strings"
)

// Result contains the result of path canonicalization.
type Result struct {
	// Path is the canonicalized path (no query, no fragment).
	Path string

	// Query is the raw query string without the leading "?".
	Query string

	// Fragment is the raw fragment without the leading "#".
	Fragment string

	// Changed indicates if the path was modified during canonicalization.
	Changed bool
}

// Path canonicalization errors.
var (
	ErrInvalidPath           = errors.New("invalid path")
	ErrBackslashInPath       = errors.New("path contains backslash")
	ErrNullByteInPath        = errors.New("path contains null byte")
	ErrInvalidPercentEscape  = errors.New("invalid percent escape sequence")
	ErrPathEscapesRoot       = errors.New("path escapes root via ..")
	ErrEncodedSlashInSegment = errors.New("encoded slash (%2F) in non-catch-all segment")
)

// Canonicalize normalizes a location string (path, optional "?query" and
// optional "#fragment").
//
// Transformations:
//   - Remove trailing slash (except for root "/")
//   - Collapse multiple slashes (/a//b → /a/b)
//   - Remove "." segments and resolve ".." segments
//
// Rejected inputs:
//   - backslash, NUL (literal or %00), malformed percent-escapes
//   - ".." that would escape root
func Canonicalize(input string) (Result, error) {
	if input == "" {
		return Result{Path: "/", Changed: true}, nil
	}

	rest, fragment, _ := strings.Cut(input, "#")
	path, query, _ := strings.Cut(rest, "?")

	if strings.Contains(path, "\\") {
		return Result{}, ErrBackslashInPath
	}
	if strings.Contains(path, "\x00") || strings.Contains(strings.ToUpper(path), "%00") {
		return Result{}, ErrNullByteInPath
	}
	if strings.Contains(path, "%") {
		if err := validatePercentEscapes(path); err != nil {
			return Result{}, err
		}
	}

	original := path

	var segments []string
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(segments) == 0 {
				return Result{}, ErrPathEscapesRoot
			}
			segments = segments[:len(segments)-1]
		default:
			segments = append(segments, seg)
		}
	}

	path = "/" + strings.Join(segments, "/")

	return Result{
		Path:     path,
		Query:    query,
		Fragment: fragment,
		Changed:  path != original,
	}, nil
}

// String reassembles the result as path[?query][#fragment].
func (r Result) String() string {
	s := r.Path
	if r.Query != "" {
		s += "?" + r.Query
	}
	if r.Fragment != "" {
		s += "#" + r.Fragment
	}
	return s
}

// validatePercentEscapes checks that every '%' starts a two-hex-digit escape.
func validatePercentEscapes(path string) error {
	for i := 0; i < len(path); i++ {
		if path[i] != '%' {
			continue
		}
		if i+2 >= len(path) || !isHexDigit(path[i+1]) || !isHexDigit(path[i+2]) {
			return ErrInvalidPercentEscape
		}
		i += 2
	}
	return nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// DecodeSegment decodes a single path segment.
// For non-catch-all params a decoded "/" (from %2F) is rejected as a path
// smuggling attempt.
func DecodeSegment(segment string, isCatchAll bool) (string, error) {
	decoded, err := url.PathUnescape(segment)
	if err != nil {
		return "", ErrInvalidPercentEscape
	}
	if !isCatchAll && strings.Contains(decoded, "/") {
		return "", ErrEncodedSlashInSegment
	}
	return decoded, nil
}

// Segments splits a canonical path into raw (still escaped) segments.
// The root path has no segments.
func Segments(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// ValidateNavTarget canonicalizes a navigation target and rejects anything
// that is not an application-relative path. Absolute URLs and
// protocol-relative "//host" targets are refused to prevent open redirects.
func ValidateNavTarget(target string) (Result, error) {
	if strings.HasPrefix(target, "http://") ||
		strings.HasPrefix(target, "https://") ||
		strings.HasPrefix(target, "//") {
		return Result{}, ErrInvalidPath
	}
	if !strings.HasPrefix(target, "/") {
		return Result{}, ErrInvalidPath
	}
	return Canonicalize(target)
}
