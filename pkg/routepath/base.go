package routepath

import "strings"

// NormalizeBase turns a history base into its canonical form: leading slash,
// no trailing slash, "/" for the root. An empty base means "/".
func NormalizeBase(base string) (string, error) {
	if base == "" {
		return "/", nil
	}
	if !strings.HasPrefix(base, "/") {
		return "", ErrInvalidPath
	}
	res, err := Canonicalize(base)
	if err != nil {
		return "", err
	}
	if res.Query != "" || res.Fragment != "" {
		return "", ErrInvalidPath
	}
	return res.Path, nil
}

// JoinBase prefixes an application path with a normalized base.
func JoinBase(base, path string) string {
	if base == "/" || base == "" {
		return path
	}
	if path == "/" {
		return base
	}
	return base + path
}

// StripBase removes a normalized base from a request path. It reports false
// when the path lies outside the base.
func StripBase(base, path string) (string, bool) {
	if base == "/" || base == "" {
		return path, true
	}
	if path == base {
		return "/", true
	}
	if strings.HasPrefix(path, base+"/") {
		return path[len(base):], true
	}
	return "", false
}
