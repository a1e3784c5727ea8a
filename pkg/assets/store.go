// Package assets serves the client bundle from a local directory or an S3
// bucket and resolves fingerprinted asset names through a manifest.
package assets

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound is returned when an asset does not exist in the store.
var ErrNotFound = errors.New("assets: not found")

// Object is an opened asset. Callers must close Body.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
	ModTime     time.Time
	ETag        string
}

// Store opens assets by slash-separated name relative to the store root.
type Store interface {
	Open(ctx context.Context, name string) (*Object, error)
}

// DirStore serves assets from a file system, usually os.DirFS.
type DirStore struct {
	fsys fs.FS
}

// NewDirStore creates a store over fsys.
func NewDirStore(fsys fs.FS) *DirStore {
	return &DirStore{fsys: fsys}
}

// Open implements Store.
func (s *DirStore) Open(_ context.Context, name string) (*Object, error) {
	name, ok := cleanName(name)
	if !ok {
		return nil, ErrNotFound
	}

	f, err := s.fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, ErrNotFound
	}

	return &Object{
		Body:        f,
		ContentType: contentType(name),
		Size:        info.Size(),
		ModTime:     info.ModTime(),
	}, nil
}

// Handler serves assets from store. Mount it with the URL prefix stripped.
func Handler(store Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		obj, err := store.Open(r.Context(), r.URL.Path)
		if errors.Is(err, ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
			return
		}
		defer obj.Body.Close()

		h := w.Header()
		if obj.ETag != "" {
			h.Set("ETag", obj.ETag)
			if r.Header.Get("If-None-Match") == obj.ETag {
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
		if obj.ContentType != "" {
			h.Set("Content-Type", obj.ContentType)
		}
		if obj.Size >= 0 {
			h.Set("Content-Length", strconv.FormatInt(obj.Size, 10))
		}
		if !obj.ModTime.IsZero() {
			h.Set("Last-Modified", obj.ModTime.UTC().Format(http.TimeFormat))
		}
		h.Set("X-Content-Type-Options", "nosniff")

		if r.Method == http.MethodHead {
			return
		}
		io.Copy(w, obj.Body)
	})
}

// cleanName turns a request path into an fs.ValidPath name.
func cleanName(name string) (string, bool) {
	name = strings.TrimPrefix(name, "/")
	if name == "" || strings.Contains(name, "\\") {
		return "", false
	}
	name = path.Clean(name)
	if !fs.ValidPath(name) || name == "." {
		return "", false
	}
	return name, true
}

func contentType(name string) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
