package assets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
)

// ManifestName is the manifest file the bundler writes next to the assets.
const ManifestName = "manifest.json"

// Manifest maps source asset names to fingerprinted names:
//
//	{"app.js": "app.3f9a1c.js", "app.css": "app.77b0e2.css"}
//
// It is safe for concurrent use.
type Manifest struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewManifest creates an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{entries: make(map[string]string)}
}

// LoadManifest reads ManifestName from store. A missing manifest yields
// an empty one, so unfingerprinted development bundles still resolve.
func LoadManifest(ctx context.Context, store Store) (*Manifest, error) {
	obj, err := store.Open(ctx, ManifestName)
	if errors.Is(err, ErrNotFound) {
		return NewManifest(), nil
	}
	if err != nil {
		return nil, err
	}
	defer obj.Body.Close()

	data, err := io.ReadAll(obj.Body)
	if err != nil {
		return nil, err
	}
	entries := make(map[string]string)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", ManifestName, err)
	}
	return &Manifest{entries: entries}, nil
}

// Resolve returns the fingerprinted name for source, or source itself.
func (m *Manifest) Resolve(source string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if resolved, ok := m.entries[source]; ok {
		return resolved
	}
	return source
}

// Set adds or updates an entry.
func (m *Manifest) Set(source, resolved string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[source] = resolved
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Resolver turns a source asset name into the URL the document links to.
type Resolver struct {
	manifest *Manifest
	prefix   string
}

// NewResolver joins manifest lookups onto the URL prefix assets are
// served under. A nil manifest resolves names unchanged.
func NewResolver(m *Manifest, prefix string) *Resolver {
	if m == nil {
		m = NewManifest()
	}
	for len(prefix) > 0 && prefix[len(prefix)-1] == '/' {
		prefix = prefix[:len(prefix)-1]
	}
	return &Resolver{manifest: m, prefix: prefix}
}

// Asset returns the URL path for source.
//
//	r.Asset("app.js") // "/assets/app.3f9a1c.js"
func (r *Resolver) Asset(source string) string {
	return r.prefix + "/" + r.manifest.Resolve(source)
}
