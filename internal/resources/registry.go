// Package resources manages the data sources exposed over
// resources/list and resources/read.
package resources

import (
	"fmt"
	"sort"
	"sync"

	"github.com/freeshineit/mcp-server-go/internal/mcp"
)

// ErrNotFound is returned when a URI is not readable through the registry.
type ErrNotFound struct {
	URI string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("resource %q not found", e.URI)
}

// Reader produces the content of a single resource. Resources may be
// listed without a Reader; reading them fails with ErrNotFound.
type Reader func() ([]mcp.Content, error)

type entry struct {
	meta   mcp.Resource
	reader Reader
}

// Registry maps resource URIs to metadata and optional readers.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewRegistry creates a registry with the default system resources.
// /etc/hosts carries canned content; the system log is listed but has
// no reader, so reading it reports not found.
func NewRegistry() *Registry {
	r := &Registry{entries: make(map[string]entry)}
	r.Register(
		mcp.Resource{URI: "file:///etc/hosts", MimeType: "text/plain"},
		func() ([]mcp.Content, error) {
			return []mcp.Content{{Type: "text", Text: "127.0.0.1 localhost\n::1 localhost\n"}}, nil
		},
	)
	r.Register(
		mcp.Resource{URI: "file:///var/log/system.log", MimeType: "text/plain"},
		nil,
	)
	return r
}

// Register adds or replaces a resource. reader may be nil for
// list-only resources.
func (r *Registry) Register(meta mcp.Resource, reader Reader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[meta.URI] = entry{meta: meta, reader: reader}
}

// List returns metadata for all registered resources, ordered by URI.
func (r *Registry) List() []mcp.Resource {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]mcp.Resource, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.meta)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].URI < out[j].URI })
	return out
}

// Read returns the content of the resource at uri.
func (r *Registry) Read(uri string) ([]mcp.Content, error) {
	r.mu.RLock()
	e, ok := r.entries[uri]
	r.mu.RUnlock()
	if !ok || e.reader == nil {
		return nil, &ErrNotFound{URI: uri}
	}
	return e.reader()
}
