// Package preview manages locally-created preview handles for staged
// binary data (file attachments and recorded voice clips). A handle is the
// server-side analogue of a browser object URL: it exists from the moment
// the bytes are admitted until it is released, and it must be released
// exactly once regardless of which exit path retires it (explicit removal,
// bulk reset, successful submission, or controller teardown).
package preview

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// URLPrefix is the route under which handles are served.
const URLPrefix = "/preview/"

// Handle references one previewable blob.
type Handle struct {
	Token    string
	Name     string
	MIMEType string
	Size     int64
}

// URL returns the path a browser can load the blob from.
func (h Handle) URL() string {
	return URLPrefix + h.Token
}

type entry struct {
	name     string
	mimeType string
	data     []byte
}

// Registry owns every preview handle created by one controller instance.
// No other component may release its handles; that exclusivity is what
// rules out double-free races.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	closed  bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Add admits a blob and returns its handle. The registry takes ownership
// of data.
func (r *Registry) Add(name, mimeType string, data []byte) (Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return Handle{}, fmt.Errorf("preview registry is closed")
	}
	token := uuid.NewString()
	r.entries[token] = &entry{name: name, mimeType: mimeType, data: data}
	return Handle{Token: token, Name: name, MIMEType: mimeType, Size: int64(len(data))}, nil
}

// Open returns the blob for a live handle, for serving.
func (r *Registry) Open(token string) (name, mimeType string, data []byte, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[token]
	if !ok {
		return "", "", nil, false
	}
	return e.name, e.mimeType, e.data, true
}

// Release frees one handle. Releasing an unknown or already-released token
// is an error so double-release bugs surface instead of hiding.
func (r *Registry) Release(token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[token]; !ok {
		return fmt.Errorf("preview handle %s already released or unknown", token)
	}
	delete(r.entries, token)
	return nil
}

// ReleaseAll frees every outstanding handle, for bulk resets.
func (r *Registry) ReleaseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.entries)
}

// Close drains the registry and refuses further admissions. Idempotent;
// used on controller teardown.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.entries)
	r.closed = true
}

// Len reports the number of live handles.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
