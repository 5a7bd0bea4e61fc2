package document

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Registry tracks open documents by ID.
type Registry struct {
	mu   sync.RWMutex
	docs map[uuid.UUID]*Document
	opts Options
}

// NewRegistry creates an empty registry that opens documents with opts.
func NewRegistry(opts Options) *Registry {
	return &Registry{
		docs: make(map[uuid.UUID]*Document),
		opts: opts,
	}
}

// Open returns the open document for path, reading the file if it is not
// open yet.
func (r *Registry) Open(path string) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if d := r.lookupLocked(abs); d != nil {
		return d, nil
	}
	d, err := Open(abs, r.opts)
	if err != nil {
		return nil, err
	}
	r.docs[d.id] = d
	return d, nil
}

// Add registers a document created outside the registry, such as one
// from New.
func (r *Registry) Add(d *Document) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[d.id] = d
}

// Get returns the document with the given ID.
func (r *Registry) Get(id uuid.UUID) (*Document, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.docs[id]
	return d, ok
}

// Lookup returns the open document for path.
func (r *Registry) Lookup(path string) (*Document, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	d := r.lookupLocked(abs)
	return d, d != nil
}

// Paths can change through SaveAs, so they are compared on each lookup.
func (r *Registry) lookupLocked(abs string) *Document {
	for _, d := range r.docs {
		if d.Path() == abs {
			return d
		}
	}
	return nil
}

// Close removes the document from the registry. Unsaved changes are
// discarded.
func (r *Registry) Close(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return fmt.Errorf("%s: %w", id, ErrNotOpen)
	}
	delete(r.docs, id)
	return nil
}

// List returns the open documents ordered by path. Unnamed documents sort
// first.
func (r *Registry) List() []*Document {
	r.mu.RLock()
	list := make([]*Document, 0, len(r.docs))
	for _, d := range r.docs {
		list = append(list, d)
	}
	r.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		pi, pj := list[i].Path(), list[j].Path()
		if pi != pj {
			return pi < pj
		}
		return list[i].id.String() < list[j].id.String()
	})
	return list
}

// Modified returns the open documents with unsaved changes.
func (r *Registry) Modified() []*Document {
	var out []*Document
	for _, d := range r.List() {
		if d.Modified() {
			out = append(out, d)
		}
	}
	return out
}

// Len returns the number of open documents.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.docs)
}
