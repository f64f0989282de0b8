package store

import (
	"sync"

	"github.com/gcbaptista/tfidf-search/internal/errors"
	"github.com/gcbaptista/tfidf-search/model"
)

// DocumentStore is the document registry of one index build.
// It assigns dense, zero-based IDs in insertion order and maps every path to
// exactly one ID for its lifetime. Documents are never removed.
type DocumentStore struct {
	mu     sync.RWMutex
	docs   []model.Document // Indexed by ID
	byPath map[string]int   // Path to ID
}

// NewDocumentStore creates an empty registry.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		docs:   make([]model.Document, 0),
		byPath: make(map[string]int),
	}
}

// AddOrGet registers path and returns its ID. A path that is already
// registered keeps its existing ID; this is not an error.
func (ds *DocumentStore) AddOrGet(path string) int {
	id, _ := ds.Register(path)
	return id
}

// Register behaves like AddOrGet and also reports whether the path was new.
func (ds *DocumentStore) Register(path string) (int, bool) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if id, exists := ds.byPath[path]; exists {
		return id, false
	}
	id := len(ds.docs)
	ds.docs = append(ds.docs, model.Document{ID: id, Path: path})
	ds.byPath[path] = id
	return id, true
}

// Lookup returns the ID of a registered path.
func (ds *DocumentStore) Lookup(path string) (int, bool) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	id, ok := ds.byPath[path]
	return id, ok
}

// PathOf returns the path registered under id.
func (ds *DocumentStore) PathOf(id int) (string, error) {
	doc, err := ds.Get(id)
	if err != nil {
		return "", err
	}
	return doc.Path, nil
}

// Get returns the document registered under id.
func (ds *DocumentStore) Get(id int) (model.Document, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	if id < 0 || id >= len(ds.docs) {
		return model.Document{}, errors.NewDocumentNotFoundError(id, len(ds.docs))
	}
	return ds.docs[id], nil
}

// Size returns the number of registered documents (N in the IDF formula).
func (ds *DocumentStore) Size() int {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return len(ds.docs)
}

// Documents returns a copy of all documents in ID order.
func (ds *DocumentStore) Documents() []model.Document {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	out := make([]model.Document, len(ds.docs))
	copy(out, ds.docs)
	return out
}
