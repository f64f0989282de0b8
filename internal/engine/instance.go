package engine

import (
	"github.com/gcbaptista/tfidf-search/index"
	"github.com/gcbaptista/tfidf-search/internal/search"
	"github.com/gcbaptista/tfidf-search/store"
)

// Snapshot holds the components of one finalized build. It is never mutated
// after it was published, so every reader may use it without locking.
type Snapshot struct {
	InvertedIndex *index.InvertedIndex
	DocumentStore *store.DocumentStore
	searcher      *search.Service
}
