package index

import (
	"sort"
	"sync"

	"github.com/gcbaptista/tfidf-search/internal/errors"
	"github.com/gcbaptista/tfidf-search/internal/scoring"
)

// term is the index entry of one normalized term.
type term struct {
	postings PostingList
	idf      float64
}

// InvertedIndex maps a normalized term to its postings list.
//
// Postings are appended with a tail-only check: an occurrence for the
// document already at the end of the list increments its TF, anything else
// appends a new posting. This requires every occurrence of a document to be
// recorded before the next document, and documents to arrive in
// non-decreasing ID order. RecordOccurrence enforces that order and rejects
// violating calls with ErrOutOfOrder instead of silently splitting a
// document's postings.
//
// After FinalizeWeights the index is immutable and safe for concurrent reads.
type InvertedIndex struct {
	mu        sync.RWMutex
	terms     map[string]*term
	lastDocID int // Highest docID recorded so far, -1 when empty
	finalized bool
	numDocs   int // N used by FinalizeWeights
}

// NewInvertedIndex creates an empty index.
func NewInvertedIndex() *InvertedIndex {
	return &InvertedIndex{
		terms:     make(map[string]*term),
		lastDocID: -1,
	}
}

// RecordOccurrence records one occurrence of t in document docID.
func (ii *InvertedIndex) RecordOccurrence(t string, docID int) error {
	ii.mu.Lock()
	defer ii.mu.Unlock()

	if ii.finalized {
		return errors.ErrAlreadyFinalized
	}
	if docID < 0 {
		return errors.NewValidationError("docID", "must not be negative")
	}
	if docID < ii.lastDocID {
		return errors.NewOutOfOrderError(t, docID, ii.lastDocID)
	}
	ii.lastDocID = docID

	entry, exists := ii.terms[t]
	if !exists {
		ii.terms[t] = &term{postings: PostingList{{DocID: docID, TF: 1}}}
		return nil
	}

	last := &entry.postings[len(entry.postings)-1]
	if last.DocID == docID {
		last.TF++
		return nil
	}
	entry.postings = append(entry.postings, Posting{DocID: docID, TF: 1})
	return nil
}

// FinalizeWeights computes the IDF of every term and the TF-IDF of every
// posting for a collection of n documents. It must run exactly once, after
// the last RecordOccurrence, with n equal to the final registry size.
// A term present in every document gets idf 0.
func (ii *InvertedIndex) FinalizeWeights(n int) error {
	ii.mu.Lock()
	defer ii.mu.Unlock()

	if ii.finalized {
		return errors.ErrAlreadyFinalized
	}
	if n < ii.lastDocID+1 {
		return errors.NewValidationError("n", "collection size is smaller than the highest recorded document ID")
	}

	for _, entry := range ii.terms {
		entry.idf = scoring.IDF(n, len(entry.postings))
		for i := range entry.postings {
			entry.postings[i].TFIDF = scoring.TFIDF(entry.postings[i].TF, entry.idf)
		}
	}
	ii.numDocs = n
	ii.finalized = true
	return nil
}

// PostingsOf returns a copy of the postings of t. An unknown term yields an
// empty list.
func (ii *InvertedIndex) PostingsOf(t string) PostingList {
	ii.mu.RLock()
	defer ii.mu.RUnlock()

	entry, exists := ii.terms[t]
	if !exists {
		return PostingList{}
	}
	out := make(PostingList, len(entry.postings))
	copy(out, entry.postings)
	return out
}

// ForEachPosting calls fn for every posting of t without copying the list.
// fn must not retain or modify the posting.
func (ii *InvertedIndex) ForEachPosting(t string, fn func(p Posting)) {
	ii.mu.RLock()
	defer ii.mu.RUnlock()

	entry, exists := ii.terms[t]
	if !exists {
		return
	}
	for _, p := range entry.postings {
		fn(p)
	}
}

// DocumentFrequency returns the number of documents containing t.
func (ii *InvertedIndex) DocumentFrequency(t string) int {
	ii.mu.RLock()
	defer ii.mu.RUnlock()

	if entry, exists := ii.terms[t]; exists {
		return len(entry.postings)
	}
	return 0
}

// IDF returns the inverse document frequency computed for t at finalize.
// It is 0 for unknown terms and before finalize.
func (ii *InvertedIndex) IDF(t string) float64 {
	ii.mu.RLock()
	defer ii.mu.RUnlock()

	if entry, exists := ii.terms[t]; exists {
		return entry.idf
	}
	return 0
}

// IsFinalized reports whether FinalizeWeights has run.
func (ii *InvertedIndex) IsFinalized() bool {
	ii.mu.RLock()
	defer ii.mu.RUnlock()
	return ii.finalized
}

// NumDocs returns the collection size the weights were computed with.
func (ii *InvertedIndex) NumDocs() int {
	ii.mu.RLock()
	defer ii.mu.RUnlock()
	return ii.numDocs
}

// TermCount returns the vocabulary size.
func (ii *InvertedIndex) TermCount() int {
	ii.mu.RLock()
	defer ii.mu.RUnlock()
	return len(ii.terms)
}

// Terms returns the vocabulary in lexical order.
func (ii *InvertedIndex) Terms() []string {
	ii.mu.RLock()
	defer ii.mu.RUnlock()

	out := make([]string, 0, len(ii.terms))
	for t := range ii.terms {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
