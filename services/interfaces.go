package services

import (
	"context"

	"github.com/gcbaptista/tfidf-search/index"
	"github.com/gcbaptista/tfidf-search/model"
)

// Hit is one ranked document of a search result.
type Hit struct {
	Rank      int     `json:"rank"` // 1-based
	DocID     int     `json:"doc_id"`
	Path      string  `json:"path"`
	Relevance float64 `json:"relevance"`
}

// SearchResult is the ranked answer to a query.
type SearchResult struct {
	QueryID string   `json:"query_id"` // unique UUID for this search query
	Query   string   `json:"query"`
	Terms   []string `json:"terms"` // Normalized query terms, duplicates included
	Hits    []Hit    `json:"hits"`
	Total   int      `json:"total"` // Matching documents before truncation to k
	Took    int64    `json:"took"`  // milliseconds
}

// TermInfo describes one term of the vocabulary.
type TermInfo struct {
	Term              string            `json:"term"`
	DocumentFrequency int               `json:"document_frequency"`
	IDF               float64           `json:"idf"`
	Postings          index.PostingList `json:"postings"`
}

// IndexStats summarizes the published index.
type IndexStats struct {
	Ready     bool `json:"ready"`
	Documents int  `json:"documents"`
	Terms     int  `json:"terms"`
}

// Searcher defines operations for querying a finalized index
type Searcher interface {
	Normalize(query string) []string
	Evaluate(query string) ([]model.DocumentRelevance, error)
	EvaluateTopK(query string, k int) ([]model.DocumentRelevance, error)
	Search(query string, k int) (SearchResult, error)
}

// Builder defines the build and finalize phases over a collection
type Builder interface {
	IndexDocument(ctx context.Context, path string) (int, error)
	Finalize() error
}

// JobManager defines operations for managing background jobs
type JobManager interface {
	GetJob(jobID string) (*model.Job, error)
	ListJobs(status *model.JobStatus) []*model.Job
}

// IndexManager is what the HTTP layer needs from the engine.
type IndexManager interface {
	JobManager
	Search(query string, k int) (SearchResult, error)
	Document(id int) (model.Document, error)
	Term(term string) (TermInfo, error)
	Stats() IndexStats
}
