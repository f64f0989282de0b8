package search

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/gcbaptista/tfidf-search/index"
	"github.com/gcbaptista/tfidf-search/internal/errors"
	"github.com/gcbaptista/tfidf-search/internal/metrics"
	"github.com/gcbaptista/tfidf-search/internal/scoring"
	"github.com/gcbaptista/tfidf-search/internal/tokenizer"
	"github.com/gcbaptista/tfidf-search/model"
	"github.com/gcbaptista/tfidf-search/services"
	"github.com/gcbaptista/tfidf-search/store"
)

// Service implements query evaluation over one finalized index.
// It fulfills the services.Searcher interface. Evaluation only reads the
// index and the registry, so a Service is safe for concurrent use once the
// index is finalized.
type Service struct {
	invertedIndex *index.InvertedIndex
	documentStore *store.DocumentStore
	metrics       *metrics.Metrics
}

// NewService creates a new search Service. metrics may be nil.
func NewService(invIndex *index.InvertedIndex, docStore *store.DocumentStore, m *metrics.Metrics) (*Service, error) {
	if invIndex == nil {
		return nil, fmt.Errorf("inverted index cannot be nil")
	}
	if docStore == nil {
		return nil, fmt.Errorf("document store cannot be nil")
	}
	return &Service{
		invertedIndex: invIndex,
		documentStore: docStore,
		metrics:       m,
	}, nil
}

// Normalize turns a query into its normalized terms with the tokenizer used
// at indexing time. Repeated words are kept, so each occurrence adds its
// postings' weight again.
func (s *Service) Normalize(query string) []string {
	return tokenizer.Tokenize(query)
}

// Evaluate ranks every document matching at least one query term by the sum
// of the TF-IDF weights of its matching postings, highest first. Documents
// with equal relevance keep ascending DocID order.
func (s *Service) Evaluate(query string) ([]model.DocumentRelevance, error) {
	if !s.invertedIndex.IsFinalized() {
		return nil, errors.ErrIndexNotFinalized
	}

	n := s.documentStore.Size()
	terms := s.Normalize(query)
	if n == 0 || len(terms) == 0 {
		return []model.DocumentRelevance{}, nil
	}

	// One accumulator per document, in ascending DocID order.
	accumulators := make([]model.DocumentRelevance, n)
	for docID := range accumulators {
		accumulators[docID].DocID = docID
	}

	for _, term := range terms {
		s.invertedIndex.ForEachPosting(term, func(p index.Posting) {
			if p.DocID < n {
				accumulators[p.DocID].Add(p.TFIDF)
			}
		})
	}

	ranked := make([]model.DocumentRelevance, 0)
	for _, acc := range accumulators {
		if acc.Relevance == 0 {
			continue
		}
		ranked = append(ranked, acc)
	}
	slices.SortStableFunc(ranked, scoring.ByRelevance)
	return ranked, nil
}

// EvaluateTopK returns the first k entries of Evaluate. k == 0 yields an
// empty result; a negative k is invalid.
func (s *Service) EvaluateTopK(query string, k int) ([]model.DocumentRelevance, error) {
	if k < 0 {
		return nil, errors.NewValidationError("k", fmt.Sprintf("must not be negative, got %d", k))
	}
	ranked, err := s.Evaluate(query)
	if err != nil {
		return nil, err
	}
	return truncate(ranked, k), nil
}

// Search evaluates query and resolves the top k documents to their paths.
func (s *Service) Search(query string, k int) (services.SearchResult, error) {
	startTime := time.Now()

	if k < 0 {
		err := errors.NewValidationError("k", fmt.Sprintf("must not be negative, got %d", k))
		s.metrics.ObserveQuery(time.Since(startTime).Seconds(), 0, err)
		return services.SearchResult{}, err
	}

	ranked, err := s.Evaluate(query)
	if err != nil {
		s.metrics.ObserveQuery(time.Since(startTime).Seconds(), 0, err)
		return services.SearchResult{}, err
	}
	top := truncate(ranked, k)

	hits := make([]services.Hit, len(top))
	for i, r := range top {
		path, err := s.documentStore.PathOf(r.DocID)
		if err != nil {
			s.metrics.ObserveQuery(time.Since(startTime).Seconds(), 0, err)
			return services.SearchResult{}, err
		}
		hits[i] = services.Hit{
			Rank:      i + 1,
			DocID:     r.DocID,
			Path:      path,
			Relevance: r.Relevance,
		}
	}

	took := time.Since(startTime)
	s.metrics.ObserveQuery(took.Seconds(), len(hits), nil)

	return services.SearchResult{
		QueryID: uuid.New().String(),
		Query:   query,
		Terms:   s.Normalize(query),
		Hits:    hits,
		Total:   len(ranked),
		Took:    took.Milliseconds(),
	}, nil
}

// truncate returns the prefix of ranked of length min(k, len(ranked)).
func truncate(ranked []model.DocumentRelevance, k int) []model.DocumentRelevance {
	if k < len(ranked) {
		return ranked[:k]
	}
	return ranked
}
