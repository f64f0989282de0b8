package indexing

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/gcbaptista/tfidf-search/index"
	"github.com/gcbaptista/tfidf-search/internal/errors"
	"github.com/gcbaptista/tfidf-search/internal/extract"
	"github.com/gcbaptista/tfidf-search/internal/logger"
	"github.com/gcbaptista/tfidf-search/internal/metrics"
	"github.com/gcbaptista/tfidf-search/internal/tokenizer"
	"github.com/gcbaptista/tfidf-search/store"
)

// Service implements the build and finalize phases of one index.
// It is not safe for concurrent use: documents are indexed one after the
// other so their occurrences reach the index batched and in ID order.
type Service struct {
	invertedIndex *index.InvertedIndex
	documentStore *store.DocumentStore
	extractor     extract.Extractor
	config        BuildConfig
	metrics       *metrics.Metrics
	log           *logrus.Entry

	tokenCount int // Sum of the vocabulary size after each document
}

// NewService creates a new indexing Service.
// metrics may be nil.
func NewService(invertedIndex *index.InvertedIndex, documentStore *store.DocumentStore, extractor extract.Extractor, config BuildConfig, m *metrics.Metrics) (*Service, error) {
	if invertedIndex == nil {
		return nil, fmt.Errorf("inverted index cannot be nil")
	}
	if documentStore == nil {
		return nil, fmt.Errorf("document store cannot be nil")
	}
	if extractor == nil {
		return nil, fmt.Errorf("extractor cannot be nil")
	}
	if invertedIndex.IsFinalized() {
		return nil, fmt.Errorf("inverted index is already finalized")
	}
	config.applyDefaults()
	if err := config.validate(); err != nil {
		return nil, err
	}

	return &Service{
		invertedIndex: invertedIndex,
		documentStore: documentStore,
		extractor:     extractor,
		config:        config,
		metrics:       m,
		log:           logger.WithComponent("indexer"),
	}, nil
}

// IndexDocument extracts, tokenizes and indexes the document at path and
// returns its ID. A path that is already registered is not indexed again.
// The document is registered only once its text was extracted, so a failed
// extraction leaves the registry unchanged.
func (s *Service) IndexDocument(ctx context.Context, path string) (int, error) {
	if id, exists := s.documentStore.Lookup(path); exists {
		return id, nil
	}

	text, err := s.extractor.Extract(ctx, path)
	if err != nil {
		s.metrics.ObserveExtractionFailure()
		return 0, err
	}
	return s.indexText(path, text)
}

// IndexText registers path and indexes text as its content, bypassing the
// extractor. It is used when the caller already holds the document text.
func (s *Service) IndexText(path, text string) (int, error) {
	if id, exists := s.documentStore.Lookup(path); exists {
		return id, nil
	}
	return s.indexText(path, text)
}

// indexText assumes path is not registered yet.
func (s *Service) indexText(path, text string) (int, error) {
	// The registry size is N once finalized; it must not grow afterwards.
	if s.invertedIndex.IsFinalized() {
		return 0, errors.ErrAlreadyFinalized
	}
	docID := s.documentStore.AddOrGet(path)

	for _, term := range tokenizer.Tokenize(text) {
		if err := s.invertedIndex.RecordOccurrence(term, docID); err != nil {
			return docID, fmt.Errorf("failed to index document %d (%s): %w", docID, path, err)
		}
	}

	vocabulary := s.invertedIndex.TermCount()
	s.tokenCount += vocabulary
	s.metrics.ObserveDocumentIndexed()
	s.log.WithFields(logrus.Fields{
		"doc_id":     docID,
		"path":       path,
		"vocabulary": vocabulary,
	}).Debug("document indexed")

	if s.config.DocumentCallback != nil {
		s.config.DocumentCallback(docID, path, vocabulary)
	}
	return docID, nil
}

// Finalize computes the TF-IDF weights with the final registry size. It must
// be called once, after the last document was indexed.
func (s *Service) Finalize() error {
	n := s.documentStore.Size()
	if err := s.invertedIndex.FinalizeWeights(n); err != nil {
		return fmt.Errorf("failed to finalize index over %d documents: %w", n, err)
	}
	s.log.WithFields(logrus.Fields{
		"documents": n,
		"terms":     s.invertedIndex.TermCount(),
	}).Info("index finalized")
	return nil
}

// TokenCount returns the sum of the vocabulary size observed after each
// indexed document.
func (s *Service) TokenCount() int {
	return s.tokenCount
}
