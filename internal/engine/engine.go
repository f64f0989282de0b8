package engine

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gcbaptista/tfidf-search/index"
	"github.com/gcbaptista/tfidf-search/internal/errors"
	"github.com/gcbaptista/tfidf-search/internal/extract"
	"github.com/gcbaptista/tfidf-search/internal/indexing"
	"github.com/gcbaptista/tfidf-search/internal/jobs"
	"github.com/gcbaptista/tfidf-search/internal/logger"
	"github.com/gcbaptista/tfidf-search/internal/metrics"
	"github.com/gcbaptista/tfidf-search/internal/search"
	"github.com/gcbaptista/tfidf-search/internal/tokenizer"
	"github.com/gcbaptista/tfidf-search/model"
	"github.com/gcbaptista/tfidf-search/services"
	"github.com/gcbaptista/tfidf-search/store"
)

// Engine builds the index of a collection once and serves queries from the
// published snapshot. It implements the services.IndexManager interface.
type Engine struct {
	snapshot    atomic.Pointer[Snapshot]
	building    atomic.Bool
	extractor   extract.Extractor
	buildConfig indexing.BuildConfig
	metrics     *metrics.Metrics
	jobManager  *jobs.Manager
	log         *logrus.Entry
}

// NewEngine creates an engine with nothing published yet. metrics may be nil.
func NewEngine(extractor extract.Extractor, buildConfig indexing.BuildConfig, m *metrics.Metrics) *Engine {
	return &Engine{
		extractor:   extractor,
		buildConfig: buildConfig,
		metrics:     m,
		jobManager:  jobs.NewManager(1),
		log:         logger.WithComponent("engine"),
	}
}

// Close cancels a running build job and waits for it to return.
func (e *Engine) Close() {
	e.jobManager.Stop()
}

// Build indexes paths into a new snapshot, finalizes it and publishes it.
// An engine publishes at most one snapshot; later builds are rejected.
func (e *Engine) Build(ctx context.Context, paths []string) (indexing.BuildStats, error) {
	return e.build(ctx, paths, e.buildConfig)
}

func (e *Engine) build(ctx context.Context, paths []string, cfg indexing.BuildConfig) (indexing.BuildStats, error) {
	if e.snapshot.Load() != nil {
		return indexing.BuildStats{}, fmt.Errorf("index is already published: %w", errors.ErrAlreadyFinalized)
	}
	if !e.building.CompareAndSwap(false, true) {
		return indexing.BuildStats{}, fmt.Errorf("a build is already in progress")
	}
	defer e.building.Store(false)
	// A build that finished between the first check and the swap already published.
	if e.snapshot.Load() != nil {
		return indexing.BuildStats{}, fmt.Errorf("index is already published: %w", errors.ErrAlreadyFinalized)
	}

	startTime := time.Now()
	invIndex := index.NewInvertedIndex()
	docStore := store.NewDocumentStore()

	indexer, err := indexing.NewService(invIndex, docStore, e.extractor, cfg, e.metrics)
	if err != nil {
		return indexing.BuildStats{}, fmt.Errorf("failed to create indexer service: %w", err)
	}

	stats, err := indexer.IndexCollection(ctx, paths)
	if err != nil {
		return stats, err
	}
	if err := indexer.Finalize(); err != nil {
		return stats, err
	}

	searcher, err := search.NewService(invIndex, docStore, e.metrics)
	if err != nil {
		return stats, fmt.Errorf("failed to create search service: %w", err)
	}

	e.snapshot.Store(&Snapshot{
		InvertedIndex: invIndex,
		DocumentStore: docStore,
		searcher:      searcher,
	})

	stats.Duration = time.Since(startTime)
	e.metrics.ObserveBuild(stats.Duration.Seconds(), stats.Documents, stats.Terms)
	e.log.WithFields(logrus.Fields{
		"documents": stats.Documents,
		"terms":     stats.Terms,
		"duration":  stats.Duration,
	}).Info("index published")
	return stats, nil
}

// Snapshot returns the published snapshot, or ErrIndexNotFinalized when no
// build has completed yet.
func (e *Engine) Snapshot() (*Snapshot, error) {
	snap := e.snapshot.Load()
	if snap == nil {
		return nil, errors.ErrIndexNotFinalized
	}
	return snap, nil
}

// Search evaluates query against the published snapshot.
func (e *Engine) Search(query string, k int) (services.SearchResult, error) {
	snap, err := e.Snapshot()
	if err != nil {
		e.metrics.ObserveQuery(0, 0, err)
		return services.SearchResult{}, err
	}
	return snap.searcher.Search(query, k)
}

// Document returns the registered document with the given ID.
func (e *Engine) Document(id int) (model.Document, error) {
	snap, err := e.Snapshot()
	if err != nil {
		return model.Document{}, err
	}
	return snap.DocumentStore.Get(id)
}

// Term describes the vocabulary entry a raw word normalizes to. A word that
// is not in the vocabulary yields an entry with no postings.
func (e *Engine) Term(word string) (services.TermInfo, error) {
	snap, err := e.Snapshot()
	if err != nil {
		return services.TermInfo{}, err
	}
	terms := tokenizer.Tokenize(word)
	if len(terms) != 1 {
		return services.TermInfo{}, errors.NewValidationError("term", fmt.Sprintf("must normalize to exactly one term, got %d", len(terms)))
	}
	term := terms[0]
	return services.TermInfo{
		Term:              term,
		DocumentFrequency: snap.InvertedIndex.DocumentFrequency(term),
		IDF:               snap.InvertedIndex.IDF(term),
		Postings:          snap.InvertedIndex.PostingsOf(term),
	}, nil
}

// Stats summarizes the published snapshot.
func (e *Engine) Stats() services.IndexStats {
	snap := e.snapshot.Load()
	if snap == nil {
		return services.IndexStats{}
	}
	return services.IndexStats{
		Ready:     true,
		Documents: snap.DocumentStore.Size(),
		Terms:     snap.InvertedIndex.TermCount(),
	}
}

// GetJob retrieves a job by ID.
func (e *Engine) GetJob(jobID string) (*model.Job, error) {
	return e.jobManager.GetJob(jobID)
}

// ListJobs returns all jobs, optionally filtered by status.
func (e *Engine) ListJobs(status *model.JobStatus) []*model.Job {
	return e.jobManager.ListJobs(status)
}

// WaitJob blocks until the job is done or ctx is cancelled.
func (e *Engine) WaitJob(ctx context.Context, jobID string) (*model.Job, error) {
	return e.jobManager.WaitJob(ctx, jobID)
}
