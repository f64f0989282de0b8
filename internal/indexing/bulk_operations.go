package indexing

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/gcbaptista/tfidf-search/config"
)

// BuildConfig contains configuration for collection builds
type BuildConfig struct {
	WorkerCount      int    // Number of concurrent text extractions
	FailurePolicy    string // config.FailurePolicyAbort or config.FailurePolicySkip
	ProgressCallback func(processed, total int, message string)
	DocumentCallback func(docID int, path string, vocabulary int) // Called after each indexed document
}

// DefaultBuildConfig returns sensible defaults for collection builds
func DefaultBuildConfig() BuildConfig {
	return BuildConfig{
		WorkerCount:   runtime.NumCPU(),
		FailurePolicy: config.FailurePolicyAbort,
	}
}

// BuildConfigFromSettings derives a BuildConfig from the indexing settings.
func BuildConfigFromSettings(settings config.IndexingSettings) BuildConfig {
	cfg := DefaultBuildConfig()
	if settings.Workers > 0 {
		cfg.WorkerCount = settings.Workers
	}
	if settings.FailurePolicy != "" {
		cfg.FailurePolicy = settings.FailurePolicy
	}
	return cfg
}

func (c *BuildConfig) applyDefaults() {
	if c.WorkerCount <= 0 {
		c.WorkerCount = 1
	}
	if c.FailurePolicy == "" {
		c.FailurePolicy = config.FailurePolicyAbort
	}
}

func (c *BuildConfig) validate() error {
	if c.FailurePolicy != config.FailurePolicyAbort && c.FailurePolicy != config.FailurePolicySkip {
		return fmt.Errorf("unknown failure policy %q", c.FailurePolicy)
	}
	return nil
}

// BuildStats summarizes a collection build.
type BuildStats struct {
	Documents int           `json:"documents"`         // Registered documents
	Terms     int           `json:"terms"`             // Vocabulary size
	Tokens    int           `json:"tokens"`            // Sum of the vocabulary size after each document
	Skipped   []string      `json:"skipped,omitempty"` // Paths left out under the skip policy
	Duration  time.Duration `json:"duration"`
	// Errors holds one error per skipped document, nil when none was skipped.
	Errors error `json:"-"`
}

// extraction is the outcome of extracting one document.
type extraction struct {
	text string
	err  error
}

// IndexCollection indexes every path in order. Text extraction runs on up to
// WorkerCount goroutines; occurrences are recorded on the calling goroutine in
// path order, so document IDs follow the order of paths.
//
// Under the abort policy the first extraction error stops the build and is
// returned. Under the skip policy failing documents are left out, and their
// errors are collected in BuildStats.Errors.
//
// IndexCollection does not finalize the index.
func (s *Service) IndexCollection(ctx context.Context, paths []string) (BuildStats, error) {
	start := time.Now()
	stats := BuildStats{}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]chan extraction, len(paths))
	for i := range results {
		results[i] = make(chan extraction, 1)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.WorkerCount)

	launched := make(chan struct{})
	go func() {
		defer close(launched)
		for i, path := range paths {
			if gctx.Err() != nil {
				results[i] <- extraction{err: gctx.Err()}
				continue
			}
			g.Go(func() error {
				if _, exists := s.documentStore.Lookup(path); exists {
					results[i] <- extraction{}
					return nil
				}
				text, err := s.extractor.Extract(gctx, path)
				results[i] <- extraction{text: text, err: err}
				return nil
			})
		}
	}()

	// Stop the producers before returning on any path.
	defer func() {
		cancel()
		<-launched
		_ = g.Wait()
	}()

	var skipped *multierror.Error
	for i, path := range paths {
		var res extraction
		select {
		case res = <-results[i]:
		case <-ctx.Done():
			return stats, ctx.Err()
		}

		if res.err != nil {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
			s.metrics.ObserveExtractionFailure()
			if s.config.FailurePolicy == config.FailurePolicyAbort {
				s.log.WithError(res.err).WithField("path", path).Error("aborting build")
				return stats, fmt.Errorf("failed to index collection at %s: %w", path, res.err)
			}
			s.log.WithError(res.err).WithField("path", path).Warn("skipping document")
			skipped = multierror.Append(skipped, res.err)
			stats.Skipped = append(stats.Skipped, path)
			s.reportProgress(i+1, len(paths), "skipped "+path)
			continue
		}

		if _, exists := s.documentStore.Lookup(path); !exists {
			if _, err := s.indexText(path, res.text); err != nil {
				return stats, err
			}
		}
		s.reportProgress(i+1, len(paths), "indexed "+path)
	}

	stats.Documents = s.documentStore.Size()
	stats.Terms = s.invertedIndex.TermCount()
	stats.Tokens = s.tokenCount
	stats.Errors = skipped.ErrorOrNil()
	stats.Duration = time.Since(start)

	s.log.WithFields(logrus.Fields{
		"documents": stats.Documents,
		"terms":     stats.Terms,
		"skipped":   len(stats.Skipped),
		"duration":  stats.Duration,
	}).Info("collection indexed")
	return stats, nil
}

func (s *Service) reportProgress(processed, total int, message string) {
	if s.config.ProgressCallback != nil {
		s.config.ProgressCallback(processed, total, message)
	}
}
