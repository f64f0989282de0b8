// Package testing provides utilities and helpers for testing the search engine.
package testing

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/tfidf-search/config"
	"github.com/gcbaptista/tfidf-search/internal/engine"
	"github.com/gcbaptista/tfidf-search/internal/extract"
	"github.com/gcbaptista/tfidf-search/internal/indexing"
	"github.com/gcbaptista/tfidf-search/model"
	"github.com/gcbaptista/tfidf-search/services"
)

// TestFile is one document of a test collection.
type TestFile struct {
	Name string
	Body string
}

// SampleCollection is a small collection in the spirit of the Shakespeare
// corpus: brutus and caesar share "caesar", romeo shares nothing.
var SampleCollection = []TestFile{
	{Name: "brutus.html", Body: "<html><body><p>Brutus killed Caesar</p></body></html>"},
	{Name: "caesar.html", Body: "<html><body><p>Caesar Caesar Calpurnia</p></body></html>"},
	{Name: "romeo.txt", Body: "Romeo and Juliet"},
}

// WriteCollection writes files into a fresh temporary directory and returns
// their paths in the given order.
func WriteCollection(t *testing.T, files []TestFile) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = filepath.Join(dir, f.Name)
		require.NoError(t, os.WriteFile(paths[i], []byte(f.Body), 0o600), "Failed to write test document")
	}
	return paths
}

// CreateTestEngine creates a new engine with the HTML extractor. The engine is
// closed when the test ends.
func CreateTestEngine(t *testing.T, failurePolicy string) *engine.Engine {
	t.Helper()
	cfg := indexing.DefaultBuildConfig()
	cfg.WorkerCount = 2
	if failurePolicy != "" {
		cfg.FailurePolicy = failurePolicy
	}

	eng := engine.NewEngine(extract.NewHTMLExtractor(), cfg, nil)
	t.Cleanup(eng.Close)
	return eng
}

// BuildTestEngine writes files, builds an engine over them and returns both.
func BuildTestEngine(t *testing.T, files []TestFile) (*engine.Engine, []string) {
	t.Helper()
	eng := CreateTestEngine(t, config.FailurePolicyAbort)
	paths := WriteCollection(t, files)

	_, err := eng.Build(context.Background(), paths)
	require.NoError(t, err, "Failed to build test index")
	return eng, paths
}

// JobPollingOptions configures job polling behavior
type JobPollingOptions struct {
	Timeout      time.Duration
	PollInterval time.Duration
	LogProgress  bool
}

// DefaultJobPollingOptions returns sensible defaults for job polling
func DefaultJobPollingOptions() JobPollingOptions {
	return JobPollingOptions{
		Timeout:      10 * time.Second,
		PollInterval: 10 * time.Millisecond,
		LogProgress:  true,
	}
}

// WaitForJobCompletion polls a job until it completes or times out
func WaitForJobCompletion(t *testing.T, jobManager services.JobManager, jobID string, opts JobPollingOptions) *model.Job {
	t.Helper()
	timeout := time.After(opts.Timeout)
	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			t.Fatalf("Job %s did not complete within %v timeout", jobID, opts.Timeout)
		case <-ticker.C:
			job, err := jobManager.GetJob(jobID)
			require.NoError(t, err, "Failed to get job status")

			switch job.Status {
			case model.JobStatusCompleted:
				if opts.LogProgress {
					t.Logf("Job %s completed successfully in %v", jobID, job.CompletedAt.Sub(job.CreatedAt))
				}
				return job
			case model.JobStatusFailed:
				t.Fatalf("Job %s failed: %s", jobID, job.Error)
			case model.JobStatusRunning:
				if opts.LogProgress && job.Progress != nil {
					t.Logf("Job %s progress: %d/%d - %s",
						jobID,
						job.Progress.Current,
						job.Progress.Total,
						job.Progress.Message)
				}
			}
		}
	}
}

// AssertJobCompleted verifies that a job completed successfully
func AssertJobCompleted(t *testing.T, job *model.Job, expectedType model.JobType) {
	t.Helper()
	assert.Equal(t, model.JobStatusCompleted, job.Status, "Job should be completed")
	assert.Equal(t, expectedType, job.Type, "Job type should match")
	assert.NotNil(t, job.CompletedAt, "Job should have completion timestamp")
	assert.Empty(t, job.Error, "Job should not have error")
}

// SearchTestCase represents a test case for search operations
type SearchTestCase struct {
	Name          string
	Query         string
	K             int
	ExpectedCount int    // Expected number of hits after truncation
	ExpectedFirst string // Expected base name of the first hit's path
	ValidateFunc  func(t *testing.T, result *services.SearchResult)
}

// RunSearchTests runs a suite of search tests against an index
func RunSearchTests(t *testing.T, searcher services.IndexManager, tests []SearchTestCase) {
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			result, err := searcher.Search(tt.Query, tt.K)
			require.NoError(t, err, "Search should not fail")

			assert.Len(t, result.Hits, tt.ExpectedCount, "Result count should match")

			if tt.ExpectedFirst != "" && len(result.Hits) > 0 {
				assert.Equal(t, tt.ExpectedFirst, filepath.Base(result.Hits[0].Path), "First result should match expected")
			}

			if tt.ValidateFunc != nil {
				tt.ValidateFunc(t, &result)
			}
		})
	}
}
