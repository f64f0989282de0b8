package indexing

import (
	"context"
	"fmt"
	"math"
	"os"
	"sync"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/tfidf-search/config"
	"github.com/gcbaptista/tfidf-search/index"
	"github.com/gcbaptista/tfidf-search/internal/errors"
	"github.com/gcbaptista/tfidf-search/services"
	"github.com/gcbaptista/tfidf-search/store"
)

var _ services.Builder = (*Service)(nil)

// mapExtractor serves document texts from memory. Paths without an entry
// fail like a missing file.
type mapExtractor struct {
	mu    sync.Mutex
	texts map[string]string
	calls map[string]int
}

func newMapExtractor(texts map[string]string) *mapExtractor {
	return &mapExtractor{texts: texts, calls: make(map[string]int)}
}

func (e *mapExtractor) Extract(ctx context.Context, path string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls[path]++

	if err := ctx.Err(); err != nil {
		return "", errors.NewExtractionError(path, err)
	}
	text, ok := e.texts[path]
	if !ok {
		return "", errors.NewExtractionError(path, os.ErrNotExist)
	}
	return text, nil
}

func newTestService(t testing.TB, texts map[string]string, cfg BuildConfig) (*Service, *index.InvertedIndex, *store.DocumentStore) {
	t.Helper()
	invIdx := index.NewInvertedIndex()
	docStore := store.NewDocumentStore()
	s, err := NewService(invIdx, docStore, newMapExtractor(texts), cfg, nil)
	require.NoError(t, err)
	return s, invIdx, docStore
}

var catDogCollection = map[string]string{
	"doc0": "cat dog",
	"doc1": "cat cat cat",
	"doc2": "dog",
}

func TestNewService(t *testing.T) {
	ext := newMapExtractor(nil)

	t.Run("valid initialization", func(t *testing.T) {
		_, err := NewService(index.NewInvertedIndex(), store.NewDocumentStore(), ext, DefaultBuildConfig(), nil)
		assert.NoError(t, err)
	})

	t.Run("nil inverted index", func(t *testing.T) {
		_, err := NewService(nil, store.NewDocumentStore(), ext, DefaultBuildConfig(), nil)
		assert.Error(t, err)
	})

	t.Run("nil document store", func(t *testing.T) {
		_, err := NewService(index.NewInvertedIndex(), nil, ext, DefaultBuildConfig(), nil)
		assert.Error(t, err)
	})

	t.Run("nil extractor", func(t *testing.T) {
		_, err := NewService(index.NewInvertedIndex(), store.NewDocumentStore(), nil, DefaultBuildConfig(), nil)
		assert.Error(t, err)
	})

	t.Run("finalized index", func(t *testing.T) {
		invIdx := index.NewInvertedIndex()
		require.NoError(t, invIdx.FinalizeWeights(0))
		_, err := NewService(invIdx, store.NewDocumentStore(), ext, DefaultBuildConfig(), nil)
		assert.Error(t, err)
	})

	t.Run("unknown failure policy", func(t *testing.T) {
		_, err := NewService(index.NewInvertedIndex(), store.NewDocumentStore(), ext, BuildConfig{FailurePolicy: "retry"}, nil)
		assert.Error(t, err)
	})
}

func TestIndexDocument(t *testing.T) {
	s, invIdx, docStore := newTestService(t, catDogCollection, DefaultBuildConfig())
	ctx := context.Background()

	for i, path := range []string{"doc0", "doc1", "doc2"} {
		id, err := s.IndexDocument(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, i, id)
	}

	t.Run("re-indexing a path returns its ID", func(t *testing.T) {
		id, err := s.IndexDocument(ctx, "doc1")
		require.NoError(t, err)
		assert.Equal(t, 1, id)
		assert.Equal(t, 3, docStore.Size())
		assert.Equal(t, 3, invIdx.PostingsOf("cat")[1].TF)
	})

	t.Run("failed extraction registers nothing", func(t *testing.T) {
		_, err := s.IndexDocument(ctx, "missing")
		assert.ErrorIs(t, err, errors.ErrExtraction)
		assert.Equal(t, 3, docStore.Size())
	})

	require.NoError(t, s.Finalize())
	assert.Equal(t, index.PostingList{
		{DocID: 0, TF: 1, TFIDF: math.Log10(1.5)},
		{DocID: 1, TF: 3, TFIDF: (1 + math.Log10(3)) * math.Log10(1.5)},
	}, invIdx.PostingsOf("cat"))

	t.Run("finalize runs once", func(t *testing.T) {
		assert.ErrorIs(t, s.Finalize(), errors.ErrAlreadyFinalized)
	})

	t.Run("indexing after finalize fails", func(t *testing.T) {
		_, err := s.IndexText("late", "cat")
		assert.ErrorIs(t, err, errors.ErrAlreadyFinalized)
	})
}

func TestIndexCollection(t *testing.T) {
	var rows []string
	cfg := BuildConfig{
		WorkerCount: 2,
		DocumentCallback: func(docID int, path string, vocabulary int) {
			rows = append(rows, fmt.Sprintf("%d %s %d", docID, path, vocabulary))
		},
	}
	s, invIdx, docStore := newTestService(t, catDogCollection, cfg)

	stats, err := s.IndexCollection(context.Background(), []string{"doc0", "doc1", "doc2", "doc1"})
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Documents)
	assert.Equal(t, 2, stats.Terms)
	assert.Equal(t, 2+2+2, stats.Tokens)
	assert.Empty(t, stats.Skipped)
	assert.NoError(t, stats.Errors)
	assert.Equal(t, []string{"0 doc0 2", "1 doc1 2", "2 doc2 2"}, rows)

	for i, path := range []string{"doc0", "doc1", "doc2"} {
		got, err := docStore.PathOf(i)
		require.NoError(t, err)
		assert.Equal(t, path, got)
	}
	assert.Equal(t, 2, invIdx.DocumentFrequency("cat"))
	assert.Equal(t, 2, invIdx.DocumentFrequency("dog"))
}

func TestIndexCollection_AbortPolicy(t *testing.T) {
	cfg := BuildConfig{WorkerCount: 1, FailurePolicy: config.FailurePolicyAbort}
	s, _, docStore := newTestService(t, catDogCollection, cfg)

	_, err := s.IndexCollection(context.Background(), []string{"doc0", "missing", "doc2"})
	assert.ErrorIs(t, err, errors.ErrExtraction)
	assert.Equal(t, 1, docStore.Size())
}

func TestIndexCollection_SkipPolicy(t *testing.T) {
	var progress []int
	cfg := BuildConfig{
		WorkerCount:      3,
		FailurePolicy:    config.FailurePolicySkip,
		ProgressCallback: func(processed, total int, message string) { progress = append(progress, processed) },
	}
	s, _, docStore := newTestService(t, catDogCollection, cfg)

	stats, err := s.IndexCollection(context.Background(), []string{"doc0", "missing1", "doc1", "missing2", "doc2"})
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Documents)
	assert.Equal(t, []string{"missing1", "missing2"}, stats.Skipped)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, progress)

	var merr *multierror.Error
	require.ErrorAs(t, stats.Errors, &merr)
	assert.Len(t, merr.Errors, 2)
	assert.ErrorIs(t, stats.Errors, errors.ErrExtraction)

	path, err := docStore.PathOf(2)
	require.NoError(t, err)
	assert.Equal(t, "doc2", path)
}

func TestIndexCollection_Cancelled(t *testing.T) {
	cfg := BuildConfig{WorkerCount: 2, FailurePolicy: config.FailurePolicySkip}
	s, _, _ := newTestService(t, catDogCollection, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.IndexCollection(ctx, []string{"doc0", "doc1", "doc2"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIndexCollection_Empty(t *testing.T) {
	s, invIdx, _ := newTestService(t, nil, DefaultBuildConfig())

	stats, err := s.IndexCollection(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Documents)

	require.NoError(t, s.Finalize())
	assert.True(t, invIdx.IsFinalized())
}

func TestBuildConfigFromSettings(t *testing.T) {
	cfg := BuildConfigFromSettings(config.IndexingSettings{Workers: 3, FailurePolicy: config.FailurePolicySkip})
	assert.Equal(t, 3, cfg.WorkerCount)
	assert.Equal(t, config.FailurePolicySkip, cfg.FailurePolicy)

	cfg = BuildConfigFromSettings(config.IndexingSettings{})
	assert.Equal(t, config.FailurePolicyAbort, cfg.FailurePolicy)
	assert.Positive(t, cfg.WorkerCount)
}
