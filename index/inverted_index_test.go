package index

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/tfidf-search/internal/errors"
)

// record feeds documents to the index in order, one slice of terms per docID.
func record(t *testing.T, ii *InvertedIndex, docs [][]string) {
	t.Helper()
	for docID, terms := range docs {
		for _, term := range terms {
			require.NoError(t, ii.RecordOccurrence(term, docID))
		}
	}
}

func TestRecordOccurrence(t *testing.T) {
	ii := NewInvertedIndex()
	record(t, ii, [][]string{
		{"cat", "dog"},
		{"cat", "cat", "cat"},
		{"dog"},
	})

	assert.Equal(t, PostingList{{DocID: 0, TF: 1}, {DocID: 1, TF: 3}}, ii.PostingsOf("cat"))
	assert.Equal(t, PostingList{{DocID: 0, TF: 1}, {DocID: 2, TF: 1}}, ii.PostingsOf("dog"))
	assert.Equal(t, 2, ii.TermCount())
	assert.Equal(t, []string{"cat", "dog"}, ii.Terms())
}

func TestFrequencyConservation(t *testing.T) {
	docs := [][]string{
		{"a", "b", "a", "c"},
		{"b", "b"},
		{},
		{"c", "a", "a", "a"},
		{"d"},
	}
	ii := NewInvertedIndex()
	record(t, ii, docs)

	occurrences := make(map[string]int)
	containing := make(map[string]map[int]struct{})
	for docID, terms := range docs {
		for _, term := range terms {
			occurrences[term]++
			if containing[term] == nil {
				containing[term] = make(map[int]struct{})
			}
			containing[term][docID] = struct{}{}
		}
	}

	for term, count := range occurrences {
		postings := ii.PostingsOf(term)
		assert.Equal(t, len(containing[term]), ii.DocumentFrequency(term), "df of %q", term)
		assert.Equal(t, count, postings.TotalFrequency(), "total tf of %q", term)

		for i := 1; i < len(postings); i++ {
			assert.Less(t, postings[i-1].DocID, postings[i].DocID, "postings of %q must be strictly ascending", term)
		}
	}
}

func TestRecordOccurrence_Ordering(t *testing.T) {
	t.Run("earlier document after a later one is rejected", func(t *testing.T) {
		ii := NewInvertedIndex()
		require.NoError(t, ii.RecordOccurrence("cat", 0))
		require.NoError(t, ii.RecordOccurrence("dog", 1))

		err := ii.RecordOccurrence("cat", 0)
		assert.ErrorIs(t, err, errors.ErrOutOfOrder)
		assert.Equal(t, PostingList{{DocID: 0, TF: 1}}, ii.PostingsOf("cat"))
	})

	t.Run("repeated document ID is allowed", func(t *testing.T) {
		ii := NewInvertedIndex()
		require.NoError(t, ii.RecordOccurrence("cat", 2))
		require.NoError(t, ii.RecordOccurrence("dog", 2))
		require.NoError(t, ii.RecordOccurrence("cat", 2))
		assert.Equal(t, PostingList{{DocID: 2, TF: 2}}, ii.PostingsOf("cat"))
	})

	t.Run("negative document ID is rejected", func(t *testing.T) {
		ii := NewInvertedIndex()
		assert.ErrorIs(t, ii.RecordOccurrence("cat", -1), errors.ErrInvalidInput)
	})

	t.Run("recording after finalize is rejected", func(t *testing.T) {
		ii := NewInvertedIndex()
		require.NoError(t, ii.RecordOccurrence("cat", 0))
		require.NoError(t, ii.FinalizeWeights(1))
		assert.ErrorIs(t, ii.RecordOccurrence("cat", 1), errors.ErrAlreadyFinalized)
	})
}

func TestFinalizeWeights(t *testing.T) {
	ii := NewInvertedIndex()
	record(t, ii, [][]string{
		{"cat", "dog"},
		{"cat", "cat", "cat"},
		{"dog"},
	})
	assert.False(t, ii.IsFinalized())
	require.NoError(t, ii.FinalizeWeights(3))
	assert.True(t, ii.IsFinalized())
	assert.Equal(t, 3, ii.NumDocs())

	assert.Equal(t, 2, ii.DocumentFrequency("cat"))
	assert.InDelta(t, math.Log10(1.5), ii.IDF("cat"), 1e-12)

	cat := ii.PostingsOf("cat")
	require.Len(t, cat, 2)
	assert.InDelta(t, 0.1761, cat[0].TFIDF, 1e-4)
	assert.InDelta(t, 0.2601, cat[1].TFIDF, 1e-4)

	t.Run("weight formula holds for every posting", func(t *testing.T) {
		for _, term := range ii.Terms() {
			df := ii.DocumentFrequency(term)
			for _, p := range ii.PostingsOf(term) {
				expected := (1 + math.Log10(float64(p.TF))) * math.Log10(3/float64(df))
				assert.InDelta(t, expected, p.TFIDF, 1e-12)
			}
		}
	})

	t.Run("second finalize is rejected", func(t *testing.T) {
		assert.ErrorIs(t, ii.FinalizeWeights(3), errors.ErrAlreadyFinalized)
	})
}

func TestFinalizeWeights_TermInEveryDocument(t *testing.T) {
	ii := NewInvertedIndex()
	record(t, ii, [][]string{{"the", "cat"}, {"the"}})
	require.NoError(t, ii.FinalizeWeights(2))

	assert.Equal(t, 0.0, ii.IDF("the"))
	for _, p := range ii.PostingsOf("the") {
		assert.Equal(t, 0.0, p.TFIDF)
	}
}

func TestFinalizeWeights_CollectionTooSmall(t *testing.T) {
	ii := NewInvertedIndex()
	record(t, ii, [][]string{{"a"}, {"b"}, {"c"}})
	assert.ErrorIs(t, ii.FinalizeWeights(2), errors.ErrInvalidInput)
	assert.False(t, ii.IsFinalized())
}

func TestPostingsOf_UnknownTerm(t *testing.T) {
	ii := NewInvertedIndex()
	postings := ii.PostingsOf("missing")
	assert.NotNil(t, postings)
	assert.Empty(t, postings)
	assert.Equal(t, 0, ii.DocumentFrequency("missing"))
	assert.Equal(t, 0.0, ii.IDF("missing"))
}

func TestPostingsOf_ReturnsCopy(t *testing.T) {
	ii := NewInvertedIndex()
	require.NoError(t, ii.RecordOccurrence("cat", 0))

	postings := ii.PostingsOf("cat")
	postings[0].TF = 99
	assert.Equal(t, 1, ii.PostingsOf("cat")[0].TF)

	var seen []int
	ii.ForEachPosting("cat", func(p Posting) { seen = append(seen, p.DocID) })
	assert.Equal(t, []int{0}, seen)
}
