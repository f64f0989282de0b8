// Package scoring holds the TF-IDF weight formulas and the ranking comparator.
package scoring

import (
	"math"

	"github.com/gcbaptista/tfidf-search/model"
)

// IDF calculates the inverse document frequency
// IDF = log10(N / df) where N = total documents, df = documents containing term
func IDF(totalDocs, docFreq int) float64 {
	if totalDocs == 0 || docFreq == 0 {
		return 0.0
	}
	return math.Log10(float64(totalDocs) / float64(docFreq))
}

// TFIDF calculates the weight of one posting
// TF-IDF = (1 + log10(tf)) * idf
func TFIDF(termFreq int, idf float64) float64 {
	if termFreq <= 0 {
		return 0.0
	}
	return (1 + math.Log10(float64(termFreq))) * idf
}

// ByRelevance orders relevances by descending relevance. Equal relevances
// keep ascending DocID order, which is the order the accumulators are
// created in, so the comparator gives the same result as a stable sort.
func ByRelevance(a, b model.DocumentRelevance) int {
	switch {
	case a.Relevance > b.Relevance:
		return -1
	case a.Relevance < b.Relevance:
		return 1
	case a.DocID < b.DocID:
		return -1
	case a.DocID > b.DocID:
		return 1
	default:
		return 0
	}
}
