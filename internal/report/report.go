// Package report formats build progress and ranked results for the console.
package report

import (
	"fmt"
	"io"

	"github.com/gcbaptista/tfidf-search/services"
)

// PrintBuildRow writes one row of the build table: the document ID, its path
// and the vocabulary size after indexing it.
func PrintBuildRow(w io.Writer, docID int, path string, vocabulary int) error {
	_, err := fmt.Fprintf(w, "| %2d | %60s | %5d |\n", docID, path, vocabulary)
	return err
}

// PrintBuildSummary writes the token counter and the vocabulary size.
func PrintBuildSummary(w io.Writer, tokens, terms int) error {
	_, err := fmt.Fprintf(w, "Count tokens %d\nSize %d\n", tokens, terms)
	return err
}

// PrintResults writes one line per hit: rank, relevance and path.
func PrintResults(w io.Writer, hits []services.Hit) error {
	for _, hit := range hits {
		if _, err := fmt.Fprintf(w, "%d.\t(%.4f)\t%s\n", hit.Rank, hit.Relevance, hit.Path); err != nil {
			return err
		}
	}
	return nil
}
