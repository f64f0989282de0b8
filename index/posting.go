package index

// Posting records the occurrences of one term in one document.
type Posting struct {
	DocID int     `json:"doc_id"`
	TF    int     `json:"tf"`     // Raw occurrences of the term in the document
	TFIDF float64 `json:"tf_idf"` // Zero until the index is finalized
}

// PostingList is a slice of Posting in ascending DocID order, at most one
// posting per document.
type PostingList []Posting

// TotalFrequency returns the sum of TF over the list, i.e. the number of
// occurrences of the term across the collection.
func (pl PostingList) TotalFrequency() int {
	total := 0
	for _, p := range pl {
		total += p.TF
	}
	return total
}
