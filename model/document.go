package model

// Document is a member of the indexed collection.
// ID is assigned sequentially at first registration and never changes;
// Path is the external identifier used for deduplication.
type Document struct {
	ID   int    `json:"id"`
	Path string `json:"path"`
}

// DocumentRelevance accumulates the relevance of one document for one query.
// Instances are created per query and discarded after ranking.
type DocumentRelevance struct {
	DocID     int     `json:"doc_id"`
	Relevance float64 `json:"relevance"`
}

// Add adds a posting weight to the accumulated relevance.
func (dr *DocumentRelevance) Add(weight float64) {
	dr.Relevance += weight
}
