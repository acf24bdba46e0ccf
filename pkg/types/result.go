package types

import "time"

// SearchHit is a single ranked row from the vector store.
type SearchHit struct {
	Content    string
	Similarity float64
}

// Validate checks hit invariants.
func (h *SearchHit) Validate() error {
	if h.Content == "" {
		return ErrEmptyContent
	}
	if h.Similarity < 0 || h.Similarity > 1 {
		return ErrInvalidSimilarity
	}
	return nil
}

// IngestStatistics summarizes one run of the ingestion pipeline.
type IngestStatistics struct {
	ChunksCreated  int
	ChunksEmbedded int
	ChunksFailed   int
	Duration       time.Duration
	ErrorMessages  []string
}
