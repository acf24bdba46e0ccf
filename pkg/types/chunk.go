package types

import (
	"strings"
)

// MinChunkLength is the minimum trimmed length for a chunk to be worth
// embedding. Shorter fragments are dropped at ingestion time.
const MinChunkLength = 50

// DocChunk represents a retrieval-sized excerpt of the documentation.
type DocChunk struct {
	Text string
}

// Validate checks that the chunk carries enough content to embed.
func (c *DocChunk) Validate() error {
	if len(strings.TrimSpace(c.Text)) <= MinChunkLength {
		return ErrChunkTooShort
	}
	return nil
}
