package store

import (
	"context"
	"errors"
	"time"

	"github.com/strudelcc/strudel-docs-mcp/pkg/types"
)

var (
	// ErrNotFound is returned when a requested row doesn't exist
	ErrNotFound = errors.New("not found")
)

// Store is the vector-store port. Search returns hits ordered by
// descending similarity; callers never re-sort.
type Store interface {
	// Search returns up to limit hits whose cosine similarity to vector
	// meets threshold, best match first.
	Search(ctx context.Context, vector []float32, threshold float64, limit int) ([]types.SearchHit, error)

	// Insert persists one chunk with its embedding.
	Insert(ctx context.Context, content string, vector []float32) error

	// Count returns the number of stored chunks.
	Count(ctx context.Context) (int, error)

	// Clear removes all stored chunks. Used before repopulation.
	Clear(ctx context.Context) error

	Close() error
}

// Document is a stored documentation chunk with its embedding.
type Document struct {
	ID        int64
	Content   string
	Vector    []byte // Serialized float32 array
	Dimension int
	CreatedAt time.Time
}
