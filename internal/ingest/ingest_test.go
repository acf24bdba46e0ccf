package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strudelcc/strudel-docs-mcp/internal/chunker"
	"github.com/strudelcc/strudel-docs-mcp/pkg/types"
)

// memEmbedder embeds every text as a fixed vector, optionally failing on
// texts containing a marker substring.
type memEmbedder struct {
	failOn string
}

func (e *memEmbedder) Embed(context.Context, string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func (e *memEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if e.failOn != "" && strings.Contains(text, e.failOn) {
			return nil, errors.New("provider unavailable")
		}
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func (e *memEmbedder) Dimension() int   { return 2 }
func (e *memEmbedder) Provider() string { return "test" }
func (e *memEmbedder) Close() error     { return nil }

// memStore accumulates inserted rows in memory.
type memStore struct {
	mu      sync.Mutex
	rows    []string
	cleared bool
}

func (s *memStore) Search(context.Context, []float32, float64, int) ([]types.SearchHit, error) {
	return nil, nil
}

func (s *memStore) Insert(_ context.Context, content string, _ []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, content)
	return nil
}

func (s *memStore) Count(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows), nil
}

func (s *memStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = nil
	s.cleared = true
	return nil
}

func (s *memStore) Close() error { return nil }

func sectionDoc(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "## Section %d\n\nThis section describes feature number %d in enough detail to index.\n\n", i, i)
	}
	return b.String()
}

func TestIngest_StoresEveryChunk(t *testing.T) {
	st := &memStore{}
	p := New(chunker.New(), &memEmbedder{}, st, nil)

	stats, err := p.Ingest(context.Background(), sectionDoc(10), Config{})
	require.NoError(t, err)

	assert.Equal(t, 10, stats.ChunksCreated)
	assert.Equal(t, 10, stats.ChunksEmbedded)
	assert.Zero(t, stats.ChunksFailed)
	assert.Len(t, st.rows, 10)
}

func TestIngest_EmptyDocument(t *testing.T) {
	st := &memStore{}
	p := New(chunker.New(), &memEmbedder{}, st, nil)

	stats, err := p.Ingest(context.Background(), "no headers here", Config{})
	require.NoError(t, err)
	assert.Zero(t, stats.ChunksCreated)
	assert.Empty(t, st.rows)
}

func TestIngest_ClearFirst(t *testing.T) {
	st := &memStore{rows: []string{"stale"}}
	p := New(chunker.New(), &memEmbedder{}, st, nil)

	_, err := p.Ingest(context.Background(), sectionDoc(2), Config{ClearFirst: true})
	require.NoError(t, err)
	assert.True(t, st.cleared)
	assert.Len(t, st.rows, 2)
}

func TestIngest_FailedBatchContinues(t *testing.T) {
	st := &memStore{}
	p := New(chunker.New(), &memEmbedder{failOn: "Section 0"}, st, nil)

	// Batch size 1 so only the poisoned chunk's batch fails.
	stats, err := p.Ingest(context.Background(), sectionDoc(5), Config{BatchSize: 1})
	require.NoError(t, err)

	assert.Equal(t, 5, stats.ChunksCreated)
	assert.Equal(t, 4, stats.ChunksEmbedded)
	assert.Equal(t, 1, stats.ChunksFailed)
	require.Len(t, stats.ErrorMessages, 1)
	assert.Contains(t, stats.ErrorMessages[0], "provider unavailable")
	assert.Len(t, st.rows, 4)
}

func TestIngestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.md")
	require.NoError(t, os.WriteFile(path, []byte(sectionDoc(3)), 0o644))

	st := &memStore{}
	p := New(chunker.New(), &memEmbedder{}, st, nil)

	stats, err := p.IngestFile(context.Background(), path, Config{})
	require.NoError(t, err)
	assert.Equal(t, 3, stats.ChunksCreated)
}

func TestIngestFile_Missing(t *testing.T) {
	p := New(chunker.New(), &memEmbedder{}, &memStore{}, nil)

	_, err := p.IngestFile(context.Background(), "/nonexistent/docs.md", Config{})
	require.Error(t, err)
}
