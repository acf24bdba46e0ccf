package searcher

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strudelcc/strudel-docs-mcp/internal/embedder"
	"github.com/strudelcc/strudel-docs-mcp/pkg/types"
)

// stubStore records calls and returns canned hits.
type stubStore struct {
	hits      []types.SearchHit
	err       error
	calls     int
	threshold float64
	limit     int
}

func (s *stubStore) Search(_ context.Context, _ []float32, threshold float64, limit int) ([]types.SearchHit, error) {
	s.calls++
	s.threshold = threshold
	s.limit = limit
	return s.hits, s.err
}

func (s *stubStore) Insert(context.Context, string, []float32) error { return nil }
func (s *stubStore) Count(context.Context) (int, error)              { return len(s.hits), nil }
func (s *stubStore) Clear(context.Context) error                     { return nil }
func (s *stubStore) Close() error                                    { return nil }

func newTestSearcher(t *testing.T, st *stubStore, threshold float64) *Searcher {
	t.Helper()
	emb, err := embedder.NewLocalProvider(nil)
	require.NoError(t, err)
	return New(emb, st, threshold)
}

func TestSearch_ReturnsOrderedHits(t *testing.T) {
	st := &stubStore{hits: []types.SearchHit{
		{Content: "first", Similarity: 0.91},
		{Content: "second", Similarity: 0.75},
	}}
	s := newTestSearcher(t, st, 0.6)

	resp, err := s.Search(context.Background(), Request{Query: "how do samples work", MaxResults: 3})
	require.NoError(t, err)

	require.Len(t, resp.Hits, 2)
	assert.Equal(t, "first", resp.Hits[0].Content)
	assert.Equal(t, 0.91, resp.Hits[0].Similarity)
	assert.Equal(t, 0.6, st.threshold)
	assert.Equal(t, 3, st.limit)
}

func TestSearch_RejectsEmptyQuery(t *testing.T) {
	st := &stubStore{}
	s := newTestSearcher(t, st, 0.6)

	_, err := s.Search(context.Background(), Request{Query: "   "})
	require.Error(t, err)
	assert.Zero(t, st.calls, "store must not be queried for an invalid request")
}

func TestSearch_MaxResultsDefaults(t *testing.T) {
	st := &stubStore{}
	s := newTestSearcher(t, st, 0.6)

	_, err := s.Search(context.Background(), Request{Query: "q"})
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxResults, st.limit)

	_, err = s.Search(context.Background(), Request{Query: "q", MaxResults: -5})
	require.NoError(t, err)
	assert.Equal(t, 1, st.limit)
}

func TestSearch_PropagatesStoreError(t *testing.T) {
	st := &stubStore{err: errors.New("connection refused")}
	s := newTestSearcher(t, st, 0.6)

	_, err := s.Search(context.Background(), Request{Query: "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestSearch_CacheSkipsSecondLookup(t *testing.T) {
	st := &stubStore{hits: []types.SearchHit{{Content: "cached", Similarity: 0.8}}}
	s := newTestSearcher(t, st, 0.6)

	req := Request{Query: "q", MaxResults: 3, UseCache: true}

	first, err := s.Search(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, first.CacheHit)

	second, err := s.Search(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.Hits, second.Hits)
	assert.Equal(t, 1, st.calls)
}

func TestNew_ThresholdFallback(t *testing.T) {
	s := newTestSearcher(t, &stubStore{}, 0)
	assert.Equal(t, DefaultThreshold, s.Threshold())
}

func TestFormatHits(t *testing.T) {
	hits := []types.SearchHit{
		{Content: "## Samples\nUse s() to play samples.", Similarity: 0.912},
		{Content: "## Notes\nUse note() for pitches.", Similarity: 0.75},
	}

	got := FormatHits(hits)
	want := "--- Result 1 (Similarity: 0.91) ---\n## Samples\nUse s() to play samples.\n" +
		"\n" +
		"--- Result 2 (Similarity: 0.75) ---\n## Notes\nUse note() for pitches.\n"
	assert.Equal(t, want, got)
}

func TestFormatHits_Empty(t *testing.T) {
	assert.Equal(t, NoResultsMessage, FormatHits(nil))
	assert.Equal(t, NoResultsMessage, FormatHits([]types.SearchHit{}))
}
