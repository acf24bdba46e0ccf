package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "docs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_InsertAndSearch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, "exact match", []float32{1, 0}))
	require.NoError(t, s.Insert(ctx, "close match", []float32{0.8, 0.6}))
	require.NoError(t, s.Insert(ctx, "orthogonal", []float32{0, 1}))

	hits, err := s.Search(ctx, []float32{1, 0}, 0.5, 10)
	require.NoError(t, err)

	require.Len(t, hits, 2)
	assert.Equal(t, "exact match", hits[0].Content)
	assert.Equal(t, "close match", hits[1].Content)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-6)
	assert.InDelta(t, 0.8, hits[1].Similarity, 1e-6)
}

func TestSQLiteStore_SearchRespectsLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, "a", []float32{1, 0}))
	require.NoError(t, s.Insert(ctx, "b", []float32{0.9, 0.1}))
	require.NoError(t, s.Insert(ctx, "c", []float32{0.8, 0.2}))

	hits, err := s.Search(ctx, []float32{1, 0}, 0, 2)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestSQLiteStore_SearchClampsNonPositiveLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, "a", []float32{1, 0}))
	require.NoError(t, s.Insert(ctx, "b", []float32{0.9, 0.1}))

	hits, err := s.Search(ctx, []float32{1, 0}, 0, 0)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestSQLiteStore_SearchEmpty(t *testing.T) {
	s := newTestStore(t)

	hits, err := s.Search(context.Background(), []float32{1, 0}, 0.5, 3)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSQLiteStore_SkipsDimensionMismatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, "wrong dims", []float32{1, 0, 0}))

	hits, err := s.Search(ctx, []float32{1, 0}, 0, 3)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSQLiteStore_CountAndClear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, "a", []float32{1, 0}))
	require.NoError(t, s.Insert(ctx, "b", []float32{0, 1}))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, s.Clear(ctx))

	count, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestSQLiteStore_InsertRejectsEmptyContent(t *testing.T) {
	s := newTestStore(t)
	assert.Error(t, s.Insert(context.Background(), "", []float32{1}))
}

func TestSQLiteStore_Reopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docs.db")

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Insert(context.Background(), "persisted", []float32{1, 0}))
	require.NoError(t, s.Close())

	// Migrations must be idempotent across reopens.
	s, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	count, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
