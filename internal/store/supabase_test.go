package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupabaseStore_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/rpc/match_documents", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var params struct {
			QueryEmbedding []float32 `json:"query_embedding"`
			MatchThreshold float64   `json:"match_threshold"`
			MatchCount     int       `json:"match_count"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&params))
		assert.Equal(t, 0.6, params.MatchThreshold)
		assert.Equal(t, 3, params.MatchCount)

		_ = json.NewEncoder(w).Encode([]map[string]interface{}{
			{"content": "A", "similarity": 0.91},
			{"content": "B", "similarity": 0.75},
		})
	}))
	defer srv.Close()

	s, err := NewSupabaseStore(srv.URL, "secret", "")
	require.NoError(t, err)

	hits, err := s.Search(context.Background(), []float32{1, 2}, 0.6, 3)
	require.NoError(t, err)

	require.Len(t, hits, 2)
	assert.Equal(t, "A", hits[0].Content)
	assert.Equal(t, 0.91, hits[0].Similarity)
	assert.Equal(t, "B", hits[1].Content)
}

func TestSupabaseStore_SearchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid api key"}`))
	}))
	defer srv.Close()

	s, err := NewSupabaseStore(srv.URL, "bad", "")
	require.NoError(t, err)

	_, err = s.Search(context.Background(), []float32{1}, 0.6, 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestSupabaseStore_Insert(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/strudel_docs", r.URL.Path)
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "return=minimal", r.Header.Get("Prefer"))

		var row struct {
			Content   string    `json:"content"`
			Embedding []float32 `json:"embedding"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&row))
		assert.Equal(t, "## Samples\n...", row.Content)
		assert.Len(t, row.Embedding, 2)

		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	s, err := NewSupabaseStore(srv.URL, "secret", "")
	require.NoError(t, err)

	require.NoError(t, s.Insert(context.Background(), "## Samples\n...", []float32{0.1, 0.2}))
}

func TestSupabaseStore_Count(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "count=exact", r.Header.Get("Prefer"))
		w.Header().Set("Content-Range", "0-0/57")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	s, err := NewSupabaseStore(srv.URL, "secret", "")
	require.NoError(t, err)

	count, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 57, count)
}

func TestNewSupabaseStore_RequiresCredentials(t *testing.T) {
	_, err := NewSupabaseStore("", "key", "")
	assert.Error(t, err)
	_, err = NewSupabaseStore("https://x.supabase.co", "", "")
	assert.Error(t, err)
}
