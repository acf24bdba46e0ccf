package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/strudelcc/strudel-docs-mcp/pkg/types"
)

const (
	// DefaultSupabaseTable is the table holding documentation chunks.
	DefaultSupabaseTable = "strudel_docs"

	// matchDocumentsRPC is the stored procedure performing pgvector
	// similarity search on the Supabase side.
	matchDocumentsRPC = "match_documents"
)

// SupabaseStore implements the Store interface against a Supabase
// project's PostgREST API. Similarity search runs server-side through the
// match_documents RPC over pgvector.
type SupabaseStore struct {
	baseURL    string
	apiKey     string
	table      string
	httpClient *http.Client
}

// NewSupabaseStore creates a Supabase-backed store. table defaults to
// DefaultSupabaseTable when empty.
func NewSupabaseStore(baseURL, apiKey, table string) (*SupabaseStore, error) {
	if baseURL == "" || apiKey == "" {
		return nil, fmt.Errorf("supabase url and key are required")
	}
	if table == "" {
		table = DefaultSupabaseTable
	}
	return &SupabaseStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		table:   table,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Search calls the match_documents RPC and returns its rows in order.
func (s *SupabaseStore) Search(ctx context.Context, vector []float32, threshold float64, limit int) ([]types.SearchHit, error) {
	if limit <= 0 {
		limit = 1
	}

	body, err := json.Marshal(map[string]interface{}{
		"query_embedding": vector,
		"match_threshold": threshold,
		"match_count":     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal rpc params: %w", err)
	}

	payload, err := s.do(ctx, "POST", "/rest/v1/rpc/"+matchDocumentsRPC, body, nil)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Content    string  `json:"content"`
		Similarity float64 `json:"similarity"`
	}
	if err := json.Unmarshal(payload, &rows); err != nil {
		return nil, fmt.Errorf("decode rpc response: %w", err)
	}

	hits := make([]types.SearchHit, len(rows))
	for i, row := range rows {
		hits[i] = types.SearchHit{Content: row.Content, Similarity: row.Similarity}
	}
	return hits, nil
}

// Insert adds one chunk row with its embedding.
func (s *SupabaseStore) Insert(ctx context.Context, content string, vector []float32) error {
	if content == "" {
		return types.ErrEmptyContent
	}

	body, err := json.Marshal(map[string]interface{}{
		"content":   content,
		"embedding": vector,
	})
	if err != nil {
		return fmt.Errorf("marshal insert: %w", err)
	}

	headers := map[string]string{"Prefer": "return=minimal"}
	if _, err := s.do(ctx, "POST", "/rest/v1/"+s.table, body, headers); err != nil {
		return err
	}
	return nil
}

// Count returns the number of stored rows using PostgREST's exact count.
func (s *SupabaseStore) Count(ctx context.Context) (int, error) {
	req, err := s.newRequest(ctx, "GET", "/rest/v1/"+s.table+"?select=id&limit=1", nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Prefer", "count=exact")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("supabase request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("supabase error %d: %s", resp.StatusCode, string(bodyBytes))
	}

	// Content-Range: 0-0/57
	cr := resp.Header.Get("Content-Range")
	idx := strings.LastIndex(cr, "/")
	if idx < 0 {
		return 0, fmt.Errorf("missing count in Content-Range %q", cr)
	}
	count, err := strconv.Atoi(cr[idx+1:])
	if err != nil {
		return 0, fmt.Errorf("invalid count in Content-Range %q", cr)
	}
	return count, nil
}

// Clear deletes all rows. PostgREST refuses unfiltered deletes, so filter
// on a column every row has.
func (s *SupabaseStore) Clear(ctx context.Context) error {
	if _, err := s.do(ctx, "DELETE", "/rest/v1/"+s.table+"?content=not.is.null", nil, nil); err != nil {
		return err
	}
	return nil
}

// Close releases idle connections.
func (s *SupabaseStore) Close() error {
	s.httpClient.CloseIdleConnections()
	return nil
}

func (s *SupabaseStore) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (s *SupabaseStore) do(ctx context.Context, method, path string, body []byte, headers map[string]string) ([]byte, error) {
	req, err := s.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("supabase request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("supabase error %d: %s", resp.StatusCode, string(payload))
	}
	return payload, nil
}
