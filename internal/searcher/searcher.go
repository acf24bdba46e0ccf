package searcher

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/strudelcc/strudel-docs-mcp/internal/embedder"
	"github.com/strudelcc/strudel-docs-mcp/internal/store"
	"github.com/strudelcc/strudel-docs-mcp/pkg/types"
)

const (
	// DefaultMaxResults is used when the caller does not ask for a count.
	DefaultMaxResults = 3

	// DefaultThreshold is the minimum cosine similarity a chunk must reach
	// to be returned.
	DefaultThreshold = 0.6

	// queryCacheSize bounds the LRU cache of recent query responses.
	queryCacheSize = 1000

	// queryCacheTTL is how long a cached response stays valid.
	queryCacheTTL = 5 * time.Minute
)

// Request contains parameters for one search operation.
type Request struct {
	Query      string
	MaxResults int
	UseCache   bool
}

// Response contains the hits plus metadata about how they were produced.
type Response struct {
	Hits     []types.SearchHit
	Duration time.Duration
	CacheHit bool
}

// cacheEntry is a cached response with its expiration time.
type cacheEntry struct {
	hits      []types.SearchHit
	expiresAt time.Time
}

// Searcher turns a natural-language query into ranked documentation chunks
// by embedding the query and delegating similarity search to the store.
type Searcher struct {
	embedder  embedder.Embedder
	store     store.Store
	threshold float64
	cache     *lru.Cache[[32]byte, *cacheEntry]
	cacheMu   sync.RWMutex
}

// New creates a Searcher. A non-positive threshold falls back to
// DefaultThreshold.
func New(emb embedder.Embedder, st store.Store, threshold float64) *Searcher {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	cache, err := lru.New[[32]byte, *cacheEntry](queryCacheSize)
	if err != nil {
		// Only possible with a non-positive size.
		panic(fmt.Sprintf("failed to create query cache: %v", err))
	}

	return &Searcher{
		embedder:  emb,
		store:     st,
		threshold: threshold,
		cache:     cache,
	}
}

// Threshold returns the similarity cutoff in effect.
func (s *Searcher) Threshold() float64 {
	return s.threshold
}

// Search embeds the query and returns hits above the similarity threshold,
// ordered by descending similarity. MaxResults is clamped to at least 1;
// zero means DefaultMaxResults.
func (s *Searcher) Search(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("query must not be empty")
	}
	if req.MaxResults == 0 {
		req.MaxResults = DefaultMaxResults
	}
	if req.MaxResults < 1 {
		req.MaxResults = 1
	}

	if req.UseCache {
		if hits, ok := s.checkCache(req); ok {
			return &Response{Hits: hits, Duration: time.Since(start), CacheHit: true}, nil
		}
	}

	vector, err := s.embedder.Embed(ctx, req.Query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.store.Search(ctx, vector, s.threshold, req.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("search store: %w", err)
	}

	if req.UseCache {
		s.storeCache(req, hits)
	}

	return &Response{Hits: hits, Duration: time.Since(start)}, nil
}

func (s *Searcher) cacheKey(req Request) [32]byte {
	return sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%.4f", req.Query, req.MaxResults, s.threshold)))
}

func (s *Searcher) checkCache(req Request) ([]types.SearchHit, bool) {
	key := s.cacheKey(req)

	s.cacheMu.RLock()
	entry, ok := s.cache.Get(key)
	s.cacheMu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		s.cacheMu.Lock()
		s.cache.Remove(key)
		s.cacheMu.Unlock()
		return nil, false
	}
	return entry.hits, true
}

func (s *Searcher) storeCache(req Request, hits []types.SearchHit) {
	s.cacheMu.Lock()
	s.cache.Add(s.cacheKey(req), &cacheEntry{
		hits:      hits,
		expiresAt: time.Now().Add(queryCacheTTL),
	})
	s.cacheMu.Unlock()
}
