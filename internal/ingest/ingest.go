package ingest

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/strudelcc/strudel-docs-mcp/internal/chunker"
	"github.com/strudelcc/strudel-docs-mcp/internal/embedder"
	"github.com/strudelcc/strudel-docs-mcp/internal/store"
	"github.com/strudelcc/strudel-docs-mcp/pkg/types"
)

const (
	// DefaultConcurrency is the number of embedding batches in flight.
	DefaultConcurrency = 4

	// DefaultBatchSize is how many chunks go into one EmbedBatch call.
	DefaultBatchSize = 32
)

// Config controls one ingest run.
type Config struct {
	// ClearFirst drops all existing rows before inserting.
	ClearFirst bool

	// Concurrency is the number of batches embedded in parallel.
	// Non-positive means DefaultConcurrency.
	Concurrency int

	// BatchSize is the number of chunks per embedding request.
	// Non-positive means DefaultBatchSize.
	BatchSize int
}

// Pipeline chunks a documentation file, embeds the chunks in batches, and
// inserts them into the store.
type Pipeline struct {
	chunker  *chunker.Chunker
	embedder embedder.Embedder
	store    store.Store
	logger   *log.Logger
}

// New creates an ingest pipeline.
func New(c *chunker.Chunker, emb embedder.Embedder, st store.Store, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	return &Pipeline{chunker: c, embedder: emb, store: st, logger: logger}
}

// IngestFile reads one markdown file and indexes it.
func (p *Pipeline) IngestFile(ctx context.Context, path string, cfg Config) (*types.IngestStatistics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return p.Ingest(ctx, string(data), cfg)
}

// Ingest chunks the document and stores one embedding per chunk. A failed
// batch is recorded in the statistics and the run continues with the
// remaining batches; the error list is capped at the batch count.
func (p *Pipeline) Ingest(ctx context.Context, document string, cfg Config) (*types.IngestStatistics, error) {
	start := time.Now()

	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.BatchSize > embedder.MaxBatchSize {
		cfg.BatchSize = embedder.MaxBatchSize
	}

	if cfg.ClearFirst {
		if err := p.store.Clear(ctx); err != nil {
			return nil, fmt.Errorf("clear store: %w", err)
		}
		p.logger.Printf("cleared existing rows")
	}

	chunks := p.chunker.Chunk(document)
	stats := &types.IngestStatistics{ChunksCreated: len(chunks)}
	if len(chunks) == 0 {
		stats.Duration = time.Since(start)
		return stats, nil
	}
	p.logger.Printf("chunked document into %d sections", len(chunks))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)

	for startIdx := 0; startIdx < len(chunks); startIdx += cfg.BatchSize {
		batch := chunks[startIdx:min(startIdx+cfg.BatchSize, len(chunks))]
		g.Go(func() error {
			if err := p.ingestBatch(gctx, batch); err != nil {
				mu.Lock()
				stats.ChunksFailed += len(batch)
				stats.ErrorMessages = append(stats.ErrorMessages, err.Error())
				mu.Unlock()
				p.logger.Printf("batch failed: %v", err)
				return nil
			}
			mu.Lock()
			stats.ChunksEmbedded += len(batch)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return stats, err
	}

	stats.Duration = time.Since(start)
	p.logger.Printf("ingested %d/%d chunks in %s", stats.ChunksEmbedded, stats.ChunksCreated, stats.Duration)
	return stats, nil
}

func (p *Pipeline) ingestBatch(ctx context.Context, batch []types.DocChunk) error {
	texts := make([]string, len(batch))
	for i, chunk := range batch {
		texts[i] = chunk.Text
	}

	vectors, err := p.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed batch: %w", err)
	}
	if len(vectors) != len(batch) {
		return fmt.Errorf("embed batch: got %d vectors for %d chunks", len(vectors), len(batch))
	}

	for i, chunk := range batch {
		if err := p.store.Insert(ctx, chunk.Text, vectors[i]); err != nil {
			return fmt.Errorf("insert chunk: %w", err)
		}
	}
	return nil
}
