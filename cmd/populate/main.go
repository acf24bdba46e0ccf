// Command populate builds the documentation index: it chunks a markdown
// file, embeds every chunk, and inserts the rows into the configured
// store. Run it once before starting the server, and again whenever the
// documentation changes (with -clear to drop the old rows).
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/strudelcc/strudel-docs-mcp/internal/chunker"
	"github.com/strudelcc/strudel-docs-mcp/internal/config"
	"github.com/strudelcc/strudel-docs-mcp/internal/embedder"
	"github.com/strudelcc/strudel-docs-mcp/internal/ingest"
	"github.com/strudelcc/strudel-docs-mcp/internal/searcher"
	"github.com/strudelcc/strudel-docs-mcp/internal/store"
)

func main() {
	filePath := flag.String("file", "strudel_docs.md", "markdown file to index")
	configPath := flag.String("config", "", "path to YAML config file")
	clear := flag.Bool("clear", false, "delete existing rows before indexing")
	testQuery := flag.String("query", "how do I play a sample", "verification query to run after indexing (empty to skip)")
	flag.Parse()

	logger := log.New(os.Stderr, "", log.LstdFlags)

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	emb, err := embedder.NewFromEnv()
	if err != nil {
		logger.Fatalf("Failed to create embedder: %v", err)
	}
	defer func() { _ = emb.Close() }()
	logger.Printf("Embedding provider: %s (%d dims)", emb.Provider(), emb.Dimension())

	st, err := openStore(cfg)
	if err != nil {
		logger.Fatalf("Failed to open store: %v", err)
	}
	defer func() { _ = st.Close() }()
	logger.Printf("Store backend: %s", cfg.Backend())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pipeline := ingest.New(chunker.New(), emb, st, logger)
	stats, err := pipeline.IngestFile(ctx, *filePath, ingest.Config{
		ClearFirst:  *clear,
		Concurrency: cfg.Ingest.Concurrency,
		BatchSize:   cfg.Ingest.BatchSize,
	})
	if err != nil {
		logger.Fatalf("Ingest failed: %v", err)
	}

	logger.Printf("Chunks created: %d, embedded: %d, failed: %d (%s)",
		stats.ChunksCreated, stats.ChunksEmbedded, stats.ChunksFailed, stats.Duration)
	for _, msg := range stats.ErrorMessages {
		logger.Printf("  error: %s", msg)
	}

	count, err := st.Count(ctx)
	if err != nil {
		logger.Fatalf("Count failed: %v", err)
	}
	logger.Printf("Store now holds %d rows", count)

	if *testQuery != "" {
		runTestQuery(ctx, logger, emb, st, cfg, *testQuery)
	}
}

// runTestQuery performs one end-to-end search so a bad index shows up
// right after populating instead of at serve time.
func runTestQuery(ctx context.Context, logger *log.Logger, emb embedder.Embedder, st store.Store, cfg *config.Config, query string) {
	s := searcher.New(emb, st, cfg.Search.MatchThreshold)
	resp, err := s.Search(ctx, searcher.Request{Query: query})
	if err != nil {
		logger.Fatalf("Test query failed: %v", err)
	}
	logger.Printf("Test query %q returned %d hits in %s", query, len(resp.Hits), resp.Duration)
	for i, hit := range resp.Hits {
		preview := hit.Content
		if len(preview) > 80 {
			preview = preview[:80] + "..."
		}
		logger.Printf("  %d. (%.2f) %s", i+1, hit.Similarity, preview)
	}
}

func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Backend() {
	case config.BackendSupabase:
		return store.NewSupabaseStore(cfg.Store.SupabaseURL, cfg.Store.SupabaseKey, cfg.Store.SupabaseTable)
	default:
		return store.NewSQLiteStore(cfg.Store.SQLitePath)
	}
}
