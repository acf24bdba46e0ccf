package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/strudelcc/strudel-docs-mcp/internal/config"
	"github.com/strudelcc/strudel-docs-mcp/internal/embedder"
	"github.com/strudelcc/strudel-docs-mcp/internal/mcp"
	"github.com/strudelcc/strudel-docs-mcp/internal/searcher"
	"github.com/strudelcc/strudel-docs-mcp/internal/store"
	"github.com/strudelcc/strudel-docs-mcp/internal/transport"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	stdioOnly := flag.Bool("stdio", false, "serve on stdio only, no HTTP listener")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("Strudel Docs MCP Server\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		fmt.Printf("Build Mode: %s\n", store.BuildMode)
		fmt.Printf("SQLite Driver: %s\n", store.DriverName)
		os.Exit(0)
	}

	// Log to stderr only: stdout carries the stdio protocol stream.
	log.SetOutput(os.Stderr)
	logger := log.New(os.Stderr, "", log.LstdFlags)

	// A missing .env is not an error.
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

	dispatcher := mcp.NewServer(searcher.New(emb, st, cfg.Search.MatchThreshold), logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Printf("Strudel Docs MCP Server v%s ready on stdio", version)
		return transport.NewStdio(dispatcher, logger).Run(gctx)
	})

	if !*stdioOnly {
		httpSrv := transport.NewHTTPServer(dispatcher, logger, cfg.Keepalive())
		g.Go(func() error {
			return httpSrv.Run(gctx, cfg.Addr())
		})
	}

	if err := g.Wait(); err != nil && !isShutdown(err) {
		logger.Fatalf("Server error: %v", err)
	}
	logger.Println("Server stopped")
}

func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Backend() {
	case config.BackendSupabase:
		return store.NewSupabaseStore(cfg.Store.SupabaseURL, cfg.Store.SupabaseKey, cfg.Store.SupabaseTable)
	default:
		return store.NewSQLiteStore(cfg.Store.SQLitePath)
	}
}

func isShutdown(err error) bool {
	return errors.Is(err, context.Canceled)
}
