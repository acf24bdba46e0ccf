package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/strudelcc/strudel-docs-mcp/pkg/types"
)

// SQLiteStore implements the Store interface on a local SQLite database.
// Similarity is computed in Go over deserialized vectors; for the index
// sizes this server deals with (hundreds of chunks) a full scan is cheaper
// than maintaining an ANN structure.
type SQLiteStore struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStore creates a new SQLite store instance
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Insert persists one chunk with its embedding
func (s *SQLiteStore) Insert(ctx context.Context, content string, vector []float32) error {
	if content == "" {
		return types.ErrEmptyContent
	}

	query := `INSERT INTO documents (content, vector, dimension) VALUES (?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query, content, serializeVector(vector), len(vector))
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

// Search scans stored vectors, computes cosine similarity in Go, and
// returns hits meeting threshold ordered best first.
func (s *SQLiteStore) Search(ctx context.Context, vector []float32, threshold float64, limit int) ([]types.SearchHit, error) {
	if limit <= 0 {
		limit = 1
	}

	rows, err := s.db.QueryContext(ctx, `SELECT content, vector FROM documents`)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	candidates := make([]candidate, 0, 256)
	for rows.Next() {
		var content string
		var blob []byte
		if err := rows.Scan(&content, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}

		stored := deserializeVector(blob)
		if len(stored) != len(vector) {
			continue // Dimension mismatch, skip
		}

		score := cosineSimilarity(vector, stored)
		if score < threshold {
			continue
		}
		candidates = append(candidates, candidate{content: content, score: score})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sortCandidates(candidates)
	if limit > len(candidates) {
		limit = len(candidates)
	}

	hits := make([]types.SearchHit, limit)
	for i := 0; i < limit; i++ {
		hits[i] = types.SearchHit{
			Content:    candidates[i].content,
			Similarity: candidates[i].score,
		}
	}
	return hits, nil
}

// Count returns the number of stored chunks
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}

// Clear removes all stored chunks
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return fmt.Errorf("failed to clear documents: %w", err)
	}
	return nil
}
