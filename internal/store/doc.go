// Package store persists documentation chunks with their embeddings and
// answers vector-similarity queries.
//
// Two implementations back the same Store interface:
//
//   - SQLiteStore keeps everything in a local SQLite file. Vectors are
//     stored as little-endian float32 blobs and similarity is computed in
//     Go. Two drivers are supported via build tags: modernc.org/sqlite by
//     default (no CGO), github.com/mattn/go-sqlite3 under -tags sqlite_cgo.
//   - SupabaseStore talks to a Supabase project's PostgREST API and runs
//     similarity search server-side through the match_documents RPC over
//     pgvector. This is the store the original docs index lives in.
//
// Both return hits ordered by descending similarity; the protocol layer
// relies on that ordering and never re-sorts.
package store
