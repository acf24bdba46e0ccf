// Package types provides shared type definitions for the Strudel docs MCP server.
//
// This package defines the domain types passed between components: document
// chunks produced at ingestion time, search hits returned by the vector
// store, and ingestion statistics.
//
// # Core Types
//
// DocChunk is a bounded excerpt of the documentation, produced by the
// chunker and embedded for retrieval:
//
//	chunk := types.DocChunk{Text: "## Samples\n\nUse s() to play samples..."}
//	if err := chunk.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
// SearchHit is a ranked result row from the vector store:
//
//	hit := types.SearchHit{Content: chunkText, Similarity: 0.92}
//
// Similarity scores are normalized to [0, 1], higher is a better match.
// Hits are ordered by descending similarity as returned by the store; the
// protocol layer never re-sorts them.
package types
