// Package searcher coordinates semantic search over the documentation
// index: it embeds the incoming query, asks the store for the nearest
// chunks above the similarity threshold, and formats the hits into the
// text block MCP clients receive. Recent responses are kept in a small
// TTL-bounded LRU cache.
package searcher
