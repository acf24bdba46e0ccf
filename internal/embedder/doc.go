// Package embedder generates vector embeddings for documentation chunks
// and search queries.
//
// Three providers are available:
//   - huggingface: the Hugging Face Inference API feature-extraction
//     pipeline (bge-small-en-v1.5, 384 dimensions) the docs index was
//     originally built with
//   - openai: any OpenAI-compatible /embeddings endpoint
//   - local: deterministic hash-derived vectors for development and tests
//
// Provider selection usually goes through NewFromEnv, which honors
// STRUDEL_EMBEDDING_PROVIDER and otherwise auto-detects from available
// API keys.
//
// The query path (Embed) performs exactly one provider call so failures
// surface to the caller immediately; the ingestion path (EmbedBatch)
// retries with exponential backoff. Results are cached in-memory by
// content hash with LRU eviction.
package embedder
