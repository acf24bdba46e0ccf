// Package ingest builds the documentation index: it splits a markdown
// document into header-aligned chunks, embeds the chunks in concurrent
// batches, and inserts each chunk with its vector into the store. A
// failing batch is counted and skipped rather than aborting the run.
package ingest
