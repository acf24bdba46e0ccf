// Package chunker divides markdown documentation into retrieval-sized
// chunks for embedding and search.
//
// Splitting is header-aware: the document is divided at "## " section
// headers, and any section longer than MaxSectionLength is divided again at
// "### " subheaders. The text between a section header and its first
// subheader stays attached to the section header chunk, so every chunk
// opens with the header that names its topic.
//
// # Basic Usage
//
//	c := chunker.New()
//	chunks := c.Chunk(markdown)
//	for _, chunk := range chunks {
//	    // chunk.Text starts with "## " or "### "
//	}
//
// Fragments shorter than types.MinChunkLength after trimming are dropped;
// they carry too little signal to be worth an embedding.
package chunker
