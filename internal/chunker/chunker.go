package chunker

import (
	"regexp"
	"strings"

	"github.com/strudelcc/strudel-docs-mcp/pkg/types"
)

const (
	// MaxSectionLength is the character count above which a section is
	// split further at subheader boundaries.
	MaxSectionLength = 2000
)

var (
	sectionPattern    = regexp.MustCompile(`(?m)^## `)
	subsectionPattern = regexp.MustCompile(`(?m)^### `)
)

// Chunker splits markdown documentation into retrieval-sized chunks at
// header boundaries.
type Chunker struct{}

// New creates a new Chunker instance.
func New() *Chunker {
	return &Chunker{}
}

// Chunk splits a markdown document into chunks. Top-level splitting happens
// at "## " headers; content before the first header is discarded. Sections
// longer than MaxSectionLength are split again at "### " subheaders, with
// the pre-subheader intro kept attached to the section header. Chunks whose
// trimmed text is not longer than types.MinChunkLength are dropped.
func (c *Chunker) Chunk(doc string) []types.DocChunk {
	sections := splitAt(sectionPattern, doc)

	// Index 0 holds whatever precedes the first "## " header, usually the
	// document title. It is not a section and is skipped.
	raw := make([]string, 0, len(sections))
	for _, body := range sections[1:] {
		section := "## " + body
		if len(section) > MaxSectionLength {
			raw = append(raw, splitSection(section)...)
		} else {
			raw = append(raw, section)
		}
	}

	chunks := make([]types.DocChunk, 0, len(raw))
	for _, text := range raw {
		chunk := types.DocChunk{Text: text}
		if chunk.Validate() != nil {
			continue
		}
		chunks = append(chunks, chunk)
	}
	return chunks
}

// splitSection breaks an oversized "## " section at "### " subheaders.
// The section header and its intro stay together as the first chunk.
func splitSection(section string) []string {
	subsections := splitAt(subsectionPattern, section)

	parts := make([]string, 0, len(subsections))
	parts = append(parts, subsections[0])
	for _, sub := range subsections[1:] {
		parts = append(parts, "### "+sub)
	}
	return parts
}

// splitAt splits text at each match of pattern, removing the matched
// delimiter. The first element is the text before the first match.
func splitAt(pattern *regexp.Regexp, text string) []string {
	locs := pattern.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return []string{text}
	}

	parts := make([]string, 0, len(locs)+1)
	parts = append(parts, text[:locs[0][0]])
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		parts = append(parts, text[loc[1]:end])
	}
	return parts
}

// EstimateTokenCount estimates the number of tokens in a chunk using the
// chars/4 heuristic.
func EstimateTokenCount(text string) int {
	return len(strings.TrimSpace(text)) / 4
}
