package searcher

import (
	"fmt"
	"strings"

	"github.com/strudelcc/strudel-docs-mcp/pkg/types"
)

// NoResultsMessage is returned verbatim when no chunk clears the
// similarity threshold. Clients display it as-is.
const NoResultsMessage = "No relevant documentation found for your query."

// FormatHits renders hits as the text block returned to MCP clients. Each
// hit becomes a numbered section with its similarity score; sections are
// separated by a blank line.
func FormatHits(hits []types.SearchHit) string {
	if len(hits) == 0 {
		return NoResultsMessage
	}

	blocks := make([]string, len(hits))
	for i, hit := range hits {
		blocks[i] = fmt.Sprintf("--- Result %d (Similarity: %.2f) ---\n%s\n", i+1, hit.Similarity, hit.Content)
	}
	return strings.Join(blocks, "\n")
}
