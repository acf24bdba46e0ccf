package mcp

// Tool describes one MCP tool as it appears in tools/list.
type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema InputSchema `json:"inputSchema"`
}

// InputSchema is the JSON Schema fragment describing a tool's arguments.
type InputSchema struct {
	Type       string                 `json:"type"`
	Properties map[string]interface{} `json:"properties"`
	Required   []string               `json:"required,omitempty"`
}

// SearchToolName is the single tool this server exposes.
const SearchToolName = "search_strudel_docs"

// searchDocsTool returns the tool definition for search_strudel_docs.
func searchDocsTool() Tool {
	return Tool{
		Name:        SearchToolName,
		Description: "Search the Strudel live-coding documentation for sections relevant to a natural language query",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Natural language question about Strudel (e.g., 'how do I play a sample')",
				},
				"maxResults": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of documentation sections to return",
					"default":     3,
					"minimum":     1,
				},
			},
			Required: []string{"query"},
		},
	}
}
