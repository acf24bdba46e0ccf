package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/strudelcc/strudel-docs-mcp/internal/jsonrpc"
	"github.com/strudelcc/strudel-docs-mcp/internal/searcher"
)

const (
	// ProtocolVersion is the MCP revision this server speaks.
	ProtocolVersion = "2024-11-05"

	// ServerName and ServerVersion identify the server in initialize.
	ServerName    = "strudel-docs-server"
	ServerVersion = "1.0.0"
)

// InvalidParamsError marks a tool-call failure caused by bad arguments.
// The dispatcher maps it to JSON-RPC code -32602.
type InvalidParamsError struct {
	Message string
}

func (e *InvalidParamsError) Error() string {
	return e.Message
}

// ContentBlock is one element of a tool result's content array.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// CallToolResult is the result payload of a successful tools/call.
type CallToolResult struct {
	Content []ContentBlock `json:"content"`
}

// InitializeResult is the result payload of initialize.
type InitializeResult struct {
	ProtocolVersion string                 `json:"protocolVersion"`
	Capabilities    map[string]interface{} `json:"capabilities"`
	ServerInfo      ServerInfo             `json:"serverInfo"`
}

// ServerInfo names the server implementation.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Dispatcher routes decoded JSON-RPC requests to MCP method handlers. It
// holds no per-connection state, so one instance safely serves every
// transport concurrently.
type Dispatcher struct {
	registry *Registry
	logger   *log.Logger
}

// NewDispatcher creates a dispatcher over the given tool registry. A nil
// logger falls back to stderr; stdout stays reserved for the stdio
// transport's protocol stream.
func NewDispatcher(registry *Registry, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	return &Dispatcher{registry: registry, logger: logger}
}

// NewServer builds a dispatcher exposing the documentation search tool
// backed by the given searcher.
func NewServer(s *searcher.Searcher, logger *log.Logger) *Dispatcher {
	registry := NewRegistry()
	registry.Register(searchDocsTool(), searchHandler(s))
	return NewDispatcher(registry, logger)
}

// searchHandler adapts the searcher to the tools/call contract.
func searchHandler(s *searcher.Searcher) ToolHandler {
	return func(ctx context.Context, arguments json.RawMessage) (string, error) {
		var args struct {
			Query      *string `json:"query"`
			MaxResults int     `json:"maxResults"`
		}
		if len(arguments) > 0 {
			if err := json.Unmarshal(arguments, &args); err != nil {
				return "", &InvalidParamsError{Message: fmt.Sprintf("Invalid arguments: %v", err)}
			}
		}
		if args.Query == nil || strings.TrimSpace(*args.Query) == "" {
			return "", &InvalidParamsError{Message: "Missing required argument: query"}
		}

		resp, err := s.Search(ctx, searcher.Request{
			Query:      *args.Query,
			MaxResults: args.MaxResults,
			UseCache:   true,
		})
		if err != nil {
			return "", fmt.Errorf("Error searching documentation: %v", err)
		}
		return searcher.FormatHits(resp.Hits), nil
	}
}

// Handle processes one decoded request and reports whether a response
// should be delivered. Notifications return (nil, false): the transport
// must emit nothing at all for them.
func (d *Dispatcher) Handle(ctx context.Context, req *jsonrpc.Request) (resp *jsonrpc.Response, deliverable bool) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Printf("panic handling %q: %v", req.Method, r)
			if req.IsNotification() {
				resp, deliverable = nil, false
				return
			}
			resp, deliverable = jsonrpc.NewError(req.ID, jsonrpc.CodeInternalError, "Internal error"), true
		}
	}()

	if req.IsNotification() {
		d.handleNotification(req)
		return nil, false
	}

	switch req.Method {
	case "initialize":
		return d.handleInitialize(req), true
	case "tools/list":
		return d.handleToolsList(req), true
	case "tools/call":
		return d.handleToolsCall(ctx, req), true
	default:
		d.logger.Printf("unknown method: %s", req.Method)
		return jsonrpc.NewError(req.ID, jsonrpc.CodeMethodNotFound, "Method not found: "+req.Method), true
	}
}

// DecodeAndHandle parses raw bytes, dispatches, and re-encodes the
// response. The returned bool mirrors Handle: false means the caller must
// write nothing.
func (d *Dispatcher) DecodeAndHandle(ctx context.Context, raw []byte) ([]byte, bool) {
	var req jsonrpc.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		d.logger.Printf("decode error: %v", err)
		// Decode failures surface as internal errors carrying the decoder's
		// message, with the id echoed when still recoverable.
		resp := jsonrpc.NewError(jsonrpc.ExtractID(raw), jsonrpc.CodeInternalError, err.Error())
		return mustMarshal(resp), true
	}

	resp, deliverable := d.Handle(ctx, &req)
	if !deliverable {
		return nil, false
	}
	return mustMarshal(resp), true
}

func (d *Dispatcher) handleNotification(req *jsonrpc.Request) {
	switch req.Method {
	case "notifications/initialized":
		d.logger.Printf("client initialized")
	default:
		d.logger.Printf("ignoring notification: %s", req.Method)
	}
}

func (d *Dispatcher) handleInitialize(req *jsonrpc.Request) *jsonrpc.Response {
	result := InitializeResult{
		ProtocolVersion: ProtocolVersion,
		Capabilities: map[string]interface{}{
			"tools": map[string]interface{}{},
		},
		ServerInfo: ServerInfo{Name: ServerName, Version: ServerVersion},
	}
	resp, err := jsonrpc.NewResult(req.ID, result)
	if err != nil {
		return jsonrpc.NewError(req.ID, jsonrpc.CodeInternalError, "Internal error")
	}
	return resp
}

func (d *Dispatcher) handleToolsList(req *jsonrpc.Request) *jsonrpc.Response {
	resp, err := jsonrpc.NewResult(req.ID, map[string]interface{}{
		"tools": d.registry.List(),
	})
	if err != nil {
		return jsonrpc.NewError(req.ID, jsonrpc.CodeInternalError, "Internal error")
	}
	return resp
}

func (d *Dispatcher) handleToolsCall(ctx context.Context, req *jsonrpc.Request) *jsonrpc.Response {
	var params struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return jsonrpc.NewError(req.ID, jsonrpc.CodeInvalidParams, "Invalid tool call parameters")
	}

	handler, ok := d.registry.Resolve(params.Name)
	if !ok {
		// Unknown tool reuses the method-not-found code, like an unknown
		// top-level method.
		return jsonrpc.NewError(req.ID, jsonrpc.CodeMethodNotFound, "Unknown tool: "+params.Name)
	}

	text, err := handler(ctx, params.Arguments)
	if err != nil {
		var paramErr *InvalidParamsError
		if errors.As(err, &paramErr) {
			return jsonrpc.NewError(req.ID, jsonrpc.CodeInvalidParams, paramErr.Message)
		}
		d.logger.Printf("tool %s failed: %v", params.Name, err)
		return jsonrpc.NewError(req.ID, jsonrpc.CodeInternalError, err.Error())
	}

	resp, err := jsonrpc.NewResult(req.ID, CallToolResult{
		Content: []ContentBlock{{Type: "text", Text: text}},
	})
	if err != nil {
		return jsonrpc.NewError(req.ID, jsonrpc.CodeInternalError, "Internal error")
	}
	return resp
}

func mustMarshal(resp *jsonrpc.Response) []byte {
	data, err := json.Marshal(resp)
	if err != nil {
		// Responses are built from marshalable types only.
		panic(fmt.Sprintf("marshal response: %v", err))
	}
	return data
}
