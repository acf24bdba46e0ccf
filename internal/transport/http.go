package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/strudelcc/strudel-docs-mcp/internal/jsonrpc"
	"github.com/strudelcc/strudel-docs-mcp/internal/mcp"
)

// maxBodySize bounds a single JSON-RPC message over HTTP.
const maxBodySize = 4 * 1024 * 1024

// HTTPServer serves the dispatcher over unary HTTP POST and SSE. The RPC
// endpoint is available at both / and /message so that stream clients can
// POST to the endpoint URL announced on the SSE channel.
type HTTPServer struct {
	dispatcher *mcp.Dispatcher
	logger     *log.Logger
	keepalive  time.Duration
}

// NewHTTPServer creates an HTTP transport. A non-positive keepalive falls
// back to DefaultKeepalive.
func NewHTTPServer(d *mcp.Dispatcher, logger *log.Logger, keepalive time.Duration) *HTTPServer {
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	if keepalive <= 0 {
		keepalive = DefaultKeepalive
	}
	return &HTTPServer{dispatcher: d, logger: logger, keepalive: keepalive}
}

// Handler returns the routing table for the transport.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/message", s.handleRPC)
	mux.HandleFunc("/sse", s.handleSSE)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Run serves on addr until the context is canceled, then shuts down
// gracefully.
func (s *HTTPServer) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("http transport listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *HTTPServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodPost:
		s.handleRPC(w, r)
	case http.MethodGet:
		s.writeJSON(w, http.StatusOK, map[string]interface{}{
			"server":          mcp.ServerName,
			"version":         mcp.ServerVersion,
			"protocolVersion": mcp.ProtocolVersion,
			"endpoints":       []string{"/", "/message", "/sse", "/health"},
		})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleRPC executes one JSON-RPC request per POST. Notifications get an
// empty 204; error responses map onto HTTP status codes but still carry
// the full JSON-RPC error body.
func (s *HTTPServer) handleRPC(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}

	var req jsonrpc.Request
	if err := json.Unmarshal(body, &req); err != nil {
		s.logger.Printf("decode error from %s: %v", r.RemoteAddr, err)
		resp := jsonrpc.NewError(jsonrpc.ExtractID(body), jsonrpc.CodeInternalError, err.Error())
		s.writeJSON(w, statusFor(resp), resp)
		return
	}

	resp, deliverable := s.dispatcher.Handle(r.Context(), &req)
	if !deliverable {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.writeJSON(w, statusFor(resp), resp)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Printf("write response: %v", err)
	}
}

// statusFor maps a JSON-RPC response onto an HTTP status code. Client-side
// faults (parse, invalid request, unknown method, bad params) are 400;
// internal failures are 500.
func statusFor(resp *jsonrpc.Response) int {
	if resp.Error == nil {
		return http.StatusOK
	}
	if resp.Error.Code == jsonrpc.CodeInternalError {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}
