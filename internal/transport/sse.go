package transport

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// DefaultKeepalive is the interval between SSE keepalive comments.
const DefaultKeepalive = 30 * time.Second

// handleSSE holds a Server-Sent Events stream open. The first frame is an
// endpoint event telling the client where to POST its JSON-RPC requests;
// replies to those POSTs travel on the POST responses, never on this
// stream. After that the stream only carries keepalive comments until the
// client disconnects.
func (s *HTTPServer) handleSSE(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	connID := uuid.NewString()
	s.logger.Printf("sse connection %s opened from %s", connID, r.RemoteAddr)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	// The endpoint event must reach the client before anything else so it
	// knows where to POST.
	fmt.Fprintf(w, "event: endpoint\ndata: %s\n\n", s.endpointURL(r))
	flusher.Flush()

	ticker := time.NewTicker(s.keepalive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Printf("sse connection %s closed", connID)
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				s.logger.Printf("sse connection %s write failed: %v", connID, err)
				return
			}
			flusher.Flush()
		}
	}
}

// endpointURL builds the absolute URL of the RPC endpoint as seen by the
// client that opened the stream.
func (s *HTTPServer) endpointURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/message", scheme, r.Host)
}
