package transport

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/strudelcc/strudel-docs-mcp/internal/mcp"
)

// maxLineSize bounds a single JSON-RPC message on the stdio transport.
const maxLineSize = 4 * 1024 * 1024

// Stdio serves the dispatcher over newline-delimited JSON on a reader and
// writer pair, normally the process's stdin and stdout. All logging goes
// to the logger (stderr by default): stdout carries protocol bytes only.
type Stdio struct {
	dispatcher *mcp.Dispatcher
	in         io.Reader
	out        io.Writer
	logger     *log.Logger
}

// NewStdio creates a stdio transport over os.Stdin and os.Stdout.
func NewStdio(d *mcp.Dispatcher, logger *log.Logger) *Stdio {
	return NewStdioWithStreams(d, os.Stdin, os.Stdout, logger)
}

// NewStdioWithStreams creates a stdio transport over explicit streams.
// Used by tests and by callers that pipe the protocol elsewhere.
func NewStdioWithStreams(d *mcp.Dispatcher, in io.Reader, out io.Writer, logger *log.Logger) *Stdio {
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	return &Stdio{dispatcher: d, in: in, out: out, logger: logger}
}

// Run reads one request per line until EOF or context cancellation.
// Responses are written as single lines in arrival order; notifications
// produce no output at all. A malformed line yields an error response and
// the loop continues.
func (s *Stdio) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	s.logger.Printf("stdio transport ready")

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		out, deliverable := s.dispatcher.DecodeAndHandle(ctx, line)
		if !deliverable {
			continue
		}
		if err := s.writeLine(out); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	s.logger.Printf("stdio transport closed (EOF)")
	return nil
}

func (s *Stdio) writeLine(data []byte) error {
	if _, err := s.out.Write(data); err != nil {
		return err
	}
	_, err := s.out.Write([]byte{'\n'})
	return err
}
