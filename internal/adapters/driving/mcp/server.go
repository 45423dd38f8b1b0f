package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pmatancambium/cambium-procedures/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

const shutdownTimeout = 5 * time.Second

// Server exposes the procedure library to MCP clients: semantic search over
// ingested procedures and call logs, the stored text of each document and
// the log of questions nothing matched.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer registers the tools and resources the given ports support.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{ports: ports}
	s.server = mcp.NewServer(
		&mcp.Implementation{Name: "cambium-procedures", Version: Version},
		&mcp.ServerOptions{Instructions: s.instructions()},
	)
	s.registerTools()
	s.registerResources()
	return s, nil
}

// instructions tells the client which parts of the library are reachable.
func (s *Server) instructions() string {
	lines := []string{
		"Support procedure library. Use the search tool with the user's question " +
			"(Hebrew or English); results are whole documents with the matched passages marked.",
	}
	if s.ports.Document != nil {
		lines = append(lines, "list_documents and get_document return the stored text of a procedure by filename.")
	}
	if s.ports.Question != nil {
		lines = append(lines, "The unanswered-questions resource lists questions that matched no document.")
	}
	return strings.Join(lines, "\n")
}

// Run serves over stdio until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves the streamable HTTP transport on addr until ctx is cancelled.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("mcp http shutdown: %v", err)
		}
	}()

	logger.Info("MCP server listening on %s", addr)
	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
