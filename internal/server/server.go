package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tkingovr/promptserver/internal/catalog"
)

// Options is the identity advertised to clients.
type Options struct {
	Name    string
	Version string
}

// Server serves a fixed registry over a single MCP connection.
type Server struct {
	mcp      *mcp.Server
	registry *catalog.Registry
	logger   *slog.Logger
}

// New creates a server advertising one tool per registry entry.
func New(opts Options, reg *catalog.Registry, logger *slog.Logger) *Server {
	s := &Server{
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    opts.Name,
			Version: opts.Version,
		}, nil),
		registry: reg,
		logger:   logger,
	}

	for _, e := range reg.Entries() {
		s.mcp.AddTool(&mcp.Tool{
			Name:        e.Name,
			Description: e.Description,
			InputSchema: emptySchema(),
		}, s.toolHandler(e.Name))
	}

	return s
}

// emptySchema declares a tool that takes no parameters.
func emptySchema() *jsonschema.Schema {
	return &jsonschema.Schema{Type: "object"}
}

func (s *Server) toolHandler(name string) mcp.ToolHandler {
	return func(_ context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := s.registry.Read(name)
		if err != nil {
			attrs := []any{"tool", name, "error", err}
			if e, ok := s.registry.Lookup(name); ok && !e.Inline() {
				attrs = append(attrs, "path", s.registry.Path(e))
			}
			s.logger.Debug("tool call failed", attrs...)
			return nil, err
		}
		s.logger.Debug("tool call", "tool", name, "bytes", len(text))
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil
	}
}

// Connect starts a session on t without waiting for it to end.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	session, err := s.mcp.Connect(ctx, t, nil)
	if err != nil {
		return nil, fmt.Errorf("connecting transport: %w", err)
	}
	return session, nil
}

// Run connects t and blocks until the peer closes the channel or ctx is
// cancelled. Both count as a clean shutdown and return nil.
func (s *Server) Run(ctx context.Context, t mcp.Transport) error {
	session, err := s.Connect(ctx, t)
	if err != nil {
		return err
	}

	s.logger.Info("MCP server running on stdio",
		slog.Int("tools", s.registry.Len()),
	)

	done := make(chan error, 1)
	go func() {
		done <- session.Wait()
	}()

	select {
	case err := <-done:
		return cleanExit(err)
	case <-ctx.Done():
		_ = session.Close()
		<-done
		return nil
	}
}

// cleanExit maps the errors a closed channel produces to nil.
func cleanExit(err error) error {
	switch {
	case err == nil,
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrClosedPipe),
		errors.Is(err, net.ErrClosed),
		errors.Is(err, context.Canceled):
		return nil
	}
	return fmt.Errorf("session ended: %w", err)
}
