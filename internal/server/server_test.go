package server

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/tkingovr/promptserver/internal/catalog"
)

func nopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// syncBuffer guards a bytes.Buffer shared between the server goroutine and
// the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// defaultRegistry writes a distinct file for every built-in source into a
// temp dir and returns the registry with the expected contents per tool.
func defaultRegistry(t *testing.T) (*catalog.Registry, map[string]string) {
	t.Helper()
	dir := t.TempDir()
	want := make(map[string]string)

	b := catalog.NewBuilder(dir)
	for _, e := range catalog.DefaultEntries() {
		require.NoError(t, b.Add(e))
		if e.Inline() {
			want[e.Name] = e.Text
			continue
		}
		content := "# " + e.Name + "\n\nline one\nline two ünïcode\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, e.Source), []byte(content), 0o600))
		want[e.Name] = content
	}
	return b.Build(), want
}

func connect(t *testing.T, s *Server) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	_, err := s.Connect(ctx, serverTransport)
	require.NoError(t, err)

	return connectClient(t, clientTransport)
}

func connectClient(t *testing.T, transport mcp.Transport) *mcp.ClientSession {
	t.Helper()
	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(context.Background(), transport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func callTool(t *testing.T, cs *mcp.ClientSession, name string) (*mcp.CallToolResult, error) {
	t.Helper()
	return cs.CallTool(context.Background(), &mcp.CallToolParams{Name: name})
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.False(t, res.IsError)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

// requireToolError accepts both a protocol error and an IsError result.
func requireToolError(t *testing.T, res *mcp.CallToolResult, err error) {
	t.Helper()
	if err != nil {
		return
	}
	require.NotNil(t, res)
	require.True(t, res.IsError, "expected tool call to fail")
}

func TestServer_ListTools(t *testing.T) {
	reg, _ := defaultRegistry(t)
	cs := connect(t, New(Options{Name: "mcp-server", Version: "1.0.0"}, reg, nopLogger()))

	res, err := cs.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)
	require.Len(t, res.Tools, reg.Len())

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)

		entry, ok := reg.Lookup(tool.Name)
		require.True(t, ok)
		require.Equal(t, entry.Description, tool.Description)

		schema, ok := tool.InputSchema.(map[string]any)
		require.True(t, ok, "expected input schema object, got %T", tool.InputSchema)
		require.Equal(t, "object", schema["type"])
		require.Empty(t, schema["properties"])
		require.Empty(t, schema["required"])
	}

	var want []string
	for _, e := range reg.Entries() {
		want = append(want, e.Name)
	}
	require.ElementsMatch(t, want, names)
}

func TestServer_InitializeReportsIdentity(t *testing.T) {
	reg, _ := defaultRegistry(t)
	cs := connect(t, New(Options{Name: "mcp-server", Version: "1.0.0"}, reg, nopLogger()))

	initResult := cs.InitializeResult()
	require.NotNil(t, initResult)
	require.Equal(t, "mcp-server", initResult.ServerInfo.Name)
	require.Equal(t, "1.0.0", initResult.ServerInfo.Version)
	require.NotNil(t, initResult.Capabilities.Tools)
}

func TestServer_CallEveryToolReturnsFileVerbatim(t *testing.T) {
	reg, want := defaultRegistry(t)
	cs := connect(t, New(Options{Name: "mcp-server", Version: "1.0.0"}, reg, nopLogger()))

	for name, content := range want {
		t.Run(name, func(t *testing.T) {
			res, err := callTool(t, cs, name)
			require.NoError(t, err)
			require.Equal(t, content, resultText(t, res))
		})
	}
}

func TestServer_ReadsFileOnEveryCall(t *testing.T) {
	reg, _ := defaultRegistry(t)
	cs := connect(t, New(Options{Name: "mcp-server", Version: "1.0.0"}, reg, nopLogger()))

	entry, ok := reg.Lookup("getGitCommitInstructions")
	require.True(t, ok)
	require.NoError(t, os.WriteFile(reg.Path(entry), []byte("feat: updated"), 0o600))

	res, err := callTool(t, cs, "getGitCommitInstructions")
	require.NoError(t, err)
	require.Equal(t, "feat: updated", resultText(t, res))
}

func TestServer_UnknownToolKeepsServing(t *testing.T) {
	reg, want := defaultRegistry(t)
	cs := connect(t, New(Options{Name: "mcp-server", Version: "1.0.0"}, reg, nopLogger()))

	res, err := callTool(t, cs, "getNothing")
	requireToolError(t, res, err)

	res, err = callTool(t, cs, "getPlanningInstructions")
	require.NoError(t, err)
	require.Equal(t, want["getPlanningInstructions"], resultText(t, res))
}

func TestServer_DeletedFileFailsPerCall(t *testing.T) {
	reg, _ := defaultRegistry(t)
	cs := connect(t, New(Options{Name: "mcp-server", Version: "1.0.0"}, reg, nopLogger()))

	entry, ok := reg.Lookup("getCodeChangeTaskCompletionInstructions")
	require.True(t, ok)
	require.NoError(t, os.Remove(reg.Path(entry)))

	res, err := callTool(t, cs, "getCodeChangeTaskCompletionInstructions")
	requireToolError(t, res, err)

	res, err = callTool(t, cs, "helloWorld")
	require.NoError(t, err)
	require.Equal(t, "Hello, world!", resultText(t, res))
}

func TestServer_ReadErrorHidesPath(t *testing.T) {
	reg, _ := defaultRegistry(t)
	var logs syncBuffer
	logger := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	cs := connect(t, New(Options{Name: "mcp-server", Version: "1.0.0"}, reg, logger))

	entry, ok := reg.Lookup("getGitCommitInstructions")
	require.True(t, ok)
	require.NoError(t, os.Remove(reg.Path(entry)))

	res, err := callTool(t, cs, "getGitCommitInstructions")
	requireToolError(t, res, err)

	var msg string
	if err != nil {
		msg = err.Error()
	} else {
		for _, c := range res.Content {
			if text, ok := c.(*mcp.TextContent); ok {
				msg += text.Text
			}
		}
	}
	require.Contains(t, msg, "getGitCommitInstructions")
	require.NotContains(t, msg, reg.Root())

	// The operator still gets the path on the debug channel.
	require.Contains(t, logs.String(), `"msg":"tool call failed"`)
	require.Contains(t, logs.String(), "git-commit-instructions.md")
}

func TestServer_RunLogsOnceAndExitsOnClose(t *testing.T) {
	reg, _ := defaultRegistry(t)
	var logs syncBuffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	s := New(Options{Name: "mcp-server", Version: "1.0.0"}, reg, logger)

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	done := make(chan error, 1)
	go func() {
		done <- s.Run(context.Background(), serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(context.Background(), clientTransport, nil)
	require.NoError(t, err)

	res, err := callTool(t, cs, "helloWorld")
	require.NoError(t, err)
	require.Equal(t, "Hello, world!", resultText(t, res))

	select {
	case err := <-done:
		t.Fatalf("Run returned while the channel was open: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	_ = cs.Close()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after the channel closed")
	}

	require.Equal(t, 1, strings.Count(logs.String(), "MCP server running on stdio"))
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	reg, _ := defaultRegistry(t)
	s := New(Options{Name: "mcp-server", Version: "1.0.0"}, reg, nopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, serverTransport)
	}()

	connectClient(t, clientTransport)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestCleanExit(t *testing.T) {
	require.NoError(t, cleanExit(nil))
	require.NoError(t, cleanExit(io.EOF))
	require.NoError(t, cleanExit(context.Canceled))
	require.Error(t, cleanExit(io.ErrUnexpectedEOF))
}
