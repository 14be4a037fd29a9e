package mcpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwaskit/gwaskit/internal/gwas"
)

func TestNew_ReturnsServer(t *testing.T) {
	server := New("v1.0.0-test", Options{})
	assert.NotNil(t, server)
}

func TestRun_WithInMemoryTransport(t *testing.T) {
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- Run(ctx, "v1.0.0-test", Options{}, serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "test-client",
		Version: "v1.0.0",
	}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close() //nolint:errcheck // best-effort close in test

	result, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, result.Tools, 12)

	cancel()
}

func TestServer_ListsTools(t *testing.T) {
	server := New("v1.0.0-test", Options{})

	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Run(ctx, serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "test-client",
		Version: "v1.0.0",
	}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close() //nolint:errcheck // best-effort close in test

	result, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	require.Len(t, result.Tools, 12)

	names := make(map[string]bool)
	for _, tool := range result.Tools {
		names[tool.Name] = true
	}
	for _, info := range Tools() {
		assert.True(t, names[info.Name], "should have %s tool", info.Name)
	}

	cancel()
}

func TestServer_CallToolEndToEnd(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/studies/GCST000001", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"accessionId": "GCST000001", "_links": {"self": {"href": "x"}}}`))
	}))
	defer upstream.Close()

	server := New("v1.0.0-test", Options{
		Client: gwas.NewClient(gwas.ClientOptions{RESTBaseURL: upstream.URL}),
	})

	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Run(ctx, serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "test-client",
		Version: "v1.0.0",
	}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close() //nolint:errcheck // best-effort close in test

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "get_study",
		Arguments: map[string]any{"studyId": "GCST000001"},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Len(t, result.Content, 1)

	var obj map[string]any
	text := result.Content[0].(*mcp.TextContent).Text
	require.NoError(t, json.Unmarshal([]byte(text), &obj))
	assert.Equal(t, "GCST000001", obj["accessionId"])
	assert.NotContains(t, obj, "_links")

	cancel()
}

func TestServer_CallToolUpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer upstream.Close()

	server := New("v1.0.0-test", Options{
		Client: gwas.NewClient(gwas.ClientOptions{RESTBaseURL: upstream.URL}),
	})

	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Run(ctx, serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "test-client",
		Version: "v1.0.0",
	}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close() //nolint:errcheck // best-effort close in test

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "get_study",
		Arguments: map[string]any{"studyId": "GCST000404"},
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)

	cancel()
}
