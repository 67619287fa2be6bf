package mcp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-logr/logr"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallest-ai/kb-mcp-server/internal/config"
	"github.com/smallest-ai/kb-mcp-server/internal/logging"
)

type upstreamCall struct {
	Method string
	Path   string
	Body   string
}

type fakeUpstream struct {
	mu     sync.Mutex
	calls  []upstreamCall
	routes map[string]func() (int, string)
}

func (f *fakeUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.calls = append(f.calls, upstreamCall{Method: r.Method, Path: r.URL.Path, Body: string(body)})
	f.mu.Unlock()

	route, ok := f.routes[r.Method+" "+r.URL.Path]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	status, payload := route()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, payload)
}

func (f *fakeUpstream) Calls() []upstreamCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]upstreamCall(nil), f.calls...)
}

func respond(status int, body string) func() (int, string) {
	return func() (int, string) { return status, body }
}

func newTestClient(t *testing.T, baseURL string) *client.Client {
	t.Helper()
	log := logging.New(logr.Discard())
	srv, err := New(DefaultConfig(config.Upstream{BaseURL: baseURL, APIKey: "k"}, nil, log))
	require.NoError(t, err)

	c, err := client.NewInProcessClient(srv.MCP)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	ctx := context.Background()
	require.NoError(t, c.Start(ctx))
	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "server-test", Version: "1.0.0"}
	_, err = c.Initialize(ctx, initReq)
	require.NoError(t, err)
	return c
}

func callTool(t *testing.T, c *client.Client, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	res, err := c.CallTool(context.Background(), req)
	require.NoError(t, err)
	return res
}

func firstText(t *testing.T, content []mcp.Content) string {
	t.Helper()
	require.NotEmpty(t, content)
	switch v := content[0].(type) {
	case mcp.TextContent:
		return v.Text
	case *mcp.TextContent:
		return v.Text
	}
	t.Fatalf("unexpected content type %T", content[0])
	return ""
}

func TestNew_RejectsUndeclaredTool(t *testing.T) {
	_, err := New(Config{
		ToolAdapters: map[string]ToolAdapter{"deleteKnowledgeBase": nil},
		Logger:       logging.New(logr.Discard()),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deleteKnowledgeBase")
}

func TestListTools(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1")

	res, err := c.ListTools(context.Background(), mcp.ListToolsRequest{})
	require.NoError(t, err)

	names := make([]string, 0, len(res.Tools))
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{ToolListKnowledgeBases, ToolCreateKnowledgeBase, ToolGetKnowledgeBase}, names)
}

func TestCreateThenGet(t *testing.T) {
	up := &fakeUpstream{routes: map[string]func() (int, string){
		"POST /knowledgebase":     respond(http.StatusCreated, `{"data":{"id":"kb_1","name":"Test","description":"x"}}`),
		"GET /knowledgebase/kb_1": respond(http.StatusOK, `{"data":{"id":"kb_1","name":"Test","description":"x"}}`),
	}}
	srv := httptest.NewServer(up)
	defer srv.Close()
	c := newTestClient(t, srv.URL)

	created := callTool(t, c, ToolCreateKnowledgeBase, map[string]any{"name": "Test", "description": "x"})
	assert.False(t, created.IsError)
	var createdBody struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(firstText(t, created.Content)), &createdBody))
	assert.Equal(t, "kb_1", createdBody.Data.ID)

	fetched := callTool(t, c, ToolGetKnowledgeBase, map[string]any{"id": createdBody.Data.ID})
	assert.False(t, fetched.IsError)
	assert.JSONEq(t, firstText(t, created.Content), firstText(t, fetched.Content))

	calls := up.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, upstreamCall{Method: http.MethodGet, Path: "/knowledgebase/kb_1"}, calls[1])
}

func TestStatusErrorsCarryCode(t *testing.T) {
	up := &fakeUpstream{routes: map[string]func() (int, string){
		"GET /knowledgebase":        respond(http.StatusUnauthorized, `{"message":"bad key"}`),
		"POST /knowledgebase":       respond(http.StatusBadRequest, `{}`),
		"GET /knowledgebase/abc123": respond(http.StatusInternalServerError, `{}`),
	}}
	srv := httptest.NewServer(up)
	defer srv.Close()
	c := newTestClient(t, srv.URL)

	cases := []struct {
		tool string
		args map[string]any
		code string
	}{
		{ToolListKnowledgeBases, nil, "401"},
		{ToolCreateKnowledgeBase, map[string]any{"name": "n", "description": "d"}, "400"},
		{ToolGetKnowledgeBase, map[string]any{"id": "abc123"}, "500"},
	}
	for _, tc := range cases {
		res := callTool(t, c, tc.tool, tc.args)
		assert.True(t, res.IsError, tc.tool)
		assert.Equal(t, "Error: HTTP error! status: "+tc.code, firstText(t, res.Content), tc.tool)
	}
}

func TestValidationHappensBeforeHTTP(t *testing.T) {
	up := &fakeUpstream{}
	srv := httptest.NewServer(up)
	defer srv.Close()
	c := newTestClient(t, srv.URL)

	res := callTool(t, c, ToolCreateKnowledgeBase, map[string]any{"name": "only-name"})
	assert.True(t, res.IsError)
	assert.Contains(t, firstText(t, res.Content), `missing required argument "description"`)

	res = callTool(t, c, ToolGetKnowledgeBase, map[string]any{"id": 42})
	assert.True(t, res.IsError)
	assert.Contains(t, firstText(t, res.Content), `argument "id" must be of type string`)

	assert.Empty(t, up.Calls())
}

func TestUnreachableUpstream(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	baseURL := dead.URL
	dead.Close()
	c := newTestClient(t, baseURL)

	res := callTool(t, c, ToolListKnowledgeBases, nil)
	assert.True(t, res.IsError)
	text := firstText(t, res.Content)
	assert.Contains(t, text, "Error: request failed")
	assert.NotContains(t, text, "status")
}

func TestUnknownToolRejected(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1")

	req := mcp.CallToolRequest{}
	req.Params.Name = "deleteKnowledgeBase"
	_, err := c.CallTool(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestDocumentationResourceIsStable(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1")

	read := func() string {
		req := mcp.ReadResourceRequest{}
		req.Params.URI = DocumentationURI
		res, err := c.ReadResource(context.Background(), req)
		require.NoError(t, err)
		require.Len(t, res.Contents, 1)
		switch v := res.Contents[0].(type) {
		case mcp.TextResourceContents:
			return v.Text
		case *mcp.TextResourceContents:
			return v.Text
		}
		t.Fatalf("unexpected resource contents %T", res.Contents[0])
		return ""
	}

	first := read()
	assert.Equal(t, first, read())
	for _, tool := range []string{ToolListKnowledgeBases, ToolCreateKnowledgeBase, ToolGetKnowledgeBase} {
		assert.Contains(t, first, tool)
	}
}

func TestCreateKnowledgeBasePrompt(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1")

	req := mcp.GetPromptRequest{}
	req.Params.Name = PromptCreateKnowledgeBase
	req.Params.Arguments = map[string]string{"name": "Docs", "description": "Product docs"}
	res, err := c.GetPrompt(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Messages, 1)
	assert.Equal(t, mcp.RoleUser, res.Messages[0].Role)

	text := firstText(t, []mcp.Content{res.Messages[0].Content})
	assert.Contains(t, text, "Name: Docs")
	assert.Contains(t, text, "Description: Product docs")
	assert.Contains(t, text, ToolCreateKnowledgeBase)
}

func TestCreateKnowledgeBasePrompt_MissingArgument(t *testing.T) {
	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{"name": "Docs"}
	_, err := createKnowledgeBasePrompt(context.Background(), req)
	require.Error(t, err)
}

func TestPrettyTextHasNoTrailingWhitespace(t *testing.T) {
	up := &fakeUpstream{routes: map[string]func() (int, string){
		"GET /knowledgebase": respond(http.StatusOK, "{\"data\":[]}\n"),
	}}
	srv := httptest.NewServer(up)
	defer srv.Close()
	c := newTestClient(t, srv.URL)

	res := callTool(t, c, ToolListKnowledgeBases, nil)
	assert.False(t, res.IsError)
	assert.Equal(t, "{\n  \"data\": []\n}", firstText(t, res.Content))
}
