package mcp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/smallest-ai/kb-mcp-server/internal/logging"
)

const (
	ServerName    = "Smallest.ai MCP Server"
	ServerVersion = "1.0.0"

	ToolListKnowledgeBases  = "listKnowledgeBases"
	ToolCreateKnowledgeBase = "createKnowledgeBase"
	ToolGetKnowledgeBase    = "getKnowledgeBase"
)

type ToolAdapter interface {
	ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

type Server struct {
	MCP *server.MCPServer
	log logging.Logger
}

func toolDefinitions() map[string]mcp.Tool {
	return map[string]mcp.Tool{
		ToolListKnowledgeBases: mcp.NewTool(ToolListKnowledgeBases,
			mcp.WithDescription("List all knowledge bases available to the configured API key."),
		),
		ToolCreateKnowledgeBase: mcp.NewTool(ToolCreateKnowledgeBase,
			mcp.WithDescription("Create a new knowledge base with a name and a description."),
			mcp.WithString("name",
				mcp.Required(),
				mcp.Description("Display name of the knowledge base"),
			),
			mcp.WithString("description",
				mcp.Required(),
				mcp.Description("Short description of what the knowledge base contains"),
			),
		),
		ToolGetKnowledgeBase: mcp.NewTool(ToolGetKnowledgeBase,
			mcp.WithDescription("Get the details of a specific knowledge base by its ID."),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("Knowledge base ID (e.g. as returned by createKnowledgeBase)"),
			),
		),
	}
}

// New builds the MCP server and registers every adapter in cfg against its
// declared tool schema. Arguments are validated before an adapter runs.
func New(cfg Config) (*Server, error) {
	log := cfg.Logger.WithName("mcp")
	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithPromptCapabilities(false),
		server.WithRecovery(),
	)

	definitions := toolDefinitions()
	names := make([]string, 0, len(cfg.ToolAdapters))
	for name := range cfg.ToolAdapters {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		tool, ok := definitions[name]
		if !ok {
			return nil, fmt.Errorf("no schema declared for tool %q", name)
		}
		adapter := cfg.ToolAdapters[name]
		mcpServer.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			if err := validateArguments(tool.InputSchema, req.GetArguments()); err != nil {
				log.Info("rejected tool call", "tool", tool.Name, "reason", err.Error())
				return mcp.NewToolResultError("Error: invalid arguments: " + err.Error()), nil
			}
			log.Debug("tool call", "tool", tool.Name)
			return adapter.ToolAdapter(ctx, req)
		})
	}

	registerResources(mcpServer)
	registerPrompts(mcpServer)

	return &Server{MCP: mcpServer, log: log}, nil
}

// ServeStdio runs a single session over in/out until the input closes or ctx
// is cancelled.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.MCP)
	stdio.SetErrorLogger(s.log.WithName("stdio").StdLogger())
	s.log.Info("serving MCP over stdio")
	return stdio.Listen(ctx, in, out)
}

// HTTPHandler exposes the server over streamable HTTP.
func (s *Server) HTTPHandler(opts ...server.StreamableHTTPOption) http.Handler {
	return server.NewStreamableHTTPServer(s.MCP, opts...)
}
