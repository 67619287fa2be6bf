package tools

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/smallest-ai/kb-mcp-server/internal/logging"
)

type Lister interface {
	List(ctx context.Context) (json.RawMessage, error)
}

type Creator interface {
	Create(ctx context.Context, name, description string) (json.RawMessage, error)
}

type Getter interface {
	Get(ctx context.Context, id string) (json.RawMessage, error)
}

type ListKnowledgeBasesHandler struct {
	Service Lister
	Log     logging.Logger
}

func (h *ListKnowledgeBasesHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body, err := h.Service.List(ctx)
	if err != nil {
		return failure(h.Log, "error fetching knowledge bases", err), nil
	}
	return jsonResult(h.Log, body), nil
}

type CreateKnowledgeBaseHandler struct {
	Service Creator
	Log     logging.Logger
}

func (h *CreateKnowledgeBaseHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	name, _ := args["name"].(string)
	description, _ := args["description"].(string)

	body, err := h.Service.Create(ctx, name, description)
	if err != nil {
		return failure(h.Log, "error creating knowledge base", err, "name", name), nil
	}
	return jsonResult(h.Log, body), nil
}

type GetKnowledgeBaseHandler struct {
	Service Getter
	Log     logging.Logger
}

func (h *GetKnowledgeBaseHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, _ := req.GetArguments()["id"].(string)

	body, err := h.Service.Get(ctx, id)
	if err != nil {
		return failure(h.Log, "error fetching knowledge base", err, "id", id), nil
	}
	return jsonResult(h.Log, body), nil
}
