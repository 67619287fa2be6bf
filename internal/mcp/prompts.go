package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const PromptCreateKnowledgeBase = "createKnowledgeBasePrompt"

func registerPrompts(s *server.MCPServer) {
	prompt := mcp.NewPrompt(PromptCreateKnowledgeBase,
		mcp.WithPromptDescription("Ask the assistant to create a knowledge base"),
		mcp.WithArgument("name",
			mcp.ArgumentDescription("Name of the knowledge base"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("description",
			mcp.ArgumentDescription("Description of the knowledge base"),
			mcp.RequiredArgument(),
		),
	)
	s.AddPrompt(prompt, createKnowledgeBasePrompt)
}

func createKnowledgeBasePrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name, ok := req.Params.Arguments["name"]
	if !ok {
		return nil, fmt.Errorf("missing required argument %q", "name")
	}
	description, ok := req.Params.Arguments["description"]
	if !ok {
		return nil, fmt.Errorf("missing required argument %q", "description")
	}

	text := fmt.Sprintf(`Please create a new knowledge base with the following details:
Name: %s
Description: %s

Use the createKnowledgeBase tool to create this knowledge base.`, name, description)

	return mcp.NewGetPromptResult(
		"Create a knowledge base",
		[]mcp.PromptMessage{mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text))},
	), nil
}
