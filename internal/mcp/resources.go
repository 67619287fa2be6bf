package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const DocumentationURI = "docs://smallest.ai"

const documentationText = `Smallest.ai API Documentation

Available Tools:
1. listKnowledgeBases - List all knowledge bases
2. createKnowledgeBase - Create a new knowledge base
3. getKnowledgeBase - Get details of a specific knowledge base

Usage Examples:
- To list all knowledge bases: Call listKnowledgeBases without parameters
- To create a knowledge base: Call createKnowledgeBase with name and description
- To get a knowledge base: Call getKnowledgeBase with the knowledge base ID`

func registerResources(s *server.MCPServer) {
	resource := mcp.NewResource(DocumentationURI, "documentation",
		mcp.WithResourceDescription("Usage guide for the Smallest.ai knowledge base tools"),
		mcp.WithMIMEType("text/plain"),
	)
	s.AddResource(resource, func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      DocumentationURI,
				MIMEType: "text/plain",
				Text:     documentationText,
			},
		}, nil
	})
}
