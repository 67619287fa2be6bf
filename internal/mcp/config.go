package mcp

import (
	"net/http"

	"github.com/smallest-ai/kb-mcp-server/internal/config"
	"github.com/smallest-ai/kb-mcp-server/internal/knowledgebase"
	"github.com/smallest-ai/kb-mcp-server/internal/logging"
	"github.com/smallest-ai/kb-mcp-server/internal/mcp/tools"
)

type Config struct {
	ToolAdapters map[string]ToolAdapter
	Logger       logging.Logger
}

// DefaultConfig wires the knowledge-base tools to the upstream API described
// by upstream. httpClient may be nil.
func DefaultConfig(upstream config.Upstream, httpClient *http.Client, log logging.Logger) Config {
	client := knowledgebase.NewClient(knowledgebase.Config{
		BaseURL:    upstream.BaseURL,
		APIKey:     upstream.APIKey,
		HTTPClient: httpClient,
		Logger:     log,
	})
	toolLog := log.WithName("tools")

	return Config{
		ToolAdapters: map[string]ToolAdapter{
			ToolListKnowledgeBases:  &tools.ListKnowledgeBasesHandler{Service: client, Log: toolLog},
			ToolCreateKnowledgeBase: &tools.CreateKnowledgeBaseHandler{Service: client, Log: toolLog},
			ToolGetKnowledgeBase:    &tools.GetKnowledgeBaseHandler{Service: client, Log: toolLog},
		},
		Logger: log,
	}
}
