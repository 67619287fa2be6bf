package tools

import (
	"bytes"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/smallest-ai/kb-mcp-server/internal/logging"
)

// jsonResult pretty-prints an upstream body with two-space indentation,
// keeping the upstream key order. Number spellings and string escapes are
// kept as sent.
func jsonResult(log logging.Logger, body json.RawMessage) *mcp.CallToolResult {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(body), "", "  "); err != nil {
		return failure(log, "error formatting response", err)
	}
	return mcp.NewToolResultText(buf.String())
}

func failure(log logging.Logger, msg string, err error, keysAndValues ...any) *mcp.CallToolResult {
	log.Error(err, msg, keysAndValues...)
	return mcp.NewToolResultError("Error: " + err.Error())
}
