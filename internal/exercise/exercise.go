// Package exercise drives the knowledge-base tools end to end for manual
// verification of a running server.
package exercise

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/tidwall/gjson"
	"sigs.k8s.io/yaml"

	"github.com/smallest-ai/kb-mcp-server/internal/logging"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ToolCaller is the subset of an MCP client the scenario needs.
type ToolCaller interface {
	CallTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

type Options struct {
	Name        string
	Description string
	Format      string
	// CallTimeout bounds each tool call. Zero means no bound.
	CallTimeout time.Duration
	Logger      logging.Logger
}

func DefaultOptions() Options {
	return Options{
		Name:        "Test Knowledge Base",
		Description: "Created via MCP test client",
		Format:      FormatJSON,
		CallTimeout: time.Minute,
	}
}

// Run lists knowledge bases, creates one, and fetches it back when the create
// response carries data.id. Tool failures are printed, never returned; the
// only error Run reports is a failure to write to out.
func Run(ctx context.Context, caller ToolCaller, out io.Writer, opts Options) error {
	if opts.Format == "" {
		opts.Format = FormatJSON
	}
	r := &runner{caller: caller, out: out, opts: opts}

	if _, err := r.call(ctx, "listKnowledgeBases", "List Knowledge Bases Result", map[string]any{}); err != nil {
		return err
	}

	created, err := r.call(ctx, "createKnowledgeBase", "Create Knowledge Base Result", map[string]any{
		"name":        opts.Name,
		"description": opts.Description,
	})
	if err != nil {
		return err
	}

	id, ok := createdID(created)
	if !ok {
		opts.Logger.Info("create response carried no knowledge base id; skipping getKnowledgeBase")
		return nil
	}
	_, err = r.call(ctx, "getKnowledgeBase", "Get Knowledge Base Result", map[string]any{"id": id})
	return err
}

type runner struct {
	caller ToolCaller
	out    io.Writer
	opts   Options
}

func (r *runner) call(ctx context.Context, tool, label string, args map[string]any) (*mcp.CallToolResult, error) {
	if _, err := fmt.Fprintf(r.out, "\nTesting %s...\n", tool); err != nil {
		return nil, err
	}

	req := mcp.CallToolRequest{}
	req.Params.Name = tool
	req.Params.Arguments = args
	callCtx, cancel := r.withTimeout(ctx)
	res, err := r.caller.CallTool(callCtx, req)
	cancel()
	if err != nil {
		r.opts.Logger.Error(err, "tool call failed", "tool", tool)
		_, werr := fmt.Fprintf(r.out, "%s: error: %v\n", label, err)
		return nil, werr
	}

	rendered, err := render(res, r.opts.Format)
	if err != nil {
		return res, fmt.Errorf("render %s result: %w", tool, err)
	}
	_, err = fmt.Fprintf(r.out, "%s:\n%s\n", label, rendered)
	return res, err
}

func (r *runner) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.opts.CallTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.opts.CallTimeout)
}

func render(res *mcp.CallToolResult, format string) (string, error) {
	switch format {
	case FormatYAML:
		b, err := yaml.Marshal(res)
		return string(b), err
	case FormatJSON:
		b, err := json.MarshalIndent(res, "", "  ")
		return string(b), err
	default:
		return "", fmt.Errorf("unsupported output format %q", format)
	}
}

// createdID pulls data.id out of the first text block of a create result.
func createdID(res *mcp.CallToolResult) (string, bool) {
	if res == nil || len(res.Content) == 0 {
		return "", false
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok || text.Text == "" || !gjson.Valid(text.Text) {
		return "", false
	}
	id := gjson.Get(text.Text, "data.id")
	if id.Type != gjson.String || id.Str == "" {
		return "", false
	}
	return id.Str, true
}
