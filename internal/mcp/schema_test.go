package mcp

import (
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
)

func TestValidateArguments(t *testing.T) {
	create := toolDefinitions()[ToolCreateKnowledgeBase].InputSchema
	list := toolDefinitions()[ToolListKnowledgeBases].InputSchema

	cases := []struct {
		name    string
		schema  mcp.ToolInputSchema
		args    map[string]any
		wantErr string
	}{
		{name: "valid", schema: create, args: map[string]any{"name": "kb", "description": "d"}},
		{name: "empty strings are strings", schema: create, args: map[string]any{"name": "", "description": ""}},
		{name: "missing description", schema: create, args: map[string]any{"name": "kb"}, wantErr: `missing required argument "description"`},
		{name: "wrong type", schema: create, args: map[string]any{"name": 3.0, "description": "d"}, wantErr: `argument "name" must be of type string, got integer`},
		{name: "null value", schema: create, args: map[string]any{"name": nil, "description": "d"}, wantErr: `got null`},
		{name: "unknown field", schema: create, args: map[string]any{"name": "kb", "description": "d", "owner": "me"}, wantErr: `unexpected argument "owner"`},
		{name: "no arguments", schema: list, args: nil},
		{name: "arguments on argless tool", schema: list, args: map[string]any{"limit": 1.0}, wantErr: `unexpected argument "limit"`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateArguments(tc.schema, tc.args)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}
