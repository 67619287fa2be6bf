package mcp

import (
	"fmt"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
)

// validateArguments checks call arguments against a tool's declared input
// schema: required fields must be present, declared fields must carry the
// declared JSON type, and undeclared fields are rejected.
func validateArguments(schema mcp.ToolInputSchema, args map[string]any) error {
	for _, name := range schema.Required {
		if _, ok := args[name]; !ok {
			return fmt.Errorf("missing required argument %q", name)
		}
	}

	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		raw, ok := schema.Properties[name]
		if !ok {
			return fmt.Errorf("unexpected argument %q", name)
		}
		prop, _ := raw.(map[string]any)
		want, _ := prop["type"].(string)
		if want == "" {
			continue
		}
		if !matchesType(want, args[name]) {
			return fmt.Errorf("argument %q must be of type %s, got %s", name, want, jsonType(args[name]))
		}
	}
	return nil
}

func matchesType(want string, value any) bool {
	got := jsonType(value)
	if want == "number" && got == "integer" {
		return true
	}
	return want == got
}

func jsonType(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64:
		if v == float64(int64(v)) {
			return "integer"
		}
		return "number"
	case float32, int, int32, int64:
		return "integer"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", value)
	}
}
