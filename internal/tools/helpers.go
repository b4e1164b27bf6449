package tools

import (
	"fmt"
	"time"

	"memos-mcp/internal/memos"
	"memos-mcp/internal/model"
)

// stringArg extracts a string argument, returning "" when absent.
func stringArg(params map[string]any, key string) string {
	v, _ := params[key].(string)
	return v
}

// intArg extracts an integer argument, returning defaultVal if the key is
// missing or not a number (JSON numbers decode as float64).
func intArg(params map[string]any, key string, defaultVal int) int {
	switch v := params[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return defaultVal
}

// boolArg extracts a boolean argument.
func boolArg(params map[string]any, key string, defaultVal bool) bool {
	v, ok := params[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// stringsArg extracts a string-list argument. A bare string is accepted as a
// single-element list.
func stringsArg(params map[string]any, key string) []string {
	switch v := params[key].(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	}
	return nil
}

// timeArg extracts an RFC 3339 timestamp argument. An absent or empty value
// yields the zero time; an unparsable one is a validation error.
func timeArg(params map[string]any, key string) (time.Time, error) {
	raw := stringArg(params, key)
	if raw == "" {
		return time.Time{}, nil
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, &ToolError{
			Kind:    string(memos.KindValidation),
			Message: fmt.Sprintf("%s must be an RFC 3339 timestamp: %v", key, err),
		}
	}
	return ts, nil
}

// memoResult is the success payload for single-memo operations.
type memoResult struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Memo    *model.Memo `json:"memo"`
}
