package tools

import (
	"context"
	"fmt"

	"memos-mcp/internal/memos"
)

// ListMemosTool lists memos with pagination.
type ListMemosTool struct {
	uc memos.UseCase
}

// NewListMemosTool creates a new list_memos tool.
func NewListMemosTool(uc memos.UseCase) Tool {
	return &ListMemosTool{uc: uc}
}

func (t *ListMemosTool) Name() string {
	return "list_memos"
}

func (t *ListMemosTool) Description() string {
	return "List memos with pagination. Limit is clamped into [1, 200]."
}

func (t *ListMemosTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"limit": map[string]any{
				"type":        "integer",
				"description": "Maximum number of memos to return (1-200, default 50)",
			},
			"offset": map[string]any{
				"type":        "integer",
				"description": "Number of memos to skip",
			},
		},
	}
}

func (t *ListMemosTool) Execute(ctx context.Context, params map[string]any) (any, error) {
	limit := intArg(params, "limit", memos.DefaultPageSize)
	offset := intArg(params, "offset", 0)

	list, err := t.uc.ListMemos(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list memos: %w", err)
	}
	return list, nil
}
