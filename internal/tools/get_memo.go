package tools

import (
	"context"
	"fmt"
	"strings"

	"memos-mcp/internal/memos"
)

// GetMemoTool fetches a single memo by its remote id. A remote 404 surfaces
// as a not_found tool error, distinguishable from server errors.
type GetMemoTool struct {
	uc memos.UseCase
}

// NewGetMemoTool creates a new get_memo_by_id tool.
func NewGetMemoTool(uc memos.UseCase) Tool {
	return &GetMemoTool{uc: uc}
}

func (t *GetMemoTool) Name() string {
	return "get_memo_by_id"
}

func (t *GetMemoTool) Description() string {
	return "Get a specific memo by its unique identifier."
}

func (t *GetMemoTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"memo_id": map[string]any{
				"type":        "string",
				"description": "The unique identifier of the memo",
			},
		},
		"required": []string{"memo_id"},
	}
}

func (t *GetMemoTool) Execute(ctx context.Context, params map[string]any) (any, error) {
	id := strings.TrimSpace(stringArg(params, "memo_id"))
	if id == "" {
		return nil, &ToolError{
			Kind:    string(memos.KindValidation),
			Message: "memo_id is required",
		}
	}

	memo, err := t.uc.GetMemoByID(ctx, id)
	if err != nil {
		if memos.IsNotFound(err) {
			return nil, &ToolError{
				Kind:    string(memos.KindNotFound),
				Message: fmt.Sprintf("no memo found with id %q", id),
			}
		}
		return nil, fmt.Errorf("get memo: %w", err)
	}

	return memoResult{
		Success: true,
		Message: "Memo found",
		Memo:    memo,
	}, nil
}
