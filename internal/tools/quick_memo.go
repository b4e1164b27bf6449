package tools

import (
	"context"
	"fmt"

	"memos-mcp/internal/memos"
	"memos-mcp/internal/model"
)

// QuickMemoTool creates a memo from plain text plus a delimiter-separated
// tag string. It produces the same payload create_memo would for the split
// tag set.
type QuickMemoTool struct {
	uc memos.UseCase
}

// NewQuickMemoTool creates a new quick_memo tool.
func NewQuickMemoTool(uc memos.UseCase) Tool {
	return &QuickMemoTool{uc: uc}
}

func (t *QuickMemoTool) Name() string {
	return "quick_memo"
}

func (t *QuickMemoTool) Description() string {
	return "Quickly create a memo from text content and optional comma- or space-separated tags."
}

func (t *QuickMemoTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"content": map[string]any{
				"type":        "string",
				"description": "The text content of the memo",
			},
			"tags": map[string]any{
				"type":        "string",
				"description": "Optional comma- or space-separated tags",
			},
		},
		"required": []string{"content"},
	}
}

func (t *QuickMemoTool) Execute(ctx context.Context, params map[string]any) (any, error) {
	req := model.CreateMemoRequest{
		Content:    stringArg(params, "content"),
		Tags:       memos.SplitTagList(stringArg(params, "tags")),
		Visibility: model.VisibilityPrivate,
	}

	memo, err := t.uc.CreateMemo(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("quick memo: %w", err)
	}

	return memoResult{
		Success: true,
		Message: "Memo created successfully",
		Memo:    memo,
	}, nil
}
