package tools

import (
	"context"
	"fmt"

	"memos-mcp/internal/memos"
	"memos-mcp/internal/model"
)

// CreateMemoTool creates a new memo in the remote Memos instance.
type CreateMemoTool struct {
	uc memos.UseCase
}

// NewCreateMemoTool creates a new create_memo tool.
func NewCreateMemoTool(uc memos.UseCase) Tool {
	return &CreateMemoTool{uc: uc}
}

func (t *CreateMemoTool) Name() string {
	return "create_memo"
}

func (t *CreateMemoTool) Description() string {
	return "Create a new memo with content, optional tags and visibility."
}

func (t *CreateMemoTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"content": map[string]any{
				"type":        "string",
				"description": "The content of the memo",
			},
			"tags": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Optional tags for the memo",
			},
			"visibility": map[string]any{
				"type":        "string",
				"enum":        []string{model.VisibilityPrivate, model.VisibilityProtected, model.VisibilityPublic},
				"description": "Memo visibility (default PRIVATE)",
			},
			"pinned": map[string]any{
				"type":        "boolean",
				"description": "Whether to pin the memo",
			},
			"source": map[string]any{
				"type":        "string",
				"description": "Optional tag identifying where the memo came from",
			},
		},
		"required": []string{"content"},
	}
}

func (t *CreateMemoTool) Execute(ctx context.Context, params map[string]any) (any, error) {
	req := model.CreateMemoRequest{
		Content:    stringArg(params, "content"),
		Tags:       stringsArg(params, "tags"),
		Visibility: stringArg(params, "visibility"),
		Pinned:     boolArg(params, "pinned", false),
		Source:     stringArg(params, "source"),
	}

	memo, err := t.uc.CreateMemo(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create memo: %w", err)
	}

	return memoResult{
		Success: true,
		Message: "Memo created successfully",
		Memo:    memo,
	}, nil
}
