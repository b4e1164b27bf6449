package tools

import (
	"context"
	"fmt"
	"strings"

	"memos-mcp/internal/memos"
	"memos-mcp/internal/model"
)

// SearchMemosTool searches memos by content text and tags. Filtering is done
// server-side; results are returned as-is.
type SearchMemosTool struct {
	uc memos.UseCase
}

// NewSearchMemosTool creates a new search_memos tool.
func NewSearchMemosTool(uc memos.UseCase) Tool {
	return &SearchMemosTool{uc: uc}
}

func (t *SearchMemosTool) Name() string {
	return "search_memos"
}

func (t *SearchMemosTool) Description() string {
	return "Search memos by content text and/or tags, with pagination."
}

func (t *SearchMemosTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "Search text to find in memo content",
			},
			"tags": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Filter by specific tags",
			},
			"limit": map[string]any{
				"type":        "integer",
				"description": "Maximum number of results (1-200, default 50)",
			},
			"offset": map[string]any{
				"type":        "integer",
				"description": "Number of results to skip",
			},
			"date_from": map[string]any{
				"type":        "string",
				"description": "Only memos created at or after this RFC 3339 timestamp",
			},
			"date_to": map[string]any{
				"type":        "string",
				"description": "Only memos created at or before this RFC 3339 timestamp",
			},
		},
	}
}

func (t *SearchMemosTool) Execute(ctx context.Context, params map[string]any) (any, error) {
	dateFrom, err := timeArg(params, "date_from")
	if err != nil {
		return nil, err
	}
	dateTo, err := timeArg(params, "date_to")
	if err != nil {
		return nil, err
	}

	query := model.SearchQuery{
		Query:    strings.TrimSpace(stringArg(params, "query")),
		Tags:     stringsArg(params, "tags"),
		Limit:    intArg(params, "limit", memos.DefaultPageSize),
		Offset:   intArg(params, "offset", 0),
		DateFrom: dateFrom,
		DateTo:   dateTo,
	}

	if query.Query == "" && len(query.Tags) == 0 {
		return nil, &ToolError{
			Kind:    string(memos.KindValidation),
			Message: "search requires a query or at least one tag",
		}
	}

	list, err := t.uc.SearchMemos(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search memos: %w", err)
	}
	return list, nil
}
