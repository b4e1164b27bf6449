package tools

import (
	"context"

	"memos-mcp/internal/memos"
)

// TestConnectionTool probes the remote Memos instance and reports
// reachability and latency as data. It never fails on an unreachable host.
type TestConnectionTool struct {
	uc memos.UseCase
}

// NewTestConnectionTool creates a new test_connection tool.
func NewTestConnectionTool(uc memos.UseCase) Tool {
	return &TestConnectionTool{uc: uc}
}

func (t *TestConnectionTool) Name() string {
	return "test_connection"
}

func (t *TestConnectionTool) Description() string {
	return "Test the connection to the Memos API and report reachability plus latency."
}

func (t *TestConnectionTool) Parameters() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

func (t *TestConnectionTool) Execute(ctx context.Context, params map[string]any) (any, error) {
	return t.uc.TestConnection(ctx), nil
}
