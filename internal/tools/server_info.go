package tools

import (
	"context"
	"time"

	"memos-mcp/internal/memos"
)

// ServerInfoTool returns static process metadata: version, configured base
// URL, uptime and the tool list. The access token is never included.
type ServerInfoTool struct {
	uc        memos.UseCase
	registry  *Registry
	startedAt time.Time
}

// NewServerInfoTool creates a new get_server_info tool. The registry is
// consulted lazily so tools registered after this one still show up.
func NewServerInfoTool(uc memos.UseCase, registry *Registry, startedAt time.Time) Tool {
	return &ServerInfoTool{uc: uc, registry: registry, startedAt: startedAt}
}

func (t *ServerInfoTool) Name() string {
	return "get_server_info"
}

func (t *ServerInfoTool) Description() string {
	return "Get information about this MCP server: version, configured Memos instance, uptime and available tools."
}

func (t *ServerInfoTool) Parameters() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

func (t *ServerInfoTool) Execute(ctx context.Context, params map[string]any) (any, error) {
	info := t.uc.Info()
	info.UptimeSeconds = int64(time.Since(t.startedAt).Seconds())
	info.Tools = t.registry.Names()
	return info, nil
}
