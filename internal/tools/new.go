package tools

import (
	"time"

	"memos-mcp/internal/memos"
	"memos-mcp/pkg/log"
)

// NewDefaultRegistry builds a registry carrying the full tool set backed by
// the given use case.
func NewDefaultRegistry(uc memos.UseCase, l log.Logger, startedAt time.Time) *Registry {
	registry := NewRegistry(l)
	registry.Register(NewCreateMemoTool(uc))
	registry.Register(NewQuickMemoTool(uc))
	registry.Register(NewListMemosTool(uc))
	registry.Register(NewSearchMemosTool(uc))
	registry.Register(NewGetMemoTool(uc))
	registry.Register(NewTestConnectionTool(uc))
	registry.Register(NewServerInfoTool(uc, registry, startedAt))
	return registry
}
