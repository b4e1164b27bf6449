package memos

import (
	"context"

	"memos-mcp/internal/model"
)

// UseCase is the memo operation surface the tools dispatch into.
type UseCase interface {
	CreateMemo(ctx context.Context, req model.CreateMemoRequest) (*model.Memo, error)
	ListMemos(ctx context.Context, limit, offset int) (*model.MemoList, error)
	SearchMemos(ctx context.Context, query model.SearchQuery) (*model.MemoList, error)
	GetMemoByID(ctx context.Context, id string) (*model.Memo, error)
	TestConnection(ctx context.Context) model.ConnectionStatus
	Info() model.ServerInfo
}
