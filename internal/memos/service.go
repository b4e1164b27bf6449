package memos

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"memos-mcp/internal/model"
	"memos-mcp/pkg/log"
)

const (
	memoCacheSize = 256
	memoCacheTTL  = 5 * time.Minute
)

type implUseCase struct {
	client *Client
	cache  *expirable.LRU[string, *model.Memo]
	l      log.Logger
}

// New creates the memo use case over the transport client. Memos fetched by
// id are cached for a short TTL to spare the rate-limit budget.
func New(client *Client, l log.Logger) UseCase {
	return &implUseCase{
		client: client,
		cache:  expirable.NewLRU[string, *model.Memo](memoCacheSize, nil, memoCacheTTL),
		l:      l,
	}
}

func (uc *implUseCase) CreateMemo(ctx context.Context, req model.CreateMemoRequest) (*model.Memo, error) {
	payload, err := BuildCreatePayload(req)
	if err != nil {
		return nil, err
	}

	res, err := uc.client.Execute(ctx, http.MethodPost, "/memos", nil, payload)
	if err != nil {
		uc.l.Errorf(ctx, "memos: create memo failed: %v", err)
		return nil, err
	}

	memo, err := ParseMemo(res.Body)
	if err != nil {
		return nil, err
	}

	uc.cache.Add(memo.ID, memo)
	return memo, nil
}

func (uc *implUseCase) ListMemos(ctx context.Context, limit, offset int) (*model.MemoList, error) {
	return uc.fetchPage(ctx, model.SearchQuery{Limit: limit, Offset: offset})
}

func (uc *implUseCase) SearchMemos(ctx context.Context, query model.SearchQuery) (*model.MemoList, error) {
	// Filtering happens server-side; results are not re-filtered locally.
	return uc.fetchPage(ctx, query)
}

func (uc *implUseCase) fetchPage(ctx context.Context, query model.SearchQuery) (*model.MemoList, error) {
	params := BuildSearchParams(query)

	res, err := uc.client.Execute(ctx, http.MethodGet, "/memos", params, nil)
	if err != nil {
		uc.l.Errorf(ctx, "memos: list memos failed: %v", err)
		return nil, err
	}

	var envelope wireMemoList
	if err := json.Unmarshal(res.Body, &envelope); err != nil {
		return nil, &APIError{
			Kind:    KindMalformedResponse,
			Op:      "list_memos",
			Message: "response is missing the memos list",
			Err:     err,
		}
	}

	memos := make([]model.Memo, 0, len(envelope.Memos))
	for _, raw := range envelope.Memos {
		memo, parseErr := ParseMemo(raw)
		if parseErr != nil {
			// A single bad record should not sink the whole page.
			uc.l.Warnf(ctx, "memos: skipping unparsable memo: %v", parseErr)
			continue
		}
		memos = append(memos, *memo)
	}

	pageSize, _ := strconv.Atoi(params.Get("pageSize"))
	offset := query.Offset
	if offset < 0 {
		offset = 0
	}

	return &model.MemoList{
		Memos:    memos,
		Total:    len(memos),
		Page:     offset/pageSize + 1,
		PageSize: pageSize,
		HasMore:  len(memos) == pageSize,
	}, nil
}

func (uc *implUseCase) GetMemoByID(ctx context.Context, id string) (*model.Memo, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, &APIError{
			Kind:    KindValidation,
			Op:      "get_memo_by_id",
			Message: "memo id must not be empty",
		}
	}

	if memo, ok := uc.cache.Get(id); ok {
		return memo, nil
	}

	res, err := uc.client.Execute(ctx, http.MethodGet, "/memos/"+url.PathEscape(id), nil, nil)
	if err != nil {
		if !IsNotFound(err) {
			uc.l.Errorf(ctx, "memos: get memo %s failed: %v", id, err)
		}
		return nil, err
	}

	memo, err := ParseMemo(res.Body)
	if err != nil {
		return nil, err
	}

	uc.cache.Add(id, memo)
	return memo, nil
}

func (uc *implUseCase) TestConnection(ctx context.Context) model.ConnectionStatus {
	start := time.Now()
	_, err := uc.client.Execute(ctx, http.MethodGet, "/user", nil, nil)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return model.ConnectionStatus{
			Reachable: false,
			LatencyMS: latency,
			Error:     err.Error(),
		}
	}
	return model.ConnectionStatus{Reachable: true, LatencyMS: latency}
}

func (uc *implUseCase) Info() model.ServerInfo {
	return model.ServerInfo{
		Name:        "Memos MCP Server",
		Version:     Version,
		Description: "A streamable HTTP MCP server for the Memos note-taking app",
		BaseURL:     uc.client.BaseURL(),
		APIVersion:  uc.client.APIVersion(),
	}
}
