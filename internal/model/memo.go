package model

import "time"

// Visibility values accepted by the Memos API.
const (
	VisibilityPrivate   = "PRIVATE"
	VisibilityProtected = "PROTECTED"
	VisibilityPublic    = "PUBLIC"
)

// Memo is the client-side view of a memo owned by the remote Memos service.
// The ID is assigned remotely and never generated locally.
type Memo struct {
	ID         string    `json:"id"`
	UID        string    `json:"uid,omitempty"`
	Name       string    `json:"name,omitempty"`
	Content    string    `json:"content"`
	Tags       []string  `json:"tags"`
	Visibility string    `json:"visibility,omitempty"`
	Pinned     bool      `json:"pinned,omitempty"`
	Source     string    `json:"source,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
}

// CreateMemoRequest is the typed input for memo creation. Content must be
// non-empty after trimming; tags are normalized before hitting the wire.
type CreateMemoRequest struct {
	Content    string   `json:"content"`
	Tags       []string `json:"tags,omitempty"`
	Visibility string   `json:"visibility,omitempty"`
	Pinned     bool     `json:"pinned,omitempty"`
	Source     string   `json:"source,omitempty"`
}

// SearchQuery holds search and pagination parameters.
// Limit is clamped into [1, 200] (default 50); a negative offset is clamped
// to 0 before dispatch.
type SearchQuery struct {
	Query    string    `json:"query,omitempty"`
	Tags     []string  `json:"tags,omitempty"`
	Limit    int       `json:"limit,omitempty"`
	Offset   int       `json:"offset,omitempty"`
	DateFrom time.Time `json:"date_from,omitempty"`
	DateTo   time.Time `json:"date_to,omitempty"`
}

// MemoList is the paginated result of list/search operations.
type MemoList struct {
	Memos    []Memo `json:"memos"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	HasMore  bool   `json:"has_more"`
}

// ConnectionStatus reports reachability of the remote service as data,
// never as an error.
type ConnectionStatus struct {
	Reachable bool   `json:"reachable"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

// ServerInfo is static process metadata returned by get_server_info.
// It must never carry the raw access token.
type ServerInfo struct {
	Name          string   `json:"name"`
	Version       string   `json:"version"`
	Description   string   `json:"description"`
	BaseURL       string   `json:"base_url"`
	APIVersion    string   `json:"api_version"`
	UptimeSeconds int64    `json:"uptime_seconds"`
	Tools         []string `json:"tools"`
}
