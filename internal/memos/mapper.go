package memos

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"memos-mcp/internal/model"
)

// Pagination bounds enforced on every list/search call.
const (
	MinPageSize     = 1
	MaxPageSize     = 200
	DefaultPageSize = 50
)

var hashtagPattern = regexp.MustCompile(`#(\w+)`)

// CreateMemoPayload is the wire body for POST /memos.
type CreateMemoPayload struct {
	Content    string `json:"content"`
	Visibility string `json:"visibility"`
	Pinned     bool   `json:"pinned"`
}

// wireMemo is the memo object as the Memos API returns it. Identifiers and
// timestamps vary between API generations, so both spellings are accepted.
type wireMemo struct {
	ID         json.Number `json:"id"`
	UID        string      `json:"uid"`
	Name       string      `json:"name"`
	Content    string      `json:"content"`
	Visibility string      `json:"visibility"`
	Pinned     bool        `json:"pinned"`
	CreateTime string      `json:"createTime"`
	UpdateTime string      `json:"updateTime"`
	CreatedTs  int64       `json:"createdTs"`
	UpdatedTs  int64       `json:"updatedTs"`
}

// wireMemoList is the envelope of GET /memos.
type wireMemoList struct {
	Memos []json.RawMessage `json:"memos"`
}

// NormalizeTags trims, strips leading '#', lowercases, drops empties and
// deduplicates while keeping first-occurrence order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// SplitTagList splits a comma- or whitespace-separated tag string and
// normalizes the result.
func SplitTagList(raw string) []string {
	return NormalizeTags(strings.Fields(strings.ReplaceAll(raw, ",", " ")))
}

// BuildCreatePayload validates a create request and shapes the wire body.
// Tags are embedded into the content as #hashtags, which is how Memos
// attaches tags to a memo.
func BuildCreatePayload(req model.CreateMemoRequest) (CreateMemoPayload, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return CreateMemoPayload{}, &APIError{
			Kind:    KindValidation,
			Op:      "create_memo",
			Message: "content must not be empty",
		}
	}

	tags := NormalizeTags(req.Tags)
	if req.Source != "" {
		tags = NormalizeTags(append(tags, req.Source))
	}
	for _, tag := range tags {
		content += " #" + tag
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = model.VisibilityPrivate
	}

	return CreateMemoPayload{
		Content:    content,
		Visibility: visibility,
		Pinned:     req.Pinned,
	}, nil
}

// BuildSearchParams shapes list/search pagination and filter parameters.
// Limit is clamped into [MinPageSize, MaxPageSize] (zero means the default),
// a negative offset is clamped to 0, and absent optional fields are omitted
// rather than sent as empty strings.
func BuildSearchParams(q model.SearchQuery) url.Values {
	limit := q.Limit
	if limit == 0 {
		limit = DefaultPageSize
	}
	if limit < MinPageSize {
		limit = MinPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	params := url.Values{}
	params.Set("pageSize", strconv.Itoa(limit))
	if offset > 0 {
		params.Set("pageToken", strconv.Itoa(offset))
	}
	if filter := buildSearchFilter(q); filter != "" {
		params.Set("filter", filter)
	}
	return params
}

// buildSearchFilter builds the CEL-style filter string the Memos API expects.
func buildSearchFilter(q model.SearchQuery) string {
	var filters []string

	if query := strings.TrimSpace(q.Query); query != "" {
		filters = append(filters, fmt.Sprintf("content.contains(%q)", query))
	}

	if tags := NormalizeTags(q.Tags); len(tags) > 0 {
		terms := make([]string, 0, len(tags))
		for _, tag := range tags {
			terms = append(terms, fmt.Sprintf("content.contains(%q)", "#"+tag))
		}
		if len(terms) == 1 {
			filters = append(filters, terms[0])
		} else {
			filters = append(filters, "("+strings.Join(terms, " || ")+")")
		}
	}

	if !q.DateFrom.IsZero() {
		filters = append(filters, fmt.Sprintf("created_ts >= %d", q.DateFrom.Unix()))
	}
	if !q.DateTo.IsZero() {
		filters = append(filters, fmt.Sprintf("created_ts <= %d", q.DateTo.Unix()))
	}

	return strings.Join(filters, " && ")
}

// ParseMemo decodes a wire memo into the domain model. Missing id or content
// is a malformed response; a present-but-unparsable timestamp propagates as
// one too. Absent timestamps stay at the zero value.
func ParseMemo(raw json.RawMessage) (*model.Memo, error) {
	var wm wireMemo
	if err := json.Unmarshal(raw, &wm); err != nil {
		return nil, &APIError{
			Kind:    KindMalformedResponse,
			Op:      "parse_memo",
			Message: "response is not a memo object",
			Err:     err,
		}
	}
	return memoFromWire(wm)
}

func memoFromWire(wm wireMemo) (*model.Memo, error) {
	id := wm.ID.String()
	if id == "" || id == "0" {
		// v1 responses identify memos by resource name ("memos/<uid>").
		id = strings.TrimPrefix(wm.Name, "memos/")
	}
	if id == "" {
		id = wm.UID
	}
	if id == "" {
		return nil, &APIError{
			Kind:    KindMalformedResponse,
			Op:      "parse_memo",
			Message: "memo is missing an id",
		}
	}
	if wm.Content == "" {
		return nil, &APIError{
			Kind:    KindMalformedResponse,
			Op:      "parse_memo",
			Message: "memo is missing content",
		}
	}

	createdAt, err := parseWireTime(wm.CreateTime, wm.CreatedTs)
	if err != nil {
		return nil, err
	}
	updatedAt, err := parseWireTime(wm.UpdateTime, wm.UpdatedTs)
	if err != nil {
		return nil, err
	}

	visibility := wm.Visibility
	if visibility == "" {
		visibility = model.VisibilityPrivate
	}

	return &model.Memo{
		ID:         id,
		UID:        wm.UID,
		Name:       wm.Name,
		Content:    wm.Content,
		Tags:       extractHashtags(wm.Content),
		Visibility: visibility,
		Pinned:     wm.Pinned,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}, nil
}

// parseWireTime prefers the RFC 3339 string and falls back to the epoch
// seconds field older API versions use.
func parseWireTime(rfc3339 string, epoch int64) (time.Time, error) {
	if rfc3339 != "" {
		ts, err := time.Parse(time.RFC3339, rfc3339)
		if err != nil {
			return time.Time{}, &APIError{
				Kind:    KindMalformedResponse,
				Op:      "parse_memo",
				Message: fmt.Sprintf("unparsable timestamp %q", rfc3339),
				Err:     err,
			}
		}
		return ts, nil
	}
	if epoch > 0 {
		return time.Unix(epoch, 0).UTC(), nil
	}
	return time.Time{}, nil
}

// extractHashtags recovers the normalized tag set from #hashtags embedded in
// memo content, keeping first-occurrence order.
func extractHashtags(content string) []string {
	matches := hashtagPattern.FindAllStringSubmatch(content, -1)
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, m[1])
	}
	return NormalizeTags(tags)
}
