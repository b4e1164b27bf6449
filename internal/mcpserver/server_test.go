package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"memos-mcp/internal/tools"
	"memos-mcp/pkg/log"
)

// echoTool returns its own arguments, which is enough to exercise the
// dispatch bridge without a remote Memos instance.
type echoTool struct{}

func (echoTool) Name() string        { return "echo" }
func (echoTool) Description() string { return "Echo the arguments back." }

func (echoTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text": map[string]any{"type": "string"},
		},
		"required": []string{"text"},
	}
}

func (echoTool) Execute(ctx context.Context, params map[string]any) (any, error) {
	text, _ := params["text"].(string)
	if text == "" {
		return nil, &tools.ToolError{Kind: "validation", Message: "text is required"}
	}
	return map[string]any{"text": text}, nil
}

func newEchoServer(t *testing.T) *Server {
	t.Helper()
	registry := tools.NewRegistry(log.NewNop())
	registry.Register(echoTool{})

	srv, err := New(registry, log.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return srv
}

func callText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("expected one content block, got %d", len(res.Content))
	}
	text, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", res.Content[0])
	}
	return text.Text
}

func TestHandler(t *testing.T) {
	ctx := context.Background()
	srv := newEchoServer(t)
	handler := srv.handlerFor("echo")

	t.Run("success round-trips arguments", func(t *testing.T) {
		res, err := handler(ctx, &mcp.CallToolRequest{
			Params: &mcp.CallToolParamsRaw{
				Name:      "echo",
				Arguments: json.RawMessage(`{"text":"hello"}`),
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.IsError {
			t.Fatalf("unexpected tool error: %s", callText(t, res))
		}

		var payload map[string]string
		if err := json.Unmarshal([]byte(callText(t, res)), &payload); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if payload["text"] != "hello" {
			t.Errorf("unexpected payload: %v", payload)
		}
	})

	t.Run("tool failure becomes a structured IsError result", func(t *testing.T) {
		res, err := handler(ctx, &mcp.CallToolRequest{
			Params: &mcp.CallToolParamsRaw{Name: "echo"},
		})
		if err != nil {
			t.Fatalf("tool errors must not become protocol errors: %v", err)
		}
		if !res.IsError {
			t.Fatal("expected IsError result")
		}

		var toolErr tools.ToolError
		if err := json.Unmarshal([]byte(callText(t, res)), &toolErr); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if toolErr.Kind != "validation" {
			t.Errorf("unexpected kind: %s", toolErr.Kind)
		}
	})

	t.Run("malformed arguments become a validation error", func(t *testing.T) {
		res, err := handler(ctx, &mcp.CallToolRequest{
			Params: &mcp.CallToolParamsRaw{
				Name:      "echo",
				Arguments: json.RawMessage(`[1,2,3]`),
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.IsError {
			t.Fatal("expected IsError result")
		}
	})
}

func TestToolSchema(t *testing.T) {
	schema, err := toolSchema(echoTool{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if schema.Type != "object" {
		t.Errorf("unexpected schema type: %s", schema.Type)
	}
	if _, ok := schema.Properties["text"]; !ok {
		t.Errorf("schema is missing the text property: %+v", schema.Properties)
	}
	if len(schema.Required) != 1 || schema.Required[0] != "text" {
		t.Errorf("unexpected required list: %v", schema.Required)
	}
}
