// Package mcpserver adapts the tool registry onto the MCP protocol using the
// official Go SDK. Tools are registered once; the server can then run over
// stdio or be mounted as a streamable HTTP handler.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"memos-mcp/internal/memos"
	"memos-mcp/internal/tools"
	"memos-mcp/pkg/log"
)

// Server hosts the tool registry over MCP transports.
type Server struct {
	server   *mcp.Server
	registry *tools.Registry
	l        log.Logger
}

// New builds an MCP server exposing every tool in the registry.
func New(registry *tools.Registry, l log.Logger) (*Server, error) {
	srv := &Server{
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "memos-mcp",
			Version: memos.Version,
		}, nil),
		registry: registry,
		l:        l,
	}

	for _, tool := range registry.List() {
		schema, err := toolSchema(tool)
		if err != nil {
			return nil, fmt.Errorf("mcpserver: schema for %s: %w", tool.Name(), err)
		}
		srv.server.AddTool(&mcp.Tool{
			Name:        tool.Name(),
			Description: tool.Description(),
			InputSchema: schema,
		}, srv.handlerFor(tool.Name()))
	}

	return srv, nil
}

// Run serves MCP over stdio until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// HTTPHandler returns the streamable HTTP handler for mounting under a route.
func (s *Server) HTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)
}

// handlerFor bridges one registered tool into an MCP tool handler. Dispatch
// failures come back as structured error payloads with IsError set, never as
// protocol-level errors.
func (s *Server) handlerFor(name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := decodeArguments(req.Params.Arguments)
		if err != nil {
			return errorResult(&tools.ToolError{
				Kind:    string(memos.KindValidation),
				Message: fmt.Sprintf("invalid arguments: %v", err),
			})
		}

		result, toolErr := s.registry.Dispatch(ctx, name, args)
		if toolErr != nil {
			return errorResult(toolErr)
		}

		encoded, err := json.Marshal(result)
		if err != nil {
			return errorResult(&tools.ToolError{
				Kind:    string(memos.KindUnknown),
				Message: fmt.Sprintf("failed to encode result: %v", err),
			})
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(encoded)}},
		}, nil
	}
}

// decodeArguments normalizes the SDK's argument representation into a map.
func decodeArguments(raw any) (map[string]any, error) {
	switch v := raw.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return v, nil
	case json.RawMessage:
		return unmarshalArgs(v)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return unmarshalArgs(encoded)
	}
}

func unmarshalArgs(raw []byte) (map[string]any, error) {
	if len(raw) == 0 {
		return map[string]any{}, nil
	}
	args := map[string]any{}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, err
	}
	return args, nil
}

// errorResult wraps a structured tool error into an IsError tool result so
// the calling agent can branch on the kind field.
func errorResult(toolErr *tools.ToolError) (*mcp.CallToolResult, error) {
	encoded, err := json.Marshal(toolErr)
	if err != nil {
		encoded = []byte(fmt.Sprintf(`{"kind":%q,"message":%q}`, toolErr.Kind, toolErr.Message))
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(encoded)}},
		IsError: true,
	}, nil
}

// toolSchema converts a registry parameter map into the SDK schema type.
func toolSchema(tool tools.Tool) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(tool.Parameters())
	if err != nil {
		return nil, err
	}
	schema := &jsonschema.Schema{}
	if err := json.Unmarshal(encoded, schema); err != nil {
		return nil, err
	}
	return schema, nil
}
