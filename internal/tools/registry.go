package tools

import (
	"context"
	"fmt"
	"sort"

	"memos-mcp/internal/memos"
	"memos-mcp/pkg/log"
)

// Tool represents a named operation exposed to MCP clients.
type Tool interface {
	// Name returns the tool name used in tool calls.
	Name() string

	// Description returns what the tool does (for the calling agent).
	Description() string

	// Parameters returns the JSON schema for tool parameters.
	Parameters() map[string]any

	// Execute runs the tool with decoded arguments.
	Execute(ctx context.Context, params map[string]any) (any, error)
}

// ToolError is the structured failure every dispatch resolves to. Kind lets
// callers branch on validation vs remote vs rate-limited failures.
type ToolError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Registry manages the available tools and dispatches calls to them.
type Registry struct {
	tools map[string]Tool
	l     log.Logger
}

// NewRegistry creates an empty tool registry.
func NewRegistry(l log.Logger) *Registry {
	return &Registry{
		tools: make(map[string]Tool),
		l:     l,
	}
}

// Register adds a tool to the registry.
func (r *Registry) Register(tool Tool) {
	r.tools[tool.Name()] = tool
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

// List returns all registered tools sorted by name.
func (r *Registry) List() []Tool {
	tools := make([]Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		tools = append(tools, tool)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name() < tools[j].Name() })
	return tools
}

// Names returns the registered tool names sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch resolves a tool call to either a success payload or a *ToolError.
// A transport or validation failure never escapes unwrapped.
func (r *Registry) Dispatch(ctx context.Context, name string, params map[string]any) (any, *ToolError) {
	tool, ok := r.Get(name)
	if !ok {
		return nil, &ToolError{
			Kind:    string(memos.KindValidation),
			Message: fmt.Sprintf("unknown tool %q", name),
		}
	}

	result, err := tool.Execute(ctx, params)
	if err != nil {
		toolErr := classify(err)
		r.l.Warnf(ctx, "tools: %s failed: %s", name, toolErr.Message)
		return nil, toolErr
	}
	return result, nil
}

// classify maps an execution error onto the structured tool error taxonomy.
func classify(err error) *ToolError {
	if toolErr, ok := err.(*ToolError); ok {
		return toolErr
	}
	return &ToolError{
		Kind:    string(memos.KindOf(err)),
		Message: err.Error(),
	}
}
