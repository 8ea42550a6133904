package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// InvocationCounter counts tool invocations by name. Implemented by the
// metrics store; optional and best-effort like the other observers.
type InvocationCounter interface {
	ToolInvoked(name string)
}

// Counted wraps a tool handler so every invocation bumps the named
// counter before the handler runs. A nil counter returns the handler
// unchanged.
func Counted(
	counter InvocationCounter,
	name string,
	handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error),
) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if counter == nil {
		return handler
	}
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		counter.ToolInvoked(name)
		return handler(ctx, req)
	}
}
