package adapters

import (
	"agent-textweb/internal/schema"
	"agent-textweb/internal/toolset"
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MCPTools binds the toolset to the Model Context Protocol. A failed call is
// reported as a tool result with isError set, so the agent sees the message
// instead of a protocol error.
func MCPTools(ts *toolset.Toolset) []server.ServerTool {
	actions := ts.Actions()
	tools := make([]server.ServerTool, 0, len(actions))

	for _, action := range actions {
		raw, err := json.Marshal(action.JSONSchema())
		if err != nil {
			continue
		}

		tools = append(tools, server.ServerTool{
			Tool:    mcp.NewToolWithRawSchema(action.Name, action.Description, raw),
			Handler: mcpHandler(ts, action),
		})
	}

	return tools
}

func mcpHandler(ts *toolset.Toolset, action schema.Action) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, err := ts.Invoke(ctx, action.Name, req.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(out), nil
	}
}

// NewMCPServer returns an MCP server exposing the six textweb tools.
func NewMCPServer(ts *toolset.Toolset, name, version string) *server.MCPServer {
	s := server.NewMCPServer(name, version, server.WithToolCapabilities(false))
	s.AddTools(MCPTools(ts)...)

	return s
}
