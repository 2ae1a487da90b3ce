package adapters

import (
	"agent-textweb/internal/toolset"
	"context"

	"github.com/anthropics/anthropic-sdk-go"
)

// AnthropicTools binds the toolset to Anthropic Messages API tool use.
type AnthropicTools struct {
	ts *toolset.Toolset
}

func NewAnthropicTools(ts *toolset.Toolset) *AnthropicTools {
	return &AnthropicTools{ts: ts}
}

// Params returns the tool definitions for MessageNewParams.Tools.
func (a *AnthropicTools) Params() []anthropic.ToolUnionParam {
	actions := a.ts.Actions()
	tools := make([]anthropic.ToolUnionParam, 0, len(actions))

	for _, action := range actions {
		s := action.JSONSchema()

		tool := anthropic.ToolParam{
			Name:        action.Name,
			Description: anthropic.String(action.Description),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: s["properties"],
				Required:   action.RequiredParams(),
			},
		}

		tools = append(tools, anthropic.ToolUnionParam{OfTool: &tool})
	}

	return tools
}

// Call runs the tool named by a tool_use block.
func (a *AnthropicTools) Call(ctx context.Context, block anthropic.ToolUseBlock) (string, error) {
	return a.ts.InvokeJSON(ctx, block.Name, block.Input)
}

// Execute runs a tool_use block and returns the matching tool_result block.
func (a *AnthropicTools) Execute(ctx context.Context, block anthropic.ToolUseBlock) anthropic.ContentBlockParamUnion {
	out, err := a.Call(ctx, block)

	return AnthropicResult(block.ID, out, err)
}

// AnthropicResult builds the tool_result block for an outcome already computed.
func AnthropicResult(id, out string, err error) anthropic.ContentBlockParamUnion {
	if err != nil {
		return anthropic.NewToolResultBlock(id, err.Error(), true)
	}

	return anthropic.NewToolResultBlock(id, out, false)
}
