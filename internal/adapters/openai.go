package adapters

import (
	"agent-textweb/internal/toolset"
	"context"
	"encoding/json"

	"github.com/openai/openai-go"
)

// OpenAITools binds the toolset to OpenAI chat completion function calling.
type OpenAITools struct {
	ts *toolset.Toolset
}

func NewOpenAITools(ts *toolset.Toolset) *OpenAITools {
	return &OpenAITools{ts: ts}
}

func (o *OpenAITools) Params() []openai.ChatCompletionToolParam {
	actions := o.ts.Actions()
	tools := make([]openai.ChatCompletionToolParam, 0, len(actions))

	for _, action := range actions {
		tools = append(tools, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        action.Name,
				Description: openai.String(action.Description),
				Parameters:  openai.FunctionParameters(action.JSONSchema()),
			},
		})
	}

	return tools
}

func (o *OpenAITools) Call(ctx context.Context, call openai.ChatCompletionMessageToolCall) (string, error) {
	return o.ts.InvokeJSON(ctx, call.Function.Name, json.RawMessage(call.Function.Arguments))
}

// Execute runs a tool call and returns the tool message answering it.
// Function calling has no error flag, so failures are sent as text.
func (o *OpenAITools) Execute(ctx context.Context, call openai.ChatCompletionMessageToolCall) openai.ChatCompletionMessageParamUnion {
	out, err := o.Call(ctx, call)

	return OpenAIResult(call.ID, out, err)
}

func OpenAIResult(id, out string, err error) openai.ChatCompletionMessageParamUnion {
	if err != nil {
		return openai.ToolMessage("Error: "+err.Error(), id)
	}

	return openai.ToolMessage(out, id)
}
