package ai

import (
	"agent-textweb/internal/adapters"
	"agent-textweb/internal/config"
	"agent-textweb/internal/entity"
	"agent-textweb/internal/ports"
	"agent-textweb/pkg/apperr"
	"agent-textweb/pkg/logg"
	"agent-textweb/pkg/tracing"
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const defaultOpenAIModel = "gpt-4o"

type OpenAIClient struct {
	client openai.Client
	model  string
	tools  *adapters.OpenAITools
	logger *zap.Logger
	tracer trace.Tracer
}

func newOpenAIClient(conf *config.AIConfig, tools *adapters.OpenAITools, logger *zap.Logger) *OpenAIClient {
	opts := []option.RequestOption{option.WithAPIKey(conf.APIKey)}
	if conf.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(conf.BaseURL))
	}

	model := conf.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	return &OpenAIClient{
		client: openai.NewClient(opts...),
		model:  model,
		tools:  tools,
		logger: logger.With(zap.String(logg.Provider, config.ProviderOpenAI)),
		tracer: otel.Tracer(aiTracer),
	}
}

func (c *OpenAIClient) Provider() string {
	return config.ProviderOpenAI
}

func (c *OpenAIClient) StartConversation(task string) ports.Conversation {
	return &openaiConversation{
		client: c,
		messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt()),
			openai.UserMessage("Task: " + task),
		},
	}
}

type openaiConversation struct {
	client   *OpenAIClient
	messages []openai.ChatCompletionMessageParamUnion
}

func (conv *openaiConversation) Next(ctx context.Context) (resp *entity.AIResponse, err error) {
	const op = "openai.Next"
	c := conv.client
	logger := c.logger.With(zap.String(logg.Operation, op))

	ctx, step := tracing.StartSpan(ctx, c.tracer, logger, op,
		attribute.Int("messages_count", len(conv.messages)))
	defer func() {
		step.End(err)
	}()

	step.AddEvent("sending messages")

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: conv.messages,
		Tools:    c.tools.Params(),
	})
	if err != nil {
		return nil, apperr.Wrap(op, apperr.CodeAIError, err, map[string]any{
			apperr.MetaReason: "api_error",
			apperr.MetaStage:  apperr.StageAI,
		})
	}

	if len(completion.Choices) == 0 {
		return nil, apperr.Wrap(op, apperr.CodeAIError, errors.New("completion has no choices"), map[string]any{
			apperr.MetaReason: "empty_completion",
			apperr.MetaStage:  apperr.StageAI,
		})
	}

	message := completion.Choices[0].Message
	conv.messages = append(conv.messages, message.ToParam())

	resp = &entity.AIResponse{Thought: message.Content}

	for _, call := range message.ToolCalls {
		step.AddEvent("running tool", attribute.String("tool", call.Function.Name))

		out, callErr := c.tools.Call(ctx, call)
		resp.ToolCalls = append(resp.ToolCalls, entity.ToolCall{
			ID:     call.ID,
			Name:   call.Function.Name,
			Input:  call.Function.Arguments,
			Output: out,
			Err:    callErr,
		})
		conv.messages = append(conv.messages, adapters.OpenAIResult(call.ID, out, callErr))
	}

	if len(message.ToolCalls) == 0 {
		resp.Complete = true
		resp.Result = message.Content
	}

	return resp, nil
}
