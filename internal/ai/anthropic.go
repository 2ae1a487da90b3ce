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
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const defaultAnthropicModel = "claude-sonnet-4-20250514"

type AnthropicClient struct {
	client anthropic.Client
	model  string
	tools  *adapters.AnthropicTools
	logger *zap.Logger
	tracer trace.Tracer
}

func newAnthropicClient(conf *config.AIConfig, tools *adapters.AnthropicTools, logger *zap.Logger) *AnthropicClient {
	opts := []option.RequestOption{option.WithAPIKey(conf.APIKey)}
	if conf.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(conf.BaseURL))
	}

	model := conf.Model
	if model == "" {
		model = defaultAnthropicModel
	}

	return &AnthropicClient{
		client: anthropic.NewClient(opts...),
		model:  model,
		tools:  tools,
		logger: logger.With(zap.String(logg.Provider, config.ProviderAnthropic)),
		tracer: otel.Tracer(aiTracer),
	}
}

func (c *AnthropicClient) Provider() string {
	return config.ProviderAnthropic
}

func (c *AnthropicClient) StartConversation(task string) ports.Conversation {
	return &anthropicConversation{
		client: c,
		messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock("Task: " + task)),
		},
	}
}

type anthropicConversation struct {
	client   *AnthropicClient
	messages []anthropic.MessageParam
}

func (conv *anthropicConversation) Next(ctx context.Context) (resp *entity.AIResponse, err error) {
	const op = "anthropic.Next"
	c := conv.client
	logger := c.logger.With(zap.String(logg.Operation, op))

	ctx, step := tracing.StartSpan(ctx, c.tracer, logger, op,
		attribute.Int("messages_count", len(conv.messages)))
	defer func() {
		step.End(err)
	}()

	step.AddEvent("sending messages")

	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: maxTokens,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt()}},
		Messages:  conv.messages,
		Tools:     c.tools.Params(),
	})
	if err != nil {
		return nil, apperr.Wrap(op, apperr.CodeAIError, err, map[string]any{
			apperr.MetaReason: "api_error",
			apperr.MetaStage:  apperr.StageAI,
		})
	}

	conv.messages = append(conv.messages, msg.ToParam())

	resp = &entity.AIResponse{}

	var (
		thoughts []string
		results  []anthropic.ContentBlockParamUnion
	)

	for _, block := range msg.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			thoughts = append(thoughts, b.Text)
		case anthropic.ToolUseBlock:
			step.AddEvent("running tool", attribute.String("tool", b.Name))

			out, callErr := c.tools.Call(ctx, b)
			resp.ToolCalls = append(resp.ToolCalls, entity.ToolCall{
				ID:     b.ID,
				Name:   b.Name,
				Input:  string(b.Input),
				Output: out,
				Err:    callErr,
			})
			results = append(results, adapters.AnthropicResult(b.ID, out, callErr))
		}
	}

	resp.Thought = strings.Join(thoughts, "\n")

	if len(results) == 0 {
		resp.Complete = true
		resp.Result = resp.Thought

		return resp, nil
	}

	conv.messages = append(conv.messages, anthropic.NewUserMessage(results...))

	return resp, nil
}
