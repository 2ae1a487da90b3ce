package ai

import (
	"agent-textweb/internal/adapters"
	"agent-textweb/internal/config"
	"agent-textweb/internal/ports"
	"agent-textweb/internal/toolset"
	"agent-textweb/pkg/logg"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	aiClientName = "AIClient"
	aiTracer     = "ai.client"
	maxTokens    = 4096
)

type Params struct {
	fx.In

	Config *config.Config
	Logger *zap.Logger
	Tools  *toolset.Toolset
}

// NewClient returns the model client selected by AI_PROVIDER.
func NewClient(params Params) ports.AIClient {
	logger := params.Logger.With(zap.String(logg.Layer, aiClientName))
	conf := params.Config.AIConfig

	switch conf.Provider {
	case config.ProviderOpenAI:
		return newOpenAIClient(conf, adapters.NewOpenAITools(params.Tools), logger)
	default:
		return newAnthropicClient(conf, adapters.NewAnthropicTools(params.Tools), logger)
	}
}

func systemPrompt() string {
	var prompt strings.Builder

	prompt.WriteString("You are a browser automation agent. Complete tasks efficiently.\n\n")
	prompt.WriteString(`Pages are rendered as a text grid. Interactive elements are listed as
[ref] role: text and are addressed by their ref number.

Available tools:
- textweb_navigate(url)
- textweb_click(ref)
- textweb_type(ref, text) - replaces the field content
- textweb_select(ref, value)
- textweb_scroll(direction, amount) - direction is up, down or top
- textweb_snapshot() - re-render without navigating

IMPORTANT RULES:
1. Refs are only valid for the page that listed them. After any action use the refs from the latest result.
2. If a ref is rejected, take a snapshot and try again with a fresh ref.
3. NEVER repeat a failed action unchanged.
4. Before finishing, VERIFY the result on the page.
5. When done, answer with a short summary of the result and call no tool.`)

	return prompt.String()
}
