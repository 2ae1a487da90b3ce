package ports

import (
	"agent-textweb/internal/entity"
	"context"
)

// SessionClient performs actions against the browser session service.
type SessionClient interface {
	Do(ctx context.Context, req entity.ActionRequest) (*entity.PageSnapshot, error)
	Close() error
}

// AIClient starts model conversations that can call the textweb tools.
type AIClient interface {
	Provider() string
	StartConversation(task string) Conversation
}

// Conversation is one task's exchange with a model. Next sends the pending
// turn, runs any tool calls the model asked for and reports them.
type Conversation interface {
	Next(ctx context.Context) (*entity.AIResponse, error)
}
