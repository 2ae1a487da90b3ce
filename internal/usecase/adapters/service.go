package adapters

import (
	"agent-textweb/internal/entity"
	"agent-textweb/internal/schema"
	"context"
)

// ToolService is the ref-addressed tool surface shared by every binding.
type ToolService interface {
	Actions() []schema.Action
	Invoke(ctx context.Context, name string, args map[string]any) (string, error)
	Navigate(ctx context.Context, url string) (string, error)
	Click(ctx context.Context, ref entity.Ref) (string, error)
	Type(ctx context.Context, ref entity.Ref, text string) (string, error)
	Select(ctx context.Context, ref entity.Ref, value string) (string, error)
	Scroll(ctx context.Context, direction string, amount int) (string, error)
	Snapshot(ctx context.Context) (string, error)
	Close() error
}

type AgentService interface {
	Execute(ctx context.Context, taskDescription string) (*entity.Task, error)
	Stop()
}
