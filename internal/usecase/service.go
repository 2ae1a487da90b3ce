package usecase

import (
	"agent-textweb/internal/config"
	"agent-textweb/internal/ports"
	"agent-textweb/internal/toolset"
	"agent-textweb/internal/usecase/adapters"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	Agent adapters.AgentService
	Tools adapters.ToolService
}

type Params struct {
	fx.In

	Logger *zap.Logger
	Config *config.Config
	Tools  *toolset.Toolset
	AI     ports.AIClient
}

func NewUsecase(params Params) *Service {
	factory := newServiceFactory(params)

	return &Service{
		Agent: factory.CreateAgentService(),
		Tools: factory.CreateToolService(),
	}
}
