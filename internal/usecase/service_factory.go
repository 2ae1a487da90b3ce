package usecase

import (
	"agent-textweb/internal/usecase/adapters"
)

type serviceFactory struct {
	deps Params
}

func newServiceFactory(deps Params) *serviceFactory {
	return &serviceFactory{
		deps: deps,
	}
}

func (f *serviceFactory) CreateAgentService() adapters.AgentService {
	return NewAgentService(AgentServiceParams{
		AI:     f.deps.AI,
		Config: f.deps.Config,
		Logger: f.deps.Logger,
	})
}

func (f *serviceFactory) CreateToolService() adapters.ToolService {
	return f.deps.Tools
}
