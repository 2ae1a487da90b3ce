package bootstrap

import (
	"agent-textweb/internal/ai"
	"agent-textweb/internal/browser"
	"agent-textweb/internal/config"
	"agent-textweb/internal/console"
	"agent-textweb/internal/ports"
	"agent-textweb/internal/toolset"
	"agent-textweb/internal/usecase"
	"time"

	"go.uber.org/fx"
)

func NewApp() *fx.App {
	return fx.New(
		fx.Provide(
			config.GetConfig,
			newLogger,
			newTraceProvider,

			fx.Annotate(browser.NewClient, fx.As(new(ports.SessionClient))),
			toolset.New,
			ai.NewClient,

			usecase.NewUsecase,

			console.NewInterface,
			newMCPServer,
		),

		fx.Invoke(
			run,
		),

		fx.StartTimeout(10*time.Second),
	)
}
