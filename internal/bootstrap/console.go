package bootstrap

import (
	"agent-textweb/internal/adapters"
	"agent-textweb/internal/config"
	"agent-textweb/internal/console"
	"agent-textweb/internal/toolset"
	"context"

	"github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	serverName    = "textweb"
	serverVersion = "0.1.0"
)

func newMCPServer(tools *toolset.Toolset) *server.MCPServer {
	return adapters.NewMCPServer(tools, serverName, serverVersion)
}

type runParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Config     *config.Config
	Logger     *zap.Logger
	Console    *console.Interface
	MCP        *server.MCPServer
	Tools      *toolset.Toolset
	// requested so the global tracer provider is installed before any span starts
	Tracer *trace.TracerProvider
}

func run(p runParams) {
	logger := p.Logger

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			logger.Info("Starting textweb agent",
				zap.String("mode", p.Config.AppConfig.Mode),
				zap.String("base_url", p.Config.TextWebConfig.BaseURL),
				zap.Bool("agent_enabled", p.Config.AgentEnabled()))

			if p.Config.AppConfig.Mode == config.ModeMCP {
				go serveMCP(p)

				return nil
			}

			go func() {
				if err := p.Console.Start(); err != nil {
					logger.Error("Console interface error", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(context.Context) error {
			logger.Info("Shutting down textweb agent...")

			if p.Config.AppConfig.Mode == config.ModeConsole {
				if err := p.Console.Stop(); err != nil {
					logger.Error("Failed to stop console", zap.Error(err))
				}
			}

			if err := p.Tools.Close(); err != nil {
				logger.Error("Failed to close session client", zap.Error(err))
			}

			return nil
		},
	})
}

// serveMCP serves the tools on stdin and stdout until the client hangs up.
func serveMCP(p runParams) {
	p.Logger.Info("Serving MCP over stdio")

	if err := server.ServeStdio(p.MCP); err != nil {
		p.Logger.Error("MCP server error", zap.Error(err))
	}

	if err := p.Shutdowner.Shutdown(); err != nil {
		p.Logger.Error("Failed to shut down", zap.Error(err))
	}
}
