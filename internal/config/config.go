package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	ModeConsole = "console"
	ModeMCP     = "mcp"

	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

type Config struct {
	AppConfig     *AppConfig
	TextWebConfig *TextWebConfig
	AIConfig      *AIConfig
}

type AppConfig struct {
	Mode         string `envconfig:"APP_MODE" default:"console"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
	Debug        bool   `envconfig:"DEBUG" default:"false"`
	TraceEnabled bool   `envconfig:"TRACE_ENABLED" default:"false"`
}

type TextWebConfig struct {
	BaseURL      string        `envconfig:"TEXTWEB_BASE_URL" default:"http://localhost:3000"`
	Timeout      time.Duration `envconfig:"TEXTWEB_TIMEOUT" default:"30s"`
	ShowRefCount bool          `envconfig:"TEXTWEB_SHOW_REF_COUNT" default:"false"`
}

type AIConfig struct {
	Provider      string `envconfig:"AI_PROVIDER" default:"anthropic"`
	APIKey        string `envconfig:"AI_API_KEY"`
	Model         string `envconfig:"AI_MODEL"`
	BaseURL       string `envconfig:"AI_BASE_URL"`
	MaxIterations int    `envconfig:"AI_MAX_ITERATIONS" default:"16"`
}

func GetConfig() (*Config, error) {
	_ = godotenv.Load()

	var conf Config

	if err := envconfig.Process("", &conf); err != nil {
		return nil, fmt.Errorf("read config from env vars: %w", err)
	}

	if err := conf.validate(); err != nil {
		return nil, err
	}

	return &conf, nil
}

func (c *Config) validate() error {
	switch c.AppConfig.Mode {
	case ModeConsole, ModeMCP:
	default:
		return fmt.Errorf("APP_MODE must be %q or %q, got %q", ModeConsole, ModeMCP, c.AppConfig.Mode)
	}

	switch c.AIConfig.Provider {
	case ProviderAnthropic, ProviderOpenAI:
	default:
		return fmt.Errorf("AI_PROVIDER must be %q or %q, got %q", ProviderAnthropic, ProviderOpenAI, c.AIConfig.Provider)
	}

	if c.TextWebConfig.BaseURL == "" {
		return fmt.Errorf("TEXTWEB_BASE_URL cannot be empty")
	}

	if c.TextWebConfig.Timeout <= 0 {
		return fmt.Errorf("TEXTWEB_TIMEOUT must be positive")
	}

	if c.AIConfig.MaxIterations <= 0 {
		return fmt.Errorf("AI_MAX_ITERATIONS must be positive, got %d", c.AIConfig.MaxIterations)
	}

	return nil
}

// AgentEnabled reports whether an LLM can drive the tools.
func (c *Config) AgentEnabled() bool {
	return c.AIConfig != nil && c.AIConfig.APIKey != ""
}
