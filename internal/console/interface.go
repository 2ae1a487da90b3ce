package console

import (
	"agent-textweb/internal/config"
	"agent-textweb/internal/entity"
	"agent-textweb/internal/schema"
	"agent-textweb/internal/usecase"
	"agent-textweb/pkg/logg"
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

var errExit = errors.New("exit")

type Interface struct {
	config     *config.Config
	logger     *zap.Logger
	usecase    *usecase.Service
	shutdowner fx.Shutdowner
	in         io.Reader
	out        io.Writer
	ctx        context.Context
	cancel     context.CancelFunc
	stopping   atomic.Bool
}

type Params struct {
	fx.In

	Config     *config.Config
	Logger     *zap.Logger
	Usecase    *usecase.Service
	Shutdowner fx.Shutdowner `optional:"true"`
}

func NewInterface(params Params) *Interface {
	ctx, cancel := context.WithCancel(context.Background())

	i := &Interface{
		config:     params.Config,
		logger:     params.Logger.With(zap.String(logg.Layer, "Console")),
		usecase:    params.Usecase,
		shutdowner: params.Shutdowner,
		in:         os.Stdin,
		out:        os.Stdout,
		ctx:        ctx,
		cancel:     cancel,
	}

	if agent, ok := params.Usecase.Agent.(*usecase.AgentService); ok {
		agent.SetOutput(i.out)
	}

	return i
}

// Start reads commands until exit or end of input, then asks the app to shut down.
func (i *Interface) Start() error {
	i.printBanner()
	i.printHelp()

	scanner := bufio.NewScanner(i.in)

	for !i.stopping.Load() {
		fmt.Fprint(i.out, "\n> ")

		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if err := i.handleCommand(input); err != nil {
			if errors.Is(err, errExit) {
				break
			}

			i.logger.Error("Command error", zap.Error(err))
			fmt.Fprintf(i.out, "Error: %v\n", err)
		}
	}

	if i.shutdowner != nil {
		return i.shutdowner.Shutdown()
	}

	return scanner.Err()
}

func (i *Interface) Stop() error {
	if !i.stopping.CompareAndSwap(false, true) {
		return nil
	}

	i.logger.Info("Stopping console interface...")

	i.cancel()
	i.usecase.Agent.Stop()

	fmt.Fprintln(i.out, "Goodbye!")

	return nil
}

func (i *Interface) handleCommand(input string) error {
	name, rest := splitCommand(input)

	switch name {
	case "help", "h":
		i.printHelp()

		return nil
	case "exit", "quit", "q":
		fmt.Fprintln(i.out, "Shutting down...")

		return errExit
	case "tools":
		i.printTools()

		return nil
	}

	if action, ok := schema.Lookup(name); ok {
		args, err := parseArgs(action.Type, rest)
		if err != nil {
			// "select the cheapest flight" is a task, not a malformed command
			if rest != "" && i.config.AgentEnabled() {
				return i.executeTask(input)
			}

			return err
		}

		return i.runTool(action.Name, args)
	}

	return i.executeTask(input)
}

func (i *Interface) runTool(name string, args map[string]any) error {
	out, err := i.usecase.Tools.Invoke(i.ctx, name, args)
	if err != nil {
		return err
	}

	fmt.Fprintln(i.out, out)

	return nil
}

func (i *Interface) executeTask(taskDescription string) error {
	if !i.config.AgentEnabled() {
		fmt.Fprintln(i.out, "Unknown command. Set AI_API_KEY to run natural language tasks, or type help.")

		return nil
	}

	fmt.Fprintf(i.out, "\nStarting task: %s\n", taskDescription)
	fmt.Fprintln(i.out, strings.Repeat("-", 60))

	task, err := i.usecase.Agent.Execute(i.ctx, taskDescription)
	if err != nil {
		fmt.Fprintf(i.out, "\nTask failed: %v\n", err)

		return nil
	}

	fmt.Fprintln(i.out, "\n"+strings.Repeat("-", 60))

	if task.Status == entity.TaskStatusCompleted {
		fmt.Fprintf(i.out, "Task completed successfully!\n\n")
		fmt.Fprintf(i.out, "Result: %s\n", task.Result)
		fmt.Fprintf(i.out, "Steps taken: %d\n", len(task.Steps))
	} else {
		fmt.Fprintf(i.out, "Task failed: %s\n", task.Error)
	}

	return nil
}

func splitCommand(input string) (string, string) {
	name, rest, _ := strings.Cut(strings.TrimSpace(input), " ")

	return strings.ToLower(name), strings.TrimSpace(rest)
}

// parseArgs turns the text after a tool command into tool arguments. The last
// parameter of type and select takes the rest of the line.
func parseArgs(action entity.ActionType, rest string) (map[string]any, error) {
	args := make(map[string]any)

	switch action {
	case entity.ActionTypeNavigate:
		if rest == "" {
			return nil, fmt.Errorf("usage: navigate <url>")
		}

		args["url"] = rest
	case entity.ActionTypeClick:
		if _, err := entity.ParseRef(rest); err != nil {
			return nil, fmt.Errorf("usage: click <ref>")
		}

		args["ref"] = rest
	case entity.ActionTypeType, entity.ActionTypeSelect:
		param := "text"
		if action == entity.ActionTypeSelect {
			param = "value"
		}

		ref, value, ok := strings.Cut(rest, " ")
		if _, err := entity.ParseRef(ref); !ok || err != nil {
			return nil, fmt.Errorf("usage: %s <ref> <%s>", action, param)
		}

		args["ref"] = ref
		args[param] = value
	case entity.ActionTypeScroll:
		fields := strings.Fields(rest)
		if len(fields) == 0 || len(fields) > 2 {
			return nil, fmt.Errorf("usage: scroll <up|down|top> [amount]")
		}

		args["direction"] = fields[0]
		if len(fields) == 2 {
			args["amount"] = json.Number(fields[1])
		}
	case entity.ActionTypeSnapshot:
	}

	return args, nil
}

func (i *Interface) printBanner() {
	banner := `
+-----------------------------------------------------------+
|                                                           |
|                 TextWeb Browser Agent                     |
|                                                           |
|    Text-rendered pages, ref-addressed browser actions     |
|                                                           |
+-----------------------------------------------------------+
`
	fmt.Fprintln(i.out, banner)
	fmt.Fprintf(i.out, "Session service: %s\n", i.config.TextWebConfig.BaseURL)
}

func (i *Interface) printHelp() {
	help := `
Available commands:
  navigate <url>                 - Open a URL and render it
  click <ref>                    - Click the element with this ref
  type <ref> <text>              - Replace the content of an input
  select <ref> <value>           - Choose a dropdown option
  scroll <up|down|top> [amount]  - Scroll by pages
  snapshot                       - Re-render the current page
  tools                          - List the tools exposed to agents
  help, h                        - Show this help message
  exit, quit, q                  - Exit the application

Anything else is sent to the agent as a natural language task
(requires AI_API_KEY):
  Examples:
    - Open news.ycombinator.com and list the top 3 stories
    - Search the docs for "timeouts" and summarise the first hit
`
	fmt.Fprintln(i.out, help)
}

func (i *Interface) printTools() {
	for _, action := range i.usecase.Tools.Actions() {
		fmt.Fprintf(i.out, "  %-18s %s\n", action.Name, action.Description)
	}
}
