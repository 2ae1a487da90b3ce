package usecase

import (
	"agent-textweb/internal/config"
	"agent-textweb/internal/entity"
	"agent-textweb/internal/ports"
	"agent-textweb/pkg/apperr"
	"agent-textweb/pkg/logg"
	"agent-textweb/pkg/tracing"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	agentServiceName     = "AgentService"
	agentTracer          = "usecase.agent"
	maxConsecutiveErrors = 3
	aiRetryDelay         = 2 * time.Second
)

type AgentService struct {
	config     *config.Config
	logger     *zap.Logger
	ai         ports.AIClient
	tracer     trace.Tracer
	out        io.Writer
	retryDelay time.Duration

	mu       sync.Mutex
	stopChan chan struct{}
	running  bool
}

type AgentServiceParams struct {
	fx.In

	Config *config.Config
	Logger *zap.Logger
	AI     ports.AIClient
}

func NewAgentService(params AgentServiceParams) *AgentService {
	return &AgentService{
		config:     params.Config,
		logger:     params.Logger.With(zap.String(logg.Layer, agentServiceName)),
		ai:         params.AI,
		tracer:     otel.Tracer(agentTracer),
		out:        os.Stdout,
		retryDelay: aiRetryDelay,
		stopChan:   make(chan struct{}),
	}
}

// SetOutput redirects the progress report printed while a task runs.
func (s *AgentService) SetOutput(w io.Writer) {
	s.out = w
}

func (s *AgentService) Execute(ctx context.Context, taskDescription string) (resp *entity.Task, err error) {
	const op = "Execute"
	logger := s.logger.With(zap.String(logg.Operation, op))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op,
		attribute.String("task_description", taskDescription))
	defer func() {
		step.End(err)
	}()

	if taskDescription == "" {
		return nil, apperr.InvalidReqError(op, "task_description", errors.New("task description cannot be empty"))
	}

	task := &entity.Task{
		ID:          uuid.New(),
		Description: taskDescription,
		Status:      entity.TaskStatusInProgress,
		CreatedAt:   time.Now(),
		Steps:       make([]entity.Step, 0),
	}

	logger = logger.With(zap.String(logg.TaskID, task.ID.String()))
	step.AddEvent("task created")

	if !s.config.AgentEnabled() {
		task.Status = entity.TaskStatusFailed
		task.Error = "agent is disabled: AI_API_KEY is not set"

		return task, apperr.WrapErrorWithReason(op, apperr.CodeDisabled, "agent_disabled")
	}

	conv := s.ai.StartConversation(taskDescription)
	stopChan := s.start()
	defer s.finish()

	maxIterations := s.config.AIConfig.MaxIterations
	iteration := 0
	consecutiveErrors := 0

	for iteration < maxIterations {
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out, "\nTask cancelled")
			task.Status = entity.TaskStatusFailed
			task.Error = "context cancelled"

			return task, apperr.Wrap(op, apperr.CodeInternal, ctx.Err(), map[string]any{
				apperr.MetaReason: "context_cancelled",
			})
		case <-stopChan:
			fmt.Fprintln(s.out, "\nTask stopped by user")
			task.Status = entity.TaskStatusFailed
			task.Error = "stopped by user"

			return task, apperr.WrapErrorWithReason(op, apperr.CodeCancelledByUser, "stopped_by_user")
		default:
		}

		iteration++
		fmt.Fprintf(s.out, "\nIteration %d:\n", iteration)

		step.AddEvent("sending turn to AI", attribute.Int("iteration", iteration))

		response, err := conv.Next(ctx)
		if err != nil {
			logger.Error("AI request failed", zap.Error(err))
			consecutiveErrors++

			if consecutiveErrors >= maxConsecutiveErrors {
				task.Status = entity.TaskStatusFailed
				task.Error = fmt.Sprintf("too many AI errors: %v", err)

				return task, apperr.Wrap(op, apperr.CodeAIError, err, map[string]any{
					apperr.MetaReason: "too_many_ai_errors",
					apperr.MetaStage:  apperr.StageAI,
				})
			}

			s.wait(ctx, stopChan)

			continue
		}

		consecutiveErrors = 0

		if response.Thought != "" {
			fmt.Fprintln(s.out, response.Thought)
		}

		s.recordToolCalls(task, response.ToolCalls)

		if response.Complete {
			fmt.Fprintf(s.out, "Task completed: %s\n", response.Result)
			task.Status = entity.TaskStatusCompleted
			task.Result = response.Result
			completedAt := time.Now()
			task.CompletedAt = &completedAt
			step.AddEvent("task completed")

			return task, nil
		}
	}

	task.Status = entity.TaskStatusFailed
	task.Error = "max iterations reached"

	return task, apperr.WrapErrorWithReason(op, apperr.CodeMaxIterations, "max_iterations_reached")
}

// Stop interrupts a running task before its next model turn.
func (s *AgentService) Stop() {
	const op = "Stop"
	logger := s.logger.With(zap.String(logg.Operation, op))

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	logger.Info("Stopping agent...")

	s.running = false
	close(s.stopChan)
}

func (s *AgentService) start() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopChan = make(chan struct{})
	s.running = true

	return s.stopChan
}

func (s *AgentService) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.running = false
}

func (s *AgentService) wait(ctx context.Context, stopChan <-chan struct{}) {
	timer := time.NewTimer(s.retryDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-stopChan:
	case <-timer.C:
	}
}
