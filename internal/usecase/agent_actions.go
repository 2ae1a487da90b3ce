package usecase

import (
	"agent-textweb/internal/entity"
	"agent-textweb/pkg/logg"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const outputPreview = 300

func (s *AgentService) recordToolCalls(task *entity.Task, calls []entity.ToolCall) {
	for _, call := range calls {
		taskStep := entity.Step{
			ID:        uuid.New(),
			Tool:      call.Name,
			Input:     call.Input,
			Output:    call.Output,
			Timestamp: time.Now(),
			Success:   call.Err == nil,
		}

		fmt.Fprintf(s.out, "Tool: %s\n", describeToolCall(call))

		if call.Err != nil {
			taskStep.Error = call.Err.Error()
			s.logger.Warn("Tool call failed",
				zap.String(logg.Tool, call.Name),
				zap.String(logg.TaskID, task.ID.String()),
				zap.Error(call.Err))
			fmt.Fprintf(s.out, "  failed: %v\n", call.Err)
		} else {
			fmt.Fprintf(s.out, "  %s\n", preview(call.Output))
		}

		task.Steps = append(task.Steps, taskStep)
	}
}

func describeToolCall(call entity.ToolCall) string {
	input := strings.TrimSpace(call.Input)
	if input == "" || input == "{}" {
		return call.Name
	}

	return fmt.Sprintf("%s %s", call.Name, input)
}

func preview(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\n", " | ")

	if len(s) <= outputPreview {
		return s
	}

	return s[:outputPreview] + "..."
}
