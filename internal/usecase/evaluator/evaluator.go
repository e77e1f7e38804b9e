package evaluator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"research-crew/internal/application/port/output"
	"research-crew/internal/domain/entity"
)

const systemPrompt = `You are a reviewer grading the work of a research crew member.

Compare the actual output with the task and its expected output, then answer in JSON only.

Response format (MUST be valid JSON):
{
  "quality": 0-10,
  "suggestions": ["short, actionable instruction for doing this task better next time"],
  "feedback": "one or two sentences"
}

IMPORTANT:
- 10 means the output fully meets the expected output, 0 means it is unusable
- Suggestions must apply to future runs of the same task, not to this output
- At most 3 suggestions`

// Evaluator scores task outputs so long-term memory can carry lessons
// between runs.
type Evaluator struct {
	llm    output.LLMPort
	logger output.LoggerPort
}

func New(llm output.LLMPort, logger output.LoggerPort) *Evaluator {
	return &Evaluator{
		llm:    llm,
		logger: logger,
	}
}

func (e *Evaluator) Evaluate(ctx context.Context, task *entity.TaskSpec, out entity.TaskOutput) (*entity.TaskEvaluation, error) {
	messages := []entity.Message{
		{Role: entity.RoleSystem, Content: systemPrompt},
		{Role: entity.RoleUser, Content: fmt.Sprintf("Task: %s\n\nExpected output: %s\n\nActual output:\n%s",
			task.Description(), task.ExpectedOutput(), out.Raw)},
	}

	resp, err := e.llm.Chat(ctx, output.ChatRequest{
		Model:       task.Persona().LLM().Model,
		Messages:    messages,
		Temperature: 0.0,
	})
	if err != nil {
		return nil, fmt.Errorf("evaluation llm request failed: %w", err)
	}

	result, err := parseEvaluationResponse(resp.Message.Content)
	if err != nil {
		e.logger.Warn("Failed to parse evaluation response, storing without score", "task", task.Name(), "error", err)
		return &entity.TaskEvaluation{}, nil
	}

	e.logger.Info("Evaluation completed",
		"task", task.Name(),
		"quality", result.Quality,
		"suggestions", len(result.Suggestions),
	)

	return result, nil
}

func parseEvaluationResponse(response string) (*entity.TaskEvaluation, error) {
	response = strings.TrimSpace(response)

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")

	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON found in response")
	}

	var result entity.TaskEvaluation
	if err := json.Unmarshal([]byte(response[start:end+1]), &result); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	if result.Quality < 0 {
		result.Quality = 0
	}
	if result.Quality > 10 {
		result.Quality = 10
	}

	return &result, nil
}
