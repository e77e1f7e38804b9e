package executor

import (
	"context"
	"fmt"
	"strings"

	"research-crew/internal/adapter/tool"
	"research-crew/internal/application/port/input"
	"research-crew/internal/application/port/output"
	"research-crew/internal/application/service"
	"research-crew/internal/domain/entity"
	"research-crew/internal/infrastructure/prompts"
)

var _ input.TaskExecutor = (*UseCase)(nil)

const (
	defaultMaxIterations     = 15
	defaultMaxObservationLen = 20000
)

type Config struct {
	MaxIterations     int
	MaxObservationLen int
	Temperature       float32
	// FailOnToolError aborts the task on the first tool failure instead of
	// showing the error to the model as an observation.
	FailOnToolError bool
	// Cache is nil when tool caching is disabled.
	Cache output.ToolCache

	SystemPrompt  string
	TaskPrompt    string
	SummaryPrompt string
}

func DefaultConfig() Config {
	return Config{
		MaxIterations:     defaultMaxIterations,
		MaxObservationLen: defaultMaxObservationLen,
		SystemPrompt:      prompts.SystemPrompt,
		TaskPrompt:        prompts.TaskPrompt,
		SummaryPrompt:     prompts.SummaryPrompt,
	}
}

// UseCase executes one task as a tool-calling loop driven by the task's persona.
type UseCase struct {
	llm      output.LLMPort
	tools    *service.ToolRegistryImpl
	logger   output.LoggerPort
	progress output.ProgressPort
	cfg      Config
}

func New(
	llm output.LLMPort,
	tools *service.ToolRegistryImpl,
	logger output.LoggerPort,
	progress output.ProgressPort,
	cfg Config,
) *UseCase {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = defaultMaxIterations
	}
	if cfg.MaxObservationLen <= 0 {
		cfg.MaxObservationLen = defaultMaxObservationLen
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = prompts.SystemPrompt
	}
	if cfg.TaskPrompt == "" {
		cfg.TaskPrompt = prompts.TaskPrompt
	}
	if cfg.SummaryPrompt == "" {
		cfg.SummaryPrompt = prompts.SummaryPrompt
	}

	return &UseCase{
		llm:      llm,
		tools:    tools,
		logger:   logger,
		progress: progress,
		cfg:      cfg,
	}
}

func (uc *UseCase) Execute(ctx context.Context, task *entity.TaskSpec, tc input.TaskContext) (*entity.TaskOutput, error) {
	persona := task.Persona()
	log := uc.logger.WithFields(map[string]any{"task": task.Name(), "role": persona.Role()})

	registry, missing := uc.tools.Subset(task.Tools())
	if len(missing) > 0 {
		return nil, fmt.Errorf("task %q references unregistered tools: %v", task.Name(), missing)
	}

	var coworkerRoles []string
	if persona.AllowDelegation() {
		d := newDelegation(uc, tc.Coworkers, persona)
		coworkerRoles = d.roles()
		if len(coworkerRoles) > 0 {
			registry.Register(tool.NewDelegateWorkTool(coworkerRoles, d, log))
			registry.Register(tool.NewAskCoworkerTool(coworkerRoles, d, log))
		}
	}

	if uc.cfg.Cache != nil {
		tool.WithCache(registry, uc.cfg.Cache)
	}

	log.Info("Task started", "tools", len(registry.All()), "previous", len(tc.Previous), "memories", len(tc.Memories))

	answer, iterations, err := uc.run(ctx, log, persona, task, tc, registry, coworkerRoles)
	if err != nil {
		log.Error("Task failed", "error", err)
		return nil, err
	}

	log.Info("Task completed", "iterations", iterations, "answerLen", len(answer))
	return &entity.TaskOutput{
		TaskName:    task.Name(),
		Role:        persona.Role(),
		Description: task.Description(),
		Raw:         answer,
		Iterations:  iterations,
	}, nil
}

func (uc *UseCase) run(
	ctx context.Context,
	log output.LoggerPort,
	persona *entity.Persona,
	task *entity.TaskSpec,
	tc input.TaskContext,
	registry *service.ToolRegistryImpl,
	coworkerRoles []string,
) (string, int, error) {
	toolDefs := registry.Definitions()

	systemPrompt, err := prompts.GenerateSystemPrompt(uc.cfg.SystemPrompt, persona, toolDefs, coworkerRoles)
	if err != nil {
		return "", 0, fmt.Errorf("failed to generate system prompt: %w", err)
	}
	taskPrompt, err := prompts.GenerateTaskPrompt(uc.cfg.TaskPrompt, task, tc)
	if err != nil {
		return "", 0, fmt.Errorf("failed to generate task prompt: %w", err)
	}

	messages := []entity.Message{
		{Role: entity.RoleSystem, Content: systemPrompt},
		{Role: entity.RoleUser, Content: taskPrompt},
	}
	model := persona.LLM().Model

	for iter := 1; iter <= uc.cfg.MaxIterations; iter++ {
		uc.progress.ShowIteration(ctx, iter, uc.cfg.MaxIterations)
		log.Debug("Iteration", "iteration", iter)

		resp, err := uc.llm.Chat(ctx, output.ChatRequest{
			Model:       model,
			Messages:    messages,
			Tools:       toolDefs,
			Temperature: uc.cfg.Temperature,
		})
		if err != nil {
			return "", iter, fmt.Errorf("llm request failed: %w", err)
		}

		if resp.Message.Content != "" && len(resp.Message.ToolCalls) > 0 {
			uc.progress.ShowThinking(ctx, resp.Message.Content)
		}

		messages = append(messages, resp.Message)

		if len(resp.Message.ToolCalls) == 0 {
			answer := strings.TrimSpace(resp.Message.Content)
			if answer == "" {
				return "", iter, fmt.Errorf("model returned an empty answer")
			}
			return answer, iter, nil
		}

		for _, call := range resp.Message.ToolCalls {
			uc.progress.ShowToolStart(ctx, call.Name, call.Arguments)

			observation, err := uc.executeTool(ctx, log, registry, call)
			if err != nil && uc.cfg.FailOnToolError {
				return "", iter, fmt.Errorf("tool %s failed: %w", call.Name, err)
			}
			uc.progress.ShowToolResult(ctx, call.Name, observation, err != nil)

			messages = append(messages, entity.Message{
				Role:       entity.RoleTool,
				ToolCallID: call.ID,
				Name:       call.Name,
				Content:    observation,
			})
		}
	}

	log.Info("Max iterations reached, requesting final answer")
	messages = append(messages, entity.Message{
		Role:    entity.RoleUser,
		Content: uc.cfg.SummaryPrompt,
	})

	summary, err := uc.llm.Chat(ctx, output.ChatRequest{
		Model:       model,
		Messages:    messages,
		Tools:       nil,
		Temperature: uc.cfg.Temperature,
	})
	if err != nil {
		return "", uc.cfg.MaxIterations, fmt.Errorf("summary iteration failed: %w", err)
	}

	answer := strings.TrimSpace(summary.Message.Content)
	if answer == "" {
		return "", uc.cfg.MaxIterations, fmt.Errorf("model returned an empty answer")
	}
	return answer, uc.cfg.MaxIterations, nil
}

// executeTool always returns the observation shown to the model; the error
// is non-nil when the tool failed.
func (uc *UseCase) executeTool(ctx context.Context, log output.LoggerPort, registry output.ToolRegistry, call entity.ToolCall) (string, error) {
	t, ok := registry.Get(entity.ToolName(call.Name))
	if !ok {
		log.Warn("Unknown tool called", "name", call.Name)
		err := fmt.Errorf("unknown tool '%s'", call.Name)
		return "Error: " + err.Error(), err
	}

	log.Info("Executing tool", "name", call.Name, "args", call.Arguments)

	result, err := t.Execute(ctx, call.Arguments)
	if err != nil {
		log.Error("Tool execution failed", "name", call.Name, "error", err)
		return "Error: " + err.Error(), err
	}

	if len(result) > uc.cfg.MaxObservationLen {
		result = entity.Clip(result, uc.cfg.MaxObservationLen) + "\n... (truncated)"
	}

	log.Debug("Tool completed", "name", call.Name, "resultLen", len(result))
	return result, nil
}
