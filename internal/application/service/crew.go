package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"research-crew/internal/application/port/input"
	"research-crew/internal/application/port/output"
	"research-crew/internal/domain/entity"
)

var ErrAlreadyStarted = errors.New("crew already kicked off")

// Crew ties a validated pipeline to the coordinator that executes it.
type Crew struct {
	pipeline    *TaskPipeline
	config      entity.PipelineConfig
	coordinator input.Coordinator
	logger      output.LoggerPort

	mu     sync.Mutex
	status entity.PipelineStatus
}

func NewCrew(
	pipeline *TaskPipeline,
	config entity.PipelineConfig,
	coordinator input.Coordinator,
	logger output.LoggerPort,
) (*Crew, error) {
	if pipeline == nil {
		return nil, entity.NewConstructionError(entity.ErrEmptyPipeline, "crew has no pipeline")
	}
	if coordinator == nil {
		return nil, errors.New("crew has no coordinator")
	}

	return &Crew{
		pipeline:    pipeline,
		config:      config,
		coordinator: coordinator,
		logger:      logger,
		status:      entity.PipelineNotStarted,
	}, nil
}

func (c *Crew) Status() entity.PipelineStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Crew) Config() entity.PipelineConfig {
	return c.config
}

// Kickoff runs the pipeline once. Placeholders are resolved against inputs
// before the coordinator is called, so a missing input never reaches the LLM.
func (c *Crew) Kickoff(ctx context.Context, inputs entity.PipelineInput) (*entity.CrewOutput, error) {
	c.mu.Lock()
	if c.status != entity.PipelineNotStarted {
		c.mu.Unlock()
		return nil, ErrAlreadyStarted
	}
	c.status = entity.PipelineRunning
	c.mu.Unlock()

	tasks := c.pipeline.Tasks()
	if err := validateInputs(tasks, c.pipeline.Registry(), inputs); err != nil {
		c.finish(entity.PipelineFailed)
		c.logger.Error("Crew inputs rejected", "error", err)
		return nil, err
	}

	c.logger.Info("Crew kickoff",
		"tasks", len(tasks),
		"inputs", inputs.Keys(),
		"memory", c.config.MemoryEnabled,
		"cache", c.config.CacheEnabled,
	)
	start := time.Now()

	out, err := c.coordinator.Run(ctx, tasks, inputs.Clone())
	if err != nil {
		c.finish(entity.PipelineFailed)
		c.logger.Error("Crew failed", "error", err, "duration", time.Since(start))

		var execErr *entity.ExecutionError
		var consErr *entity.ConstructionError
		if errors.As(err, &execErr) || errors.As(err, &consErr) {
			return nil, err
		}
		return nil, &entity.ExecutionError{Err: err}
	}
	if out == nil {
		c.finish(entity.PipelineFailed)
		return nil, &entity.ExecutionError{Err: fmt.Errorf("coordinator returned no output")}
	}

	c.finish(entity.PipelineCompleted)
	c.logger.Info("Crew completed", "duration", time.Since(start), "resultLen", len(out.Raw))
	return out, nil
}

func (c *Crew) finish(status entity.PipelineStatus) {
	c.mu.Lock()
	c.status = status
	c.mu.Unlock()
}

func validateInputs(tasks []*entity.TaskSpec, registry *AgentRegistry, inputs entity.PipelineInput) error {
	for _, p := range registry.List() {
		if _, err := p.Interpolated(inputs); err != nil {
			return err
		}
	}
	for _, t := range tasks {
		if _, err := t.Interpolated(inputs); err != nil {
			return err
		}
	}
	return nil
}
