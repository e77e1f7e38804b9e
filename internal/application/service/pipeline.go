package service

import (
	"research-crew/internal/domain/entity"
)

// TaskPipeline is an ordered, validated task list bound to one registry.
type TaskPipeline struct {
	registry *AgentRegistry
	tasks    []*entity.TaskSpec
}

func NewTaskPipeline(registry *AgentRegistry, tasks ...*entity.TaskSpec) (*TaskPipeline, error) {
	if registry == nil {
		return nil, entity.NewConstructionError(entity.ErrUnknownPersona, "pipeline has no agent registry")
	}
	if len(tasks) == 0 {
		return nil, entity.NewConstructionError(entity.ErrEmptyPipeline, "")
	}

	p := &TaskPipeline{
		registry: registry,
		tasks:    make([]*entity.TaskSpec, 0, len(tasks)),
	}
	for i, t := range tasks {
		if t == nil {
			return nil, entity.NewConstructionError(entity.ErrEmptyField, "task #%d is nil", i)
		}
		if !registry.Contains(t.Persona()) {
			return nil, entity.NewConstructionError(entity.ErrUnknownPersona,
				"task %q references persona %q", t.Name(), t.Persona().Role())
		}
		if len(t.Tools()) == 0 {
			return nil, entity.NewConstructionError(entity.ErrNoTools, "task %q", t.Name())
		}
		p.tasks = append(p.tasks, t)
	}

	return p, nil
}

func (p *TaskPipeline) Tasks() []*entity.TaskSpec {
	out := make([]*entity.TaskSpec, len(p.tasks))
	copy(out, p.tasks)
	return out
}

func (p *TaskPipeline) Len() int {
	return len(p.tasks)
}

func (p *TaskPipeline) Registry() *AgentRegistry {
	return p.registry
}
