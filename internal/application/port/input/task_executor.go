package input

import (
	"context"

	"research-crew/internal/domain/entity"
)

// TaskContext carries what earlier tasks produced into the next one.
type TaskContext struct {
	Inputs   entity.PipelineInput
	Previous []entity.TaskOutput
	Memories []entity.MemoryMatch
	// Coworkers are the other personas of the crew, available for delegation.
	Coworkers []*entity.Persona
}

type TaskExecutor interface {
	Execute(ctx context.Context, task *entity.TaskSpec, tc TaskContext) (*entity.TaskOutput, error)
}
