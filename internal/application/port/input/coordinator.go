package input

import (
	"context"

	"research-crew/internal/domain/entity"
)

// Coordinator runs an ordered task list and returns the aggregated result.
type Coordinator interface {
	Run(ctx context.Context, tasks []*entity.TaskSpec, inputs entity.PipelineInput) (*entity.CrewOutput, error)
}
