// Package app is the process boundary: it turns a crew run into an exit code.
package app

import (
	"context"
	"fmt"
	"io"

	"research-crew/internal/application/port/output"
	"research-crew/internal/domain/entity"
)

// Kicker starts a crew run.
type Kicker interface {
	Kickoff(ctx context.Context, inputs entity.PipelineInput) (*entity.CrewOutput, error)
}

// Run kicks off the crew and prints the final result to stdout. On failure
// nothing is written to stdout, the error is logged and 1 is returned.
func Run(ctx context.Context, k Kicker, inputs entity.PipelineInput, stdout io.Writer, logger output.LoggerPort) int {
	result, err := k.Kickoff(ctx, inputs)
	if err != nil {
		logger.Error("Crew run failed", "error", err)
		return 1
	}

	if _, err := fmt.Fprintln(stdout, result.String()); err != nil {
		logger.Error("Failed to write result", "error", err)
		return 1
	}
	return 0
}
