package output

import "context"

// ProgressPort renders verbose run progress for a human operator.
type ProgressPort interface {
	ShowTaskStart(ctx context.Context, index, total int, role, description string)
	ShowIteration(ctx context.Context, iteration, maxIterations int)
	ShowThinking(ctx context.Context, content string)
	ShowToolStart(ctx context.Context, toolName, arguments string)
	ShowToolResult(ctx context.Context, toolName, result string, isError bool)
	ShowTaskResult(ctx context.Context, role, result string)
}
