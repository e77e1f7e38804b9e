package coordinator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"research-crew/internal/application/port/input"
	"research-crew/internal/application/port/output"
	"research-crew/internal/domain/entity"

	"github.com/google/uuid"
)

var _ input.Coordinator = (*UseCase)(nil)

const defaultMemoryLimit = 3

// Evaluator grades a finished task before it is committed to memory.
type Evaluator interface {
	Evaluate(ctx context.Context, task *entity.TaskSpec, out entity.TaskOutput) (*entity.TaskEvaluation, error)
}

// CacheStats reports tool cache usage for the run summary.
type CacheStats interface {
	Stats() (hits, misses int)
}

type Config struct {
	// Memory is nil when memory is disabled.
	Memory   output.MemoryStore
	Embedder output.EmbedderPort
	// Evaluator is optional; without it outputs are stored unscored.
	Evaluator   Evaluator
	MemoryLimit int
	// RunID tags stored memories. A random one is generated when empty.
	RunID string
	// Cache is optional; its counters are logged when the run completes.
	Cache CacheStats
}

// UseCase runs tasks one after another, feeding every finished output
// into the context of the tasks that follow.
type UseCase struct {
	executor input.TaskExecutor
	logger   output.LoggerPort
	progress output.ProgressPort
	cfg      Config
}

func New(executor input.TaskExecutor, logger output.LoggerPort, progress output.ProgressPort, cfg Config) *UseCase {
	if cfg.MemoryLimit <= 0 {
		cfg.MemoryLimit = defaultMemoryLimit
	}
	if cfg.RunID == "" {
		cfg.RunID = uuid.NewString()
	}
	if cfg.Memory != nil && cfg.Embedder == nil {
		cfg.Memory = nil
	}

	return &UseCase{
		executor: executor,
		logger:   logger.WithField("run", cfg.RunID),
		progress: progress,
		cfg:      cfg,
	}
}

func (uc *UseCase) RunID() string {
	return uc.cfg.RunID
}

func (uc *UseCase) Run(ctx context.Context, tasks []*entity.TaskSpec, inputs entity.PipelineInput) (*entity.CrewOutput, error) {
	if len(tasks) == 0 {
		return nil, entity.NewConstructionError(entity.ErrEmptyPipeline, "nothing to run")
	}

	resolved := make([]*entity.TaskSpec, 0, len(tasks))
	for _, t := range tasks {
		if t == nil {
			return nil, entity.NewConstructionError(entity.ErrEmptyField, "nil task")
		}
		rt, err := t.Interpolated(inputs)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, rt)
	}
	coworkers := crewMembers(resolved)

	uc.logger.Info("Run started", "tasks", len(resolved), "memory", uc.cfg.Memory != nil)
	start := time.Now()

	tc := input.TaskContext{
		Inputs:    inputs.Clone(),
		Coworkers: coworkers,
	}
	outputs := make([]entity.TaskOutput, 0, len(resolved))

	for i, task := range resolved {
		if err := ctx.Err(); err != nil {
			return nil, &entity.ExecutionError{Task: task.Name(), Err: err}
		}

		uc.progress.ShowTaskStart(ctx, i+1, len(resolved), task.Persona().Role(), task.Description())

		tc.Previous = outputs
		tc.Memories = uc.recall(ctx, task, len(outputs))

		out, err := uc.executor.Execute(ctx, task, tc)
		if err != nil {
			uc.logger.Error("Task failed", "task", task.Name(), "index", i+1, "error", err)
			var execErr *entity.ExecutionError
			if errors.As(err, &execErr) {
				return nil, err
			}
			return nil, &entity.ExecutionError{Task: task.Name(), Err: err}
		}
		if out == nil {
			return nil, &entity.ExecutionError{Task: task.Name(), Err: fmt.Errorf("executor returned no output")}
		}

		uc.progress.ShowTaskResult(ctx, task.Persona().Role(), out.Raw)
		outputs = append(outputs, *out)

		uc.remember(ctx, task, *out)
	}

	fields := []any{"duration", time.Since(start)}
	if uc.cfg.Cache != nil {
		hits, misses := uc.cfg.Cache.Stats()
		fields = append(fields, "cacheHits", hits, "cacheMisses", misses)
	}
	uc.logger.Info("Run completed", fields...)

	final := make([]entity.TaskOutput, len(outputs))
	copy(final, outputs)
	return &entity.CrewOutput{
		Raw:         outputs[len(outputs)-1].Raw,
		TasksOutput: final,
	}, nil
}

// recall returns memories from earlier runs that resemble the task. Outputs
// of the current run are skipped since they already travel in the context.
func (uc *UseCase) recall(ctx context.Context, task *entity.TaskSpec, stored int) []entity.MemoryMatch {
	if uc.cfg.Memory == nil {
		return nil
	}

	query, err := uc.cfg.Embedder.EmbedQuery(ctx, task.Description())
	if err != nil {
		uc.logger.Warn("Memory recall skipped", "task", task.Name(), "error", err)
		return nil
	}

	matches, err := uc.cfg.Memory.Search(ctx, query, uc.cfg.MemoryLimit+stored)
	if err != nil {
		uc.logger.Warn("Memory search failed", "task", task.Name(), "error", err)
		return nil
	}

	result := make([]entity.MemoryMatch, 0, uc.cfg.MemoryLimit)
	for _, m := range matches {
		// Mismatched embedding dimensions score zero.
		if m.Item.RunID == uc.cfg.RunID || m.Score <= 0 {
			continue
		}
		result = append(result, m)
		if len(result) == uc.cfg.MemoryLimit {
			break
		}
	}

	uc.logger.Debug("Memory recalled", "task", task.Name(), "matches", len(result))
	return result
}

func (uc *UseCase) remember(ctx context.Context, task *entity.TaskSpec, out entity.TaskOutput) {
	if uc.cfg.Memory == nil {
		return
	}

	embeddings, err := uc.cfg.Embedder.EmbedDocuments(ctx, []string{out.Raw})
	if err != nil || len(embeddings) == 0 {
		uc.logger.Warn("Memory store skipped", "task", task.Name(), "error", err)
		return
	}

	item := entity.MemoryItem{
		RunID:     uc.cfg.RunID,
		TaskName:  out.TaskName,
		Role:      out.Role,
		Content:   out.Summary(),
		Embedding: embeddings[0],
		CreatedAt: time.Now(),
	}

	if uc.cfg.Evaluator != nil {
		eval, err := uc.cfg.Evaluator.Evaluate(ctx, task, out)
		if err != nil {
			uc.logger.Warn("Evaluation failed", "task", task.Name(), "error", err)
		} else {
			item.Quality = eval.Quality
			item.Suggestions = eval.Suggestions
		}
	}

	if err := uc.cfg.Memory.Save(ctx, item); err != nil {
		uc.logger.Warn("Memory save failed", "task", task.Name(), "error", err)
	}
}

// crewMembers lists each persona once, in task order.
func crewMembers(tasks []*entity.TaskSpec) []*entity.Persona {
	seen := make(map[string]bool, len(tasks))
	members := make([]*entity.Persona, 0, len(tasks))
	for _, t := range tasks {
		p := t.Persona()
		if seen[p.Role()] {
			continue
		}
		seen[p.Role()] = true
		members = append(members, p)
	}
	return members
}
