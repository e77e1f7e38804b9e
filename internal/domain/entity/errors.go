package entity

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyField     = errors.New("required field is empty")
	ErrUnknownPersona = errors.New("persona is not registered")
	ErrDuplicateRole  = errors.New("persona role already registered")
	ErrEmptyPipeline  = errors.New("pipeline has no tasks")
	ErrNoTools        = errors.New("task has no tools")
	ErrMissingInput   = errors.New("missing pipeline input")
)

// ConstructionError reports malformed personas, tasks or pipelines.
// It is always returned before any LLM or tool call is made.
type ConstructionError struct {
	Kind error
	Msg  string
}

func (e *ConstructionError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return "construction: " + e.Kind.Error()
	}
	return fmt.Sprintf("construction: %s: %s", e.Kind.Error(), e.Msg)
}

func (e *ConstructionError) Unwrap() error { return e.Kind }

func constructionf(kind error, format string, args ...any) error {
	return &ConstructionError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// NewConstructionError is used by packages outside entity that validate
// aggregates (registry, pipeline) built from entities.
func NewConstructionError(kind error, format string, args ...any) error {
	return constructionf(kind, format, args...)
}

// ExecutionError wraps a failure raised while the pipeline is running:
// unreachable endpoint, tool failure, malformed model response.
type ExecutionError struct {
	Task string
	Err  error
}

func (e *ExecutionError) Error() string {
	if e == nil {
		return ""
	}
	if e.Task == "" {
		return fmt.Sprintf("execution failed: %v", e.Err)
	}
	return fmt.Sprintf("execution failed at task %q: %v", e.Task, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }
