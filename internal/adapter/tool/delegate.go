package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"research-crew/internal/application/port/output"
	"research-crew/internal/domain/entity"
)

var _ output.ToolPort = (*DelegateTool)(nil)

// Delegator runs a request on behalf of another persona of the crew.
type Delegator interface {
	Delegate(ctx context.Context, coworker, request, sharedContext string) (string, error)
}

// DelegateTool lets an agent hand work or a question to a coworker.
type DelegateTool struct {
	name      entity.ToolName
	coworkers []string
	delegator Delegator
	logger    output.LoggerPort
}

func NewDelegateWorkTool(coworkers []string, d Delegator, logger output.LoggerPort) *DelegateTool {
	return &DelegateTool{name: entity.ToolDelegateWork, coworkers: coworkers, delegator: d, logger: logger}
}

func NewAskCoworkerTool(coworkers []string, d Delegator, logger output.LoggerPort) *DelegateTool {
	return &DelegateTool{name: entity.ToolAskCoworker, coworkers: coworkers, delegator: d, logger: logger}
}

func (t *DelegateTool) Name() entity.ToolName { return t.name }

func (t *DelegateTool) Description() string {
	if t.name == entity.ToolAskCoworker {
		return fmt.Sprintf(`Ask a specific question to one of your coworkers and get their answer. Coworkers know nothing about your work, so share everything relevant in 'context'.

Available coworkers: %s`, strings.Join(t.coworkers, ", "))
	}
	return fmt.Sprintf(`Delegate a specific subtask to one of your coworkers. They run it with their own tools and return the result. Coworkers know nothing about your work, so share everything relevant in 'context'.

Available coworkers: %s`, strings.Join(t.coworkers, ", "))
}

func (t *DelegateTool) requestField() string {
	if t.name == entity.ToolAskCoworker {
		return "question"
	}
	return "task"
}

func (t *DelegateTool) Parameters() map[string]interface{} {
	field := t.requestField()
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"coworker": map[string]interface{}{
				"type":        "string",
				"enum":        t.coworkers,
				"description": "Role of the coworker",
			},
			field: map[string]interface{}{
				"type":        "string",
				"description": fmt.Sprintf("The %s for the coworker", field),
			},
			"context": map[string]interface{}{
				"type":        "string",
				"description": "Everything the coworker needs to know",
			},
		},
		"required": []string{"coworker", field},
	}
}

func (t *DelegateTool) Execute(ctx context.Context, arguments string) (string, error) {
	var args map[string]string
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	coworker := strings.TrimSpace(args["coworker"])
	request := strings.TrimSpace(args[t.requestField()])
	if request == "" {
		return "", fmt.Errorf("%s parameter is required", t.requestField())
	}

	matched, ok := t.match(coworker)
	if !ok {
		return "", fmt.Errorf("unknown coworker %q, choose one of: %s", coworker, strings.Join(t.coworkers, ", "))
	}

	t.logger.Info("Delegating to coworker", "tool", t.name, "coworker", matched, "request", request)
	return t.delegator.Delegate(ctx, matched, request, args["context"])
}

// match ignores case.
func (t *DelegateTool) match(coworker string) (string, bool) {
	for _, c := range t.coworkers {
		if strings.EqualFold(c, coworker) {
			return c, true
		}
	}
	return "", false
}
