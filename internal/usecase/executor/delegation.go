package executor

import (
	"context"
	"fmt"
	"strings"

	"research-crew/internal/adapter/tool"
	"research-crew/internal/application/port/input"
	"research-crew/internal/domain/entity"
)

var _ tool.Delegator = (*delegation)(nil)

// delegation runs a coworker on a one-off request. The coworker gets the
// crew's web tools but cannot delegate further.
type delegation struct {
	uc        *UseCase
	from      *entity.Persona
	coworkers []*entity.Persona
}

func newDelegation(uc *UseCase, coworkers []*entity.Persona, from *entity.Persona) *delegation {
	others := make([]*entity.Persona, 0, len(coworkers))
	for _, p := range coworkers {
		if p == nil || p.Role() == from.Role() {
			continue
		}
		others = append(others, p)
	}
	return &delegation{uc: uc, from: from, coworkers: others}
}

func (d *delegation) roles() []string {
	roles := make([]string, 0, len(d.coworkers))
	for _, p := range d.coworkers {
		roles = append(roles, p.Role())
	}
	return roles
}

func (d *delegation) Delegate(ctx context.Context, coworker, request, sharedContext string) (string, error) {
	var target *entity.Persona
	for _, p := range d.coworkers {
		if p.Role() == coworker {
			target = p
			break
		}
	}
	if target == nil {
		return "", fmt.Errorf("unknown coworker %q", coworker)
	}

	description := request
	if strings.TrimSpace(sharedContext) != "" {
		description += "\n\nContext shared by " + d.from.Role() + ":\n" + sharedContext
	}

	var refs []entity.ToolReference
	for _, t := range d.uc.tools.All() {
		if t.Name() == entity.ToolDelegateWork || t.Name() == entity.ToolAskCoworker {
			continue
		}
		refs = append(refs, entity.NewToolReference(t.Name()))
	}

	task, err := entity.NewTaskSpec(entity.TaskParams{
		Name:           "delegated to " + target.Role(),
		Description:    description,
		ExpectedOutput: "Your best answer to your coworker asking you this, accounting for the context shared.",
		Persona:        target,
		Tools:          refs,
	})
	if err != nil {
		return "", err
	}

	registry, _ := d.uc.tools.Subset(refs)
	if d.uc.cfg.Cache != nil {
		tool.WithCache(registry, d.uc.cfg.Cache)
	}

	log := d.uc.logger.WithFields(map[string]any{"task": task.Name(), "role": target.Role(), "delegatedBy": d.from.Role()})
	answer, _, err := d.uc.run(ctx, log, target, task, input.TaskContext{}, registry, nil)
	if err != nil {
		return "", fmt.Errorf("coworker %s failed: %w", target.Role(), err)
	}
	return answer, nil
}
