package service

import (
	"research-crew/internal/domain/entity"
)

// AgentRegistry is the fixed, ordered set of personas of one crew.
type AgentRegistry struct {
	personas []*entity.Persona
	byRole   map[string]*entity.Persona
}

func NewAgentRegistry(personas ...*entity.Persona) (*AgentRegistry, error) {
	if len(personas) == 0 {
		return nil, entity.NewConstructionError(entity.ErrEmptyField, "agent registry has no personas")
	}

	r := &AgentRegistry{
		personas: make([]*entity.Persona, 0, len(personas)),
		byRole:   make(map[string]*entity.Persona, len(personas)),
	}
	for i, p := range personas {
		if p == nil {
			return nil, entity.NewConstructionError(entity.ErrEmptyField, "persona #%d is nil", i)
		}
		if _, dup := r.byRole[p.Role()]; dup {
			return nil, entity.NewConstructionError(entity.ErrDuplicateRole, "%q", p.Role())
		}
		r.personas = append(r.personas, p)
		r.byRole[p.Role()] = p
	}

	return r, nil
}

func (r *AgentRegistry) List() []*entity.Persona {
	out := make([]*entity.Persona, len(r.personas))
	copy(out, r.personas)
	return out
}

func (r *AgentRegistry) Len() int {
	return len(r.personas)
}

// Contains reports membership by identity, not by equal field values.
func (r *AgentRegistry) Contains(p *entity.Persona) bool {
	if p == nil {
		return false
	}
	registered, ok := r.byRole[p.Role()]
	return ok && registered == p
}

func (r *AgentRegistry) ByRole(role string) (*entity.Persona, bool) {
	p, ok := r.byRole[role]
	return p, ok
}
