package entity

import "strings"

// LLMHandle identifies the language-model client a persona talks to.
// Every persona of a crew shares the same handle.
type LLMHandle struct {
	Model   string
	BaseURL string
}

// Persona is an immutable role/goal/backstory record steering one agent.
type Persona struct {
	role            string
	goal            string
	backstory       string
	allowDelegation bool
	llm             LLMHandle
}

type PersonaParams struct {
	Role            string
	Goal            string
	Backstory       string
	AllowDelegation bool
	LLM             LLMHandle
}

func NewPersona(p PersonaParams) (*Persona, error) {
	if strings.TrimSpace(p.Role) == "" {
		return nil, constructionf(ErrEmptyField, "persona role")
	}
	if strings.TrimSpace(p.Goal) == "" {
		return nil, constructionf(ErrEmptyField, "persona %q goal", p.Role)
	}
	if strings.TrimSpace(p.Backstory) == "" {
		return nil, constructionf(ErrEmptyField, "persona %q backstory", p.Role)
	}

	return &Persona{
		role:            p.Role,
		goal:            p.Goal,
		backstory:       p.Backstory,
		allowDelegation: p.AllowDelegation,
		llm:             p.LLM,
	}, nil
}

func (p *Persona) Role() string          { return p.role }
func (p *Persona) Goal() string          { return p.goal }
func (p *Persona) Backstory() string     { return p.backstory }
func (p *Persona) AllowDelegation() bool { return p.allowDelegation }
func (p *Persona) LLM() LLMHandle        { return p.llm }

// Interpolated returns a copy with inputs substituted into the text fields.
func (p *Persona) Interpolated(inputs PipelineInput) (*Persona, error) {
	role, err := inputs.Interpolate(p.role)
	if err != nil {
		return nil, err
	}
	goal, err := inputs.Interpolate(p.goal)
	if err != nil {
		return nil, err
	}
	backstory, err := inputs.Interpolate(p.backstory)
	if err != nil {
		return nil, err
	}

	return &Persona{
		role:            role,
		goal:            goal,
		backstory:       backstory,
		allowDelegation: p.allowDelegation,
		llm:             p.llm,
	}, nil
}
