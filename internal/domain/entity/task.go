package entity

import "strings"

// TaskSpec is a unit of work bound to exactly one persona.
type TaskSpec struct {
	name           string
	description    string
	expectedOutput string
	persona        *Persona
	tools          []ToolReference
}

type TaskParams struct {
	Name           string
	Description    string
	ExpectedOutput string
	Persona        *Persona
	Tools          []ToolReference
}

func NewTaskSpec(p TaskParams) (*TaskSpec, error) {
	if strings.TrimSpace(p.Description) == "" {
		return nil, constructionf(ErrEmptyField, "task %q description", p.Name)
	}
	if strings.TrimSpace(p.ExpectedOutput) == "" {
		return nil, constructionf(ErrEmptyField, "task %q expected output", p.Name)
	}
	if p.Persona == nil {
		return nil, constructionf(ErrUnknownPersona, "task %q has no persona", p.Name)
	}
	if len(p.Tools) == 0 {
		return nil, constructionf(ErrNoTools, "task %q", p.Name)
	}
	for i, ref := range p.Tools {
		if ref.IsZero() {
			return nil, constructionf(ErrEmptyField, "task %q tool #%d", p.Name, i)
		}
	}

	name := p.Name
	if name == "" {
		name = p.Persona.Role()
	}

	tools := make([]ToolReference, len(p.Tools))
	copy(tools, p.Tools)

	return &TaskSpec{
		name:           name,
		description:    p.Description,
		expectedOutput: p.ExpectedOutput,
		persona:        p.Persona,
		tools:          tools,
	}, nil
}

func (t *TaskSpec) Name() string           { return t.name }
func (t *TaskSpec) Description() string    { return t.description }
func (t *TaskSpec) ExpectedOutput() string { return t.expectedOutput }
func (t *TaskSpec) Persona() *Persona      { return t.persona }

func (t *TaskSpec) Tools() []ToolReference {
	out := make([]ToolReference, len(t.tools))
	copy(out, t.tools)
	return out
}

// Interpolated substitutes inputs into the task text and its persona.
func (t *TaskSpec) Interpolated(inputs PipelineInput) (*TaskSpec, error) {
	persona, err := t.persona.Interpolated(inputs)
	if err != nil {
		return nil, err
	}
	description, err := inputs.Interpolate(t.description)
	if err != nil {
		return nil, err
	}
	expected, err := inputs.Interpolate(t.expectedOutput)
	if err != nil {
		return nil, err
	}

	return &TaskSpec{
		name:           t.name,
		description:    description,
		expectedOutput: expected,
		persona:        persona,
		tools:          t.Tools(),
	}, nil
}

type TaskOutput struct {
	TaskName    string
	Role        string
	Description string
	Raw         string
	Iterations  int
}

// Summary is the first line (or the first 200 characters) of the output,
// used when feeding earlier results to later tasks.
func (o TaskOutput) Summary() string {
	s := strings.TrimSpace(o.Raw)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 200 {
		s = Clip(s, 200) + "..."
	}
	return s
}

type CrewOutput struct {
	Raw         string
	TasksOutput []TaskOutput
}

func (o *CrewOutput) String() string {
	if o == nil {
		return ""
	}
	return o.Raw
}
