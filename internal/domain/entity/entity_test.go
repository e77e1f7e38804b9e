package entity

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPersona(t *testing.T) *Persona {
	t.Helper()
	p, err := NewPersona(PersonaParams{
		Role:      "Customer Research Agent",
		Goal:      "Gather feedback about {company_name}",
		Backstory: "Focused on {focus_area}",
		LLM:       LLMHandle{Model: "gemma2:9b", BaseURL: "http://localhost:11434"},
	})
	require.NoError(t, err)
	return p
}

func TestNewPersona_BlankFields(t *testing.T) {
	cases := map[string]PersonaParams{
		"role":      {Role: " ", Goal: "g", Backstory: "b"},
		"goal":      {Role: "r", Goal: "", Backstory: "b"},
		"backstory": {Role: "r", Goal: "g", Backstory: "\n\t"},
	}
	for name, params := range cases {
		t.Run(name, func(t *testing.T) {
			p, err := NewPersona(params)
			assert.Nil(t, p)
			assert.ErrorIs(t, err, ErrEmptyField)

			var ce *ConstructionError
			assert.True(t, errors.As(err, &ce))
		})
	}
}

func TestPersonaGetters(t *testing.T) {
	p := validPersona(t)
	assert.Equal(t, "Customer Research Agent", p.Role())
	assert.False(t, p.AllowDelegation())
	assert.Equal(t, "gemma2:9b", p.LLM().Model)
}

func TestNewTaskSpec(t *testing.T) {
	p := validPersona(t)
	refs := []ToolReference{NewToolReference(ToolWebSearch), NewToolReference(ToolWebScrape)}

	task, err := NewTaskSpec(TaskParams{
		Description:    "Research {company_name}",
		ExpectedOutput: "Findings",
		Persona:        p,
		Tools:          refs,
	})
	require.NoError(t, err)

	assert.Equal(t, p.Role(), task.Name(), "name defaults to the persona role")
	assert.Same(t, p, task.Persona())

	tools := task.Tools()
	tools[0] = NewToolReference(ToolAskCoworker)
	assert.Equal(t, ToolWebSearch, task.Tools()[0].Name(), "tools are copied")
}

func TestNewTaskSpec_Invalid(t *testing.T) {
	p := validPersona(t)
	search := []ToolReference{NewToolReference(ToolWebSearch)}

	cases := []struct {
		name   string
		params TaskParams
		kind   error
	}{
		{"blank description", TaskParams{ExpectedOutput: "x", Persona: p, Tools: search}, ErrEmptyField},
		{"blank expected output", TaskParams{Description: "x", Persona: p, Tools: search}, ErrEmptyField},
		{"no persona", TaskParams{Description: "x", ExpectedOutput: "x", Tools: search}, ErrUnknownPersona},
		{"no tools", TaskParams{Description: "x", ExpectedOutput: "x", Persona: p}, ErrNoTools},
		{"zero tool", TaskParams{Description: "x", ExpectedOutput: "x", Persona: p, Tools: []ToolReference{{}}}, ErrEmptyField},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTaskSpec(tc.params)
			assert.ErrorIs(t, err, tc.kind)
		})
	}
}

func TestInterpolate(t *testing.T) {
	in := PipelineInput{"company_name": "Disney", "focus_area": "experience"}

	out, err := in.Interpolate("Study {company_name} with a focus on {focus_area}.")
	require.NoError(t, err)
	assert.Equal(t, "Study Disney with a focus on experience.", out)

	out, err = in.Interpolate(`Return JSON like {{"score": 1}} for {company_name}`)
	require.NoError(t, err)
	assert.Equal(t, `Return JSON like {{"score": 1}} for Disney`, out)

	out, err = in.Interpolate("no placeholders { here }")
	require.NoError(t, err)
	assert.Equal(t, "no placeholders { here }", out)

	_, err = in.Interpolate("Hello {customer}")
	assert.ErrorIs(t, err, ErrMissingInput)
	assert.ErrorContains(t, err, "{customer}")
}

func TestPipelineInputCloneAndKeys(t *testing.T) {
	in := PipelineInput{"focus_area": "x", "company_name": "Disney"}
	c := in.Clone()
	c["company_name"] = "Pixar"

	assert.Equal(t, "Disney", in["company_name"])
	assert.Equal(t, []string{"company_name", "focus_area"}, in.Keys())
}

func TestTaskSpecInterpolated(t *testing.T) {
	task, err := NewTaskSpec(TaskParams{
		Name:           "research",
		Description:    "Research {company_name}",
		ExpectedOutput: "Notes on {focus_area}",
		Persona:        validPersona(t),
		Tools:          []ToolReference{NewToolReference(ToolWebSearch)},
	})
	require.NoError(t, err)

	rt, err := task.Interpolated(PipelineInput{"company_name": "Disney", "focus_area": "parks"})
	require.NoError(t, err)

	assert.Equal(t, "Research Disney", rt.Description())
	assert.Equal(t, "Notes on parks", rt.ExpectedOutput())
	assert.Equal(t, "Gather feedback about Disney", rt.Persona().Goal())
	assert.Equal(t, "Research {company_name}", task.Description(), "original is unchanged")

	_, err = task.Interpolated(PipelineInput{"company_name": "Disney"})
	assert.ErrorIs(t, err, ErrMissingInput)
}

func TestErrors(t *testing.T) {
	cause := errors.New("connection refused")
	err := error(&ExecutionError{Task: "research", Err: cause})
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, `execution failed at task "research": connection refused`, err.Error())

	ce := NewConstructionError(ErrNoTools, "task %q", "x")
	assert.Equal(t, `construction: task has no tools: task "x"`, ce.Error())
}

func TestTaskOutputSummary(t *testing.T) {
	assert.Equal(t, "first line", TaskOutput{Raw: "  first line\nsecond"}.Summary())

	long := TaskOutput{Raw: "a" + strings.Repeat("é", 150)}.Summary()
	assert.True(t, utf8.ValidString(long))
	assert.Equal(t, "a"+strings.Repeat("é", 99)+"...", long)
}

func TestClip(t *testing.T) {
	assert.Equal(t, "abc", Clip("abc", 10))
	assert.Equal(t, "ab", Clip("abc", 2))
	assert.Equal(t, "", Clip("abc", 0))
	assert.Equal(t, "日", Clip("日本語", 4))
	assert.Equal(t, "", Clip("日本語", 2))
	assert.Equal(t, "aé", Clip("aéé", 4))
}

func TestPipelineStatusTerminal(t *testing.T) {
	assert.False(t, PipelineNotStarted.Terminal())
	assert.False(t, PipelineRunning.Terminal())
	assert.True(t, PipelineCompleted.Terminal())
	assert.True(t, PipelineFailed.Terminal())
}
