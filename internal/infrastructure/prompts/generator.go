package prompts

import (
	"bytes"
	"strings"
	"text/template"

	"research-crew/internal/application/port/input"
	"research-crew/internal/domain/entity"
)

var funcs = template.FuncMap{"join": strings.Join}

type SystemPromptData struct {
	Role      string
	Goal      string
	Backstory string
	Tools     []string
	Coworkers []string
}

type TaskPromptData struct {
	Description    string
	ExpectedOutput string
	Previous       []entity.TaskOutput
	Memories       []entity.MemoryMatch
}

func GenerateSystemPrompt(baseTemplate string, persona *entity.Persona, tools []entity.ToolDefinition, coworkers []string) (string, error) {
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		names = append(names, t.Name.String())
	}

	return render("system", baseTemplate, SystemPromptData{
		Role:      persona.Role(),
		Goal:      persona.Goal(),
		Backstory: persona.Backstory(),
		Tools:     names,
		Coworkers: coworkers,
	})
}

func GenerateTaskPrompt(baseTemplate string, task *entity.TaskSpec, tc input.TaskContext) (string, error) {
	return render("task", baseTemplate, TaskPromptData{
		Description:    task.Description(),
		ExpectedOutput: task.ExpectedOutput(),
		Previous:       tc.Previous,
		Memories:       tc.Memories,
	})
}

func render(name, baseTemplate string, data any) (string, error) {
	tmpl, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(baseTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
