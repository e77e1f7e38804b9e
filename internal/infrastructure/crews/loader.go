// Package crews holds the crew definitions shipped with the binary.
package crews

import (
	"bytes"
	_ "embed"
	"fmt"

	"research-crew/internal/application/service"
	"research-crew/internal/domain/entity"

	"go.yaml.in/yaml/v3"
)

//go:embed customer_experience.yaml
var CustomerExperience []byte

type definition struct {
	Name   string     `yaml:"name"`
	Inputs []string   `yaml:"inputs"`
	Agents []agentDef `yaml:"agents"`
	Tasks  []taskDef  `yaml:"tasks"`
}

type agentDef struct {
	Role            string `yaml:"role"`
	Goal            string `yaml:"goal"`
	Backstory       string `yaml:"backstory"`
	AllowDelegation bool   `yaml:"allow_delegation"`
}

type taskDef struct {
	Name           string   `yaml:"name"`
	Agent          string   `yaml:"agent"`
	Description    string   `yaml:"description"`
	ExpectedOutput string   `yaml:"expected_output"`
	Tools          []string `yaml:"tools"`
}

// Crew is a parsed definition: a registry and the pipeline built on it.
type Crew struct {
	Name     string
	Inputs   []string
	Registry *service.AgentRegistry
	Pipeline *service.TaskPipeline
}

var knownTools = map[entity.ToolName]bool{
	entity.ToolWebSearch: true,
	entity.ToolWebScrape: true,
}

// Load parses a definition and builds its personas and tasks. Every
// persona gets the same LLM handle.
func Load(data []byte, llm entity.LLMHandle) (*Crew, error) {
	var def definition
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("parse crew definition: %w", err)
	}

	personas := make([]*entity.Persona, 0, len(def.Agents))
	for _, a := range def.Agents {
		p, err := entity.NewPersona(entity.PersonaParams{
			Role:            a.Role,
			Goal:            a.Goal,
			Backstory:       a.Backstory,
			AllowDelegation: a.AllowDelegation,
			LLM:             llm,
		})
		if err != nil {
			return nil, err
		}
		personas = append(personas, p)
	}

	registry, err := service.NewAgentRegistry(personas...)
	if err != nil {
		return nil, err
	}

	tasks := make([]*entity.TaskSpec, 0, len(def.Tasks))
	for _, t := range def.Tasks {
		persona, ok := registry.ByRole(t.Agent)
		if !ok {
			return nil, entity.NewConstructionError(entity.ErrUnknownPersona, "task %q references %q", t.Name, t.Agent)
		}

		refs := make([]entity.ToolReference, 0, len(t.Tools))
		for _, name := range t.Tools {
			if !knownTools[entity.ToolName(name)] {
				return nil, fmt.Errorf("task %q: unknown tool %q", t.Name, name)
			}
			refs = append(refs, entity.NewToolReference(entity.ToolName(name)))
		}

		task, err := entity.NewTaskSpec(entity.TaskParams{
			Name:           t.Name,
			Description:    t.Description,
			ExpectedOutput: t.ExpectedOutput,
			Persona:        persona,
			Tools:          refs,
		})
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	pipeline, err := service.NewTaskPipeline(registry, tasks...)
	if err != nil {
		return nil, err
	}

	return &Crew{
		Name:     def.Name,
		Inputs:   def.Inputs,
		Registry: registry,
		Pipeline: pipeline,
	}, nil
}
