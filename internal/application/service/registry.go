package service

import (
	"research-crew/internal/application/port/output"
	"research-crew/internal/domain/entity"
)

var _ output.ToolRegistry = (*ToolRegistryImpl)(nil)

type ToolRegistryImpl struct {
	tools map[entity.ToolName]output.ToolPort
	order []entity.ToolName
}

func NewToolRegistry() *ToolRegistryImpl {
	return &ToolRegistryImpl{
		tools: make(map[entity.ToolName]output.ToolPort),
	}
}

// Register adds or replaces a tool. Replacing keeps the original position.
func (r *ToolRegistryImpl) Register(tool output.ToolPort) {
	if _, ok := r.tools[tool.Name()]; !ok {
		r.order = append(r.order, tool.Name())
	}
	r.tools[tool.Name()] = tool
}

func (r *ToolRegistryImpl) Get(name entity.ToolName) (output.ToolPort, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

func (r *ToolRegistryImpl) All() []output.ToolPort {
	result := make([]output.ToolPort, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.tools[name])
	}
	return result
}

func (r *ToolRegistryImpl) Definitions() []entity.ToolDefinition {
	result := make([]entity.ToolDefinition, 0, len(r.order))
	for _, tool := range r.All() {
		result = append(result, entity.ToolDefinition{
			Name:        tool.Name(),
			Description: tool.Description(),
			Parameters:  tool.Parameters(),
		})
	}
	return result
}

// Subset returns a registry restricted to the referenced tools, in
// reference order. Unknown references are reported back.
func (r *ToolRegistryImpl) Subset(refs []entity.ToolReference) (*ToolRegistryImpl, []entity.ToolName) {
	sub := NewToolRegistry()
	var missing []entity.ToolName
	for _, ref := range refs {
		tool, ok := r.tools[ref.Name()]
		if !ok {
			missing = append(missing, ref.Name())
			continue
		}
		sub.Register(tool)
	}
	return sub, missing
}
