package entity

type ToolName string

const (
	ToolWebSearch    ToolName = "web_search"
	ToolWebScrape    ToolName = "web_scrape"
	ToolDelegateWork ToolName = "delegate_work"
	ToolAskCoworker  ToolName = "ask_coworker"
)

func (t ToolName) String() string {
	return string(t)
}

// ToolReference is an opaque handle to a tool capability. Tasks share
// references; the capability itself lives in the tool registry.
type ToolReference struct {
	name ToolName
}

func NewToolReference(name ToolName) ToolReference {
	return ToolReference{name: name}
}

func (r ToolReference) Name() ToolName { return r.name }

func (r ToolReference) IsZero() bool { return r.name == "" }
