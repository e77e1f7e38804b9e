package prompts

import (
	_ "embed"
)

//go:embed system.txt
var SystemPrompt string

//go:embed task.txt
var TaskPrompt string

//go:embed summary.txt
var SummaryPrompt string
