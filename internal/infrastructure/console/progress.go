package console

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"research-crew/internal/application/port/output"

	"github.com/fatih/color"
)

var (
	_ output.ProgressPort = (*Progress)(nil)
	_ output.ProgressPort = Nop{}
)

// Progress prints a verbose, colored trace of the crew run.
type Progress struct {
	w io.Writer
}

func NewProgress(w io.Writer) *Progress {
	return &Progress{w: w}
}

func (p *Progress) ShowTaskStart(ctx context.Context, index, total int, role, description string) {
	header := color.New(color.FgMagenta, color.Bold)
	header.Fprintf(p.w, "\n━━━ Task %d/%d · %s ━━━\n", index, total, role)

	dim := color.New(color.Faint)
	dim.Fprintln(p.w, truncate(description, 300))
}

func (p *Progress) ShowIteration(ctx context.Context, iteration, maxIterations int) {
	cyan := color.New(color.FgCyan)
	cyan.Fprintf(p.w, "\n── Iteration %d/%d\n", iteration, maxIterations)
}

func (p *Progress) ShowThinking(ctx context.Context, content string) {
	if content == "" {
		return
	}

	blue := color.New(color.FgBlue)
	blue.Fprint(p.w, "💭 Thought: ")

	dim := color.New(color.Faint)
	dim.Fprintln(p.w, truncate(content, 500))
}

func (p *Progress) ShowToolStart(ctx context.Context, toolName, arguments string) {
	icon, name := getToolDisplay(toolName)

	yellow := color.New(color.FgYellow, color.Bold)
	yellow.Fprintf(p.w, "%s %s\n", icon, name)

	if summary := formatToolArguments(toolName, arguments); summary != "" {
		dim := color.New(color.Faint)
		dim.Fprintf(p.w, "   %s\n", summary)
	}
}

func (p *Progress) ShowToolResult(ctx context.Context, toolName, result string, isError bool) {
	if isError {
		red := color.New(color.FgRed)
		red.Fprint(p.w, "❌ Error: ")

		dim := color.New(color.Faint)
		dim.Fprintln(p.w, truncate(result, 300))
		return
	}

	green := color.New(color.FgGreen)
	green.Fprintf(p.w, "✓ %s\n", truncate(firstLine(result), 120))
}

func (p *Progress) ShowTaskResult(ctx context.Context, role, result string) {
	green := color.New(color.FgGreen, color.Bold)
	green.Fprintf(p.w, "\n✔ %s finished\n", role)

	dim := color.New(color.Faint)
	dim.Fprintln(p.w, truncate(result, 400))
}

// Nop discards progress, used when verbose output is off.
type Nop struct{}

func (Nop) ShowTaskStart(context.Context, int, int, string, string) {}
func (Nop) ShowIteration(context.Context, int, int)                 {}
func (Nop) ShowThinking(context.Context, string)                    {}
func (Nop) ShowToolStart(context.Context, string, string)           {}
func (Nop) ShowToolResult(context.Context, string, string, bool)    {}
func (Nop) ShowTaskResult(context.Context, string, string)          {}

func getToolDisplay(toolName string) (string, string) {
	displays := map[string][2]string{
		"web_search":    {"🔎", "Web search"},
		"web_scrape":    {"🌐", "Read page"},
		"delegate_work": {"🤝", "Delegate work"},
		"ask_coworker":  {"❓", "Ask coworker"},
	}

	if display, ok := displays[toolName]; ok {
		return display[0], display[1]
	}
	return "🔧", toolName
}

func formatToolArguments(toolName, arguments string) string {
	var args map[string]interface{}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return ""
	}

	switch toolName {
	case "web_search":
		if q, ok := args["query"].(string); ok {
			return fmt.Sprintf("Query: %s", truncate(q, 80))
		}

	case "web_scrape":
		if u, ok := args["url"].(string); ok {
			return fmt.Sprintf("URL: %s", u)
		}

	case "delegate_work":
		coworker, _ := args["coworker"].(string)
		task, _ := args["task"].(string)
		return fmt.Sprintf("To: %s | Task: %s", coworker, truncate(task, 60))

	case "ask_coworker":
		coworker, _ := args["coworker"].(string)
		question, _ := args["question"].(string)
		return fmt.Sprintf("To: %s | Question: %s", coworker, truncate(question, 60))
	}

	return ""
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
