package console

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func newTestProgress() (*Progress, *bytes.Buffer) {
	color.NoColor = true
	var buf bytes.Buffer
	return NewProgress(&buf), &buf
}

func TestShowTaskStart(t *testing.T) {
	p, buf := newTestProgress()
	p.ShowTaskStart(context.Background(), 2, 4, "Customer Feedback Analysis Agent", "Analyze the feedback")

	assert.Contains(t, buf.String(), "Task 2/4 · Customer Feedback Analysis Agent")
	assert.Contains(t, buf.String(), "Analyze the feedback")
}

func TestShowToolStartFormatsArguments(t *testing.T) {
	p, buf := newTestProgress()
	p.ShowToolStart(context.Background(), "web_search", `{"query":"Disney guest satisfaction"}`)

	assert.Contains(t, buf.String(), "Web search")
	assert.Contains(t, buf.String(), "Query: Disney guest satisfaction")
}

func TestShowToolResult(t *testing.T) {
	p, buf := newTestProgress()
	p.ShowToolResult(context.Background(), "web_scrape", "Title\nbody", false)
	p.ShowToolResult(context.Background(), "web_scrape", "Error: 404", true)

	assert.Contains(t, buf.String(), "✓ Title\n")
	assert.NotContains(t, buf.String(), "body")
	assert.Contains(t, buf.String(), "❌ Error: Error: 404")
}

func TestFormatToolArgumentsUnknown(t *testing.T) {
	assert.Equal(t, "", formatToolArguments("custom", `{"a":1}`))
	assert.Equal(t, "", formatToolArguments("web_search", `broken`))

	icon, name := getToolDisplay("custom")
	assert.Equal(t, "🔧", icon)
	assert.Equal(t, "custom", name)
}
