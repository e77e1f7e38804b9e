package di

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"research-crew/internal/app"
	"research-crew/internal/domain/entity"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOllama answers the OpenAI-compatible chat endpoint. The first request
// asks for a scrape of pageURL, every later one answers directly.
type fakeOllama struct {
	mu       sync.Mutex
	pageURL  string
	requests []openai.ChatCompletionRequest
}

func (f *fakeOllama) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/v1/chat/completions" {
		http.NotFound(w, r)
		return
	}

	var req openai.ChatCompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.requests = append(f.requests, req)
	n := len(f.requests)
	f.mu.Unlock()

	msg := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant}
	finish := openai.FinishReasonStop
	if n == 1 {
		msg.ToolCalls = []openai.ToolCall{{
			ID:   "call_1",
			Type: openai.ToolTypeFunction,
			Function: openai.FunctionCall{
				Name:      "web_scrape",
				Arguments: fmt.Sprintf(`{"url":%q}`, f.pageURL),
			},
		}}
		finish = openai.FinishReasonToolCalls
	} else {
		msg.Content = fmt.Sprintf("report %d", n)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
		ID:      fmt.Sprintf("chatcmpl-%d", n),
		Object:  "chat.completion",
		Model:   req.Model,
		Choices: []openai.ChatCompletionChoice{{Index: 0, Message: msg, FinishReason: finish}},
	})
}

func TestCrewRunsEndToEnd(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<html><head><title>Guest reviews</title></head><body><main><p>Guests praise the parades but dislike the queues.</p></main></body></html>`)
	}))
	defer page.Close()

	llm := &fakeOllama{pageURL: page.URL}
	server := httptest.NewServer(llm)
	defer server.Close()

	cfg := baseConfig()
	cfg.BaseURL = server.URL
	cfg.CacheEnabled = true

	c, err := NewContainer(cfg)
	require.NoError(t, err)
	defer c.Close()

	var stdout bytes.Buffer
	code := app.Run(context.Background(), c.Crew, entity.PipelineInput{
		"company_name": "Disney",
		"focus_area":   "Enhancing overall customer satisfaction and experience",
	}, &stdout, c.Logger)

	require.Equal(t, 0, code)
	assert.Equal(t, "report 5\n", stdout.String())
	assert.Equal(t, entity.PipelineCompleted, c.Crew.Status())

	llm.mu.Lock()
	defer llm.mu.Unlock()
	require.Len(t, llm.requests, 5)

	first := llm.requests[0]
	assert.Equal(t, "gemma2:9b", first.Model)
	assert.Contains(t, first.Messages[1].Content, "customer experiences with Disney")

	scrape := llm.requests[1].Messages
	observation := scrape[len(scrape)-1]
	assert.Equal(t, openai.ChatMessageRoleTool, observation.Role)
	assert.Contains(t, observation.Content, "Guests praise the parades")

	last := llm.requests[4].Messages[1].Content
	for _, prior := range []string{"report 2", "report 3", "report 4"} {
		assert.True(t, strings.Contains(last, prior), "final task sees %q", prior)
	}
}

func TestCrewRunFailsWhenModelIsUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"model not found"}}`, http.StatusNotFound)
	}))
	defer server.Close()

	cfg := baseConfig()
	cfg.BaseURL = server.URL

	c, err := NewContainer(cfg)
	require.NoError(t, err)
	defer c.Close()

	var stdout bytes.Buffer
	code := app.Run(context.Background(), c.Crew, entity.PipelineInput{
		"company_name": "Disney",
		"focus_area":   "Enhancing overall customer satisfaction and experience",
	}, &stdout, c.Logger)

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
	assert.Equal(t, entity.PipelineFailed, c.Crew.Status())
}
