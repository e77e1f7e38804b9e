package tool

import (
	"context"
	"errors"
	"testing"

	"research-crew/internal/application/service"
	"research-crew/internal/domain/entity"
	"research-crew/internal/infrastructure/cache"
	"research-crew/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearch struct {
	queries []string
	err     error
}

func (f *fakeSearch) Search(_ context.Context, q string) (string, error) {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return "", f.err
	}
	return "results for " + q, nil
}

type fakeScraper struct{ urls []string }

func (f *fakeScraper) Scrape(_ context.Context, u string) (string, error) {
	f.urls = append(f.urls, u)
	return "text of " + u, nil
}

type fakeDelegator struct {
	coworker, request, context string
}

func (f *fakeDelegator) Delegate(_ context.Context, coworker, request, ctxText string) (string, error) {
	f.coworker, f.request, f.context = coworker, request, ctxText
	return "done by " + coworker, nil
}

func TestSearchTool(t *testing.T) {
	s := &fakeSearch{}
	tool := NewSearchTool(s, logger.NewNop())

	assert.Equal(t, entity.ToolWebSearch, tool.Name())

	out, err := tool.Execute(context.Background(), `{"query":"Disney reviews"}`)
	require.NoError(t, err)
	assert.Equal(t, "results for Disney reviews", out)

	_, err = tool.Execute(context.Background(), `{"query":""}`)
	assert.Error(t, err)

	_, err = tool.Execute(context.Background(), `not json`)
	assert.ErrorContains(t, err, "invalid arguments")
}

func TestSearchToolPropagatesFailure(t *testing.T) {
	boom := errors.New("offline")
	tool := NewSearchTool(&fakeSearch{err: boom}, logger.NewNop())

	_, err := tool.Execute(context.Background(), `{"query":"x"}`)
	assert.ErrorIs(t, err, boom)
}

func TestScrapeTool(t *testing.T) {
	s := &fakeScraper{}
	tool := NewScrapeTool(s, logger.NewNop())

	out, err := tool.Execute(context.Background(), `{"url":"https://example.com"}`)
	require.NoError(t, err)
	assert.Equal(t, "text of https://example.com", out)

	_, err = tool.Execute(context.Background(), `{}`)
	assert.ErrorContains(t, err, "url parameter is required")
}

func TestDelegateWorkTool(t *testing.T) {
	d := &fakeDelegator{}
	tool := NewDelegateWorkTool([]string{"Customer Research Agent", "Customer Feedback Analysis Agent"}, d, logger.NewNop())

	assert.Equal(t, entity.ToolDelegateWork, tool.Name())
	assert.Contains(t, tool.Description(), "Customer Research Agent")
	assert.Equal(t, []string{"coworker", "task"}, tool.Parameters()["required"])

	out, err := tool.Execute(context.Background(), `{"coworker":"customer research agent","task":"find reviews","context":"Disney parks"}`)
	require.NoError(t, err)
	assert.Equal(t, "done by Customer Research Agent", out)
	assert.Equal(t, "find reviews", d.request)
	assert.Equal(t, "Disney parks", d.context)
}

func TestDelegateToolRejectsUnknownCoworker(t *testing.T) {
	tool := NewAskCoworkerTool([]string{"Analyst"}, &fakeDelegator{}, logger.NewNop())

	_, err := tool.Execute(context.Background(), `{"coworker":"CEO","question":"why?"}`)
	assert.ErrorContains(t, err, "unknown coworker")

	_, err = tool.Execute(context.Background(), `{"coworker":"Analyst"}`)
	assert.ErrorContains(t, err, "question parameter is required")
}

func TestWithCacheWrapsWebToolsOnly(t *testing.T) {
	s := &fakeSearch{}
	registry := service.NewToolRegistry()
	registry.Register(NewSearchTool(s, logger.NewNop()))
	registry.Register(NewDelegateWorkTool([]string{"Analyst"}, &fakeDelegator{}, logger.NewNop()))

	WithCache(registry, cache.NewToolCache())

	search, ok := registry.Get(entity.ToolWebSearch)
	require.True(t, ok)
	_, isCached := search.(*CachedTool)
	assert.True(t, isCached)

	delegate, _ := registry.Get(entity.ToolDelegateWork)
	_, isCached = delegate.(*CachedTool)
	assert.False(t, isCached)

	for i := 0; i < 3; i++ {
		_, err := search.Execute(context.Background(), `{"query":"disney"}`)
		require.NoError(t, err)
	}
	assert.Len(t, s.queries, 1)

	names := make([]entity.ToolName, 0)
	for _, def := range registry.Definitions() {
		names = append(names, def.Name)
	}
	assert.Equal(t, []entity.ToolName{entity.ToolWebSearch, entity.ToolDelegateWork}, names)
}
