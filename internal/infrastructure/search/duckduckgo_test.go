package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCaller struct {
	got    string
	result string
	err    error
}

func (f *fakeCaller) Call(_ context.Context, input string) (string, error) {
	f.got = input
	return f.result, f.err
}

func TestSearch_TrimsQuery(t *testing.T) {
	f := &fakeCaller{result: "Title: Disney parks\nLink: https://example.com"}
	d := &DuckDuckGo{tool: f}

	out, err := d.Search(context.Background(), "  Disney customer reviews ")
	require.NoError(t, err)
	assert.Equal(t, "Disney customer reviews", f.got)
	assert.Contains(t, out, "Disney parks")
}

func TestSearch_EmptyQuery(t *testing.T) {
	d := &DuckDuckGo{tool: &fakeCaller{}}
	_, err := d.Search(context.Background(), "   ")
	assert.Error(t, err)
}

func TestSearch_PropagatesFailure(t *testing.T) {
	boom := errors.New("connection refused")
	d := &DuckDuckGo{tool: &fakeCaller{err: boom}}

	_, err := d.Search(context.Background(), "disney")
	assert.ErrorIs(t, err, boom)
}

func TestSearch_EmptyResultIsError(t *testing.T) {
	d := &DuckDuckGo{tool: &fakeCaller{result: "  "}}
	_, err := d.Search(context.Background(), "disney")
	assert.ErrorContains(t, err, "no results")
}

func TestNewDuckDuckGo_Defaults(t *testing.T) {
	d, err := NewDuckDuckGo(Config{})
	require.NoError(t, err)
	assert.NotNil(t, d.tool)
}
