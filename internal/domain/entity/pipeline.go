package entity

import (
	"regexp"
	"sort"
	"strings"
)

var placeholderRe = regexp.MustCompile(`\{\{|\}\}|\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// PipelineInput is the key/value map substituted into persona and task
// text through {key} placeholders.
type PipelineInput map[string]string

func (in PipelineInput) Clone() PipelineInput {
	out := make(PipelineInput, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (in PipelineInput) Keys() []string {
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Interpolate replaces {key} placeholders. Doubled braces are left alone.
// A placeholder with no matching input is a construction error.
func (in PipelineInput) Interpolate(text string) (string, error) {
	matches := placeholderRe.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, nil
	}

	var sb strings.Builder
	last := 0
	for _, m := range matches {
		sb.WriteString(text[last:m[0]])
		last = m[1]

		if m[2] < 0 {
			sb.WriteString(text[m[0]:m[1]])
			continue
		}

		key := text[m[2]:m[3]]
		val, ok := in[key]
		if !ok {
			return "", constructionf(ErrMissingInput, "placeholder {%s}", key)
		}
		sb.WriteString(val)
	}
	sb.WriteString(text[last:])

	return sb.String(), nil
}

type EmbedderConfig struct {
	Provider string
	Model    string
	BaseURL  string
}

// PipelineConfig is set once when the crew is built.
type PipelineConfig struct {
	MemoryEnabled bool
	CacheEnabled  bool
	Embedder      EmbedderConfig
}

type PipelineStatus string

const (
	PipelineNotStarted PipelineStatus = "not_started"
	PipelineRunning    PipelineStatus = "running"
	PipelineCompleted  PipelineStatus = "completed"
	PipelineFailed     PipelineStatus = "failed"
)

func (s PipelineStatus) Terminal() bool {
	return s == PipelineCompleted || s == PipelineFailed
}
