package stage

import (
	"context"
	"strings"

	"github.com/clipforge/pipeline/cache"
	pipelineerrors "github.com/clipforge/pipeline/errors"
	"github.com/clipforge/pipeline/keyderiver"
)

// SummarizeBackend turns a transcript into a summary using the named
// model. Model selection is the caller's choice, passed straight through.
type SummarizeBackend interface {
	Summarize(ctx context.Context, transcript, model, contentType string, maxLength int) (summary string, err error)
}

// SummarizeStage is the SUMMARIZE pipeline stage.
type SummarizeStage struct {
	base
	Backend SummarizeBackend
}

func NewSummarizeStage(c *cache.Cache, backend SummarizeBackend) *SummarizeStage {
	return &SummarizeStage{base: base{cache: c}, Backend: backend}
}

func summarizeKey(input Input) string {
	transcript, _ := input["transcript"].(string)
	model, _ := input["model"].(string)
	return keyderiver.Summary(transcript, model)
}

func (s *SummarizeStage) IsCached(input Input) bool {
	return s.cacheContains(summarizeKey(input))
}

func (s *SummarizeStage) GetCached(input Input) (Output, bool) {
	v, ok := s.cacheGet(summarizeKey(input))
	if !ok {
		return nil, false
	}
	out, ok := v.(Output)
	return out, ok
}

func (s *SummarizeStage) DeleteCached(input Input) {
	s.cacheDelete(summarizeKey(input))
}

// Execute runs the SUMMARIZE stage. An empty or whitespace-only transcript
// is rejected before the backend is ever called; an empty backend response
// is a SummarizationError.
func (s *SummarizeStage) Execute(ctx context.Context, input Input) (Output, error) {
	transcript, _ := input["transcript"].(string)
	if strings.TrimSpace(transcript) == "" {
		return nil, pipelineerrors.NewSummarizationError("transcript must not be empty", nil)
	}
	model, _ := input["model"].(string)
	contentType, _ := input["content_type"].(string)
	maxLength, _ := input["max_length"].(int)

	key := summarizeKey(input)
	if cached, ok := s.cacheGet(key); ok {
		if out, ok := cached.(Output); ok {
			return out, nil
		}
	}

	summary, err := s.Backend.Summarize(ctx, transcript, model, contentType, maxLength)
	if err != nil {
		return nil, pipelineerrors.NewSummarizationError("summarization backend failed", err)
	}
	if summary == "" {
		return nil, pipelineerrors.NewSummarizationError("summarization backend returned empty summary", nil)
	}

	out := Output{"summary": summary}
	s.cacheSet(key, out)
	return out, nil
}
