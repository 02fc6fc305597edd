package stage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/clipforge/pipeline/cache"
)

type stubSummarizeBackend struct {
	calls   int
	summary string
	err     error
}

func (s *stubSummarizeBackend) Summarize(ctx context.Context, transcript, model, contentType string, maxLength int) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.summary, nil
}

func TestSummarizeStageExecutesBackendOnMiss(t *testing.T) {
	c, err := cache.New(10, 0)
	require.NoError(t, err)
	backend := &stubSummarizeBackend{summary: "hi"}
	s := NewSummarizeStage(c, backend)

	out, err := s.Execute(context.Background(), Input{"transcript": "hello world", "model": "gpt-4"})
	require.NoError(t, err)
	require.Equal(t, "hi", out["summary"])
}

func TestSummarizeStageRejectsEmptyTranscript(t *testing.T) {
	backend := &stubSummarizeBackend{summary: "hi"}
	s := NewSummarizeStage(nil, backend)

	_, err := s.Execute(context.Background(), Input{"transcript": "   ", "model": "gpt-4"})
	require.Error(t, err)
	require.Equal(t, 0, backend.calls)
}

func TestSummarizeStageEmptyBackendResponseIsError(t *testing.T) {
	backend := &stubSummarizeBackend{summary: ""}
	s := NewSummarizeStage(nil, backend)

	_, err := s.Execute(context.Background(), Input{"transcript": "hello", "model": "gpt-4"})
	require.Error(t, err)
}

func TestSummarizeStageCacheKeyedOnTranscriptAndModel(t *testing.T) {
	c, err := cache.New(10, 0)
	require.NoError(t, err)
	backend := &stubSummarizeBackend{summary: "hi"}
	s := NewSummarizeStage(c, backend)

	_, _ = s.Execute(context.Background(), Input{"transcript": "hello", "model": "gpt-4"})
	_, _ = s.Execute(context.Background(), Input{"transcript": "hello", "model": "gpt-3"})
	require.Equal(t, 2, backend.calls, "different model should miss the cache")
}
