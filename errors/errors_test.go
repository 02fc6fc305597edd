package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStageErrorsMatchTheirOwnPredicateOnly(t *testing.T) {
	cause := fmt.Errorf("boom")

	dl := NewDownloadError("unsupported platform", cause)
	require.True(t, IsDownloadError(dl))
	require.False(t, IsExtractionError(dl))
	require.False(t, IsQueueError(dl))

	ex := NewExtractionError("ffmpeg failed", cause)
	require.True(t, IsExtractionError(ex))
	require.False(t, IsDownloadError(ex))

	tr := NewTranscriptionError("empty response", nil)
	require.True(t, IsTranscriptionError(tr))

	sm := NewSummarizationError("empty transcript", nil)
	require.True(t, IsSummarizationError(sm))

	c := NewCacheError("max_size must be positive", nil)
	require.True(t, IsCacheError(c))

	q := NewQueueError("queue is full", nil)
	require.True(t, IsQueueError(q))

	wp := NewThreadPoolError("pool is shut down", nil)
	require.True(t, IsThreadPoolError(wp))
}

func TestAllStageErrorsMatchTheSupertype(t *testing.T) {
	for _, err := range []error{
		NewDownloadError("x", nil),
		NewExtractionError("x", nil),
		NewTranscriptionError("x", nil),
		NewSummarizationError("x", nil),
		NewCacheError("x", nil),
		NewQueueError("x", nil),
		NewThreadPoolError("x", nil),
	} {
		require.True(t, IsVideoProcessingError(err), "%T should be a VideoProcessingError", err)
	}
	require.False(t, IsVideoProcessingError(fmt.Errorf("plain error")))
}

func TestErrorMessageIncludesStageAndCause(t *testing.T) {
	err := NewDownloadError("unsupported platform", fmt.Errorf("vimeo.com"))
	require.Contains(t, err.Error(), "download")
	require.Contains(t, err.Error(), "unsupported platform")
	require.Contains(t, err.Error(), "vimeo.com")
}
