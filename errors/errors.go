// Package errors defines the stage-error taxonomy used across the pipeline
// core. Every concrete type wraps an underlying cause and embeds
// VideoProcessingError by value. Callers match a concrete type with
// errors.As or its Is* predicate; errors.As against VideoProcessingError
// itself does not match a concrete type, so IsVideoProcessingError is the
// way to match any of them.
package errors

import (
	stderrors "errors"
	"fmt"
)

// VideoProcessingError is the supertype every stage-specific error wraps.
// Code that only cares "did something in the pipeline fail" can call
// IsVideoProcessingError instead of enumerating every concrete type.
type VideoProcessingError struct {
	Stage   string
	Message string
	Cause   error
}

func (e VideoProcessingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Message)
}

func (e VideoProcessingError) Unwrap() error {
	return e.Cause
}

// DownloadError is raised by the download stage: unsupported platform,
// back-end failure, or exhausted retries.
type DownloadError struct{ VideoProcessingError }

func NewDownloadError(message string, cause error) error {
	return DownloadError{VideoProcessingError{Stage: "download", Message: message, Cause: cause}}
}

// IsDownloadError reports whether err (or anything it wraps) is a DownloadError.
func IsDownloadError(err error) bool {
	return stderrors.As(err, &DownloadError{})
}

// ExtractionError is raised by the audio-extraction stage.
type ExtractionError struct{ VideoProcessingError }

func NewExtractionError(message string, cause error) error {
	return ExtractionError{VideoProcessingError{Stage: "extract", Message: message, Cause: cause}}
}

func IsExtractionError(err error) bool {
	return stderrors.As(err, &ExtractionError{})
}

// TranscriptionError is raised by the transcription stage.
type TranscriptionError struct{ VideoProcessingError }

func NewTranscriptionError(message string, cause error) error {
	return TranscriptionError{VideoProcessingError{Stage: "transcribe", Message: message, Cause: cause}}
}

func IsTranscriptionError(err error) bool {
	return stderrors.As(err, &TranscriptionError{})
}

// SummarizationError is raised by the summarization stage.
type SummarizationError struct{ VideoProcessingError }

func NewSummarizationError(message string, cause error) error {
	return SummarizationError{VideoProcessingError{Stage: "summarize", Message: message, Cause: cause}}
}

func IsSummarizationError(err error) bool {
	return stderrors.As(err, &SummarizationError{})
}

// CacheError is raised by the cache on invalid configuration (non-positive
// capacity) or an internal fault.
type CacheError struct{ VideoProcessingError }

func NewCacheError(message string, cause error) error {
	return CacheError{VideoProcessingError{Stage: "cache", Message: message, Cause: cause}}
}

func IsCacheError(err error) bool {
	return stderrors.As(err, &CacheError{})
}

// QueueError is raised by the task queue: invalid configuration, or a full
// queue rejecting an enqueue.
type QueueError struct{ VideoProcessingError }

func NewQueueError(message string, cause error) error {
	return QueueError{VideoProcessingError{Stage: "queue", Message: message, Cause: cause}}
}

func IsQueueError(err error) bool {
	return stderrors.As(err, &QueueError{})
}

// ThreadPoolError is raised by the worker pool: invalid configuration, or a
// submit attempted after shutdown.
type ThreadPoolError struct{ VideoProcessingError }

func NewThreadPoolError(message string, cause error) error {
	return ThreadPoolError{VideoProcessingError{Stage: "workerpool", Message: message, Cause: cause}}
}

func IsThreadPoolError(err error) bool {
	return stderrors.As(err, &ThreadPoolError{})
}

// IsVideoProcessingError reports whether err (or anything it wraps) is any
// one of this package's stage errors.
func IsVideoProcessingError(err error) bool {
	return stderrors.As(err, &VideoProcessingError{}) ||
		IsDownloadError(err) || IsExtractionError(err) || IsTranscriptionError(err) ||
		IsSummarizationError(err) || IsCacheError(err) || IsQueueError(err) || IsThreadPoolError(err)
}
