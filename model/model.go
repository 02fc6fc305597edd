// Package model defines the data types shared across the pipeline core:
// video metadata, queue tasks and their status machine, and the terminal
// processing result.
package model

import "time"

// TaskStatus is a queue task's position in the PENDING -> RUNNING ->
// (COMPLETED | FAILED) state machine.
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
)

// TaskType identifies which pipeline stage a queue task belongs to.
type TaskType string

const (
	TaskTypeDownload   TaskType = "download"
	TaskTypeExtract    TaskType = "extract"
	TaskTypeTranscribe TaskType = "transcribe"
	TaskTypeSummarize  TaskType = "summarize"
)

// Platform is the video source platform detected from a URL.
type Platform string

const (
	PlatformYouTube  Platform = "youtube"
	PlatformBilibili Platform = "bilibili"
	PlatformUnknown  Platform = "unknown"
)

// VideoMetadata is immutable once populated. Url is the only required
// field; everything else is best-effort, filled in by the download stage's
// probe if the back-end supports it.
type VideoMetadata struct {
	URL        string   `json:"url"`
	Title      *string  `json:"title"`
	Duration   *int     `json:"duration"`
	Platform   Platform `json:"platform"`
	UploadDate *string  `json:"upload_date"`
	Channel    *string  `json:"channel"`
}

// Task is a single queue element. InputData carries whatever the stage
// needs, always including parent_task_id under that key.
type Task struct {
	TaskID       string
	TaskType     TaskType
	InputData    map[string]interface{}
	RetryCount   int
	MaxRetries   int
	Status       TaskStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ErrorMessage string
}

// ProcessingResult is the terminal artifact of a completed pipeline run.
type ProcessingResult struct {
	TaskID         string        `json:"task_id"`
	VideoMetadata  VideoMetadata `json:"video_metadata"`
	VideoPath      string        `json:"video_path"`
	AudioPath      string        `json:"audio_path"`
	Transcript     string        `json:"transcript"`
	Summary        string        `json:"summary"`
	ProcessingTime float64       `json:"processing_time"`
	CreatedAt      time.Time     `json:"created_at"`
	Status         string        `json:"status,omitempty"`
}
