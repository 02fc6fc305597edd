package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestProcessingResultRoundTripsThroughJSON(t *testing.T) {
	title := "a video"
	result := ProcessingResult{
		TaskID: "task-1",
		VideoMetadata: VideoMetadata{
			URL:      "https://www.youtube.com/watch?v=abc",
			Title:    &title,
			Platform: PlatformYouTube,
		},
		VideoPath:      "/v/abc.mp4",
		AudioPath:      "/a/abc.mp3",
		Transcript:     "hello world",
		Summary:        "hi",
		ProcessingTime: 1.5,
		CreatedAt:      time.Now().UTC(),
	}

	raw, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded ProcessingResult
	require.NoError(t, json.Unmarshal(raw, &decoded))

	require.Equal(t, result.TaskID, decoded.TaskID)
	require.Equal(t, result.VideoMetadata.URL, decoded.VideoMetadata.URL)
	require.Equal(t, *result.VideoMetadata.Title, *decoded.VideoMetadata.Title)
	require.Equal(t, result.Transcript, decoded.Transcript)
	require.Equal(t, result.Summary, decoded.Summary)
	require.WithinDuration(t, result.CreatedAt, decoded.CreatedAt, time.Millisecond)
}

func TestVideoMetadataOptionalFieldsOmittedAreNil(t *testing.T) {
	meta := VideoMetadata{URL: "https://youtu.be/abc"}
	require.Nil(t, meta.Title)
	require.Nil(t, meta.Duration)
	require.Nil(t, meta.UploadDate)
	require.Nil(t, meta.Channel)
}
