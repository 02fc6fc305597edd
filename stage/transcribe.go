package stage

import (
	"context"

	"github.com/clipforge/pipeline/cache"
	pipelineerrors "github.com/clipforge/pipeline/errors"
	"github.com/clipforge/pipeline/keyderiver"
)

// TranscribeBackend turns an audio file into text. Whether that's whisper,
// a hosted STT API or something else is the backend's business.
type TranscribeBackend interface {
	Transcribe(ctx context.Context, audioPath, language string) (transcript string, err error)
}

// TranscribeStage is the TRANSCRIBE pipeline stage.
type TranscribeStage struct {
	base
	Backend TranscribeBackend
}

func NewTranscribeStage(c *cache.Cache, backend TranscribeBackend) *TranscribeStage {
	return &TranscribeStage{base: base{cache: c}, Backend: backend}
}

func transcribeKey(input Input) string {
	audioPath, _ := input["audio_path"].(string)
	return keyderiver.Transcript(audioPath)
}

func (s *TranscribeStage) IsCached(input Input) bool {
	return s.cacheContains(transcribeKey(input))
}

func (s *TranscribeStage) GetCached(input Input) (Output, bool) {
	v, ok := s.cacheGet(transcribeKey(input))
	if !ok {
		return nil, false
	}
	out, ok := v.(Output)
	return out, ok
}

func (s *TranscribeStage) DeleteCached(input Input) {
	s.cacheDelete(transcribeKey(input))
}

// Execute runs the TRANSCRIBE stage. An empty back-end response is a
// TranscriptionError.
func (s *TranscribeStage) Execute(ctx context.Context, input Input) (Output, error) {
	audioPath, _ := input["audio_path"].(string)
	language, _ := input["language"].(string)

	key := transcribeKey(input)
	if cached, ok := s.cacheGet(key); ok {
		if out, ok := cached.(Output); ok {
			return out, nil
		}
	}

	transcript, err := s.Backend.Transcribe(ctx, audioPath, language)
	if err != nil {
		return nil, pipelineerrors.NewTranscriptionError("transcription backend failed", err)
	}
	if transcript == "" {
		return nil, pipelineerrors.NewTranscriptionError("transcription backend returned empty transcript", nil)
	}

	out := Output{"transcript": transcript}
	s.cacheSet(key, out)
	return out, nil
}
