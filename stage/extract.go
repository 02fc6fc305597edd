package stage

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/clipforge/pipeline/cache"
	pipelineerrors "github.com/clipforge/pipeline/errors"
	"github.com/clipforge/pipeline/keyderiver"
)

// ExtractBackend pulls an audio track out of a video file. The default
// implementation shells out to ffmpeg; tests substitute a stub.
type ExtractBackend interface {
	Extract(ctx context.Context, videoPath, destPath, format string, timeout time.Duration) error
}

// FFmpegExtractBackend invokes the external ffmpeg binary via ffmpeg-go,
// matching video/segment.go's pattern of building a ffmpeg.Input/Output
// pipeline and capturing stderr for diagnostics.
type FFmpegExtractBackend struct{}

func (FFmpegExtractBackend) Extract(ctx context.Context, videoPath, destPath, format string, timeout time.Duration) error {
	_ = ctx
	stderr := bytes.Buffer{}
	err := ffmpeg.Input(videoPath).
		Output(destPath, ffmpeg.KwArgs{
			"vn": "",
			"f":  format,
		}).
		OverWriteOutput().WithErrorOutput(&stderr).Run()
	if err != nil {
		return fmt.Errorf("ffmpeg extract failed (%s): %w", stderr.String(), err)
	}
	return nil
}

// ExtractStage is the EXTRACT pipeline stage.
type ExtractStage struct {
	base
	Backend ExtractBackend
	DestDir string
	Format  string
	Timeout time.Duration
}

// NewExtractStage constructs an ExtractStage. format defaults to "mp3" and
// timeout to 2 minutes when zero-valued.
func NewExtractStage(c *cache.Cache, backend ExtractBackend, destDir, format string, timeout time.Duration) *ExtractStage {
	if format == "" {
		format = "mp3"
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &ExtractStage{base: base{cache: c}, Backend: backend, DestDir: destDir, Format: format, Timeout: timeout}
}

func extractKey(input Input) string {
	videoPath, _ := input["video_path"].(string)
	return keyderiver.Extract(videoPath)
}

func (s *ExtractStage) IsCached(input Input) bool {
	return s.cacheContains(extractKey(input))
}

func (s *ExtractStage) GetCached(input Input) (Output, bool) {
	v, ok := s.cacheGet(extractKey(input))
	if !ok {
		return nil, false
	}
	out, ok := v.(Output)
	return out, ok
}

func (s *ExtractStage) DeleteCached(input Input) {
	s.cacheDelete(extractKey(input))
}

// Execute runs the EXTRACT stage. An ExtractBackend failure - including
// the external tool being absent - surfaces as ExtractionError per spec
// section 4.5.
func (s *ExtractStage) Execute(ctx context.Context, input Input) (Output, error) {
	videoPath, _ := input["video_path"].(string)

	key := extractKey(input)
	if cached, ok := s.cacheGet(key); ok {
		if out, ok := cached.(Output); ok {
			return out, nil
		}
	}

	destPath := filepath.Join(s.DestDir, keyderiver.URLDigest(videoPath)+"."+s.Format)
	if err := s.Backend.Extract(ctx, videoPath, destPath, s.Format, s.Timeout); err != nil {
		return nil, pipelineerrors.NewExtractionError("audio extraction failed", err)
	}

	out := Output{"audio_path": destPath}
	s.cacheSet(key, out)
	return out, nil
}
