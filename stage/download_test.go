package stage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/clipforge/pipeline/cache"
	"github.com/clipforge/pipeline/model"
)

type stubDownloadBackend struct {
	calls int
	path  string
	err   error
}

func (s *stubDownloadBackend) Download(ctx context.Context, url, destDir string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.path, nil
}

func TestDetectPlatform(t *testing.T) {
	p, err := DetectPlatform("https://www.youtube.com/watch?v=abc")
	require.NoError(t, err)
	require.Equal(t, model.PlatformYouTube, p)

	p, err = DetectPlatform("https://youtu.be/abc")
	require.NoError(t, err)
	require.Equal(t, model.PlatformYouTube, p)

	p, err = DetectPlatform("https://www.bilibili.com/video/abc")
	require.NoError(t, err)
	require.Equal(t, model.PlatformBilibili, p)

	p, err = DetectPlatform("https://b23.tv/abc")
	require.NoError(t, err)
	require.Equal(t, model.PlatformBilibili, p)

	_, err = DetectPlatform("https://example.com/video")
	require.Error(t, err)
}

func TestDownloadStageExecutesBackendOnMiss(t *testing.T) {
	c, err := cache.New(10, 0)
	require.NoError(t, err)
	backend := &stubDownloadBackend{path: "/v/abc.mp4"}
	s := NewDownloadStage(c, backend, t.TempDir())

	out, err := s.Execute(context.Background(), Input{"url": "https://www.youtube.com/watch?v=abc"})
	require.NoError(t, err)
	require.Equal(t, "/v/abc.mp4", out["video_path"])
	require.Equal(t, 1, backend.calls)
}

func TestDownloadStageServesFromCacheOnSecondCall(t *testing.T) {
	c, err := cache.New(10, 0)
	require.NoError(t, err)
	backend := &stubDownloadBackend{path: "/v/abc.mp4"}
	s := NewDownloadStage(c, backend, t.TempDir())

	input := Input{"url": "https://www.youtube.com/watch?v=abc"}
	_, err = s.Execute(context.Background(), input)
	require.NoError(t, err)
	_, err = s.Execute(context.Background(), input)
	require.NoError(t, err)

	require.Equal(t, 1, backend.calls, "second call should be served from cache")
	require.True(t, s.IsCached(input))
}

func TestDownloadStageRejectsUnsupportedPlatform(t *testing.T) {
	backend := &stubDownloadBackend{path: "/v/abc.mp4"}
	s := NewDownloadStage(nil, backend, t.TempDir())

	_, err := s.Execute(context.Background(), Input{"url": "https://example.com/v"})
	require.Error(t, err)
	require.Equal(t, 0, backend.calls)
}

func TestDownloadStageWithNilCacheIsNoop(t *testing.T) {
	backend := &stubDownloadBackend{path: "/v/abc.mp4"}
	s := NewDownloadStage(nil, backend, t.TempDir())
	input := Input{"url": "https://www.youtube.com/watch?v=abc"}

	_, err := s.Execute(context.Background(), input)
	require.NoError(t, err)
	_, err = s.Execute(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, 2, backend.calls, "no cache means every call hits the backend")
	require.False(t, s.IsCached(input))
}
