package stage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/clipforge/pipeline/cache"
	pipelineerrors "github.com/clipforge/pipeline/errors"
	"github.com/clipforge/pipeline/keyderiver"
	"github.com/clipforge/pipeline/model"
)

// DownloadBackend fetches url into destDir and returns the local file
// path. Which site and what client library are the backend's business -
// this is the narrow interface the core consumes.
type DownloadBackend interface {
	Download(ctx context.Context, url, destDir string) (videoPath string, err error)
}

// Prober is an optional capability a DownloadBackend may also implement to
// report best-effort video metadata after a successful download (title,
// duration, channel, upload date). A probe failure is never fatal.
type Prober interface {
	Probe(ctx context.Context, url string) (*model.VideoMetadata, error)
}

// DownloadRetryBackoff bounds retries around the external downloader call:
// constant backoff, capped attempts.
func DownloadRetryBackoff() backoff.BackOff {
	return backoff.WithMaxRetries(backoff.NewConstantBackOff(2*time.Second), 3)
}

// DetectPlatform classifies a URL: youtube.com/youtu.be -> youtube,
// bilibili.com/b23.tv -> bilibili, anything else is a DownloadError.
func DetectPlatform(url string) (model.Platform, error) {
	lower := strings.ToLower(url)
	switch {
	case strings.Contains(lower, "youtube.com"), strings.Contains(lower, "youtu.be"):
		return model.PlatformYouTube, nil
	case strings.Contains(lower, "bilibili.com"), strings.Contains(lower, "b23.tv"):
		return model.PlatformBilibili, nil
	default:
		return "", pipelineerrors.NewDownloadError("unsupported platform for url: "+url, nil)
	}
}

// DownloadStage is the DOWNLOAD pipeline stage.
type DownloadStage struct {
	base
	Backend DownloadBackend
	DestDir string
}

// NewDownloadStage constructs a DownloadStage. c may be nil to disable
// memoization.
func NewDownloadStage(c *cache.Cache, backend DownloadBackend, destDir string) *DownloadStage {
	return &DownloadStage{base: base{cache: c}, Backend: backend, DestDir: destDir}
}

func downloadKey(input Input) string {
	url, _ := input["url"].(string)
	return keyderiver.Download(url)
}

// IsCached reports a memoization hit OR the presence of a file on disk
// whose stem is the MD5 digest of the URL.
func (s *DownloadStage) IsCached(input Input) bool {
	if s.cacheContains(downloadKey(input)) {
		return true
	}
	url, _ := input["url"].(string)
	return s.fileExistsForURL(url)
}

func (s *DownloadStage) fileExistsForURL(url string) bool {
	if url == "" || s.DestDir == "" {
		return false
	}
	digest := keyderiver.URLDigest(url)
	entries, err := os.ReadDir(s.DestDir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		stem := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if stem == digest {
			return true
		}
	}
	return false
}

func (s *DownloadStage) GetCached(input Input) (Output, bool) {
	v, ok := s.cacheGet(downloadKey(input))
	if !ok {
		return nil, false
	}
	out, ok := v.(Output)
	return out, ok
}

func (s *DownloadStage) DeleteCached(input Input) {
	s.cacheDelete(downloadKey(input))
}

// Execute runs the DOWNLOAD stage: validate platform, consult the cache,
// and on miss invoke the backend with bounded retry.
func (s *DownloadStage) Execute(ctx context.Context, input Input) (Output, error) {
	url, _ := input["url"].(string)
	platform, err := DetectPlatform(url)
	if err != nil {
		return nil, err
	}

	key := downloadKey(input)
	if cached, ok := s.cacheGet(key); ok {
		if out, ok := cached.(Output); ok {
			return out, nil
		}
	}

	var videoPath string
	err = backoff.Retry(func() error {
		var retryErr error
		videoPath, retryErr = s.Backend.Download(ctx, url, s.DestDir)
		return retryErr
	}, DownloadRetryBackoff())
	if err != nil {
		return nil, pipelineerrors.NewDownloadError("backend download failed", err)
	}

	metadata := model.VideoMetadata{URL: url, Platform: platform}
	if prober, ok := s.Backend.(Prober); ok {
		if probed, probeErr := prober.Probe(ctx, url); probeErr == nil && probed != nil {
			probed.URL = url
			probed.Platform = platform
			metadata = *probed
		}
	}

	out := Output{"video_path": videoPath, "metadata": metadata}
	s.cacheSet(key, out)
	return out, nil
}
