// Package config holds the externally supplied knobs: cache sizing, queue
// sizing, worker pool sizing, the directories stage back-ends and the
// aggregator write to, and a couple of fields the core deliberately never
// consults.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var Version string

// Used so that we can generate fixed timestamps in tests.
var Clock TimestampGenerator = RealTimestampGenerator{}

// Default cache capacity (entries) and TTL. A zero TTL means "no expiry".
const (
	DefaultCacheMaxSize = 1000
	DefaultCacheTTL     = 0
)

// Default queue sizing and retry policy.
const (
	DefaultQueueMaxSize   = 100
	DefaultTaskMaxRetries = 3
)

// Default worker pool sizing. Zero means "use runtime.NumCPU()".
const (
	DefaultWorkerPoolSize = 0
	DefaultWorkerTimeout  = 5 * time.Minute
	DefaultDequeueTimeout = 2 * time.Second
)

// Default audio extraction format.
const DefaultAudioFormat = "mp3"

// Default directories. Relative to the process working directory unless
// overridden via environment.
var (
	DefaultVideoDir   = "./downloads"
	DefaultAudioDir   = "./audio"
	DefaultResultsDir = "./results"
)

// Config is the externally-supplied knob set a caller builds up (typically
// via Load) and passes to the orchestrator's constructor.
type Config struct {
	CacheMaxSize int
	CacheTTL     time.Duration

	QueueMaxSize   int
	TaskMaxRetries int

	WorkerPoolSize int
	WorkerTimeout  time.Duration
	DequeueTimeout time.Duration

	VideoDir   string
	AudioDir   string
	ResultsDir string

	AudioFormat string

	// ProcessingTimeout and TaskRetryBackoff are read from the environment
	// and carried on Config for callers that want to build their own
	// deadline/backoff logic on top, but the core (queue, pipeline) never
	// consults them.
	ProcessingTimeout time.Duration
	TaskRetryBackoff  time.Duration
}

// Default returns a Config populated with the package defaults.
func Default() Config {
	return Config{
		CacheMaxSize:   DefaultCacheMaxSize,
		CacheTTL:       DefaultCacheTTL,
		QueueMaxSize:   DefaultQueueMaxSize,
		TaskMaxRetries: DefaultTaskMaxRetries,
		WorkerPoolSize: DefaultWorkerPoolSize,
		WorkerTimeout:  DefaultWorkerTimeout,
		DequeueTimeout: DefaultDequeueTimeout,
		VideoDir:       DefaultVideoDir,
		AudioDir:       DefaultAudioDir,
		ResultsDir:     DefaultResultsDir,
		AudioFormat:    DefaultAudioFormat,
	}
}

// Load starts from Default() and overlays values found in the process
// environment, loading a .env file first the way the original Python
// source's load_dotenv() does. A missing .env file is not an error -
// godotenv.Load returning an error just means defaults/real env vars win.
func Load(envFile string) Config {
	if envFile == "" {
		envFile = ".env"
	}
	_ = godotenv.Load(envFile)

	cfg := Default()
	cfg.CacheMaxSize = envInt("CACHE_MAX_SIZE", cfg.CacheMaxSize)
	cfg.CacheTTL = envDuration("CACHE_TTL_SECONDS", cfg.CacheTTL)
	cfg.QueueMaxSize = envInt("QUEUE_MAX_SIZE", cfg.QueueMaxSize)
	cfg.TaskMaxRetries = envInt("TASK_MAX_RETRIES", cfg.TaskMaxRetries)
	cfg.WorkerPoolSize = envInt("WORKER_POOL_SIZE", cfg.WorkerPoolSize)
	cfg.WorkerTimeout = envDuration("WORKER_TIMEOUT_SECONDS", cfg.WorkerTimeout)
	cfg.DequeueTimeout = envDuration("DEQUEUE_TIMEOUT_SECONDS", cfg.DequeueTimeout)
	cfg.VideoDir = envString("VIDEO_DIR", cfg.VideoDir)
	cfg.AudioDir = envString("AUDIO_DIR", cfg.AudioDir)
	cfg.ResultsDir = envString("RESULTS_DIR", cfg.ResultsDir)
	cfg.AudioFormat = envString("AUDIO_FORMAT", cfg.AudioFormat)
	cfg.ProcessingTimeout = envDuration("PROCESSING_TIMEOUT", cfg.ProcessingTimeout)
	cfg.TaskRetryBackoff = envDuration("TASK_RETRY_BACKOFF", cfg.TaskRetryBackoff)
	return cfg
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return def
}
