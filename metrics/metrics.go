// Package metrics exposes prometheus gauges and counters for the pipeline
// core: cache hit/miss, queue depth, worker pool activity and per-pipeline
// outcome counts.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PipelineMetrics is the metrics surface the orchestrator, cache, queue
// and worker pool publish to.
type PipelineMetrics struct {
	Version *prometheus.CounterVec

	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter
	CacheSize      prometheus.Gauge
	CacheEvictions prometheus.Counter

	QueueDepth        prometheus.Gauge
	QueueTasksFailed  prometheus.Counter
	QueueTasksRetried prometheus.Counter

	WorkerPoolActive  prometheus.Gauge
	WorkerPoolPending prometheus.Gauge

	PipelinesStarted   prometheus.Counter
	PipelinesCompleted prometheus.Counter
	PipelinesFailed    prometheus.Counter
	StageDurationSec   *prometheus.HistogramVec
}

// NewMetrics registers and returns the pipeline's prometheus collectors
// against the default registry. Calling it more than once against the same
// registry will panic on duplicate registration, matching promauto's
// normal behavior - callers should construct one PipelineMetrics per
// process.
func NewMetrics() *PipelineMetrics {
	return NewMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewMetricsWithRegisterer is NewMetrics against an explicit registry,
// primarily so tests can use a fresh prometheus.NewRegistry() per case.
func NewMetricsWithRegisterer(reg prometheus.Registerer) *PipelineMetrics {
	factory := promauto.With(reg)
	return &PipelineMetrics{
		Version: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pipeline_version",
			Help: "Current version that's running. Incremented once on app startup.",
		}, []string{"app", "version"}),

		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "pipeline_cache_hits_total",
			Help: "Count of cache hits across all stages.",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "pipeline_cache_misses_total",
			Help: "Count of cache misses across all stages.",
		}),
		CacheSize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pipeline_cache_size",
			Help: "Current number of entries held in the cache.",
		}),
		CacheEvictions: factory.NewCounter(prometheus.CounterOpts{
			Name: "pipeline_cache_evictions_total",
			Help: "Count of LRU evictions.",
		}),

		QueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pipeline_queue_depth",
			Help: "Number of tasks currently buffered in the task queue.",
		}),
		QueueTasksFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "pipeline_queue_tasks_failed_total",
			Help: "Count of tasks that reached terminal FAILED status.",
		}),
		QueueTasksRetried: factory.NewCounter(prometheus.CounterOpts{
			Name: "pipeline_queue_tasks_retried_total",
			Help: "Count of tasks re-enqueued after a failure.",
		}),

		WorkerPoolActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pipeline_worker_pool_active",
			Help: "Number of worker pool jobs currently executing.",
		}),
		WorkerPoolPending: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pipeline_worker_pool_pending",
			Help: "Number of worker pool jobs queued but not yet started.",
		}),

		PipelinesStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "pipeline_runs_started_total",
			Help: "Count of process_video invocations.",
		}),
		PipelinesCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "pipeline_runs_completed_total",
			Help: "Count of pipelines that reached status=completed.",
		}),
		PipelinesFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "pipeline_runs_failed_total",
			Help: "Count of pipelines that reached status=failed.",
		}),
		StageDurationSec: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name: "pipeline_stage_duration_seconds",
			Help: "Stage execution duration in seconds, labeled by stage and outcome.",
		}, []string{"stage", "outcome"}),
	}
}
