// Package pipeline implements the Orchestrator: the component that
// sequences the four stages, owns the per-pipeline result and metadata
// tables, and exposes both a synchronous and a queue-driven execution
// mode. It is the root of the component graph - every other package
// (cache, queue, workerpool, stage, aggregator) is a leaf the
// orchestrator wires together.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"

	"github.com/clipforge/pipeline/aggregator"
	"github.com/clipforge/pipeline/cache"
	"github.com/clipforge/pipeline/config"
	pipelineerrors "github.com/clipforge/pipeline/errors"
	"github.com/clipforge/pipeline/log"
	"github.com/clipforge/pipeline/metrics"
	"github.com/clipforge/pipeline/model"
	"github.com/clipforge/pipeline/queue"
	"github.com/clipforge/pipeline/stage"
	"github.com/clipforge/pipeline/workerpool"
)

// Status values for PipelineMetadata.Status.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// PipelineMetadata is the mutable per-pipeline status record: timing,
// status, and the queue-task id issued for each stage when running in
// queue mode.
type PipelineMetadata struct {
	VideoURL     string
	StartTime    time.Time
	EndTime      time.Time
	Status       string
	Error        string
	StageTaskIDs map[string]string
}

// Stages bundles the four concrete stage workers the orchestrator drives,
// in fixed order: download -> extract -> transcribe -> summarize.
type Stages struct {
	Download   *stage.DownloadStage
	Extract    *stage.ExtractStage
	Transcribe *stage.TranscribeStage
	Summarize  *stage.SummarizeStage
}

// Orchestrator coordinates the four stages across both execution modes.
// The results and metadata maps are mutated from queue workers, batch
// jobs and the caller's goroutine alike, so both live behind one mutex.
type Orchestrator struct {
	mu sync.Mutex

	cache      *cache.Cache
	queue      *queue.TaskQueue
	pool       *workerpool.Pool
	stages     Stages
	aggregator *aggregator.ResultAggregator
	metrics    *metrics.PipelineMetrics

	results  map[string]*model.ProcessingResult
	metadata map[string]*PipelineMetadata

	dequeueTimeout time.Duration

	// lastCache*/lastQueueFailed remember the previous Cache.Stats/Queue.GetStats
	// snapshot so syncMetrics can forward their cumulative counts to prometheus
	// as Add(delta) rather than re-adding the running total on every poll.
	lastCacheHits      int
	lastCacheMisses    int
	lastCacheEvictions int
	lastQueueFailed    int
}

// New constructs an Orchestrator. metrics may be nil to disable
// instrumentation entirely.
func New(c *cache.Cache, q *queue.TaskQueue, pool *workerpool.Pool, stages Stages, agg *aggregator.ResultAggregator, m *metrics.PipelineMetrics) *Orchestrator {
	return &Orchestrator{
		cache:          c,
		queue:          q,
		pool:           pool,
		stages:         stages,
		aggregator:     agg,
		metrics:        m,
		results:        make(map[string]*model.ProcessingResult),
		metadata:       make(map[string]*PipelineMetadata),
		dequeueTimeout: config.DefaultDequeueTimeout,
	}
}

// Acquire wraps New with a closer performing Shutdown, mirroring
// workerpool.Acquire's scoped-acquisition shape:
// `orch, done := pipeline.Acquire(...); defer done()`.
func Acquire(c *cache.Cache, q *queue.TaskQueue, pool *workerpool.Pool, stages Stages, agg *aggregator.ResultAggregator, m *metrics.PipelineMetrics) (*Orchestrator, func()) {
	o := New(c, q, pool, stages, agg, m)
	return o, o.Shutdown
}

// SetDequeueTimeout overrides how long queue workers block per Dequeue
// poll. Call before StartQueueWorkers.
func (o *Orchestrator) SetDequeueTimeout(d time.Duration) {
	if d > 0 {
		o.dequeueTimeout = d
	}
}

func (o *Orchestrator) incMetric(f func(m *metrics.PipelineMetrics)) {
	if o.metrics == nil {
		return
	}
	f(o.metrics)
}

// ProcessVideo mints a pipeline id, records processing metadata, and
// either runs the four stages inline (use_queue=false) or enqueues the
// DOWNLOAD task and returns immediately (use_queue=true).
func (o *Orchestrator) ProcessVideo(ctx context.Context, url string, useQueue bool) (string, error) {
	pipelineID := uuid.NewString()
	now := config.Clock.GetTime()

	o.mu.Lock()
	o.metadata[pipelineID] = &PipelineMetadata{
		VideoURL:     url,
		StartTime:    now,
		Status:       StatusProcessing,
		StageTaskIDs: make(map[string]string),
	}
	o.mu.Unlock()
	o.incMetric(func(m *metrics.PipelineMetrics) { m.PipelinesStarted.Inc() })

	if !useQueue {
		result, err := o.runSynchronous(ctx, pipelineID, url)
		o.mu.Lock()
		meta := o.metadata[pipelineID]
		meta.EndTime = config.Clock.GetTime()
		if err != nil {
			meta.Status = StatusFailed
			meta.Error = err.Error()
			o.mu.Unlock()
			o.incMetric(func(m *metrics.PipelineMetrics) { m.PipelinesFailed.Inc() })
			log.LogError(pipelineID, "pipeline failed", err)
			return pipelineID, err
		}
		meta.Status = StatusCompleted
		o.results[pipelineID] = result
		o.mu.Unlock()
		o.incMetric(func(m *metrics.PipelineMetrics) { m.PipelinesCompleted.Inc() })
		return pipelineID, nil
	}

	taskID, err := o.queue.Enqueue(model.TaskTypeDownload, map[string]interface{}{
		"parent_task_id": pipelineID,
		"video_url":      url,
	})
	if err != nil {
		o.mu.Lock()
		meta := o.metadata[pipelineID]
		meta.Status = StatusFailed
		meta.Error = err.Error()
		meta.EndTime = config.Clock.GetTime()
		o.mu.Unlock()
		o.incMetric(func(m *metrics.PipelineMetrics) { m.PipelinesFailed.Inc() })
		return pipelineID, err
	}

	o.mu.Lock()
	o.metadata[pipelineID].StageTaskIDs["download"] = taskID
	o.mu.Unlock()
	return pipelineID, nil
}

// runSynchronous drives download -> extract -> transcribe -> summarize
// inline on the caller's goroutine, stopping at the first stage failure.
func (o *Orchestrator) runSynchronous(ctx context.Context, pipelineID, url string) (*model.ProcessingResult, error) {
	start := config.Clock.GetTime()

	downloadOut, err := o.execStage(ctx, o.stages.Download, stage.Input{"url": url}, "download")
	if err != nil {
		return nil, err
	}
	videoPath, _ := downloadOut["video_path"].(string)
	metadata, _ := downloadOut["metadata"].(model.VideoMetadata)

	extractOut, err := o.execStage(ctx, o.stages.Extract, stage.Input{"video_path": videoPath}, "extract")
	if err != nil {
		return nil, err
	}
	audioPath, _ := extractOut["audio_path"].(string)

	transcribeOut, err := o.execStage(ctx, o.stages.Transcribe, stage.Input{"audio_path": audioPath}, "transcribe")
	if err != nil {
		return nil, err
	}
	transcript, _ := transcribeOut["transcript"].(string)

	summarizeOut, err := o.execStage(ctx, o.stages.Summarize, stage.Input{"transcript": transcript}, "summarize")
	if err != nil {
		return nil, err
	}
	summary, _ := summarizeOut["summary"].(string)

	elapsed := config.Clock.GetTime().Sub(start).Seconds()

	var result *model.ProcessingResult
	if o.aggregator != nil {
		result = o.aggregator.Aggregate(pipelineID, metadata, videoPath, audioPath, transcript, summary, elapsed)
		if err := o.aggregator.Save(result); err != nil {
			log.LogError(pipelineID, "failed to persist result", err)
		}
	} else {
		result = &model.ProcessingResult{
			TaskID:         pipelineID,
			VideoMetadata:  metadata,
			VideoPath:      videoPath,
			AudioPath:      audioPath,
			Transcript:     transcript,
			Summary:        summary,
			ProcessingTime: elapsed,
			CreatedAt:      config.Clock.GetTime(),
		}
	}
	return result, nil
}

// execStage consults the stage's own cache first so a warm run never
// invokes Execute (which repeats the same cache lookup before falling
// through to the backend) - that would double the Cache.Get count per
// stage and skew the hit/miss accounting. It also lets the log line
// distinguish "served from cache" from "executed".
func (o *Orchestrator) execStage(ctx context.Context, s stage.Stage, input stage.Input, name string) (stage.Output, error) {
	start := config.Clock.GetTime()
	if s.IsCached(input) {
		out, ok := s.GetCached(input)
		if ok {
			log.LogNoID("stage served from cache", "stage", name)
			o.observeStage(name, "cache_hit", start)
			return out, nil
		}
	}
	out, err := s.Execute(ctx, input)
	if err != nil {
		o.observeStage(name, "error", start)
		return nil, err
	}
	o.observeStage(name, "executed", start)
	return out, nil
}

func (o *Orchestrator) observeStage(name, outcome string, start time.Time) {
	if o.metrics == nil {
		return
	}
	o.metrics.StageDurationSec.WithLabelValues(name, outcome).Observe(config.Clock.GetTime().Sub(start).Seconds())
	o.syncMetrics()
}

// syncMetrics forwards the cache, queue and worker pool snapshot counters
// to prometheus. Cache.Stats and Queue.GetStats report cumulative totals,
// so counter increments are derived from the previously observed snapshot
// rather than re-added on every poll; the gauges are just set outright.
func (o *Orchestrator) syncMetrics() {
	if o.metrics == nil {
		return
	}
	cs := o.cache.Stats()
	o.metrics.CacheSize.Set(float64(cs.Size))

	qs := o.queue.GetStats()
	o.metrics.QueueDepth.Set(float64(qs.QueueLength))

	ps := o.pool.GetStats()
	o.metrics.WorkerPoolActive.Set(float64(ps.Active))
	o.metrics.WorkerPoolPending.Set(float64(ps.Pending))

	o.mu.Lock()
	defer o.mu.Unlock()

	if d := cs.Hits - o.lastCacheHits; d > 0 {
		o.metrics.CacheHits.Add(float64(d))
	}
	o.lastCacheHits = cs.Hits

	if d := cs.Misses - o.lastCacheMisses; d > 0 {
		o.metrics.CacheMisses.Add(float64(d))
	}
	o.lastCacheMisses = cs.Misses

	if d := cs.Evictions - o.lastCacheEvictions; d > 0 {
		o.metrics.CacheEvictions.Add(float64(d))
	}
	o.lastCacheEvictions = cs.Evictions

	if d := qs.FailedCount - o.lastQueueFailed; d > 0 {
		o.metrics.QueueTasksFailed.Add(float64(d))
	}
	o.lastQueueFailed = qs.FailedCount
}

// ProcessBatch runs process_video(url, use_queue=false) for each url in
// sequence. A failing URL contributes a nil entry rather than aborting
// the batch.
func (o *Orchestrator) ProcessBatch(ctx context.Context, urls []string) []*string {
	ids := make([]*string, len(urls))
	for i, url := range urls {
		id, err := o.ProcessVideo(ctx, url, false)
		if err != nil {
			continue
		}
		idCopy := id
		ids[i] = &idCopy
	}
	return ids
}

// ProcessBatchConcurrent submits one isolated synchronous pipeline per URL
// to the worker pool and waits for all of them to finish. Per spec
// section 5's concurrent-execution isolation invariant, one URL's failure
// never affects another's result.
func (o *Orchestrator) ProcessBatchConcurrent(ctx context.Context, urls []string) []*string {
	ids := make([]*string, len(urls))
	taskIDs := make([]string, len(urls))

	for i, url := range urls {
		pipelineID := uuid.NewString()
		now := config.Clock.GetTime()
		o.mu.Lock()
		o.metadata[pipelineID] = &PipelineMetadata{VideoURL: url, StartTime: now, Status: StatusProcessing, StageTaskIDs: make(map[string]string)}
		o.mu.Unlock()
		o.incMetric(func(m *metrics.PipelineMetrics) { m.PipelinesStarted.Inc() })

		idCopy := pipelineID
		ids[i] = &idCopy
		taskID := "batch-" + pipelineID
		taskIDs[i] = taskID

		url := url
		_, err := o.pool.Submit(taskID, func() (interface{}, error) {
			result, execErr := o.runSynchronous(ctx, pipelineID, url)
			o.mu.Lock()
			meta := o.metadata[pipelineID]
			meta.EndTime = config.Clock.GetTime()
			if execErr != nil {
				meta.Status = StatusFailed
				meta.Error = execErr.Error()
			} else {
				meta.Status = StatusCompleted
				o.results[pipelineID] = result
			}
			o.mu.Unlock()
			if execErr != nil {
				o.incMetric(func(m *metrics.PipelineMetrics) { m.PipelinesFailed.Inc() })
			} else {
				o.incMetric(func(m *metrics.PipelineMetrics) { m.PipelinesCompleted.Inc() })
			}
			return struct{}{}, nil
		})
		if err != nil {
			o.mu.Lock()
			o.metadata[pipelineID].Status = StatusFailed
			o.metadata[pipelineID].Error = err.Error()
			o.mu.Unlock()
			ids[i] = nil
		}
	}

	for _, taskID := range taskIDs {
		if taskID == "" {
			continue
		}
		o.pool.GetResult(taskID, config.DefaultWorkerTimeout)
	}
	return ids
}

// SubmitBatchToQueue enqueues a DOWNLOAD task per URL, returning the
// minted pipeline ids in order.
func (o *Orchestrator) SubmitBatchToQueue(ctx context.Context, urls []string) []*string {
	ids := make([]*string, len(urls))
	for i, url := range urls {
		id, err := o.ProcessVideo(ctx, url, true)
		if err != nil {
			continue
		}
		idCopy := id
		ids[i] = &idCopy
	}
	return ids
}

// StartQueueWorkers submits n long-running jobs to the worker pool, each
// looping dequeue(timeout) -> process_queue_task until ctx is cancelled.
// Cancel ctx before calling Shutdown, or Shutdown(wait=true) will block on
// these jobs forever.
func (o *Orchestrator) StartQueueWorkers(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		workerID := fmt.Sprintf("queue-worker-%d-%s", i, uuid.NewString())
		_, err := o.pool.Submit(workerID, func() (interface{}, error) {
			o.runQueueWorkerLoop(ctx)
			return struct{}{}, nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) runQueueWorkerLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		task, ok := o.queue.Dequeue(o.dequeueTimeout)
		if !ok {
			o.syncMetrics()
			continue
		}
		if err := o.processQueueTask(ctx, task); err != nil {
			if markErr := o.queue.MarkFailed(task.TaskID, err.Error()); markErr != nil {
				log.LogError(task.TaskID, "failed to mark queue task failed", markErr)
			} else if task.RetryCount+1 <= task.MaxRetries {
				// MarkFailed re-enqueues only while the incremented count is
				// within MaxRetries; the terminal failure is not a retry.
				o.incMetric(func(m *metrics.PipelineMetrics) { m.QueueTasksRetried.Inc() })
			}
			o.failPipelineIfRetriesExhausted(task)
			o.syncMetrics()
			continue
		}
		if err := o.queue.MarkCompleted(task.TaskID); err != nil {
			log.LogError(task.TaskID, "failed to mark queue task completed", err)
		}
		o.syncMetrics()
	}
}

// failPipelineIfRetriesExhausted checks whether task's queue-level retries
// were exhausted (MarkFailed transitioned it to the terminal FAILED
// status) and, if so, marks the owning pipeline's metadata failed.
// Without this a queue-mode pipeline whose stage permanently fails would
// report "processing" forever.
func (o *Orchestrator) failPipelineIfRetriesExhausted(task *model.Task) {
	status, ok := o.queue.GetStatus(task.TaskID)
	if !ok || status.Status != model.TaskStatusFailed {
		return
	}
	parentTaskID, _ := task.InputData["parent_task_id"].(string)
	if parentTaskID == "" {
		return
	}

	o.mu.Lock()
	meta, ok := o.metadata[parentTaskID]
	transitioned := ok && meta.Status == StatusProcessing
	if transitioned {
		meta.Status = StatusFailed
		meta.Error = status.ErrorMessage
		meta.EndTime = config.Clock.GetTime()
	}
	o.mu.Unlock()
	if transitioned {
		o.incMetric(func(m *metrics.PipelineMetrics) { m.PipelinesFailed.Inc() })
	}
}

type downloadTaskInput struct {
	ParentTaskID string `mapstructure:"parent_task_id"`
	VideoURL     string `mapstructure:"video_url"`
}

type extractTaskInput struct {
	ParentTaskID string `mapstructure:"parent_task_id"`
	VideoPath    string `mapstructure:"video_path"`
}

type transcribeTaskInput struct {
	ParentTaskID string `mapstructure:"parent_task_id"`
	AudioPath    string `mapstructure:"audio_path"`
}

type summarizeTaskInput struct {
	ParentTaskID string `mapstructure:"parent_task_id"`
	Transcript   string `mapstructure:"transcript"`
}

// processQueueTask dispatches a dequeued task to the stage its TaskType
// names, enqueuing the next stage's task on success. SUMMARIZE instead
// marks the parent pipeline's metadata completed.
func (o *Orchestrator) processQueueTask(ctx context.Context, task *model.Task) error {
	switch task.TaskType {
	case model.TaskTypeDownload:
		var in downloadTaskInput
		if err := mapstructure.Decode(task.InputData, &in); err != nil {
			return pipelineerrors.NewDownloadError("malformed download task input", err)
		}
		out, err := o.execStage(ctx, o.stages.Download, stage.Input{"url": in.VideoURL}, "download")
		if err != nil {
			return err
		}
		videoPath, _ := out["video_path"].(string)
		nextID, err := o.queue.Enqueue(model.TaskTypeExtract, map[string]interface{}{
			"parent_task_id": in.ParentTaskID,
			"video_path":     videoPath,
		})
		if err != nil {
			return err
		}
		o.recordStageTaskID(in.ParentTaskID, "extract", nextID)
		return nil

	case model.TaskTypeExtract:
		var in extractTaskInput
		if err := mapstructure.Decode(task.InputData, &in); err != nil {
			return pipelineerrors.NewExtractionError("malformed extract task input", err)
		}
		out, err := o.execStage(ctx, o.stages.Extract, stage.Input{"video_path": in.VideoPath}, "extract")
		if err != nil {
			return err
		}
		audioPath, _ := out["audio_path"].(string)
		nextID, err := o.queue.Enqueue(model.TaskTypeTranscribe, map[string]interface{}{
			"parent_task_id": in.ParentTaskID,
			"audio_path":     audioPath,
		})
		if err != nil {
			return err
		}
		o.recordStageTaskID(in.ParentTaskID, "transcribe", nextID)
		return nil

	case model.TaskTypeTranscribe:
		var in transcribeTaskInput
		if err := mapstructure.Decode(task.InputData, &in); err != nil {
			return pipelineerrors.NewTranscriptionError("malformed transcribe task input", err)
		}
		out, err := o.execStage(ctx, o.stages.Transcribe, stage.Input{"audio_path": in.AudioPath}, "transcribe")
		if err != nil {
			return err
		}
		transcript, _ := out["transcript"].(string)
		nextID, err := o.queue.Enqueue(model.TaskTypeSummarize, map[string]interface{}{
			"parent_task_id": in.ParentTaskID,
			"transcript":     transcript,
		})
		if err != nil {
			return err
		}
		o.recordStageTaskID(in.ParentTaskID, "summarize", nextID)
		return nil

	case model.TaskTypeSummarize:
		var in summarizeTaskInput
		if err := mapstructure.Decode(task.InputData, &in); err != nil {
			return pipelineerrors.NewSummarizationError("malformed summarize task input", err)
		}
		_, err := o.execStage(ctx, o.stages.Summarize, stage.Input{"transcript": in.Transcript}, "summarize")
		if err != nil {
			return err
		}
		o.mu.Lock()
		meta, ok := o.metadata[in.ParentTaskID]
		if ok {
			meta.Status = StatusCompleted
			meta.EndTime = config.Clock.GetTime()
		}
		o.mu.Unlock()
		o.incMetric(func(m *metrics.PipelineMetrics) { m.PipelinesCompleted.Inc() })
		return nil

	default:
		return pipelineerrors.NewQueueError("unknown task type: "+string(task.TaskType), nil)
	}
}

func (o *Orchestrator) recordStageTaskID(pipelineID, stageName, taskID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if meta, ok := o.metadata[pipelineID]; ok {
		meta.StageTaskIDs[stageName] = taskID
	}
}

// GetResult returns the in-memory result for pipelineID, if present.
func (o *Orchestrator) GetResult(pipelineID string) (*model.ProcessingResult, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	result, ok := o.results[pipelineID]
	return result, ok
}

// GetStatus returns a copy of pipelineID's metadata record. The stage task
// id map is copied too so the caller never shares it with a queue worker
// that is still recording ids.
func (o *Orchestrator) GetStatus(pipelineID string) (PipelineMetadata, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	meta, ok := o.metadata[pipelineID]
	if !ok {
		return PipelineMetadata{}, false
	}
	snapshot := *meta
	snapshot.StageTaskIDs = make(map[string]string, len(meta.StageTaskIDs))
	for k, v := range meta.StageTaskIDs {
		snapshot.StageTaskIDs[k] = v
	}
	return snapshot, true
}

// GetResultDict returns the result as a JSON-shaped map, or (nil, false).
func (o *Orchestrator) GetResultDict(pipelineID string) (map[string]interface{}, bool) {
	result, ok := o.GetResult(pipelineID)
	if !ok {
		return nil, false
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, false
	}
	var dict map[string]interface{}
	if err := json.Unmarshal(raw, &dict); err != nil {
		return nil, false
	}
	return dict, true
}

// GetBatchResults returns the results for the given pipeline ids, in
// order, with a nil entry for any id that has no result yet.
func (o *Orchestrator) GetBatchResults(ids []*string) []*model.ProcessingResult {
	out := make([]*model.ProcessingResult, len(ids))
	for i, id := range ids {
		if id == nil {
			continue
		}
		if result, ok := o.GetResult(*id); ok {
			out[i] = result
		}
	}
	return out
}

// GetAllResults returns every result currently held in memory.
func (o *Orchestrator) GetAllResults() []*model.ProcessingResult {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]*model.ProcessingResult, 0, len(o.results))
	for _, result := range o.results {
		out = append(out, result)
	}
	return out
}

// ResultSummary is the reduced projection GetResultSummary returns.
type ResultSummary struct {
	TaskID         string
	URL            string
	Title          *string
	ProcessingTime float64
	SummaryPreview string
}

const summaryPreviewLength = 200

// GetResultSummary returns a trimmed projection of pipelineID's result,
// suitable for listing many pipelines without shipping full transcripts.
func (o *Orchestrator) GetResultSummary(pipelineID string) (ResultSummary, bool) {
	result, ok := o.GetResult(pipelineID)
	if !ok {
		return ResultSummary{}, false
	}
	preview := result.Summary
	if len(preview) > summaryPreviewLength {
		preview = preview[:summaryPreviewLength]
	}
	return ResultSummary{
		TaskID:         result.TaskID,
		URL:            result.VideoMetadata.URL,
		Title:          result.VideoMetadata.Title,
		ProcessingTime: result.ProcessingTime,
		SummaryPreview: preview,
	}, true
}

// ExportResultJSON writes pipelineID's result to path as indented JSON.
func (o *Orchestrator) ExportResultJSON(pipelineID, path string) error {
	result, ok := o.GetResult(pipelineID)
	if !ok {
		return pipelineerrors.NewQueueError("no result for pipeline: "+pipelineID, nil)
	}
	raw, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

// ExportAllResultsJSON writes every in-memory result to path as an
// indented JSON array.
func (o *Orchestrator) ExportAllResultsJSON(path string) error {
	results := o.GetAllResults()
	raw, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

// Shutdown triggers a blocking worker pool shutdown, then clears the
// task queue.
func (o *Orchestrator) Shutdown() {
	o.pool.Shutdown(true)
	o.queue.Clear()
}
