// Package aggregator implements the ResultAggregator: an in-memory index
// over durable <task_id>.json files, plus directory scans that back the
// filter/query API. The file is authoritative; the in-memory cache can
// always be rebuilt from disk.
package aggregator

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/clipforge/pipeline/log"
	"github.com/clipforge/pipeline/model"
)

// ResultAggregator owns storageDir and a thread-safe in-memory index.
type ResultAggregator struct {
	mu         sync.Mutex
	storageDir string
	inMemory   map[string]*model.ProcessingResult

	// S3 and DB are optional sinks; either may be left nil.
	S3 *S3Sink
	DB *PostgresSink
}

// New constructs a ResultAggregator rooted at storageDir, creating the
// directory if it does not already exist.
func New(storageDir string) (*ResultAggregator, error) {
	if err := os.MkdirAll(storageDir, 0o755); err != nil {
		return nil, err
	}
	return &ResultAggregator{
		storageDir: storageDir,
		inMemory:   make(map[string]*model.ProcessingResult),
	}, nil
}

func (a *ResultAggregator) path(taskID string) string {
	return filepath.Join(a.storageDir, taskID+".json")
}

// Aggregate constructs a ProcessingResult with CreatedAt=now, places it in
// the in-memory index and returns it. It does not write to disk - callers
// call Save explicitly.
func (a *ResultAggregator) Aggregate(taskID string, metadata model.VideoMetadata, videoPath, audioPath, transcript, summary string, processingTime float64) *model.ProcessingResult {
	result := &model.ProcessingResult{
		TaskID:         taskID,
		VideoMetadata:  metadata,
		VideoPath:      videoPath,
		AudioPath:      audioPath,
		Transcript:     transcript,
		Summary:        summary,
		ProcessingTime: processingTime,
		CreatedAt:      time.Now().UTC(),
	}

	a.mu.Lock()
	a.inMemory[taskID] = result
	a.mu.Unlock()
	return result
}

// Save serializes result to <task_id>.json, 2-space indented UTF-8, and
// mirrors it to the optional S3/Postgres sinks if configured.
func (a *ResultAggregator) Save(result *model.ProcessingResult) error {
	raw, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(a.path(result.TaskID), raw, 0o644); err != nil {
		return err
	}

	a.mu.Lock()
	a.inMemory[result.TaskID] = result
	a.mu.Unlock()

	if a.S3 != nil {
		if err := a.S3.Put(result.TaskID, raw); err != nil {
			log.LogError(result.TaskID, "failed to mirror result to S3", err)
		}
	}
	if a.DB != nil {
		if err := a.DB.Insert(result); err != nil {
			log.LogError(result.TaskID, "failed to record result in postgres sink", err)
		}
	}
	return nil
}

// Retrieve returns the result for taskID, preferring the in-memory index
// and falling back to the JSON file (populating the index on a hit).
// Returns (nil, false) if no file exists for taskID.
func (a *ResultAggregator) Retrieve(taskID string) (*model.ProcessingResult, bool) {
	a.mu.Lock()
	if result, ok := a.inMemory[taskID]; ok {
		a.mu.Unlock()
		return result, true
	}
	a.mu.Unlock()

	result, err := a.readFile(taskID)
	if err != nil {
		return nil, false
	}

	a.mu.Lock()
	a.inMemory[taskID] = result
	a.mu.Unlock()
	return result, true
}

func (a *ResultAggregator) readFile(taskID string) (*model.ProcessingResult, error) {
	raw, err := os.ReadFile(a.path(taskID))
	if err != nil {
		return nil, err
	}
	if err := validateResultJSON(raw); err != nil {
		return nil, err
	}
	var result model.ProcessingResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Query returns a map[string]interface{} projection of the result, or
// (nil, false) if not found. It is a thin wrapper over Retrieve for
// callers that want a dictionary rather than a typed struct.
func (a *ResultAggregator) Query(taskID string) (map[string]interface{}, bool) {
	result, ok := a.Retrieve(taskID)
	if !ok {
		return nil, false
	}
	return toDict(result), true
}

func toDict(result *model.ProcessingResult) map[string]interface{} {
	raw, _ := json.Marshal(result)
	var dict map[string]interface{}
	_ = json.Unmarshal(raw, &dict)
	return dict
}

// listFiles enumerates every <task_id>.json in storageDir, deserializing
// each. Unreadable or invalid files are logged and skipped - a scan never
// aborts because one file is corrupt.
func (a *ResultAggregator) listFiles() []*model.ProcessingResult {
	entries, err := os.ReadDir(a.storageDir)
	if err != nil {
		return nil
	}

	results := make([]*model.ProcessingResult, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		taskID := e.Name()[:len(e.Name())-len(".json")]
		result, err := a.readFile(taskID)
		if err != nil {
			log.LogError(taskID, "skipping unreadable result file during scan", err)
			continue
		}
		results = append(results, result)
	}
	return results
}

// ListAll returns every persisted ProcessingResult.
func (a *ResultAggregator) ListAll() []*model.ProcessingResult {
	return a.listFiles()
}

// FilterByDate returns results whose CreatedAt falls within [start, end].
func (a *ResultAggregator) FilterByDate(start, end time.Time) []*model.ProcessingResult {
	var out []*model.ProcessingResult
	for _, r := range a.listFiles() {
		if !r.CreatedAt.Before(start) && !r.CreatedAt.After(end) {
			out = append(out, r)
		}
	}
	return out
}

// FilterBySource returns results whose VideoMetadata.Platform matches platform.
func (a *ResultAggregator) FilterBySource(platform model.Platform) []*model.ProcessingResult {
	var out []*model.ProcessingResult
	for _, r := range a.listFiles() {
		if r.VideoMetadata.Platform == platform {
			out = append(out, r)
		}
	}
	return out
}

// FilterByStatus returns results whose optional Status field matches
// status. Status is written by external collaborators, never by Aggregate.
func (a *ResultAggregator) FilterByStatus(status string) []*model.ProcessingResult {
	var out []*model.ProcessingResult
	for _, r := range a.listFiles() {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out
}

// Delete removes taskID from both the in-memory index and disk, reporting
// whether a file existed to remove.
func (a *ResultAggregator) Delete(taskID string) bool {
	a.mu.Lock()
	delete(a.inMemory, taskID)
	a.mu.Unlock()

	err := os.Remove(a.path(taskID))
	return err == nil
}

// ClearAll wipes both the in-memory index and every file in storageDir.
func (a *ResultAggregator) ClearAll() error {
	a.mu.Lock()
	a.inMemory = make(map[string]*model.ProcessingResult)
	a.mu.Unlock()

	entries, err := os.ReadDir(a.storageDir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		if err := os.Remove(filepath.Join(a.storageDir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Stats is the snapshot returned by GetStats.
type Stats struct {
	TotalResults           int
	CacheSize              int
	StorageDir             string
	ResultsByPlatform      map[model.Platform]int
	TotalProcessingTimeSec float64
}

// GetStats scans storageDir and reports aggregate counts.
func (a *ResultAggregator) GetStats() Stats {
	a.mu.Lock()
	cacheSize := len(a.inMemory)
	a.mu.Unlock()

	results := a.listFiles()
	stats := Stats{
		TotalResults:      len(results),
		CacheSize:         cacheSize,
		StorageDir:        a.storageDir,
		ResultsByPlatform: make(map[model.Platform]int),
	}
	for _, r := range results {
		stats.ResultsByPlatform[r.VideoMetadata.Platform]++
		stats.TotalProcessingTimeSec += r.ProcessingTime
	}
	return stats
}
