// Package stage implements the four pipeline stages (download, extract,
// transcribe, summarize) behind a uniform contract: Execute(input) ->
// output, cache-aware, with a concurrent fan-out helper built on
// workerpool.Pool. Each concrete stage holds its own Cache reference and
// does not reference the orchestrator - the component graph is a DAG
// rooted at the orchestrator.
package stage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clipforge/pipeline/cache"
	"github.com/clipforge/pipeline/workerpool"
)

// Input carries whatever a stage needs for one invocation. It mirrors
// Task.InputData: an untyped map, stage-specific by convention.
type Input map[string]interface{}

// Output carries whatever a stage produced. Also an untyped map so the
// uniform Stage interface below does not need one type per stage.
type Output map[string]interface{}

// Stage is the uniform contract every concrete stage worker satisfies.
type Stage interface {
	Execute(ctx context.Context, input Input) (Output, error)
	IsCached(input Input) bool
	GetCached(input Input) (Output, bool)
	DeleteCached(input Input)
}

// ExecuteConcurrent runs s.Execute for each input on pool, returning a
// result per input keyed by its position. A per-input failure (including a
// pool shutdown or fn panic) yields a nil entry rather than aborting the
// batch.
func ExecuteConcurrent(ctx context.Context, s Stage, inputs []Input, pool *workerpool.Pool, timeout time.Duration) []Output {
	type submission struct {
		index  int
		taskID string
	}

	results := make([]Output, len(inputs))
	submissions := make([]submission, 0, len(inputs))

	for i, in := range inputs {
		in := in
		taskID := stageTaskID(i)
		_, err := pool.Submit(taskID, func() (interface{}, error) {
			return s.Execute(ctx, in)
		})
		if err != nil {
			continue
		}
		submissions = append(submissions, submission{index: i, taskID: taskID})
	}

	for _, sub := range submissions {
		result, ok := pool.GetResult(sub.taskID, timeout)
		if !ok {
			continue
		}
		out, ok := result.(Output)
		if !ok {
			continue
		}
		results[sub.index] = out
	}
	return results
}

// stageTaskID mints a pool task id unique across ExecuteConcurrent calls
// sharing one pool, so a second batch never collides with the first's
// handle table entries.
func stageTaskID(i int) string {
	return fmt.Sprintf("stage-exec-%d-%s", i, uuid.NewString())
}

// base holds the Cache reference shared by every concrete stage. A nil
// Cache is valid: every cache-touching method becomes a no-op.
type base struct {
	cache *cache.Cache
}

func (b base) cacheGet(key string) (interface{}, bool) {
	if b.cache == nil {
		return nil, false
	}
	return b.cache.Get(key)
}

// cacheContains is the stats-neutral presence check IsCached uses, so that
// a caller probing IsCached before GetCached counts one hit, not two.
func (b base) cacheContains(key string) bool {
	if b.cache == nil {
		return false
	}
	return b.cache.Contains(key)
}

func (b base) cacheSet(key string, value interface{}) {
	if b.cache == nil {
		return
	}
	b.cache.Set(key, value)
}

func (b base) cacheDelete(key string) {
	if b.cache == nil {
		return
	}
	b.cache.Delete(key)
}
