package aggregator

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/clipforge/pipeline/model"
)

func newTestAggregator(t *testing.T) *ResultAggregator {
	t.Helper()
	a, err := New(t.TempDir())
	require.NoError(t, err)
	return a
}

func TestAggregateThenSaveThenRetrieve(t *testing.T) {
	a := newTestAggregator(t)

	result := a.Aggregate("task-1", model.VideoMetadata{URL: "https://youtube.com/watch?v=x", Platform: model.PlatformYouTube},
		"/videos/task-1.mp4", "/audio/task-1.mp3", "hello world", "a short summary", 12.5)
	require.NoError(t, a.Save(result))

	got, ok := a.Retrieve("task-1")
	require.True(t, ok)
	require.Equal(t, result.TaskID, got.TaskID)
	require.Equal(t, "hello world", got.Transcript)
}

func TestRetrieveFromDiskAfterInMemoryEviction(t *testing.T) {
	a := newTestAggregator(t)
	result := a.Aggregate("task-2", model.VideoMetadata{URL: "https://youtube.com/watch?v=y"}, "v", "a", "t", "s", 1)
	require.NoError(t, a.Save(result))

	// Simulate a fresh process: new aggregator over the same storage dir.
	reloaded, err := New(a.storageDir)
	require.NoError(t, err)

	got, ok := reloaded.Retrieve("task-2")
	require.True(t, ok)
	require.Equal(t, "t", got.Transcript)
}

func TestRetrieveMissingTaskReturnsFalse(t *testing.T) {
	a := newTestAggregator(t)
	_, ok := a.Retrieve("does-not-exist")
	require.False(t, ok)
}

func TestQueryReturnsDictProjection(t *testing.T) {
	a := newTestAggregator(t)
	result := a.Aggregate("task-3", model.VideoMetadata{URL: "https://youtube.com/watch?v=z"}, "v", "a", "t", "s", 1)
	require.NoError(t, a.Save(result))

	dict, ok := a.Query("task-3")
	require.True(t, ok)
	require.Equal(t, "task-3", dict["task_id"])
}

func TestListAllReturnsEverySavedResult(t *testing.T) {
	a := newTestAggregator(t)
	for i := 0; i < 3; i++ {
		id := string(rune('a' + i))
		result := a.Aggregate(id, model.VideoMetadata{URL: "https://youtube.com/watch?v=" + id}, "v", "au", "t", "s", 1)
		require.NoError(t, a.Save(result))
	}

	all := a.ListAll()
	require.Len(t, all, 3)
}

func TestListAllSkipsUnreadableFileWithoutAborting(t *testing.T) {
	a := newTestAggregator(t)
	good := a.Aggregate("good", model.VideoMetadata{URL: "https://youtube.com/watch?v=good"}, "v", "au", "t", "s", 1)
	require.NoError(t, a.Save(good))

	require.NoError(t, os.WriteFile(a.path("corrupt"), []byte("not valid json"), 0o644))

	all := a.ListAll()
	require.Len(t, all, 1)
	require.Equal(t, "good", all[0].TaskID)
}

func TestFilterByDateRestrictsToRange(t *testing.T) {
	a := newTestAggregator(t)
	result := a.Aggregate("task-4", model.VideoMetadata{URL: "https://youtube.com/watch?v=4"}, "v", "au", "t", "s", 1)
	require.NoError(t, a.Save(result))

	inRange := a.FilterByDate(time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.Len(t, inRange, 1)

	outOfRange := a.FilterByDate(time.Now().Add(time.Hour), time.Now().Add(2*time.Hour))
	require.Len(t, outOfRange, 0)
}

func TestFilterBySourceMatchesPlatform(t *testing.T) {
	a := newTestAggregator(t)
	yt := a.Aggregate("yt", model.VideoMetadata{URL: "https://youtube.com/watch?v=yt", Platform: model.PlatformYouTube}, "v", "au", "t", "s", 1)
	bili := a.Aggregate("bili", model.VideoMetadata{URL: "https://bilibili.com/video/bili", Platform: model.PlatformBilibili}, "v", "au", "t", "s", 1)
	require.NoError(t, a.Save(yt))
	require.NoError(t, a.Save(bili))

	ytOnly := a.FilterBySource(model.PlatformYouTube)
	require.Len(t, ytOnly, 1)
	require.Equal(t, "yt", ytOnly[0].TaskID)
}

func TestFilterByStatusMatchesExternallyWrittenField(t *testing.T) {
	a := newTestAggregator(t)
	result := a.Aggregate("task-5", model.VideoMetadata{URL: "https://youtube.com/watch?v=5"}, "v", "au", "t", "s", 1)
	result.Status = "reviewed"
	require.NoError(t, a.Save(result))

	reviewed := a.FilterByStatus("reviewed")
	require.Len(t, reviewed, 1)

	none := a.FilterByStatus("archived")
	require.Len(t, none, 0)
}

func TestDeleteRemovesFileAndInMemoryEntry(t *testing.T) {
	a := newTestAggregator(t)
	result := a.Aggregate("task-6", model.VideoMetadata{URL: "https://youtube.com/watch?v=6"}, "v", "au", "t", "s", 1)
	require.NoError(t, a.Save(result))

	require.True(t, a.Delete("task-6"))
	_, ok := a.Retrieve("task-6")
	require.False(t, ok)

	require.False(t, a.Delete("task-6"))
}

func TestClearAllRemovesEveryFile(t *testing.T) {
	a := newTestAggregator(t)
	for i := 0; i < 2; i++ {
		id := string(rune('x' + i))
		result := a.Aggregate(id, model.VideoMetadata{URL: "https://youtube.com/watch?v=" + id}, "v", "au", "t", "s", 1)
		require.NoError(t, a.Save(result))
	}

	require.NoError(t, a.ClearAll())
	require.Len(t, a.ListAll(), 0)
}

func TestGetStatsReportsCountsByPlatform(t *testing.T) {
	a := newTestAggregator(t)
	yt := a.Aggregate("yt2", model.VideoMetadata{URL: "https://youtube.com/watch?v=yt2", Platform: model.PlatformYouTube}, "v", "au", "t", "s", 2.5)
	require.NoError(t, a.Save(yt))

	stats := a.GetStats()
	require.Equal(t, 1, stats.TotalResults)
	require.Equal(t, 1, stats.ResultsByPlatform[model.PlatformYouTube])
	require.Equal(t, 2.5, stats.TotalProcessingTimeSec)
}
