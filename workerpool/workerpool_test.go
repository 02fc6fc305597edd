package workerpool

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSubmitAndGetResult(t *testing.T) {
	p := New(2)
	defer p.Shutdown(true)

	_, err := p.Submit("t1", func() (interface{}, error) {
		return 42, nil
	})
	require.NoError(t, err)

	result, ok := p.GetResult("t1", time.Second)
	require.True(t, ok)
	require.Equal(t, 42, result)
}

func TestGetResultTimesOutOnUnfinishedJob(t *testing.T) {
	p := New(1)
	defer p.Shutdown(true)

	block := make(chan struct{})
	_, err := p.Submit("t1", func() (interface{}, error) {
		<-block
		return nil, nil
	})
	require.NoError(t, err)

	_, ok := p.GetResult("t1", 20*time.Millisecond)
	require.False(t, ok)
	close(block)
}

func TestGetResultUnknownTaskID(t *testing.T) {
	p := New(1)
	defer p.Shutdown(true)

	_, ok := p.GetResult("nope", 10*time.Millisecond)
	require.False(t, ok)
}

func TestFnErrorSurfacesAsNone(t *testing.T) {
	p := New(1)
	defer p.Shutdown(true)

	_, _ = p.Submit("t1", func() (interface{}, error) {
		return nil, errors.New("backend exploded")
	})

	_, ok := p.GetResult("t1", time.Second)
	require.False(t, ok)
}

func TestPanicInFnSurfacesAsNone(t *testing.T) {
	p := New(1)
	defer p.Shutdown(true)

	_, _ = p.Submit("t1", func() (interface{}, error) {
		panic("boom")
	})

	_, ok := p.GetResult("t1", time.Second)
	require.False(t, ok)
}

func TestCancelBeforeStartSucceeds(t *testing.T) {
	p := New(1)
	defer p.Shutdown(true)

	block := make(chan struct{})
	_, _ = p.Submit("running", func() (interface{}, error) {
		<-block
		return nil, nil
	})
	_, _ = p.Submit("queued", func() (interface{}, error) {
		return "done", nil
	})

	require.True(t, p.Cancel("queued"))
	close(block)

	require.True(t, p.IsDone("queued"))
	_, ok := p.GetResult("queued", time.Second)
	require.False(t, ok)
}

func TestCancelAfterStartFails(t *testing.T) {
	p := New(1)
	defer p.Shutdown(true)

	started := make(chan struct{})
	block := make(chan struct{})
	_, _ = p.Submit("t1", func() (interface{}, error) {
		close(started)
		<-block
		return "done", nil
	})
	<-started

	require.False(t, p.Cancel("t1"))
	close(block)
}

func TestWaitAllBlocksUntilJobsFinish(t *testing.T) {
	p := New(3)
	defer p.Shutdown(true)

	for i := 0; i < 3; i++ {
		id := string(rune('a' + i))
		_, _ = p.Submit(id, func() (interface{}, error) {
			time.Sleep(10 * time.Millisecond)
			return nil, nil
		})
	}

	require.True(t, p.WaitAll(time.Second))
}

func TestSubmitAfterShutdownFails(t *testing.T) {
	p := New(1)
	p.Shutdown(true)

	_, err := p.Submit("t1", func() (interface{}, error) { return nil, nil })
	require.Error(t, err)
}

func TestGetActiveAndPendingCounts(t *testing.T) {
	p := New(1)
	defer p.Shutdown(true)

	block := make(chan struct{})
	started := make(chan struct{})
	_, _ = p.Submit("running", func() (interface{}, error) {
		close(started)
		<-block
		return nil, nil
	})
	_, _ = p.Submit("queued", func() (interface{}, error) { return nil, nil })
	<-started

	require.Equal(t, 1, p.GetActiveCount())
	require.Equal(t, 1, p.GetPendingCount())
	close(block)
}
