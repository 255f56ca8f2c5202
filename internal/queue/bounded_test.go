package queue_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stockroom/internal/queue"
)

const (
	blockWindow   = 50 * time.Millisecond
	unblockWithin = 2 * time.Second
)

func newQueue(t *testing.T, capacity int) *queue.Bounded[string] {
	t.Helper()
	q, err := queue.NewBounded[string](capacity, nil)
	require.NoError(t, err)
	return q
}

// assertBlocked fails if done fires within the block window.
func assertBlocked(t *testing.T, done <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-done:
		t.Fatalf("%s completed but should still be blocked", what)
	case <-time.After(blockWindow):
	}
}

func assertDone(t *testing.T, done <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(unblockWithin):
		t.Fatalf("%s still blocked", what)
	}
}

func TestNewBounded_InvalidCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1} {
		q, err := queue.NewBounded[string](capacity, nil)
		assert.ErrorIs(t, err, queue.ErrInvalidCapacity)
		assert.Nil(t, q)
	}
}

func TestBounded_FIFO(t *testing.T) {
	q := newQueue(t, 5)

	for _, item := range []string{"apple", "bread", "milk"} {
		q.Add(item)
	}

	assert.Equal(t, []string{"apple", "bread", "milk"}, q.Snapshot())
	assert.Equal(t, "apple", q.Remove())
	assert.Equal(t, "bread", q.Remove())
	assert.Equal(t, "milk", q.Remove())
	assert.Equal(t, 0, q.Len())
}

func TestBounded_AddBlocksWhenFull(t *testing.T) {
	q := newQueue(t, 5)
	for i := 0; i < 5; i++ {
		q.Add(fmt.Sprintf("item-%d", i))
	}
	require.Equal(t, 5, q.Len())

	done := make(chan struct{})
	go func() {
		q.Add("item-5")
		close(done)
	}()

	assertBlocked(t, done, "sixth add")
	assert.Equal(t, 5, q.Len())

	assert.Equal(t, "item-0", q.Remove())
	assertDone(t, done, "sixth add")

	assert.Equal(t, 5, q.Len())
	assert.Equal(t, []string{"item-1", "item-2", "item-3", "item-4", "item-5"}, q.Snapshot())
}

func TestBounded_RemoveBlocksWhenEmpty(t *testing.T) {
	q := newQueue(t, 2)

	got := make(chan string, 1)
	done := make(chan struct{})
	go func() {
		got <- q.Remove()
		close(done)
	}()

	assertBlocked(t, done, "remove on empty queue")

	q.Add("rice")
	assertDone(t, done, "remove")
	assert.Equal(t, "rice", <-got)
	assert.Equal(t, 0, q.Len())
}

func TestBounded_PauseBlocksAddAndRemove(t *testing.T) {
	q := newQueue(t, 3)
	q.Add("first")
	q.Pause()
	assert.True(t, q.Paused())

	addDone := make(chan struct{})
	go func() {
		q.Add("second")
		close(addDone)
	}()

	removeDone := make(chan struct{})
	go func() {
		q.Remove()
		close(removeDone)
	}()

	assertBlocked(t, addDone, "add while paused")
	assertBlocked(t, removeDone, "remove while paused")
	assert.Equal(t, []string{"first"}, q.Snapshot())

	q.Resume()
	assert.False(t, q.Paused())

	assertDone(t, addDone, "add after resume")
	assertDone(t, removeDone, "remove after resume")
	assert.Equal(t, 1, q.Len())
}

func TestBounded_ResumeOnlyReleasesSatisfiedWaiters(t *testing.T) {
	q := newQueue(t, 1)
	q.Add("only")
	q.Pause()

	var added atomic.Int32
	for i := 0; i < 3; i++ {
		go func(n int) {
			q.Add(fmt.Sprintf("extra-%d", n))
			added.Add(1)
		}(i)
	}

	time.Sleep(blockWindow)
	q.Resume()
	time.Sleep(blockWindow)

	// Queue is still full, so no producer may proceed.
	assert.Equal(t, int32(0), added.Load())
	assert.Equal(t, 1, q.Len())

	q.Remove()
	require.Eventually(t, func() bool { return added.Load() == 1 }, unblockWithin, 5*time.Millisecond)
	assert.Equal(t, 1, q.Len())

	q.Remove()
	q.Remove()
	require.Eventually(t, func() bool { return added.Load() == 3 }, unblockWithin, 5*time.Millisecond)
}

func TestBounded_PauseAndResumeNeverBlock(t *testing.T) {
	q := newQueue(t, 1)
	q.Add("x")

	done := make(chan struct{})
	go func() {
		q.Pause()
		q.Pause()
		q.Resume()
		q.Resume()
		close(done)
	}()

	assertDone(t, done, "pause/resume")
}

func TestBounded_AddContextCancelled(t *testing.T) {
	q := newQueue(t, 1)
	q.Add("held")

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- q.AddContext(ctx, "late")
	}()

	time.Sleep(blockWindow)
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(unblockWithin):
		t.Fatal("AddContext did not observe cancellation")
	}
	assert.Equal(t, []string{"held"}, q.Snapshot())
}

func TestBounded_RemoveContextDeadline(t *testing.T) {
	q := newQueue(t, 1)

	ctx, cancel := context.WithTimeout(context.Background(), blockWindow)
	defer cancel()

	item, err := q.RemoveContext(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, item)
}

func TestBounded_RemoveContextWhilePaused(t *testing.T) {
	q := newQueue(t, 2)
	q.Add("a")
	q.Pause()

	ctx, cancel := context.WithTimeout(context.Background(), blockWindow)
	defer cancel()

	_, err := q.RemoveContext(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, q.Len())
}

func TestBounded_ConcurrentProducersConsumers(t *testing.T) {
	const (
		capacity  = 4
		producers = 6
		perProd   = 200
		consumers = 5
	)
	q := newQueue(t, capacity)

	stopSampling := make(chan struct{})
	var violations atomic.Int32
	var samplerWG sync.WaitGroup
	samplerWG.Add(1)
	go func() {
		defer samplerWG.Done()
		for {
			select {
			case <-stopSampling:
				return
			default:
				if n := q.Len(); n < 0 || n > capacity {
					violations.Add(1)
				}
			}
		}
	}()

	var prodWG sync.WaitGroup
	for p := 0; p < producers; p++ {
		prodWG.Add(1)
		go func(id int) {
			defer prodWG.Done()
			for i := 0; i < perProd; i++ {
				q.Add(fmt.Sprintf("P%d-%d", id, i))
			}
		}(p)
	}

	total := producers * perProd
	var consumed atomic.Int32
	seen := sync.Map{}
	var consWG sync.WaitGroup
	for c := 0; c < consumers; c++ {
		consWG.Add(1)
		go func() {
			defer consWG.Done()
			for consumed.Load() < int32(total) {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				item, err := q.RemoveContext(ctx)
				cancel()
				if err != nil {
					continue
				}
				_, dup := seen.LoadOrStore(item, true)
				assert.False(t, dup, "item %s consumed twice", item)
				consumed.Add(1)
			}
		}()
	}

	// Pause midway to exercise the paused path under load.
	time.Sleep(10 * time.Millisecond)
	q.Pause()
	time.Sleep(20 * time.Millisecond)
	q.Resume()

	prodWG.Wait()
	consWG.Wait()
	close(stopSampling)
	samplerWG.Wait()

	assert.Equal(t, int32(total), consumed.Load())
	assert.Equal(t, int32(0), violations.Load())
	assert.Equal(t, 0, q.Len())
}
