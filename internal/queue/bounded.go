// Package queue provides the bounded inventory buffer shared by producers and
// consumers.
//
// Bounded is a monitor: one mutex guards the items and the paused flag, and a
// single condition variable is broadcast on every state change. Waiters
// re-check their predicate in a loop after each wake-up, so spurious wake-ups
// and competing consumers are harmless.
//
// Correct usage:
//   - Any number of goroutines may call Add/Remove concurrently.
//   - Pause and Resume never block.
//   - Use AddContext/RemoveContext when the caller must be able to give up.
package queue

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrInvalidCapacity is returned when a queue is built with a non-positive capacity.
var ErrInvalidCapacity = errors.New("queue capacity must be positive")

// Bounded is a fixed-capacity FIFO with pause/resume control.
type Bounded[T any] struct {
	mu       sync.Mutex
	cond     *sync.Cond
	items    []T
	capacity int
	paused   bool
	logger   *zap.Logger
}

// NewBounded creates a Bounded queue holding at most capacity items.
func NewBounded[T any](capacity int, logger *zap.Logger) (*Bounded[T], error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	q := &Bounded[T]{
		items:    make([]T, 0, capacity),
		capacity: capacity,
		logger:   logger,
	}
	q.cond = sync.NewCond(&q.mu)
	return q, nil
}

// Add appends item, blocking while the queue is full or paused.
func (q *Bounded[T]) Add(item T) {
	_ = q.AddContext(context.Background(), item)
}

// AddContext is Add with cancellation. It returns ctx.Err() if the context is
// done before the item could be appended; the queue is left untouched then.
func (q *Bounded[T]) AddContext(ctx context.Context, item T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	stop := q.wakeOnDone(ctx)
	defer stop()

	for len(q.items) == q.capacity || q.paused {
		if err := ctx.Err(); err != nil {
			return err
		}
		if q.paused {
			q.logger.Debug("queue paused, waiting to resume", zap.String("op", "add"))
		} else {
			q.logger.Debug("queue full, waiting to add", zap.Any("item", item), zap.Int("capacity", q.capacity))
		}
		q.cond.Wait()
	}

	q.items = append(q.items, item)
	q.logger.Debug("item added", zap.Any("item", item), zap.Int("len", len(q.items)))
	q.cond.Broadcast()
	return nil
}

// Remove pops the oldest item, blocking while the queue is empty or paused.
func (q *Bounded[T]) Remove() T {
	item, _ := q.RemoveContext(context.Background())
	return item
}

// RemoveContext is Remove with cancellation. It returns ctx.Err() if the
// context is done before an item could be taken.
func (q *Bounded[T]) RemoveContext(ctx context.Context) (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	stop := q.wakeOnDone(ctx)
	defer stop()

	for len(q.items) == 0 || q.paused {
		if err := ctx.Err(); err != nil {
			var zero T
			return zero, err
		}
		if q.paused {
			q.logger.Debug("queue paused, waiting to resume", zap.String("op", "remove"))
		} else {
			q.logger.Debug("queue empty, waiting to remove")
		}
		q.cond.Wait()
	}

	var zero T
	item := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	q.logger.Debug("item removed", zap.Any("item", item), zap.Int("len", len(q.items)))
	q.cond.Broadcast()
	return item, nil
}

// Pause makes subsequent Add and Remove calls block until Resume.
func (q *Bounded[T]) Pause() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.paused = true
	q.logger.Info("inventory operations paused")
}

// Resume clears the paused flag and wakes every waiter.
func (q *Bounded[T]) Resume() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.paused = false
	q.logger.Info("inventory operations resumed")
	q.cond.Broadcast()
}

// Len returns the number of items currently held.
func (q *Bounded[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Cap returns the fixed capacity.
func (q *Bounded[T]) Cap() int {
	return q.capacity
}

// Paused reports whether the queue is paused.
func (q *Bounded[T]) Paused() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.paused
}

// Snapshot returns a copy of the held items, oldest first.
func (q *Bounded[T]) Snapshot() []T {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]T, len(q.items))
	copy(out, q.items)
	return out
}

// wakeOnDone broadcasts when ctx is done so a waiter can observe the
// cancellation. Must be called with q.mu held; the broadcast takes the lock,
// so it cannot slip in between the waiter's ctx check and cond.Wait.
func (q *Bounded[T]) wakeOnDone(ctx context.Context) func() bool {
	if ctx.Done() == nil {
		return func() bool { return true }
	}
	return context.AfterFunc(ctx, func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		q.cond.Broadcast()
	})
}
