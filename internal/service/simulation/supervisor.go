// Package simulation drives the bounded queue with one producer and a pool of
// consumers, optionally pausing the queue for a window mid-run.
package simulation

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNoItems is returned when there is nothing to produce.
	ErrNoItems = errors.New("simulation needs at least one item")
	// ErrNoConsumers is returned when the consumer count is not positive.
	ErrNoConsumers = errors.New("simulation needs at least one consumer")
)

// Queue is the blocking buffer under test.
type Queue interface {
	AddContext(ctx context.Context, item string) error
	RemoveContext(ctx context.Context) (string, error)
	Pause()
	Resume()
}

// Config describes one simulation run.
type Config struct {
	Items        []string
	Consumers    int
	ProduceDelay time.Duration
	ConsumeDelay time.Duration
	// PauseAfter > 0 pauses the queue that long after start, for PauseFor.
	PauseAfter time.Duration
	PauseFor   time.Duration
}

// Validate checks the run parameters.
func (c Config) Validate() error {
	if len(c.Items) == 0 {
		return ErrNoItems
	}
	if c.Consumers <= 0 {
		return ErrNoConsumers
	}
	if c.ProduceDelay < 0 || c.ConsumeDelay < 0 || c.PauseAfter < 0 || c.PauseFor < 0 {
		return errors.New("simulation delays must not be negative")
	}
	return nil
}

// Consumption records one item taken off the queue.
type Consumption struct {
	Consumer int
	Item     string
}

// Result summarizes a finished run.
type Result struct {
	Produced []string
	Consumed []Consumption
	Paused   bool
	Elapsed  time.Duration
}

// Supervisor runs producer/consumer simulations against a queue.
type Supervisor struct {
	queue  Queue
	logger *zap.Logger
}

// NewSupervisor wires a supervisor around q.
func NewSupervisor(q Queue, logger *zap.Logger) *Supervisor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Supervisor{queue: q, logger: logger}
}

// Run produces every item, waits until all of them are consumed and returns
// what happened. Cancelling ctx stops every goroutine; Run then returns the
// partial result with ctx's error.
func (s *Supervisor) Run(ctx context.Context, cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	runCtx, finish := context.WithCancel(gctx)
	defer finish()

	var (
		mu       sync.Mutex
		result   Result
		consumed atomic.Int64
		total    = int64(len(cfg.Items))
	)

	g.Go(func() error {
		for _, item := range cfg.Items {
			if err := s.queue.AddContext(runCtx, item); err != nil {
				return ignoreFinished(runCtx, gctx, err)
			}
			mu.Lock()
			result.Produced = append(result.Produced, item)
			mu.Unlock()
			s.logger.Info("produced", zap.String("item", item))

			if err := sleep(runCtx, cfg.ProduceDelay); err != nil {
				return ignoreFinished(runCtx, gctx, err)
			}
		}
		return nil
	})

	for id := 1; id <= cfg.Consumers; id++ {
		g.Go(func() error {
			for {
				item, err := s.queue.RemoveContext(runCtx)
				if err != nil {
					return ignoreFinished(runCtx, gctx, err)
				}
				mu.Lock()
				result.Consumed = append(result.Consumed, Consumption{Consumer: id, Item: item})
				mu.Unlock()
				s.logger.Info("consumed", zap.Int("consumer", id), zap.String("item", item))

				if consumed.Add(1) == total {
					finish()
					return nil
				}
				if err := sleep(runCtx, cfg.ConsumeDelay); err != nil {
					return ignoreFinished(runCtx, gctx, err)
				}
			}
		})
	}

	if cfg.PauseAfter > 0 {
		g.Go(func() error {
			if err := sleep(runCtx, cfg.PauseAfter); err != nil {
				return ignoreFinished(runCtx, gctx, err)
			}
			s.queue.Pause()
			mu.Lock()
			result.Paused = true
			mu.Unlock()
			s.logger.Info("simulation paused queue", zap.Duration("for", cfg.PauseFor))

			defer func() {
				s.queue.Resume()
				s.logger.Info("simulation resumed queue")
			}()
			return ignoreFinished(runCtx, gctx, sleep(runCtx, cfg.PauseFor))
		})
	}

	err := g.Wait()
	result.Elapsed = time.Since(start)
	if err == nil {
		err = ctx.Err()
	}
	return result, err
}

// ignoreFinished swallows the cancellation caused by a completed run while
// keeping errors from the parent context.
func ignoreFinished(runCtx, parent context.Context, err error) error {
	if err == nil {
		return nil
	}
	if runCtx.Err() != nil && parent.Err() == nil {
		return nil
	}
	return err
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
