package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockroom/internal/config"
	"github.com/mamadbah2/stockroom/internal/queue"
	"github.com/mamadbah2/stockroom/internal/service/simulation"
	"github.com/mamadbah2/stockroom/pkg/logger"
)

func main() {
	produceDelay := flag.Duration("produce-delay", 700*time.Millisecond, "delay before each item is added")
	consumeDelay := flag.Duration("consume-delay", time.Second, "delay after each item is removed")
	pauseAfter := flag.Duration("pause-after", 4*time.Second, "pause the queue this long after start (0 disables)")
	pauseFor := flag.Duration("pause-for", 3*time.Second, "how long the queue stays paused")
	runFor := flag.Duration("run-for", 13*time.Second, "stop the simulation after this long")
	flag.Parse()

	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.NewWithLevel(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	p := newPrompter(os.Stdin, os.Stdout)
	fmt.Println("=== INVENTORY QUEUE SIMULATION ===")

	itemCount, err := p.positiveInt("Enter number of items to add: ")
	if err != nil {
		exitOnPromptError(baseLogger, err)
	}
	consumers, err := p.positiveInt("Enter number of consumers: ")
	if err != nil {
		exitOnPromptError(baseLogger, err)
	}
	items, err := p.labels(itemCount)
	if err != nil {
		exitOnPromptError(baseLogger, err)
	}

	q, err := queue.NewBounded[string](cfg.Queue.Capacity, logger.Named(baseLogger, "queue"))
	if err != nil {
		baseLogger.Fatal("failed to init queue", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *runFor)
	defer cancel()

	sup := simulation.NewSupervisor(q, logger.Named(baseLogger, "simulation"))
	res, err := sup.Run(ctx, simulation.Config{
		Items:        items,
		Consumers:    consumers,
		ProduceDelay: *produceDelay,
		ConsumeDelay: *consumeDelay,
		PauseAfter:   *pauseAfter,
		PauseFor:     *pauseFor,
	})

	fmt.Printf("\nStopping simulation after %s: produced %d, consumed %d, left in queue %d.\n",
		res.Elapsed.Round(time.Millisecond), len(res.Produced), len(res.Consumed), q.Len())
	for _, c := range res.Consumed {
		fmt.Printf("  consumer-%d took %s\n", c.Consumer, c.Item)
	}
	if err != nil {
		baseLogger.Warn("simulation stopped early", zap.Error(err))
	}
}

func exitOnPromptError(log *zap.Logger, err error) {
	if isEOF(err) {
		fmt.Fprintln(os.Stderr, "\ninput closed, nothing to simulate")
		os.Exit(1)
	}
	log.Fatal("failed to read input", zap.Error(err))
}
