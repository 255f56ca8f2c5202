package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockroom/internal/config"
	"github.com/mamadbah2/stockroom/internal/domain/models"
)

const reportTimeout = 2 * time.Minute

// ReportPublisher builds and delivers a stock report.
type ReportPublisher interface {
	Publish(ctx context.Context) (models.StockReport, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	publisher ReportPublisher
	cfg       config.ReportingConfig
	logger    *zap.Logger
	reportID  cron.EntryID
}

// NewScheduler creates a new scheduler running in the configured timezone.
func NewScheduler(cfg config.ReportingConfig, publisher ReportPublisher, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("scheduler timezone: %w", err)
	}

	// Standard 5-field cron expressions (min, hour, dom, month, dow).
	c := cron.New(cron.WithLocation(loc))

	return &Scheduler{
		cron:      c,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
	}, nil
}

// Start registers the stock report job and starts the scheduler.
func (s *Scheduler) Start() error {
	id, err := s.cron.AddFunc(s.cfg.CronSchedule, s.sendStockReport)
	if err != nil {
		return fmt.Errorf("schedule stock report %q: %w", s.cfg.CronSchedule, err)
	}
	s.reportID = id

	s.logger.Info("starting scheduler",
		zap.String("schedule", s.cfg.CronSchedule),
		zap.String("timezone", s.cfg.Timezone),
		zap.Time("next_run", s.nextReport(time.Now())),
	)

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// nextReport returns the first report run after t, or the zero time when no
// job is registered.
func (s *Scheduler) nextReport(t time.Time) time.Time {
	entry := s.cron.Entry(s.reportID)
	if !entry.Valid() {
		return time.Time{}
	}
	return entry.Schedule.Next(t)
}

func (s *Scheduler) sendStockReport() {
	s.logger.Info("generating scheduled stock report")
	ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
	defer cancel()

	report, err := s.publisher.Publish(ctx)
	if err != nil {
		s.logger.Error("scheduled stock report failed", zap.Error(err))
		return
	}

	s.logger.Info("scheduled stock report sent", zap.String("report_id", report.ID))
}
