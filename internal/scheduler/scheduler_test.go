package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stockroom/internal/config"
	"github.com/mamadbah2/stockroom/internal/domain/models"
)

type countingPublisher struct {
	calls atomic.Int32
	err   error
}

func (p *countingPublisher) Publish(context.Context) (models.StockReport, error) {
	p.calls.Add(1)
	return models.StockReport{ID: "r1"}, p.err
}

func TestNewScheduler_InvalidTimezone(t *testing.T) {
	_, err := NewScheduler(config.ReportingConfig{CronSchedule: "0 20 * * *", Timezone: "Nowhere/City"}, &countingPublisher{}, nil)
	assert.Error(t, err)
}

func TestStart_InvalidSchedule(t *testing.T) {
	s, err := NewScheduler(config.ReportingConfig{CronSchedule: "every evening", Timezone: "UTC"}, &countingPublisher{}, nil)
	require.NoError(t, err)
	assert.Error(t, s.Start())
}

func TestStart_RegistersReportJob(t *testing.T) {
	s, err := NewScheduler(config.ReportingConfig{CronSchedule: "0 20 * * *", Timezone: "Asia/Kolkata"}, &countingPublisher{}, nil)
	require.NoError(t, err)
	assert.True(t, s.nextReport(time.Now()).IsZero())

	require.NoError(t, s.Start())
	defer s.Stop()

	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	next := s.nextReport(time.Date(2026, 10, 18, 12, 0, 0, 0, loc))
	assert.Equal(t, time.Date(2026, 10, 18, 20, 0, 0, 0, loc).Unix(), next.Unix())

	// 20:00 in Kolkata is 14:30 UTC.
	next = s.nextReport(time.Date(2026, 10, 18, 15, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 10, 19, 14, 30, 0, 0, time.UTC).Unix(), next.Unix())
}

func TestSendStockReport(t *testing.T) {
	pub := &countingPublisher{}
	s, err := NewScheduler(config.ReportingConfig{CronSchedule: "0 20 * * *", Timezone: "UTC"}, pub, nil)
	require.NoError(t, err)

	s.sendStockReport()
	pub.err = errors.New("webhook down")
	s.sendStockReport()

	assert.Equal(t, int32(2), pub.calls.Load())
}
