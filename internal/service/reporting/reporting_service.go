package reporting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockroom/internal/domain/models"
	"github.com/mamadbah2/stockroom/internal/domain/stock"
	repo "github.com/mamadbah2/stockroom/internal/repository/mongodb"
)

const (
	timeLayout = "2006-01-02 15:04 MST"
	// recentAuditEntries is how many audit lines an item summary shows.
	recentAuditEntries = 5
)

// ErrNotifyFailed wraps delivery failures after the report was archived.
var ErrNotifyFailed = errors.New("report notification failed")

// Catalog lists the items a report covers.
type Catalog interface {
	Items() []stock.StockItem
}

// QueueView exposes the bounded queue state included in a report.
type QueueView interface {
	Snapshot() []string
	Paused() bool
}

// Notifier delivers a finished report.
type Notifier interface {
	SendReport(ctx context.Context, notification models.ReportNotification) error
}

// Service builds stock reports, archives them and pushes a notification.
type Service struct {
	catalog  Catalog
	queue    QueueView
	repo     repo.Repository
	notifier Notifier
	clock    stock.Clock
	logger   *zap.Logger
}

// NewService wires a new reporting service instance. queue and notifier may
// be nil.
func NewService(catalog Catalog, queue QueueView, repository repo.Repository, notifier Notifier, clock stock.Clock, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		catalog:  catalog,
		queue:    queue,
		repo:     repository,
		notifier: notifier,
		clock:    clock,
		logger:   logger,
	}
}

// Generate builds a report of the current catalog and queue state.
func (s *Service) Generate() models.StockReport {
	report := models.StockReport{
		ID:          uuid.NewString(),
		GeneratedAt: s.clock.Now(),
		OutOfStock:  []string{},
		QueueItems:  []string{},
	}

	for _, item := range s.catalog.Items() {
		summary := SummarizeItem(item)
		snap := summary.Item
		report.ItemCount++
		report.TotalOnHand += snap.OnHand
		report.TotalReserve += snap.Reserved
		if snap.State == stock.StateOutOfStock {
			report.OutOfStock = append(report.OutOfStock, snap.SKU)
		}
		report.Items = append(report.Items, summary)
	}

	if s.queue != nil {
		report.QueueItems = s.queue.Snapshot()
		report.QueuePaused = s.queue.Paused()
	}

	report.Text = FormatReport(report)
	return report
}

// Publish generates a report, archives it and sends the notification. An
// archive failure aborts; a notification failure is returned wrapped in
// ErrNotifyFailed together with the archived report.
func (s *Service) Publish(ctx context.Context) (models.StockReport, error) {
	report := s.Generate()

	if s.repo != nil {
		if err := s.repo.SaveStockReport(ctx, report); err != nil {
			return models.StockReport{}, fmt.Errorf("archive report: %w", err)
		}
	}
	s.logger.Info("stock report archived", zap.String("report_id", report.ID), zap.Int("items", report.ItemCount))

	if s.notifier == nil {
		return report, nil
	}

	notification := models.ReportNotification{
		ReportID: report.ID,
		Title:    "Stock report " + report.GeneratedAt.Format(timeLayout),
		Message:  report.Text,
	}
	if err := s.notifier.SendReport(ctx, notification); err != nil {
		s.logger.Error("failed to send stock report", zap.String("report_id", report.ID), zap.Error(err))
		return report, fmt.Errorf("%w: %w", ErrNotifyFailed, err)
	}

	s.logger.Info("stock report sent", zap.String("report_id", report.ID))
	return report, nil
}

// FormatReport renders a report as plain text.
func FormatReport(report models.StockReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Stock report (%s)\n", report.GeneratedAt.Format(timeLayout))
	fmt.Fprintf(&b, "Items: %d | on hand: %d | reserved: %d\n", report.ItemCount, report.TotalOnHand, report.TotalReserve)

	if len(report.OutOfStock) == 0 {
		b.WriteString("Out of stock: none\n")
	} else {
		fmt.Fprintf(&b, "Out of stock: %s\n", strings.Join(report.OutOfStock, ", "))
	}

	queueState := "running"
	if report.QueuePaused {
		queueState = "paused"
	}
	fmt.Fprintf(&b, "Queue (%s): %d item(s)", queueState, len(report.QueueItems))
	if len(report.QueueItems) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(report.QueueItems, ", "))
	}
	b.WriteString("\n")

	for _, item := range report.Items {
		b.WriteString("\n")
		b.WriteString(FormatItemSummary(item))
	}
	return b.String()
}

// FormatItemSummary renders one item with its recent audit lines.
func FormatItemSummary(item models.ItemReport) string {
	snap := item.Item

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s @ %s [%s]\n", snap.SKU, snap.Name, snap.Location, snap.State)
	fmt.Fprintf(&b, "  onHand=%d reserved=%d available=%d price=%s\n", snap.OnHand, snap.Reserved, snap.Available, snap.BaseUnitPrice.StringFixed(2))
	if snap.ExpiryDate != nil {
		fmt.Fprintf(&b, "  expires %s\n", snap.ExpiryDate.Format(time.DateOnly))
	}
	if snap.Kind == stock.KindSerialized {
		next := snap.NextSerial
		if next == "" {
			next = "none"
		}
		fmt.Fprintf(&b, "  serials=%d next=%s\n", snap.SerialCount, next)
	}
	b.WriteString("  recent audit:\n")
	for _, line := range item.RecentAudit {
		fmt.Fprintf(&b, "    %s\n", line)
	}
	return b.String()
}

// SummarizeItem builds the summary of a single item.
func SummarizeItem(item stock.StockItem) models.ItemReport {
	return models.ItemReport{
		Item:        item.Snapshot(),
		RecentAudit: recentAudit(item.AuditLog()),
	}
}

func recentAudit(events []stock.Event) []string {
	if len(events) > recentAuditEntries {
		events = events[len(events)-recentAuditEntries:]
	}
	out := make([]string, len(events))
	for i, ev := range events {
		out[i] = ev.String()
	}
	return out
}
