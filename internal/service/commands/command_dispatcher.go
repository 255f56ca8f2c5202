package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockroom/internal/domain/models"
	"github.com/mamadbah2/stockroom/internal/domain/stock"
	"github.com/mamadbah2/stockroom/internal/service/reporting"
)

// ErrInvalidArguments indicates the command payload could not be parsed.
var ErrInvalidArguments = errors.New("invalid command arguments")

// ErrUnsupportedCommand indicates we do not support the requested command.
var ErrUnsupportedCommand = errors.New("unsupported command")

// Inventory defines the catalog operations required by the dispatcher.
type Inventory interface {
	Get(sku string) (stock.StockItem, error)
	Restock(sku string, amount int) (models.OperationResult, error)
	RestockSerial(sku, serial string) (models.OperationResult, error)
	Reserve(sku string, amount int) (models.OperationResult, error)
	Release(sku string, amount int) (models.OperationResult, error)
	Ship(sku string, amount int) (models.OperationResult, error)
	Quote(sku string, units int, strategyKey string) (models.PriceQuote, error)
}

// QueueControl defines the queue operations exposed as commands.
type QueueControl interface {
	Snapshot() []string
	Cap() int
	Paused() bool
	Pause()
	Resume()
}

// ReportPublisher builds and delivers a stock report on demand.
type ReportPublisher interface {
	Publish(ctx context.Context) (models.StockReport, error)
}

// Dispatcher executes parsed commands.
type Dispatcher interface {
	HandleCommand(ctx context.Context, cmd models.Command) (string, error)
}

// Service implements the Dispatcher interface.
type Service struct {
	inventory Inventory
	queue     QueueControl
	reporting ReportPublisher
	logger    *zap.Logger
}

// NewService constructs a command dispatcher. queue and reporting may be nil,
// in which case their commands are unsupported.
func NewService(inventory Inventory, queue QueueControl, reporting ReportPublisher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		inventory: inventory,
		queue:     queue,
		reporting: reporting,
		logger:    logger,
	}
}

// HandleCommand runs the command and returns a human-readable reply.
// Operational rejections (not enough stock, expired item) are replies, not errors.
func (s *Service) HandleCommand(ctx context.Context, cmd models.Command) (string, error) {
	s.logger.Debug("dispatching command", zap.String("command", string(cmd.Type)), zap.Strings("args", cmd.Args))

	switch cmd.Type {
	case models.CommandRestock:
		sku, amount, err := skuAndAmount(cmd)
		if err != nil {
			return "", err
		}
		res, err := s.inventory.Restock(sku, amount)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Restocked %s by %d. %s", sku, amount, quantities(res.Item)), nil
	case models.CommandSerial:
		if len(cmd.Args) < 2 {
			return "", ErrInvalidArguments
		}
		sku, serial := cmd.Args[0], cmd.Args[1]
		res, err := s.inventory.RestockSerial(sku, serial)
		if err != nil {
			return "", err
		}
		message := fmt.Sprintf("Added serial %s to %s. %s", serial, sku, quantities(res.Item))
		if next, ok := s.nextSerial(sku); ok {
			message += fmt.Sprintf(" Next to ship: %s.", next)
		}
		return message, nil
	case models.CommandReserve:
		sku, amount, err := skuAndAmount(cmd)
		if err != nil {
			return "", err
		}
		res, err := s.inventory.Reserve(sku, amount)
		if err != nil {
			return "", err
		}
		if !res.Accepted {
			return fmt.Sprintf("Cannot reserve %d of %s: %d available, state %s.", amount, sku, res.Item.Available, res.Item.State), nil
		}
		return fmt.Sprintf("Reserved %d of %s. %s", amount, sku, quantities(res.Item)), nil
	case models.CommandRelease:
		sku, amount, err := skuAndAmount(cmd)
		if err != nil {
			return "", err
		}
		res, err := s.inventory.Release(sku, amount)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Released up to %d of %s. %s", amount, sku, quantities(res.Item)), nil
	case models.CommandShip:
		sku, amount, err := skuAndAmount(cmd)
		if err != nil {
			return "", err
		}
		res, err := s.inventory.Ship(sku, amount)
		if err != nil {
			return "", err
		}
		if !res.Accepted {
			return fmt.Sprintf("Cannot ship %d of %s: only %d reserved.", amount, sku, res.Item.Reserved), nil
		}
		message := fmt.Sprintf("Shipped %d of %s. %s", amount, sku, quantities(res.Item))
		if len(res.Serials) > 0 {
			message += fmt.Sprintf(" Serials: %s.", strings.Join(res.Serials, ", "))
		}
		return message, nil
	case models.CommandPrice:
		sku, units, err := skuAndAmount(cmd)
		if err != nil {
			return "", err
		}
		strategy := ""
		if len(cmd.Args) > 2 {
			strategy = cmd.Args[2]
		}
		quote, err := s.inventory.Quote(sku, units, strategy)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d x %s under %s: %s %s", units, sku, quote.Label, quote.Total.StringFixed(2), quote.Currency), nil
	case models.CommandStock:
		if len(cmd.Args) < 1 {
			return "", ErrInvalidArguments
		}
		item, err := s.inventory.Get(cmd.Args[0])
		if err != nil {
			return "", err
		}
		return reporting.FormatItemSummary(reporting.SummarizeItem(item)), nil
	case models.CommandReport:
		if s.reporting == nil {
			return "", ErrUnsupportedCommand
		}
		report, err := s.reporting.Publish(ctx)
		if err != nil {
			if !errors.Is(err, reporting.ErrNotifyFailed) {
				return "", err
			}
			s.logger.Warn("report archived but not delivered", zap.Error(err))
		}
		return report.Text, nil
	case models.CommandQueue, models.CommandPause, models.CommandResume:
		if s.queue == nil {
			return "", ErrUnsupportedCommand
		}
		switch cmd.Type {
		case models.CommandPause:
			s.queue.Pause()
		case models.CommandResume:
			s.queue.Resume()
		}
		return s.queueStatus(), nil
	default:
		return "", ErrUnsupportedCommand
	}
}

func (s *Service) nextSerial(sku string) (string, bool) {
	item, err := s.inventory.Get(sku)
	if err != nil {
		return "", false
	}
	serialized, ok := item.(*stock.SerializedItem)
	if !ok {
		return "", false
	}
	return serialized.PeekNextSerial()
}

func (s *Service) queueStatus() string {
	state := "running"
	if s.queue.Paused() {
		state = "paused"
	}
	items := s.queue.Snapshot()
	message := fmt.Sprintf("Queue (%s): %d/%d", state, len(items), s.queue.Cap())
	if len(items) > 0 {
		message += fmt.Sprintf(" [%s]", strings.Join(items, ", "))
	}
	return message
}

func skuAndAmount(cmd models.Command) (string, int, error) {
	if len(cmd.Args) < 2 {
		return "", 0, ErrInvalidArguments
	}

	amount, err := strconv.Atoi(cmd.Args[1])
	if err != nil {
		return "", 0, fmt.Errorf("%w: %q is not a number", ErrInvalidArguments, cmd.Args[1])
	}

	return cmd.Args[0], amount, nil
}

func quantities(snap stock.Snapshot) string {
	return fmt.Sprintf("onHand=%d reserved=%d available=%d", snap.OnHand, snap.Reserved, snap.Available)
}
