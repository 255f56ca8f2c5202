package inventory

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockroom/internal/domain/models"
	"github.com/mamadbah2/stockroom/internal/domain/stock"
)

var (
	// ErrItemNotFound indicates no item is registered under the SKU.
	ErrItemNotFound = errors.New("item not found")
	// ErrItemExists indicates the SKU is already registered.
	ErrItemExists = errors.New("item already exists")
	// ErrUnknownStrategy indicates the pricing strategy key is not registered.
	ErrUnknownStrategy = errors.New("unknown pricing strategy")
	// ErrNotSerialized indicates a serial operation on an item without serials.
	ErrNotSerialized = errors.New("item is not serial-tracked")
)

// DefaultStrategy is used for quotes that name no strategy.
const DefaultStrategy = "flat"

// Service is the SKU catalog. Items synchronize their own operations; the
// service lock only guards the registries.
type Service struct {
	mu         sync.RWMutex
	items      map[string]stock.StockItem
	order      []string
	strategies map[string]stock.Strategy

	clock    stock.Clock
	currency string
	logger   *zap.Logger
}

// NewService builds an empty catalog with the flat strategy registered.
func NewService(clock stock.Clock, currency string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		items:      make(map[string]stock.StockItem),
		strategies: make(map[string]stock.Strategy),
		clock:      clock,
		currency:   currency,
		logger:     logger,
	}
	s.RegisterStrategy(DefaultStrategy, stock.NewFlatRatePricing())
	return s
}

// Clock returns the clock handed to new items.
func (s *Service) Clock() stock.Clock {
	return s.clock
}

// RegisterStrategy adds or replaces a pricing strategy under key.
func (s *Service) RegisterStrategy(key string, strategy stock.Strategy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.strategies[strings.ToLower(key)] = strategy
}

// Strategies lists registered strategies sorted by key.
func (s *Service) Strategies() []models.StrategyInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.StrategyInfo, 0, len(s.strategies))
	for key, strategy := range s.strategies {
		out = append(out, models.StrategyInfo{Key: key, Name: strategy.Name()})
	}
	slices.SortFunc(out, func(a, b models.StrategyInfo) int { return strings.Compare(a.Key, b.Key) })
	return out
}

// AddItem registers an already-built item.
func (s *Service) AddItem(item stock.StockItem) error {
	sku := item.SKU()
	if strings.TrimSpace(sku) == "" {
		return fmt.Errorf("%w: sku must not be empty", stock.ErrInvalidOperation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[sku]; exists {
		return fmt.Errorf("%w: %s", ErrItemExists, sku)
	}
	s.items[sku] = item
	s.order = append(s.order, sku)

	s.logger.Info("item registered", zap.String("sku", sku), zap.String("kind", string(item.Kind())))
	return nil
}

// CreateItem builds the requested item variant and registers it.
func (s *Service) CreateItem(req models.CreateItemRequest) (stock.Snapshot, error) {
	item, err := s.buildItem(req)
	if err != nil {
		return stock.Snapshot{}, err
	}
	if err := s.AddItem(item); err != nil {
		return stock.Snapshot{}, err
	}
	return item.Snapshot(), nil
}

// Get looks an item up by SKU.
func (s *Service) Get(sku string) (stock.StockItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[sku]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, sku)
	}
	return item, nil
}

// Items returns every item in registration order.
func (s *Service) Items() []stock.StockItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]stock.StockItem, 0, len(s.order))
	for _, sku := range s.order {
		out = append(out, s.items[sku])
	}
	return out
}

// List returns snapshots of every item in registration order.
func (s *Service) List() []stock.Snapshot {
	items := s.Items()
	out := make([]stock.Snapshot, len(items))
	for i, item := range items {
		out[i] = item.Snapshot()
	}
	return out
}

// Restock adds amount units to a non-serialized item.
func (s *Service) Restock(sku string, amount int) (models.OperationResult, error) {
	item, err := s.Get(sku)
	if err != nil {
		return models.OperationResult{}, err
	}
	if err := item.Restock(amount); err != nil {
		s.logger.Warn("restock rejected", zap.String("sku", sku), zap.Int("amount", amount), zap.Error(err))
		return models.OperationResult{}, err
	}

	s.logger.Info("item restocked", zap.String("sku", sku), zap.Int("amount", amount))
	return s.result(item, models.OperationRestock, amount, true), nil
}

// RestockSerial adds one serial-tracked unit.
func (s *Service) RestockSerial(sku, serial string) (models.OperationResult, error) {
	item, err := s.Get(sku)
	if err != nil {
		return models.OperationResult{}, err
	}
	serialized, ok := item.(*stock.SerializedItem)
	if !ok {
		return models.OperationResult{}, fmt.Errorf("%w: %s", ErrNotSerialized, sku)
	}
	if err := serialized.RestockWithSerial(serial); err != nil {
		s.logger.Warn("serial restock rejected", zap.String("sku", sku), zap.String("serial", serial), zap.Error(err))
		return models.OperationResult{}, err
	}

	s.logger.Info("serial restocked", zap.String("sku", sku), zap.String("serial", serial))
	res := s.result(item, models.OperationRestock, 1, true)
	res.Serials = []string{strings.TrimSpace(serial)}
	return res, nil
}

// Reserve earmarks units. A rejection is reported through Accepted, not err.
func (s *Service) Reserve(sku string, amount int) (models.OperationResult, error) {
	item, err := s.Get(sku)
	if err != nil {
		return models.OperationResult{}, err
	}

	ok := item.Reserve(amount)
	s.logOutcome("reserve", sku, amount, ok)
	return s.result(item, models.OperationReserve, amount, ok), nil
}

// Release un-earmarks units, clamped to what is reserved.
func (s *Service) Release(sku string, amount int) (models.OperationResult, error) {
	item, err := s.Get(sku)
	if err != nil {
		return models.OperationResult{}, err
	}

	item.Release(amount)
	s.logger.Info("reservation released", zap.String("sku", sku), zap.Int("amount", amount))
	return s.result(item, models.OperationRelease, amount, true), nil
}

// Ship removes reserved units from stock. Serialized items report the serials shipped.
func (s *Service) Ship(sku string, amount int) (models.OperationResult, error) {
	item, err := s.Get(sku)
	if err != nil {
		return models.OperationResult{}, err
	}

	var (
		ok      bool
		serials []string
	)
	if serialized, isSerialized := item.(*stock.SerializedItem); isSerialized {
		serials, ok = serialized.ShipSerials(amount)
	} else {
		ok = item.ShipReserved(amount)
	}

	s.logOutcome("ship", sku, amount, ok)
	res := s.result(item, models.OperationShip, amount, ok)
	res.Serials = serials
	return res, nil
}

// Quote prices units of an item under the named strategy.
func (s *Service) Quote(sku string, units int, strategyKey string) (models.PriceQuote, error) {
	item, err := s.Get(sku)
	if err != nil {
		return models.PriceQuote{}, err
	}

	key := strings.ToLower(strings.TrimSpace(strategyKey))
	if key == "" {
		key = DefaultStrategy
	}

	s.mu.RLock()
	strategy, ok := s.strategies[key]
	s.mu.RUnlock()
	if !ok {
		return models.PriceQuote{}, fmt.Errorf("%w: %s", ErrUnknownStrategy, strategyKey)
	}

	return models.PriceQuote{
		SKU:      sku,
		Units:    units,
		Strategy: key,
		Label:    strategy.Name(),
		Total:    strategy.Price(item, units).Round(2),
		Currency: s.currency,
	}, nil
}

// AuditLog returns the latest limit audit events; limit <= 0 returns all.
func (s *Service) AuditLog(sku string, limit int) ([]stock.Event, error) {
	item, err := s.Get(sku)
	if err != nil {
		return nil, err
	}

	log := item.AuditLog()
	if limit > 0 && len(log) > limit {
		log = log[len(log)-limit:]
	}
	return log, nil
}

func (s *Service) buildItem(req models.CreateItemRequest) (stock.StockItem, error) {
	opts := []stock.Option{stock.WithClock(s.clock)}

	switch req.Kind {
	case stock.KindBase, "":
		return stock.NewItem(req.SKU, req.Name, req.Location, req.BaseUnitPrice, req.InitialOnHand, opts...)
	case stock.KindPerishable:
		expiry, err := stock.ParseDate(req.ExpiryDate)
		if err != nil {
			return nil, fmt.Errorf("%w: expiry date %q: %v", stock.ErrInvalidOperation, req.ExpiryDate, err)
		}
		return stock.NewPerishableItem(req.SKU, req.Name, req.Location, req.BaseUnitPrice, req.InitialOnHand, expiry, opts...)
	case stock.KindSerialized:
		return stock.NewSerializedItem(req.SKU, req.Name, req.Location, req.BaseUnitPrice, req.InitialOnHand, req.Serials, opts...)
	default:
		return nil, fmt.Errorf("%w: unknown item kind %q", stock.ErrInvalidOperation, req.Kind)
	}
}

func (s *Service) result(item stock.StockItem, op models.StockOperation, amount int, accepted bool) models.OperationResult {
	return models.OperationResult{
		SKU:       item.SKU(),
		Operation: op,
		Amount:    amount,
		Accepted:  accepted,
		Item:      item.Snapshot(),
	}
}

func (s *Service) logOutcome(op, sku string, amount int, ok bool) {
	if ok {
		s.logger.Info(op+" accepted", zap.String("sku", sku), zap.Int("amount", amount))
		return
	}
	s.logger.Info(op+" rejected", zap.String("sku", sku), zap.Int("amount", amount))
}
