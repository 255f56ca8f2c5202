package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/stockroom/internal/config"
	"github.com/mamadbah2/stockroom/internal/domain/stock"
)

// RegisterConfiguredStrategies registers the bulk and clearance strategies
// described by cfg under the keys "bulk" and "clearance".
func (s *Service) RegisterConfiguredStrategies(cfg config.PricingConfig) error {
	bulk, err := stock.NewBulkDiscountPricing(cfg.BulkThreshold, cfg.BulkDiscount)
	if err != nil {
		return fmt.Errorf("bulk strategy: %w", err)
	}
	clearance, err := stock.NewClearancePricing(cfg.ClearanceDays, cfg.ClearanceMarkdown, s.clock)
	if err != nil {
		return fmt.Errorf("clearance strategy: %w", err)
	}

	s.RegisterStrategy("bulk", bulk)
	s.RegisterStrategy("clearance", clearance)
	return nil
}

// SeedDemoCatalog registers a rice sack, a carton of milk expiring in four
// days and a serial-tracked laptop.
func (s *Service) SeedDemoCatalog() error {
	opts := []stock.Option{stock.WithClock(s.clock)}

	rice, err := stock.NewItem("SKU-001", "Basmati Rice 5kg", "Aisle 3 / Bin B", decimal.NewFromInt(600), 50, opts...)
	if err != nil {
		return err
	}

	expiry := stock.DateOf(s.clock.Now()).AddDate(0, 0, 4)
	milk, err := stock.NewPerishableItem("SKU-010", "Organic Milk 1L", "Chiller 1", decimal.NewFromInt(75), 30, expiry, opts...)
	if err != nil {
		return err
	}

	laptop, err := stock.NewSerializedItem("SKU-500", "Ultrabook 13\"", "Cage 2", decimal.NewFromInt(82000), 2,
		[]string{"S-AX9Q1", "S-AX9Q2"}, opts...)
	if err != nil {
		return err
	}

	for _, item := range []stock.StockItem{rice, milk, laptop} {
		if err := s.AddItem(item); err != nil {
			return err
		}
	}
	return nil
}
