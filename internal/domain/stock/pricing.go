package stock

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Strategy computes the price of units of an item.
type Strategy interface {
	// Name returns a human-readable label, e.g. "Bulk 10+ @ -10%".
	Name() string
	// Price returns the total price; zero when units <= 0.
	Price(item StockItem, units int) decimal.Decimal
}

// Expiring is implemented by items that carry an expiry date.
type Expiring interface {
	ExpiryDate() time.Time
}

var one = decimal.NewFromInt(1)

// StrategyFunc adapts a plain function to the Strategy interface.
type StrategyFunc struct {
	name string
	fn   func(item StockItem, units int) decimal.Decimal
}

// NewStrategyFunc wraps fn as a named Strategy.
func NewStrategyFunc(name string, fn func(item StockItem, units int) decimal.Decimal) StrategyFunc {
	return StrategyFunc{name: name, fn: fn}
}

func (s StrategyFunc) Name() string { return s.name }

func (s StrategyFunc) Price(item StockItem, units int) decimal.Decimal {
	if units <= 0 {
		return decimal.Zero
	}
	return s.fn(item, units)
}

// FlatRatePricing charges the base unit price for every unit.
type FlatRatePricing struct{}

// NewFlatRatePricing creates the baseline strategy.
func NewFlatRatePricing() FlatRatePricing {
	return FlatRatePricing{}
}

func (FlatRatePricing) Name() string { return "Flat Rate" }

func (FlatRatePricing) Price(item StockItem, units int) decimal.Decimal {
	return flatPrice(item, units)
}

// BulkDiscountPricing discounts the whole order once units reach a threshold.
type BulkDiscountPricing struct {
	threshold int
	discount  decimal.Decimal
}

// NewBulkDiscountPricing creates a bulk strategy. threshold must be positive
// and discount in [0,1).
func NewBulkDiscountPricing(threshold int, discount decimal.Decimal) (*BulkDiscountPricing, error) {
	if threshold <= 0 {
		return nil, fmt.Errorf("%w: threshold must be > 0", ErrInvalidOperation)
	}
	if !validFraction(discount) {
		return nil, fmt.Errorf("%w: discount must be in [0,1)", ErrInvalidOperation)
	}
	return &BulkDiscountPricing{threshold: threshold, discount: discount}, nil
}

func (b *BulkDiscountPricing) Name() string {
	return fmt.Sprintf("Bulk %d+ @ -%s%%", b.threshold, percent(b.discount))
}

func (b *BulkDiscountPricing) Price(item StockItem, units int) decimal.Decimal {
	total := flatPrice(item, units)
	if units >= b.threshold {
		total = total.Mul(one.Sub(b.discount))
	}
	return total
}

// ClearancePricing marks down perishable items expiring within a window of
// days. Everything else is priced flat.
type ClearancePricing struct {
	daysWindow int
	markdown   decimal.Decimal
	clock      Clock
}

// NewClearancePricing creates a clearance strategy. daysWindow must be
// positive and markdown in [0,1). A nil clock uses time.Now.
func NewClearancePricing(daysWindow int, markdown decimal.Decimal, clock Clock) (*ClearancePricing, error) {
	if daysWindow <= 0 {
		return nil, fmt.Errorf("%w: days window must be > 0", ErrInvalidOperation)
	}
	if !validFraction(markdown) {
		return nil, fmt.Errorf("%w: markdown must be in [0,1)", ErrInvalidOperation)
	}
	return &ClearancePricing{daysWindow: daysWindow, markdown: markdown, clock: clock}, nil
}

func (c *ClearancePricing) Name() string {
	return fmt.Sprintf("Clearance (%d-day, -%s%%)", c.daysWindow, percent(c.markdown))
}

func (c *ClearancePricing) Price(item StockItem, units int) decimal.Decimal {
	total := flatPrice(item, units)
	if c.inWindow(item) {
		total = total.Mul(one.Sub(c.markdown))
	}
	return total
}

// inWindow reports today <= expiry <= today+daysWindow.
func (c *ClearancePricing) inWindow(item StockItem) bool {
	perishable, ok := item.(Expiring)
	if !ok {
		return false
	}
	today := c.clock.today()
	expiry := DateOf(perishable.ExpiryDate())
	return !expiry.Before(today) && !expiry.After(today.AddDate(0, 0, c.daysWindow))
}

func flatPrice(item StockItem, units int) decimal.Decimal {
	if units <= 0 {
		return decimal.Zero
	}
	return item.BaseUnitPrice().Mul(decimal.NewFromInt(int64(units)))
}

func validFraction(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThan(one)
}

func percent(d decimal.Decimal) string {
	return d.Mul(decimal.NewFromInt(100)).Round(0).String()
}
