package stock

import (
	"time"

	"github.com/shopspring/decimal"
)

// PerishableItem is an item with an expiry date. It cannot be reserved on or
// after the expiry day.
type PerishableItem struct {
	*Item
	expiryDate time.Time
}

// NewPerishableItem creates a perishable item. Only the calendar date of
// expiryDate is kept.
func NewPerishableItem(sku, name, location string, baseUnitPrice decimal.Decimal, initialOnHand int, expiryDate time.Time, opts ...Option) (*PerishableItem, error) {
	base, err := NewItem(sku, name, location, baseUnitPrice, initialOnHand, opts...)
	if err != nil {
		return nil, err
	}

	expiry := DateOf(expiryDate)
	p := &PerishableItem{Item: base, expiryDate: expiry}

	base.mu.Lock()
	base.record(Event{Kind: EventSetExpiry, ExpiryDate: &expiry})
	base.mu.Unlock()

	return p, nil
}

func (p *PerishableItem) Kind() Kind { return KindPerishable }

// ExpiryDate returns the expiry date as midnight UTC.
func (p *PerishableItem) ExpiryDate() time.Time {
	return p.expiryDate
}

// Expired reports whether today is on or after the expiry date.
func (p *PerishableItem) Expired() bool {
	return !p.expiryDate.After(p.clock.today())
}

// Reserve rejects every reservation once the item has expired.
func (p *PerishableItem) Reserve(amount int) bool {
	if p.Expired() {
		return false
	}
	return p.Item.Reserve(amount)
}

func (p *PerishableItem) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	snap := p.snapshotLocked(KindPerishable)
	expiry := p.expiryDate
	snap.ExpiryDate = &expiry
	return snap
}
