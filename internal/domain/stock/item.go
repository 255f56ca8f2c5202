// Package stock models stock-keeping units: on-hand and reserved quantities,
// perishable and serial-tracked variants, an append-only audit log, and the
// pricing strategies applied to them.
//
// Validation failures (bad constructor arguments, non-positive restock,
// blank serial) are returned as errors wrapping ErrInvalidOperation.
// Operational rejections (not enough stock, expired item, over-ship) are
// reported as a false result and leave the item unchanged.
package stock

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind identifies the item variant.
type Kind string

const (
	KindBase       Kind = "base"
	KindPerishable Kind = "perishable"
	KindSerialized Kind = "serialized"
)

// State is the logical stock state derived from the available quantity.
type State string

const (
	StateOutOfStock State = "OUT_OF_STOCK"
	StateAvailable  State = "AVAILABLE"
)

// StockItem is the capability shared by every item variant.
type StockItem interface {
	SKU() string
	Name() string
	Location() string
	Kind() Kind
	BaseUnitPrice() decimal.Decimal
	OnHand() int
	Reserved() int
	// Available is max(0, on-hand - reserved).
	Available() int
	State() State

	// Restock adds units. amount <= 0 fails with ErrInvalidOperation.
	Restock(amount int) error
	// Reserve earmarks units; false if they are not available.
	Reserve(amount int) bool
	// Release un-earmarks up to amount units, clamped to what is reserved.
	Release(amount int)
	// ShipReserved removes reserved units from stock.
	ShipReserved(amount int) bool

	AuditLog() []Event
	Snapshot() Snapshot
}

// Snapshot is a consistent, read-only view of an item.
type Snapshot struct {
	SKU           string          `json:"sku" bson:"sku"`
	Name          string          `json:"name" bson:"name"`
	Location      string          `json:"location" bson:"location"`
	Kind          Kind            `json:"kind" bson:"kind"`
	BaseUnitPrice decimal.Decimal `json:"base_unit_price" bson:"base_unit_price"`
	OnHand        int             `json:"on_hand" bson:"on_hand"`
	Reserved      int             `json:"reserved" bson:"reserved"`
	Available     int             `json:"available" bson:"available"`
	State         State           `json:"state" bson:"state"`
	ExpiryDate    *time.Time      `json:"expiry_date,omitempty" bson:"expiry_date,omitempty"`
	NextSerial    string          `json:"next_serial,omitempty" bson:"next_serial,omitempty"`
	SerialCount   int             `json:"serial_count,omitempty" bson:"serial_count,omitempty"`
}

// Option customizes an item at construction.
type Option func(*Item)

// WithClock sets the clock used for audit timestamps and expiry checks.
func WithClock(clock Clock) Option {
	return func(i *Item) {
		i.clock = clock
	}
}

// Item is the plain stock item. Perishable and Serialized items embed it.
// All state is guarded by mu.
type Item struct {
	mu sync.Mutex

	sku           string
	name          string
	location      string
	baseUnitPrice decimal.Decimal
	onHand        int
	reserved      int
	audit         []Event
	clock         Clock
}

// NewItem creates a non-specialized item.
func NewItem(sku, name, location string, baseUnitPrice decimal.Decimal, initialOnHand int, opts ...Option) (*Item, error) {
	if baseUnitPrice.IsNegative() {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrInvalidOperation)
	}
	if initialOnHand < 0 {
		return nil, fmt.Errorf("%w: initial quantity cannot be negative", ErrInvalidOperation)
	}

	item := &Item{
		sku:           sku,
		name:          name,
		location:      location,
		baseUnitPrice: baseUnitPrice,
		onHand:        initialOnHand,
	}
	for _, opt := range opts {
		opt(item)
	}

	item.record(Event{Kind: EventInit, Amount: initialOnHand})
	return item, nil
}

func (i *Item) SKU() string                    { return i.sku }
func (i *Item) Name() string                   { return i.name }
func (i *Item) Location() string               { return i.location }
func (i *Item) Kind() Kind                     { return KindBase }
func (i *Item) BaseUnitPrice() decimal.Decimal { return i.baseUnitPrice }

// OnHand returns the physical units in custody, reserved or not.
func (i *Item) OnHand() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.onHand
}

// Reserved returns the units earmarked but not yet shipped.
func (i *Item) Reserved() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.reserved
}

func (i *Item) Available() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.availableLocked()
}

func (i *Item) State() State {
	i.mu.Lock()
	defer i.mu.Unlock()
	return stateFor(i.availableLocked())
}

func (i *Item) Restock(amount int) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.restockLocked(amount)
}

func (i *Item) Reserve(amount int) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.reserveLocked(amount)
}

func (i *Item) Release(amount int) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if amount <= 0 {
		return
	}
	delta := min(amount, i.reserved)
	i.reserved -= delta
	i.record(Event{Kind: EventRelease, Amount: delta})
}

func (i *Item) ShipReserved(amount int) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.shipLocked(amount)
}

// AuditLog returns a copy of the audit trail, oldest first.
func (i *Item) AuditLog() []Event {
	i.mu.Lock()
	defer i.mu.Unlock()

	out := make([]Event, len(i.audit))
	copy(out, i.audit)
	return out
}

func (i *Item) Snapshot() Snapshot {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.snapshotLocked(KindBase)
}

func (i *Item) availableLocked() int {
	return max(0, i.onHand-i.reserved)
}

func (i *Item) restockLocked(amount int) error {
	if amount <= 0 {
		return fmt.Errorf("%w: restock amount must be > 0", ErrInvalidOperation)
	}
	i.onHand += amount
	i.record(Event{Kind: EventRestock, Amount: amount})
	return nil
}

func (i *Item) reserveLocked(amount int) bool {
	if amount <= 0 || amount > i.availableLocked() {
		return false
	}
	i.reserved += amount
	i.record(Event{Kind: EventReserve, Amount: amount})
	return true
}

func (i *Item) shipLocked(amount int) bool {
	if amount <= 0 || amount > i.reserved {
		return false
	}
	i.reserved -= amount
	i.onHand -= amount
	i.record(Event{Kind: EventShip, Amount: amount})
	return true
}

func (i *Item) snapshotLocked(kind Kind) Snapshot {
	available := i.availableLocked()
	return Snapshot{
		SKU:           i.sku,
		Name:          i.name,
		Location:      i.location,
		Kind:          kind,
		BaseUnitPrice: i.baseUnitPrice,
		OnHand:        i.onHand,
		Reserved:      i.reserved,
		Available:     available,
		State:         stateFor(available),
	}
}

// record stamps ev with an ID, time and the current quantities, then appends it.
func (i *Item) record(ev Event) {
	ev.ID = uuid.New()
	ev.At = i.clock.Now()
	ev.OnHand = i.onHand
	ev.Reserved = i.reserved
	i.audit = append(i.audit, ev)
}

func stateFor(available int) State {
	if available > 0 {
		return StateAvailable
	}
	return StateOutOfStock
}
