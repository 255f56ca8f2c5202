package stock

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// SerializedItem tracks one serial number per physical unit. Serials are
// consumed oldest first on shipment, so len(serials) == on-hand at all times.
type SerializedItem struct {
	*Item
	serials []string // guarded by Item.mu
}

// NewSerializedItem creates a serial-tracked item. Blank entries in
// initialSerials are skipped; the remaining count must equal initialOnHand.
func NewSerializedItem(sku, name, location string, baseUnitPrice decimal.Decimal, initialOnHand int, initialSerials []string, opts ...Option) (*SerializedItem, error) {
	serials := make([]string, 0, len(initialSerials))
	for _, serial := range initialSerials {
		serial = strings.TrimSpace(serial)
		if serial == "" {
			continue
		}
		if slices.Contains(serials, serial) {
			return nil, fmt.Errorf("%w: duplicate serial %q", ErrInvalidOperation, serial)
		}
		serials = append(serials, serial)
	}
	if initialOnHand >= 0 && len(serials) != initialOnHand {
		return nil, fmt.Errorf("%w: %d serials for %d units", ErrInvalidOperation, len(serials), initialOnHand)
	}

	base, err := NewItem(sku, name, location, baseUnitPrice, initialOnHand, opts...)
	if err != nil {
		return nil, err
	}

	s := &SerializedItem{Item: base, serials: serials}

	base.mu.Lock()
	base.record(Event{Kind: EventSerialsInit, SerialCount: len(serials)})
	base.mu.Unlock()

	return s, nil
}

func (s *SerializedItem) Kind() Kind { return KindSerialized }

// Restock always fails: units must be added with RestockWithSerial.
func (s *SerializedItem) Restock(int) error {
	return fmt.Errorf("%w: %w", ErrInvalidOperation, ErrSerialRequired)
}

// RestockWithSerial adds one unit identified by serial to the tail of the queue.
func (s *SerializedItem) RestockWithSerial(serial string) error {
	serial = strings.TrimSpace(serial)
	if serial == "" {
		return fmt.Errorf("%w: serial must not be blank", ErrInvalidOperation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.Contains(s.serials, serial) {
		return fmt.Errorf("%w: serial %q already in stock", ErrInvalidOperation, serial)
	}
	if err := s.restockLocked(1); err != nil {
		return err
	}
	s.serials = append(s.serials, serial)
	s.record(Event{Kind: EventSerialAdded, Amount: 1, Serial: serial, SerialCount: len(s.serials)})
	return nil
}

// ShipReserved ships reserved units and drops their serials.
func (s *SerializedItem) ShipReserved(amount int) bool {
	_, ok := s.ShipSerials(amount)
	return ok
}

// ShipSerials is ShipReserved that also returns the serials that left stock.
func (s *SerializedItem) ShipSerials(amount int) ([]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.shipLocked(amount) {
		return nil, false
	}

	shipped := make([]string, amount)
	copy(shipped, s.serials[:amount])
	s.serials = slices.Delete(s.serials, 0, amount)
	s.record(Event{Kind: EventSerialsShipped, Amount: amount, SerialCount: len(s.serials)})
	return shipped, true
}

// PeekNextSerial returns the serial that will ship next.
func (s *SerializedItem) PeekNextSerial() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextSerialLocked()
}

func (s *SerializedItem) nextSerialLocked() (string, bool) {
	if len(s.serials) == 0 {
		return "", false
	}
	return s.serials[0], true
}

// Serials returns the serials in stock, oldest first.
func (s *SerializedItem) Serials() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.serials)
}

func (s *SerializedItem) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshotLocked(KindSerialized)
	snap.SerialCount = len(s.serials)
	snap.NextSerial, _ = s.nextSerialLocked()
	return snap
}
