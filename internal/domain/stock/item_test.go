package stock

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

func fixedClock() Clock {
	return func() time.Time { return testNow }
}

func newRice(t *testing.T, onHand int) *Item {
	t.Helper()
	item, err := NewItem("SKU-001", "Basmati Rice 5kg", "Aisle 3 / Bin B", decimal.NewFromInt(600), onHand, WithClock(fixedClock()))
	require.NoError(t, err)
	return item
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, len(events))
	for i, ev := range events {
		out[i] = ev.Kind
	}
	return out
}

func TestNewItem_Validation(t *testing.T) {
	tests := []struct {
		name    string
		price   decimal.Decimal
		onHand  int
		wantErr bool
	}{
		{"valid", decimal.NewFromInt(10), 5, false},
		{"zero price and quantity", decimal.Zero, 0, false},
		{"negative price", decimal.NewFromInt(-1), 5, true},
		{"negative quantity", decimal.NewFromInt(10), -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := NewItem("SKU", "Name", "Loc", tt.price, tt.onHand)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidOperation)
				assert.Nil(t, item)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.onHand, item.OnHand())
			assert.Equal(t, 0, item.Reserved())
			assert.Equal(t, []EventKind{EventInit}, kinds(item.AuditLog()))
		})
	}
}

func TestItem_Restock(t *testing.T) {
	item := newRice(t, 50)

	require.NoError(t, item.Restock(20))
	assert.Equal(t, 70, item.OnHand())

	for _, bad := range []int{0, -3} {
		err := item.Restock(bad)
		assert.ErrorIs(t, err, ErrInvalidOperation)
	}
	assert.Equal(t, 70, item.OnHand())
	assert.Equal(t, []EventKind{EventInit, EventRestock}, kinds(item.AuditLog()))

	last := item.AuditLog()[1]
	assert.Equal(t, 20, last.Amount)
	assert.Equal(t, 70, last.OnHand)
	assert.Equal(t, testNow, last.At)
}

func TestItem_Reserve(t *testing.T) {
	t.Run("within available", func(t *testing.T) {
		item := newRice(t, 10)
		assert.True(t, item.Reserve(4))
		assert.Equal(t, 4, item.Reserved())
		assert.Equal(t, 6, item.Available())
	})

	t.Run("rejections leave state unchanged", func(t *testing.T) {
		item := newRice(t, 10)
		require.True(t, item.Reserve(7))
		before := len(item.AuditLog())

		assert.False(t, item.Reserve(0))
		assert.False(t, item.Reserve(-2))
		assert.False(t, item.Reserve(4))

		assert.Equal(t, 10, item.OnHand())
		assert.Equal(t, 7, item.Reserved())
		assert.Len(t, item.AuditLog(), before)
	})

	t.Run("exactly available", func(t *testing.T) {
		item := newRice(t, 3)
		assert.True(t, item.Reserve(3))
		assert.Equal(t, 0, item.Available())
		assert.Equal(t, StateOutOfStock, item.State())
	})
}

func TestItem_ReserveThenShip(t *testing.T) {
	tests := []struct {
		onHand, reserve, ship int
	}{
		{10, 10, 10},
		{10, 5, 3},
		{70, 12, 10},
		{1, 1, 1},
	}

	for _, tt := range tests {
		item := newRice(t, tt.onHand)
		require.True(t, item.Reserve(tt.reserve))

		onHandBefore, reservedBefore := item.OnHand(), item.Reserved()
		require.True(t, item.ShipReserved(tt.ship))

		assert.Equal(t, onHandBefore-tt.ship, item.OnHand())
		assert.Equal(t, reservedBefore-tt.ship, item.Reserved())
		assert.LessOrEqual(t, item.Reserved(), item.OnHand())
	}
}

func TestItem_ShipReservedRejections(t *testing.T) {
	item := newRice(t, 10)
	require.True(t, item.Reserve(3))

	assert.False(t, item.ShipReserved(0))
	assert.False(t, item.ShipReserved(-1))
	assert.False(t, item.ShipReserved(4))

	assert.Equal(t, 10, item.OnHand())
	assert.Equal(t, 3, item.Reserved())
}

func TestItem_Release(t *testing.T) {
	item := newRice(t, 10)
	require.True(t, item.Reserve(5))

	item.Release(0)
	item.Release(-4)
	assert.Equal(t, 5, item.Reserved())
	assert.Equal(t, []EventKind{EventInit, EventReserve}, kinds(item.AuditLog()))

	item.Release(2)
	assert.Equal(t, 3, item.Reserved())

	// Over-release is clamped to what is reserved.
	item.Release(50)
	assert.Equal(t, 0, item.Reserved())
	assert.Equal(t, 10, item.OnHand())

	log := item.AuditLog()
	assert.Equal(t, 3, log[len(log)-1].Amount)
}

func TestItem_OriginalDemoSequence(t *testing.T) {
	item := newRice(t, 50)

	require.NoError(t, item.Restock(20))
	assert.True(t, item.Reserve(12))
	assert.True(t, item.ShipReserved(10))
	item.Release(2)

	assert.Equal(t, 60, item.OnHand())
	assert.Equal(t, 0, item.Reserved())
	assert.Equal(t, 60, item.Available())
	assert.Equal(t, StateAvailable, item.State())
	assert.Equal(t,
		[]EventKind{EventInit, EventRestock, EventReserve, EventShip, EventRelease},
		kinds(item.AuditLog()))
}

func TestItem_AuditLogIsCopy(t *testing.T) {
	item := newRice(t, 1)
	log := item.AuditLog()
	log[0].Kind = EventShip

	assert.Equal(t, EventInit, item.AuditLog()[0].Kind)
}

func TestItem_ConcurrentReservations(t *testing.T) {
	item := newRice(t, 100)

	var ok atomic.Int32
	var wg sync.WaitGroup
	for g := 0; g < 20; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				if item.Reserve(1) {
					ok.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(100), ok.Load())
	assert.Equal(t, 100, item.Reserved())
	assert.Equal(t, 0, item.Available())
}

func TestItem_Snapshot(t *testing.T) {
	item := newRice(t, 8)
	require.True(t, item.Reserve(3))

	snap := item.Snapshot()
	assert.Equal(t, "SKU-001", snap.SKU)
	assert.Equal(t, KindBase, snap.Kind)
	assert.Equal(t, 8, snap.OnHand)
	assert.Equal(t, 3, snap.Reserved)
	assert.Equal(t, 5, snap.Available)
	assert.Equal(t, StateAvailable, snap.State)
	assert.Nil(t, snap.ExpiryDate)
}

func TestEvent_String(t *testing.T) {
	ev := Event{At: testNow, Kind: EventRestock, Amount: 20, OnHand: 70}
	assert.Equal(t, "2026-10-18T09:30:00Z RESTOCK +20 onHand=70 reserved=0", ev.String())

	ev = Event{At: testNow, Kind: EventSerialAdded, Serial: "S-1"}
	assert.Equal(t, "2026-10-18T09:30:00Z SERIAL_ADDED serial=S-1", ev.String())
}
