package stock

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EventKind names the operation recorded by an audit Event.
type EventKind string

const (
	EventInit           EventKind = "INIT"
	EventSetExpiry      EventKind = "SET_EXPIRY"
	EventSerialsInit    EventKind = "SERIALS_INIT"
	EventRestock        EventKind = "RESTOCK"
	EventReserve        EventKind = "RESERVE"
	EventRelease        EventKind = "RELEASE"
	EventShip           EventKind = "SHIP"
	EventSerialAdded    EventKind = "SERIAL_ADDED"
	EventSerialsShipped EventKind = "SERIALS_SHIPPED"
)

// String returns the string representation of the event kind.
func (k EventKind) String() string {
	return string(k)
}

// Event is one append-only audit record. Quantities are the item state right
// after the operation.
type Event struct {
	ID          uuid.UUID  `json:"id"`
	At          time.Time  `json:"at"`
	Kind        EventKind  `json:"kind"`
	Amount      int        `json:"amount"`
	OnHand      int        `json:"on_hand"`
	Reserved    int        `json:"reserved"`
	Serial      string     `json:"serial,omitempty"`
	SerialCount int        `json:"serial_count,omitempty"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
}

// String renders the event as a single human-readable line.
func (e Event) String() string {
	var b strings.Builder
	b.WriteString(e.At.Format(time.RFC3339))
	b.WriteString(" ")
	b.WriteString(string(e.Kind))

	switch e.Kind {
	case EventSetExpiry:
		if e.ExpiryDate != nil {
			b.WriteString(" " + e.ExpiryDate.Format(dateLayout))
		}
		return b.String()
	case EventSerialsInit:
		fmt.Fprintf(&b, " count=%d", e.SerialCount)
		return b.String()
	case EventSerialAdded:
		fmt.Fprintf(&b, " serial=%s", e.Serial)
		return b.String()
	case EventSerialsShipped:
		fmt.Fprintf(&b, " shipped=%d remaining=%d", e.Amount, e.SerialCount)
		return b.String()
	case EventRestock:
		fmt.Fprintf(&b, " +%d", e.Amount)
	case EventInit:
	default:
		fmt.Fprintf(&b, " %d", e.Amount)
	}

	fmt.Fprintf(&b, " onHand=%d reserved=%d", e.OnHand, e.Reserved)
	return b.String()
}
