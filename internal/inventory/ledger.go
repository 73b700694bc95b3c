package inventory

import (
	"fmt"
	"time"
)

// Entry is one immutable stock movement. Entries are append-only: never
// updated, never deleted, and old + change = new always holds.
type Entry struct {
	ID        int64
	ProductID string
	OldQty    int
	Change    int
	NewQty    int
	Reason    string
	CreatedAt time.Time
}

func (e Entry) Validate() error {
	if e.OldQty+e.Change != e.NewQty {
		return fmt.Errorf("ledger entry for %s breaks old+change=new: %d%+d != %d",
			e.ProductID, e.OldQty, e.Change, e.NewQty)
	}
	if e.NewQty < 0 {
		return fmt.Errorf("ledger entry for %s drops stock below zero: %d", e.ProductID, e.NewQty)
	}
	return nil
}

// NewReservation records a decrement tied to an order placement. The update
// is blind, so the old quantity is derived from the returned new one.
func NewReservation(productID string, required, newQty int, reason string) Entry {
	return Entry{
		ProductID: productID,
		OldQty:    newQty + required,
		Change:    -required,
		NewQty:    newQty,
		Reason:    reason,
	}
}

// NewRestoration records the compensating increment written on cancellation.
func NewRestoration(productID string, qty, newQty int, reason string) Entry {
	return Entry{
		ProductID: productID,
		OldQty:    newQty - qty,
		Change:    qty,
		NewQty:    newQty,
		Reason:    reason,
	}
}

// PlacementReason and CancellationReason build the audit line tying an entry
// back to the order and the acting user.
func PlacementReason(orderID, actor string) string {
	return fmt.Sprintf("order %s placed by %s", orderID, actor)
}

func CancellationReason(orderID, actor string) string {
	return fmt.Sprintf("order %s cancelled by %s", orderID, actor)
}
