package orders

import (
	"context"

	"github.com/ariefcatur/go-shop-orders.git/internal/inventory"
)

// Store is the unit-of-work port of the order engine. Implementations must
// guarantee that everything done through the Tx handed to fn either commits
// as a whole or leaves no trace.
type Store interface {
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Order(ctx context.Context, id string) (*Order, []OrderLine, error)
	ListProducts(ctx context.Context) ([]Product, error)
}

// Tx is the statement set available inside one transaction.
type Tx interface {
	// ProductsByIDs resolves ids to current catalog rows. Ids absent from
	// the result do not exist.
	ProductsByIDs(ctx context.Context, ids []string) (map[string]Product, error)

	// ReserveStock atomically decrements stock by qty when at least qty is
	// available — one conditional statement, not a read-then-write pair.
	// ok reports whether a row was affected; on success newStock is the
	// quantity after the decrement.
	ReserveStock(ctx context.Context, productID string, qty int) (newStock int, ok bool, err error)

	// ProductStock re-reads the current quantity, used to report how much
	// was available after a failed reservation.
	ProductStock(ctx context.Context, productID string) (int, error)

	// RestoreStock adds qty back unconditionally. found is false when the
	// product row no longer exists.
	RestoreStock(ctx context.Context, productID string, qty int) (newStock int, found bool, err error)

	InsertOrder(ctx context.Context, o *Order) error
	InsertLines(ctx context.Context, lines []OrderLine) error
	AppendLedger(ctx context.Context, entries []inventory.Entry) error

	// OrderForUpdate loads an order and its lines under a row lock,
	// returning ErrOrderNotFound when no such order exists.
	OrderForUpdate(ctx context.Context, id string) (*Order, []OrderLine, error)

	// MarkCancelled flips the status to CANCELLED iff it is still PENDING,
	// reporting whether a row was affected.
	MarkCancelled(ctx context.Context, id string) (bool, error)
}
