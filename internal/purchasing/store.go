package purchasing

import "context"

// Store is the purchasing unit-of-work port.
type Store interface {
	WithTx(ctx context.Context, fn func(tx Tx) error) error
	Get(ctx context.Context, id int64) (*PurchaseOrder, error)
}

type Tx interface {
	// Insert persists the draft and fills its store-generated id.
	Insert(ctx context.Context, po *PurchaseOrder) error
	SetNumber(ctx context.Context, id int64, number string) error
}
