package purchasing

import (
	"fmt"
	"time"
)

// PurchaseOrder is a supplier order. Number is derived from the generated id
// and stamped in a second write inside the same transaction.
type PurchaseOrder struct {
	ID         int64
	Number     string
	Supplier   string
	Note       string
	TotalCents int
	CreatedAt  time.Time
}

// ReferenceNumber formats the human-readable identifier for a stored id.
func ReferenceNumber(id int64) string {
	return fmt.Sprintf("PN-%05d", id)
}
