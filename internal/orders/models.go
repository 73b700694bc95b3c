package orders

import "time"

type Product struct {
	ID         string
	SKU        string
	Name       string
	Category   string
	OwnerID    string
	Visible    bool
	Stock      int
	PriceCents int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CartLine is one line of an incoming checkout request. Lines are kept as
// the caller sent them; receipts show the original granularity even when
// several lines reference one product.
type CartLine struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

type Order struct {
	ID           string
	UserID       string // empty = guest checkout
	CustomerName string
	Phone        string
	Address      string
	Status       Status // lihat status.go
	TotalCents   int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OrderLine snapshots product name and price at placement time and is never
// updated afterwards.
type OrderLine struct {
	ID          int64
	OrderID     string
	ProductID   string
	ProductName string
	PriceCents  int
	Qty         int
}
