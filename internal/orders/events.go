package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderPlaced     = "OrderPlaced"
	EventOrderCancelled  = "OrderCancelled"
	EventPurchaseCreated = "PurchaseOrderCreated"
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // salah satu const di atas
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g., "shop-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // biasanya order_id
	Payload       json.RawMessage `json:"payload"`
}

// ---- Payload tipe per event ----

type OrderPlacedPayload struct {
	OrderID    string     `json:"order_id"`
	UserID     string     `json:"user_id,omitempty"`
	Lines      []CartLine `json:"lines"`
	TotalCents int        `json:"total_cents"`
}

type OrderCancelledPayload struct {
	OrderID string `json:"order_id"`
	Actor   string `json:"actor"`
}

type PurchaseCreatedPayload struct {
	PurchaseOrderID int64  `json:"purchase_order_id"`
	Number          string `json:"number"`
}
