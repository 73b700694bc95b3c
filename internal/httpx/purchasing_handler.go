package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/ariefcatur/go-shop-orders.git/internal/kafka"
	"github.com/ariefcatur/go-shop-orders.git/internal/orders"
	"github.com/ariefcatur/go-shop-orders.git/internal/purchasing"
)

type PurchasingHandler struct {
	Purchasing *purchasing.Service
	Store      purchasing.Store
	Producer   *kafkax.Producer
	Service    string
}

type CreatePurchaseOrderReq struct {
	Supplier   string `json:"supplier"`
	Note       string `json:"note,omitempty"`
	TotalCents int    `json:"total_cents"`
}

func (h *PurchasingHandler) Register(r *chi.Mux) {
	r.Post("/purchase-orders", h.create)
	r.Get("/purchase-orders/{id}", h.get)
}

func (h *PurchasingHandler) create(w http.ResponseWriter, r *http.Request) {
	var req CreatePurchaseOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	po, err := h.Purchasing.Create(ctx, &purchasing.PurchaseOrder{
		Supplier:   req.Supplier,
		Note:       req.Note,
		TotalCents: req.TotalCents,
	})
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, purchasing.ErrNoSupplier) {
			code = http.StatusBadRequest
		}
		writeJSON(w, code, map[string]string{"error": err.Error()})
		return
	}

	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventPurchaseCreated,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: po.Number,
		Payload: kafkax.MustMarshal(orders.PurchaseCreatedPayload{
			PurchaseOrderID: po.ID,
			Number:          po.Number,
		}),
	}
	h.Producer.Publish([]byte(po.Number), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventPurchaseCreated)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)

	writeJSON(w, http.StatusCreated, po)
}

func (h *PurchasingHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	po, err := h.Store.Get(ctx, id)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, purchasing.ErrNotFound) {
			code = http.StatusNotFound
		}
		writeJSON(w, code, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, po)
}
