package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/ariefcatur/go-shop-orders.git/internal/inventory"
	kafkax "github.com/ariefcatur/go-shop-orders.git/internal/kafka"
	"github.com/ariefcatur/go-shop-orders.git/internal/orders"
	"github.com/ariefcatur/go-shop-orders.git/internal/redisx"
)

type OrdersHandler struct {
	Orders            *orders.Service
	Store             orders.Store
	Ledger            *inventory.Repo
	Redis             *redis.Client
	ProducerPlaced    *kafkax.Producer
	ProducerCancelled *kafkax.Producer
	Service           string
}

type PlaceOrderReq struct {
	UserID       string            `json:"user_id,omitempty"`
	CustomerName string            `json:"customer_name"`
	Phone        string            `json:"phone"`
	Address      string            `json:"address"`
	Lines        []orders.CartLine `json:"lines"`
	TotalCents   int               `json:"total_cents"`
}

type PlaceOrderResp struct {
	OrderID    string `json:"order_id"`
	TotalCents int    `json:"total_cents"`
}

type CancelOrderReq struct {
	UserID string `json:"user_id,omitempty"`
}

type CancelOrderResp struct {
	OrderID string        `json:"order_id"`
	Status  orders.Status `json:"status"`
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/orders", h.placeOrder)
	r.Post("/orders/{id}/cancel", h.cancelOrder)
	r.Get("/orders/{id}", h.getOrder)
	r.Get("/products", h.listProducts)
	r.Get("/products/{id}/ledger", h.productLedger)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

// statusFor maps the engine's error taxonomy onto HTTP: validation errors to
// 400, missing entities to 404, business conflicts to 409, faults to 500.
func statusFor(err error) int {
	var (
		notFound  *orders.ProductsNotFoundError
		stock     *orders.InsufficientStockError
		mismatch  *orders.TotalMismatchError
		cancelled *orders.AlreadyCancelledError
		blocked   *orders.NotCancellableError
	)
	switch {
	case errors.Is(err, orders.ErrEmptyCart), errors.As(err, &notFound), errors.As(err, &mismatch):
		return http.StatusBadRequest
	case errors.Is(err, orders.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.As(err, &stock), errors.As(err, &cancelled), errors.As(err, &blocked):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *OrdersHandler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.CustomerName == "" || req.Address == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing fields"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orderID, err := h.Orders.PlaceOrder(ctx, orders.PlaceOrderInput{
		UserID:       req.UserID,
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Address:      req.Address,
		Lines:        req.Lines,
		TotalCents:   req.TotalCents,
	})
	if err != nil {
		writeErr(w, err)
		return
	}

	h.cacheStatus(ctx, orderID, orders.StatusPending)
	h.publish(h.ProducerPlaced, orders.EventOrderPlaced, orderID, r.Header.Get("X-Request-Id"),
		orders.OrderPlacedPayload{
			OrderID:    orderID,
			UserID:     req.UserID,
			Lines:      req.Lines,
			TotalCents: req.TotalCents,
		})

	writeJSON(w, http.StatusCreated, PlaceOrderResp{OrderID: orderID, TotalCents: req.TotalCents})
}

func (h *OrdersHandler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing id"})
		return
	}
	var req CancelOrderReq
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req) // body optional
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Orders.CancelOrder(ctx, orderID, req.UserID); err != nil {
		writeErr(w, err)
		return
	}

	h.cacheStatus(ctx, orderID, orders.StatusCancelled)
	h.publish(h.ProducerCancelled, orders.EventOrderCancelled, orderID, r.Header.Get("X-Request-Id"),
		orders.OrderCancelledPayload{OrderID: orderID, Actor: req.UserID})

	writeJSON(w, http.StatusOK, CancelOrderResp{OrderID: orderID, Status: orders.StatusCancelled})
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	// 1) coba cache
	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
		writeJSON(w, http.StatusOK, json.RawMessage(s))
		return
	}

	// 2) fallback DB
	o, _, err := h.Store.Order(ctx, orderID)
	if err != nil {
		writeErr(w, err)
		return
	}
	body, _ := json.Marshal(map[string]any{"status": o.Status})
	_ = h.Redis.Set(ctx, key, body, redisx.TTLStatusCache).Err()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *OrdersHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ps, err := h.Store.ListProducts(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *OrdersHandler) productLedger(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	entries, err := h.Ledger.ListByProduct(ctx, productID, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *OrdersHandler) cacheStatus(ctx context.Context, orderID string, st orders.Status) {
	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	body, _ := json.Marshal(map[string]any{"status": st})
	_ = h.Redis.Set(ctx, key, body, redisx.TTLStatusCache).Err()
}

func (h *OrdersHandler) publish(p *kafkax.Producer, eventType, orderID, trace string, payload any) {
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       trace,
		CorrelationID: orderID,
		Payload:       kafkax.MustMarshal(payload),
	}
	p.Publish(orders.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
