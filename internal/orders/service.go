package orders

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ariefcatur/go-shop-orders.git/internal/identity"
	"github.com/ariefcatur/go-shop-orders.git/internal/inventory"
)

// Actor names used in ledger reasons when no user can be resolved.
const (
	GuestActor  = "guest"
	SystemActor = "system"
)

// Service owns order placement and cancellation. It never touches the store
// outside a transaction and never mutates stock without a paired ledger
// entry.
type Service struct {
	Store    Store
	Identity identity.Resolver
	Log      zerolog.Logger
}

func NewService(store Store, resolver identity.Resolver, log zerolog.Logger) *Service {
	return &Service{Store: store, Identity: resolver, Log: log}
}

type PlaceOrderInput struct {
	UserID       string
	CustomerName string
	Phone        string
	Address      string
	Lines        []CartLine
	TotalCents   int
}

// PlaceOrder runs the whole checkout as one transaction: resolve products,
// persist the order, reserve stock once per distinct product, write one
// ledger entry per product and one order line per cart line. Any failure
// rolls everything back.
func (s *Service) PlaceOrder(ctx context.Context, in PlaceOrderInput) (string, error) {
	if len(in.Lines) == 0 {
		return "", ErrEmptyCart
	}
	for _, l := range in.Lines {
		if l.Qty <= 0 {
			return "", fmt.Errorf("invalid qty %d for product %s", l.Qty, l.ProductID)
		}
	}

	// Stock math is aggregated per product even when the cart repeats one.
	required := make(map[string]int, len(in.Lines))
	for _, l := range in.Lines {
		required[l.ProductID] += l.Qty
	}
	ids := make([]string, 0, len(required))
	for id := range required {
		ids = append(ids, id)
	}
	sort.Strings(ids) // stable lock order across concurrent placements

	actor := s.actorDisplay(ctx, in.UserID, GuestActor)

	o := &Order{
		ID:           uuid.NewString(),
		UserID:       in.UserID,
		CustomerName: in.CustomerName,
		Phone:        in.Phone,
		Address:      in.Address,
		Status:       StatusPending,
		TotalCents:   in.TotalCents,
	}

	err := s.Store.WithTx(ctx, func(tx Tx) error {
		products, err := tx.ProductsByIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("resolve products: %w", err)
		}
		var missing []string
		for _, id := range ids {
			if _, ok := products[id]; !ok {
				missing = append(missing, id)
			}
		}
		if len(missing) > 0 {
			return &ProductsNotFoundError{IDs: missing}
		}

		computed := 0
		for _, l := range in.Lines {
			computed += products[l.ProductID].PriceCents * l.Qty
		}
		if computed != in.TotalCents {
			return &TotalMismatchError{Given: in.TotalCents, Computed: computed}
		}

		// Order row goes in first so ledger reasons can carry its id.
		if err := tx.InsertOrder(ctx, o); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		reason := inventory.PlacementReason(o.ID, actor)
		entries := make([]inventory.Entry, 0, len(ids))
		for _, id := range ids {
			qty := required[id]
			newStock, ok, err := tx.ReserveStock(ctx, id, qty)
			if err != nil {
				return fmt.Errorf("reserve %s: %w", id, err)
			}
			if !ok {
				available, err := tx.ProductStock(ctx, id)
				if err != nil {
					return fmt.Errorf("read stock of %s: %w", id, err)
				}
				return &InsufficientStockError{
					ProductID: id,
					Name:      products[id].Name,
					Required:  qty,
					Available: available,
				}
			}
			entries = append(entries, inventory.NewReservation(id, qty, newStock, reason))
		}

		lines := make([]OrderLine, 0, len(in.Lines))
		for _, l := range in.Lines {
			p := products[l.ProductID]
			lines = append(lines, OrderLine{
				OrderID:     o.ID,
				ProductID:   p.ID,
				ProductName: p.Name,
				PriceCents:  p.PriceCents,
				Qty:         l.Qty,
			})
		}
		if err := tx.InsertLines(ctx, lines); err != nil {
			return fmt.Errorf("insert order lines: %w", err)
		}
		if err := tx.AppendLedger(ctx, entries); err != nil {
			return fmt.Errorf("append ledger: %w", err)
		}
		return nil
	})
	if err != nil {
		s.report("place order", o.ID, err)
		return "", err
	}
	s.Log.Info().Str("order_id", o.ID).Int("total_cents", in.TotalCents).Msg("order placed")
	return o.ID, nil
}

// CancelOrder restores stock for every order line, appends compensating
// ledger entries and flips the order to cancelled, all in one transaction.
func (s *Service) CancelOrder(ctx context.Context, orderID, actorUserID string) error {
	actor := s.actorDisplay(ctx, actorUserID, SystemActor)

	err := s.Store.WithTx(ctx, func(tx Tx) error {
		o, lines, err := tx.OrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o.Status == StatusCancelled {
			return &AlreadyCancelledError{OrderID: orderID}
		}
		if !CanTransition(o.Status, StatusCancelled) {
			return &NotCancellableError{OrderID: orderID, Status: o.Status}
		}

		// Restoration is deliberately per line: two lines for one product
		// yield two compensating entries. Restoring cannot fail a
		// sufficiency check, so the add is unconditional.
		reason := inventory.CancellationReason(orderID, actor)
		entries := make([]inventory.Entry, 0, len(lines))
		for _, l := range lines {
			newStock, found, err := tx.RestoreStock(ctx, l.ProductID, l.Qty)
			if err != nil {
				return fmt.Errorf("restore %s: %w", l.ProductID, err)
			}
			if !found {
				// Product left the catalog since the order was placed.
				s.Log.Warn().Str("order_id", orderID).Str("product_id", l.ProductID).
					Msg("product gone, restore skipped")
				continue
			}
			entries = append(entries, inventory.NewRestoration(l.ProductID, l.Qty, newStock, reason))
		}
		if len(entries) > 0 {
			if err := tx.AppendLedger(ctx, entries); err != nil {
				return fmt.Errorf("append ledger: %w", err)
			}
		}

		ok, err := tx.MarkCancelled(ctx, orderID)
		if err != nil {
			return fmt.Errorf("mark cancelled: %w", err)
		}
		if !ok {
			return &AlreadyCancelledError{OrderID: orderID}
		}
		return nil
	})
	if err != nil {
		s.report("cancel order", orderID, err)
		return err
	}
	s.Log.Info().Str("order_id", orderID).Msg("order cancelled")
	return nil
}

// actorDisplay resolves the ledger attribution: email, else username, else
// the raw id; fallback when no user is given at all.
func (s *Service) actorDisplay(ctx context.Context, userID, fallback string) string {
	if userID == "" {
		return fallback
	}
	if s.Identity == nil {
		return userID
	}
	id, err := s.Identity.Resolve(ctx, userID)
	if err != nil {
		s.Log.Warn().Err(err).Str("user_id", userID).Msg("identity lookup failed")
		return userID
	}
	return id.Display()
}

// Business conflicts surface at warn, infrastructure faults at error.
func (s *Service) report(op, orderID string, err error) {
	lvl := zerolog.ErrorLevel
	if IsConflict(err) {
		lvl = zerolog.WarnLevel
	}
	s.Log.WithLevel(lvl).Err(err).Str("order_id", orderID).Msg(op + " failed")
}
