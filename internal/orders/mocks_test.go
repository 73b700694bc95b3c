package orders

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ariefcatur/go-shop-orders.git/internal/identity"
	"github.com/ariefcatur/go-shop-orders.git/internal/inventory"
)

// fakeStore implements Store with real transaction semantics: a Tx works on
// a staged copy that only replaces the committed state when fn returns nil.
// The mutex serializes transactions, which is exactly the row-lock behavior
// the tests need to observe.
type fakeStore struct {
	mu       sync.Mutex
	products map[string]Product
	orders   map[string]Order
	lines    map[string][]OrderLine
	ledger   []inventory.Entry

	failAppendLedger bool // injected infrastructure fault
	failInsertLines  bool
}

func newFakeStore(products ...Product) *fakeStore {
	f := &fakeStore{
		products: map[string]Product{},
		orders:   map[string]Order{},
		lines:    map[string][]OrderLine{},
	}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeStore) WithTx(_ context.Context, fn func(tx Tx) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	tx := &fakeTx{
		store:    f,
		products: cloneMap(f.products),
		orders:   cloneMap(f.orders),
		lines:    cloneLines(f.lines),
		ledger:   append([]inventory.Entry(nil), f.ledger...),
	}
	if err := fn(tx); err != nil {
		return err // staged state discarded
	}
	f.products = tx.products
	f.orders = tx.orders
	f.lines = tx.lines
	f.ledger = tx.ledger
	return nil
}

func (f *fakeStore) Order(_ context.Context, id string) (*Order, []OrderLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, nil, ErrOrderNotFound
	}
	return &o, append([]OrderLine(nil), f.lines[id]...), nil
}

func (f *fakeStore) ListProducts(_ context.Context) ([]Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeStore) stock(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products[id].Stock
}

func (f *fakeStore) ledgerFor(id string) []inventory.Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []inventory.Entry
	for _, e := range f.ledger {
		if e.ProductID == id {
			out = append(out, e)
		}
	}
	return out
}

func (f *fakeStore) removeProduct(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.products, id)
}

func (f *fakeStore) setStatus(orderID string, st Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o := f.orders[orderID]
	o.Status = st
	f.orders[orderID] = o
}

type fakeTx struct {
	store    *fakeStore
	products map[string]Product
	orders   map[string]Order
	lines    map[string][]OrderLine
	ledger   []inventory.Entry
}

func (t *fakeTx) ProductsByIDs(_ context.Context, ids []string) (map[string]Product, error) {
	out := map[string]Product{}
	for _, id := range ids {
		if p, ok := t.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (t *fakeTx) ReserveStock(_ context.Context, productID string, qty int) (int, bool, error) {
	p, ok := t.products[productID]
	if !ok || p.Stock < qty {
		return 0, false, nil
	}
	p.Stock -= qty
	t.products[productID] = p
	return p.Stock, true, nil
}

func (t *fakeTx) ProductStock(_ context.Context, productID string) (int, error) {
	p, ok := t.products[productID]
	if !ok {
		return 0, errors.New("no such product")
	}
	return p.Stock, nil
}

func (t *fakeTx) RestoreStock(_ context.Context, productID string, qty int) (int, bool, error) {
	p, ok := t.products[productID]
	if !ok {
		return 0, false, nil
	}
	p.Stock += qty
	t.products[productID] = p
	return p.Stock, true, nil
}

func (t *fakeTx) InsertOrder(_ context.Context, o *Order) error {
	if _, dup := t.orders[o.ID]; dup {
		return fmt.Errorf("duplicate order id %s", o.ID)
	}
	t.orders[o.ID] = *o
	return nil
}

func (t *fakeTx) InsertLines(_ context.Context, lines []OrderLine) error {
	if t.store.failInsertLines {
		return errors.New("insert lines: connection reset")
	}
	for _, l := range lines {
		t.lines[l.OrderID] = append(t.lines[l.OrderID], l)
	}
	return nil
}

func (t *fakeTx) AppendLedger(_ context.Context, entries []inventory.Entry) error {
	if t.store.failAppendLedger {
		return errors.New("append ledger: connection reset")
	}
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	t.ledger = append(t.ledger, entries...)
	return nil
}

func (t *fakeTx) OrderForUpdate(_ context.Context, id string) (*Order, []OrderLine, error) {
	o, ok := t.orders[id]
	if !ok {
		return nil, nil, ErrOrderNotFound
	}
	return &o, append([]OrderLine(nil), t.lines[id]...), nil
}

func (t *fakeTx) MarkCancelled(_ context.Context, id string) (bool, error) {
	o, ok := t.orders[id]
	if !ok || o.Status != StatusPending {
		return false, nil
	}
	o.Status = StatusCancelled
	t.orders[id] = o
	return true, nil
}

func cloneMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneLines(m map[string][]OrderLine) map[string][]OrderLine {
	out := make(map[string][]OrderLine, len(m))
	for k, v := range m {
		out[k] = append([]OrderLine(nil), v...)
	}
	return out
}

// fakeResolver maps user ids to identities without a database.
type fakeResolver struct {
	byID map[string]identity.Identity
	err  error
}

func (r *fakeResolver) Resolve(_ context.Context, userID string) (identity.Identity, error) {
	if r.err != nil {
		return identity.Identity{ID: userID}, r.err
	}
	if id, ok := r.byID[userID]; ok {
		return id, nil
	}
	return identity.Identity{ID: userID}, nil
}
