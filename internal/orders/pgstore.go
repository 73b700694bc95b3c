package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ariefcatur/go-shop-orders.git/internal/inventory"
	"github.com/ariefcatur/go-shop-orders.git/internal/postgres"
)

// PGStore implements Store on a pgx pool.
type PGStore struct{ DB *pgxpool.Pool }

func (s *PGStore) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	return postgres.WithTx(ctx, s.DB, func(tx pgx.Tx) error {
		return fn(&pgTx{tx: tx})
	})
}

func (s *PGStore) Order(ctx context.Context, id string) (*Order, []OrderLine, error) {
	var o Order
	err := s.DB.QueryRow(ctx, `
		SELECT id, user_id, customer_name, phone, address, status, total_cents, created_at, updated_at
		FROM orders WHERE id = $1`, id).
		Scan(&o.ID, &o.UserID, &o.CustomerName, &o.Phone, &o.Address, &o.Status, &o.TotalCents, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	lines, err := scanLines(s.DB.Query(ctx, `
		SELECT id, order_id, product_id, product_name, price_cents, qty
		FROM order_lines WHERE order_id = $1 ORDER BY id`, id))
	if err != nil {
		return nil, nil, err
	}
	return &o, lines, nil
}

func (s *PGStore) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT id, sku, name, category, owner_id, visible, stock, price_cents, created_at, updated_at
		FROM products WHERE visible ORDER BY sku`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.Category, &p.OwnerID, &p.Visible,
			&p.Stock, &p.PriceCents, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type pgTx struct{ tx pgx.Tx }

func (t *pgTx) ProductsByIDs(ctx context.Context, ids []string) (map[string]Product, error) {
	params := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		params[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	rows, err := t.tx.Query(ctx, `
		SELECT id, sku, name, category, owner_id, visible, stock, price_cents, created_at, updated_at
		FROM products WHERE id IN (`+strings.Join(params, ",")+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]Product, len(ids))
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.Category, &p.OwnerID, &p.Visible,
			&p.Stock, &p.PriceCents, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

// The sufficiency check lives in the statement's WHERE clause, so two racing
// checkouts cannot both pass an application-level read.
func (t *pgTx) ReserveStock(ctx context.Context, productID string, qty int) (int, bool, error) {
	var newStock int
	err := t.tx.QueryRow(ctx, `
		UPDATE products SET stock = stock - $2, updated_at = now()
		WHERE id = $1 AND stock >= $2
		RETURNING stock`, productID, qty).Scan(&newStock)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return newStock, true, nil
}

func (t *pgTx) ProductStock(ctx context.Context, productID string) (int, error) {
	var stock int
	err := t.tx.QueryRow(ctx, `SELECT stock FROM products WHERE id = $1`, productID).Scan(&stock)
	return stock, err
}

func (t *pgTx) RestoreStock(ctx context.Context, productID string, qty int) (int, bool, error) {
	var newStock int
	err := t.tx.QueryRow(ctx, `
		UPDATE products SET stock = stock + $2, updated_at = now()
		WHERE id = $1
		RETURNING stock`, productID, qty).Scan(&newStock)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return newStock, true, nil
}

func (t *pgTx) InsertOrder(ctx context.Context, o *Order) error {
	return t.tx.QueryRow(ctx, `
		INSERT INTO orders(id, user_id, customer_name, phone, address, status, total_cents)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		o.ID, o.UserID, o.CustomerName, o.Phone, o.Address, o.Status, o.TotalCents).
		Scan(&o.CreatedAt, &o.UpdatedAt)
}

func (t *pgTx) InsertLines(ctx context.Context, lines []OrderLine) error {
	for _, l := range lines {
		if _, err := t.tx.Exec(ctx, `
			INSERT INTO order_lines(order_id, product_id, product_name, price_cents, qty)
			VALUES ($1, $2, $3, $4, $5)`,
			l.OrderID, l.ProductID, l.ProductName, l.PriceCents, l.Qty); err != nil {
			return err
		}
	}
	return nil
}

func (t *pgTx) AppendLedger(ctx context.Context, entries []inventory.Entry) error {
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return err
		}
		if _, err := t.tx.Exec(ctx, `
			INSERT INTO inventory_logs(product_id, old_qty, change, new_qty, reason)
			VALUES ($1, $2, $3, $4, $5)`,
			e.ProductID, e.OldQty, e.Change, e.NewQty, e.Reason); err != nil {
			return err
		}
	}
	return nil
}

func (t *pgTx) OrderForUpdate(ctx context.Context, id string) (*Order, []OrderLine, error) {
	var o Order
	err := t.tx.QueryRow(ctx, `
		SELECT id, user_id, customer_name, phone, address, status, total_cents, created_at, updated_at
		FROM orders WHERE id = $1 FOR UPDATE`, id).
		Scan(&o.ID, &o.UserID, &o.CustomerName, &o.Phone, &o.Address, &o.Status, &o.TotalCents, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	lines, err := scanLines(t.tx.Query(ctx, `
		SELECT id, order_id, product_id, product_name, price_cents, qty
		FROM order_lines WHERE order_id = $1 ORDER BY id`, id))
	if err != nil {
		return nil, nil, err
	}
	return &o, lines, nil
}

func (t *pgTx) MarkCancelled(ctx context.Context, id string) (bool, error) {
	ct, err := t.tx.Exec(ctx, `
		UPDATE orders SET status = $2, updated_at = now()
		WHERE id = $1 AND status = $3`,
		id, StatusCancelled, StatusPending)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() == 1, nil
}

func scanLines(rows pgx.Rows, err error) ([]OrderLine, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderLine
	for rows.Next() {
		var l OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.ProductName, &l.PriceCents, &l.Qty); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
