package inventory

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo reads the ledger. Writes happen inside order transactions, not here.
type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) ListByProduct(ctx context.Context, productID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.DB.Query(ctx, `
		SELECT id, product_id, old_qty, change, new_qty, reason, created_at
		FROM inventory_logs
		WHERE product_id = $1
		ORDER BY id DESC
		LIMIT $2`, productID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.ProductID, &e.OldQty, &e.Change, &e.NewQty, &e.Reason, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repo) ListRecent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.DB.Query(ctx, `
		SELECT id, product_id, old_qty, change, new_qty, reason, created_at
		FROM inventory_logs
		ORDER BY id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.ProductID, &e.OldQty, &e.Change, &e.NewQty, &e.Reason, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
