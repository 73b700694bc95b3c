package purchasing

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ariefcatur/go-shop-orders.git/internal/postgres"
)

var ErrNotFound = errors.New("purchase order not found")

type PGStore struct{ DB *pgxpool.Pool }

func (s *PGStore) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	return postgres.WithTx(ctx, s.DB, func(tx pgx.Tx) error {
		return fn(&pgTx{tx: tx})
	})
}

func (s *PGStore) Get(ctx context.Context, id int64) (*PurchaseOrder, error) {
	var po PurchaseOrder
	err := s.DB.QueryRow(ctx, `
		SELECT id, number, supplier, note, total_cents, created_at
		FROM purchase_orders WHERE id = $1`, id).
		Scan(&po.ID, &po.Number, &po.Supplier, &po.Note, &po.TotalCents, &po.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &po, nil
}

type pgTx struct{ tx pgx.Tx }

func (t *pgTx) Insert(ctx context.Context, po *PurchaseOrder) error {
	return t.tx.QueryRow(ctx, `
		INSERT INTO purchase_orders(supplier, note, total_cents)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		po.Supplier, po.Note, po.TotalCents).
		Scan(&po.ID, &po.CreatedAt)
}

func (t *pgTx) SetNumber(ctx context.Context, id int64, number string) error {
	_, err := t.tx.Exec(ctx,
		`UPDATE purchase_orders SET number = $2 WHERE id = $1`, id, number)
	return err
}
