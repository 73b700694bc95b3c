package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WithTx runs fn inside one transaction: commit when fn returns nil, roll
// back on any other exit path, including panics unwinding through the defer.
// The rollback itself is best-effort so the original error is what callers
// see. Row-level consistency comes from conditional updates and FOR UPDATE
// locks taken by the statements themselves, so the default isolation level
// is enough.
func WithTx(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
