package identity

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Identity is the resolved acting user behind an order operation.
type Identity struct {
	ID       string
	Email    string
	Username string
}

// Display picks the audit name: email, else username, else the raw id.
func (i Identity) Display() string {
	switch {
	case i.Email != "":
		return i.Email
	case i.Username != "":
		return i.Username
	default:
		return i.ID
	}
}

// Resolver turns a user id into a display identity for ledger attribution.
type Resolver interface {
	Resolve(ctx context.Context, userID string) (Identity, error)
}

// PGResolver reads the users table. Unknown users resolve to their raw id so
// attribution never blocks an order.
type PGResolver struct{ DB *pgxpool.Pool }

func (r *PGResolver) Resolve(ctx context.Context, userID string) (Identity, error) {
	id := Identity{ID: userID}
	err := r.DB.QueryRow(ctx,
		`SELECT email, username FROM users WHERE id = $1`, userID).
		Scan(&id.Email, &id.Username)
	if errors.Is(err, pgx.ErrNoRows) {
		return id, nil
	}
	if err != nil {
		return id, err
	}
	return id, nil
}
