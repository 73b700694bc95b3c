package purchasing

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

var ErrNoSupplier = errors.New("supplier is required")

type Service struct {
	Store Store
	Log   zerolog.Logger
}

func NewService(store Store, log zerolog.Logger) *Service {
	return &Service{Store: store, Log: log}
}

// Create persists the draft, derives the reference number from the
// store-generated id and stamps it before the transaction commits. The
// format depends on an id that does not exist before the first insert, hence
// two writes in one transaction.
func (s *Service) Create(ctx context.Context, draft *PurchaseOrder) (*PurchaseOrder, error) {
	if draft.Supplier == "" {
		return nil, ErrNoSupplier
	}

	err := s.Store.WithTx(ctx, func(tx Tx) error {
		if err := tx.Insert(ctx, draft); err != nil {
			return fmt.Errorf("insert purchase order: %w", err)
		}
		draft.Number = ReferenceNumber(draft.ID)
		if err := tx.SetNumber(ctx, draft.ID, draft.Number); err != nil {
			return fmt.Errorf("stamp number: %w", err)
		}
		return nil
	})
	if err != nil {
		s.Log.Error().Err(err).Str("supplier", draft.Supplier).Msg("create purchase order failed")
		return nil, err
	}
	s.Log.Info().Int64("id", draft.ID).Str("number", draft.Number).Msg("purchase order created")
	return draft, nil
}
