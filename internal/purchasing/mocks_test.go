package purchasing

import (
	"context"
	"errors"
)

// fakeStore hands out sequential ids and commits only when fn succeeds.
type fakeStore struct {
	nextID    int64
	committed []PurchaseOrder

	failInsert bool
	failStamp  bool
}

func (f *fakeStore) WithTx(_ context.Context, fn func(tx Tx) error) error {
	tx := &fakeTx{store: f}
	if err := fn(tx); err != nil {
		return err
	}
	f.committed = append(f.committed, tx.staged...)
	return nil
}

func (f *fakeStore) Get(_ context.Context, id int64) (*PurchaseOrder, error) {
	for i := range f.committed {
		if f.committed[i].ID == id {
			return &f.committed[i], nil
		}
	}
	return nil, ErrNotFound
}

type fakeTx struct {
	store  *fakeStore
	staged []PurchaseOrder
}

func (t *fakeTx) Insert(_ context.Context, po *PurchaseOrder) error {
	if t.store.failInsert {
		return errors.New("insert: connection reset")
	}
	t.store.nextID++
	po.ID = t.store.nextID
	t.staged = append(t.staged, *po)
	return nil
}

func (t *fakeTx) SetNumber(_ context.Context, id int64, number string) error {
	if t.store.failStamp {
		return errors.New("stamp: connection reset")
	}
	for i := range t.staged {
		if t.staged[i].ID == id {
			t.staged[i].Number = number
		}
	}
	return nil
}
