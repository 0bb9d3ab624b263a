package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/trashure/trashure-backend/internal/model"
	"github.com/trashure/trashure-backend/internal/store"
)

// TransactionRepo provides access to the `transaction` collection.
// Transactions are immutable: the repo exposes no update path.
type TransactionRepo struct {
	store store.Store
}

// NewTransactionRepo returns a TransactionRepo bound to the given store.
func NewTransactionRepo(s store.Store) *TransactionRepo { return &TransactionRepo{store: s} }

// Get fetches a transaction by id, returning ErrNotFound when absent.
func (r *TransactionRepo) Get(ctx context.Context, id string) (*model.Transaction, error) {
	var t model.Transaction
	if err := r.store.Get(ctx, model.CollectionTransaction, id, &t); err != nil {
		if errors.Is(err, store.ErrNoDocument) {
			return nil, fmt.Errorf("%w: transaction %s", ErrNotFound, id)
		}
		return nil, err
	}
	return &t, nil
}

// GetAll returns every transaction; an empty slice when there are none.
func (r *TransactionRepo) GetAll(ctx context.Context) ([]model.Transaction, error) {
	txs := make([]model.Transaction, 0)
	if err := r.store.GetAll(ctx, model.CollectionTransaction, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// Create writes a new transaction document.
func (r *TransactionRepo) Create(ctx context.Context, t *model.Transaction) error {
	return r.store.Put(ctx, model.CollectionTransaction, t.ID, t)
}

// Ref returns a reference to the transaction with the given id.
func (r *TransactionRepo) Ref(id string) store.Ref {
	return store.NewRef(model.CollectionTransaction, id)
}
