package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/trashure/trashure-backend/internal/model"
	"github.com/trashure/trashure-backend/internal/store"
)

// RequestRepo provides access to the `request` collection.
type RequestRepo struct {
	store store.Store
}

// NewRequestRepo returns a RequestRepo bound to the given store.
func NewRequestRepo(s store.Store) *RequestRepo { return &RequestRepo{store: s} }

// Get fetches a request by id, returning ErrNotFound when absent.
func (r *RequestRepo) Get(ctx context.Context, id string) (*model.Request, error) {
	var req model.Request
	if err := r.store.Get(ctx, model.CollectionRequest, id, &req); err != nil {
		if errors.Is(err, store.ErrNoDocument) {
			return nil, fmt.Errorf("%w: request %s", ErrNotFound, id)
		}
		return nil, err
	}
	return &req, nil
}

// GetAll returns every request; an empty slice when there are none.
func (r *RequestRepo) GetAll(ctx context.Context) ([]model.Request, error) {
	reqs := make([]model.Request, 0)
	if err := r.store.GetAll(ctx, model.CollectionRequest, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

// Put writes the full request document.
func (r *RequestRepo) Put(ctx context.Context, req *model.Request) error {
	return r.store.Put(ctx, model.CollectionRequest, req.ID, req)
}

// Ref returns a reference to the request with the given id.
func (r *RequestRepo) Ref(id string) store.Ref {
	return store.NewRef(model.CollectionRequest, id)
}
