package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/trashure/trashure-backend/internal/model"
	"github.com/trashure/trashure-backend/internal/store"
)

// UserRepo provides access to the `user` collection.
type UserRepo struct {
	store store.Store
}

// NewUserRepo returns a UserRepo bound to the given store.
func NewUserRepo(s store.Store) *UserRepo { return &UserRepo{store: s} }

// Get fetches a user by id.  It returns ErrNotFound when no user with
// that id exists.
func (r *UserRepo) Get(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := r.store.Get(ctx, model.CollectionUser, id, &u); err != nil {
		if errors.Is(err, store.ErrNoDocument) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
		}
		return nil, err
	}
	return &u, nil
}

// GetAll returns every user in the collection.  An empty slice is
// returned when there are none.
func (r *UserRepo) GetAll(ctx context.Context) ([]model.User, error) {
	users := make([]model.User, 0)
	if err := r.store.GetAll(ctx, model.CollectionUser, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Put writes the full user document, creating or overwriting it.
func (r *UserRepo) Put(ctx context.Context, u *model.User) error {
	return r.store.Put(ctx, model.CollectionUser, u.ID, u)
}

// Ref returns a reference to the user with the given id.
func (r *UserRepo) Ref(id string) store.Ref {
	return store.NewRef(model.CollectionUser, id)
}
