package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/trashure/trashure-backend/internal/model"
	"github.com/trashure/trashure-backend/internal/store"
)

// StationRepo provides access to the `trashStation` collection.
type StationRepo struct {
	store store.Store
}

// NewStationRepo returns a StationRepo bound to the given store.
func NewStationRepo(s store.Store) *StationRepo { return &StationRepo{store: s} }

// Get fetches a station by id, returning ErrNotFound when absent.
func (r *StationRepo) Get(ctx context.Context, id string) (*model.TrashStation, error) {
	var st model.TrashStation
	if err := r.store.Get(ctx, model.CollectionTrashStation, id, &st); err != nil {
		if errors.Is(err, store.ErrNoDocument) {
			return nil, fmt.Errorf("%w: trash station %s", ErrNotFound, id)
		}
		return nil, err
	}
	return &st, nil
}

// GetAll returns every station; an empty slice when there are none.
func (r *StationRepo) GetAll(ctx context.Context) ([]model.TrashStation, error) {
	stations := make([]model.TrashStation, 0)
	if err := r.store.GetAll(ctx, model.CollectionTrashStation, &stations); err != nil {
		return nil, err
	}
	return stations, nil
}

// Put writes the full station document.
func (r *StationRepo) Put(ctx context.Context, st *model.TrashStation) error {
	return r.store.Put(ctx, model.CollectionTrashStation, st.ID, st)
}

// Update merges the given fields into the stored station document.
func (r *StationRepo) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	err := r.store.Update(ctx, model.CollectionTrashStation, id, fields)
	if errors.Is(err, store.ErrNoDocument) {
		return fmt.Errorf("%w: trash station %s", ErrNotFound, id)
	}
	return err
}

// Ref returns a reference to the station with the given id.
func (r *StationRepo) Ref(id string) store.Ref {
	return store.NewRef(model.CollectionTrashStation, id)
}
