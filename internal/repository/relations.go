package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/trashure/trashure-backend/internal/store"
)

// Relations maintains the denormalized back-links between entities: a
// user's transaction and request history and a station's transaction
// history, all stored as list-valued reference fields.
type Relations struct {
	store store.Store
}

// NewRelations returns a Relations mutator bound to the given store.
func NewRelations(s store.Store) *Relations { return &Relations{store: s} }

// Append adds a reference to a list-valued field by reading the whole
// document, appending, and writing the whole document back.
//
// This read-modify-write is not atomic: two concurrent Appends to the
// same field race and the last full-document write wins, silently
// dropping the other append.  The limitation is inherited from the
// original design and kept here under its original contract; new code
// should use AppendAtomic instead.
func (r *Relations) Append(ctx context.Context, collection, id, field string, ref store.Ref) error {
	var doc map[string]interface{}
	if err := r.store.Get(ctx, collection, id, &doc); err != nil {
		if errors.Is(err, store.ErrNoDocument) {
			return fmt.Errorf("%w: %s %s", ErrNotFound, collection, id)
		}
		return err
	}
	list, _ := doc[field].([]interface{})
	doc[field] = append(list, map[string]interface{}{
		"collection": ref.Collection,
		"id":         ref.ID,
	})
	return r.store.Put(ctx, collection, id, doc)
}

// AppendAtomic adds a reference to a list-valued field using the
// store's atomic array-append primitive.  Concurrent appends to the
// same field are serialized by the store and none is lost.
func (r *Relations) AppendAtomic(ctx context.Context, collection, id, field string, ref store.Ref) error {
	err := r.store.AppendToList(ctx, collection, id, field, ref)
	if errors.Is(err, store.ErrNoDocument) {
		return fmt.Errorf("%w: %s %s", ErrNotFound, collection, id)
	}
	return err
}
