// Package store abstracts the document store that holds all platform
// entities.  Documents are addressed by (collection, id) and may embed
// references to documents in other collections.  Two implementations
// exist: a Redis-backed store used in production and an in-memory
// store used by tests.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNoDocument is returned by Get/GetByRef when the addressed document
// does not exist.  Callers that treat absence as a soft failure (the
// reference resolver) should check for it with errors.Is.
var ErrNoDocument = errors.New("store: document not found")

// Ref is an opaque, storable pointer to a document elsewhere in the
// store.  It serializes to the same {collection, id} shape the store
// uses for addressing and is comparable with ==.
type Ref struct {
	Collection string `json:"collection"`
	ID         string `json:"id"`
}

// NewRef builds a reference to the document with the given id in the
// given collection.  It does not verify that the target exists.
func NewRef(collection, id string) Ref {
	return Ref{Collection: collection, ID: id}
}

// IsZero reports whether the reference points nowhere.  Zero references
// appear in documents whose optional links are unset.
func (r Ref) IsZero() bool { return r.Collection == "" && r.ID == "" }

// Store is the operation set the lifecycle engine consumes from the
// document store.  Get, GetAll and GetByRef unmarshal stored JSON into
// dest.  Put fully overwrites a document; Update merges the given
// fields into it.  AppendToList and IncrField are atomic single-field
// mutations: unlike a read-modify-write of the whole document they
// cannot lose a concurrent append or increment.
type Store interface {
	Get(ctx context.Context, collection, id string, dest interface{}) error
	GetAll(ctx context.Context, collection string, dest interface{}) error
	GetByRef(ctx context.Context, ref Ref, dest interface{}) error
	Put(ctx context.Context, collection, id string, doc interface{}) error
	Update(ctx context.Context, collection, id string, fields map[string]interface{}) error
	AppendToList(ctx context.Context, collection, id, field string, ref Ref) error
	IncrField(ctx context.Context, collection, id, field string, delta int64) error
	ServerTimestamp(ctx context.Context) time.Time
}
