package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trashure/trashure-backend/internal/model"
	"github.com/trashure/trashure-backend/internal/store"
)

func seedUser(t *testing.T, s store.Store, id string) {
	t.Helper()
	u := model.User{ID: id, Username: id, Transaction: []store.Ref{}, Request: []store.Ref{}}
	require.NoError(t, s.Put(context.Background(), model.CollectionUser, id, u))
}

func userTransactions(t *testing.T, s store.Store, id string) []store.Ref {
	t.Helper()
	var u model.User
	require.NoError(t, s.Get(context.Background(), model.CollectionUser, id, &u))
	return u.Transaction
}

func TestAppendLinksReference(t *testing.T) {
	s := store.NewMemoryStore()
	rel := NewRelations(s)
	ctx := context.Background()
	seedUser(t, s, "u1")

	ref := store.NewRef(model.CollectionTransaction, "t1")
	require.NoError(t, rel.Append(ctx, model.CollectionUser, "u1", "transaction", ref))

	got := userTransactions(t, s, "u1")
	require.Equal(t, []store.Ref{ref}, got)
}

func TestAppendMissingEntity(t *testing.T) {
	s := store.NewMemoryStore()
	rel := NewRelations(s)
	ctx := context.Background()

	ref := store.NewRef(model.CollectionTransaction, "t1")
	err := rel.Append(ctx, model.CollectionUser, "nope", "transaction", ref)
	require.ErrorIs(t, err, ErrNotFound)
	err = rel.AppendAtomic(ctx, model.CollectionUser, "nope", "transaction", ref)
	require.ErrorIs(t, err, ErrNotFound)
}

// TestAppendConcurrentMayLoseOne pins down the accepted limitation of
// the read-modify-write append: two near-simultaneous appends to the
// same field may race, and the last full-document write can silently
// drop the other reference.
func TestAppendConcurrentMayLoseOne(t *testing.T) {
	s := store.NewMemoryStore()
	rel := NewRelations(s)
	ctx := context.Background()
	seedUser(t, s, "u1")

	refA := store.NewRef(model.CollectionTransaction, "ta")
	refB := store.NewRef(model.CollectionTransaction, "tb")

	var wg sync.WaitGroup
	for _, ref := range []store.Ref{refA, refB} {
		wg.Add(1)
		go func(ref store.Ref) {
			defer wg.Done()
			_ = rel.Append(ctx, model.CollectionUser, "u1", "transaction", ref)
		}(ref)
	}
	wg.Wait()

	got := userTransactions(t, s, "u1")
	require.GreaterOrEqual(t, len(got), 1)
	require.LessOrEqual(t, len(got), 2)
}

// TestAppendAtomicConcurrentKeepsBoth asserts the upgraded primitive:
// the store-native append serializes concurrent writers and neither
// reference is lost.
func TestAppendAtomicConcurrentKeepsBoth(t *testing.T) {
	s := store.NewMemoryStore()
	rel := NewRelations(s)
	ctx := context.Background()
	seedUser(t, s, "u1")

	refA := store.NewRef(model.CollectionTransaction, "ta")
	refB := store.NewRef(model.CollectionTransaction, "tb")

	var wg sync.WaitGroup
	for _, ref := range []store.Ref{refA, refB} {
		wg.Add(1)
		go func(ref store.Ref) {
			defer wg.Done()
			require.NoError(t, rel.AppendAtomic(ctx, model.CollectionUser, "u1", "transaction", ref))
		}(ref)
	}
	wg.Wait()

	got := userTransactions(t, s, "u1")
	require.Len(t, got, 2)
	require.Contains(t, got, refA)
	require.Contains(t, got, refB)
}
