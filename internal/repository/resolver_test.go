package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trashure/trashure-backend/internal/model"
	"github.com/trashure/trashure-backend/internal/store"
)

func TestResolveOneAbsentTarget(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	doc, err := ResolveOne[model.User](ctx, s, store.NewRef(model.CollectionUser, "gone"))
	require.NoError(t, err)
	require.Nil(t, doc, "a dangling reference resolves to nil, not an error")
}

func TestResolveManyKeepsOrderWithNilPlaceholders(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	a := model.User{ID: "a", Username: "alice"}
	c := model.User{ID: "c", Username: "cara"}
	require.NoError(t, s.Put(ctx, model.CollectionUser, a.ID, a))
	require.NoError(t, s.Put(ctx, model.CollectionUser, c.ID, c))

	refs := []store.Ref{
		store.NewRef(model.CollectionUser, "a"),
		store.NewRef(model.CollectionUser, "b-deleted"),
		store.NewRef(model.CollectionUser, "c"),
	}
	got := ResolveMany[model.User](ctx, s, refs)
	require.Len(t, got, 3)
	require.NotNil(t, got[0])
	require.Equal(t, "alice", got[0].Username)
	require.Nil(t, got[1], "the deleted target leaves a nil placeholder")
	require.NotNil(t, got[2])
	require.Equal(t, "cara", got[2].Username)
}

func TestResolveManyLargeFanOut(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	refs := make([]store.Ref, 50)
	for i := range refs {
		u := model.User{ID: fmt.Sprintf("u%02d", i), Username: "u"}
		require.NoError(t, s.Put(ctx, model.CollectionUser, u.ID, u))
		refs[i] = store.NewRef(model.CollectionUser, u.ID)
	}
	got := ResolveMany[model.User](ctx, s, refs)
	require.Len(t, got, 50)
	for i, doc := range got {
		require.NotNil(t, doc)
		require.Equal(t, refs[i].ID, doc.ID, "result order must match input order")
	}
}
