package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trashure/trashure-backend/internal/model"
	"github.com/trashure/trashure-backend/internal/queue"
	"github.com/trashure/trashure-backend/internal/repository"
	"github.com/trashure/trashure-backend/internal/store"
)

func putUser(t *testing.T, s store.Store, u model.User) {
	t.Helper()
	if u.Transaction == nil {
		u.Transaction = []store.Ref{}
	}
	if u.Request == nil {
		u.Request = []store.Ref{}
	}
	require.NoError(t, s.Put(context.Background(), model.CollectionUser, u.ID, u))
}

func getUser(t *testing.T, s store.Store, id string) model.User {
	t.Helper()
	var u model.User
	require.NoError(t, s.Get(context.Background(), model.CollectionUser, id, &u))
	return u
}

func TestApplyCreditsSenderAndLinksBoth(t *testing.T) {
	s := store.NewMemoryStore()
	settle := NewSettlement(s)
	ctx := context.Background()

	putUser(t, s, model.User{ID: "recv", Username: "recv", Point: 5})
	putUser(t, s, model.User{ID: "send", Username: "send", Point: 0})

	event := queue.SettlementEvent{
		RequestID:  "req-1",
		SenderID:   "send",
		ReceiverID: "recv",
		Reward:     10,
	}
	require.NoError(t, settle.Apply(ctx, event))

	reqRef := store.NewRef(model.CollectionRequest, "req-1")

	sender := getUser(t, s, "send")
	require.Equal(t, 10, sender.Point, "sender earns exactly the reward")
	require.Equal(t, []store.Ref{reqRef}, sender.Request)

	receiver := getUser(t, s, "recv")
	require.Equal(t, 5, receiver.Point, "receiver's balance is untouched")
	require.Equal(t, []store.Ref{reqRef}, receiver.Request)
}

func TestApplyIdempotentOnRedelivery(t *testing.T) {
	s := store.NewMemoryStore()
	settle := NewSettlement(s)
	ctx := context.Background()

	putUser(t, s, model.User{ID: "recv", Username: "recv"})
	putUser(t, s, model.User{ID: "send", Username: "send"})

	event := queue.SettlementEvent{
		RequestID:  "req-1",
		SenderID:   "send",
		ReceiverID: "recv",
		Reward:     25,
	}
	require.NoError(t, settle.Apply(ctx, event))
	require.NoError(t, settle.Apply(ctx, event))
	require.NoError(t, settle.Apply(ctx, event))

	sender := getUser(t, s, "send")
	require.Equal(t, 25, sender.Point, "redelivery must not double-credit")
	require.Len(t, sender.Request, 1, "redelivery must not double-link")
	require.Len(t, getUser(t, s, "recv").Request, 1)
}

func TestApplyMissingParty(t *testing.T) {
	s := store.NewMemoryStore()
	settle := NewSettlement(s)
	ctx := context.Background()

	putUser(t, s, model.User{ID: "recv", Username: "recv"})

	event := queue.SettlementEvent{
		RequestID:  "req-1",
		SenderID:   "ghost",
		ReceiverID: "recv",
		Reward:     10,
	}
	err := settle.Apply(ctx, event)
	require.ErrorIs(t, err, repository.ErrNotFound)

	// The receiver half still landed; a redelivery after the sender
	// appears completes the settlement without double-linking.
	require.Len(t, getUser(t, s, "recv").Request, 1)
	putUser(t, s, model.User{ID: "ghost", Username: "ghost"})
	require.NoError(t, settle.Apply(ctx, event))
	require.Len(t, getUser(t, s, "recv").Request, 1)
	require.Equal(t, 10, getUser(t, s, "ghost").Point)
}

func TestCreditPointsAccumulates(t *testing.T) {
	s := store.NewMemoryStore()
	settle := NewSettlement(s)
	ctx := context.Background()

	putUser(t, s, model.User{ID: "u1", Username: "u1", Point: 3})

	require.NoError(t, settle.CreditPoints(ctx, "u1", 7))
	require.NoError(t, settle.CreditPoints(ctx, "u1", 2))
	require.Equal(t, 12, getUser(t, s, "u1").Point)

	err := settle.CreditPoints(ctx, "missing", 1)
	require.ErrorIs(t, err, repository.ErrNotFound)
}
