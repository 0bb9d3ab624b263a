// Package service holds the lifecycle engine's write-side settlement
// logic and the read-side view assembler.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/trashure/trashure-backend/internal/model"
	"github.com/trashure/trashure-backend/internal/queue"
	"github.com/trashure/trashure-backend/internal/repository"
	"github.com/trashure/trashure-backend/internal/store"
)

// Settlement credits reward points and maintains the request history
// links when a request completes.  All point mutation on the platform
// flows through this service: request completion via Apply, drop-off
// transactions via CreditPoints.
type Settlement struct {
	store store.Store
	users *repository.UserRepo
	rel   *repository.Relations
}

// NewSettlement returns a Settlement service bound to the given store.
func NewSettlement(s store.Store) *Settlement {
	return &Settlement{
		store: s,
		users: repository.NewUserRepo(s),
		rel:   repository.NewRelations(s),
	}
}

// Apply performs the two settlement updates for a completed request:
// link the request to the receiver's history, then link it to the
// sender's history and credit the sender the reward.  The two updates
// are independent; a failure between them leaves a partial settlement
// that a redelivery completes.  Apply is idempotent keyed on the
// request id — a user already holding the request reference is left
// untouched, so redelivered events cannot double-link or double-credit.
func (s *Settlement) Apply(ctx context.Context, event queue.SettlementEvent) error {
	reqRef := store.NewRef(model.CollectionRequest, event.RequestID)

	receiver, err := s.users.Get(ctx, event.ReceiverID)
	if err != nil {
		return fmt.Errorf("settlement %s: receiver: %w", event.RequestID, err)
	}
	if !hasRef(receiver.Request, reqRef) {
		if err := s.rel.AppendAtomic(ctx, model.CollectionUser, receiver.ID, "request", reqRef); err != nil {
			return fmt.Errorf("settlement %s: link receiver: %w", event.RequestID, err)
		}
	}

	sender, err := s.users.Get(ctx, event.SenderID)
	if err != nil {
		return fmt.Errorf("settlement %s: sender: %w", event.RequestID, err)
	}
	if !hasRef(sender.Request, reqRef) {
		if err := s.rel.AppendAtomic(ctx, model.CollectionUser, sender.ID, "request", reqRef); err != nil {
			return fmt.Errorf("settlement %s: link sender: %w", event.RequestID, err)
		}
		if err := s.CreditPoints(ctx, sender.ID, event.Reward); err != nil {
			return fmt.Errorf("settlement %s: credit sender: %w", event.RequestID, err)
		}
	}
	return nil
}

// Dispatch hands a settlement event to the durable queue and returns
// immediately; the HTTP response for the triggering status change does
// not wait for the ledger updates to land.  When the broker is
// unreachable the event is applied in-process in the background so a
// broker outage degrades durability, not correctness.  Errors are
// logged, never surfaced to the original caller.
func (s *Settlement) Dispatch(ctx context.Context, event queue.SettlementEvent) {
	if err := queue.PublishSettlement(ctx, event); err != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := s.Apply(ctx, event); err != nil {
				log.Printf("settlement: in-process apply for request %s failed: %v", event.RequestID, err)
			}
		}()
	}
}

// CreditPoints atomically increases a user's point balance.  Points
// are never decremented in this design.
func (s *Settlement) CreditPoints(ctx context.Context, userID string, reward int) error {
	err := s.store.IncrField(ctx, model.CollectionUser, userID, "point", int64(reward))
	if errors.Is(err, store.ErrNoDocument) {
		return fmt.Errorf("%w: user %s", repository.ErrNotFound, userID)
	}
	return err
}

func hasRef(list []store.Ref, ref store.Ref) bool {
	for _, r := range list {
		if r == ref {
			return true
		}
	}
	return false
}
