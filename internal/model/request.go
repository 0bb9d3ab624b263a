package model

import (
	"time"

	"github.com/trashure/trashure-backend/internal/store"
)

// Request is a pickup task: the receiver posts it, a sender takes it,
// collects the recyclables and delivers them, and on completion the
// sender is credited the reward.
//
// ReceiverID is fixed at creation.  SenderID is nil until the request
// is first taken and is never overwritten afterwards.  Start is
// assigned by the store at creation; End is set exactly once, when the
// request reaches StatusEnd, and preserved from then on.
type Request struct {
	ID          string     `json:"id"`
	ReceiverID  store.Ref  `json:"receiverID"`
	SenderID    *store.Ref `json:"senderID"`
	Status      Status     `json:"status"`
	Start       time.Time  `json:"start"`
	End         *time.Time `json:"end"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Address     string     `json:"address"`
	Reward      int        `json:"reward"`
}
