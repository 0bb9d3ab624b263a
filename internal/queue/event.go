// Package queue defines the settlement event exchanged over the
// message broker and the background consumer that applies it.
package queue

// SettlementEvent is published when a request reaches its terminal
// "end" status.  It carries everything the settlement worker needs to
// credit the sender and link the completed request to both parties
// without re-reading the request.  RequestID doubles as the
// idempotency key: applying the same event twice is a no-op.
type SettlementEvent struct {
	RequestID   string `json:"request_id"`
	SenderID    string `json:"sender_id"`
	ReceiverID  string `json:"receiver_id"`
	Reward      int    `json:"reward"`
	CompletedAt string `json:"completed_at"`
}

const settlementQueueName = "request.settled"
