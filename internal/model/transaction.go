package model

import (
	"time"

	"github.com/trashure/trashure-backend/internal/store"
)

// TrashWeight records the recyclable material handed in, in grams.
type TrashWeight struct {
	Paper   int `json:"paper"`
	Plastic int `json:"plastic"`
}

// Transaction is a single recyclable-material drop-off.  Transactions
// are immutable once created: there is no update path.  TrashStation
// is a reference resolved lazily; User is the depositing user's
// username, denormalized at creation time.
type Transaction struct {
	ID           string      `json:"id"`
	Timestamp    time.Time   `json:"timestamp"`
	Reward       int         `json:"reward"`
	Trash        TrashWeight `json:"trash"`
	TrashStation store.Ref   `json:"trashStation"`
	User         string      `json:"user"`
}
