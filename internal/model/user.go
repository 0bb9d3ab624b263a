package model

import "github.com/trashure/trashure-backend/internal/store"

// User represents a platform member as stored in the `user`
// collection.  The record is created after the identity provider has
// authenticated the account; its id is the provider's user id.
//
// Fields:
//  ID          – document id (identity provider uid).
//  Email       – contact email, kept in sync with the identity mirror.
//  Fullname    – display name.
//  Username    – unique short name shown in request summaries.
//  Phone       – contact phone number.
//  Address     – home address used for pickups.
//  Point       – reward point balance, never negative.  Only the
//                settlement service mutates it, and only upward.
//  Transaction – ordered, append-only list of drop-off transaction refs.
//  Request     – ordered, append-only list of completed request refs.
type User struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	Fullname    string      `json:"fullname"`
	Username    string      `json:"username"`
	Phone       string      `json:"phone"`
	Address     string      `json:"address"`
	Point       int         `json:"point"`
	Transaction []store.Ref `json:"transaction"`
	Request     []store.Ref `json:"request"`
}

// Collection names used across the repositories.  They match the
// document store layout one-to-one.
const (
	CollectionUser         = "user"
	CollectionTrashStation = "trashStation"
	CollectionTransaction  = "transaction"
	CollectionRequest      = "request"
)
