package service

import (
	"context"
	"fmt"

	"github.com/trashure/trashure-backend/internal/model"
	"github.com/trashure/trashure-backend/internal/repository"
	"github.com/trashure/trashure-backend/internal/store"
)

// dateLayout renders timestamps as calendar-date strings for API
// clients, e.g. "Mon Jan 02 2006".
const dateLayout = "Mon Jan 02 2006"

// Views assembles the API-facing projections of stored entities:
// references are resolved and replaced with summaries or embedded
// documents, and timestamps become calendar-date strings.  A
// reference whose target cannot be resolved surfaces as ErrNotFound,
// never as a nil dereference.
type Views struct {
	store store.Store
}

// NewViews returns a view assembler reading from the given store.
func NewViews(s store.Store) *Views { return &Views{store: s} }

// UserSummary is the {id, username} stand-in for a user reference in
// request views.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// RequestView is the API shape of a request: receiver and sender
// references become user summaries (sender null while unassigned) and
// start/end become date strings, end staying null until completion.
type RequestView struct {
	ID          string       `json:"id"`
	Receiver    *UserSummary `json:"receiverID"`
	Sender      *UserSummary `json:"senderID"`
	Status      model.Status `json:"status"`
	Start       string       `json:"start"`
	End         *string      `json:"end"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Address     string       `json:"address"`
	Reward      int          `json:"reward"`
}

// TransactionView is the API shape of a drop-off transaction.  The
// stored station reference is resolved back to the station's id for
// display; legacy station-less transactions render it as null.
type TransactionView struct {
	ID           string            `json:"id"`
	Timestamp    string            `json:"timestamp"`
	Reward       int               `json:"reward"`
	Trash        model.TrashWeight `json:"trash"`
	TrashStation *string           `json:"trashStation"`
	User         string            `json:"user"`
}

// UserRequestView is a request as embedded in a user view, with the
// parties rendered as display names rather than summaries.
type UserRequestView struct {
	ID          string       `json:"id"`
	Receiver    string       `json:"receiverID"`
	Sender      *string      `json:"senderID"`
	Status      model.Status `json:"status"`
	Start       string       `json:"start"`
	End         *string      `json:"end"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Address     string       `json:"address"`
	Reward      int          `json:"reward"`
}

// UserView is a user with both relation lists fully dereferenced.
type UserView struct {
	ID          string             `json:"id"`
	Email       string             `json:"email"`
	Fullname    string             `json:"fullname"`
	Username    string             `json:"username"`
	Phone       string             `json:"phone"`
	Address     string             `json:"address"`
	Point       int                `json:"point"`
	Transaction []*TransactionView `json:"transaction"`
	Request     []*UserRequestView `json:"request"`
}

// StationView is a trash station with its transaction list resolved.
type StationView struct {
	ID          string             `json:"id"`
	Location    model.GeoPoint     `json:"location"`
	Available   bool               `json:"available"`
	Address     string             `json:"address"`
	Capacity    int                `json:"capacity"`
	OpenHours   model.OpenHours    `json:"openHours"`
	Transaction []*TransactionView `json:"transaction"`
}

// Request assembles the API view of a single request.
func (v *Views) Request(ctx context.Context, req *model.Request) (*RequestView, error) {
	receiver, err := repository.ResolveOne[model.User](ctx, v.store, req.ReceiverID)
	if err != nil {
		return nil, err
	}
	if receiver == nil {
		return nil, fmt.Errorf("%w: receiver of request %s", repository.ErrNotFound, req.ID)
	}
	view := &RequestView{
		ID:          req.ID,
		Receiver:    &UserSummary{ID: receiver.ID, Username: receiver.Username},
		Status:      req.Status,
		Start:       req.Start.Format(dateLayout),
		Title:       req.Title,
		Description: req.Description,
		Address:     req.Address,
		Reward:      req.Reward,
	}
	if req.Status == model.StatusEnd && req.End != nil {
		end := req.End.Format(dateLayout)
		view.End = &end
	}
	if req.SenderID != nil {
		sender, err := repository.ResolveOne[model.User](ctx, v.store, *req.SenderID)
		if err != nil {
			return nil, err
		}
		if sender == nil {
			return nil, fmt.Errorf("%w: sender of request %s", repository.ErrNotFound, req.ID)
		}
		view.Sender = &UserSummary{ID: sender.ID, Username: sender.Username}
	}
	return view, nil
}

// Transaction assembles the API view of a transaction, resolving its
// station reference back to the station id.
func (v *Views) Transaction(ctx context.Context, t *model.Transaction) (*TransactionView, error) {
	view := &TransactionView{
		ID:        t.ID,
		Timestamp: t.Timestamp.Format(dateLayout),
		Reward:    t.Reward,
		Trash:     t.Trash,
		User:      t.User,
	}
	if !t.TrashStation.IsZero() {
		station, err := repository.ResolveOne[model.TrashStation](ctx, v.store, t.TrashStation)
		if err != nil {
			return nil, err
		}
		if station == nil {
			return nil, fmt.Errorf("%w: station of transaction %s", repository.ErrNotFound, t.ID)
		}
		id := station.ID
		view.TrashStation = &id
	}
	return view, nil
}

// User assembles the API view of a user, embedding every transaction
// and request from the relation lists fully resolved.
func (v *Views) User(ctx context.Context, u *model.User) (*UserView, error) {
	view := &UserView{
		ID:          u.ID,
		Email:       u.Email,
		Fullname:    u.Fullname,
		Username:    u.Username,
		Phone:       u.Phone,
		Address:     u.Address,
		Point:       u.Point,
		Transaction: make([]*TransactionView, 0, len(u.Transaction)),
		Request:     make([]*UserRequestView, 0, len(u.Request)),
	}
	for i, t := range repository.ResolveMany[model.Transaction](ctx, v.store, u.Transaction) {
		if t == nil {
			return nil, fmt.Errorf("%w: transaction %s of user %s", repository.ErrNotFound, u.Transaction[i].ID, u.ID)
		}
		tv, err := v.Transaction(ctx, t)
		if err != nil {
			return nil, err
		}
		view.Transaction = append(view.Transaction, tv)
	}
	for i, req := range repository.ResolveMany[model.Request](ctx, v.store, u.Request) {
		if req == nil {
			return nil, fmt.Errorf("%w: request %s of user %s", repository.ErrNotFound, u.Request[i].ID, u.ID)
		}
		rv, err := v.userRequest(ctx, req)
		if err != nil {
			return nil, err
		}
		view.Request = append(view.Request, rv)
	}
	return view, nil
}

// Station assembles the API view of a trash station.  Each embedded
// transaction has its own station reference re-resolved back to the
// station id — a round trip kept for display consistency.
func (v *Views) Station(ctx context.Context, st *model.TrashStation) (*StationView, error) {
	view := &StationView{
		ID:          st.ID,
		Location:    st.Location,
		Available:   st.Available,
		Address:     st.Address,
		Capacity:    st.Capacity,
		OpenHours:   st.OpenHours,
		Transaction: make([]*TransactionView, 0, len(st.Transaction)),
	}
	for i, t := range repository.ResolveMany[model.Transaction](ctx, v.store, st.Transaction) {
		if t == nil {
			return nil, fmt.Errorf("%w: transaction %s of station %s", repository.ErrNotFound, st.Transaction[i].ID, st.ID)
		}
		tv, err := v.Transaction(ctx, t)
		if err != nil {
			return nil, err
		}
		view.Transaction = append(view.Transaction, tv)
	}
	return view, nil
}

func (v *Views) userRequest(ctx context.Context, req *model.Request) (*UserRequestView, error) {
	receiver, err := repository.ResolveOne[model.User](ctx, v.store, req.ReceiverID)
	if err != nil {
		return nil, err
	}
	if receiver == nil {
		return nil, fmt.Errorf("%w: receiver of request %s", repository.ErrNotFound, req.ID)
	}
	view := &UserRequestView{
		ID:          req.ID,
		Receiver:    receiver.Fullname,
		Status:      req.Status,
		Start:       req.Start.Format(dateLayout),
		Title:       req.Title,
		Description: req.Description,
		Address:     req.Address,
		Reward:      req.Reward,
	}
	if req.End != nil {
		end := req.End.Format(dateLayout)
		view.End = &end
	}
	if req.SenderID != nil {
		sender, err := repository.ResolveOne[model.User](ctx, v.store, *req.SenderID)
		if err != nil {
			return nil, err
		}
		if sender == nil {
			return nil, fmt.Errorf("%w: sender of request %s", repository.ErrNotFound, req.ID)
		}
		name := sender.Fullname
		view.Sender = &name
	}
	return view, nil
}
