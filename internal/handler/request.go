package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trashure/trashure-backend/internal/model"
	"github.com/trashure/trashure-backend/internal/queue"
	"github.com/trashure/trashure-backend/internal/repository"
	"github.com/trashure/trashure-backend/internal/service"
	"github.com/trashure/trashure-backend/internal/store"
)

// RequestHandler serves the pickup-request lifecycle: posting a
// request, advancing it through the status state machine, and
// triggering reward settlement on completion.
type RequestHandler struct {
	Requests *repository.RequestRepo
	Users    *repository.UserRepo
	Views    *service.Views
	Settle   *service.Settlement
	Store    store.Store

	// Dispatch hands a settlement event off for asynchronous
	// application.  It defaults to Settle.Dispatch; tests swap in a
	// synchronous apply.
	Dispatch func(ctx context.Context, event queue.SettlementEvent)
}

// NewRequestHandler constructs a RequestHandler over the given store.
func NewRequestHandler(s store.Store) *RequestHandler {
	settle := service.NewSettlement(s)
	return &RequestHandler{
		Requests: repository.NewRequestRepo(s),
		Users:    repository.NewUserRepo(s),
		Views:    service.NewViews(s),
		Settle:   settle,
		Store:    s,
		Dispatch: settle.Dispatch,
	}
}

// List handles GET /requests.
func (h *RequestHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	reqs, err := h.Requests.GetAll(ctx)
	if err != nil {
		return writeError(c, err)
	}
	views := make([]*service.RequestView, 0, len(reqs))
	for i := range reqs {
		v, err := h.Views.Request(ctx, &reqs[i])
		if err != nil {
			return writeError(c, err)
		}
		views = append(views, v)
	}
	return c.JSON(http.StatusOK, views)
}

// Get handles GET /requests/:id.
func (h *RequestHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	req, err := h.Requests.Get(ctx, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	view, err := h.Views.Request(ctx, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// Create handles POST /requests.  The poster becomes the receiver;
// the request opens at "initial" with no sender and a store-assigned
// start timestamp.
func (h *RequestHandler) Create(c echo.Context) error {
	var body struct {
		ReceiverID  *string `json:"receiverID"`
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Address     *string `json:"address"`
		Reward      *int    `json:"reward"`
	}
	if err := c.Bind(&body); err != nil {
		return writeError(c, fmt.Errorf("%w: invalid request body", repository.ErrValidation))
	}
	if body.ReceiverID == nil || body.Title == nil || body.Description == nil ||
		body.Address == nil || body.Reward == nil {
		return writeError(c, fmt.Errorf("%w: please input all fields", repository.ErrValidation))
	}
	ctx := c.Request().Context()
	if _, err := h.Users.Get(ctx, *body.ReceiverID); err != nil {
		return writeError(c, err)
	}
	now := h.Store.ServerTimestamp(ctx)
	req := &model.Request{
		ID:          strconv.FormatInt(now.UnixMilli(), 10),
		ReceiverID:  h.Users.Ref(*body.ReceiverID),
		SenderID:    nil,
		Status:      model.StatusInitial,
		Start:       now,
		End:         nil,
		Title:       *body.Title,
		Description: *body.Description,
		Address:     *body.Address,
		Reward:      *body.Reward,
	}
	if err := h.Requests.Put(ctx, req); err != nil {
		return writeError(c, err)
	}
	view, err := h.Views.Request(ctx, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, view)
}

// Update handles PUT /requests/:id.  Only the supplied fields change.
// A status change must satisfy the state machine; moving to "taken"
// requires a sender, and a sender, once assigned, is never
// overwritten.  A transition to "end" stamps the completion time and
// dispatches reward settlement after the response is on its way.
func (h *RequestHandler) Update(c echo.Context) error {
	id := c.Param("id")
	var body struct {
		SenderID    *string `json:"senderID"`
		Status      *string `json:"status"`
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Address     *string `json:"address"`
		Reward      *int    `json:"reward"`
	}
	if err := c.Bind(&body); err != nil {
		return writeError(c, fmt.Errorf("%w: invalid request body", repository.ErrValidation))
	}
	ctx := c.Request().Context()
	old, err := h.Requests.Get(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	if body.Status != nil && !model.IsValidTransition(old.Status, model.Status(*body.Status)) {
		return writeError(c, fmt.Errorf("%w: %s -> %s", repository.ErrInvalidTransition, old.Status, *body.Status))
	}
	if body.Status != nil && model.Status(*body.Status) == model.StatusTaken && body.SenderID == nil {
		return writeError(c, fmt.Errorf("%w: sender ID is required when the request is taken", repository.ErrConflict))
	}

	var senderRef *store.Ref
	if body.SenderID != nil {
		if _, err := h.Users.Get(ctx, *body.SenderID); err != nil {
			return writeError(c, err)
		}
		ref := h.Users.Ref(*body.SenderID)
		senderRef = &ref
	}

	updated := *old
	// First assignment wins: a sender supplied after one is already
	// set is ignored.
	if old.SenderID == nil {
		updated.SenderID = senderRef
	}
	if body.Status != nil {
		updated.Status = model.Status(*body.Status)
	}
	if body.Title != nil {
		updated.Title = *body.Title
	}
	if body.Description != nil {
		updated.Description = *body.Description
	}
	if body.Address != nil {
		updated.Address = *body.Address
	}
	if body.Reward != nil {
		updated.Reward = *body.Reward
	}

	completing := updated.Status == model.StatusEnd && old.Status != model.StatusEnd
	if completing {
		if updated.SenderID == nil {
			return writeError(c, fmt.Errorf("%w: request %s has no sender to settle with", repository.ErrConflict, id))
		}
		end := h.Store.ServerTimestamp(ctx)
		updated.End = &end
	}

	if err := h.Requests.Put(ctx, &updated); err != nil {
		return writeError(c, err)
	}
	view, err := h.Views.Request(ctx, &updated)
	if err != nil {
		return writeError(c, err)
	}

	if completing {
		h.Dispatch(ctx, queue.SettlementEvent{
			RequestID:   updated.ID,
			SenderID:    updated.SenderID.ID,
			ReceiverID:  updated.ReceiverID.ID,
			Reward:      updated.Reward,
			CompletedAt: updated.End.UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, view)
}
