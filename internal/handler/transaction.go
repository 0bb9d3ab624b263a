package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/trashure/trashure-backend/internal/model"
	"github.com/trashure/trashure-backend/internal/repository"
	"github.com/trashure/trashure-backend/internal/service"
	"github.com/trashure/trashure-backend/internal/store"
)

// TransactionHandler serves the transaction read paths and the legacy
// station-less create.  The usual way to record a drop-off is
// PUT /users/:id/transaction, which also maintains the relation lists.
type TransactionHandler struct {
	Transactions *repository.TransactionRepo
	Views        *service.Views
	Store        store.Store
}

// NewTransactionHandler constructs a TransactionHandler over the
// given store.
func NewTransactionHandler(s store.Store) *TransactionHandler {
	return &TransactionHandler{
		Transactions: repository.NewTransactionRepo(s),
		Views:        service.NewViews(s),
		Store:        s,
	}
}

// List handles GET /transactions.
func (h *TransactionHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	txs, err := h.Transactions.GetAll(ctx)
	if err != nil {
		return writeError(c, err)
	}
	views := make([]*service.TransactionView, 0, len(txs))
	for i := range txs {
		v, err := h.Views.Transaction(ctx, &txs[i])
		if err != nil {
			return writeError(c, err)
		}
		views = append(views, v)
	}
	return c.JSON(http.StatusOK, views)
}

// Get handles GET /transactions/:id.
func (h *TransactionHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	t, err := h.Transactions.Get(ctx, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	view, err := h.Views.Transaction(ctx, t)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// Create handles POST /transactions: a bare transaction without a
// station or user link, kept for older clients.
func (h *TransactionHandler) Create(c echo.Context) error {
	var body struct {
		Reward  *int `json:"reward"`
		Paper   *int `json:"paper"`
		Plastic *int `json:"plastic"`
	}
	if err := c.Bind(&body); err != nil {
		return writeError(c, fmt.Errorf("%w: invalid request body", repository.ErrValidation))
	}
	if body.Reward == nil || body.Paper == nil || body.Plastic == nil {
		return writeError(c, fmt.Errorf("%w: please input all fields", repository.ErrValidation))
	}
	ctx := c.Request().Context()
	now := h.Store.ServerTimestamp(ctx)
	t := &model.Transaction{
		ID:        strconv.FormatInt(now.UnixMilli(), 10),
		Timestamp: now,
		Reward:    *body.Reward,
		Trash:     model.TrashWeight{Paper: *body.Paper, Plastic: *body.Plastic},
	}
	if err := h.Transactions.Create(ctx, t); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, struct {
		Message string `json:"message"`
		model.Transaction
	}{"Transaction successfully created", *t})
}
