package handler

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/trashure/trashure-backend/internal/identity"
	"github.com/trashure/trashure-backend/internal/model"
	"github.com/trashure/trashure-backend/internal/repository"
	"github.com/trashure/trashure-backend/internal/service"
	"github.com/trashure/trashure-backend/internal/store"
)

// UserHandler serves user registration, profile updates and the
// drop-off transaction path.  Registration happens after the identity
// provider has authenticated the account; the handler only persists
// the platform profile and keeps the provider mirror in sync.
type UserHandler struct {
	Users        *repository.UserRepo
	Stations     *repository.StationRepo
	Transactions *repository.TransactionRepo
	Rel          *repository.Relations
	Views        *service.Views
	Settle       *service.Settlement
	Identity     identity.Provider
	Store        store.Store
}

// NewUserHandler constructs a UserHandler over the given store and
// identity provider.
func NewUserHandler(s store.Store, idp identity.Provider) *UserHandler {
	return &UserHandler{
		Users:        repository.NewUserRepo(s),
		Stations:     repository.NewStationRepo(s),
		Transactions: repository.NewTransactionRepo(s),
		Rel:          repository.NewRelations(s),
		Views:        service.NewViews(s),
		Settle:       service.NewSettlement(s),
		Identity:     idp,
		Store:        s,
	}
}

// List handles GET /users.  Every user is returned fully dereferenced;
// an empty array when there are none.
func (h *UserHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	users, err := h.Users.GetAll(ctx)
	if err != nil {
		return writeError(c, err)
	}
	views := make([]*service.UserView, 0, len(users))
	for i := range users {
		v, err := h.Views.User(ctx, &users[i])
		if err != nil {
			return writeError(c, err)
		}
		views = append(views, v)
	}
	return c.JSON(http.StatusOK, views)
}

// Get handles GET /users/:id.
func (h *UserHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	u, err := h.Users.Get(ctx, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	view, err := h.Views.User(ctx, u)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// Create handles POST /users.  All profile fields are required; the
// new user starts with zero points and empty relation lists.  The
// identity mirror is updated best-effort: a mirror failure is logged
// but does not fail the registration.
func (h *UserHandler) Create(c echo.Context) error {
	var body struct {
		ID       *string `json:"id"`
		Email    *string `json:"email"`
		Fullname *string `json:"fullname"`
		Username *string `json:"username"`
		Phone    *string `json:"phone"`
		Address  *string `json:"address"`
		Password string  `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return writeError(c, fmt.Errorf("%w: invalid request body", repository.ErrValidation))
	}
	if body.ID == nil || body.Email == nil || body.Fullname == nil ||
		body.Username == nil || body.Phone == nil || body.Address == nil {
		return writeError(c, fmt.Errorf("%w: please input all fields", repository.ErrValidation))
	}
	ctx := c.Request().Context()
	u := &model.User{
		ID:          *body.ID,
		Email:       *body.Email,
		Fullname:    *body.Fullname,
		Username:    *body.Username,
		Phone:       *body.Phone,
		Address:     *body.Address,
		Point:       0,
		Transaction: []store.Ref{},
		Request:     []store.Ref{},
	}
	if err := h.Users.Put(ctx, u); err != nil {
		return writeError(c, err)
	}
	if err := h.Identity.CreateUser(ctx, identity.Profile{
		ID:    u.ID,
		Email: u.Email,
		Phone: u.Phone,
	}, body.Password); err != nil {
		log.Printf("identity: mirror create for %s failed: %v", u.ID, err)
	}
	return c.JSON(http.StatusOK, struct {
		Message string `json:"message"`
		model.User
	}{"User data saved successfully", *u})
}

// Update handles PUT /users/:id.  Only the supplied profile fields
// change; relation lists and points are untouched.  Email and password
// changes are synced to the identity mirror.
func (h *UserHandler) Update(c echo.Context) error {
	id := c.Param("id")
	var body struct {
		Email    *string `json:"email"`
		Fullname *string `json:"fullname"`
		Username *string `json:"username"`
		Phone    *string `json:"phone"`
		Address  *string `json:"address"`
		Password string  `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return writeError(c, fmt.Errorf("%w: invalid request body", repository.ErrValidation))
	}
	ctx := c.Request().Context()
	u, err := h.Users.Get(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	if _, err := h.Identity.GetUserByID(ctx, id); err != nil {
		if err == identity.ErrProfileNotFound {
			return writeError(c, fmt.Errorf("%w: user %s", repository.ErrNotFound, id))
		}
		return writeError(c, err)
	}
	if body.Email != nil {
		u.Email = *body.Email
	}
	if body.Fullname != nil {
		u.Fullname = *body.Fullname
	}
	if body.Username != nil {
		u.Username = *body.Username
	}
	if body.Phone != nil {
		u.Phone = *body.Phone
	}
	if body.Address != nil {
		u.Address = *body.Address
	}
	if err := h.Users.Put(ctx, u); err != nil {
		return writeError(c, err)
	}
	email := ""
	if body.Email != nil {
		email = *body.Email
	}
	if _, err := h.Identity.UpdateUser(ctx, id, email, body.Password); err != nil {
		log.Printf("identity: mirror update for %s failed: %v", id, err)
	}
	view, err := h.Views.User(ctx, u)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// CreateTransaction handles PUT /users/:id/transaction.  It records an
// immutable drop-off transaction, links it to both the station and the
// user, credits the user the reward, and returns the user's refreshed
// view.
func (h *UserHandler) CreateTransaction(c echo.Context) error {
	id := c.Param("id")
	var body struct {
		Reward         *int    `json:"reward"`
		Paper          *int    `json:"paper"`
		Plastic        *int    `json:"plastic"`
		TrashStationID *string `json:"trashStationID"`
	}
	if err := c.Bind(&body); err != nil {
		return writeError(c, fmt.Errorf("%w: invalid request body", repository.ErrValidation))
	}
	if body.Reward == nil || body.Paper == nil || body.Plastic == nil || body.TrashStationID == nil {
		return writeError(c, fmt.Errorf("%w: please input all fields", repository.ErrValidation))
	}
	ctx := c.Request().Context()
	u, err := h.Users.Get(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	station, err := h.Stations.Get(ctx, *body.TrashStationID)
	if err != nil {
		return writeError(c, err)
	}

	now := h.Store.ServerTimestamp(ctx)
	t := &model.Transaction{
		ID:           strconv.FormatInt(now.UnixMilli(), 10),
		Timestamp:    now,
		Reward:       *body.Reward,
		Trash:        model.TrashWeight{Paper: *body.Paper, Plastic: *body.Plastic},
		TrashStation: h.Stations.Ref(station.ID),
		User:         u.Username,
	}
	if err := h.Transactions.Create(ctx, t); err != nil {
		return writeError(c, err)
	}
	txRef := h.Transactions.Ref(t.ID)
	if err := h.Rel.AppendAtomic(ctx, model.CollectionTrashStation, station.ID, "transaction", txRef); err != nil {
		return writeError(c, err)
	}
	if err := h.Rel.AppendAtomic(ctx, model.CollectionUser, u.ID, "transaction", txRef); err != nil {
		return writeError(c, err)
	}
	if err := h.Settle.CreditPoints(ctx, u.ID, t.Reward); err != nil {
		return writeError(c, err)
	}

	updated, err := h.Users.Get(ctx, u.ID)
	if err != nil {
		return writeError(c, err)
	}
	view, err := h.Views.User(ctx, updated)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}
