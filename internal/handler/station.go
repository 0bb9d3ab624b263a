package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trashure/trashure-backend/internal/model"
	"github.com/trashure/trashure-backend/internal/repository"
	"github.com/trashure/trashure-backend/internal/service"
	"github.com/trashure/trashure-backend/internal/store"
)

// StationHandler serves trash station registration, updates and views.
type StationHandler struct {
	Stations *repository.StationRepo
	Views    *service.Views
}

// NewStationHandler constructs a StationHandler over the given store.
func NewStationHandler(s store.Store) *StationHandler {
	return &StationHandler{
		Stations: repository.NewStationRepo(s),
		Views:    service.NewViews(s),
	}
}

// List handles GET /trash-stations.
func (h *StationHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	stations, err := h.Stations.GetAll(ctx)
	if err != nil {
		return writeError(c, err)
	}
	views := make([]*service.StationView, 0, len(stations))
	for i := range stations {
		v, err := h.Views.Station(ctx, &stations[i])
		if err != nil {
			return writeError(c, err)
		}
		views = append(views, v)
	}
	return c.JSON(http.StatusOK, views)
}

// Get handles GET /trash-stations/:id.
func (h *StationHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	station, err := h.Stations.Get(ctx, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	view, err := h.Views.Station(ctx, station)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// stationBody is the payload shared by Create and Update.  Pointer
// fields distinguish "absent" from zero values so lat 0 or available
// false pass validation.
type stationBody struct {
	ID        *string  `json:"id"`
	Lat       *float64 `json:"lat"`
	Long      *float64 `json:"long"`
	Capacity  *int     `json:"capacity"`
	Available *bool    `json:"available"`
	OpenTime  *string  `json:"openTime"`
	CloseTime *string  `json:"closeTime"`
	Address   *string  `json:"address"`
}

func (b *stationBody) validate(requireID bool) error {
	if (requireID && b.ID == nil) || b.Lat == nil || b.Long == nil || b.Capacity == nil ||
		b.Available == nil || b.OpenTime == nil || b.CloseTime == nil || b.Address == nil {
		return fmt.Errorf("%w: please input all fields", repository.ErrValidation)
	}
	if *b.Capacity > 100 || *b.Capacity < 0 {
		return fmt.Errorf("%w: capacity is between 0-100%%", repository.ErrValidation)
	}
	return nil
}

// available applies the full-station override: a station at capacity
// 100 is never available, whatever the input says.
func (b *stationBody) available() bool {
	if *b.Capacity == 100 {
		return false
	}
	return *b.Available
}

// Create handles POST /trash-stations.
func (h *StationHandler) Create(c echo.Context) error {
	var body stationBody
	if err := c.Bind(&body); err != nil {
		return writeError(c, fmt.Errorf("%w: invalid request body", repository.ErrValidation))
	}
	if err := body.validate(true); err != nil {
		return writeError(c, err)
	}
	ctx := c.Request().Context()
	station := &model.TrashStation{
		ID:          *body.ID,
		Location:    model.GeoPoint{Lat: *body.Lat, Long: *body.Long},
		Available:   body.available(),
		Address:     *body.Address,
		Capacity:    *body.Capacity,
		OpenHours:   model.OpenHours{OpenTime: *body.OpenTime, CloseTime: *body.CloseTime},
		Transaction: []store.Ref{},
	}
	if err := h.Stations.Put(ctx, station); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, struct {
		Message string `json:"message"`
		model.TrashStation
	}{"Trash station successfully created", *station})
}

// Update handles PUT /trash-stations/:id.  All fields except the id
// are required; the transaction list is left untouched by the merge.
func (h *StationHandler) Update(c echo.Context) error {
	id := c.Param("id")
	var body stationBody
	if err := c.Bind(&body); err != nil {
		return writeError(c, fmt.Errorf("%w: invalid request body", repository.ErrValidation))
	}
	if err := body.validate(false); err != nil {
		return writeError(c, err)
	}
	ctx := c.Request().Context()
	err := h.Stations.Update(ctx, id, map[string]interface{}{
		"location":  model.GeoPoint{Lat: *body.Lat, Long: *body.Long},
		"available": body.available(),
		"capacity":  *body.Capacity,
		"address":   *body.Address,
		"openHours": model.OpenHours{OpenTime: *body.OpenTime, CloseTime: *body.CloseTime},
	})
	if err != nil {
		return writeError(c, err)
	}
	station, err := h.Stations.Get(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, struct {
		Message string `json:"message"`
		model.TrashStation
	}{"Trash station successfully updated", *station})
}

// UpdateCapacity handles PUT /trash-stations/:id/capacity.  Only the
// fill level changes; the bounds are exclusive because a station that
// is completely full or empty is adjusted through the full update.
func (h *StationHandler) UpdateCapacity(c echo.Context) error {
	id := c.Param("id")
	var body struct {
		Capacity *int `json:"capacity"`
	}
	if err := c.Bind(&body); err != nil {
		return writeError(c, fmt.Errorf("%w: invalid request body", repository.ErrValidation))
	}
	if body.Capacity == nil {
		return writeError(c, fmt.Errorf("%w: please input all fields", repository.ErrValidation))
	}
	if *body.Capacity >= 100 || *body.Capacity <= 0 {
		return writeError(c, fmt.Errorf("%w: capacity is between 0-100%%", repository.ErrValidation))
	}
	ctx := c.Request().Context()
	if _, err := h.Stations.Get(ctx, id); err != nil {
		return writeError(c, err)
	}
	if err := h.Stations.Update(ctx, id, map[string]interface{}{"capacity": *body.Capacity}); err != nil {
		return writeError(c, err)
	}
	station, err := h.Stations.Get(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	view, err := h.Views.Station(ctx, station)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, struct {
		Message string `json:"message"`
		*service.StationView
	}{"Trash station successfully updated", view})
}
