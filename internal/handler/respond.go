package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trashure/trashure-backend/internal/repository"
)

// writeError translates the repository sentinel errors into structured
// JSON failure responses.  Nothing here terminates the process; every
// internal error becomes a 500 with a generic body.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrValidation), errors.Is(err, repository.ErrInvalidTransition):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	default:
		log.Printf("handler: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
