// Package router wires the HTTP routes to their handlers.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/trashure/trashure-backend/internal/handler"
	"github.com/trashure/trashure-backend/internal/middleware"
)

// RegisterRoutes registers all application routes on the provided Echo
// instance.  Read paths are open; write paths require a bearer token
// issued by the identity provider, verified with jwtSecret.
func RegisterRoutes(e *echo.Echo, u *handler.UserHandler, s *handler.StationHandler, t *handler.TransactionHandler, r *handler.RequestHandler, jwtSecret string) {
	// Health check for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	e.GET("/users", u.List)
	e.GET("/users/:id", u.Get)
	e.GET("/trash-stations", s.List)
	e.GET("/trash-stations/:id", s.Get)
	e.GET("/transactions", t.List)
	e.GET("/transactions/:id", t.Get)
	e.GET("/requests", r.List)
	e.GET("/requests/:id", r.Get)

	w := e.Group("", middleware.RequireUser(jwtSecret))
	w.POST("/users", u.Create)
	w.PUT("/users/:id", u.Update)
	w.PUT("/users/:id/transaction", u.CreateTransaction)
	w.POST("/trash-stations", s.Create)
	w.PUT("/trash-stations/:id", s.Update)
	w.PUT("/trash-stations/:id/capacity", s.UpdateCapacity)
	w.POST("/transactions", t.Create)
	w.POST("/requests", r.Create)
	w.PUT("/requests/:id", r.Update)
}
