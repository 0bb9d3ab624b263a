package main // Entry point package

import (
	"log" // Logging library

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/trashure/trashure-backend/internal/config"
	"github.com/trashure/trashure-backend/internal/handler"
	"github.com/trashure/trashure-backend/internal/identity"
	"github.com/trashure/trashure-backend/internal/queue"
	"github.com/trashure/trashure-backend/internal/router"
	"github.com/trashure/trashure-backend/internal/service"
	"github.com/trashure/trashure-backend/internal/store"
)

func main() {
	cfg := config.Load() // Load environment config (and .env if present)

	// The Redis-backed document store holds every platform entity and
	// is not optional.
	client := config.NewRedisClient()
	if client == nil {
		log.Fatal("cannot connect to redis document store")
	}
	docs := store.NewRedisStore(client)

	// Identity-provider profile mirror.
	db, err := identity.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("cannot connect to identity mirror: %v", err)
	}
	idp := identity.NewMySQLProvider(db, cfg.BcryptCost)

	// Settlement worker: applies request.settled events from the
	// durable queue, retrying until each one lands.
	settle := service.NewSettlement(docs)
	go func() {
		if err := queue.StartSettlementConsumer(settle); err != nil {
			log.Printf("settlement consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e,
		handler.NewUserHandler(docs, idp),
		handler.NewStationHandler(docs),
		handler.NewTransactionHandler(docs),
		handler.NewRequestHandler(docs),
		cfg.JWTSecret,
	)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
