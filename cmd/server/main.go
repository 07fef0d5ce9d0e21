package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/oreshkin/slotbook/internal/auth"
	"github.com/oreshkin/slotbook/internal/config"
	"github.com/oreshkin/slotbook/internal/database"
	"github.com/oreshkin/slotbook/internal/handler"
	"github.com/oreshkin/slotbook/internal/middleware"
	"github.com/oreshkin/slotbook/internal/queue"
	"github.com/oreshkin/slotbook/internal/repository"
	"github.com/oreshkin/slotbook/internal/router"
	"github.com/oreshkin/slotbook/internal/seed"
	"github.com/oreshkin/slotbook/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("schema: %v", err)
	}

	slots := repository.NewSlotRepo(db)
	if err := seed.Apply(ctx, slots); err != nil {
		log.Fatalf("seed: %v", err)
	}

	// Resolve the admin credential once.  A precomputed digest wins; the
	// plain-password fallback exists so a bare dev environment works.
	adminHash := cfg.AdminPasswordHash
	if adminHash == "" {
		adminHash, err = auth.HashPassword(cfg.AdminPassword, cfg.BcryptCost)
		if err != nil {
			log.Fatalf("admin password hash: %v", err)
		}
	}
	sessions := auth.NewSessionStore()

	var events service.EventPublisher
	if cfg.EventsEnabled {
		events = service.NewAMQPPublisher("")
		go func() {
			if err := queue.StartConsumer(); err != nil {
				log.Printf("slot-consumer: %v", err)
			}
		}()
	}
	engine := service.NewBookingEngine(slots, events)

	rdb := config.NewRedisClient() // nil when Redis is unreachable; middlewares degrade to no-ops
	if rdb == nil {
		log.Printf("redis unavailable: rate limiting and slot-list caching disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cacheMW := middleware.NewSlotListCache(config.LoadCacheConfig(), rdb)

	b := handler.NewBookingHandler(engine, slots)
	a := handler.NewAdminHandler(cfg.AdminLogin, adminHash, sessions, engine, slots)
	router.Register(e, b, a, sessions, cacheMW)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
