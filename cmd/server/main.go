package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/growai/arbitrageos-admin/internal/config"
	"github.com/growai/arbitrageos-admin/internal/database"
	"github.com/growai/arbitrageos-admin/internal/handler"
	"github.com/growai/arbitrageos-admin/internal/identity"
	"github.com/growai/arbitrageos-admin/internal/mailer"
	"github.com/growai/arbitrageos-admin/internal/queue"
	"github.com/growai/arbitrageos-admin/internal/ratelimit"
	"github.com/growai/arbitrageos-admin/internal/repository"
	"github.com/growai/arbitrageos-admin/internal/router"
	"github.com/growai/arbitrageos-admin/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments use the environment

	cfg := config.Load()
	rlCfg := config.LoadRateLimitConfig()

	db, err := database.Open(database.Config{
		User:         cfg.DBUser,
		Pass:         cfg.DBPass,
		Host:         cfg.DBHost,
		Port:         cfg.DBPort,
		Name:         cfg.DBName,
		MaxConns:     cfg.DBMaxConns,
		ConnLifetime: cfg.DBConnLifetime,
	})
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the shared rate-limit counters. When it is down the
	// server still starts, with per-process counters instead.
	var limiter ratelimit.Limiter
	if rdb := config.NewRedisClient(); rdb != nil {
		limiter = ratelimit.NewRedisLimiter(rdb)
	} else {
		log.Println("redis unavailable, rate limits fall back to in-process counters")
		limiter = ratelimit.NewMemoryLimiter()
	}

	admins := repository.NewAdminRepo(db)
	users := repository.NewUserRepo(db)
	invites := repository.NewInviteRepo(db)
	stats := repository.NewStatsRepo(db)

	sender, err := mailer.NewSESMailer(context.Background(), cfg.SESRegion, cfg.SESFromEmail, cfg.SESFromName)
	if err != nil {
		log.Fatalf("mailer: %v", err)
	}
	links := identity.NewClient(cfg.IdentityURL, cfg.IdentityKey)

	inviteSvc := service.NewInviteService(invites, users, links, sender, service.AMQPPublisher{}, cfg.BaseURL)
	userSvc := service.NewUserService(users, service.AMQPPublisher{})

	go func() {
		if err := queue.StartEventConsumer(); err != nil {
			log.Printf("event consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	router.RegisterRoutes(e)
	router.RegisterAdmin(e, router.AdminDeps{
		Auth:      handler.NewAuthHandler(cfg.SessionSecret, admins),
		Users:     handler.NewUserHandler(userSvc),
		Invites:   handler.NewInviteHandler(inviteSvc, cfg.BaseURL),
		Stats:     handler.NewStatsHandler(stats),
		Webhook:   handler.NewWebhookHandler(inviteSvc, cfg.WebhookSecret, cfg.WebhookSource),
		Secret:    cfg.SessionSecret,
		Admins:    admins,
		Limiter:   limiter,
		RateLimit: rlCfg,
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
