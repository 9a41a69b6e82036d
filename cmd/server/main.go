package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/connectfe/connectfe-api/internal/config"
	"github.com/connectfe/connectfe-api/internal/database"
	"github.com/connectfe/connectfe-api/internal/handler"
	"github.com/connectfe/connectfe-api/internal/ledger"
	"github.com/connectfe/connectfe-api/internal/middleware"
	"github.com/connectfe/connectfe-api/internal/queue"
	"github.com/connectfe/connectfe-api/internal/repository"
	"github.com/connectfe/connectfe-api/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	raffleRepo := repository.NewRaffleRepo(db)
	purchaseRepo := repository.NewPurchaseRepo(db)
	campaignRepo := repository.NewCampaignRepo(db)

	led := ledger.New(db, raffleRepo, purchaseRepo, cfg.MaxTicketsPerBuy)

	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	raffleHandler := handler.NewRaffleHandler(led, purchaseRepo)
	purchaseHandler := handler.NewPurchaseHandler(led, purchaseRepo)
	campaignHandler := handler.NewCampaignHandler(campaignRepo)
	browseHandler := handler.NewBrowseHandler(led)

	// Redis backs the public-response cache and the rate limiter.  Both
	// degrade to pass-through when Redis is unreachable.
	rdb := config.NewRedisClient()
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterPublic(e, browseHandler, campaignHandler, cache)
	router.RegisterChurch(e, raffleHandler, campaignHandler, cfg.JWTSecret)
	router.RegisterMember(e, purchaseHandler, campaignHandler, cfg.JWTSecret, limiter)

	// Draw announcements are consumed in-process for now; the consumer
	// reconnects on its own if the broker drops.
	go func() {
		if err := queue.StartRaffleDrawnConsumer(); err != nil {
			log.Printf("queue consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
