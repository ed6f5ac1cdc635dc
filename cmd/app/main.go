package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"prediction_webapp/internal/config"
	"prediction_webapp/internal/db"
	httpServer "prediction_webapp/internal/http"
	"prediction_webapp/internal/http/handlers"
	"prediction_webapp/internal/logger"
	"prediction_webapp/internal/pubsub"
	"prediction_webapp/internal/repository"
	"prediction_webapp/internal/service"
	"prediction_webapp/internal/wallet"
	"prediction_webapp/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_JSON") == "true")

	cfg := config.Load()
	service.InitJWT(cfg.JWTSecret)

	dbPool := db.Connect(cfg.DatabaseURL)
	defer dbPool.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logger.Fatal("failed to ping redis", "error", err)
	}
	defer rdb.Close()

	// repositories
	userRepo := repository.NewUserRepository(dbPool)
	awardRepo := repository.NewAwardRepository(dbPool)
	bonusRepo := repository.NewBonusRepository(dbPool)
	deadLetterRepo := repository.NewDeadLetterRepository(dbPool)

	// collaborators and services
	gateway := wallet.NewLedgerGateway(dbPool)
	publisher := pubsub.NewPublisher(rdb)

	rewardService := service.NewRewardService(
		userRepo, awardRepo, bonusRepo, gateway, publisher, deadLetterRepo,
		cfg.BonusAmount, cfg.BonusDeadline,
	)
	rankService := service.NewRankService(userRepo)
	userService := service.NewUserService(userRepo, rewardService, publisher)

	// socket fan-out and the pub/sub router feeding it
	hub := ws.NewHub()
	router := pubsub.NewRouter(rdb, rewardService, hub)

	routerCtx, stopRouter := context.WithCancel(context.Background())
	go router.Run(routerCtx)

	r := gin.Default()

	// CORS for production (frontend on different domain)
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler := handlers.NewHandler(userService, rankService, rewardService, awardRepo, bonusRepo, deadLetterRepo, gateway)
	httpServer.RegisterRoutes(r, httpServer.RouteDeps{
		Handler:    handler,
		Hub:        hub,
		Publisher:  publisher,
		Redis:      rdb,
		RateLimit:  cfg.APIRateLimit,
		RateWindow: time.Duration(cfg.APIRateWindow) * time.Second,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	stopRouter()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
