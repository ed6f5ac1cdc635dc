package http

import (
	"time"

	"prediction_webapp/internal/http/handlers"
	"prediction_webapp/internal/http/middleware"
	"prediction_webapp/internal/ws"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

type RouteDeps struct {
	Handler   *handlers.Handler
	Hub       *ws.Hub
	Publisher ws.Publisher
	Redis     *redis.Client

	RateLimit  int
	RateWindow time.Duration
}

func RegisterRoutes(r *gin.Engine, deps RouteDeps) {
	h := deps.Handler

	r.GET("/health", h.Health)
	r.GET("/ws", ws.Handler(deps.Hub, deps.Publisher))

	api := r.Group("/api")
	api.Use(middleware.RedisRateLimit(deps.Redis, deps.RateLimit, deps.RateWindow))

	api.POST("/auth/register", h.Register)
	api.GET("/bonus", h.BonusStatus)

	authed := api.Group("")
	authed.Use(middleware.AuthRequired())
	{
		authed.GET("/me", h.Me)
		authed.PUT("/me/currency", h.SetCurrency)
		authed.PUT("/me/handle", h.SetHandle)
		authed.PUT("/me/notifications", h.SetNotifications)
		authed.POST("/me/avatar-uploaded", h.AvatarUploaded)
		authed.GET("/me/awards", h.MyAwards)
		authed.GET("/me/rank", h.MyRank)
		authed.POST("/actions", h.RecordAction)
		authed.GET("/leaderboard", h.Leaderboard)
		authed.GET("/dead-letters", h.DeadLetters)
	}
}
