package http

import (
	"time"

	"point-arena/internal/config"
	"point-arena/internal/http/handlers"
	"point-arena/internal/http/middleware"
	"point-arena/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
)

// RegisterRoutes wires the full HTTP surface onto the engine.
func RegisterRoutes(r *gin.Engine, h *handlers.Handler, hub *ws.Hub, db *pgxpool.Pool, rdb *redis.Client, cfg *config.Config, version string) {
	healthHandler := handlers.NewHealthHandler(db, rdb, version)

	// Health checks and metrics (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow))
	registerAPIRoutes(v1, h, cfg)

	// WebSocket push channel (token in query, not behind the JWT middleware)
	r.GET("/ws", h.WS(hub))
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler, cfg *config.Config) {
	auth := middleware.JWT()

	// mutating game endpoints get a tighter per-user window on top of the
	// per-IP group limit
	actionRL := middleware.SubjectRateLimit(cfg.ActionRateLimit, time.Minute)

	// User profile
	api.GET("/me", auth, h.Me)
	api.PUT("/me", auth, h.UpdateMe)

	// Daily draw
	api.POST("/draw/daily", auth, actionRL, h.ClaimDraw)

	// Matches
	api.POST("/matches", auth, actionRL, h.EnterMatch)
	api.GET("/matches", auth, h.ListMatches)

	// Gifts
	api.GET("/gifts", auth, h.ListGifts)
	api.POST("/gifts/:id/open", auth, actionRL, h.OpenGift)

	// Rankings are public
	api.GET("/rankings/points", h.PointRanking)
	api.GET("/rankings/diffs", h.DiffRanking)

	// Admin
	admin := api.Group("/admin")
	admin.Use(auth, middleware.RequireRole("admin"))
	{
		admin.POST("/gifts/distribute", h.DistributeGift)
	}
}
