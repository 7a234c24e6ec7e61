package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"point-arena/internal/config"
	"point-arena/internal/db"
	httpServer "point-arena/internal/http"
	"point-arena/internal/http/handlers"
	"point-arena/internal/http/middleware"
	"point-arena/internal/logger"
	"point-arena/internal/repository"
	"point-arena/internal/scheduler"
	"point-arena/internal/service"
	"point-arena/internal/ws"

	"github.com/gin-gonic/gin"
)

var version = "dev" // set via -ldflags at build time

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	service.InitJWT()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Fatal("invalid timezone", "timezone", cfg.Timezone, "error", err)
	}

	dbPool := db.Connect(cfg.DatabaseURL)
	defer dbPool.Close()

	rdb := db.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	middleware.InitRedisRateLimiter(rdb)

	// stores
	users := repository.NewUserRepository(dbPool)
	draws := repository.NewDrawEventRepository(dbPool)
	matches := repository.NewMatchRepository(dbPool)
	gifts := repository.NewGiftRepository(dbPool)
	snaps := repository.NewSnapshotRepository(dbPool)
	rankings := repository.NewRankingRepository(rdb)

	hub := ws.NewHub()

	// services
	userService := service.NewUserService(users)
	drawService := service.NewDrawService(users, draws, cfg.DrawMin, cfg.DrawMax, loc)
	matchService := service.NewMatchService(users, matches, cfg.MatchStake)
	giftService := service.NewGiftService(gifts, users)
	rankingService := service.NewRankingService(rankings, users)
	distribution := service.NewDistributionService(users, gifts)
	snapshotService := service.NewSnapshotService(users, snaps, rankings, cfg.SnapshotDebounce)
	engine := service.NewMatchEngine(matches, gifts, users, hub, cfg.MatchBatchSize, cfg.MatchTimeout)

	sched, err := scheduler.New(engine, snapshotService, cfg.MatchInterval, cfg.SnapshotInterval)
	if err != nil {
		logger.Fatal("failed to set up scheduler", "error", err)
	}
	sched.Start()
	defer sched.Shutdown()

	r := gin.Default()

	// CORS for a frontend on a different origin
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

	h := handlers.NewHandler(userService, drawService, matchService, giftService, rankingService, distribution)
	httpServer.RegisterRoutes(r, h, hub, dbPool, rdb, cfg, version)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "version", version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
