package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/klmalviya77/trimtime-queue-master/internal/config"
	dbpkg "github.com/klmalviya77/trimtime-queue-master/internal/db"
	"github.com/klmalviya77/trimtime-queue-master/internal/middleware"
	"github.com/klmalviya77/trimtime-queue-master/internal/observ"
	"github.com/klmalviya77/trimtime-queue-master/internal/routes"
)

func main() {

	cfg := config.Load()

	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	db := dbpkg.NewDB(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Realtime is optional: without Redis the API still serves, only
	// the changefeed endpoint degrades.
	rdb, err := dbpkg.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		logger.Warn("redis unavailable, realtime feed disabled", zap.Error(err))
		rdb = nil
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, rdb, cfg, logger)

	logger.Info("server running",
		zap.String("addr", cfg.Addr()),
		zap.String("env", cfg.Env),
	)
	if err := r.Run(cfg.Addr()); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
