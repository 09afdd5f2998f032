package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/njordr/coastwatch/internal/alerts"
	"github.com/njordr/coastwatch/internal/api"
	"github.com/njordr/coastwatch/internal/broadcast"
	"github.com/njordr/coastwatch/internal/config"
	"github.com/njordr/coastwatch/internal/dashboard"
	"github.com/njordr/coastwatch/internal/intake"
	"github.com/njordr/coastwatch/internal/logging"
	"github.com/njordr/coastwatch/internal/repository"
	"github.com/njordr/coastwatch/internal/roles"
	"github.com/njordr/coastwatch/internal/storage"
	"github.com/njordr/coastwatch/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port)

	db, err := repository.NewSQLiteDB(cfg.DB.Path)
	if err != nil {
		logging.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Change-feed hub plus the pool that fans events into it
	hub := broadcast.NewBroadcaster()
	pool := worker.NewPool(cfg.Worker.Count, cfg.Worker.BufferSize, func(ctx context.Context, ev broadcast.Event) error {
		hub.Broadcast(ev)
		return nil
	})
	pool.Start(ctx)

	var images storage.ImageStore
	if cfg.Storage.Endpoint != "" {
		store, err := storage.NewMinioStore(cfg.Storage)
		if err != nil {
			logging.Fatalf("Failed to initialize image storage: %v", err)
		}
		images = store
	} else {
		slog.Warn("image storage not configured, photo uploads disabled")
	}

	intakeSvc := intake.NewService(db, images, pool)
	alertsSvc := alerts.NewService(db, db, pool)
	resolver := roles.NewResolver(db)

	// Seed the live dashboard from the store before serving
	seed, err := db.ListReports(ctx, repository.ReportFilter{})
	if err != nil {
		logging.Fatalf("Failed to seed dashboard feed: %v", err)
	}
	feed := dashboard.NewFeed(hub)
	feed.Start(seed)

	// Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false, // Set to false when using wildcard origins
	}))
	router.Use(api.RateLimitMiddleware(cfg.RateLimit.RPS))
	router.Use(api.Identity())

	handler := api.NewHandler(db, db, intakeSvc, alertsSvc, resolver, feed, hub)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	// Stop accepting requests before tearing the event pipeline down, so
	// no in-flight handler submits to a stopped pool.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	cancel()
	pool.Stop()
	feed.Stop()
	hub.Close() // Close all change feeds gracefully

	slog.Info("shutdown complete")
}
