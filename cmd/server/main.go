package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/codearena/frontend/internal/config"
	handler "github.com/codearena/frontend/internal/delivery/http"
	"github.com/codearena/frontend/internal/session"
	"github.com/codearena/frontend/internal/upstream/httpapi"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	logger.Info("Starting CodeArena front-end gateway")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Shared HTTP client for all upstream services
	httpc := &http.Client{Timeout: cfg.Services.RequestTimeout}

	identity := httpapi.NewIdentityClient(cfg.Services.AuthBaseURL, httpc, logger)
	catalog := httpapi.NewCatalogClient(cfg.Services.ProblemBaseURL, httpc, logger)
	execution := httpapi.NewExecutionClient(cfg.Services.ExecutionBaseURL, httpc, logger)
	discussion := httpapi.NewDiscussionClient(cfg.Services.DiscussionBaseURL, httpc, logger)
	leaderboard := httpapi.NewLeaderboardClient(cfg.Services.LeaderboardBaseURL, httpc, logger)
	hints := httpapi.NewHintClient(cfg.Services.AIBaseURL, httpc, logger)

	// Session registry: one session per browser, one realtime transport per session
	sessions := session.NewRegistry()
	sessions.StartSweeper(cfg.Session.IdleTTL)
	sessionOpts := session.Options{
		RealtimeURL:     cfg.Services.RealtimeURL,
		DialTimeout:     cfg.Services.DialTimeout,
		RefreshInterval: cfg.Session.RefreshInterval,
	}

	// Initialize router
	router := handler.NewRouter(&handler.RouterDeps{
		Logger:          logger,
		RateLimitPerMin: cfg.Server.RateLimit,
		Sessions:        sessions,
		SessionOpts:     sessionOpts,
		SessionCookie:   cfg.Session.CookieName,
		Identity:        identity,
		Catalog:         catalog,
		Execution:       execution,
		Discussion:      discussion,
		Leaderboard:     leaderboard,
		Hints:           hints,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Gateway listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down gateway...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	// Leave realtime rooms and stop refresh loops before exiting.
	sessions.CloseAll()

	logger.Info("Gateway stopped")
}
