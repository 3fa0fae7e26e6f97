package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quakemap/quakemap-be/internal/api"
	"github.com/quakemap/quakemap-be/internal/config"
	"github.com/quakemap/quakemap-be/internal/logger"
	"github.com/quakemap/quakemap-be/internal/monitoring"
	"github.com/quakemap/quakemap-be/internal/observability"
	"github.com/quakemap/quakemap-be/internal/services"
	"github.com/quakemap/quakemap-be/internal/state"
	"github.com/quakemap/quakemap-be/internal/usgs"
	"github.com/quakemap/quakemap-be/internal/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.LogLevel)

	// Set up metrics and WebSocket hub
	metrics := observability.NewMetrics()
	hub := websocket.NewHub(metrics)
	go hub.Run()

	// Set up the feed client, the state store, and the feed service
	feedClient := usgs.NewClient(cfg.FeedURL, cfg.FeedTimeout)
	store := state.NewStore(state.NewState())
	feedService := services.NewFeedService(store, feedClient, hub, metrics, nil)

	// Kick off the single startup fetch. The page shows its loading state
	// until this settles; there is no retry.
	go feedService.LoadInitial(context.Background())

	// Set up and run the background feed refresher
	refresher, err := monitoring.NewRefresher(feedService, hub, cfg.RefreshSchedule, nil)
	if err != nil {
		log.Fatalf("Invalid REFRESH_SCHEDULE: %v", err)
	}
	go refresher.Run()

	// Set up router
	router := api.NewRouter(hub, feedService, cfg.AllowedOrigins)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on port %d\n", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	refresher.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
