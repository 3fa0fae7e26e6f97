package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/quakemap/quakemap-be/internal/api/handlers"
	"github.com/quakemap/quakemap-be/internal/services"
	"github.com/quakemap/quakemap-be/internal/websocket"
	"github.com/quakemap/quakemap-be/web"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(hub *websocket.Hub, feedService services.FeedServiceProvider, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	// Initialize handlers
	eventHandler := handlers.NewEventHandler(feedService)
	regionHandler := handlers.NewRegionHandler(feedService)
	statusHandler := handlers.NewStatusHandler(feedService)
	wsHandler := handlers.NewWebSocketHandler(hub, feedService)

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		// WebSocket connection endpoint
		r.Get("/ws", wsHandler.Serve)

		r.Get("/events", eventHandler.GetMarkers)
		r.Put("/filter", eventHandler.SetThreshold)
		r.Get("/regions", regionHandler.GetAll)
		r.Put("/region", regionHandler.Select)
		r.Get("/status", statusHandler.Get)
	})

	r.Handle("/metrics", promhttp.Handler())

	// The embedded map page.
	r.Handle("/*", web.Handler())

	return r
}
