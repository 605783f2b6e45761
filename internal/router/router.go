package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"clearcue-backend/internal/handlers"
	"clearcue-backend/internal/middleware"
	"clearcue-backend/internal/websocket"
)

func New(
	jwtAuth *middleware.JWTAuth,
	analysisHandler *handlers.AnalysisHandler,
	sessionHandler *handlers.SessionHandler,
	configHandler *handlers.ConfigHandler,
	videoHandler *handlers.VideoHandler,
	wsHub *websocket.Hub,
	frontendURL string,
	requestsPerMinute int,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(frontendURL))

	apiLimiter := middleware.NewRateLimiter(requestsPerMinute, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// WebSocket authenticates from query parameters
		r.Get("/ws", wsHub.HandleWebSocket)

		r.Group(func(r chi.Router) {
			r.Use(apiLimiter.Middleware)
			r.Use(jwtAuth.OptionalAuth)

			r.Get("/config/providers", configHandler.Providers)
			r.Post("/transcripts/extract", videoHandler.ExtractTranscript)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireOwner)

				// ──── Analysis ────
				r.Post("/analyze", analysisHandler.Analyze)

				// ──── Sessions ────
				r.Route("/sessions", func(r chi.Router) {
					r.Get("/", sessionHandler.List)
					r.Delete("/{id}", sessionHandler.Delete)
				})

				// ──── API Configuration ────
				r.Get("/config", configHandler.Get)
				r.Put("/config", configHandler.Update)

				// ──── Videos ────
				r.Route("/videos", func(r chi.Router) {
					r.Post("/resolve", videoHandler.Resolve)
					r.Get("/{id}/metadata", videoHandler.Metadata)
					r.Get("/{id}/transcript", videoHandler.Transcript)
				})
			})
		})
	})

	return r
}
