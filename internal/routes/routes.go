package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/julienschmidt/httprouter"

	"visionpulse/internal/config"
	"visionpulse/internal/handlers"
	"visionpulse/internal/logger"
	"visionpulse/internal/middleware"
	"visionpulse/internal/services"
)

// SetupRoutes registers the API endpoints and wraps the router with the
// CORS, CSRF and security-header middleware.
func SetupRoutes(manager *services.Manager, cfg *config.Config, logger *logger.Logger) http.Handler {
	router := httprouter.New()

	router.GET("/", handlers.RootHandler())
	router.GET("/health", handlers.HealthHandler())
	router.Handler(http.MethodGet, "/metrics", manager.Observe().Handler())

	// Uploads are additionally rate limited per client IP.
	uploadLimit := httprate.Limit(cfg.UploadsPerMinute, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP))
	router.Handler(http.MethodPost, "/api/upload", uploadLimit(handlers.UploadHandler(manager, cfg, logger)))

	router.POST("/api/infer/:session_id", handlers.InferHandler(manager, logger))
	router.POST("/api/validate/:session_id", handlers.ValidateHandler(manager, logger))
	router.GET("/api/metrics/:session_id", handlers.TrueMetricsHandler(manager, logger))
	router.GET("/api/sessions/:session_id", handlers.SessionHandler(manager, logger))
	router.POST("/api/export/:session_id", handlers.ExportHandler(manager, logger))

	router.GET("/ws/metrics/:session_id", handlers.MetricsWebsocketHandler(manager, logger))

	var handler http.Handler = router
	handler = middleware.CORS(cfg.AllowedOrigin)(handler)
	handler = middleware.CSRFProtection(handler)
	handler = middleware.SecurityHeaders(handler)
	return handler
}
