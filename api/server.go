// ABOUTME: HTTP server assembly wiring routes, middleware and CORS
// ABOUTME: Graceful shutdown is driven by the caller through Shutdown

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/cors"

	"pagelens-api/api/handlers"
	"pagelens-api/api/middleware"
	"pagelens-api/core/interfaces"
	"pagelens-api/pkg/config"
)

// Server hosts the analysis API.
type Server struct {
	httpServer *http.Server
	logger     interfaces.Logger
}

// NewServer builds the HTTP server around the analysis service.
func NewServer(cfg *config.Config, service handlers.AnalysisService, logger interfaces.Logger) *Server {
	defaults := cfg.AnalysisOptions()
	handler := handlers.NewAnalysisHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /analyze", handler.AnalyzeOne(defaults))
	mux.HandleFunc("POST /analyze/batch", handler.AnalyzeBatch(defaults))
	mux.HandleFunc("POST /analyze/api", handler.AnalyzeAPIPayload())
	mux.HandleFunc("POST /discover/feeds", handler.DiscoverFeeds())
	mux.HandleFunc("POST /metadata", handler.GetPageMetadata())
	mux.HandleFunc("GET /health", handlers.Health())

	limiter := middleware.NewRateLimiter(cfg.Server.RateLimitPerSecond, cfg.Server.RateLimitBurst)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})

	chain := middleware.RequestLogging(logger)(
		middleware.RateLimit(limiter)(
			corsHandler.Handler(mux),
		),
	)

	return &Server{
		httpServer: &http.Server{
			Addr:         ":" + cfg.Server.Port,
			Handler:      chain,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 120 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// Start begins serving. It blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info("Server listening", map[string]interface{}{
		"addr": s.httpServer.Addr,
	})
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Server shutting down", nil)
	return s.httpServer.Shutdown(ctx)
}
