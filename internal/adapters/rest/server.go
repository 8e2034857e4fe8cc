package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/arch-mania/takanekaitori-prod/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

type Server struct {
	httpServer *http.Server
	logger     port.LoggerPort
}

func NewServer(
	cfg ServerConfig,
	listingHandler *ListingHandler,
	inquiryHandler *InquiryHandler,
	limiter *RateLimiter,
	baseLogger port.LoggerPort,
) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           NewRouter(cfg, listingHandler, inquiryHandler, limiter, baseLogger),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: baseLogger,
	}
}

// NewRouter builds the route tree; exposed for httptest.
func NewRouter(
	cfg ServerConfig,
	listingHandler *ListingHandler,
	inquiryHandler *InquiryHandler,
	limiter *RateLimiter,
	baseLogger port.LoggerPort,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Trace-ID"},
		ExposedHeaders:   []string{"X-Trace-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(BotGuard)

			r.Get("/areas/{areaSlug}", listingHandler.GetAreaOverview)
			r.Get("/areas/{areaSlug}/properties", listingHandler.SearchProperties)
			r.Get("/properties/{propertyID}", listingHandler.GetPropertyDetails)
		})

		r.Get("/areas/{areaSlug}/search-options", listingHandler.GetSearchOptions)
		r.Get("/areas/{areaSlug}/counts", listingHandler.CountProperties)

		r.With(limiter.Middleware).Post("/inquiries", inquiryHandler.SubmitInquiry)
	})

	return r
}

func (s *Server) Start() error {
	s.logger.Info("Starting REST server", port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST server...", nil)
	return s.httpServer.Shutdown(ctx)
}
