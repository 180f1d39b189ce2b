package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/RocketPartners/ping-pong-app-sub004/internal/bootstrap"
	"github.com/RocketPartners/ping-pong-app-sub004/pkg/analytics"
	"github.com/RocketPartners/ping-pong-app-sub004/pkg/engine"
	"github.com/RocketPartners/ping-pong-app-sub004/pkg/notify"
)

// APIServer manages the HTTP API server lifecycle.
type APIServer struct {
	server      *http.Server
	port        int
	coordinator *engine.Coordinator
	notifier    *notify.Pipeline
	aggregator  *analytics.Aggregator
	catalog     *bootstrap.CatalogHolder
	redisClient *redis.Client
}

// NewAPIServer creates a new API server instance.
func NewAPIServer(
	port int,
	coordinator *engine.Coordinator,
	notifier *notify.Pipeline,
	aggregator *analytics.Aggregator,
	catalog *bootstrap.CatalogHolder,
	redisClient *redis.Client,
) *APIServer {
	return &APIServer{
		port:        port,
		coordinator: coordinator,
		notifier:    notifier,
		aggregator:  aggregator,
		catalog:     catalog,
		redisClient: redisClient,
	}
}

// Setup configures middleware and routes.
func (s *APIServer) Setup() error {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/events", s.handleIngestEvent)

		r.Route("/players/{playerID}", func(r chi.Router) {
			r.Get("/achievements", s.handleGetProgress)
			r.Post("/achievements/init", s.handleInitPlayer)
			r.Post("/achievements/evaluate", s.handleEvaluatePlayer)

			r.Get("/notifications", s.handleGetNotifications)
			r.Post("/notifications/ack", s.handleAckAllNotifications)
			r.Post("/notifications/{achievementID}/ack", s.handleAckNotification)
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/summary", s.handleAnalyticsSummary)
			r.Get("/needing-attention", s.handleAnalyticsAttention)
			r.Get("/achievements/{achievementID}", s.handleAnalyticsAchievement)
		})
	})

	r.Route("/admin", func(r chi.Router) {
		r.Post("/recalculate", s.handleRecalculateAll)
		r.Post("/reset", s.handleResetAll)
		r.Post("/catalog/reload", s.handleCatalogReload)
	})

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: r,
	}

	logrus.Infof("configured API routes")
	return nil
}

// Start begins serving API requests on the configured port.
func (s *APIServer) Start(ctx context.Context) error {
	go func() {
		logrus.Infof("API server listening on port %d", s.port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("API server failed: %v", err)
		}
	}()
	return nil
}

// Shutdown gracefully stops the API server.
func (s *APIServer) Shutdown(ctx context.Context) error {
	logrus.Info("shutting down API server...")
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	logrus.Info("API server stopped")
	return nil
}

func (s *APIServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logrus.WithFields(logrus.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      ww.Status(),
				"bytes":       ww.BytesWritten(),
				"duration_ms": time.Since(start).Milliseconds(),
				"request_id":  middleware.GetReqID(r.Context()),
			}).Info("http request")
		}()

		next.ServeHTTP(ww, r)
	})
}
