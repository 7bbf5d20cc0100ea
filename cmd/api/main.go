// Package main is the entry point for the API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/brandconnect/marketplace-api/internal/config"
	"github.com/brandconnect/marketplace-api/internal/handler"
	"github.com/brandconnect/marketplace-api/internal/middleware"
	natsclient "github.com/brandconnect/marketplace-api/internal/nats"
	"github.com/brandconnect/marketplace-api/internal/presence"
	"github.com/brandconnect/marketplace-api/internal/service"
	"github.com/brandconnect/marketplace-api/internal/store"
	"github.com/brandconnect/marketplace-api/pkg/logger"
	"github.com/brandconnect/marketplace-api/pkg/tracing"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting API server")

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "marketplace-api", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Connect to NATS for the message journal and notification channel
	var (
		nc       *natsclient.Client
		journal  service.MessageJournal
		notifier service.Notifier
	)
	if cfg.NATSEnabled {
		nc, err = natsclient.Connect(ctx, natsclient.Config{
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
		}, log)
		if err != nil {
			log.Error("failed to connect to NATS", zap.Error(err))
			os.Exit(1)
		}
		defer nc.Close()

		j := natsclient.NewJournal(nc)
		if err := j.EnsureStream(ctx); err != nil {
			log.Error("failed to ensure journal stream", zap.Error(err))
			os.Exit(1)
		}
		journal = j
		notifier = natsclient.NewEmailNotifier(nc)
	}

	// Presence: redis when configured, in-memory otherwise
	var pres presence.Service
	if cfg.RedisAddr != "" {
		redisPresence, err := presence.NewRedisService(ctx, cfg.RedisAddr, cfg.PresenceTTL)
		if err != nil {
			log.Error("failed to connect to redis", zap.Error(err))
			os.Exit(1)
		}
		defer redisPresence.Close()
		pres = redisPresence
	} else {
		log.Warn("REDIS_ADDR not set, using in-memory presence")
		pres = presence.NewMemoryService(cfg.PresenceTTL)
	}

	// Storage. In-memory for now; a relational database would slot in
	// behind the same interfaces.
	db := store.NewMemory()

	// Initialize services
	conversationSvc := service.NewConversationService(db, db, db, pres, journal, notifier, log)
	profileViewSvc := service.NewProfileViewService(db, db, db, cfg.ViewDedupWindow, log)
	dashboardSvc := service.NewDashboardService(db, db, db, db, nil, log)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(nc)
	conversationHandler := handler.NewConversationHandler(conversationSvc, db, log)
	profileViewHandler := handler.NewProfileViewHandler(profileViewSvc, db, log)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc, db, log)
	presenceHandler := handler.NewPresenceHandler(pres, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Link", "X-Correlation-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// API routes with authentication
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		// Presence
		r.Post("/auth/heartbeat", presenceHandler.Heartbeat)

		// Conversations
		r.Route("/conversations", func(r chi.Router) {
			r.Get("/", conversationHandler.List)
			r.Post("/", conversationHandler.Start)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/messages", conversationHandler.Messages)
				r.Post("/messages", conversationHandler.Send)
			})
		})

		// Profile views
		r.Route("/profile-views", func(r chi.Router) {
			r.Post("/track", profileViewHandler.Track)
			r.Get("/stats", profileViewHandler.Stats)
		})

		// Dashboard
		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/stats", dashboardHandler.Stats)
			r.Get("/brand", dashboardHandler.Brand)
			r.Get("/creator", dashboardHandler.Creator)
			r.Get("/performance", dashboardHandler.Stats)
		})
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
