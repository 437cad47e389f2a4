package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/careerhub-api/internal/bootstrap"
	"github.com/yourusername/careerhub-api/internal/config"
	"github.com/yourusername/careerhub-api/internal/handler"
	"github.com/yourusername/careerhub-api/internal/identity"
	"github.com/yourusername/careerhub-api/internal/middleware"
	"github.com/yourusername/careerhub-api/internal/repository"
	"github.com/yourusername/careerhub-api/internal/service"
)

func main() {
	// ── Logging ──────────────────────────────────────────
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// ── Config ───────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	log.Info().Str("env", cfg.Env).Str("port", cfg.Port).Str("store", cfg.StoreBackend).Msg("Starting CareerHub API")

	// ── Firebase ─────────────────────────────────────────
	ctx := context.Background()
	app, err := identity.NewApp(ctx, cfg.FirebaseProjectID, cfg.StorageBucket)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Firebase")
	}
	authClient, err := app.Auth(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Firebase auth")
	}

	// ── Document store ───────────────────────────────────
	docs, err := bootstrap.OpenStore(ctx, cfg, app)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open document store")
	}
	defer docs.Close()

	blobs, err := bootstrap.OpenBlobs(ctx, cfg, app)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open blob store")
	}

	// ── Repositories & handlers ──────────────────────────
	repos := repository.NewRepos(docs)
	handlers := handler.Handlers{
		Admin:     handler.NewAdminHandler(repos, authClient),
		Institute: handler.NewInstituteHandler(repos),
		Student:   handler.NewStudentHandler(repos),
		Company:   handler.NewCompanyHandler(repos, service.NewDocumentService(blobs, repos.Documents)),
		Profile:   handler.NewProfileHandler(repos.Users),
	}

	// ── Middleware ────────────────────────────────────────
	authMiddleware := middleware.NewAuthMiddleware(authClient, repos.Users)
	guard, err := middleware.NewRoleGuard()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize role guard")
	}
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS)
	defer rateLimiter.Stop()

	registry := prometheus.NewRegistry()
	metrics := middleware.NewMetrics(registry)

	// ── Router ───────────────────────────────────────────
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger())
	r.Use(metrics.Observe())

	// CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check (unauthenticated)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "careerhub-api",
			"store":   cfg.StoreBackend,
			"time":    time.Now().UTC(),
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// ── Authenticated Routes ─────────────────────────────
	api := r.Group("/api", authMiddleware.Authenticate(), rateLimiter.Limit())
	handler.Register(api, guard, handlers)
	log.Info().Int("policies", len(guard.Policies())).Msg("Routes registered")

	// ── Server ───────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	log.Info().Str("port", cfg.Port).Msg("CareerHub API server running")

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

// requestLogger logs every request with zerolog
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= 400 {
			event = log.Warn()
		}
		if status >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", latency).
			Str("ip", c.ClientIP()).
			Msg(fmt.Sprintf("%s %s", c.Request.Method, path))
	}
}
