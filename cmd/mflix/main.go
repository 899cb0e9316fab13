package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/cinelab-io/mflix-api/internal/config"
	"github.com/cinelab-io/mflix-api/internal/db"
	"github.com/cinelab-io/mflix-api/internal/db/rediscache"
	"github.com/cinelab-io/mflix-api/internal/domain"
	logpkg "github.com/cinelab-io/mflix-api/internal/logger"
	"github.com/cinelab-io/mflix-api/internal/metrics"
	"github.com/cinelab-io/mflix-api/internal/repository/embcache"
	movierepo "github.com/cinelab-io/mflix-api/internal/repository/movie"
	reportrepo "github.com/cinelab-io/mflix-api/internal/repository/report"
	searchrepo "github.com/cinelab-io/mflix-api/internal/repository/search"
	chiTransport "github.com/cinelab-io/mflix-api/internal/transport/chi"
	openaiEmb "github.com/cinelab-io/mflix-api/internal/transport/openai"
	"github.com/cinelab-io/mflix-api/internal/version"
	healthuc "github.com/cinelab-io/mflix-api/internal/usecase/health"
	movieuc "github.com/cinelab-io/mflix-api/internal/usecase/movie"
	reportuc "github.com/cinelab-io/mflix-api/internal/usecase/report"
	searchuc "github.com/cinelab-io/mflix-api/internal/usecase/search"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting mflix API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("database", cfg.Database.Database),
	)

	ctx := context.Background()

	connectCtx, cancelConnect := context.WithTimeout(ctx,
		time.Duration(cfg.Database.ConnectTimeoutSec)*time.Second)
	store, err := db.Connect(connectCtx, db.Config{
		URI:                cfg.Database.URI,
		Database:           cfg.Database.Database,
		MovieCollection:    cfg.Database.MovieCollection,
		CommentCollection:  cfg.Database.CommentCollection,
		EmbeddedCollection: cfg.Database.EmbeddedCollection,
		ConnectTimeout:     time.Duration(cfg.Database.ConnectTimeoutSec) * time.Second,
	})
	cancelConnect()
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() { _ = store.Close(ctx) }()
	logger.Info("Connected to database")

	// Register embedding metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()

	embedder, cache := buildEmbedder(cfg, logger)
	if cache != nil {
		defer cache.Close()
	}

	// Repositories over the shared connection
	movieRepo := movierepo.New(store.Movies())
	reportRepo := reportrepo.New(store.Movies(), cfg.Database.CommentCollection)
	searchRepo := searchrepo.New(store.Movies(), store.EmbeddedMovies())

	// Use case services
	movieSvc := movieuc.New(movieRepo)
	reportSvc := reportuc.New(reportRepo)
	searchSvc := searchuc.New(searchRepo, embedder)
	var cachePinger healthuc.CachePinger
	if cache != nil {
		cachePinger = cache
	}
	healthSvc := healthuc.New(store, newEmbeddingHealthChecker(embedder), cachePinger)

	server := chiTransport.NewServer(movieSvc, reportSvc, searchSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildEmbedder assembles the embedder chain: OpenAI-compatible provider,
// optionally wrapped in the rueidis-backed cache.
func buildEmbedder(cfg config.Config, logger *zap.Logger) (domain.Embedder, *rediscache.Client) {
	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Logger:     logger,
	})

	if !cfg.Cache.Enabled {
		return base, nil
	}

	cache, err := rediscache.New(rediscache.Config{
		Addrs:    cfg.Cache.Addrs,
		Password: cfg.Cache.Password,
	})
	if err != nil {
		// Degrade to the raw provider; the cache is an optimization.
		logger.Warn("Embedding cache unavailable, continuing without it", zap.Error(err))
		return base, nil
	}

	cached := embcache.New(
		base, cache,
		cfg.Embedding.Model, cfg.Embedding.Dimensions,
		time.Duration(cfg.Cache.TTLHours)*time.Hour,
		metrics.EmbeddingCacheTotal, logger,
	)
	logger.Info("Embedding cache enabled",
		zap.Strings("addrs", cfg.Cache.Addrs),
		zap.Int("ttl_hours", cfg.Cache.TTLHours),
	)
	return cached, cache
}

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
