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

	"github.com/hanmun-cloud/textprep/internal/config"
	dbRedis "github.com/hanmun-cloud/textprep/internal/db/redis"
	"github.com/hanmun-cloud/textprep/internal/domain"
	"github.com/hanmun-cloud/textprep/internal/domain/stopword"
	logpkg "github.com/hanmun-cloud/textprep/internal/logger"
	"github.com/hanmun-cloud/textprep/internal/metrics"
	"github.com/hanmun-cloud/textprep/internal/repository/anacache"
	chiTransport "github.com/hanmun-cloud/textprep/internal/transport/chi"
	"github.com/hanmun-cloud/textprep/internal/transport/kiwi"
	analysisuc "github.com/hanmun-cloud/textprep/internal/usecase/analysis"
	healthuc "github.com/hanmun-cloud/textprep/internal/usecase/health"
	preprocessuc "github.com/hanmun-cloud/textprep/internal/usecase/preprocess"
	"github.com/hanmun-cloud/textprep/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting textprep API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("analyzer_url", cfg.Analyzer.BaseURL),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
	)

	// Register analyzer and pipeline metrics explicitly (no init())
	metrics.RegisterAnalyzerMetrics()

	// Morphological engine client
	engine := kiwi.NewClient(&kiwi.Config{
		BaseURL: cfg.Analyzer.BaseURL,
		Timeout: time.Duration(cfg.Analyzer.TimeoutSec) * time.Second,
		Logger:  logger,
	})

	// Optional analyzer-result cache — a decorator around the engine
	// client. The pipeline itself never sees the store.
	var analyzer preprocessuc.Analyzer = engine
	var cachePinger healthuc.CachePinger
	if cfg.Cache.Enabled {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		ctx := context.Background()
		if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache store not ready", zap.Error(err))
		}
		logger.Info("Connected to cache store", zap.Strings("addrs", cfg.Cache.Addrs))

		analyzer = anacache.New(
			engine, store,
			time.Duration(cfg.Cache.TTLSec)*time.Second,
			metrics.AnalyzerCacheTotal, logger,
		)
		cachePinger = store
	}

	stopwords := buildStopwords(cfg, logger)
	logger.Info("Stopword set loaded", zap.Int("count", stopwords.Len()))

	// Use case services
	preprocessSvc := preprocessuc.New(engine, analyzer, stopwords)
	analysisSvc := analysisuc.New(engine)
	healthSvc := healthuc.New(engine, cachePinger)

	// Chi server
	server := chiTransport.NewServer(preprocessSvc, analysisSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildStopwords merges the built-in Korean set with the optional
// extra file from config.
func buildStopwords(cfg config.Config, logger *zap.Logger) *stopword.Set {
	words := stopword.Korean()

	if cfg.Stopwords.File != "" {
		extra, err := stopword.FromFile(cfg.Stopwords.File)
		if err != nil {
			logger.Fatal("Failed to load stopword file",
				zap.String("file", cfg.Stopwords.File), zap.Error(err))
		}
		words = append(words, extra...)
	}

	return stopword.New(words)
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
						"error":     "internal error",
						"requestId": domain.RequestIDFromContext(r.Context()),
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware assigns a request id, emits a canonical log line
// per request and propagates X-Request-ID. Inbound X-Request-ID is
// honored so ids stay stable across a proxy chain.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = domain.NewRequestID()
			}
			w.Header().Set("X-Request-ID", requestID)

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := domain.ContextWithRequestID(r.Context(), requestID)
			ctx = logpkg.ContextWithLogger(ctx, reqLogger)

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
