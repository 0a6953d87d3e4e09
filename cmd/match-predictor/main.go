package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/XavierBriggs/fortuna/services/match-predictor/internal/calculator"
	"github.com/XavierBriggs/fortuna/services/match-predictor/internal/config"
	"github.com/XavierBriggs/fortuna/services/match-predictor/internal/handlers"
	"github.com/XavierBriggs/fortuna/services/match-predictor/internal/logging"
	"github.com/XavierBriggs/fortuna/services/match-predictor/internal/metrics"
	"github.com/XavierBriggs/fortuna/services/match-predictor/internal/ratesource"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ Config error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.Setup(cfg.LogLevel, cfg.LogFormat, "match-predictor")
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ Logging error: %v\n", err)
		os.Exit(1)
	}

	modelCfg, err := config.LoadModel(cfg.ModelConfigPath)
	if err != nil {
		logger.Error("failed to load model config", "err", err)
		os.Exit(1)
	}
	engine, err := calculator.NewEngine(modelCfg)
	if err != nil {
		logger.Error("invalid model config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source, closeSources, err := buildRateSource(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to set up rate sources", "err", err)
		os.Exit(1)
	}
	defer closeSources()

	// Create handler
	recorder := metrics.NewRecorder()
	handler := handlers.NewHandler(engine, source, recorder, logger)

	if cfg.ModelConfigPath != "" {
		go func() {
			err := config.WatchModel(ctx, cfg.ModelConfigPath, func(next calculator.Config) {
				engine, err := calculator.NewEngine(next)
				if err != nil {
					logger.Error("rejected reloaded model config", "err", err)
					return
				}
				handler.SetEngine(engine)
			})
			if err != nil {
				logger.Error("model config watcher stopped", "err", err)
			}
		}()
	}

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(recorder.Middleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Routes
	r.Get("/health", handler.HealthCheck)
	r.Get("/metrics", recorder.Handler)
	r.Get("/api/v1/predictions/match/{fixtureID}", handler.PredictFixture)
	r.Post("/api/v1/predictions/calculate", handler.Calculate)

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
	}

	// Start server in goroutine
	go func() {
		current := handler.Engine().Config()
		logger.Info("match predictor started",
			"port", cfg.Port,
			"rate_source", source.Name(),
			"max_goals", current.MaxGoals,
			"goal_lines", current.GoalLines,
			"ht_goal_share", current.HalfTimeShare,
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()

	logger.Info("shutting down gracefully")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "err", err)
		os.Exit(1)
	}

	logger.Info("match predictor stopped")
}

// buildRateSource chains Redis, Postgres and the placeholder rates in that
// order, skipping whichever is not configured.
func buildRateSource(ctx context.Context, cfg config.Config, logger *slog.Logger) (ratesource.Source, func(), error) {
	var sources []ratesource.Source
	var closers []func() error

	if cfg.RedisURL != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisURL,
			Password: cfg.RedisPassword,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		sources = append(sources, ratesource.NewRedisSource(client))
		closers = append(closers, client.Close)
		logger.Info("rate source enabled", "source", "redis", "addr", cfg.RedisURL)
	}

	if cfg.DatabaseURL != "" {
		pg, err := ratesource.NewPostgresSource(cfg.DatabaseURL)
		if err != nil {
			for _, c := range closers {
				c()
			}
			return nil, nil, err
		}
		sources = append(sources, pg)
		closers = append(closers, pg.Close)
		logger.Info("rate source enabled", "source", "postgres")
	}

	if cfg.UsePlaceholder {
		sources = append(sources, ratesource.NewStatic(cfg.PlaceholderHomeXG, cfg.PlaceholderAwayXG))
		logger.Warn("placeholder rates answer unknown fixtures",
			"home_xg", cfg.PlaceholderHomeXG, "away_xg", cfg.PlaceholderAwayXG)
	}

	if len(sources) == 0 {
		return nil, nil, fmt.Errorf("no rate source configured: set PREDICTOR_REDIS_URL, PREDICTOR_DATABASE_URL or PREDICTOR_USE_PLACEHOLDER")
	}

	closeAll := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				logger.Warn("closing rate source", "err", err)
			}
		}
	}
	return ratesource.NewChain(sources...), closeAll, nil
}
