package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/riandyrn/otelchi"
	otelchimetric "github.com/riandyrn/otelchi/metric"
	"github.com/saeed-karout/Today-s-recipe-Ai/internal/api"
	"github.com/saeed-karout/Today-s-recipe-Ai/internal/config"
	"github.com/saeed-karout/Today-s-recipe-Ai/internal/logger"
	"github.com/saeed-karout/Today-s-recipe-Ai/internal/metrics"
	"github.com/saeed-karout/Today-s-recipe-Ai/internal/pipeline"
	"github.com/saeed-karout/Today-s-recipe-Ai/internal/sentry"
	"github.com/saeed-karout/Today-s-recipe-Ai/internal/services/recipe"
	"github.com/saeed-karout/Today-s-recipe-Ai/internal/services/storage"
	"github.com/saeed-karout/Today-s-recipe-Ai/internal/telemetry"
	"go.opentelemetry.io/otel"
)

func main() {
	defer sentry.Recover()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize telemetry
	if cfg.OtelExporterOTLPEndpoint != "" {
		shutdown, err := telemetry.InitTelemetry(ctx, cfg.ServiceName, cfg.ServiceVersion, cfg.Env, cfg.OtelExporterOTLPEndpoint, nil)
		if err != nil {
			slog.Warn("Failed to init telemetry", "error", err)
		} else {
			defer shutdown(ctx)
		}
	}

	// Initialize Sentry
	sentry.Init(cfg.SentryDSN, cfg.Env, cfg.ServiceName, cfg.ServiceVersion)
	if cfg.SentryDSN != "" {
		defer sentry.Flush(2 * time.Second)
	}

	// Initialize business metrics
	if err := metrics.Init(); err != nil {
		slog.Warn("Failed to init business metrics", "error", err)
	}

	// Initialize logger with OTel support
	logger := logger.New(cfg.Env)
	slog.SetDefault(logger) // Set as default so slog.Info() uses our handler

	// Generation provider. A missing key is not fatal here: the pipeline
	// answers each request with a MISSING_CREDENTIAL error instead, so
	// /health stays alive on a misconfigured deploy.
	var provider recipe.GenerationProvider
	if cfg.GeminiAPIKey != "" {
		provider, err = recipe.NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.Pipeline)
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
	} else {
		slog.Warn("GEMINI_API_KEY is not set, generation requests will fail")
	}

	// Storage client for oversized images. Optional: without it every
	// image travels inline.
	var uploader pipeline.Uploader
	if cfg.SupabaseURL != "" && cfg.SupabaseServiceRoleKey != "" {
		uploader = storage.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceRoleKey)
	}

	pipe := pipeline.New(cfg, provider, uploader)

	// API handlers
	apiServer := api.NewServer(cfg, pipe)

	// Router
	r := chi.NewRouter()

	// Middleware
	r.Use(otelchi.Middleware(cfg.ServiceName,
		otelchi.WithChiRoutes(r),
		otelchi.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/health"
		}),
	))

	// HTTP metrics
	metricCfg := otelchimetric.NewBaseConfig(cfg.ServiceName, otelchimetric.WithMeterProvider(otel.GetMeterProvider()))
	r.Use(otelchimetric.NewRequestDurationMillis(metricCfg))
	r.Use(otelchimetric.NewRequestInFlight(metricCfg))
	r.Use(otelchimetric.NewResponseSizeBytes(metricCfg))

	r.Use(sentry.HTTPMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Post("/api/generate-recipe", apiServer.HandleGenerateRecipe)
	r.Options("/api/generate-recipe", apiServer.HandlePreflight)
	r.MethodNotAllowed(apiServer.HandleMethodNotAllowed)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Starting server", "port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
}
