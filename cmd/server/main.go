package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alcyxob/fitness-planner/internal/api"
	"alcyxob/fitness-planner/internal/config"
	"alcyxob/fitness-planner/internal/llm"
	"alcyxob/fitness-planner/internal/logger"
	"alcyxob/fitness-planner/internal/observability"
	"alcyxob/fitness-planner/internal/repository"
	"alcyxob/fitness-planner/internal/repository/mongo"
	"alcyxob/fitness-planner/internal/repository/mutation"
	"alcyxob/fitness-planner/internal/service"
	"alcyxob/fitness-planner/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	// --- Configuration ---
	cfg, cfgErr := config.LoadConfig(".")

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: could not build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if cfgErr != nil {
		log.Fatal("Could not load config", "error", cfgErr)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration", "error", err)
	}
	log.Info("Configuration loaded",
		"persistence_driver", cfg.Persistence.Driver,
		"model", cfg.Gemini.Model,
		"parallel", cfg.Generation.Parallel,
		"fallback_on_model_error", cfg.Generation.FallbackOnModelError,
	)

	ctx := context.Background()

	// --- Tracing ---
	shutdownTracing, err := observability.InitTracing(ctx, cfg.Tracing, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", "error", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Warn("Failed to flush traces", "error", err)
		}
	}()

	// --- Plan Store ---
	planStore, canRead, closeStore, err := buildPlanStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize plan store", "driver", cfg.Persistence.Driver, "error", err)
	}
	defer closeStore()

	// --- Initialize Storage ---
	var transcripts storage.FileStorage
	if cfg.S3.BucketName != "" {
		transcripts, err = storage.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			log.Fatal("Failed to initialize S3 storage", "error", err)
		}
		log.Info("Transcript archive enabled", "endpoint", cfg.S3.Endpoint, "bucket", cfg.S3.BucketName)
	}

	// --- Model Gateway ---
	generator, err := llm.NewGeminiGenerator(ctx, cfg.Gemini, "", log)
	if err != nil {
		log.Fatal("Failed to initialize Gemini client", "error", err)
	}

	// --- Initialize Services ---
	planService := service.NewPlanService(generator, planStore, transcripts, service.PlanServiceConfig{
		Parallel:             cfg.Generation.Parallel,
		FallbackOnModelError: cfg.Generation.FallbackOnModelError,
		PersistTimeout:       cfg.Persistence.Timeout,
	}, log)

	// --- Initialize Gin Engine ---
	if cfg.Log.Mode == "prod" || cfg.Log.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.RouterConfig{
		ServiceName:     cfg.Tracing.ServiceName,
		WebhookSecret:   cfg.Server.WebhookSecret,
		JWTSecret:       cfg.JWT.Secret,
		EnablePlanReads: canRead,
	}, planService, log)
	if cfg.JWT.Secret == "" || !canRead {
		log.Info("Plan read endpoints disabled", "jwt_configured", cfg.JWT.Secret != "", "store_readable", canRead)
	}

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("Server starting", "address", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("ListenAndServe error", "error", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}
	log.Info("Server exiting")
}

// buildPlanStore opens the configured persistence driver. The returned bool
// reports whether the store can serve the plan read endpoints.
func buildPlanStore(ctx context.Context, cfg config.Config, log *logger.Logger) (repository.PlanRepository, bool, func(), error) {
	switch cfg.Persistence.Driver {
	case config.DriverMongo:
		client, err := mongo.ConnectDB(ctx, cfg.Persistence.Mongo.URI)
		if err != nil {
			return nil, false, nil, fmt.Errorf("connect to MongoDB: %w", err)
		}
		db := client.Database(cfg.Persistence.Mongo.Name)
		log.Info("Database connection established", "database", cfg.Persistence.Mongo.Name)

		go func() {
			idxCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := mongo.EnsurePlanIndexes(idxCtx, db); err != nil {
				log.Warn("Failed to create plan indexes", "error", err)
				return
			}
			log.Info("Index creation process completed")
		}()

		closeFn := func() {
			log.Info("Disconnecting MongoDB...")
			if err := mongo.DisconnectDB(client); err != nil {
				log.Error("Failed to disconnect MongoDB", "error", err)
			}
		}
		return mongo.NewMongoPlanRepository(db, log), true, closeFn, nil

	case config.DriverMutation:
		m := cfg.Persistence.Mutation
		log.Info("Using HTTP mutation plan store", "url", m.URL, "mutation", m.Path)
		return mutation.NewPlanRepository(m.URL, m.Path, m.AuthToken, cfg.Persistence.Timeout), false, func() {}, nil

	default:
		return nil, false, nil, fmt.Errorf("unknown persistence driver %q", cfg.Persistence.Driver)
	}
}
