package main

import (
	"context"
	"errors"
	"gymlog/backend/internal/aggregator"
	"gymlog/backend/internal/config"
	"gymlog/backend/internal/repository/mongo"
	"gymlog/backend/internal/stream"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// The aggregator worker tails the daily-workouts change stream and maintains
// the two derived collections (latest-weight and daily-volume-load). It runs
// separately from the API server so view maintenance survives API restarts
// and vice versa.
func main() {
	log.Println("Starting GymLog aggregator worker...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Initialize Repositories and Handlers ---
	workoutLogRepo := mongo.NewMongoWorkoutLogRepository(appDB)
	latestWeightRepo := mongo.NewMongoLatestWeightRepository(dbClient, appDB)
	volumeLoadRepo := mongo.NewMongoVolumeLoadRepository(appDB)

	// nil loggers select each aggregator's own prefixed default.
	handlers := []aggregator.Handler{
		aggregator.NewLatestWeightAggregator(latestWeightRepo, nil),
		aggregator.NewVolumeLoadAggregator(workoutLogRepo, volumeLoadRepo, nil),
	}

	// --- Metrics Endpoint ---
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	metricsServer := &http.Server{
		Addr:    cfg.Aggregator.MetricsAddress,
		Handler: metricsMux,
	}
	go func() {
		log.Printf("Metrics server starting on %s", cfg.Aggregator.MetricsAddress)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: Metrics ListenAndServe Error: %v", err)
		}
	}()

	// --- Run the Change Stream Processor ---
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down aggregator...")
		cancel()
	}()

	changeStream, err := stream.OpenWorkoutLogStream(ctx, appDB)
	if err != nil {
		log.Fatalf("FATAL: Could not open workout log change stream: %v", err)
	}

	processor := stream.NewProcessor(changeStream, handlers, stream.WithLogger(log.Default()))
	if err := processor.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("ERROR: Processor stopped: %v", err)
	}

	// --- Graceful Shutdown ---
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := metricsServer.Shutdown(ctxShutdown); err != nil {
		log.Printf("ERROR: Metrics server forced to shutdown: %v", err)
	}

	log.Println("Aggregator exiting.")
}
