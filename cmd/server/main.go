package main

import (
	"context"
	"errors"
	"gymlog/backend/internal/api"
	"gymlog/backend/internal/config"
	"gymlog/backend/internal/repository/mongo"
	"gymlog/backend/internal/service"
	"gymlog/backend/internal/storage"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

// @title GymLog API
// @version 1.0
// @description API for logging workouts, meals, and body measurements, with
// @description derived latest-weight and daily-volume views.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log.Println("Starting GymLog API server...")

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

	// --- Ensure Indexes ---
	log.Println("Ensuring database indexes...")
	go func() { // Run index creation concurrently/in background
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureWorkoutLogIndexes(ctx, appDB.Collection("daily-workouts"))
		mongo.EnsureVolumeLoadIndexes(ctx, appDB.Collection("daily-volume-load"))
		mongo.EnsureMealIndexes(ctx, appDB.Collection("daily-meals"))
		mongo.EnsureExerciseOptionIndexes(ctx, appDB.Collection("exercises"))
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	log.Println("Initializing file storage service...")
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := mongo.NewMongoUserRepository(appDB)
	workoutLogRepo := mongo.NewMongoWorkoutLogRepository(appDB)
	latestWeightRepo := mongo.NewMongoLatestWeightRepository(dbClient, appDB)
	volumeLoadRepo := mongo.NewMongoVolumeLoadRepository(appDB)
	exerciseOptionRepo := mongo.NewMongoExerciseOptionRepository(appDB)
	mealRepo := mongo.NewMongoMealRepository(appDB)
	mealOptionRepo := mongo.NewMongoMealOptionRepository(appDB)
	targetRepo := mongo.NewMongoDailyTargetRepository(appDB)
	bodyInfoRepo := mongo.NewMongoBodyInfoRepository(appDB)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	workoutService := service.NewWorkoutService(workoutLogRepo, latestWeightRepo, volumeLoadRepo, exerciseOptionRepo)
	mealService := service.NewMealService(mealRepo, mealOptionRepo, targetRepo)
	bodyService := service.NewBodyService(bodyInfoRepo, fileStorage)
	nutritionService := service.NewNutritionService(cfg.Nutrition.BaseURL, cfg.Nutrition.Timeout)

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, authService, workoutService, mealService, bodyService, nutritionService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
