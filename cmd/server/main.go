package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vivafit/internal/api"
	"vivafit/internal/config"
	"vivafit/internal/genai"
	"vivafit/internal/repository/mongo"
	"vivafit/internal/service"
	"vivafit/internal/storage"

	"github.com/gin-gonic/gin"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
)

func ensureIndexes(ctx context.Context, db *mongodrv.Database) error {
	if err := mongo.EnsureUserIndexes(ctx, db.Collection("users")); err != nil {
		return err
	}
	if err := mongo.EnsureProfileIndexes(ctx, db.Collection("profiles")); err != nil {
		return err
	}
	if err := mongo.EnsurePlanIndexes(ctx, db.Collection("plan_snapshots")); err != nil {
		return err
	}
	if err := mongo.EnsureChallengeIndexes(ctx, db.Collection("challenges")); err != nil {
		return err
	}
	return mongo.EnsureCheckInIndexes(ctx, db.Collection("checkins"))
}

func main() {
	log.Println("Starting VivaFit Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	// The client is opened once here, injected into the repositories and
	// closed on shutdown.
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
	// The unique indexes are what enforce email, (userId, kind), challenge
	// code and one-check-in-per-day uniqueness, so the server does not start
	// without them.
	log.Println("Ensuring database indexes...")
	indexCtx, indexCancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer indexCancel()
	if err := ensureIndexes(indexCtx, appDB); err != nil {
		log.Fatalf("FATAL: Could not create database indexes: %v", err)
	}
	log.Println("Index creation process completed.")

	// --- Initialize Storage ---
	log.Println("Initializing photo storage service...")
	photoStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := mongo.NewMongoUserRepository(appDB)
	profileRepo := mongo.NewMongoProfileRepository(appDB)
	planRepo := mongo.NewMongoPlanRepository(appDB)
	challengeRepo := mongo.NewMongoChallengeRepository(appDB)
	checkInRepo := mongo.NewMongoCheckInRepository(appDB)

	// --- Initialize Plan Generation Chain ---
	// One variant per configured model, tried in order; the static
	// templates inside the plan service are the terminal fallback.
	var generator genai.TextGenerator
	if cfg.Generation.APIKey != "" && len(cfg.Generation.Models) > 0 {
		variants := make([]genai.TextGenerator, 0, len(cfg.Generation.Models))
		for _, model := range cfg.Generation.Models {
			variants = append(variants, genai.NewClient(cfg.Generation.APIURL, cfg.Generation.APIKey, model, cfg.Generation.AttemptTimeout))
		}
		generator = genai.NewChain(variants...)
	} else {
		log.Println("No generation API key configured; plans will use static templates.")
	}

	// --- Initialize Services ---
	log.Println("Initializing services...")
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	profileService := service.NewProfileService(userRepo, profileRepo)
	planService := service.NewPlanService(userRepo, profileRepo, planRepo, generator)
	challengeService := service.NewChallengeService(userRepo, challengeRepo, checkInRepo, photoStorage)

	// --- Initialize Gin Engine ---
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, authService, profileService, planService, challengeService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second, // plan generation can be slow
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
