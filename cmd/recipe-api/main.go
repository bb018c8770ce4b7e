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

	"github.com/joho/godotenv"

	"recipe-planner/internal/auth"
	"recipe-planner/internal/config"
	"recipe-planner/internal/database"
	"recipe-planner/internal/grocery"
	"recipe-planner/internal/httpapi"
	"recipe-planner/internal/importer"
	"recipe-planner/internal/metrics"
	"recipe-planner/internal/planner"
	"recipe-planner/internal/recipe"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	authMgr := auth.NewManager(cfg.JWTSecret, cfg.AccessCode)
	handler := httpapi.NewHandler(
		cfg,
		authMgr,
		recipe.NewRepository(db.SQL),
		planner.NewRepository(db.SQL),
		grocery.NewRepository(db.SQL),
		metrics.NewStore(db.SQL),
		importer.NewClipper(),
	)

	router := httpapi.SetupRouter(cfg, authMgr, handler)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
