package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/wlopz/codeflow-app/internal/cache"
	"github.com/wlopz/codeflow-app/internal/config"
	"github.com/wlopz/codeflow-app/internal/database"
	"github.com/wlopz/codeflow-app/internal/handlers"
	"github.com/wlopz/codeflow-app/internal/server"
	"github.com/wlopz/codeflow-app/internal/voting"
)

func main() {
	cfg, err := config.Load("./config")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	publisher, err := cache.NewPublisher(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize event publisher: %v", err)
	}
	invalidator := cache.New(cfg, publisher)
	defer invalidator.Close()

	votes := voting.NewService(db.GetDB(), invalidator)
	handler := handlers.NewHandler(db.GetDB(), cfg, votes)

	srv := server.New(cfg, db, handler)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("🚀 Server starting on port %s", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
}
