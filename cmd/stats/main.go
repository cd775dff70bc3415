// cmd/stats/main.go is the statistics collector entry point.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/a-buianova/explore-with-me/internal/database"
	"github.com/a-buianova/explore-with-me/internal/handler"
	"github.com/a-buianova/explore-with-me/internal/stats"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err == nil {
		log.Println("loaded configuration from .env")
	}

	dbCfg := database.FromEnv("ewmstats")
	pool, err := database.NewPool(ctx, dbCfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()
	log.Println("✓ Connected to PostgreSQL")

	if err := database.Migrate(dbCfg, getEnv("MIGRATIONS_PATH", "migrations/stats")); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	h := stats.NewHandler(stats.NewRepository(pool))

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(handler.RequestID)
	r.Use(handler.Logger)

	r.Get("/health", handler.HealthCheck)
	r.Post("/hit", h.RecordHit)
	r.Get("/stats", h.GetStats)

	port := getEnv("PORT", "9090")
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("✓ Stats server listening on http://localhost:%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server…")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("graceful shutdown failed: %v", err)
	}
	log.Println("server stopped")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
