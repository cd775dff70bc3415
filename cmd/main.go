// cmd/main.go is the main service entry point.
// It wires together all layers and starts the HTTP server.
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
	"github.com/a-buianova/explore-with-me/internal/repository"
	"github.com/a-buianova/explore-with-me/internal/service"
	"github.com/a-buianova/explore-with-me/internal/statsclient"
)

func main() {
	ctx := context.Background()

	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Println("loaded configuration from .env")
	}

	// ── 1. Connect to PostgreSQL and migrate ─────────────────────────────
	dbCfg := database.FromEnv("ewm")
	pool, err := database.NewPool(ctx, dbCfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()
	log.Println("✓ Connected to PostgreSQL")

	if err := database.Migrate(dbCfg, getEnv("MIGRATIONS_PATH", "migrations/main")); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	// ── 2. Wire up layers ────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	eventRepo := repository.NewEventRepository(pool)
	requestRepo := repository.NewRequestRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	compilationRepo := repository.NewCompilationRepository(pool)

	stats := statsclient.New(getEnv("STATS_SERVER_URL", "http://localhost:9090"))
	appName := getEnv("APP_NAME", "ewm-main-service")

	userSvc := service.NewUserService(userRepo)
	categorySvc := service.NewCategoryService(categoryRepo, eventRepo)
	eventSvc := service.NewEventService(eventRepo, userRepo, categoryRepo, commentRepo, stats, appName)
	requestSvc := service.NewRequestService(requestRepo, eventRepo, userRepo)
	commentSvc := service.NewCommentService(commentRepo, eventRepo, userRepo)
	compilationSvc := service.NewCompilationService(compilationRepo, eventRepo)

	userHandler := handler.NewUserHandler(userSvc)
	categoryHandler := handler.NewCategoryHandler(categorySvc)
	eventHandler := handler.NewEventHandler(eventSvc)
	requestHandler := handler.NewRequestHandler(requestSvc)
	commentHandler := handler.NewCommentHandler(commentSvc)
	compilationHandler := handler.NewCompilationHandler(compilationSvc)

	// ── 3. Build the router ───────────────────────────────────────────────
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(handler.RequestID)       // attach request IDs
	r.Use(handler.Logger)          // access log
	r.Use(handler.CORS)

	// Health
	r.Get("/health", handler.HealthCheck)

	// Private API: acting user identified by the userId path segment.
	r.Route("/users/{userId}", func(r chi.Router) {
		r.Route("/events", func(r chi.Router) {
			r.Post("/", eventHandler.Create)
			r.Get("/", eventHandler.ListByInitiator)
			r.Get("/{eventId}", eventHandler.GetByInitiator)
			r.Patch("/{eventId}", eventHandler.UpdateByInitiator)
			r.Get("/{eventId}/requests", requestHandler.ListByEvent)
			r.Patch("/{eventId}/requests", requestHandler.UpdateStatuses)
		})
		r.Route("/requests", func(r chi.Router) {
			r.Post("/", requestHandler.Add)
			r.Get("/", requestHandler.ListByRequester)
			r.Patch("/{requestId}/cancel", requestHandler.Cancel)
		})
		r.Route("/comments", func(r chi.Router) {
			r.Post("/{eventId}", commentHandler.Add)
			r.Get("/", commentHandler.ListByAuthor)
			r.Patch("/{commentId}", commentHandler.Update)
			r.Delete("/{commentId}", commentHandler.Delete)
		})
	})

	// Public API
	r.Route("/events", func(r chi.Router) {
		r.Get("/", eventHandler.SearchPublic)
		r.Get("/{id}", eventHandler.GetPublic)
		r.Get("/{id}/comments", commentHandler.ListByEvent)
	})
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", categoryHandler.List)
		r.Get("/{catId}", categoryHandler.Get)
	})
	r.Route("/compilations", func(r chi.Router) {
		r.Get("/", compilationHandler.List)
		r.Get("/{compId}", compilationHandler.Get)
	})
	r.Get("/comments/{commentId}", commentHandler.Get)

	// Admin API
	r.Route("/admin", func(r chi.Router) {
		r.Route("/events", func(r chi.Router) {
			r.Get("/", eventHandler.SearchAdmin)
			r.Patch("/{eventId}", eventHandler.UpdateByAdmin)
		})
		r.Route("/categories", func(r chi.Router) {
			r.Post("/", categoryHandler.Create)
			r.Patch("/{catId}", categoryHandler.Update)
			r.Delete("/{catId}", categoryHandler.Delete)
		})
		r.Route("/users", func(r chi.Router) {
			r.Post("/", userHandler.Create)
			r.Get("/", userHandler.List)
			r.Delete("/{userId}", userHandler.Delete)
		})
		r.Route("/compilations", func(r chi.Router) {
			r.Post("/", compilationHandler.Create)
			r.Patch("/{compId}", compilationHandler.Update)
			r.Delete("/{compId}", compilationHandler.Delete)
		})
		r.Route("/comments", func(r chi.Router) {
			r.Get("/", commentHandler.Pending)
			r.Patch("/{commentId}/approve", commentHandler.Approve)
			r.Patch("/{commentId}/reject", commentHandler.Reject)
		})
	})

	// ── 4. Start server with graceful shutdown ────────────────────────────
	port := getEnv("PORT", "8080")
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Run in background goroutine so we can listen for shutdown signal.
	go func() {
		log.Printf("✓ Server listening on http://localhost:%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Block until SIGINT or SIGTERM.
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
