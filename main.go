package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "tripdash/internal/config"
	router "tripdash/internal/http"
	h "tripdash/internal/http/handlers"
	"tripdash/internal/repositories"

	"github.com/gin-gonic/gin"
)

func main() {
	env, err := intconfig.LoadEnv()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	ctx := context.Background()
	source, closeSource := openSource(ctx, env)
	defer closeSource()

	cache := repositories.NewTripCache()
	table, err := cache.Get(ctx, source)
	if err != nil {
		log.Fatalf("failed to load dataset: %v", err)
	}
	log.Printf("dataset %s loaded: %d trips", source.Key(), table.Len())

	h.SetDataset(source, cache)
	r := router.NewRouter(env)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("dashboard listening on http://localhost%s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown failed: %v", err)
	}

	log.Println("server stopped")
}

func openSource(ctx context.Context, env intconfig.Env) (repositories.TripSource, func()) {
	if env.Source != intconfig.SourceSQL {
		return repositories.TripCSVRepository{Path: env.DatasetPath}, func() {}
	}

	db, err := intconfig.OpenDB(ctx, env.DB)
	if err != nil {
		log.Fatalf("failed to open trip database: %v", err)
	}
	return repositories.TripSQLRepository{DB: db, Table: env.DB.Table}, func() { _ = db.Close() }
}
