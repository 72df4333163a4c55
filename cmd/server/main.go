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

	"github.com/kdimtricp/cinescroll/internal/config"
	"github.com/kdimtricp/cinescroll/internal/logging"
	"github.com/kdimtricp/cinescroll/internal/tmdb"
	"github.com/kdimtricp/cinescroll/internal/web"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logFile := logging.Setup(logging.Options{File: cfg.LogFile, MaxSizeMB: cfg.LogMaxSizeMB})
	defer logFile.Close()

	client, err := tmdb.NewClient(cfg.TMDbAPIKey,
		tmdb.WithBaseURL(cfg.TMDbBaseURL),
		tmdb.WithImageBaseURL(cfg.TMDbImageBaseURL),
		tmdb.WithLanguage(cfg.TMDbLanguage),
		tmdb.WithRateLimit(cfg.TMDbRateLimit, int(cfg.TMDbRateLimit)),
	)
	if err != nil {
		log.Fatal("Failed to initialize TMDb client:", err)
	}

	app, err := web.NewServer(client, web.Options{
		SearchDebounce: cfg.SearchDebounce,
		RequestTimeout: cfg.RequestTimeout,
		MaxSessions:    cfg.MaxSessions,
		StaleGuard:     cfg.StaleGuard,
	})
	if err != nil {
		log.Fatal("Failed to initialize web server:", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           web.NewRouter(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		log.Printf("TMDb endpoint: %s (language %s, %.1f req/s)", cfg.TMDbBaseURL, cfg.TMDbLanguage, cfg.TMDbRateLimit)
		log.Printf("Search debounce: %s, request timeout: %s", cfg.SearchDebounce, cfg.RequestTimeout)
		log.Printf("Max sessions: %d, stale guard: %v", cfg.MaxSessions, cfg.StaleGuard)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down")
	// Closing sessions ends their event streams so Shutdown does not wait on them.
	app.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
