package main

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kdimtricp/cinescroll/internal/browse"
	"github.com/kdimtricp/cinescroll/internal/config"
	"github.com/kdimtricp/cinescroll/internal/logging"
	"github.com/kdimtricp/cinescroll/internal/tmdb"
	"github.com/kdimtricp/cinescroll/internal/tui"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// The terminal belongs to the UI; logs only go to the file, if any.
	logFile := logging.SetupLogger(log.Default(), io.Discard, logging.Options{File: cfg.LogFile, MaxSizeMB: cfg.LogMaxSizeMB})
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

	renderer := tui.NewRenderer(log.Default())
	opts := []browse.Option{
		browse.WithRequestTimeout(cfg.RequestTimeout),
		browse.WithStaleGuard(cfg.StaleGuard),
	}
	browser := browse.New(client, renderer, opts...)
	detail := browse.NewDetailLoader(client, renderer, opts...)

	program := tea.NewProgram(tui.New(browser, detail, cfg.SearchDebounce), tea.WithAltScreen())
	renderer.Attach(program)

	_, runErr := program.Run()

	browser.Close()
	detail.Close()
	renderer.Close()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}
