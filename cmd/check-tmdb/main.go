package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/kdimtricp/cinescroll/internal/browse"
	"github.com/kdimtricp/cinescroll/internal/config"
	"github.com/kdimtricp/cinescroll/internal/tmdb"
)

func main() {
	fmt.Println("🔍 Checking TMDb Access")
	fmt.Println("=======================")

	cfg, err := config.Load(".env")
	if errors.Is(err, config.ErrMissingAPIKey) {
		fmt.Println("⚠️  WARNING: No TMDb API key configured!")
		fmt.Println("   Set TMDB_API_KEY in the environment or in .env")
		os.Exit(1)
	}
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	fmt.Printf("✅ API key configured, endpoint %s\n\n", cfg.TMDbBaseURL)

	client, err := tmdb.NewClient(cfg.TMDbAPIKey,
		tmdb.WithBaseURL(cfg.TMDbBaseURL),
		tmdb.WithLanguage(cfg.TMDbLanguage),
	)
	if err != nil {
		log.Fatal("Failed to initialize TMDb client:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	genres, err := client.Genres(ctx)
	if err != nil {
		fmt.Printf("❌ Genre list failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("🏷️  Genres: %d\n", len(genres))
	registry := browse.NewGenreRegistry(genres)

	page, err := client.Movies(ctx, browse.BuildQuery(browse.FilterState{}, 1))
	if err != nil {
		fmt.Printf("❌ Top rated request failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("🎬 Top rated: %d movies over %d pages\n\n", page.TotalResults, page.TotalPages)

	for i, m := range page.Movies {
		if i == 5 {
			break
		}
		fmt.Printf("%d. %s\n", i+1, m.Title)
		fmt.Printf("   ⭐ %s (%s)\n", m.Stars(), m.Rating())
		fmt.Printf("   🏷️  %s\n", registry.Label(m.GenreIDs))
		fmt.Printf("   🖼️  %s\n", m.PosterURL())
		fmt.Println()
	}
}
