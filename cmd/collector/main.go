// Command collector runs a single price collection pass and exits.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mswatii/steam-price-tracker/internal/cache"
	"github.com/mswatii/steam-price-tracker/internal/config"
	"github.com/mswatii/steam-price-tracker/internal/database"
	"github.com/mswatii/steam-price-tracker/internal/scraper"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or cannot be loaded")
	}
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewDatabase(ctx, cfg.DatabaseURL())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.CreateTables(ctx); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}

	collector := scraper.NewSteamScraper(db, cfg.SteamCurrency, cfg.SteamRequestDelay, cfg.TopSellerPages)
	result, err := collector.Run(ctx)
	if err != nil {
		log.Printf("Collection stopped early: %v", err)
	}
	log.Printf("Collection finished: %+v", result)

	// The server's cache is only shared through Redis
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Printf("Warning: could not invalidate catalog cache: %v", err)
			return
		}
		defer rc.Close()
		if err := rc.Delete(context.Background(), cache.CatalogKey); err != nil {
			log.Printf("Warning: could not invalidate catalog cache: %v", err)
		}
	}
}
