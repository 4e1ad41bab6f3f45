package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/valyala/fasthttp"

	"github.com/mswatii/steam-price-tracker/internal/api"
	"github.com/mswatii/steam-price-tracker/internal/auth"
	"github.com/mswatii/steam-price-tracker/internal/cache"
	"github.com/mswatii/steam-price-tracker/internal/config"
	"github.com/mswatii/steam-price-tracker/internal/database"
	"github.com/mswatii/steam-price-tracker/internal/scheduler"
	"github.com/mswatii/steam-price-tracker/internal/scraper"
)

func main() {
	// Load environment variables from .env file
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

	var catalogCache cache.Cache = cache.NewMemory()
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Printf("Warning: Redis unavailable (%v), using in-process cache", err)
		} else {
			defer rc.Close()
			catalogCache = rc
		}
	}

	if cfg.JWTSecret == "change-me" {
		log.Printf("Warning: JWT_SECRET is not set, using the development default")
	}
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	collector := scraper.NewSteamScraper(db, cfg.SteamCurrency, cfg.SteamRequestDelay, cfg.TopSellerPages)
	handler := api.NewHandler(db, catalogCache, tokens, collector, cfg)

	if cfg.SkipInitialScrape {
		log.Println("Skipping initial data scrape (SKIP_INITIAL_SCRAPE=true)")
	}

	// Run the collector in the background so it doesn't block server startup
	wg := &sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		scheduler.Run(ctx, scheduler.Config{
			Interval:     cfg.CollectInterval,
			RunOnStartup: !cfg.SkipInitialScrape,
		}, func(ctx context.Context) {
			log.Println("Starting data scrape...")
			result, err := handler.Refresh(ctx)
			if err != nil {
				log.Printf("Error during data scrape: %v", err)
				return
			}
			log.Printf("Data scrape completed: %+v", result)
		})
	}()

	srv := &fasthttp.Server{
		Handler:      handler.HandleRequest,
		Name:         "steam-price-tracker",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(":" + cfg.Port); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		log.Printf("Server shutdown: %v", err)
	}

	wg.Wait()
	log.Println("Graceful shutdown complete")
}
