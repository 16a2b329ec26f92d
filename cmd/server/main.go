package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"kwpulse/internal/config"
	"kwpulse/internal/db"
	"kwpulse/internal/jobs"
	"kwpulse/internal/metrics"
	"kwpulse/internal/provider"
	"kwpulse/internal/resolver"
	"kwpulse/internal/server"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	// Register prometheus collectors
	metrics.Init(database)

	// Keyword provider client - only when enabled
	var fetcher resolver.IdeaFetcher
	if cfg.ProviderEnabled {
		client, err := provider.New(provider.Config{
			ClientID:       cfg.ProviderClientID,
			ClientSecret:   cfg.ProviderClientSecret,
			RefreshToken:   cfg.ProviderRefreshToken,
			DeveloperToken: cfg.ProviderDeveloperToken,
			CustomerID:     cfg.ProviderCustomerID,
			TokenURL:       cfg.ProviderTokenURL,
			APIBaseURL:     cfg.ProviderAPIBaseURL,
		})
		if err != nil {
			log.Fatalf("Failed to initialize keyword provider: %v", err)
		}
		fetcher = client
	} else {
		log.Println("Keyword provider is disabled. Serving deterministic synthetic metrics.")
	}

	res := resolver.New(database, fetcher, resolver.Options{
		Enabled:            cfg.ProviderEnabled,
		CacheTTL:           cfg.CacheTTL,
		MaxKeywords:        cfg.MaxKeywords,
		InteractiveTimeout: cfg.InteractiveTimeout,
		BackgroundTimeout:  cfg.BackgroundTimeout,
	})

	// Background refresh of saved keyword sets
	refresher := jobs.NewRefresher(database, res, cfg.RefreshInterval)
	go refresher.Start(ctx)

	// HTTP server
	srv := server.New(cfg)
	srv.RegisterRoutes(database, res, refresher)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Println("Shutting down server...")
		cancel()
		if err := srv.Shutdown(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
