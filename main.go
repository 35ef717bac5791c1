package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brkicks/importworker/config"
	"brkicks/importworker/internal/enricher"
	"brkicks/importworker/internal/fetcher"
	"brkicks/importworker/internal/importer"
	"brkicks/importworker/internal/server"
	"brkicks/importworker/logger"
	"brkicks/importworker/services/cache"
	"brkicks/importworker/services/publisher"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("listen_addr", cfg.ListenAddr).
		Bool("browser_enabled", cfg.BrowserEnabled).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	services := initializeServices(cfg)
	defer services.Cleanup()

	// Assemble the import pipeline
	chainFetcher, browser := fetcher.NewFromConfig(cfg, services.Cache)
	services.Browser = browser

	var opts []importer.Option
	if cfg.OpenRouterAPIKey != "" {
		opts = append(opts, importer.WithEnricher(
			enricher.NewOpenRouterEnricher(cfg.OpenRouterAPIKey, cfg.OpenRouterModel),
		))
		log.Info().Str("model", cfg.OpenRouterModel).Msg("AI title enrichment enabled")
	} else {
		log.Info().Msg("AI title enrichment disabled, running deterministic pipeline")
	}

	importSvc := importer.New(chainFetcher, importer.PricingConfig{
		ExchangeRate:      cfg.ExchangeRate,
		FlatShipping:      cfg.FlatShipping,
		DeclaredSurcharge: cfg.DeclaredSurcharge,
		MarginPercent:     cfg.MarginPercent,
	}, cfg.DefaultManualPrice, opts...)

	srv := server.New(importSvc, services.Publisher, cfg.AllowedHosts)

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: srv.Router(),
	}

	serverDone := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("Starting import server")
		serverDone <- httpServer.ListenAndServe()
	}()

	// Periodically trim the candidate stream
	go trimLoop(ctx, services.Publisher)

	// Wait for shutdown signal or server error
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
	case err := <-serverDone:
		if err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("Server exited with error")
		}
	}

	// Graceful shutdown
	log.Info().Msg("Shutting down gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
	cancel()
}

// trimLoop keeps the candidate stream bounded
func trimLoop(ctx context.Context, pub publisher.Publisher) {
	if pub == nil {
		return
	}

	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := pub.Trim(ctx); err != nil {
				logger.Warn("Failed to trim candidate stream: %v", err)
			}
		}
	}
}

// Services holds all the initialized services
type Services struct {
	Cache     cache.CacheService
	Publisher publisher.Publisher
	Browser   *fetcher.BrowserFetcher
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		s.Publisher.Close()
	}
	if s.Browser != nil {
		s.Browser.Close()
	}
}

// initializeServices initializes the cache and publisher
func initializeServices(cfg *config.Config) *Services {
	services := &Services{}

	services.Cache = cache.NewMemcacheService(cfg.MemcacheAddr)
	logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)

	services.Publisher = publisher.NewRedisPublisher(
		cfg.RedisAddr,
		cfg.RedisDB,
		cfg.RedisStream,
		cfg.RedisStreamMaxLen,
	)
	logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)",
		cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)

	return services
}
