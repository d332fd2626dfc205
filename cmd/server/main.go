package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/wardrobe-stylist/internal/api"
	"github.com/Rrens/wardrobe-stylist/internal/api/memory"
	"github.com/Rrens/wardrobe-stylist/internal/api/middleware"
	"github.com/Rrens/wardrobe-stylist/internal/config"
	"github.com/Rrens/wardrobe-stylist/internal/logging"
)

// seedItems gives a fresh development service something to group and suggest
var seedItems = []struct{ filename, category, color string }{
	{"white_tee.png", "Top", "White"},
	{"denim_jacket.jpg", "Outerwear", "Blue"},
	{"black_jeans.jpg", "Bottom", "Black"},
	{"summer_dress.png", "Dress", "Yellow"},
}

func main() {
	// Load .env file - try multiple locations
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(p); err == nil {
			fmt.Fprintf(os.Stderr, "Loaded .env from: %s\n", p)
			break
		}
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	logCloser, err := logging.Setup(cfg.Logging, cfg.IsProduction())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to setup logging")
	}
	defer logCloser.Close()

	store := memory.NewStore()
	if os.Getenv("STYLIST_SEED") != "false" {
		for _, item := range seedItems {
			store.AddItem(item.filename, nil, item.category, item.color)
		}
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.NewRouter(store, &middleware.Faults{}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Msgf("Stylist development service listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
