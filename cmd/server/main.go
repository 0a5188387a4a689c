// Package main initializes and starts the PantryPal HTTP server,
// setting up configuration, logging, the database-backed blob store,
// repositories, the notification scheduler, services, and handlers.
package main

import (
	"cmp"
	"context"
	"fmt"
	"time"

	nethttp "net/http"

	"github.com/avolkov/pantrypal/internal/blobstore"
	"github.com/avolkov/pantrypal/internal/config"
	"github.com/avolkov/pantrypal/internal/db"
	"github.com/avolkov/pantrypal/internal/logger"
	"github.com/avolkov/pantrypal/internal/lookup"
	"github.com/avolkov/pantrypal/internal/notify"
	"github.com/avolkov/pantrypal/internal/repository"
	"github.com/avolkov/pantrypal/internal/server/handler/http"
	"github.com/avolkov/pantrypal/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()
	addr := options.Port
	dbName := options.DatabaseDSN

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Initialize PostgreSQL connection and the blob store over it.
	postgresDB, err := db.InitPostgres(dbName)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}
	store := blobstore.NewPostgres(postgresDB)

	// Initialize repositories for items and notification settings.
	itemRepo := repository.NewItemRepository(store)
	settingsRepo := repository.NewSettingsRepository(store)

	// Server-side notification delivery is the log itself.
	platform := notify.NewLocal(zapLogger, true)
	platform.OnDeliver(func(c notify.Content) {
		zapLogger.Info("notification delivered",
			zap.String("title", c.Title),
			zap.String("body", c.Body),
			zap.Int("expiring", c.ExpiringCount),
		)
	})

	window := time.Duration(options.WindowDays) * 24 * time.Hour

	// Initialize business-logic services.
	scheduler := service.NewNotificationScheduler(itemRepo, settingsRepo, platform, window, zapLogger)
	if scheduler.Initialize(context.Background()) {
		zapLogger.Info("daily reminder armed", zap.String("time", scheduler.Time(context.Background()).String()))
	}

	var products lookup.ProductLookup
	if options.LookupURL != "" {
		products = lookup.NewHTTPLookup(nethttp.DefaultClient, options.LookupURL)
	}
	var recipes http.RecipeSuggester
	if options.RecipeURL != "" {
		recipes = lookup.NewRecipeClient(nethttp.DefaultClient, options.RecipeURL)
	}

	pantry := service.NewPantryService(itemRepo, scheduler, products, window, zapLogger)

	// Create HTTP handlers for item and settings endpoints.
	itemsHandler := &http.ItemsHandler{Service: pantry, Recipes: recipes, Log: zapLogger}
	settingsHandler := &http.SettingsHandler{Schedule: scheduler}

	// Build the router with middleware and routes.
	router := http.NewRouter(itemsHandler, settingsHandler, zapLogger)

	// Create and start the HTTP server.
	server := &nethttp.Server{
		Addr:    addr,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", addr))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
