package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ventabot/backend/config"
	httpDelivery "github.com/ventabot/backend/internal/delivery/http"
	"github.com/ventabot/backend/internal/infrastructure/cache"
	"github.com/ventabot/backend/internal/infrastructure/catalogio"
	"github.com/ventabot/backend/internal/infrastructure/history"
	"github.com/ventabot/backend/internal/infrastructure/storage"
	"github.com/ventabot/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting VentaBot Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// Load the catalog. Without it nothing else can answer.
	catalog, err := catalogio.LoadCatalog(cfg.Catalog.Path)
	if err != nil {
		log.Fatalf("Failed to load catalog from %s: %v", cfg.Catalog.Path, err)
	}
	log.Printf("Catalog loaded: %d products from %s", len(catalog), cfg.Catalog.Path)

	// Synonyms are optional; resolution degrades to fuzzy matching without them.
	synonyms, err := catalogio.LoadSynonyms(cfg.Catalog.SynonymsPath)
	if err != nil {
		log.Printf("WARNING: failed to load synonyms from %s: %v", cfg.Catalog.SynonymsPath, err)
	}
	log.Printf("Synonyms loaded: %d canonical entries", len(synonyms))

	snap := usecase.NewSnapshot(catalog, synonyms)

	// Enable matching debug in development environment
	debugMatching := cfg.Matching.EnableDebugLogging
	if cfg.Server.Environment == "development" {
		debugMatching = true
		log.Printf("Matching debug logging enabled")
	}

	// Initialize usecase layer
	resolver := usecase.NewResolver(snap, usecase.ResolverConfig{
		MinScore:           cfg.Matching.MinScore,
		EnableDebugLogging: debugMatching,
	})
	extractor := usecase.NewExtractor(snap, usecase.ExtractorConfig{
		EnableDebugLogging: debugMatching,
	})
	classifier := usecase.NewClassifier()

	log.Printf("Matching: min_score=%.2f, debug=%v", cfg.Matching.MinScore, debugMatching)

	// Session carts live in memory; orders persist in SQLite.
	cartStore := cache.NewMemoryCartStore()
	carts := usecase.NewCartService(cartStore, usecase.CartServiceConfig{
		TTL:      cfg.Cart.TTL,
		Currency: cfg.Cart.Currency,
	})
	log.Printf("Cart: ttl=%s, currency=%s", cfg.Cart.TTL, cfg.Cart.Currency)

	orderDB, err := storage.NewOrderDB(cfg.Storage.SQLitePath)
	if err != nil {
		log.Fatalf("Failed to open order database at %s: %v", cfg.Storage.SQLitePath, err)
	}
	defer orderDB.Close()
	log.Printf("Order database ready: %s", cfg.Storage.SQLitePath)

	chat := usecase.NewChatService(snap, resolver, extractor, classifier, carts, usecase.ChatServiceConfig{
		EnableDebugLogging: debugMatching,
	})

	// Chat history is optional; an empty path disables it.
	var interactions *history.InteractionLog
	if cfg.Storage.InteractionsPath != "" {
		interactions, err = history.NewInteractionLog(cfg.Storage.InteractionsPath)
		if err != nil {
			log.Fatalf("Failed to open interaction log at %s: %v", cfg.Storage.InteractionsPath, err)
		}
		log.Printf("Interaction log: %s", cfg.Storage.InteractionsPath)
	}

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(chat, carts, resolver, extractor, orderDB, interactions)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
