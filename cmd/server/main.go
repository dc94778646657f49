package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pokecatalog/internal/api"
	"pokecatalog/internal/database"
	"pokecatalog/internal/metrics"
	"pokecatalog/internal/services"
	"pokecatalog/internal/tcgdex"
)

func main() {
	// Database path
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./pokecatalog.db"
	}

	// Initialize database
	if err := database.Initialize(dbPath); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if err := database.RunMigrations(database.GetDB()); err != nil {
		log.Fatalf("Failed to run data migrations: %v", err)
	}

	// TCGdex upstream client
	client := tcgdex.NewClient(os.Getenv("TCGDEX_BASE_URL"))

	// Pipeline state and domain services
	pipeline := services.NewPipeline()
	historyService := services.NewHistoryService(database.GetDB())
	searchService := services.NewSearchService(client, pipeline, historyService)
	defaultLoader := services.NewDefaultLoader(client, pipeline)

	priceCache, err := services.NewPriceCache()
	if err != nil {
		log.Fatalf("Failed to initialize price cache: %v", err)
	}
	priceService := services.NewMarketPriceService(priceCache, time.Now().UnixNano())

	authService := services.NewAuthService(database.GetDB())
	pokedexService := services.NewPokedexService(database.GetDB())
	favoriteService := services.NewFavoriteService(database.GetDB())
	deckService := services.NewDeckService(database.GetDB())

	// Create a cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Warm the catalog with the default collection in the background so the
	// server accepts requests immediately. Panic recovery mirrors the other
	// background work: a crash here must not take the server down.
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("PANIC in default loader: %v", r)
			}
		}()

		loadCtx, loadCancel := context.WithTimeout(ctx, 60*time.Second)
		defer loadCancel()

		count, err := defaultLoader.Load(loadCtx)
		if err != nil {
			log.Printf("Default loader: failed to warm catalog: %v", err)
			return
		}
		log.Printf("Default loader: catalog warmed with %d cards", count)
	}()

	// Seed the pokédex gauges from existing data
	go metrics.UpdatePokedexMetrics(database.GetDB())

	// Setup router
	router := api.SetupRouter(api.Services{
		Search:    searchService,
		Prices:    priceService,
		Pipeline:  pipeline,
		History:   historyService,
		Auth:      authService,
		Pokedex:   pokedexService,
		Favorites: favoriteService,
		Decks:     deckService,
	})

	// Get port from environment
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Create HTTP server for graceful shutdown
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Stop background work
	cancel()

	// Give outstanding requests a deadline to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
