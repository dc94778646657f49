package api

import (
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pokecatalog/internal/api/handlers"
	"pokecatalog/internal/services"
)

// Services bundles everything the router needs.
type Services struct {
	Search    *services.SearchService
	Prices    *services.MarketPriceService
	Pipeline  *services.Pipeline
	History   *services.HistoryService
	Auth      *services.AuthService
	Pokedex   *services.PokedexService
	Favorites *services.FavoriteService
	Decks     *services.DeckService
}

func SetupRouter(svc Services) *gin.Engine {
	router := gin.Default()
	router.Use(metricsMiddleware())

	// CORS configuration - allow origins from environment or use defaults
	config := cors.DefaultConfig()
	if corsOrigins := os.Getenv("CORS_ALLOWED_ORIGINS"); corsOrigins != "" {
		config.AllowOrigins = strings.Split(corsOrigins, ",")
	} else {
		config.AllowOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	config.AllowCredentials = false // Explicitly set
	router.Use(cors.New(config))

	cardHandler := handlers.NewCardHandler(svc.Search, svc.Prices, svc.Pipeline)
	filterHandler := handlers.NewFilterHandler(svc.Pipeline)
	historyHandler := handlers.NewHistoryHandler(svc.History)
	authHandler := handlers.NewAuthHandler(svc.Auth)
	pokedexHandler := handlers.NewPokedexHandler(svc.Pokedex)
	favoriteHandler := handlers.NewFavoriteHandler(svc.Favorites)
	deckHandler := handlers.NewDeckHandler(svc.Decks)

	api := router.Group("/api")
	{
		api.POST("/search", cardHandler.Search)

		cards := api.Group("/cards")
		{
			cards.GET("", cardHandler.GetCards)
			cards.POST("/load-more", cardHandler.LoadMore)
			cards.GET("/:id", cardHandler.GetCard)
		}

		api.PUT("/filters", filterHandler.UpdateFilters)
		api.POST("/filters/reset", filterHandler.ResetFilters)
		api.PUT("/sort", filterHandler.UpdateSort)

		api.POST("/prices/load", cardHandler.LoadPrices)

		history := api.Group("/history")
		{
			history.GET("", historyHandler.GetHistory)
			history.DELETE("", historyHandler.ClearHistory)
			history.DELETE("/:id", historyHandler.DeleteHistoryEntry)
		}

		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.SignUp)
			auth.POST("/signin", authHandler.SignIn)
			auth.POST("/signout", authHandler.SignOut)
			auth.GET("/session", authHandler.GetSession)
			auth.PUT("/profile", authHandler.RequireAuth(), authHandler.UpdateProfile)
		}

		pokedex := api.Group("/pokedex", authHandler.RequireAuth())
		{
			pokedex.GET("", pokedexHandler.GetPokedex)
			pokedex.POST("", pokedexHandler.AddToPokedex)
			pokedex.PUT("/:cardId", pokedexHandler.UpdatePokedexItem)
			pokedex.DELETE("/:cardId", pokedexHandler.RemoveFromPokedex)
			pokedex.GET("/stats", pokedexHandler.GetStats)
		}

		favorites := api.Group("/favorites", authHandler.RequireAuth())
		{
			favorites.GET("", favoriteHandler.GetFavorites)
			favorites.POST("", favoriteHandler.AddFavorite)
			favorites.DELETE("/:cardId", favoriteHandler.RemoveFavorite)
		}

		decks := api.Group("/decks", authHandler.RequireAuth())
		{
			decks.GET("", deckHandler.GetDecks)
			decks.POST("", deckHandler.CreateDeck)
			decks.GET("/:id", deckHandler.GetDeck)
			decks.PUT("/:id", deckHandler.UpdateDeck)
			decks.DELETE("/:id", deckHandler.DeleteDeck)
			decks.POST("/:id/cards", deckHandler.AddCard)
			decks.PUT("/:id/cards/:cardId", deckHandler.SetCardQuantity)
			decks.DELETE("/:id/cards/:cardId", deckHandler.RemoveCard)
		}
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return router
}
