package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pageza/cookbook/config"
	"github.com/pageza/cookbook/internal/cache"
	"github.com/pageza/cookbook/internal/middleware"
	"github.com/pageza/cookbook/internal/service"
)

// SetupAPI wires services, handlers and routes onto the router. The
// admin API lives under /api/v1; the public listing page under
// /cookbook sits behind the page cache when caching is enabled.
func SetupAPI(router *gin.Engine, db *gorm.DB, store cache.Store, cfg *config.Config) {
	recipeService := service.NewRecipeService(db, store, cfg.CacheTTL())
	foodService := service.NewFoodService(db)

	recipeHandler := NewRecipeHandler(recipeService)
	foodHandler := NewFoodHandler(foodService)
	pagesHandler := NewPagesHandler(recipeService, cfg.CacheEnabled)
	healthHandler := NewHealthHandler(db, store)

	v1 := router.Group("/api/v1")
	{
		recipeHandler.RegisterRoutes(v1)
		foodHandler.RegisterRoutes(v1)
	}

	cookbook := router.Group("/cookbook")
	if cfg.CacheEnabled {
		cookbook.Use(middleware.PageCache(store, cfg.CacheTTL()))
	}
	cookbook.GET("/recipes", pagesHandler.RecipesPage)

	router.GET("/health", healthHandler.Health)
}
