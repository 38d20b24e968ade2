package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/cookbook/internal/cache"
	"github.com/pageza/cookbook/internal/models"
)

// recipesCacheKey holds the JSON-encoded result of the full recipe
// listing. Every cached read and write of the listing goes through this
// single key.
const recipesCacheKey = "recipes"

var (
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrFoodNotFound   = errors.New("food not found")
)

// RecipeService handles recipe catalog operations.
type RecipeService struct {
	db    *gorm.DB
	store cache.Store
	ttl   time.Duration
}

// NewRecipeService creates a new RecipeService instance. ttl bounds how
// long the cached recipe listing stays fresh.
func NewRecipeService(db *gorm.DB, store cache.Store, ttl time.Duration) *RecipeService {
	return &RecipeService{
		db:    db,
		store: store,
		ttl:   ttl,
	}
}

// ListRecipes returns every recipe with its ingredients and their foods
// loaded. With useCache set it consults the store first and fills it
// after a miss. Concurrent misses each fetch and write; the last writer
// wins, which is harmless because the payloads are equivalent.
func (s *RecipeService) ListRecipes(ctx context.Context, useCache bool) ([]models.Recipe, error) {
	if !useCache {
		return s.fetchRecipes(ctx)
	}

	data, err := s.store.Get(ctx, recipesCacheKey)
	if err == nil {
		var recipes []models.Recipe
		if err := json.Unmarshal(data, &recipes); err != nil {
			return nil, fmt.Errorf("decode cached recipes: %w", err)
		}
		return recipes, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		return nil, fmt.Errorf("read recipes cache: %w", err)
	}

	recipes, err := s.fetchRecipes(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(recipes)
	if err != nil {
		return nil, fmt.Errorf("encode recipes for cache: %w", err)
	}
	if err := s.store.Set(ctx, recipesCacheKey, payload, s.ttl); err != nil {
		return nil, fmt.Errorf("write recipes cache: %w", err)
	}
	return recipes, nil
}

// fetchRecipes loads the catalog in three queries (recipes, ingredients,
// foods) regardless of its size.
func (s *RecipeService) fetchRecipes(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("ingredients.id ASC")
		}).
		Preload("Ingredients.Food").
		Order("recipes.created_at ASC").
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("fetch recipes: %w", err)
	}
	return recipes, nil
}

// GetRecipe retrieves a recipe by ID with its ingredients and foods.
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("ingredients.id ASC")
		}).
		Preload("Ingredients.Food").
		First(&recipe, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// TODO: delete recipesCacheKey when a recipe is created, updated or
// removed; until then mutations serve a stale listing for up to the TTL.

// CreateRecipe creates a recipe together with its ingredient rows in one
// transaction. Every referenced food must already exist.
func (s *RecipeService) CreateRecipe(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	// Ingredients bind straight from request JSON. Drop any embedded
	// food object so only FoodID links the association; otherwise gorm
	// would save it as a new food row.
	for i := range recipe.Ingredients {
		recipe.Ingredients[i].Food = models.Food{}
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureFoodsExist(tx, recipe.Ingredients); err != nil {
			return err
		}
		return tx.Create(recipe).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetRecipe(ctx, recipe.ID)
}

// UpdateRecipe replaces the recipe's fields and its ingredient set.
// Callers send the complete recipe; an empty ingredient list clears it.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id uuid.UUID, recipe *models.Recipe) (*models.Recipe, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Recipe
		if err := tx.First(&existing, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecipeNotFound
			}
			return err
		}

		if err := ensureFoodsExist(tx, recipe.Ingredients); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"name":         recipe.Name,
			"description":  recipe.Description,
			"instructions": recipe.Instructions,
		}
		if err := tx.Model(&existing).Updates(updates).Error; err != nil {
			return err
		}

		if err := tx.Where("recipe_id = ?", id).Delete(&models.Ingredient{}).Error; err != nil {
			return err
		}
		if len(recipe.Ingredients) == 0 {
			return nil
		}
		for i := range recipe.Ingredients {
			recipe.Ingredients[i].ID = 0
			recipe.Ingredients[i].RecipeID = id
			recipe.Ingredients[i].Food = models.Food{}
		}
		return tx.Create(&recipe.Ingredients).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetRecipe(ctx, id)
}

// DeleteRecipe deletes a recipe. The schema's ON DELETE CASCADE takes
// its ingredient rows with it.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}
	return s.db.WithContext(ctx).Delete(&recipe).Error
}

// ensureFoodsExist rejects ingredient rows that point at unknown foods,
// so callers get ErrFoodNotFound instead of a driver-specific foreign
// key violation.
func ensureFoodsExist(tx *gorm.DB, ingredients []models.Ingredient) error {
	if len(ingredients) == 0 {
		return nil
	}
	seen := make(map[uuid.UUID]struct{}, len(ingredients))
	ids := make([]uuid.UUID, 0, len(ingredients))
	for _, ing := range ingredients {
		if _, ok := seen[ing.FoodID]; ok {
			continue
		}
		seen[ing.FoodID] = struct{}{}
		ids = append(ids, ing.FoodID)
	}

	var count int64
	if err := tx.Model(&models.Food{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return ErrFoodNotFound
	}
	return nil
}
