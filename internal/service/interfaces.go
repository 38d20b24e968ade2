package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/cookbook/internal/models"
)

// IRecipeService defines the interface for recipe catalog operations.
type IRecipeService interface {
	ListRecipes(ctx context.Context, useCache bool) ([]models.Recipe, error)
	GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	CreateRecipe(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, id uuid.UUID, recipe *models.Recipe) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, id uuid.UUID) error
}

// IFoodService defines the interface for food catalog operations.
type IFoodService interface {
	ListFoods(ctx context.Context) ([]models.Food, error)
	GetFood(ctx context.Context, id uuid.UUID) (*models.Food, error)
	CreateFood(ctx context.Context, food *models.Food) (*models.Food, error)
	UpdateFood(ctx context.Context, id uuid.UUID, food *models.Food) (*models.Food, error)
	DeleteFood(ctx context.Context, id uuid.UUID) error
}
