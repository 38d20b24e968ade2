package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/cookbook/internal/models"
)

// ErrFoodInUse reports an attempt to delete a food that some ingredient
// row still references.
var ErrFoodInUse = errors.New("food is referenced by a recipe ingredient")

// FoodService handles food catalog operations.
type FoodService struct {
	db *gorm.DB
}

// NewFoodService creates a new FoodService instance.
func NewFoodService(db *gorm.DB) *FoodService {
	return &FoodService{db: db}
}

// CreateFood creates a new food.
func (s *FoodService) CreateFood(ctx context.Context, food *models.Food) (*models.Food, error) {
	if err := s.db.WithContext(ctx).Create(food).Error; err != nil {
		return nil, err
	}
	return food, nil
}

// GetFood retrieves a food by ID.
func (s *FoodService) GetFood(ctx context.Context, id uuid.UUID) (*models.Food, error) {
	var food models.Food
	if err := s.db.WithContext(ctx).First(&food, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFoodNotFound
		}
		return nil, err
	}
	return &food, nil
}

// ListFoods lists all foods ordered by name.
func (s *FoodService) ListFoods(ctx context.Context) ([]models.Food, error) {
	var foods []models.Food
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&foods).Error; err != nil {
		return nil, err
	}
	return foods, nil
}

// UpdateFood renames a food.
func (s *FoodService) UpdateFood(ctx context.Context, id uuid.UUID, food *models.Food) (*models.Food, error) {
	var existing models.Food
	if err := s.db.WithContext(ctx).First(&existing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFoodNotFound
		}
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&existing).Update("name", food.Name).Error; err != nil {
		return nil, err
	}
	return s.GetFood(ctx, id)
}

// DeleteFood deletes a food. Foods still referenced by an ingredient row
// are rejected with ErrFoodInUse, mirroring the schema's ON DELETE
// RESTRICT.
func (s *FoodService) DeleteFood(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var food models.Food
		if err := tx.First(&food, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFoodNotFound
			}
			return err
		}

		var refs int64
		if err := tx.Model(&models.Ingredient{}).Where("food_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return ErrFoodInUse
		}
		return tx.Delete(&food).Error
	})
}
