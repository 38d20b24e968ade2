package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recipe is a named preparation of food. Its composition lives in the
// Ingredients rows; deleting a recipe deletes those rows with it.
type Recipe struct {
	ID           uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	Name         string       `gorm:"size:255;not null" json:"name"`
	Description  string       `gorm:"type:text" json:"description"`
	Instructions string       `gorm:"type:text" json:"instructions"`
	Ingredients  []Ingredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
