package models

import (
	"time"

	"github.com/google/uuid"
)

// Ingredient joins a Recipe to a Food with the measured amount and a
// free-form preparation note. The auto-increment ID keeps ingredient
// lines in the order they were written.
//
// The food foreign key and its RESTRICT action are declared here. The
// recipe cascade is declared on Recipe.Ingredients instead: gorm drops
// a constraint tag on the belongs-to side whenever the parent also
// declares the relation, so a tag here never reaches the DDL.
type Ingredient struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;index" json:"recipe_id"`
	FoodID    uuid.UUID `gorm:"type:uuid;not null;index" json:"food_id"`
	// ex. 1/8 cup = 0.125
	Amount *float64 `gorm:"type:decimal(6,3)" json:"amount,omitempty"`
	// ex. tsp, tbsp, cup, clove
	UnitOfMeasure string `gorm:"size:255" json:"unit_of_measure"`
	// ex. "2 cloves of garlic, minced"
	Description string `gorm:"type:text;not null" json:"description"`
	Recipe      Recipe `gorm:"foreignKey:RecipeID" json:"-"`
	Food        Food   `gorm:"foreignKey:FoodID;constraint:OnDelete:RESTRICT" json:"food"`
}
