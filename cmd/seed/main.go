package main

import (
	"log"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/pageza/cookbook/config"
	"github.com/pageza/cookbook/internal/database"
	"github.com/pageza/cookbook/internal/models"
)

type ingredientEntry struct {
	food        string
	amount      *float64
	unit        string
	description string
}

type recipeEntry struct {
	name         string
	description  string
	instructions string
	ingredients  []ingredientEntry
}

func amt(v float64) *float64 { return &v }

var catalog = []recipeEntry{
	{
		name:         "Garlic Bread",
		description:  "Crusty loaf toasted with garlic butter.",
		instructions: "Mash the garlic into the softened butter. Split the loaf, spread the butter, drizzle with olive oil and broil until golden.",
		ingredients: []ingredientEntry{
			{food: "Bread", amount: amt(1), unit: "loaf", description: "split lengthwise"},
			{food: "Garlic", amount: amt(2), unit: "clove", description: "minced"},
			{food: "Butter", amount: amt(0.5), unit: "cup", description: "softened"},
			{food: "Olive Oil", amount: amt(0.25), unit: "cup", description: "extra virgin"},
		},
	},
	{
		name:         "Spaghetti al Pomodoro",
		description:  "Pasta in a simple tomato and basil sauce.",
		instructions: "Sweat the garlic in olive oil, add the tomatoes and simmer 20 minutes. Toss with the cooked spaghetti, basil and salt.",
		ingredients: []ingredientEntry{
			{food: "Spaghetti", amount: amt(1), unit: "lb", description: "cooked al dente"},
			{food: "Tomato", amount: amt(6), unit: "", description: "crushed"},
			{food: "Garlic", amount: amt(3), unit: "clove", description: "sliced"},
			{food: "Olive Oil", amount: amt(2), unit: "tbsp", description: ""},
			{food: "Basil", amount: amt(8), unit: "leaf", description: "torn"},
			{food: "Salt", description: "to taste"},
		},
	},
	{
		name:         "Scrambled Eggs",
		description:  "Soft scrambled eggs finished with butter.",
		instructions: "Whisk the eggs with a pinch of salt. Cook low and slow, stirring constantly, and finish with butter off the heat.",
		ingredients: []ingredientEntry{
			{food: "Egg", amount: amt(3), unit: "", description: "whisked"},
			{food: "Butter", amount: amt(1), unit: "tbsp", description: ""},
			{food: "Salt", description: "pinch"},
		},
	},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env vars")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	foods, err := seedFoods(db)
	if err != nil {
		log.Fatalf("Failed to seed foods: %v", err)
	}

	for _, entry := range catalog {
		created, err := seedRecipe(db, foods, entry)
		if err != nil {
			log.Fatalf("Failed to seed recipe %q: %v", entry.name, err)
		}
		if created {
			log.Printf("Created recipe: %s", entry.name)
		} else {
			log.Printf("Recipe already exists, skipping: %s", entry.name)
		}
	}

	log.Println("Seeding complete")
}

// seedFoods upserts every food the catalog mentions and returns them
// keyed by name.
func seedFoods(db *gorm.DB) (map[string]models.Food, error) {
	names := map[string]struct{}{}
	for _, entry := range catalog {
		for _, ing := range entry.ingredients {
			names[ing.food] = struct{}{}
		}
	}

	foods := make(map[string]models.Food, len(names))
	for name := range names {
		var food models.Food
		if err := db.Where(models.Food{Name: name}).FirstOrCreate(&food).Error; err != nil {
			return nil, err
		}
		foods[name] = food
	}
	return foods, nil
}

// seedRecipe creates the recipe unless one with the same name already
// exists, keeping reruns idempotent.
func seedRecipe(db *gorm.DB, foods map[string]models.Food, entry recipeEntry) (bool, error) {
	var count int64
	if err := db.Model(&models.Recipe{}).Where("name = ?", entry.name).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	recipe := models.Recipe{
		Name:         entry.name,
		Description:  entry.description,
		Instructions: entry.instructions,
	}
	for _, ing := range entry.ingredients {
		recipe.Ingredients = append(recipe.Ingredients, models.Ingredient{
			FoodID:        foods[ing.food].ID,
			Amount:        ing.amount,
			UnitOfMeasure: ing.unit,
			Description:   ing.description,
		})
	}

	if err := db.Create(&recipe).Error; err != nil {
		return false, err
	}
	return true, nil
}
