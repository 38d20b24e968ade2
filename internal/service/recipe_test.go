package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/cookbook/internal/cache"
	"github.com/pageza/cookbook/internal/models"
	"github.com/pageza/cookbook/internal/testutil"
)

func amount(v float64) *float64 { return &v }

// seedGarlicBread writes the smallest interesting catalog: one recipe
// with two ingredient lines pointing at two foods.
func seedGarlicBread(t *testing.T, db *gorm.DB) *models.Recipe {
	t.Helper()

	garlic := &models.Food{Name: "Garlic"}
	oil := &models.Food{Name: "Olive Oil"}
	require.NoError(t, db.Create(garlic).Error)
	require.NoError(t, db.Create(oil).Error)

	recipe := &models.Recipe{
		Name:         "Garlic Bread",
		Description:  "Toasted bread with garlic oil.",
		Instructions: "Mince, brush, bake at 200C for ten minutes.",
		Ingredients: []models.Ingredient{
			{FoodID: garlic.ID, Amount: amount(2), UnitOfMeasure: "cloves", Description: "minced"},
			{FoodID: oil.ID, Amount: amount(0.25), UnitOfMeasure: "cup", Description: "extra virgin"},
		},
	}
	require.NoError(t, db.Create(recipe).Error)
	return recipe
}

func newTestRecipeService(t *testing.T, ttl time.Duration) (*RecipeService, *gorm.DB, cache.Store) {
	t.Helper()
	db := testutil.NewDB(t)
	store := cache.NewMemoryStore(time.Minute)
	return NewRecipeService(db, store, ttl), db, store
}

func TestListRecipesLoadsIngredientsAndFoods(t *testing.T) {
	svc, db, _ := newTestRecipeService(t, time.Minute)
	seedGarlicBread(t, db)

	recipes, err := svc.ListRecipes(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, recipes, 1)

	recipe := recipes[0]
	assert.Equal(t, "Garlic Bread", recipe.Name)
	require.Len(t, recipe.Ingredients, 2)

	first, second := recipe.Ingredients[0], recipe.Ingredients[1]
	assert.Equal(t, "Garlic", first.Food.Name)
	require.NotNil(t, first.Amount)
	assert.InDelta(t, 2.0, *first.Amount, 1e-9)
	assert.Equal(t, "cloves", first.UnitOfMeasure)
	assert.Equal(t, "minced", first.Description)

	assert.Equal(t, "Olive Oil", second.Food.Name)
	require.NotNil(t, second.Amount)
	assert.InDelta(t, 0.25, *second.Amount, 1e-9)
	assert.Equal(t, "cup", second.UnitOfMeasure)
	assert.Equal(t, "extra virgin", second.Description)
}

func TestListRecipesEmptyIngredients(t *testing.T) {
	svc, db, _ := newTestRecipeService(t, time.Minute)
	require.NoError(t, db.Create(&models.Recipe{Name: "Boiled Water"}).Error)

	recipes, err := svc.ListRecipes(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Empty(t, recipes[0].Ingredients)
}

func TestListRecipesCachedServesSnapshot(t *testing.T) {
	svc, db, store := newTestRecipeService(t, time.Minute)
	seedGarlicBread(t, db)
	ctx := context.Background()

	first, err := svc.ListRecipes(ctx, true)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// The listing landed in the store under the fixed key.
	_, err = store.Get(ctx, recipesCacheKey)
	require.NoError(t, err)

	// A write between cached calls must not show up: the second call
	// reads the snapshot instead of the tables.
	require.NoError(t, db.Create(&models.Recipe{Name: "Toast"}).Error)

	second, err := svc.ListRecipes(ctx, true)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, first[0].Name, second[0].Name)
	require.Len(t, second[0].Ingredients, 2)
	assert.Equal(t, "Garlic", second[0].Ingredients[0].Food.Name)

	// Bypassing the cache sees the new row immediately.
	fresh, err := svc.ListRecipes(ctx, false)
	require.NoError(t, err)
	assert.Len(t, fresh, 2)
}

func TestListRecipesCacheExpiryTriggersRefetch(t *testing.T) {
	svc, db, _ := newTestRecipeService(t, 50*time.Millisecond)
	seedGarlicBread(t, db)
	ctx := context.Background()

	first, err := svc.ListRecipes(ctx, true)
	require.NoError(t, err)
	require.Len(t, first, 1)

	require.NoError(t, db.Create(&models.Recipe{Name: "Toast"}).Error)
	time.Sleep(120 * time.Millisecond)

	// Entry expired: this call fetches fresh data and repopulates.
	second, err := svc.ListRecipes(ctx, true)
	require.NoError(t, err)
	assert.Len(t, second, 2)

	// The repopulated entry serves the next cached call.
	require.NoError(t, db.Create(&models.Recipe{Name: "Croutons"}).Error)
	third, err := svc.ListRecipes(ctx, true)
	require.NoError(t, err)
	assert.Len(t, third, 2)
}

// failingStore stands in for an unreachable cache backend.
type failingStore struct {
	getErr error
	setErr error
}

func (f *failingStore) Get(ctx context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return nil, cache.ErrCacheMiss
}

func (f *failingStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return f.setErr
}

func (f *failingStore) Delete(ctx context.Context, keys ...string) error { return nil }

func (f *failingStore) Ping(ctx context.Context) error { return nil }

func (f *failingStore) Close() error { return nil }

func TestListRecipesCacheFailuresPropagate(t *testing.T) {
	db := testutil.NewDB(t)
	seedGarlicBread(t, db)
	ctx := context.Background()

	backendDown := errors.New("connection refused")

	// A broken read fails the lookup instead of falling back to the tables.
	svc := NewRecipeService(db, &failingStore{getErr: backendDown}, time.Minute)
	_, err := svc.ListRecipes(ctx, true)
	require.ErrorIs(t, err, backendDown)

	// So does a broken write after a miss.
	svc = NewRecipeService(db, &failingStore{setErr: backendDown}, time.Minute)
	_, err = svc.ListRecipes(ctx, true)
	require.ErrorIs(t, err, backendDown)

	// Uncached calls never touch the store.
	recipes, err := svc.ListRecipes(ctx, false)
	require.NoError(t, err)
	assert.Len(t, recipes, 1)
}

func TestListRecipesCorruptCacheEntry(t *testing.T) {
	svc, db, store := newTestRecipeService(t, time.Minute)
	seedGarlicBread(t, db)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, recipesCacheKey, []byte("{not json"), time.Minute))

	_, err := svc.ListRecipes(ctx, true)
	assert.ErrorContains(t, err, "decode cached recipes")
}

func TestGetRecipeNotFound(t *testing.T) {
	svc, _, _ := newTestRecipeService(t, time.Minute)

	_, err := svc.GetRecipe(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

func TestCreateRecipeWithIngredients(t *testing.T) {
	svc, db, _ := newTestRecipeService(t, time.Minute)
	ctx := context.Background()

	butter := &models.Food{Name: "Butter"}
	require.NoError(t, db.Create(butter).Error)

	created, err := svc.CreateRecipe(ctx, &models.Recipe{
		Name:        "Brown Butter",
		Description: "Butter, browned.",
		Ingredients: []models.Ingredient{
			{FoodID: butter.ID, Amount: amount(0.5), UnitOfMeasure: "cup", Description: "cubed"},
		},
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	require.Len(t, created.Ingredients, 1)
	assert.Equal(t, "Butter", created.Ingredients[0].Food.Name)
	assert.Equal(t, created.ID, created.Ingredients[0].RecipeID)
}

func TestCreateRecipeRejectsUnknownFood(t *testing.T) {
	svc, db, _ := newTestRecipeService(t, time.Minute)

	_, err := svc.CreateRecipe(context.Background(), &models.Recipe{
		Name: "Mystery Stew",
		Ingredients: []models.Ingredient{
			{FoodID: uuid.New(), Description: "unknown"},
		},
	})
	assert.ErrorIs(t, err, ErrFoodNotFound)

	// The whole transaction rolled back: no orphaned recipe row.
	var count int64
	require.NoError(t, db.Model(&models.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateRecipeReplacesIngredients(t *testing.T) {
	svc, db, _ := newTestRecipeService(t, time.Minute)
	ctx := context.Background()
	recipe := seedGarlicBread(t, db)

	salt := &models.Food{Name: "Salt"}
	require.NoError(t, db.Create(salt).Error)

	updated, err := svc.UpdateRecipe(ctx, recipe.ID, &models.Recipe{
		Name:         "Salted Garlic Bread",
		Description:  recipe.Description,
		Instructions: recipe.Instructions,
		Ingredients: []models.Ingredient{
			{FoodID: salt.ID, Amount: amount(0.125), UnitOfMeasure: "tsp", Description: "flaky"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Salted Garlic Bread", updated.Name)
	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, "Salt", updated.Ingredients[0].Food.Name)

	// The old ingredient rows are gone, not orphaned.
	var count int64
	require.NoError(t, db.Model(&models.Ingredient{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpdateRecipeNotFound(t *testing.T) {
	svc, _, _ := newTestRecipeService(t, time.Minute)

	_, err := svc.UpdateRecipe(context.Background(), uuid.New(), &models.Recipe{Name: "Ghost"})
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

func TestDeleteRecipeCascadesToIngredients(t *testing.T) {
	svc, db, _ := newTestRecipeService(t, time.Minute)
	ctx := context.Background()
	recipe := seedGarlicBread(t, db)

	require.NoError(t, svc.DeleteRecipe(ctx, recipe.ID))

	var ingredients int64
	require.NoError(t, db.Model(&models.Ingredient{}).Count(&ingredients).Error)
	assert.Zero(t, ingredients)

	// The foods themselves stay.
	var foods int64
	require.NoError(t, db.Model(&models.Food{}).Count(&foods).Error)
	assert.EqualValues(t, 2, foods)

	assert.ErrorIs(t, svc.DeleteRecipe(ctx, recipe.ID), ErrRecipeNotFound)
}
