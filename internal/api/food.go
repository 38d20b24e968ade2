package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/cookbook/internal/models"
	"github.com/pageza/cookbook/internal/service"
)

// FoodHandler serves the food admin API.
type FoodHandler struct {
	foods service.IFoodService
}

func NewFoodHandler(foods service.IFoodService) *FoodHandler {
	return &FoodHandler{foods: foods}
}

func (h *FoodHandler) RegisterRoutes(router *gin.RouterGroup) {
	foods := router.Group("/foods")
	{
		foods.GET("", h.ListFoods)
		foods.GET("/:id", h.GetFood)
		foods.POST("", h.CreateFood)
		foods.PUT("/:id", h.UpdateFood)
		foods.DELETE("/:id", h.DeleteFood)
	}
}

func (h *FoodHandler) ListFoods(c *gin.Context) {
	foods, err := h.foods.ListFoods(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch foods"})
		return
	}
	if foods == nil {
		foods = []models.Food{}
	}
	c.JSON(http.StatusOK, gin.H{"foods": foods})
}

func (h *FoodHandler) GetFood(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid food ID"})
		return
	}

	food, err := h.foods.GetFood(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrFoodNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Food not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch food"})
		return
	}
	c.JSON(http.StatusOK, food)
}

func (h *FoodHandler) CreateFood(c *gin.Context) {
	var food models.Food
	if err := c.ShouldBindJSON(&food); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.foods.CreateFood(c.Request.Context(), &food)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create food"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *FoodHandler) UpdateFood(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid food ID"})
		return
	}

	var food models.Food
	if err := c.ShouldBindJSON(&food); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.foods.UpdateFood(c.Request.Context(), id, &food)
	if err != nil {
		if errors.Is(err, service.ErrFoodNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Food not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update food"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteFood removes a food unless an ingredient row still references
// it, in which case the client gets a 409.
func (h *FoodHandler) DeleteFood(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid food ID"})
		return
	}

	if err := h.foods.DeleteFood(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrFoodNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Food not found"})
		case errors.Is(err, service.ErrFoodInUse):
			c.JSON(http.StatusConflict, gin.H{"error": "Food is referenced by a recipe"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete food"})
		}
		return
	}
	c.Status(http.StatusNoContent)
}
