package api

import (
	"net/http" // HTTP status codes

	"finance_tracker/internal/cache"  // Redis cache
	"finance_tracker/internal/domain" // Importing domain models
	"finance_tracker/internal/store"  // Persistence

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// CategoryRequest is the creation payload
type CategoryRequest struct {
	Name        string  `json:"name" binding:"required,max=100"` // Unique name
	Description *string `json:"description"`                     // Optional description
	Color       string  `json:"color" binding:"max=20"`          // Defaults to #1976d2
	Icon        string  `json:"icon" binding:"max=50"`           // Defaults to payment
}

// CategoryUpdateRequest is a partial update
type CategoryUpdateRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=100"` // New name
	Description *string `json:"description"`                      // New description
	Color       *string `json:"color" binding:"omitempty,max=20"` // New color
	Icon        *string `json:"icon" binding:"omitempty,max=50"`  // New icon
}

// ListCategoriesHandler returns every category, served from Redis when cached
func ListCategoriesHandler(categories *store.CategoryStore, rc *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var cached []domain.Category // Try to get cached response
		if found, err := rc.Get(ctx, cache.CategoriesKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, cached) // Cache hit
			return
		}
		list, err := categories.List(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		_ = rc.Set(ctx, cache.CategoriesKey, list) // Cache the response
		c.JSON(http.StatusOK, list)
	}
}

// GetCategoryHandler returns one category
func GetCategoryHandler(categories *store.CategoryStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		category, err := categories.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err) // Unknown category
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

// CreateCategoryHandler adds a category
func CreateCategoryHandler(categories *store.CategoryStore, rc *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CategoryRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		category, err := categories.Create(c.Request.Context(), domain.CategoryInput{
			Name:        req.Name,
			Description: req.Description,
			Color:       req.Color,
			Icon:        req.Icon,
		})
		if err != nil {
			respondError(c, err) // Duplicate name
			return
		}
		logrus.WithField("category_id", category.ID).Info("Category created")
		_ = rc.Delete(c.Request.Context(), cache.CategoriesKey) // Invalidate list cache
		c.JSON(http.StatusOK, category)
	}
}

// UpdateCategoryHandler applies a partial update to a category
func UpdateCategoryHandler(categories *store.CategoryStore, rc *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var req CategoryUpdateRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		category, err := categories.Update(c.Request.Context(), id, domain.CategoryPatch{
			Name:        req.Name,
			Description: req.Description,
			Color:       req.Color,
			Icon:        req.Icon,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		_ = rc.Delete(c.Request.Context(), cache.CategoriesKey) // Invalidate list cache
		c.JSON(http.StatusOK, category)
	}
}

// DeleteCategoryHandler removes a category; its transactions become uncategorized
func DeleteCategoryHandler(categories *store.CategoryStore, rc *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		if err := categories.Delete(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		logrus.WithField("category_id", id).Info("Category deleted")
		_ = rc.Delete(c.Request.Context(), cache.CategoriesKey) // Invalidate list cache
		c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
	}
}
