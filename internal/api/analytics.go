package api

import (
	"net/http" // HTTP status codes

	"finance_tracker/internal/cache"      // Redis cache
	"finance_tracker/internal/domain"     // Importing domain models
	"finance_tracker/internal/middleware" // Current user
	"finance_tracker/internal/store"      // Persistence

	"github.com/gin-gonic/gin" // Gin web framework
)

// Analytics query parameters; zero means the default window
type (
	monthsQuery struct {
		Months int `form:"months" binding:"omitempty,min=1,max=24"`
	}
	categoryDaysQuery struct {
		Days int `form:"days" binding:"omitempty,min=1,max=365"`
	}
	dailyDaysQuery struct {
		Days int `form:"days" binding:"omitempty,min=1,max=90"`
	}
	topCategoriesQuery struct {
		Limit int    `form:"limit" binding:"omitempty,min=1,max=20"`
		Type  string `form:"type" binding:"omitempty,oneof=income expense transfer"`
	}
	recentQuery struct {
		Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
	}
)

// UserStatsHandler returns the caller's totals, served from Redis when cached
func UserStatsHandler(analytics *store.Analytics, rc *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		userID := middleware.CurrentUser(c).ID
		key := cache.UserStatsKey(userID) // Per-user cache key
		var cached domain.Stats           // Try to get cached response
		if found, err := rc.Get(ctx, key, &cached); err == nil && found {
			c.JSON(http.StatusOK, cached) // Cache hit
			return
		}
		stats, err := analytics.Stats(ctx, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		_ = rc.Set(ctx, key, stats) // Cache the response
		c.JSON(http.StatusOK, stats)
	}
}

// MonthlyChartHandler returns completed income and expense per month
func MonthlyChartHandler(analytics *store.Analytics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q monthsQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			respondBindError(c, err)
			return
		}
		points, err := analytics.MonthlyChart(c.Request.Context(), middleware.CurrentUser(c).ID, q.Months)
		respond(c, points, err)
	}
}

// CategoryChartHandler returns completed expenses per category
func CategoryChartHandler(analytics *store.Analytics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q categoryDaysQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			respondBindError(c, err)
			return
		}
		totals, err := analytics.CategoryChart(c.Request.Context(), middleware.CurrentUser(c).ID, q.Days)
		respond(c, totals, err)
	}
}

// StatusChartHandler returns the caller's transaction count per status
func StatusChartHandler(analytics *store.Analytics) gin.HandlerFunc {
	return func(c *gin.Context) {
		counts, err := analytics.StatusChart(c.Request.Context(), middleware.CurrentUser(c).ID)
		respond(c, counts, err)
	}
}

// DailyChartHandler returns completed income and expense per day
func DailyChartHandler(analytics *store.Analytics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q dailyDaysQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			respondBindError(c, err)
			return
		}
		points, err := analytics.DailyChart(c.Request.Context(), middleware.CurrentUser(c).ID, q.Days)
		respond(c, points, err)
	}
}

// TopCategoriesHandler ranks the caller's categories by completed amount
func TopCategoriesHandler(analytics *store.Analytics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q topCategoriesQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			respondBindError(c, err)
			return
		}
		top, err := analytics.TopCategories(c.Request.Context(), middleware.CurrentUser(c).ID, q.Limit, q.Type)
		respond(c, top, err)
	}
}

// RecentActivityHandler returns the caller's latest transactions
func RecentActivityHandler(analytics *store.Analytics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q recentQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			respondBindError(c, err)
			return
		}
		views, err := analytics.RecentActivity(c.Request.Context(), middleware.CurrentUser(c).ID, q.Limit)
		respond(c, views, err)
	}
}

// respond writes 200 with body, or the error
func respond(c *gin.Context, body any, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, body)
}
