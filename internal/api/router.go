package api

import (
	"net/http" // HTTP status codes

	"finance_tracker/internal/auth"       // Token issuing
	"finance_tracker/internal/cache"      // Redis cache
	"finance_tracker/internal/middleware" // Custom package for middleware
	"finance_tracker/internal/store"      // Persistence

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// Deps are the collaborators shared by the handlers
type Deps struct {
	Users      *store.UserStore
	Categories *store.CategoryStore
	Ledger     *store.Ledger
	Audit      *store.AuditTrail
	Analytics  *store.Analytics
	Issuer     *auth.TokenIssuer
	Cache      *cache.Cache // Nil disables caching
}

// NewDeps wires the stores over one database handle
func NewDeps(db *gorm.DB, issuer *auth.TokenIssuer, rc *cache.Cache) Deps {
	return Deps{
		Users:      store.NewUserStore(db),
		Categories: store.NewCategoryStore(db),
		Ledger:     store.NewLedger(db),
		Audit:      store.NewAuditTrail(db),
		Analytics:  store.NewAnalytics(db),
		Issuer:     issuer,
		Cache:      rc,
	}
}

// NewRouter builds the gin engine with every route
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()                                                     // Gin router instance
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger()) // Panic recovery and request logs

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Finance Tracker API", "status": "ok"})
	})

	jwt := middleware.JWTAuthMiddleware(d.Issuer, d.Users) // Bearer token guard

	// Auth routes
	authGroup := r.Group("/auth")
	authGroup.POST("/register", RegisterHandler(d.Users, d.Issuer, d.Cache)) // Registration endpoint
	authGroup.POST("/login", LoginHandler(d.Users, d.Issuer))                // Login endpoint
	authGroup.POST("/logout", jwt, LogoutHandler())                          // Logout endpoint
	authGroup.GET("/me", jwt, MeHandler())                                   // Current user endpoint

	// Transaction routes (protected by JWT)
	txGroup := r.Group("/transactions", jwt)
	txGroup.GET("", ListTransactionsHandler(d.Ledger))                              // List endpoint
	txGroup.POST("", CreateTransactionHandler(d.Ledger, d.Cache))                   // Create endpoint
	txGroup.GET("/categories", ListCategoriesHandler(d.Categories, d.Cache))        // List categories
	txGroup.GET("/categories/:id", GetCategoryHandler(d.Categories))                // Get category
	txGroup.POST("/categories", CreateCategoryHandler(d.Categories, d.Cache))       // Create category
	txGroup.PUT("/categories/:id", UpdateCategoryHandler(d.Categories, d.Cache))    // Update category
	txGroup.DELETE("/categories/:id", DeleteCategoryHandler(d.Categories, d.Cache)) // Delete category
	txGroup.GET("/:id", GetTransactionHandler(d.Ledger))                            // Get endpoint
	txGroup.PUT("/:id", UpdateTransactionHandler(d.Ledger, d.Cache))                // Update endpoint
	txGroup.DELETE("/:id", DeleteTransactionHandler(d.Ledger, d.Cache))             // Delete endpoint
	txGroup.GET("/:id/history", TransactionHistoryHandler(d.Audit))                 // History endpoint

	// Admin routes (protected, admin only)
	adminGroup := r.Group("/admin", jwt, middleware.AdminOnlyMiddleware())
	adminGroup.GET("/users", ListUsersHandler(d.Users))                                        // List users endpoint
	adminGroup.PUT("/users/:id", UpdateUserHandler(d.Users, d.Cache))                          // Update user endpoint
	adminGroup.DELETE("/users/:id", DeleteUserHandler(d.Users, d.Cache))                       // Delete user endpoint
	adminGroup.GET("/stats", AdminStatsHandler(d.Users, d.Cache))                              // Dashboard stats
	adminGroup.GET("/transactions/pending", PendingTransactionsHandler(d.Ledger))              // Moderation queue
	adminGroup.PUT("/transactions/:id/status", SetTransactionStatusHandler(d.Ledger, d.Cache)) // Approve or reject

	// Analytics routes (protected by JWT)
	analyticsGroup := r.Group("/analytics", jwt)
	analyticsGroup.GET("/stats", UserStatsHandler(d.Analytics, d.Cache))       // Totals
	analyticsGroup.GET("/chart/monthly", MonthlyChartHandler(d.Analytics))     // Per month
	analyticsGroup.GET("/chart/category", CategoryChartHandler(d.Analytics))   // Per category
	analyticsGroup.GET("/chart/status", StatusChartHandler(d.Analytics))       // Per status
	analyticsGroup.GET("/chart/daily", DailyChartHandler(d.Analytics))         // Per day
	analyticsGroup.GET("/top-categories", TopCategoriesHandler(d.Analytics))   // Ranking
	analyticsGroup.GET("/recent-activity", RecentActivityHandler(d.Analytics)) // Latest rows

	return r
}
