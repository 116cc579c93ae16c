package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/wavechat/wavechat-backend/internal/api/handlers"
	"github.com/wavechat/wavechat-backend/internal/api/middleware"
	"github.com/wavechat/wavechat-backend/internal/config"
	"github.com/wavechat/wavechat-backend/internal/services"
	"github.com/wavechat/wavechat-backend/pkg/logger"
	"gorm.io/gorm"
)

func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config) {
	// Middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RateLimitMiddleware(cfg))

	// Initialize services
	emailService := services.NewEmailService(cfg)
	validationService := services.NewValidationService(cfg.AbstractEmailAPIKey)
	reviewService := services.NewReviewService(db)
	contactService := services.NewContactService(db, emailService, validationService, cfg.OperatorEmail)

	// Initialize handlers
	reviewHandler := handlers.NewReviewHandler(reviewService)
	contactHandler := handlers.NewContactHandler(contactService)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "message": "Server is running"})
	})

	// Review routes. The literal /reviews/user route is registered before
	// /reviews/:id so "user" is never parsed as a review id.
	reviews := router.Group("/reviews")
	{
		reviews.GET("", reviewHandler.GetReviews)
		reviews.GET("/stats", reviewHandler.GetStats)
		reviews.GET("/user", middleware.AuthMiddleware(cfg), reviewHandler.GetUserReviews)
		reviews.GET("/:id", reviewHandler.GetReview)
		reviews.POST("", middleware.AuthMiddleware(cfg), reviewHandler.CreateReview)
		reviews.PUT("/:id", middleware.AuthMiddleware(cfg), reviewHandler.UpdateReview)
		reviews.DELETE("/:id", middleware.AuthMiddleware(cfg), reviewHandler.DeleteReview)
		reviews.PUT("/:id/like", middleware.AuthMiddleware(cfg), reviewHandler.ToggleLike)
		reviews.PUT("/:id/helpful", middleware.AuthMiddleware(cfg), reviewHandler.ToggleHelpful)
	}

	// Contact routes: submission is public, management is operator-only.
	contact := router.Group("/contact")
	{
		contact.POST("/submit", contactHandler.SubmitContact)
		contact.GET("/get", middleware.AuthMiddleware(cfg), middleware.OperatorOnly(), contactHandler.GetContacts)
		contact.PUT("/update/:id", middleware.AuthMiddleware(cfg), middleware.OperatorOnly(), contactHandler.UpdateContact)
	}

	logger.Info("Routes initialized successfully")
}
