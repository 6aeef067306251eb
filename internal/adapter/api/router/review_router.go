package router

import (
	"github.com/labstack/echo/v4"

	"github.com/rohit30san/thapar-olx/internal/adapter/api/handler"
	"github.com/rohit30san/thapar-olx/internal/adapter/api/middleware"
)

func SetupReviewRouter(
	e *echo.Echo,
	reviewHandler *handler.ReviewHandler,
	reportHandler *handler.ReportHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// Public routes
	e.GET("/v1/users/:id/reviews", reviewHandler.ListSellerReviews)
	e.GET("/v1/users/:id/rating", reviewHandler.GetSellerRating)

	// Protected routes
	authenticated := e.Group("/v1")
	authenticated.Use(authMiddleware.Authenticate)

	authenticated.POST("/users/:id/reviews", reviewHandler.CreateReview)
	authenticated.POST("/users/:id/reports", reportHandler.ReportSeller)
	authenticated.GET("/reviews/mine", reviewHandler.ListMyReviews)
	authenticated.DELETE("/reviews/:id", reviewHandler.DeleteReview)
}
