package router

import (
	"github.com/labstack/echo/v4"

	"github.com/rohit30san/thapar-olx/internal/adapter/api/handler"
	"github.com/rohit30san/thapar-olx/internal/adapter/api/middleware"
)

func SetupListingRouter(
	e *echo.Echo,
	listingHandler *handler.ListingHandler,
	dealHandler *handler.DealHandler,
	conversationHandler *handler.ConversationHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// Public routes
	listings := e.Group("/v1/listings")
	listings.GET("", listingHandler.ListListings)
	listings.GET("/:id", listingHandler.GetListing)
	e.GET("/v1/users/:id/listings", listingHandler.ListSellerListings)

	// Protected routes
	protected := e.Group("/v1/listings")
	protected.Use(authMiddleware.Authenticate)
	protected.POST("", listingHandler.CreateListing)
	protected.POST("/images", listingHandler.UploadImages)
	protected.DELETE("/:id", listingHandler.DeleteListing)
	protected.POST("/:id/deals", dealHandler.CreateDeal)
	protected.POST("/:id/conversations", conversationHandler.MessageSeller)
}
