package router

import (
	"github.com/labstack/echo/v4"

	"github.com/rohit30san/thapar-olx/internal/adapter/api/handler"
	"github.com/rohit30san/thapar-olx/internal/adapter/api/middleware"
)

func SetupDealRouter(e *echo.Echo, dealHandler *handler.DealHandler, authMiddleware *middleware.AuthMiddleware) {
	deals := e.Group("/v1/deals")
	deals.Use(authMiddleware.Authenticate)

	deals.GET("", dealHandler.ListMyDeals)
	deals.GET("/:id", dealHandler.GetDeal)
	deals.PATCH("/:id/status", dealHandler.TransitionDeal)
	deals.POST("/:id/retry", dealHandler.RetryDealSync)
}
