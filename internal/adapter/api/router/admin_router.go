package router

import (
	"github.com/labstack/echo/v4"

	"github.com/rohit30san/thapar-olx/internal/adapter/api/handler"
	"github.com/rohit30san/thapar-olx/internal/adapter/api/middleware"
)

func SetupAdminRouter(
	e *echo.Echo,
	adminHandler *handler.AdminHandler,
	reportHandler *handler.ReportHandler,
	authMiddleware *middleware.AuthMiddleware,
	adminMiddleware *middleware.AdminMiddleware,
) {
	admin := e.Group("/v1/admin")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)

	admin.GET("/dashboard", adminHandler.GetDashboardStats)
	admin.DELETE("/listings/:id", adminHandler.RemoveListing)
	admin.GET("/users/disabled", adminHandler.ListDisabledUsers)
	admin.PATCH("/users/:id/disabled", adminHandler.SetUserDisabled)
	admin.POST("/users/:id/hide-listings", adminHandler.HideSellerListings)

	admin.GET("/reports", reportHandler.ListReports)
	admin.PATCH("/reports/:id/resolve", reportHandler.ResolveReport)
}
