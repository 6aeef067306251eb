package router

import (
	"github.com/labstack/echo/v4"

	"github.com/rohit30san/thapar-olx/internal/adapter/api/handler"
	"github.com/rohit30san/thapar-olx/internal/adapter/api/middleware"
)

func SetupUserRouter(e *echo.Echo, userHandler *handler.UserHandler, authMiddleware *middleware.AuthMiddleware) {
	me := e.Group("/v1/users/me")
	me.Use(authMiddleware.Authenticate)

	me.GET("", userHandler.GetProfile)
	me.PATCH("", userHandler.UpdateProfile)

	e.GET("/v1/users/:id", userHandler.GetSellerProfile)
}
