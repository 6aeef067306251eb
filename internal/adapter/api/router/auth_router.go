package router

import (
	"github.com/labstack/echo/v4"

	"github.com/rohit30san/thapar-olx/internal/adapter/api/handler"
	"github.com/rohit30san/thapar-olx/internal/adapter/api/middleware"
	"github.com/rohit30san/thapar-olx/internal/infrastructure/ratelimit"
)

func SetupAuthRouter(e *echo.Echo, authHandler *handler.AuthHandler, authMiddleware *middleware.AuthMiddleware, rl *ratelimit.RateLimiter) {
	auth := e.Group("/v1/auth")
	auth.POST("/signup", authHandler.Signup, middleware.RateLimitByIP(rl, ratelimit.ActionSignup))

	authenticated := auth.Group("")
	authenticated.Use(authMiddleware.Authenticate)
	authenticated.GET("/me", authHandler.Me)
	authenticated.GET("/verification", authHandler.CheckVerification)
	authenticated.POST("/verification/resend", authHandler.ResendVerification)
}
