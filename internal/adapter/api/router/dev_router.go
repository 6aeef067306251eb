package router

import (
	"github.com/labstack/echo/v4"

	"github.com/rohit30san/thapar-olx/internal/adapter/api/handler"
)

func SetupDevRouter(e *echo.Echo, devHandler *handler.DevHandler) {
	e.POST("/dev/token", devHandler.IssueToken)
	e.GET("/dev/verify", devHandler.Verify)
	e.GET("/dev/uploads/*", devHandler.ServeUpload)
}
